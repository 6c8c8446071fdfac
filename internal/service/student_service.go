package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/validation"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

const studentNotFound = "Student not found"

type studentRepository interface {
	List(ctx context.Context, filter models.StudentListFilter) ([]models.Student, int, error)
	Search(ctx context.Context, filter models.StudentSearchFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsBy(ctx context.Context, field models.UniqueField, value string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) (bool, error)
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	} else {
		validation.Register(validate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns one page of students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentListFilter) ([]models.Student, models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err), zap.Int("page", filter.Page), zap.Int("limit", filter.Limit))
		return nil, models.Pagination{}, appErrors.Internal(err, "failed to list students")
	}
	return students, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Search returns every student matching the supplied filters.
func (s *StudentService) Search(ctx context.Context, filter models.StudentSearchFilter) ([]models.Student, error) {
	students, err := s.repo.Search(ctx, filter)
	if err != nil {
		s.logger.Error("search students failed", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to search students")
	}
	return students, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	return s.load(ctx, id)
}

// Create validates and registers a new student.
func (s *StudentService) Create(ctx context.Context, payload dto.StudentPayload) (*models.Student, error) {
	if problems := validation.Student(s.validator, payload); len(problems) > 0 {
		return nil, appErrors.Validation(problems)
	}
	student := toStudent(payload)
	if err := s.ensureUnique(ctx, student, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, s.writeError(err, "create", "")
	}
	s.logger.Info("student created", zap.String("id", student.ID), zap.String("student_id", student.StudentID))
	return student, nil
}

// Update replaces every field of an existing student. The payload is
// validated before id is examined, so a malformed id with a bad body still
// yields the validation failure.
func (s *StudentService) Update(ctx context.Context, id string, payload dto.StudentPayload) (*models.Student, error) {
	if problems := validation.Student(s.validator, payload); len(problems) > 0 {
		return nil, appErrors.Validation(problems)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, studentNotFound)
	}
	current, err := s.load(ctx, parsed.String())
	if err != nil {
		return nil, err
	}
	student := toStudent(payload)
	student.ID = current.ID
	student.CreatedAt = current.CreatedAt
	if err := s.ensureUnique(ctx, student, current.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, s.writeError(err, "update", id)
	}
	s.logger.Info("student updated", zap.String("id", student.ID))
	return student, nil
}

// Delete removes a student permanently and returns the record as it was.
func (s *StudentService) Delete(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete student failed", zap.String("id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to delete student")
	}
	if !removed {
		return nil, appErrors.Clone(appErrors.ErrNotFound, studentNotFound)
	}
	s.logger.Info("student deleted", zap.String("id", id))
	return student, nil
}

func (s *StudentService) load(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, studentNotFound)
		}
		s.logger.Error("load student failed", zap.String("id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load student")
	}
	return student, nil
}

// ensureUnique checks studentId, email and contactNumber in that order and
// stops at the first conflict.
func (s *StudentService) ensureUnique(ctx context.Context, student *models.Student, excludeID string) error {
	for _, field := range models.UniqueFields {
		exists, err := s.repo.ExistsBy(ctx, field, field.Value(student), excludeID)
		if err != nil {
			s.logger.Error("uniqueness check failed", zap.String("field", string(field)), zap.Error(err))
			return appErrors.Internal(err, fmt.Sprintf("failed to validate %s", field.Label()))
		}
		if exists {
			s.logger.Debug("student conflict", zap.String("field", string(field)))
			return conflict(field)
		}
	}
	return nil
}

// writeError maps a failed INSERT/UPDATE. A unique violation that slipped past
// the pre-checks is reported exactly like a pre-check conflict.
func (s *StudentService) writeError(err error, op, id string) error {
	var dup *models.DuplicateFieldError
	if errors.As(err, &dup) {
		s.logger.Warn("unique constraint rejected write", zap.String("op", op), zap.String("constraint", dup.Constraint))
		return conflict(dup.Field)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, studentNotFound)
	}
	s.logger.Error(op+" student failed", zap.String("id", id), zap.Error(err))
	return appErrors.Internal(err, fmt.Sprintf("failed to %s student", op))
}

func conflict(field models.UniqueField) *appErrors.Error {
	if field == "" {
		return appErrors.Clone(appErrors.ErrConflict, "A student with these details already exists")
	}
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("A student with this %s already exists", field.Label()))
}

// toStudent assumes the payload already passed validation.
func toStudent(payload dto.StudentPayload) *models.Student {
	dob, _ := validation.ParseDate(payload.DateOfBirth)
	enrolled, _ := validation.ParseDate(payload.EnrollmentDate)
	status := payload.Status
	if strings.TrimSpace(status) == "" {
		status = models.StudentStatusEnrolled
	}
	return &models.Student{
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		StudentID:      payload.StudentID,
		Email:          payload.Email,
		DateOfBirth:    dob,
		ContactNumber:  payload.ContactNumber,
		EnrollmentDate: enrolled,
		ProfilePicture: payload.ProfilePicture,
		Status:         status,
	}
}
