package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/pkg/database"
)

const studentColumns = `id, first_name, last_name, student_id, email, date_of_birth, contact_number, enrollment_date, status, profile_picture, created_at, updated_at`

// constraint names as created by db/schema.sql
var uniqueConstraints = map[string]models.UniqueField{
	"students_student_id_key":     models.UniqueFieldStudentID,
	"students_email_key":          models.UniqueFieldEmail,
	"students_contact_number_key": models.UniqueFieldContactNumber,
}

var uniqueColumns = map[models.UniqueField]string{
	models.UniqueFieldStudentID:     "student_id",
	models.UniqueFieldEmail:         "email",
	models.UniqueFieldContactNumber: "contact_number",
}

// QueryObserver receives the duration of every statement issued.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db       *sqlx.DB
	observer QueryObserver
	timeout  time.Duration
}

// NewStudentRepository constructs a StudentRepository. observer may be nil; a
// non-positive timeout leaves deadlines to the caller's context.
func NewStudentRepository(db *sqlx.DB, observer QueryObserver, timeout time.Duration) *StudentRepository {
	return &StudentRepository{db: db, observer: observer, timeout: timeout}
}

// List returns one page of students whose first or last name contains the
// search term, newest first, plus the total number of matches.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentListFilter) ([]models.Student, int, error) {
	b := newFilterBuilder().Add(Predicate{
		Columns:  []string{"first_name", "last_name"},
		Operator: OpILike,
		Value:    containsPattern(filter.Search),
	})
	where := b.Clause()
	countArgs := b.Args()
	limit := b.Bind(filter.Limit)
	offset := b.Bind(filter.Offset())

	query := fmt.Sprintf("SELECT %s FROM students%s ORDER BY created_at DESC LIMIT %s OFFSET %s", studentColumns, where, limit, offset)
	students := make([]models.Student, 0)
	if err := r.run(ctx, "students.list", func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &students, query, b.Args()...)
	}); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM students" + where
	if err := r.run(ctx, "students.count", func(ctx context.Context) error {
		return r.db.GetContext(ctx, &total, countQuery, countArgs...)
	}); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// Search returns every student matching all supplied filters, newest first.
// Empty filters are left out of the WHERE clause entirely.
func (r *StudentRepository) Search(ctx context.Context, filter models.StudentSearchFilter) ([]models.Student, error) {
	b := newFilterBuilder().
		AddIf(filter.Name != "", Predicate{Columns: []string{"first_name", "last_name"}, Operator: OpILike, Value: containsPattern(filter.Name)}).
		AddIf(filter.StudentID != "", Predicate{Columns: []string{"student_id"}, Operator: OpILike, Value: containsPattern(filter.StudentID)}).
		AddIf(filter.Email != "", Predicate{Columns: []string{"email"}, Operator: OpILike, Value: containsPattern(filter.Email)})

	query := fmt.Sprintf("SELECT %s FROM students%s ORDER BY created_at DESC", studentColumns, b.Clause())
	students := make([]models.Student, 0)
	if err := r.run(ctx, "students.search", func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &students, query, b.Args()...)
	}); err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by primary key. A missing row yields sql.ErrNoRows.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.run(ctx, "students.find", func(ctx context.Context) error {
		return r.db.GetContext(ctx, &student, query, id)
	}); err != nil {
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// ExistsBy checks if another student already holds value in the given unique
// field, optionally excluding the record with excludeID.
func (r *StudentRepository) ExistsBy(ctx context.Context, field models.UniqueField, value string, excludeID string) (bool, error) {
	column, ok := uniqueColumns[field]
	if !ok {
		return false, fmt.Errorf("unknown unique field %q", field)
	}
	b := newFilterBuilder().
		Add(Predicate{Columns: []string{column}, Operator: OpEqual, Value: value}).
		AddIf(excludeID != "", Predicate{Columns: []string{"id"}, Operator: OpNotEqual, Value: excludeID})

	query := "SELECT 1 FROM students" + b.Clause() + " LIMIT 1"
	var exists int
	err := r.run(ctx, "students.exists_"+column, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &exists, query, b.Args()...)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return true, nil
}

// Create inserts a new student and refreshes it with the stored row, including
// the storage-assigned id and timestamps.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := fmt.Sprintf(`INSERT INTO students (first_name, last_name, student_id, email, date_of_birth, contact_number, enrollment_date, profile_picture, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING %s`, studentColumns)
	err := r.run(ctx, "students.create", func(ctx context.Context) error {
		return r.db.GetContext(ctx, student, query,
			student.FirstName, student.LastName, student.StudentID, student.Email, student.DateOfBirth,
			student.ContactNumber, student.EnrollmentDate, student.ProfilePicture, student.Status)
	})
	if err != nil {
		return fmt.Errorf("create student: %w", duplicateError(err))
	}
	return nil
}

// Update overwrites every mutable column of an existing student and refreshes
// updated_at. A missing row yields sql.ErrNoRows.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`UPDATE students
        SET first_name = $1, last_name = $2, student_id = $3, email = $4, date_of_birth = $5,
            contact_number = $6, enrollment_date = $7, profile_picture = $8, status = $9, updated_at = $10
        WHERE id = $11
        RETURNING %s`, studentColumns)
	err := r.run(ctx, "students.update", func(ctx context.Context) error {
		return r.db.GetContext(ctx, student, query,
			student.FirstName, student.LastName, student.StudentID, student.Email, student.DateOfBirth,
			student.ContactNumber, student.EnrollmentDate, student.ProfilePicture, student.Status,
			student.UpdatedAt, student.ID)
	})
	if err != nil {
		return fmt.Errorf("update student: %w", duplicateError(err))
	}
	return nil
}

// Delete removes a student permanently and reports whether a row was removed.
func (r *StudentRepository) Delete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.run(ctx, "students.delete", func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	return affected > 0, nil
}

func (r *StudentRepository) run(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	start := time.Now()
	err := fn(ctx)
	if r.observer != nil {
		r.observer.ObserveDBQuery(label, time.Since(start))
	}
	return err
}

func duplicateError(err error) error {
	constraint, ok := database.UniqueViolation(err)
	if !ok {
		return err
	}
	return &models.DuplicateFieldError{Field: uniqueConstraints[constraint], Constraint: constraint}
}
