package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/export"
)

// ExportFormat names a supported roster rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

const dateLayout = "2006-01-02"

var rosterColumns = []export.Column[models.Student]{
	{Header: "Student ID", Value: func(s models.Student) string { return s.StudentID }},
	{Header: "First Name", Value: func(s models.Student) string { return s.FirstName }},
	{Header: "Last Name", Value: func(s models.Student) string { return s.LastName }},
	{Header: "Email", Value: func(s models.Student) string { return s.Email }},
	{Header: "Contact Number", Value: func(s models.Student) string { return s.ContactNumber }},
	{Header: "Date of Birth", Value: func(s models.Student) string { return s.DateOfBirth.Format(dateLayout) }},
	{Header: "Enrollment Date", Value: func(s models.Student) string { return s.EnrollmentDate.Format(dateLayout) }},
	{Header: "Status", Value: func(s models.Student) string { return s.Status }},
}

type studentSearcher interface {
	Search(ctx context.Context, filter models.StudentSearchFilter) ([]models.Student, error)
}

type renderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	ContentType() string
}

// ExportResult is a rendered roster ready to be streamed to the client.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
	Rows        int
}

// ExportService renders search results as downloadable rosters.
type ExportService struct {
	students  studentSearcher
	renderers map[ExportFormat]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with the CSV and PDF renderers.
func NewExportService(students studentSearcher, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students: students,
		renderers: map[ExportFormat]renderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Export runs a search with filter and renders the matches in format.
func (s *ExportService) Export(ctx context.Context, format ExportFormat, filter models.StudentSearchFilter) (*ExportResult, error) {
	format = ExportFormat(strings.ToLower(string(format)))
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Validation([]appErrors.FieldError{{Field: "format", Message: "Format must be one of csv, pdf"}})
	}
	students, err := s.students.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	payload, err := r.Render(export.Build(rosterColumns, students), "Student roster")
	if err != nil {
		s.logger.Error("render roster failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to render export")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("students_%s.%s", s.now().UTC().Format("20060102_150405"), format),
		ContentType: r.ContentType(),
		Payload:     payload,
		Rows:        len(students),
	}, nil
}
