package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type searcherStub struct {
	students   []models.Student
	err        error
	lastFilter models.StudentSearchFilter
}

func (s *searcherStub) Search(ctx context.Context, filter models.StudentSearchFilter) ([]models.Student, error) {
	s.lastFilter = filter
	return s.students, s.err
}

func newExportServiceForTest(stub *searcherStub) *ExportService {
	svc := NewExportService(stub, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	return svc
}

func rosterStudents() []models.Student {
	return []models.Student{{
		ID: "id-1", FirstName: "Ada", LastName: "Lovelace", StudentID: "S1", Email: "ada@x.com",
		ContactNumber: "555-0001", Status: "Enrolled",
		DateOfBirth:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		EnrollmentDate: time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC),
	}}
}

func TestExportServiceCSV(t *testing.T) {
	stub := &searcherStub{students: rosterStudents()}
	svc := newExportServiceForTest(stub)

	result, err := svc.Export(context.Background(), "CSV", models.StudentSearchFilter{Name: "ada"})
	require.NoError(t, err)
	assert.Equal(t, "students_20240506_070809.csv", result.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", result.ContentType)
	assert.Equal(t, 1, result.Rows)
	assert.Equal(t, "ada", stub.lastFilter.Name)

	records, err := csv.NewReader(bytes.NewReader(result.Payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Student ID", "First Name", "Last Name", "Email", "Contact Number", "Date of Birth", "Enrollment Date", "Status"}, records[0])
	assert.Equal(t, []string{"S1", "Ada", "Lovelace", "ada@x.com", "555-0001", "1990-01-01", "2020-09-01", "Enrolled"}, records[1])
}

func TestExportServicePDF(t *testing.T) {
	svc := newExportServiceForTest(&searcherStub{students: rosterStudents()})

	result, err := svc.Export(context.Background(), ExportFormatPDF, models.StudentSearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Payload, []byte("%PDF")))
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	stub := &searcherStub{}
	svc := newExportServiceForTest(stub)

	_, err := svc.Export(context.Background(), "xlsx", models.StudentSearchFilter{})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "format", appErr.Fields[0].Field)
}

func TestExportServiceSearchFailure(t *testing.T) {
	svc := newExportServiceForTest(&searcherStub{err: appErrors.Internal(errors.New("down"), "failed to search students")})

	_, err := svc.Export(context.Background(), ExportFormatCSV, models.StudentSearchFilter{})
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}
