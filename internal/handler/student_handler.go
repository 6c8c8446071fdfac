package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/service"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/response"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type studentService interface {
	List(ctx context.Context, filter models.StudentListFilter) ([]models.Student, models.Pagination, error)
	Search(ctx context.Context, filter models.StudentSearchFilter) ([]models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, payload dto.StudentPayload) (*models.Student, error)
	Update(ctx context.Context, id string, payload dto.StudentPayload) (*models.Student, error)
	Delete(ctx context.Context, id string) (*models.Student, error)
}

type rosterExporter interface {
	Export(ctx context.Context, format service.ExportFormat, filter models.StudentSearchFilter) (*service.ExportResult, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
	exports  rosterExporter
}

// NewStudentHandler constructs StudentHandler. A nil exports answers the export
// route as unknown.
func NewStudentHandler(students studentService, exports rosterExporter) *StudentHandler {
	return &StudentHandler{students: students, exports: exports}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Case-insensitive match on first or last name"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.StudentListResponse
// @Failure 400 {object} response.ErrorBody
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	page, limit, problems := listPaging(c)
	if len(problems) > 0 {
		response.Error(c, appErrors.Validation(problems))
		return
	}

	filter := models.StudentListFilter{Search: c.Query("search"), Page: page, Limit: limit}
	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.StudentListResponse{Students: students, Pagination: pagination})
}

// Search godoc
// @Summary Search students
// @Tags Students
// @Produce json
// @Param name query string false "Substring of first or last name"
// @Param studentId query string false "Substring of student ID"
// @Param email query string false "Substring of email"
// @Success 200 {object} dto.StudentSearchResponse
// @Router /students/search [get]
func (h *StudentHandler) Search(c *gin.Context) {
	students, err := h.students.Search(c.Request.Context(), searchFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.StudentSearchResponse{Students: students, Count: len(students)})
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		response.Error(c, notFound())
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.StudentPayload true "Student payload"
// @Success 201 {object} dto.StudentMutationResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var payload dto.StudentPayload
	if err := bindJSON(c, &payload); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Create(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.StudentMutationResponse{Message: "Student created successfully", Student: student})
}

// Update godoc
// @Summary Replace student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.StudentPayload true "Student payload"
// @Success 200 {object} dto.StudentMutationResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var payload dto.StudentPayload
	if err := bindJSON(c, &payload); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.StudentMutationResponse{Message: "Student updated successfully", Student: student})
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.StudentDeletedResponse
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		response.Error(c, notFound())
		return
	}
	student, err := h.students.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.StudentDeletedResponse{Message: "Student deleted successfully", DeletedStudent: student})
}

// Export godoc
// @Summary Export students
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param name query string false "Substring of first or last name"
// @Param studentId query string false "Substring of student ID"
// @Param email query string false "Substring of email"
// @Success 200 {file} file
// @Router /students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrRouteNotFound, ""))
		return
	}
	format := service.ExportFormat(strings.TrimSpace(c.DefaultQuery("format", string(service.ExportFormatCSV))))
	result, err := h.exports.Export(c.Request.Context(), format, searchFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}

func searchFilter(c *gin.Context) models.StudentSearchFilter {
	return models.StudentSearchFilter{
		Name:      c.Query("name"),
		StudentID: c.Query("studentId"),
		Email:     c.Query("email"),
	}
}

func notFound() *appErrors.Error {
	return appErrors.Clone(appErrors.ErrNotFound, "Student not found")
}
