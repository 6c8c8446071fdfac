package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

// positiveIntQuery reads an optional integer query parameter in [1, max].
func positiveIntQuery(c *gin.Context, key string, fallback, max int) (int, *appErrors.FieldError) {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return 0, &appErrors.FieldError{Field: key, Message: fmt.Sprintf("%s must be a positive integer", key)}
	}
	if value > max {
		return 0, &appErrors.FieldError{Field: key, Message: fmt.Sprintf("%s must not exceed %d", key, max)}
	}
	return value, nil
}

// listPaging parses page and limit. The page is rejected when its offset
// would pass models.MaxListOffset.
func listPaging(c *gin.Context) (page, limit int, problems []appErrors.FieldError) {
	page, pageProblem := positiveIntQuery(c, "page", defaultPage, math.MaxInt32)
	if pageProblem != nil {
		problems = append(problems, *pageProblem)
	}
	limit, limitProblem := positiveIntQuery(c, "limit", defaultLimit, models.MaxListLimit)
	if limitProblem != nil {
		problems = append(problems, *limitProblem)
	}
	if len(problems) == 0 && page-1 > models.MaxListOffset/limit {
		problems = append(problems, appErrors.FieldError{Field: "page", Message: "page is out of range"})
	}
	return page, limit, problems
}

// recordID returns the :id path parameter when it is a well-formed UUID.
func recordID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// bindJSON decodes the request body into dest. An empty body leaves dest at
// its zero value so the field validator can report every missing field.
func bindJSON(c *gin.Context, dest interface{}) error {
	err := c.ShouldBindJSON(dest)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return appErrors.Validation([]appErrors.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be a JSON %s", typeErr.Field, typeErr.Type.Kind()),
		}})
	}
	return appErrors.Validation([]appErrors.FieldError{{Field: "body", Message: "Request body must be a JSON object"}})
}
