package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

// ErrorBody is the JSON contract for every failed request.
type ErrorBody struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Errors  []appErrors.FieldError `json:"errors,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, payload interface{}) {
	noStore(c)
	c.JSON(status, payload)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	_ = c.Error(err)
	noStore(c)
	c.AbortWithStatusJSON(appErr.Status, Body(appErr))
}

// Body maps an application error onto the wire shape clients rely on.
func Body(appErr *appErrors.Error) ErrorBody {
	switch appErr.Code {
	case appErrors.ErrValidation.Code:
		body := ErrorBody{Error: appErrors.ErrValidation.Message, Errors: appErr.Fields}
		if len(appErr.Fields) == 0 {
			body.Message = appErr.Cause()
		}
		return body
	case appErrors.ErrConflict.Code:
		return ErrorBody{Error: "Conflict", Message: appErr.Message}
	case appErrors.ErrInternal.Code:
		return ErrorBody{Error: appErrors.ErrInternal.Message, Message: appErr.Cause()}
	case appErrors.ErrNotFound.Code, appErrors.ErrRouteNotFound.Code:
		return ErrorBody{Error: appErr.Message}
	default:
		body := ErrorBody{Error: appErr.Message}
		if appErr.Err != nil {
			body.Message = appErr.Err.Error()
		}
		return body
	}
}

// Recovered answers a request whose handler panicked.
func Recovered(c *gin.Context, recovered interface{}) {
	noStore(c)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{
		Error:   "Something went wrong!",
		Message: fmt.Sprint(recovered),
	})
}

// Attachment streams a generated file as a download.
func Attachment(c *gin.Context, filename, contentType string, payload []byte) {
	noStore(c)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
