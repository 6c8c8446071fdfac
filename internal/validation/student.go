// Package validation holds the field-level rules applied to student payloads
// before any storage access.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/student-records-api/internal/dto"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

const (
	tagNonBlank     = "nonblank"
	tagEmailShape   = "email_shape"
	tagCalendarDate = "calendar_date"
)

// Shape check only: local@domain.tld.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

type rule struct {
	field   string
	tag     string
	message string
	value   func(p *dto.StudentPayload) string
}

// Presence checks come first in field order, then format checks. The order
// is part of the response contract.
var studentRules = []rule{
	{"firstName", tagNonBlank, "First name is required", func(p *dto.StudentPayload) string { return p.FirstName }},
	{"lastName", tagNonBlank, "Last name is required", func(p *dto.StudentPayload) string { return p.LastName }},
	{"studentId", tagNonBlank, "Student ID is required", func(p *dto.StudentPayload) string { return p.StudentID }},
	{"email", tagNonBlank, "Email is required", func(p *dto.StudentPayload) string { return p.Email }},
	{"dateOfBirth", "required", "Date of birth is required", func(p *dto.StudentPayload) string { return p.DateOfBirth }},
	{"contactNumber", tagNonBlank, "Contact number is required", func(p *dto.StudentPayload) string { return p.ContactNumber }},
	{"enrollmentDate", "required", "Enrollment date is required", func(p *dto.StudentPayload) string { return p.EnrollmentDate }},
	{"email", "omitempty," + tagEmailShape, "Invalid email format", func(p *dto.StudentPayload) string { return p.Email }},
	{"dateOfBirth", "omitempty," + tagCalendarDate, "Invalid date format for date of birth", func(p *dto.StudentPayload) string { return p.DateOfBirth }},
	{"enrollmentDate", "omitempty," + tagCalendarDate, "Invalid date format for enrollment date", func(p *dto.StudentPayload) string { return p.EnrollmentDate }},
}

// New returns a validator with the student rule tags registered.
func New() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

// Register installs the custom tags on an existing validator instance.
func Register(v *validator.Validate) {
	_ = v.RegisterValidation(tagNonBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(tagEmailShape, func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagCalendarDate, func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
}

// Student runs every rule against the payload and returns all failures in
// rule order. An empty result means the payload is valid.
func Student(v *validator.Validate, payload dto.StudentPayload) []appErrors.FieldError {
	problems := make([]appErrors.FieldError, 0)
	for _, r := range studentRules {
		if err := v.Var(r.value(&payload), r.tag); err != nil {
			problems = append(problems, appErrors.FieldError{Field: r.field, Message: r.message})
		}
	}
	return problems
}

// ParseDate interprets raw as a calendar date, truncated to UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
