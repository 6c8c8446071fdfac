package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/dto"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

func validPayload() dto.StudentPayload {
	return dto.StudentPayload{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		StudentID:      "S1",
		Email:          "ada@x.com",
		DateOfBirth:    "1990-01-01",
		ContactNumber:  "555-0001",
		EnrollmentDate: "2020-01-01",
	}
}

func fields(problems []appErrors.FieldError) []string {
	out := make([]string, 0, len(problems))
	for _, p := range problems {
		out = append(out, p.Field)
	}
	return out
}

func TestStudentValidPayload(t *testing.T) {
	problems := Student(New(), validPayload())
	assert.Empty(t, problems)
	assert.NotNil(t, problems)
}

func TestStudentEmptyPayloadReportsEveryRequiredField(t *testing.T) {
	problems := Student(New(), dto.StudentPayload{})

	assert.Equal(t, []string{"firstName", "lastName", "studentId", "email", "dateOfBirth", "contactNumber", "enrollmentDate"}, fields(problems))
	assert.Equal(t, "First name is required", problems[0].Message)
	assert.Equal(t, "Enrollment date is required", problems[6].Message)
}

func TestStudentWhitespaceOnlyFields(t *testing.T) {
	p := validPayload()
	p.FirstName = "   "
	p.Email = "  "
	p.DateOfBirth = "  "

	problems := Student(New(), p)

	// Whitespace email is present but blank, so it fails both presence and shape.
	// Whitespace dates pass presence and fail parsing.
	assert.Equal(t, []appErrors.FieldError{
		{Field: "firstName", Message: "First name is required"},
		{Field: "email", Message: "Email is required"},
		{Field: "email", Message: "Invalid email format"},
		{Field: "dateOfBirth", Message: "Invalid date format for date of birth"},
	}, problems)
}

func TestStudentFormatErrorsFollowPresenceErrors(t *testing.T) {
	p := validPayload()
	p.LastName = ""
	p.Email = "not-an-email"
	p.DateOfBirth = "1990-13-45"
	p.EnrollmentDate = "yesterday"

	problems := Student(New(), p)

	assert.Equal(t, []string{"lastName", "email", "dateOfBirth", "enrollmentDate"}, fields(problems))
	assert.Equal(t, "Invalid email format", problems[1].Message)
	assert.Equal(t, "Invalid date format for enrollment date", problems[3].Message)
}

func TestEmailShape(t *testing.T) {
	cases := map[string]bool{
		"ada@x.com":           true,
		"a.b+c@sub.domain.io": true,
		"ada@x":               false,
		"ada x@x.com":         false,
		"@x.com":              false,
		"ada@@x.com":          false,
		"ada@x.":              false,
	}
	v := New()
	for email, ok := range cases {
		err := v.Var(email, tagEmailShape)
		assert.Equal(t, ok, err == nil, email)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"1990-01-01", "1990-01-01T10:30:00Z", "1990-01-01T10:30:00", "1990-01-01 23:59:59", "1990/01/01", " 1990-01-01 "} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
	}

	for _, raw := range []string{"", "01-01-1990", "1990-02-30", "tomorrow"} {
		_, err := ParseDate(raw)
		assert.Error(t, err, raw)
	}
}
