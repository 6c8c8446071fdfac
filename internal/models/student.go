package models

import (
	"fmt"
	"math"
	"time"
)

// StudentStatusEnrolled is applied when a payload omits status.
const StudentStatusEnrolled = "Enrolled"

// Student represents a learner record as persisted in the students table.
type Student struct {
	ID             string    `db:"id" json:"id"`
	FirstName      string    `db:"first_name" json:"firstName"`
	LastName       string    `db:"last_name" json:"lastName"`
	StudentID      string    `db:"student_id" json:"studentId"`
	Email          string    `db:"email" json:"email"`
	DateOfBirth    time.Time `db:"date_of_birth" json:"dateOfBirth"`
	ContactNumber  string    `db:"contact_number" json:"contactNumber"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollmentDate"`
	ProfilePicture *string   `db:"profile_picture" json:"profilePicture"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

const (
	// MaxListLimit caps the page size accepted by the list endpoint.
	MaxListLimit = 100
	// MaxListOffset bounds how far into the table a page may start.
	MaxListOffset = math.MaxInt32
)

// StudentListFilter holds the already-validated paging inputs for listing.
type StudentListFilter struct {
	Search string
	Page   int
	Limit  int
}

// Offset returns the number of rows skipped before the requested page.
func (f StudentListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// StudentSearchFilter holds optional substring filters. Empty fields impose no constraint.
type StudentSearchFilter struct {
	Name      string
	StudentID string
	Email     string
}

// Pagination describes the page returned by a list operation.
type Pagination struct {
	CurrentPage   int `json:"currentPage"`
	TotalPages    int `json:"totalPages"`
	TotalStudents int `json:"totalStudents"`
	Limit         int `json:"limit"`
}

// NewPagination computes page totals for total matching rows.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = total / limit
		if total%limit != 0 {
			totalPages++
		}
	}
	return Pagination{CurrentPage: page, TotalPages: totalPages, TotalStudents: total, Limit: limit}
}

// UniqueField names a student column that must be unique across all records.
type UniqueField string

const (
	UniqueFieldStudentID     UniqueField = "student_id"
	UniqueFieldEmail         UniqueField = "email"
	UniqueFieldContactNumber UniqueField = "contact_number"
)

// UniqueFields lists unique columns in the order they are checked.
var UniqueFields = []UniqueField{UniqueFieldStudentID, UniqueFieldEmail, UniqueFieldContactNumber}

// Label is the human wording used in conflict messages.
func (f UniqueField) Label() string {
	switch f {
	case UniqueFieldStudentID:
		return "Student ID"
	case UniqueFieldEmail:
		return "email"
	case UniqueFieldContactNumber:
		return "contact number"
	default:
		return string(f)
	}
}

// Value picks the student's value for the unique field.
func (f UniqueField) Value(s *Student) string {
	switch f {
	case UniqueFieldStudentID:
		return s.StudentID
	case UniqueFieldEmail:
		return s.Email
	case UniqueFieldContactNumber:
		return s.ContactNumber
	default:
		return ""
	}
}

// DuplicateFieldError reports that storage rejected a write because a unique
// field collided with another record. Field is empty when the constraint is unknown.
type DuplicateFieldError struct {
	Field      UniqueField
	Constraint string
}

func (e *DuplicateFieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("duplicate value violates %s", e.Constraint)
	}
	return fmt.Sprintf("duplicate %s", e.Field)
}
