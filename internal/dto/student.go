package dto

import "github.com/noah-isme/student-records-api/internal/models"

// StudentPayload is the body accepted by create and update. Update is a full
// replacement, so omitted optional fields are cleared.
type StudentPayload struct {
	FirstName      string  `json:"firstName" example:"Ada"`
	LastName       string  `json:"lastName" example:"Lovelace"`
	StudentID      string  `json:"studentId" example:"S1"`
	Email          string  `json:"email" example:"ada@x.com"`
	DateOfBirth    string  `json:"dateOfBirth" example:"1990-01-01"`
	ContactNumber  string  `json:"contactNumber" example:"555-0001"`
	EnrollmentDate string  `json:"enrollmentDate" example:"2020-01-01"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	Status         string  `json:"status,omitempty" example:"Enrolled"`
}

// StudentListResponse is returned by the paginated list endpoint.
type StudentListResponse struct {
	Students   []models.Student  `json:"students"`
	Pagination models.Pagination `json:"pagination"`
}

// StudentSearchResponse is returned by the search endpoint.
type StudentSearchResponse struct {
	Students []models.Student `json:"students"`
	Count    int              `json:"count"`
}

// StudentMutationResponse wraps a created or updated record.
type StudentMutationResponse struct {
	Message string          `json:"message"`
	Student *models.Student `json:"student"`
}

// StudentDeletedResponse carries the record as it was before removal.
type StudentDeletedResponse struct {
	Message        string          `json:"message"`
	DeletedStudent *models.Student `json:"deletedStudent"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
