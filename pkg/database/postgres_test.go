package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/student-records-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "app", Password: "secret", Name: "student_management", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=student_management sslmode=disable", dsn)
}

func TestUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("create student: %w", &pq.Error{Code: "23505", Constraint: "students_email_key"})

	constraint, ok := UniqueViolation(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "students_email_key", constraint)

	_, ok = UniqueViolation(&pq.Error{Code: "23503", Constraint: "students_fk"})
	assert.False(t, ok)

	_, ok = UniqueViolation(errors.New("boom"))
	assert.False(t, ok)
}
