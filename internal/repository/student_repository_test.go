package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/models"
)

type recordingObserver struct {
	mu     sync.Mutex
	labels []string
}

func (o *recordingObserver) ObserveDBQuery(label string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.labels = append(o.labels, label)
}

func newStudentMock(t *testing.T) (*StudentRepository, sqlmock.Sqlmock, *recordingObserver) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	observer := &recordingObserver{}
	return NewStudentRepository(sqlx.NewDb(db, "sqlmock"), observer, time.Second), mock, observer
}

var studentRowColumns = []string{"id", "first_name", "last_name", "student_id", "email", "date_of_birth", "contact_number", "enrollment_date", "status", "profile_picture", "created_at", "updated_at"}

func studentRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows(studentRowColumns)
	now := time.Now()
	for _, id := range ids {
		rows.AddRow(id, "Ada", "Lovelace", "S-"+id, id+"@x.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), "555-"+id, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "Enrolled", nil, now, now)
	}
	return rows
}

func TestStudentRepositoryList(t *testing.T) {
	repo, mock, observer := newStudentMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+studentColumns+" FROM students WHERE (first_name ILIKE $1 OR last_name ILIKE $1) ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs("%ada%", 10, 20).
		WillReturnRows(studentRows("1", "2"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE (first_name ILIKE $1 OR last_name ILIKE $1)")).
		WithArgs("%ada%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(22))

	students, total, err := repo.List(context.Background(), models.StudentListFilter{Search: "ada", Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Equal(t, 22, total)
	assert.Nil(t, students[0].ProfilePicture)
	assert.Equal(t, []string{"students.list", "students.count"}, observer.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListEmptySearchMatchesEverything(t *testing.T) {
	repo, mock, _ := newStudentMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (first_name ILIKE $1 OR last_name ILIKE $1) ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs("%%", 10, 0).
		WillReturnRows(sqlmock.NewRows(studentRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE")).
		WithArgs("%%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	students, total, err := repo.List(context.Background(), models.StudentListFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListError(t *testing.T) {
	repo, mock, _ := newStudentMock(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	_, _, err := repo.List(context.Background(), models.StudentListFilter{Page: 1, Limit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list students")
}

func TestStudentRepositorySearchWithoutFilters(t *testing.T) {
	repo, mock, _ := newStudentMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + studentColumns + " FROM students ORDER BY created_at DESC")).
		WithArgs().
		WillReturnRows(studentRows("1"))

	students, err := repo.Search(context.Background(), models.StudentSearchFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositorySearchCombinesFilters(t *testing.T) {
	repo, mock, _ := newStudentMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE student_id ILIKE $1 AND email ILIKE $2 ORDER BY created_at DESC")).
		WithArgs("%S1%", "%x.com%").
		WillReturnRows(studentRows("1"))

	_, err := repo.Search(context.Background(), models.StudentSearchFilter{StudentID: "S1", Email: "x.com"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositorySearchAllFilters(t *testing.T) {
	repo, mock, _ := newStudentMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (first_name ILIKE $1 OR last_name ILIKE $1) AND student_id ILIKE $2 AND email ILIKE $3 ORDER BY")).
		WithArgs("%ada%", "%S%", "%@%").
		WillReturnRows(sqlmock.NewRows(studentRowColumns))

	students, err := repo.Search(context.Background(), models.StudentSearchFilter{Name: "ada", StudentID: "S", Email: "@"})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByIDNotFound(t *testing.T) {
	repo, mock, _ := newStudentMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(studentRowColumns))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryExistsBy(t *testing.T) {
	repo, mock, observer := newStudentMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE email = $1 LIMIT 1")).
		WithArgs("ada@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE student_id = $1 AND id <> $2 LIMIT 1")).
		WithArgs("S1", "id-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsBy(context.Background(), models.UniqueFieldEmail, "ada@x.com", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBy(context.Background(), models.UniqueFieldStudentID, "S1", "id-1")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, []string{"students.exists_email", "students.exists_student_id"}, observer.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsByUnknownField(t *testing.T) {
	repo, _, _ := newStudentMock(t)
	_, err := repo.ExistsBy(context.Background(), models.UniqueField("first_name"), "Ada", "")
	assert.Error(t, err)
}

func TestStudentRepositoryCreate(t *testing.T) {
	repo, mock, _ := newStudentMock(t)

	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Ada", "Lovelace", "S1", "ada@x.com", sqlmock.AnyArg(), "555-0001", sqlmock.AnyArg(), nil, "Enrolled").
		WillReturnRows(studentRows("generated"))

	student := &models.Student{FirstName: "Ada", LastName: "Lovelace", StudentID: "S1", Email: "ada@x.com", ContactNumber: "555-0001", Status: "Enrolled"}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, "generated", student.ID)
	assert.False(t, student.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateUniqueViolation(t *testing.T) {
	repo, mock, _ := newStudentMock(t)

	mock.ExpectQuery("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "students_contact_number_key"})

	err := repo.Create(context.Background(), &models.Student{StudentID: "S1"})
	var dup *models.DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, models.UniqueFieldContactNumber, dup.Field)
}

func TestStudentRepositoryUpdate(t *testing.T) {
	repo, mock, _ := newStudentMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE students")).
		WithArgs("Ada", "Byron", "S1", "ada@x.com", sqlmock.AnyArg(), "555-0001", sqlmock.AnyArg(), sqlmock.AnyArg(), "Graduated", sqlmock.AnyArg(), "id-1").
		WillReturnRows(studentRows("id-1"))

	picture := "https://cdn.example.com/ada.png"
	student := &models.Student{ID: "id-1", FirstName: "Ada", LastName: "Byron", StudentID: "S1", Email: "ada@x.com", ContactNumber: "555-0001", ProfilePicture: &picture, Status: "Graduated"}
	require.NoError(t, repo.Update(context.Background(), student))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateMissingRow(t *testing.T) {
	repo, mock, _ := newStudentMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE students")).WillReturnRows(sqlmock.NewRows(studentRowColumns))

	err := repo.Update(context.Background(), &models.Student{ID: "gone"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryDelete(t *testing.T) {
	repo, mock, _ := newStudentMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs("id-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.Delete(context.Background(), "id-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(context.Background(), "id-2")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
