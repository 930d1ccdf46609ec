package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundarly/learnflow-junction/internal/models"
)

func collegeRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "address", "contact_email", "contact_phone", "admin_id", "status",
		"courses_count", "students_count", "created_at", "updated_at",
	}).AddRow("college-1", "Tech University", "1 Main St", "info@tech.edu", "+100", nil, string(models.CollegeActive), 4, 120, now, now)
}

func TestCollegeFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCollegeRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM colleges WHERE id =").
		WithArgs("college-1").
		WillReturnRows(collegeRows(time.Now()))

	college, err := repo.FindByID(context.Background(), "college-1")
	require.NoError(t, err)
	assert.Equal(t, "Tech University", college.Name)
	assert.Equal(t, 120, college.StudentsCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollegeList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCollegeRepository(db)

	status := models.CollegeActive
	mock.ExpectQuery("SELECT (.+) FROM colleges WHERE 1=1 AND status = (.+) ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WithArgs(string(status)).
		WillReturnRows(collegeRows(time.Now()))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM colleges`).
		WithArgs(string(status)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	colleges, total, err := repo.List(context.Background(), models.CollegeFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, colleges, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollegeUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCollegeRepository(db)

	name := "New Name"
	mock.ExpectExec("UPDATE colleges SET updated_at = (.+), name = (.+) WHERE id =").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "college-1", models.UpdateCollegeRequest{Name: &name}, time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
