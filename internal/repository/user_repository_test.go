package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundarly/learnflow-junction/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func userRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "name", "role", "college_id", "college_name",
		"department", "phone", "avatar", "join_date", "status", "permissions",
		"last_login", "created_at", "updated_at",
	}).AddRow(
		"u1", "admin@college.edu", "hash", "John Admin", string(models.RoleAdmin), "college-1", "Tech University",
		nil, nil, nil, now, string(models.StatusActive), "{}",
		nil, now, now,
	)
}

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users u LEFT JOIN colleges c ON c.id = u.college_id WHERE u.email =").
		WithArgs("admin@college.edu").
		WillReturnRows(userRows(now))

	user, err := repo.FindByEmail(context.Background(), "admin@college.edu")
	require.NoError(t, err)
	assert.Equal(t, "admin@college.edu", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

	now := time.Now()
	err := repo.Create(context.Background(), &models.User{
		ID: "u1", Email: "a@college.edu", PasswordHash: "hash", Name: "A",
		Role: models.RoleStudent, Status: models.StatusActive,
		JoinDate: now, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersWithFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	role := models.RoleStudent
	collegeID := "college-1"

	mock.ExpectQuery("SELECT (.+) FROM users u LEFT JOIN colleges c ON c.id = u.college_id WHERE 1=1 AND u.role = (.+) AND u.college_id = (.+) ORDER BY u.created_at DESC LIMIT 20 OFFSET 0").
		WithArgs(string(role), collegeID).
		WillReturnRows(userRows(now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users u LEFT JOIN colleges c`).
		WithArgs(string(role), collegeID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	users, total, err := repo.List(context.Background(), models.UserFilter{Role: &role, CollegeID: &collegeID})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	name := "X"
	mock.ExpectExec("UPDATE users SET updated_at = (.+), name = (.+) WHERE id =").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateProfile(context.Background(), "u1", models.IdentityUpdate{Name: &name}, time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRefreshToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO refresh_tokens").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateRefreshToken(context.Background(), &models.RefreshToken{ID: "1", UserID: "u1", Token: "token", ExpiresAt: time.Now(), CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeRefreshTokenRecordsSuccessor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	successor := "rt2"
	now := time.Now()
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = TRUE, revoked_at = (.+), replaced_by = (.+) WHERE id =`).
		WithArgs("rt1", now, "rt2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RevokeRefreshToken(context.Background(), "rt1", &successor, now)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeUserRefreshTokens(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked = TRUE").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.RevokeUserRefreshTokens(context.Background(), "u1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
