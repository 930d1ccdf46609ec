package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foundarly/learnflow-junction/internal/models"
	appErrors "github.com/foundarly/learnflow-junction/pkg/errors"
)

type mockUserLister struct {
	users []models.User
}

func (m *mockUserLister) List(ctx context.Context, actor *models.JWTClaims, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	return m.users, &models.Pagination{Page: 1, PageSize: len(m.users), TotalCount: len(m.users)}, nil
}

type mockCourseLister struct {
	courses []models.Course
}

func (m *mockCourseLister) List(ctx context.Context, actor *models.JWTClaims, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	return m.courses, &models.Pagination{Page: 1, PageSize: len(m.courses), TotalCount: len(m.courses)}, nil
}

func TestExportUsersCSV(t *testing.T) {
	college := "Tech University"
	users := &mockUserLister{users: []models.User{
		{Name: "John Admin", Email: "admin@example.com", Role: models.RoleAdmin, CollegeName: &college, Status: models.StatusActive, JoinDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "Alice Student", Email: "alice@example.com", Role: models.RoleStudent, Status: models.StatusPending, JoinDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewExportService(users, &mockCourseLister{}, 0, "LearnFlow Junction", zap.NewNop())

	res, err := svc.Users(context.Background(), nil, models.UserFilter{}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", res.ContentType)
	assert.True(t, strings.HasSuffix(res.FileName, ".csv"))

	body := string(res.Data)
	assert.Contains(t, body, "Name,Email,Role,College,Status,Joined")
	assert.Contains(t, body, "John Admin,admin@example.com,admin,Tech University,active,2024-03-01")
	assert.Contains(t, body, "Alice Student,alice@example.com,student,,pending,2024-06-10")
}

func TestExportCoursesPDF(t *testing.T) {
	courses := &mockCourseLister{courses: []models.Course{
		{Title: "Go Fundamentals", CollegeName: "Tech University", TrainerName: "Sarah Trainer", Status: models.CourseActive, EnrolledStudents: 12, MaxStudents: 30, Tags: []string{"go", "backend"}},
	}}
	svc := NewExportService(&mockUserLister{}, courses, 0, "LearnFlow Junction", zap.NewNop())

	res, err := svc.Courses(context.Background(), nil, models.CourseFilter{}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, strings.HasSuffix(res.FileName, ".pdf"))
	assert.True(t, strings.HasPrefix(string(res.Data), "%PDF"))
}

func TestExportUsersHonorsMaxRows(t *testing.T) {
	users := &mockUserLister{users: []models.User{
		{Name: "A", Email: "a@example.com", Role: models.RoleStudent, Status: models.StatusActive, JoinDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "B", Email: "b@example.com", Role: models.RoleStudent, Status: models.StatusActive, JoinDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{Name: "C", Email: "c@example.com", Role: models.RoleStudent, Status: models.StatusActive, JoinDate: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewExportService(users, &mockCourseLister{}, 2, "LearnFlow Junction", zap.NewNop())

	res, err := svc.Users(context.Background(), nil, models.UserFilter{}, FormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(res.Data)), "\n")
	// Header plus exactly two data rows.
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "a@example.com")
	assert.Contains(t, lines[2], "b@example.com")
	assert.NotContains(t, string(res.Data), "c@example.com")
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&mockUserLister{}, &mockCourseLister{}, 0, "LearnFlow Junction", zap.NewNop())

	_, err := svc.Users(context.Background(), nil, models.UserFilter{}, ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
