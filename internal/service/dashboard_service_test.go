package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foundarly/learnflow-junction/internal/models"
	appErrors "github.com/foundarly/learnflow-junction/pkg/errors"
)

type mockStatsRepo struct {
	platformCalls int
	collegeID     string
	trainerID     string
	staffID       string
	studentID     string
}

func (m *mockStatsRepo) Platform(ctx context.Context) (*models.PlatformStats, error) {
	m.platformCalls++
	return &models.PlatformStats{Colleges: 3, Users: 120, Courses: 18}, nil
}

func (m *mockStatsRepo) College(ctx context.Context, collegeID string) (*models.CollegeStats, error) {
	m.collegeID = collegeID
	return &models.CollegeStats{CollegeID: collegeID, Users: 40}, nil
}

func (m *mockStatsRepo) Trainer(ctx context.Context, trainerID string) (*models.TrainerStats, error) {
	m.trainerID = trainerID
	return &models.TrainerStats{Courses: 4, EnrolledStudents: 80}, nil
}

func (m *mockStatsRepo) Staff(ctx context.Context, staffID string) (*models.StaffStats, error) {
	m.staffID = staffID
	return &models.StaffStats{Groups: 6}, nil
}

func (m *mockStatsRepo) Student(ctx context.Context, studentID string) (*models.StudentStats, error) {
	m.studentID = studentID
	return &models.StudentStats{EnrolledCourses: 3, AverageProgress: 62.5}, nil
}

type mockUpcomingRepo struct {
	collegeID *string
	events    []models.CalendarEvent
}

func (m *mockUpcomingRepo) Upcoming(ctx context.Context, collegeID *string, limit int) ([]models.CalendarEvent, error) {
	m.collegeID = collegeID
	return m.events, nil
}

func TestDashboardSummarySuperAdmin(t *testing.T) {
	stats := &mockStatsRepo{}
	calendar := &mockUpcomingRepo{events: []models.CalendarEvent{{ID: "e1", Title: "Orientation"}}}
	svc := NewDashboardService(stats, calendar, nil, time.Minute, zap.NewNop())

	summary, err := svc.Summary(context.Background(), &models.JWTClaims{UserID: "u1", Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	require.NotNil(t, summary.Platform)
	assert.Equal(t, 3, summary.Platform.Colleges)
	assert.Nil(t, summary.College)
	assert.Nil(t, calendar.collegeID)
	assert.Len(t, summary.UpcomingEvents, 1)
}

func TestDashboardSummaryAdminScopedToCollege(t *testing.T) {
	stats := &mockStatsRepo{}
	calendar := &mockUpcomingRepo{}
	svc := NewDashboardService(stats, calendar, nil, time.Minute, zap.NewNop())
	collegeID := "college-1"

	summary, err := svc.Summary(context.Background(), &models.JWTClaims{UserID: "u2", Role: models.RoleAdmin, CollegeID: &collegeID})
	require.NoError(t, err)
	require.NotNil(t, summary.College)
	assert.Equal(t, "college-1", stats.collegeID)
	require.NotNil(t, calendar.collegeID)
	assert.Equal(t, "college-1", *calendar.collegeID)
}

func TestDashboardSummaryAdminWithoutCollege(t *testing.T) {
	svc := NewDashboardService(&mockStatsRepo{}, &mockUpcomingRepo{}, nil, time.Minute, zap.NewNop())

	_, err := svc.Summary(context.Background(), &models.JWTClaims{UserID: "u2", Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDashboardSummaryPerRoleBlocks(t *testing.T) {
	cases := []struct {
		role  models.Role
		check func(t *testing.T, s *models.DashboardSummary)
	}{
		{models.RoleTrainer, func(t *testing.T, s *models.DashboardSummary) { require.NotNil(t, s.Trainer) }},
		{models.RoleStaff, func(t *testing.T, s *models.DashboardSummary) { require.NotNil(t, s.Staff) }},
		{models.RoleStudent, func(t *testing.T, s *models.DashboardSummary) { require.NotNil(t, s.Student) }},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			svc := NewDashboardService(&mockStatsRepo{}, &mockUpcomingRepo{}, nil, time.Minute, zap.NewNop())
			summary, err := svc.Summary(context.Background(), &models.JWTClaims{UserID: "u3", Role: tc.role})
			require.NoError(t, err)
			assert.Equal(t, tc.role, summary.Role)
			tc.check(t, summary)
		})
	}
}

func TestDashboardSummaryRejectsMissingIdentity(t *testing.T) {
	svc := NewDashboardService(&mockStatsRepo{}, &mockUpcomingRepo{}, nil, time.Minute, zap.NewNop())
	_, err := svc.Summary(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
