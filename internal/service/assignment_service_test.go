package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foundarly/learnflow-junction/internal/models"
	appErrors "github.com/foundarly/learnflow-junction/pkg/errors"
)

type mockAssignmentRepo struct {
	assignment   *models.Assignment
	created      *models.Assignment
	lastFilter   models.AssignmentFilter
	submission   *models.AssignmentSubmission
	createdSub   *models.AssignmentSubmission
	gradedID     string
	gradedScore  int
	gradedBy     string
	statusUpdate *models.AssignmentStatus
}

func (m *mockAssignmentRepo) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	if m.assignment == nil {
		return nil, sql.ErrNoRows
	}
	return m.assignment, nil
}

func (m *mockAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	m.created = assignment
	return nil
}

func (m *mockAssignmentRepo) UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus, updatedAt time.Time) error {
	m.statusUpdate = &status
	return nil
}

func (m *mockAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	m.lastFilter = filter
	return nil, 0, nil
}

func (m *mockAssignmentRepo) CreateSubmission(ctx context.Context, sub *models.AssignmentSubmission) error {
	m.createdSub = sub
	return nil
}

func (m *mockAssignmentRepo) FindSubmission(ctx context.Context, assignmentID, studentID string) (*models.AssignmentSubmission, error) {
	if m.submission == nil {
		return nil, sql.ErrNoRows
	}
	return m.submission, nil
}

func (m *mockAssignmentRepo) FindSubmissionByID(ctx context.Context, id string) (*models.AssignmentSubmission, error) {
	if m.submission == nil || m.submission.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.submission, nil
}

func (m *mockAssignmentRepo) ListSubmissions(ctx context.Context, assignmentID string) ([]models.AssignmentSubmission, error) {
	if m.submission == nil {
		return nil, nil
	}
	return []models.AssignmentSubmission{*m.submission}, nil
}

func (m *mockAssignmentRepo) GradeSubmission(ctx context.Context, id string, score int, feedback, gradedBy string, gradedAt time.Time) error {
	m.gradedID = id
	m.gradedScore = score
	m.gradedBy = gradedBy
	return nil
}

type mockAssignmentCourses struct {
	course   *models.Course
	enrolled bool
}

func (m *mockAssignmentCourses) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if m.course == nil {
		return nil, sql.ErrNoRows
	}
	return m.course, nil
}

func (m *mockAssignmentCourses) IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error) {
	return m.enrolled, nil
}

func trainerClaims(userID string) *models.JWTClaims {
	collegeID := "college-1"
	return &models.JWTClaims{UserID: userID, Role: models.RoleTrainer, Name: "Sarah Trainer", CollegeID: &collegeID}
}

func studentClaims(userID string) *models.JWTClaims {
	collegeID := "college-1"
	return &models.JWTClaims{UserID: userID, Role: models.RoleStudent, Name: "Alice Student", CollegeID: &collegeID}
}

func publishedAssignment(trainerID string) *models.Assignment {
	return &models.Assignment{
		ID:        "a1",
		Title:     "React Portfolio Website",
		CourseID:  "course-1",
		CollegeID: "college-1",
		TrainerID: trainerID,
		Points:    100,
		Status:    models.AssignmentPublished,
	}
}

func newAssignmentService(repo *mockAssignmentRepo, courses *mockAssignmentCourses) *AssignmentService {
	return NewAssignmentService(repo, courses, validator.New(), zap.NewNop())
}

func TestAssignmentCreateDraft(t *testing.T) {
	repo := &mockAssignmentRepo{}
	courses := &mockAssignmentCourses{course: &models.Course{
		ID: "course-1", Title: "Go Fundamentals", CollegeID: "college-1", TrainerID: "t1",
	}}
	svc := newAssignmentService(repo, courses)

	assignment, err := svc.Create(context.Background(), trainerClaims("t1"), models.CreateAssignmentRequest{
		Title:    "React Portfolio Website",
		CourseID: "course-1",
		DueDate:  "2024-03-15",
		Points:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentDraft, assignment.Status)
	assert.Equal(t, "college-1", assignment.CollegeID)
	assert.Equal(t, "Go Fundamentals", assignment.CourseName)
	assert.Equal(t, models.AssignmentIndividual, assignment.Type)
	assert.Equal(t, 2024, assignment.DueDate.Year())
	require.NotNil(t, repo.created)
}

func TestAssignmentCreateOtherTrainerForbidden(t *testing.T) {
	courses := &mockAssignmentCourses{course: &models.Course{
		ID: "course-1", CollegeID: "college-1", TrainerID: "someone-else",
	}}
	svc := newAssignmentService(&mockAssignmentRepo{}, courses)

	_, err := svc.Create(context.Background(), trainerClaims("t1"), models.CreateAssignmentRequest{
		Title:    "React Portfolio Website",
		CourseID: "course-1",
		DueDate:  "2024-03-15",
		Points:   100,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAssignmentCreateBadDueDate(t *testing.T) {
	courses := &mockAssignmentCourses{course: &models.Course{ID: "course-1", TrainerID: "t1"}}
	svc := newAssignmentService(&mockAssignmentRepo{}, courses)

	_, err := svc.Create(context.Background(), trainerClaims("t1"), models.CreateAssignmentRequest{
		Title:    "React Portfolio Website",
		CourseID: "course-1",
		DueDate:  "soon",
		Points:   100,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentListStudentSeesPublishedOnly(t *testing.T) {
	repo := &mockAssignmentRepo{}
	svc := newAssignmentService(repo, &mockAssignmentCourses{})

	_, _, err := svc.List(context.Background(), studentClaims("s1"), models.AssignmentFilter{})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, models.AssignmentPublished, *repo.lastFilter.Status)
	require.NotNil(t, repo.lastFilter.CollegeID)
	assert.Equal(t, "college-1", *repo.lastFilter.CollegeID)
}

func TestAssignmentListTrainerScopedToOwn(t *testing.T) {
	repo := &mockAssignmentRepo{}
	svc := newAssignmentService(repo, &mockAssignmentCourses{})

	_, _, err := svc.List(context.Background(), trainerClaims("t1"), models.AssignmentFilter{})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.TrainerID)
	assert.Equal(t, "t1", *repo.lastFilter.TrainerID)
}

func TestAssignmentPublish(t *testing.T) {
	assignment := publishedAssignment("t1")
	assignment.Status = models.AssignmentDraft
	repo := &mockAssignmentRepo{assignment: assignment}
	svc := newAssignmentService(repo, &mockAssignmentCourses{})

	err := svc.UpdateStatus(context.Background(), trainerClaims("t1"), "a1", models.AssignmentPublished)
	require.NoError(t, err)
	require.NotNil(t, repo.statusUpdate)
	assert.Equal(t, models.AssignmentPublished, *repo.statusUpdate)
}

func TestAssignmentSubmit(t *testing.T) {
	repo := &mockAssignmentRepo{assignment: publishedAssignment("t1")}
	courses := &mockAssignmentCourses{enrolled: true}
	svc := newAssignmentService(repo, courses)

	sub, err := svc.Submit(context.Background(), studentClaims("s1"), "a1", models.SubmitAssignmentRequest{Content: "https://example.com/portfolio"})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionSubmitted, sub.Status)
	assert.Equal(t, "s1", sub.StudentID)
	require.NotNil(t, repo.createdSub)
}

func TestAssignmentSubmitDraftRejected(t *testing.T) {
	assignment := publishedAssignment("t1")
	assignment.Status = models.AssignmentDraft
	repo := &mockAssignmentRepo{assignment: assignment}
	svc := newAssignmentService(repo, &mockAssignmentCourses{enrolled: true})

	_, err := svc.Submit(context.Background(), studentClaims("s1"), "a1", models.SubmitAssignmentRequest{Content: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAssignmentSubmitNotEnrolled(t *testing.T) {
	repo := &mockAssignmentRepo{assignment: publishedAssignment("t1")}
	svc := newAssignmentService(repo, &mockAssignmentCourses{enrolled: false})

	_, err := svc.Submit(context.Background(), studentClaims("s1"), "a1", models.SubmitAssignmentRequest{Content: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAssignmentSubmitTwiceConflicts(t *testing.T) {
	repo := &mockAssignmentRepo{
		assignment: publishedAssignment("t1"),
		submission: &models.AssignmentSubmission{ID: "sub1", AssignmentID: "a1", StudentID: "s1"},
	}
	svc := newAssignmentService(repo, &mockAssignmentCourses{enrolled: true})

	_, err := svc.Submit(context.Background(), studentClaims("s1"), "a1", models.SubmitAssignmentRequest{Content: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAssignmentGrade(t *testing.T) {
	repo := &mockAssignmentRepo{
		assignment: publishedAssignment("t1"),
		submission: &models.AssignmentSubmission{ID: "sub1", AssignmentID: "a1", StudentID: "s1"},
	}
	svc := newAssignmentService(repo, &mockAssignmentCourses{})

	score := 85
	err := svc.Grade(context.Background(), trainerClaims("t1"), "a1", "sub1", models.GradeSubmissionRequest{Score: &score, Feedback: "solid work"})
	require.NoError(t, err)
	assert.Equal(t, "sub1", repo.gradedID)
	assert.Equal(t, 85, repo.gradedScore)
	assert.Equal(t, "t1", repo.gradedBy)
}

func TestAssignmentGradeExceedsPoints(t *testing.T) {
	repo := &mockAssignmentRepo{
		assignment: publishedAssignment("t1"),
		submission: &models.AssignmentSubmission{ID: "sub1", AssignmentID: "a1"},
	}
	svc := newAssignmentService(repo, &mockAssignmentCourses{})

	score := 120
	err := svc.Grade(context.Background(), trainerClaims("t1"), "a1", "sub1", models.GradeSubmissionRequest{Score: &score})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentGradeOtherTrainerForbidden(t *testing.T) {
	repo := &mockAssignmentRepo{assignment: publishedAssignment("someone-else")}
	svc := newAssignmentService(repo, &mockAssignmentCourses{})

	score := 50
	err := svc.Grade(context.Background(), trainerClaims("t1"), "a1", "sub1", models.GradeSubmissionRequest{Score: &score})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
