package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foundarly/learnflow-junction/internal/models"
	appErrors "github.com/foundarly/learnflow-junction/pkg/errors"
)

type assignmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus, updatedAt time.Time) error
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
	CreateSubmission(ctx context.Context, sub *models.AssignmentSubmission) error
	FindSubmission(ctx context.Context, assignmentID, studentID string) (*models.AssignmentSubmission, error)
	FindSubmissionByID(ctx context.Context, id string) (*models.AssignmentSubmission, error)
	ListSubmissions(ctx context.Context, assignmentID string) ([]models.AssignmentSubmission, error)
	GradeSubmission(ctx context.Context, id string, score int, feedback, gradedBy string, gradedAt time.Time) error
}

type assignmentCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error)
}

// AssignmentService provides coursework use cases: trainers publish and
// grade, students submit.
type AssignmentService struct {
	repo      assignmentRepository
	courses   assignmentCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(repo assignmentRepository, courses assignmentCourseRepository, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// Get returns an assignment by ID.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// List returns assignments matching the filter, scoped by the actor's role.
// Trainers see their own assignments; students see published coursework in
// their college.
func (s *AssignmentService) List(ctx context.Context, actor *models.JWTClaims, filter models.AssignmentFilter) ([]models.Assignment, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	if actor != nil {
		switch actor.Role {
		case models.RoleTrainer:
			trainerID := actor.UserID
			filter.TrainerID = &trainerID
		case models.RoleStudent:
			filter.CollegeID = actor.CollegeID
			published := models.AssignmentPublished
			filter.Status = &published
		case models.RoleAdmin:
			filter.CollegeID = actor.CollegeID
		}
	}

	assignments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	return assignments, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create registers a new draft assignment under a course. Trainers may only
// attach coursework to their own courses.
func (s *AssignmentService) Create(ctx context.Context, actor *models.JWTClaims, req models.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if actor.Role == models.RoleTrainer && course.TrainerID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course belongs to another trainer")
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "due_date must be YYYY-MM-DD")
	}

	kind := req.SubmissionKind
	if kind == "" {
		kind = models.SubmissionText
	}
	assignmentType := req.Type
	if assignmentType == "" {
		assignmentType = models.AssignmentIndividual
	}

	now := time.Now().UTC()
	assignment := &models.Assignment{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Description:    req.Description,
		CourseID:       course.ID,
		CourseName:     course.Title,
		CollegeID:      course.CollegeID,
		TrainerID:      course.TrainerID,
		Type:           assignmentType,
		SubmissionKind: kind,
		DueDate:        dueDate,
		Points:         req.Points,
		Status:         models.AssignmentDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}

	return assignment, nil
}

// UpdateStatus publishes or closes an assignment.
func (s *AssignmentService) UpdateStatus(ctx context.Context, actor *models.JWTClaims, id string, status models.AssignmentStatus) error {
	switch status {
	case models.AssignmentDraft, models.AssignmentPublished, models.AssignmentClosed:
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown assignment status")
	}

	assignment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role == models.RoleTrainer && assignment.TrainerID != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another trainer")
	}

	if err := s.repo.UpdateStatus(ctx, id, status, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return nil
}

// Submit hands in a student's work. The assignment must be published and
// the student enrolled in its course; each student submits once.
func (s *AssignmentService) Submit(ctx context.Context, actor *models.JWTClaims, assignmentID string, req models.SubmitAssignmentRequest) (*models.AssignmentSubmission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	assignment, err := s.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.Status != models.AssignmentPublished {
		return nil, appErrors.Clone(appErrors.ErrConflict, "assignment is not accepting submissions")
	}

	enrolled, err := s.courses.IsEnrolled(ctx, assignment.CourseID, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not enrolled in this course")
	}

	if _, err := s.repo.FindSubmission(ctx, assignmentID, actor.UserID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "assignment already submitted")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check submission")
	}

	sub := &models.AssignmentSubmission{
		ID:           uuid.NewString(),
		AssignmentID: assignmentID,
		StudentID:    actor.UserID,
		StudentName:  actor.Name,
		Content:      req.Content,
		Status:       models.SubmissionSubmitted,
		SubmittedAt:  time.Now().UTC(),
	}

	if err := s.repo.CreateSubmission(ctx, sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create submission")
	}

	return sub, nil
}

// Submissions lists every submission for a trainer's assignment.
func (s *AssignmentService) Submissions(ctx context.Context, actor *models.JWTClaims, assignmentID string) ([]models.AssignmentSubmission, error) {
	assignment, err := s.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleTrainer && assignment.TrainerID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another trainer")
	}

	subs, err := s.repo.ListSubmissions(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return subs, nil
}

// Grade records a score and feedback on a submission. The score may not
// exceed the assignment's points.
func (s *AssignmentService) Grade(ctx context.Context, actor *models.JWTClaims, assignmentID, submissionID string, req models.GradeSubmissionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	assignment, err := s.Get(ctx, assignmentID)
	if err != nil {
		return err
	}
	if actor.Role == models.RoleTrainer && assignment.TrainerID != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another trainer")
	}
	if *req.Score > assignment.Points {
		return appErrors.Clone(appErrors.ErrValidation, "score exceeds assignment points")
	}

	sub, err := s.repo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	if sub.AssignmentID != assignmentID {
		return appErrors.Clone(appErrors.ErrNotFound, "submission not found")
	}

	if err := s.repo.GradeSubmission(ctx, submissionID, *req.Score, req.Feedback, actor.UserID, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grade submission")
	}
	return nil
}
