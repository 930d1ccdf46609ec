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

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, id string, update models.UpdateCourseRequest, updatedAt time.Time) error
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	CountEnrollments(ctx context.Context, courseID string) (int, error)
	IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error)
}

// CourseService provides course and enrollment use cases.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// Get returns a single course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// List returns courses matching the filter, scoped by the actor's role.
// Trainers see only their own courses; students see only enrolled ones when
// the my-courses view is requested via filter.StudentID.
func (s *CourseService) List(ctx context.Context, actor *models.JWTClaims, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	if actor != nil {
		switch actor.Role {
		case models.RoleAdmin:
			filter.CollegeID = actor.CollegeID
		case models.RoleTrainer:
			trainerID := actor.UserID
			filter.TrainerID = &trainerID
		}
	}

	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	return courses, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create registers a new course in draft state.
func (s *CourseService) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD")
	}
	if !endDate.After(startDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be after start_date")
	}

	now := time.Now().UTC()
	course := &models.Course{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
		CollegeID:     req.CollegeID,
		TrainerID:     req.TrainerID,
		Status:        models.CourseDraft,
		StartDate:     startDate,
		EndDate:       endDate,
		MaxStudents:   req.MaxStudents,
		Tags:          req.Tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	return course, nil
}

// Update mutates an existing course.
func (s *CourseService) Update(ctx context.Context, id string, req models.UpdateCourseRequest) (*models.Course, error) {
	if req.Status != nil {
		switch *req.Status {
		case models.CourseDraft, models.CourseActive, models.CourseCompleted, models.CourseArchived:
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown course status")
		}
	}

	if err := s.repo.Update(ctx, id, req, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	return s.Get(ctx, id)
}

// Enroll enrolls a student into a course, enforcing capacity and uniqueness.
func (s *CourseService) Enroll(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != models.CourseActive {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course is not open for enrollment")
	}

	enrolled, err := s.repo.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled")
	}

	count, err := s.repo.CountEnrollments(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	if count >= course.MaxStudents {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course is full")
	}

	enrollment := &models.Enrollment{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		StudentID:  studentID,
		EnrolledAt: time.Now().UTC(),
	}

	if err := s.repo.Enroll(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}

	return enrollment, nil
}
