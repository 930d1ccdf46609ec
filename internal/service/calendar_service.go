package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foundarly/learnflow-junction/internal/models"
	appErrors "github.com/foundarly/learnflow-junction/pkg/errors"
)

type calendarRepository interface {
	Create(ctx context.Context, event *models.CalendarEvent) error
	List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error)
	Upcoming(ctx context.Context, collegeID *string, limit int) ([]models.CalendarEvent, error)
}

// CalendarService provides schedule and event use cases.
type CalendarService struct {
	repo      calendarRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs a CalendarService instance.
func NewCalendarService(repo calendarRepository, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CalendarService{repo: repo, validator: validate, logger: logger}
}

// List returns calendar events. Non-platform roles are scoped to their college.
func (s *CalendarService) List(ctx context.Context, actor *models.JWTClaims, filter models.CalendarFilter) ([]models.CalendarEvent, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 50
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "to must not precede from")
	}

	if actor != nil && actor.Role != models.RoleSuperAdmin {
		filter.CollegeID = actor.CollegeID
	}

	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	return events, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Upcoming returns the next events for the actor's scope.
func (s *CalendarService) Upcoming(ctx context.Context, actor *models.JWTClaims, limit int) ([]models.CalendarEvent, error) {
	if limit < 1 || limit > 50 {
		limit = 5
	}

	var collegeID *string
	if actor != nil && actor.Role != models.RoleSuperAdmin {
		collegeID = actor.CollegeID
	}

	events, err := s.repo.Upcoming(ctx, collegeID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load upcoming events")
	}
	return events, nil
}

// Create registers a new calendar event in the actor's college scope.
func (s *CalendarService) Create(ctx context.Context, actor *models.JWTClaims, req models.CreateCalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ends_at must be after starts_at")
	}

	event := &models.CalendarEvent{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Type:      req.Type,
		StartsAt:  req.StartsAt.UTC(),
		EndsAt:    req.EndsAt.UTC(),
		CollegeID: actor.CollegeID,
		CourseID:  req.CourseID,
		Audience:  req.Audience,
		CreatedBy: actor.UserID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}

	return event, nil
}
