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

type collegeRepository interface {
	FindByID(ctx context.Context, id string) (*models.College, error)
	Create(ctx context.Context, college *models.College) error
	Update(ctx context.Context, id string, update models.UpdateCollegeRequest, updatedAt time.Time) error
	List(ctx context.Context, filter models.CollegeFilter) ([]models.College, int, error)
}

// CollegeService provides tenant college management.
type CollegeService struct {
	repo      collegeRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCollegeService constructs a CollegeService instance.
func NewCollegeService(repo collegeRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CollegeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CollegeService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Get returns a single college by ID.
func (s *CollegeService) Get(ctx context.Context, id string) (*models.College, error) {
	college, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "college not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
	}
	return college, nil
}

// List returns colleges matching the filter.
func (s *CollegeService) List(ctx context.Context, filter models.CollegeFilter) ([]models.College, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	colleges, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list colleges")
	}

	return colleges, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create registers a new college.
func (s *CollegeService) Create(ctx context.Context, req models.CreateCollegeRequest) (*models.College, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid college payload")
	}

	now := time.Now().UTC()
	college := &models.College{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Address:      req.Address,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Status:       models.CollegeActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, college); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create college")
	}

	s.invalidateDashboards(ctx)
	return college, nil
}

// Update mutates an existing college.
func (s *CollegeService) Update(ctx context.Context, id string, req models.UpdateCollegeRequest) (*models.College, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid college payload")
	}
	if req.Status != nil && *req.Status != models.CollegeActive && *req.Status != models.CollegeInactive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown college status")
	}

	if err := s.repo.Update(ctx, id, req, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "college not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update college")
	}

	s.invalidateDashboards(ctx)
	return s.Get(ctx, id)
}

func (s *CollegeService) invalidateDashboards(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
