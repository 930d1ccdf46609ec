package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/foundarly/learnflow-junction/internal/models"
	appErrors "github.com/foundarly/learnflow-junction/pkg/errors"
)

type statsRepository interface {
	Platform(ctx context.Context) (*models.PlatformStats, error)
	College(ctx context.Context, collegeID string) (*models.CollegeStats, error)
	Trainer(ctx context.Context, trainerID string) (*models.TrainerStats, error)
	Staff(ctx context.Context, staffID string) (*models.StaffStats, error)
	Student(ctx context.Context, studentID string) (*models.StudentStats, error)
}

type dashboardCalendarRepository interface {
	Upcoming(ctx context.Context, collegeID *string, limit int) ([]models.CalendarEvent, error)
}

// DashboardService assembles the role-dependent dashboard summary. Summaries
// are cached per user since the aggregates are expensive to compute.
type DashboardService struct {
	stats    statsRepository
	calendar dashboardCalendarRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(stats statsRepository, calendar dashboardCalendarRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardService{stats: stats, calendar: calendar, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Summary builds the dashboard payload for the requesting user.
func (s *DashboardService) Summary(ctx context.Context, actor *models.JWTClaims) (*models.DashboardSummary, error) {
	if actor == nil || !actor.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing identity")
	}

	cacheKey := fmt.Sprintf("dashboard:%s:%s", actor.Role, actor.UserID)
	var cached models.DashboardSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		cached.CacheHit = true
		return &cached, nil
	}

	summary := &models.DashboardSummary{
		Role:        actor.Role,
		GeneratedAt: time.Now().UTC(),
	}

	var err error
	switch actor.Role {
	case models.RoleSuperAdmin:
		summary.Platform, err = s.stats.Platform(ctx)
	case models.RoleAdmin:
		if actor.CollegeID == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "admin has no college assigned")
		}
		summary.College, err = s.stats.College(ctx, *actor.CollegeID)
	case models.RoleTrainer:
		summary.Trainer, err = s.stats.Trainer(ctx, actor.UserID)
	case models.RoleStaff:
		summary.Staff, err = s.stats.Staff(ctx, actor.UserID)
	case models.RoleStudent:
		summary.Student, err = s.stats.Student(ctx, actor.UserID)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute dashboard stats")
	}

	var collegeID *string
	if actor.Role != models.RoleSuperAdmin {
		collegeID = actor.CollegeID
	}
	events, err := s.calendar.Upcoming(ctx, collegeID, 5)
	if err != nil {
		s.logger.Warn("failed to load upcoming events", zap.Error(err))
	} else {
		summary.UpcomingEvents = events
	}

	if err := s.cache.Set(ctx, cacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
	}

	return summary, nil
}
