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

type groupRepository interface {
	FindByID(ctx context.Context, id string) (*models.Group, error)
	Create(ctx context.Context, group *models.Group) error
	UpdateStatus(ctx context.Context, id string, status models.GroupStatus, updatedAt time.Time) error
	List(ctx context.Context, filter models.GroupFilter) ([]models.Group, int, error)
	Members(ctx context.Context, groupID string) ([]models.GroupMembership, error)
	AddMember(ctx context.Context, groupID, userID string, role models.GroupMemberRole, joinedAt time.Time) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	CountMembers(ctx context.Context, groupID string) (int, error)
}

type groupCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// GroupService provides study group coordination use cases.
type GroupService struct {
	repo      groupRepository
	courses   groupCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGroupService constructs a GroupService instance.
func NewGroupService(repo groupRepository, courses groupCourseRepository, validate *validator.Validate, logger *zap.Logger) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GroupService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// Get returns a group with its members loaded.
func (s *GroupService) Get(ctx context.Context, id string) (*models.Group, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}

	members, err := s.repo.Members(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load members")
	}
	group.Members = members

	return group, nil
}

// List returns groups matching the filter, scoped by the actor's role.
// Students see only groups they belong to.
func (s *GroupService) List(ctx context.Context, actor *models.JWTClaims, filter models.GroupFilter) ([]models.Group, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	if actor != nil {
		switch actor.Role {
		case models.RoleStudent:
			memberID := actor.UserID
			filter.MemberID = &memberID
		case models.RoleStaff, models.RoleAdmin:
			filter.CollegeID = actor.CollegeID
		}
	}

	groups, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}

	return groups, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create registers a new group under a course.
func (s *GroupService) Create(ctx context.Context, actor *models.JWTClaims, req models.CreateGroupRequest) (*models.Group, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	now := time.Now().UTC()
	group := &models.Group{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		CourseID:    course.ID,
		CollegeID:   course.CollegeID,
		CreatedBy:   actor.UserID,
		Status:      models.GroupActive,
		MaxMembers:  req.MaxMembers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create group")
	}

	return group, nil
}

// AddMember adds a user to a group, enforcing capacity.
func (s *GroupService) AddMember(ctx context.Context, groupID string, req models.AddGroupMemberRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}

	group, err := s.repo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	if group.Status != models.GroupActive {
		return appErrors.Clone(appErrors.ErrConflict, "group is not active")
	}

	count, err := s.repo.CountMembers(ctx, groupID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count members")
	}
	if count >= group.MaxMembers {
		return appErrors.Clone(appErrors.ErrConflict, "group is full")
	}

	role := req.Role
	if role == "" {
		role = models.GroupMember
	}

	if err := s.repo.AddMember(ctx, groupID, req.UserID, role, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add member")
	}
	return nil
}

// RemoveMember removes a user from a group.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID string) error {
	if err := s.repo.RemoveMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "membership not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove member")
	}
	return nil
}

// UpdateStatus archives or reactivates a group.
func (s *GroupService) UpdateStatus(ctx context.Context, id string, status models.GroupStatus) error {
	if status != models.GroupActive && status != models.GroupInactive {
		return appErrors.Clone(appErrors.ErrValidation, "unknown group status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update group")
	}
	return nil
}
