package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/foundarly/learnflow-junction/internal/models"
)

const groupColumns = `g.id, g.name, g.description, g.course_id, co.title AS course_name, g.college_id,
	g.created_by, g.status, g.max_members, g.created_at, g.updated_at`

const groupJoins = `FROM groups g JOIN courses co ON co.id = g.course_id`

// GroupRepository provides database access for study groups.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository creates a new instance of GroupRepository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// FindByID returns a group by identifier.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` ` + groupJoins + ` WHERE g.id = $1 LIMIT 1`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find group by id: %w", err)
	}
	return &group, nil
}

// Create inserts a new group.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	const query = `INSERT INTO groups (id, name, description, course_id, college_id, created_by, status, max_members, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		group.ID, group.Name, group.Description, group.CourseID, group.CollegeID,
		group.CreatedBy, group.Status, group.MaxMembers, group.CreatedAt, group.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

// UpdateStatus changes the group lifecycle state.
func (r *GroupRepository) UpdateStatus(ctx context.Context, id string, status models.GroupStatus, updatedAt time.Time) error {
	const query = `UPDATE groups SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, updatedAt); err != nil {
		return fmt.Errorf("update group status: %w", err)
	}
	return nil
}

// List returns groups based on filters with total count.
func (r *GroupRepository) List(ctx context.Context, filter models.GroupFilter) ([]models.Group, int, error) {
	baseQuery := groupJoins + ` WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.CollegeID != nil {
		conditions = append(conditions, fmt.Sprintf("g.college_id = $%d", len(args)+1))
		args = append(args, *filter.CollegeID)
	}
	if filter.CourseID != nil {
		conditions = append(conditions, fmt.Sprintf("g.course_id = $%d", len(args)+1))
		args = append(args, *filter.CourseID)
	}
	if filter.MemberID != nil {
		conditions = append(conditions, fmt.Sprintf("g.id IN (SELECT group_id FROM group_members WHERE user_id = $%d)", len(args)+1))
		args = append(args, *filter.MemberID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("g.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY g.created_at DESC LIMIT %d OFFSET %d",
		groupColumns, baseQuery, pageSize, (page-1)*pageSize)

	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list groups: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count groups: %w", err)
	}

	return groups, total, nil
}

// Members lists the memberships of a group.
func (r *GroupRepository) Members(ctx context.Context, groupID string) ([]models.GroupMembership, error) {
	const query = `SELECT gm.group_id, gm.user_id, u.name, u.email, gm.member_role, gm.joined_at
		FROM group_members gm JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1 ORDER BY gm.joined_at ASC`
	var members []models.GroupMembership
	if err := r.db.SelectContext(ctx, &members, query, groupID); err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	return members, nil
}

// AddMember inserts a membership row.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID string, role models.GroupMemberRole, joinedAt time.Time) error {
	const query = `INSERT INTO group_members (group_id, user_id, member_role, joined_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, groupID, userID, role, joinedAt); err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership row.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	const query = `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("remove group member: %w", err)
	}
	return nil
}

// CountMembers returns the member count of a group.
func (r *GroupRepository) CountMembers(ctx context.Context, groupID string) (int, error) {
	const query = `SELECT COUNT(*) FROM group_members WHERE group_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, groupID); err != nil {
		return 0, fmt.Errorf("count group members: %w", err)
	}
	return count, nil
}
