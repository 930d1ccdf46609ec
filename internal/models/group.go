package models

import "time"

// GroupStatus is the lifecycle state of a study group.
type GroupStatus string

const (
	GroupActive   GroupStatus = "active"
	GroupInactive GroupStatus = "inactive"
)

// GroupMemberRole distinguishes the leader from regular members.
type GroupMemberRole string

const (
	GroupLeader GroupMemberRole = "leader"
	GroupMember GroupMemberRole = "member"
)

// Group represents a student study group inside a course.
type Group struct {
	ID          string      `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	CourseID    string      `db:"course_id" json:"course_id"`
	CourseName  string      `db:"course_name" json:"course_name"`
	CollegeID   string      `db:"college_id" json:"college_id"`
	CreatedBy   string      `db:"created_by" json:"created_by"`
	Status      GroupStatus `db:"status" json:"status"`
	MaxMembers  int         `db:"max_members" json:"max_members"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`

	Members []GroupMembership `db:"-" json:"members,omitempty"`
}

// GroupMembership records a user's membership in a group.
type GroupMembership struct {
	GroupID  string          `db:"group_id" json:"group_id"`
	UserID   string          `db:"user_id" json:"user_id"`
	Name     string          `db:"name" json:"name"`
	Email    string          `db:"email" json:"email"`
	Role     GroupMemberRole `db:"member_role" json:"role"`
	JoinedAt time.Time       `db:"joined_at" json:"joined_at"`
}

// GroupFilter captures list criteria for groups.
type GroupFilter struct {
	CollegeID *string
	CourseID  *string
	MemberID  *string
	Status    *GroupStatus
	Page      int
	PageSize  int
}

// CreateGroupRequest is the payload for creating a group.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
	CourseID    string `json:"course_id" validate:"required"`
	MaxMembers  int    `json:"max_members" validate:"required,min=2"`
}

// AddGroupMemberRequest adds a member to a group.
type AddGroupMemberRequest struct {
	UserID string          `json:"user_id" validate:"required"`
	Role   GroupMemberRole `json:"role" validate:"omitempty,oneof=leader member"`
}
