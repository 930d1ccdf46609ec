package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Role is the closed set of roles recognised by the platform. Route policy
// and JWT claims are validated against this set, never free-form strings.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleTrainer    Role = "trainer"
	RoleStaff      Role = "staff"
	RoleStudent    Role = "student"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleTrainer, RoleStaff, RoleStudent}
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleTrainer, RoleStaff, RoleStudent:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role or fails.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// AccountStatus captures the lifecycle state of an account.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
	StatusPending  AccountStatus = "pending"
)

// Valid reports whether the status belongs to the closed set.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// User represents an account stored in the users table.
type User struct {
	ID           string         `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Name         string         `db:"name" json:"name"`
	Role         Role           `db:"role" json:"role"`
	CollegeID    *string        `db:"college_id" json:"college_id,omitempty"`
	CollegeName  *string        `db:"college_name" json:"college_name,omitempty"`
	Department   *string        `db:"department" json:"department,omitempty"`
	Phone        *string        `db:"phone" json:"phone,omitempty"`
	Avatar       *string        `db:"avatar" json:"avatar,omitempty"`
	JoinDate     time.Time      `db:"join_date" json:"join_date"`
	Status       AccountStatus  `db:"status" json:"status"`
	Permissions  pq.StringArray `db:"permissions" json:"permissions"`
	LastLogin    *time.Time     `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Identity is the authenticated user record carried by a session. It is the
// public projection of User: no credential material, JSON-serialisable for
// the durable session store.
type Identity struct {
	ID          string        `json:"id"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	Role        Role          `json:"role"`
	CollegeID   *string       `json:"college_id,omitempty"`
	CollegeName *string       `json:"college_name,omitempty"`
	Department  *string       `json:"department,omitempty"`
	Phone       *string       `json:"phone,omitempty"`
	Avatar      *string       `json:"avatar,omitempty"`
	JoinDate    string        `json:"join_date"`
	Status      AccountStatus `json:"status"`
	Permissions []string      `json:"permissions"`
}

// IdentityUpdate carries the fields a profile update may change. Nil fields
// are left untouched.
type IdentityUpdate struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
}

// Identity builds the session projection of the user.
func (u *User) Identity() Identity {
	return Identity{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		CollegeID:   u.CollegeID,
		CollegeName: u.CollegeName,
		Department:  u.Department,
		Phone:       u.Phone,
		Avatar:      u.Avatar,
		JoinDate:    u.JoinDate.Format("2006-01-02"),
		Status:      u.Status,
		Permissions: append([]string(nil), u.Permissions...),
	}
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *Role
	Status    *AccountStatus
	CollegeID *string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
