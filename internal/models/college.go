package models

import "time"

// CollegeStatus is the lifecycle state of a tenant college.
type CollegeStatus string

const (
	CollegeActive   CollegeStatus = "active"
	CollegeInactive CollegeStatus = "inactive"
)

// College represents a tenant institution.
type College struct {
	ID            string        `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Address       string        `db:"address" json:"address"`
	ContactEmail  string        `db:"contact_email" json:"contact_email"`
	ContactPhone  string        `db:"contact_phone" json:"contact_phone"`
	AdminID       *string       `db:"admin_id" json:"admin_id,omitempty"`
	Status        CollegeStatus `db:"status" json:"status"`
	CoursesCount  int           `db:"courses_count" json:"courses_count"`
	StudentsCount int           `db:"students_count" json:"students_count"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// CollegeFilter captures list criteria for colleges.
type CollegeFilter struct {
	Status   *CollegeStatus
	Search   string
	Page     int
	PageSize int
}

// CreateCollegeRequest is the payload for registering a college.
type CreateCollegeRequest struct {
	Name         string `json:"name" validate:"required,min=2"`
	Address      string `json:"address" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	ContactPhone string `json:"contact_phone" validate:"required"`
}

// UpdateCollegeRequest is the payload for mutating a college.
type UpdateCollegeRequest struct {
	Name         *string        `json:"name,omitempty"`
	Address      *string        `json:"address,omitempty"`
	ContactEmail *string        `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string        `json:"contact_phone,omitempty"`
	AdminID      *string        `json:"admin_id,omitempty"`
	Status       *CollegeStatus `json:"status,omitempty"`
}
