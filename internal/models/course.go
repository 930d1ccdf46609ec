package models

import (
	"time"

	"github.com/lib/pq"
)

// CourseStatus is the lifecycle state of a course.
type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CourseActive    CourseStatus = "active"
	CourseCompleted CourseStatus = "completed"
	CourseArchived  CourseStatus = "archived"
)

// Course represents a course offered by a college.
type Course struct {
	ID               string         `db:"id" json:"id"`
	Title            string         `db:"title" json:"title"`
	Description      string         `db:"description" json:"description"`
	Thumbnail        *string        `db:"thumbnail" json:"thumbnail,omitempty"`
	DurationWeeks    int            `db:"duration_weeks" json:"duration_weeks"`
	CollegeID        string         `db:"college_id" json:"college_id"`
	CollegeName      string         `db:"college_name" json:"college_name"`
	TrainerID        string         `db:"trainer_id" json:"trainer_id"`
	TrainerName      string         `db:"trainer_name" json:"trainer_name"`
	Status           CourseStatus   `db:"status" json:"status"`
	StartDate        time.Time      `db:"start_date" json:"start_date"`
	EndDate          time.Time      `db:"end_date" json:"end_date"`
	EnrolledStudents int            `db:"enrolled_students" json:"enrolled_students"`
	MaxStudents      int            `db:"max_students" json:"max_students"`
	Tags             pq.StringArray `db:"tags" json:"tags"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures list criteria for courses.
type CourseFilter struct {
	CollegeID *string
	TrainerID *string
	StudentID *string
	Status    *CourseStatus
	Search    string
	Page      int
	PageSize  int
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Title         string   `json:"title" validate:"required,min=2"`
	Description   string   `json:"description" validate:"required"`
	DurationWeeks int      `json:"duration_weeks" validate:"required,min=1"`
	CollegeID     string   `json:"college_id" validate:"required"`
	TrainerID     string   `json:"trainer_id" validate:"required"`
	StartDate     string   `json:"start_date" validate:"required"`
	EndDate       string   `json:"end_date" validate:"required"`
	MaxStudents   int      `json:"max_students" validate:"required,min=1"`
	Tags          []string `json:"tags,omitempty"`
}

// UpdateCourseRequest is the payload for mutating a course.
type UpdateCourseRequest struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *CourseStatus `json:"status,omitempty"`
	MaxStudents *int          `json:"max_students,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
}

// Enrollment ties a student to a course.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
	Progress   float64   `db:"progress" json:"progress"`
}
