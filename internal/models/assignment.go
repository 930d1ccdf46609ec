package models

import "time"

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

const (
	AssignmentDraft     AssignmentStatus = "draft"
	AssignmentPublished AssignmentStatus = "published"
	AssignmentClosed    AssignmentStatus = "closed"
)

// AssignmentType distinguishes individual work from group work.
type AssignmentType string

const (
	AssignmentIndividual AssignmentType = "individual"
	AssignmentGroup      AssignmentType = "group"
)

// SubmissionKind is the medium students hand work in through.
type SubmissionKind string

const (
	SubmissionFile SubmissionKind = "file"
	SubmissionText SubmissionKind = "text"
	SubmissionLink SubmissionKind = "link"
)

// SubmissionStatus tracks a submission through grading.
type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

// Assignment is coursework a trainer publishes to a course's students.
type Assignment struct {
	ID               string           `db:"id" json:"id"`
	Title            string           `db:"title" json:"title"`
	Description      string           `db:"description" json:"description"`
	CourseID         string           `db:"course_id" json:"course_id"`
	CourseName       string           `db:"course_name" json:"course_name"`
	CollegeID        string           `db:"college_id" json:"college_id"`
	TrainerID        string           `db:"trainer_id" json:"trainer_id"`
	Type             AssignmentType   `db:"assignment_type" json:"type"`
	SubmissionKind   SubmissionKind   `db:"submission_kind" json:"submission_type"`
	DueDate          time.Time        `db:"due_date" json:"due_date"`
	Points           int              `db:"points" json:"points"`
	Status           AssignmentStatus `db:"status" json:"status"`
	SubmissionsCount int              `db:"submissions_count" json:"submissions_count"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// AssignmentSubmission is one student's answer to an assignment.
type AssignmentSubmission struct {
	ID           string           `db:"id" json:"id"`
	AssignmentID string           `db:"assignment_id" json:"assignment_id"`
	StudentID    string           `db:"student_id" json:"student_id"`
	StudentName  string           `db:"student_name" json:"student_name"`
	Content      string           `db:"content" json:"content"`
	Status       SubmissionStatus `db:"status" json:"status"`
	SubmittedAt  time.Time        `db:"submitted_at" json:"submitted_at"`
	Score        *int             `db:"score" json:"score,omitempty"`
	Feedback     *string          `db:"feedback" json:"feedback,omitempty"`
	GradedBy     *string          `db:"graded_by" json:"graded_by,omitempty"`
	GradedAt     *time.Time       `db:"graded_at" json:"graded_at,omitempty"`
}

// AssignmentFilter captures list criteria for assignments.
type AssignmentFilter struct {
	CollegeID *string
	CourseID  *string
	TrainerID *string
	Status    *AssignmentStatus
	Page      int
	PageSize  int
}

// CreateAssignmentRequest is the payload for creating an assignment.
type CreateAssignmentRequest struct {
	Title          string         `json:"title" validate:"required,min=2"`
	Description    string         `json:"description"`
	CourseID       string         `json:"course_id" validate:"required"`
	Type           AssignmentType `json:"type" validate:"omitempty,oneof=individual group"`
	SubmissionKind SubmissionKind `json:"submission_type" validate:"omitempty,oneof=file text link"`
	DueDate        string         `json:"due_date" validate:"required"`
	Points         int            `json:"points" validate:"required,min=1"`
}

// SubmitAssignmentRequest hands in a student's work. Content carries the
// link, text, or uploaded file reference depending on the submission kind.
type SubmitAssignmentRequest struct {
	Content string `json:"content" validate:"required"`
}

// GradeSubmissionRequest records a trainer's score and feedback.
type GradeSubmissionRequest struct {
	Score    *int   `json:"score" validate:"required,min=0"`
	Feedback string `json:"feedback"`
}
