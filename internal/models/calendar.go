package models

import "time"

// CalendarEventType categorises calendar entries.
type CalendarEventType string

const (
	EventClass      CalendarEventType = "class"
	EventAssignment CalendarEventType = "assignment"
	EventExam       CalendarEventType = "exam"
	EventMeeting    CalendarEventType = "meeting"
	EventHoliday    CalendarEventType = "holiday"
)

// CalendarEvent represents a scheduled entry visible on the calendar screen.
type CalendarEvent struct {
	ID        string            `db:"id" json:"id"`
	Title     string            `db:"title" json:"title"`
	Type      CalendarEventType `db:"type" json:"type"`
	StartsAt  time.Time         `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time         `db:"ends_at" json:"ends_at"`
	CollegeID *string           `db:"college_id" json:"college_id,omitempty"`
	CourseID  *string           `db:"course_id" json:"course_id,omitempty"`
	Audience  string            `db:"audience" json:"audience"`
	CreatedBy string            `db:"created_by" json:"created_by"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// CalendarFilter captures list criteria for calendar events.
type CalendarFilter struct {
	CollegeID *string
	CourseID  *string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

// CreateCalendarEventRequest is the payload for creating an event.
type CreateCalendarEventRequest struct {
	Title    string            `json:"title" validate:"required,min=2"`
	Type     CalendarEventType `json:"type" validate:"required,oneof=class assignment exam meeting holiday"`
	StartsAt time.Time         `json:"starts_at" validate:"required"`
	EndsAt   time.Time         `json:"ends_at" validate:"required"`
	CourseID *string           `json:"course_id,omitempty"`
	Audience string            `json:"audience" validate:"required"`
}
