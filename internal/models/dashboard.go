package models

import "time"

// DashboardSummary is the role-dependent payload behind the dashboard screen.
// Only the blocks relevant to the requesting role are populated.
type DashboardSummary struct {
	Role        Role           `json:"role"`
	GeneratedAt time.Time      `json:"generated_at"`
	CacheHit    bool           `json:"-"`
	Platform    *PlatformStats `json:"platform,omitempty"`
	College     *CollegeStats  `json:"college,omitempty"`
	Trainer     *TrainerStats  `json:"trainer,omitempty"`
	Staff       *StaffStats    `json:"staff,omitempty"`
	Student     *StudentStats  `json:"student,omitempty"`

	UpcomingEvents []CalendarEvent `json:"upcoming_events,omitempty"`
}

// PlatformStats summarises the whole platform for super admins.
type PlatformStats struct {
	Colleges       int `json:"colleges"`
	ActiveColleges int `json:"active_colleges"`
	Users          int `json:"users"`
	Courses        int `json:"courses"`
	ActiveCourses  int `json:"active_courses"`
}

// CollegeStats summarises a single college for its admin.
type CollegeStats struct {
	CollegeID     string `json:"college_id"`
	Users         int    `json:"users"`
	Trainers      int    `json:"trainers"`
	Students      int    `json:"students"`
	Courses       int    `json:"courses"`
	ActiveCourses int    `json:"active_courses"`
	Groups        int    `json:"groups"`
}

// TrainerStats summarises a trainer's teaching load.
type TrainerStats struct {
	Courses          int     `json:"courses"`
	ActiveCourses    int     `json:"active_courses"`
	EnrolledStudents int     `json:"enrolled_students"`
	AverageProgress  float64 `json:"average_progress"`
}

// StaffStats summarises group coordination work.
type StaffStats struct {
	Groups       int `json:"groups"`
	ActiveGroups int `json:"active_groups"`
	TotalMembers int `json:"total_members"`
}

// StudentStats summarises a student's enrolment.
type StudentStats struct {
	EnrolledCourses int     `json:"enrolled_courses"`
	AverageProgress float64 `json:"average_progress"`
	Groups          int     `json:"groups"`
}
