package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/foundarly/learnflow-junction/internal/models"
)

// StatsRepository aggregates the counters behind the dashboard screens.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new instance of StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Platform returns platform-wide totals for super admins.
func (r *StatsRepository) Platform(ctx context.Context) (*models.PlatformStats, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM colleges) AS colleges,
		(SELECT COUNT(*) FROM colleges WHERE status = 'active') AS active_colleges,
		(SELECT COUNT(*) FROM users) AS users,
		(SELECT COUNT(*) FROM courses) AS courses,
		(SELECT COUNT(*) FROM courses WHERE status = 'active') AS active_courses`
	var stats struct {
		Colleges       int `db:"colleges"`
		ActiveColleges int `db:"active_colleges"`
		Users          int `db:"users"`
		Courses        int `db:"courses"`
		ActiveCourses  int `db:"active_courses"`
	}
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("platform stats: %w", err)
	}
	return &models.PlatformStats{
		Colleges:       stats.Colleges,
		ActiveColleges: stats.ActiveColleges,
		Users:          stats.Users,
		Courses:        stats.Courses,
		ActiveCourses:  stats.ActiveCourses,
	}, nil
}

// College returns totals scoped to one college.
func (r *StatsRepository) College(ctx context.Context, collegeID string) (*models.CollegeStats, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM users WHERE college_id = $1) AS users,
		(SELECT COUNT(*) FROM users WHERE college_id = $1 AND role = 'trainer') AS trainers,
		(SELECT COUNT(*) FROM users WHERE college_id = $1 AND role = 'student') AS students,
		(SELECT COUNT(*) FROM courses WHERE college_id = $1) AS courses,
		(SELECT COUNT(*) FROM courses WHERE college_id = $1 AND status = 'active') AS active_courses,
		(SELECT COUNT(*) FROM groups WHERE college_id = $1) AS groups`
	var stats struct {
		Users         int `db:"users"`
		Trainers      int `db:"trainers"`
		Students      int `db:"students"`
		Courses       int `db:"courses"`
		ActiveCourses int `db:"active_courses"`
		Groups        int `db:"groups"`
	}
	if err := r.db.GetContext(ctx, &stats, query, collegeID); err != nil {
		return nil, fmt.Errorf("college stats: %w", err)
	}
	return &models.CollegeStats{
		CollegeID:     collegeID,
		Users:         stats.Users,
		Trainers:      stats.Trainers,
		Students:      stats.Students,
		Courses:       stats.Courses,
		ActiveCourses: stats.ActiveCourses,
		Groups:        stats.Groups,
	}, nil
}

// Trainer returns a trainer's teaching load.
func (r *StatsRepository) Trainer(ctx context.Context, trainerID string) (*models.TrainerStats, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM courses WHERE trainer_id = $1) AS courses,
		(SELECT COUNT(*) FROM courses WHERE trainer_id = $1 AND status = 'active') AS active_courses,
		(SELECT COUNT(*) FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE c.trainer_id = $1) AS enrolled_students,
		COALESCE((SELECT AVG(e.progress) FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE c.trainer_id = $1), 0) AS average_progress`
	var stats struct {
		Courses          int     `db:"courses"`
		ActiveCourses    int     `db:"active_courses"`
		EnrolledStudents int     `db:"enrolled_students"`
		AverageProgress  float64 `db:"average_progress"`
	}
	if err := r.db.GetContext(ctx, &stats, query, trainerID); err != nil {
		return nil, fmt.Errorf("trainer stats: %w", err)
	}
	return &models.TrainerStats{
		Courses:          stats.Courses,
		ActiveCourses:    stats.ActiveCourses,
		EnrolledStudents: stats.EnrolledStudents,
		AverageProgress:  stats.AverageProgress,
	}, nil
}

// Staff returns group coordination totals for a staff member.
func (r *StatsRepository) Staff(ctx context.Context, staffID string) (*models.StaffStats, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM groups WHERE created_by = $1) AS groups,
		(SELECT COUNT(*) FROM groups WHERE created_by = $1 AND status = 'active') AS active_groups,
		(SELECT COUNT(*) FROM group_members gm JOIN groups g ON g.id = gm.group_id WHERE g.created_by = $1) AS total_members`
	var stats struct {
		Groups       int `db:"groups"`
		ActiveGroups int `db:"active_groups"`
		TotalMembers int `db:"total_members"`
	}
	if err := r.db.GetContext(ctx, &stats, query, staffID); err != nil {
		return nil, fmt.Errorf("staff stats: %w", err)
	}
	return &models.StaffStats{
		Groups:       stats.Groups,
		ActiveGroups: stats.ActiveGroups,
		TotalMembers: stats.TotalMembers,
	}, nil
}

// Student returns enrolment totals for a student.
func (r *StatsRepository) Student(ctx context.Context, studentID string) (*models.StudentStats, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM enrollments WHERE student_id = $1) AS enrolled_courses,
		COALESCE((SELECT AVG(progress) FROM enrollments WHERE student_id = $1), 0) AS average_progress,
		(SELECT COUNT(*) FROM group_members WHERE user_id = $1) AS groups`
	var stats struct {
		EnrolledCourses int     `db:"enrolled_courses"`
		AverageProgress float64 `db:"average_progress"`
		Groups          int     `db:"groups"`
	}
	if err := r.db.GetContext(ctx, &stats, query, studentID); err != nil {
		return nil, fmt.Errorf("student stats: %w", err)
	}
	return &models.StudentStats{
		EnrolledCourses: stats.EnrolledCourses,
		AverageProgress: stats.AverageProgress,
		Groups:          stats.Groups,
	}, nil
}
