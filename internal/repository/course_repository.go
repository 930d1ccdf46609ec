package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/foundarly/learnflow-junction/internal/models"
)

const courseColumns = `co.id, co.title, co.description, co.thumbnail, co.duration_weeks, co.college_id,
	cl.name AS college_name, co.trainer_id, u.name AS trainer_name, co.status, co.start_date, co.end_date,
	(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = co.id) AS enrolled_students,
	co.max_students, co.tags, co.created_at, co.updated_at`

const courseJoins = `FROM courses co
	JOIN colleges cl ON cl.id = co.college_id
	JOIN users u ON u.id = co.trainer_id`

// CourseRepository provides database access for courses and enrollments.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID returns a course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` ` + courseJoins + ` WHERE co.id = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO courses (id, title, description, thumbnail, duration_weeks, college_id, trainer_id, status, start_date, end_date, max_students, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err := r.db.ExecContext(ctx, query,
		course.ID, course.Title, course.Description, course.Thumbnail, course.DurationWeeks,
		course.CollegeID, course.TrainerID, course.Status, course.StartDate, course.EndDate,
		course.MaxStudents, course.Tags, course.CreatedAt, course.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of the request.
func (r *CourseRepository) Update(ctx context.Context, id string, update models.UpdateCourseRequest, updatedAt time.Time) error {
	sets := []string{"updated_at = $2"}
	args := []interface{}{id, updatedAt}

	if update.Title != nil {
		args = append(args, *update.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if update.Description != nil {
		args = append(args, *update.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if update.MaxStudents != nil {
		args = append(args, *update.MaxStudents)
		sets = append(sets, fmt.Sprintf("max_students = $%d", len(args)))
	}
	if update.Tags != nil {
		args = append(args, pq.StringArray(update.Tags))
		sets = append(sets, fmt.Sprintf("tags = $%d", len(args)))
	}

	query := fmt.Sprintf("UPDATE courses SET %s WHERE id = $1", strings.Join(sets, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// List returns courses based on filters with total count.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	baseQuery := courseJoins + ` WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.CollegeID != nil {
		conditions = append(conditions, fmt.Sprintf("co.college_id = $%d", len(args)+1))
		args = append(args, *filter.CollegeID)
	}
	if filter.TrainerID != nil {
		conditions = append(conditions, fmt.Sprintf("co.trainer_id = $%d", len(args)+1))
		args = append(args, *filter.TrainerID)
	}
	if filter.StudentID != nil {
		conditions = append(conditions, fmt.Sprintf("co.id IN (SELECT course_id FROM enrollments WHERE student_id = $%d)", len(args)+1))
		args = append(args, *filter.StudentID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("co.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(co.title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY co.created_at DESC LIMIT %d OFFSET %d",
		courseColumns, baseQuery, pageSize, (page-1)*pageSize)

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	return courses, total, nil
}

// Enroll registers a student on a course.
func (r *CourseRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (id, course_id, student_id, enrolled_at, progress)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query,
		enrollment.ID, enrollment.CourseID, enrollment.StudentID, enrollment.EnrolledAt, enrollment.Progress,
	); err != nil {
		return fmt.Errorf("enroll student: %w", err)
	}
	return nil
}

// CountEnrollments returns the number of students on a course.
func (r *CourseRepository) CountEnrollments(ctx context.Context, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE course_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseID); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}

// IsEnrolled reports whether a student is already on a course.
func (r *CourseRepository) IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND student_id = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseID, studentID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return count > 0, nil
}
