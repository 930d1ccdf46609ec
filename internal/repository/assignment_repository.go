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

const assignmentColumns = `a.id, a.title, a.description, a.course_id, co.title AS course_name, a.college_id,
	a.trainer_id, a.assignment_type, a.submission_kind, a.due_date, a.points, a.status,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.assignment_id = a.id) AS submissions_count,
	a.created_at, a.updated_at`

const assignmentJoins = `FROM assignments a JOIN courses co ON co.id = a.course_id`

// AssignmentRepository provides database access for coursework.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// FindByID returns an assignment by identifier.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` ` + assignmentJoins + ` WHERE a.id = $1 LIMIT 1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment by id: %w", err)
	}
	return &assignment, nil
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	const query = `INSERT INTO assignments (id, title, description, course_id, college_id, trainer_id, assignment_type, submission_kind, due_date, points, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(ctx, query,
		assignment.ID, assignment.Title, assignment.Description, assignment.CourseID, assignment.CollegeID,
		assignment.TrainerID, assignment.Type, assignment.SubmissionKind, assignment.DueDate,
		assignment.Points, assignment.Status, assignment.CreatedAt, assignment.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// UpdateStatus moves an assignment through its lifecycle.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus, updatedAt time.Time) error {
	const query = `UPDATE assignments SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, updatedAt); err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}
	return nil
}

// List returns assignments based on filters with total count.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	baseQuery := assignmentJoins + ` WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.CollegeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.college_id = $%d", len(args)+1))
		args = append(args, *filter.CollegeID)
	}
	if filter.CourseID != nil {
		conditions = append(conditions, fmt.Sprintf("a.course_id = $%d", len(args)+1))
		args = append(args, *filter.CourseID)
	}
	if filter.TrainerID != nil {
		conditions = append(conditions, fmt.Sprintf("a.trainer_id = $%d", len(args)+1))
		args = append(args, *filter.TrainerID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)+1))
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY a.due_date ASC LIMIT %d OFFSET %d",
		assignmentColumns, baseQuery, pageSize, (page-1)*pageSize)

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	return assignments, total, nil
}

// CreateSubmission inserts a student's submission.
func (r *AssignmentRepository) CreateSubmission(ctx context.Context, sub *models.AssignmentSubmission) error {
	const query = `INSERT INTO assignment_submissions (id, assignment_id, student_id, content, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.AssignmentID, sub.StudentID, sub.Content, sub.Status, sub.SubmittedAt,
	); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// FindSubmission loads one student's submission for an assignment.
func (r *AssignmentRepository) FindSubmission(ctx context.Context, assignmentID, studentID string) (*models.AssignmentSubmission, error) {
	const query = `SELECT s.id, s.assignment_id, s.student_id, u.name AS student_name, s.content, s.status, s.submitted_at, s.score, s.feedback, s.graded_by, s.graded_at
		FROM assignment_submissions s JOIN users u ON u.id = s.student_id
		WHERE s.assignment_id = $1 AND s.student_id = $2 LIMIT 1`
	var sub models.AssignmentSubmission
	if err := r.db.GetContext(ctx, &sub, query, assignmentID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return &sub, nil
}

// FindSubmissionByID loads a submission by its identifier.
func (r *AssignmentRepository) FindSubmissionByID(ctx context.Context, id string) (*models.AssignmentSubmission, error) {
	const query = `SELECT s.id, s.assignment_id, s.student_id, u.name AS student_name, s.content, s.status, s.submitted_at, s.score, s.feedback, s.graded_by, s.graded_at
		FROM assignment_submissions s JOIN users u ON u.id = s.student_id
		WHERE s.id = $1 LIMIT 1`
	var sub models.AssignmentSubmission
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find submission by id: %w", err)
	}
	return &sub, nil
}

// ListSubmissions returns every submission for an assignment.
func (r *AssignmentRepository) ListSubmissions(ctx context.Context, assignmentID string) ([]models.AssignmentSubmission, error) {
	const query = `SELECT s.id, s.assignment_id, s.student_id, u.name AS student_name, s.content, s.status, s.submitted_at, s.score, s.feedback, s.graded_by, s.graded_at
		FROM assignment_submissions s JOIN users u ON u.id = s.student_id
		WHERE s.assignment_id = $1 ORDER BY s.submitted_at ASC`
	var subs []models.AssignmentSubmission
	if err := r.db.SelectContext(ctx, &subs, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// GradeSubmission records the trainer's score and feedback.
func (r *AssignmentRepository) GradeSubmission(ctx context.Context, id string, score int, feedback, gradedBy string, gradedAt time.Time) error {
	const query = `UPDATE assignment_submissions
		SET status = $2, score = $3, feedback = $4, graded_by = $5, graded_at = $6
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, models.SubmissionGraded, score, feedback, gradedBy, gradedAt)
	if err != nil {
		return fmt.Errorf("grade submission: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
