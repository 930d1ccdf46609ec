package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/foundarly/learnflow-junction/internal/models"
)

// CalendarRepository provides database access for calendar events.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository creates a new instance of CalendarRepository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// Create inserts a calendar event.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	const query = `INSERT INTO calendar_events (id, title, type, starts_at, ends_at, college_id, course_id, audience, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		event.ID, event.Title, event.Type, event.StartsAt, event.EndsAt,
		event.CollegeID, event.CourseID, event.Audience, event.CreatedBy, event.CreatedAt,
	); err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	return nil
}

// List returns events based on filters with total count.
func (r *CalendarRepository) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error) {
	baseQuery := `FROM calendar_events WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.CollegeID != nil {
		conditions = append(conditions, fmt.Sprintf("(college_id = $%d OR college_id IS NULL)", len(args)+1))
		args = append(args, *filter.CollegeID)
	}
	if filter.CourseID != nil {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, *filter.CourseID)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("starts_at >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("starts_at < $%d", len(args)+1))
		args = append(args, *filter.To)
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
		pageSize = 50
	}

	listQuery := fmt.Sprintf(`SELECT id, title, type, starts_at, ends_at, college_id, course_id, audience, created_by, created_at %s ORDER BY starts_at ASC LIMIT %d OFFSET %d`,
		baseQuery, pageSize, (page-1)*pageSize)

	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list calendar events: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count calendar events: %w", err)
	}

	return events, total, nil
}

// Upcoming returns the next events for a college from the given instant.
func (r *CalendarRepository) Upcoming(ctx context.Context, collegeID *string, limit int) ([]models.CalendarEvent, error) {
	if limit <= 0 {
		limit = 3
	}
	query := `SELECT id, title, type, starts_at, ends_at, college_id, course_id, audience, created_by, created_at
		FROM calendar_events WHERE starts_at >= NOW()`
	var args []interface{}
	if collegeID != nil {
		query += ` AND (college_id = $1 OR college_id IS NULL)`
		args = append(args, *collegeID)
	}
	query += fmt.Sprintf(" ORDER BY starts_at ASC LIMIT %d", limit)

	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("upcoming calendar events: %w", err)
	}
	return events, nil
}
