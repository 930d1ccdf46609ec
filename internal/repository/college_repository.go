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

const collegeColumns = `id, name, address, contact_email, contact_phone, admin_id, status,
	(SELECT COUNT(*) FROM courses WHERE courses.college_id = colleges.id) AS courses_count,
	(SELECT COUNT(*) FROM users WHERE users.college_id = colleges.id AND users.role = 'student') AS students_count,
	created_at, updated_at`

// CollegeRepository provides database access for tenant colleges.
type CollegeRepository struct {
	db *sqlx.DB
}

// NewCollegeRepository creates a new instance of CollegeRepository.
func NewCollegeRepository(db *sqlx.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

// FindByID returns a college by identifier.
func (r *CollegeRepository) FindByID(ctx context.Context, id string) (*models.College, error) {
	query := `SELECT ` + collegeColumns + ` FROM colleges WHERE id = $1 LIMIT 1`
	var college models.College
	if err := r.db.GetContext(ctx, &college, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find college by id: %w", err)
	}
	return &college, nil
}

// Create inserts a new college.
func (r *CollegeRepository) Create(ctx context.Context, college *models.College) error {
	const query = `INSERT INTO colleges (id, name, address, contact_email, contact_phone, admin_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query,
		college.ID, college.Name, college.Address, college.ContactEmail, college.ContactPhone,
		college.AdminID, college.Status, college.CreatedAt, college.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create college: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of the request.
func (r *CollegeRepository) Update(ctx context.Context, id string, update models.UpdateCollegeRequest, updatedAt time.Time) error {
	sets := []string{"updated_at = $2"}
	args := []interface{}{id, updatedAt}

	if update.Name != nil {
		args = append(args, *update.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if update.Address != nil {
		args = append(args, *update.Address)
		sets = append(sets, fmt.Sprintf("address = $%d", len(args)))
	}
	if update.ContactEmail != nil {
		args = append(args, *update.ContactEmail)
		sets = append(sets, fmt.Sprintf("contact_email = $%d", len(args)))
	}
	if update.ContactPhone != nil {
		args = append(args, *update.ContactPhone)
		sets = append(sets, fmt.Sprintf("contact_phone = $%d", len(args)))
	}
	if update.AdminID != nil {
		args = append(args, *update.AdminID)
		sets = append(sets, fmt.Sprintf("admin_id = $%d", len(args)))
	}
	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}

	query := fmt.Sprintf("UPDATE colleges SET %s WHERE id = $1", strings.Join(sets, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update college: %w", err)
	}
	return nil
}

// List returns colleges based on filters with total count.
func (r *CollegeRepository) List(ctx context.Context, filter models.CollegeFilter) ([]models.College, int, error) {
	baseQuery := `FROM colleges WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		collegeColumns, baseQuery, pageSize, (page-1)*pageSize)

	var colleges []models.College
	if err := r.db.SelectContext(ctx, &colleges, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list colleges: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count colleges: %w", err)
	}

	return colleges, total, nil
}
