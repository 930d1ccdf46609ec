package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foundarly/learnflow-junction/internal/models"
	appErrors "github.com/foundarly/learnflow-junction/pkg/errors"
	"github.com/foundarly/learnflow-junction/pkg/export"
)

// ExportFormat enumerates supported export encodings.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

const exportPageSize = 100

// ExportResult carries rendered bytes plus response metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

type exportUserLister interface {
	List(ctx context.Context, actor *models.JWTClaims, filter models.UserFilter) ([]models.User, *models.Pagination, error)
}

type exportCourseLister interface {
	List(ctx context.Context, actor *models.JWTClaims, filter models.CourseFilter) ([]models.Course, *models.Pagination, error)
}

// ExportService renders user and course listings as downloadable files.
// Exports are capped at maxRows rows regardless of how large the listing is.
type ExportService struct {
	users   exportUserLister
	courses exportCourseLister
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	maxRows int
	logger  *zap.Logger
}

// NewExportService constructs an ExportService instance. The brand name is
// printed in PDF headers; maxRows below 1 falls back to 5000.
func NewExportService(users exportUserLister, courses exportCourseLister, maxRows int, brand string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRows < 1 {
		maxRows = 5000
	}
	return &ExportService{
		users:   users,
		courses: courses,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(brand),
		maxRows: maxRows,
		logger:  logger,
	}
}

// Users exports the user listing visible to the actor.
func (s *ExportService) Users(ctx context.Context, actor *models.JWTClaims, filter models.UserFilter, format ExportFormat) (*ExportResult, error) {
	filter.Page = 1
	filter.PageSize = exportPageSize

	var rows [][]string
	for len(rows) < s.maxRows {
		users, page, err := s.users.List(ctx, actor, filter)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			college := ""
			if u.CollegeName != nil {
				college = *u.CollegeName
			}
			rows = append(rows, []string{
				u.Name,
				u.Email,
				string(u.Role),
				college,
				string(u.Status),
				u.JoinDate.Format("2006-01-02"),
			})
		}
		if len(rows) >= page.TotalCount || len(users) == 0 {
			break
		}
		filter.Page++
	}
	rows = s.capRows(rows, "users")

	table := export.Table{
		Title: "User Directory",
		Columns: []export.Column{
			{Name: "Name", Width: 2},
			{Name: "Email", Width: 3},
			{Name: "Role"},
			{Name: "College", Width: 2},
			{Name: "Status"},
			{Name: "Joined"},
		},
		Rows: rows,
	}
	return s.render(table, "users", format)
}

// Courses exports the course listing visible to the actor.
func (s *ExportService) Courses(ctx context.Context, actor *models.JWTClaims, filter models.CourseFilter, format ExportFormat) (*ExportResult, error) {
	filter.Page = 1
	filter.PageSize = exportPageSize

	var rows [][]string
	for len(rows) < s.maxRows {
		courses, page, err := s.courses.List(ctx, actor, filter)
		if err != nil {
			return nil, err
		}
		for _, c := range courses {
			rows = append(rows, []string{
				c.Title,
				c.CollegeName,
				c.TrainerName,
				string(c.Status),
				strconv.Itoa(c.EnrolledStudents),
				strconv.Itoa(c.MaxStudents),
				strings.Join(c.Tags, ", "),
			})
		}
		if len(rows) >= page.TotalCount || len(courses) == 0 {
			break
		}
		filter.Page++
	}
	rows = s.capRows(rows, "courses")

	table := export.Table{
		Title: "Course Catalog",
		Columns: []export.Column{
			{Name: "Title", Width: 3},
			{Name: "College", Width: 2},
			{Name: "Trainer", Width: 2},
			{Name: "Status"},
			{Name: "Enrolled"},
			{Name: "Capacity"},
			{Name: "Tags", Width: 2},
		},
		Rows: rows,
	}
	return s.render(table, "courses", format)
}

func (s *ExportService) capRows(rows [][]string, name string) [][]string {
	if len(rows) <= s.maxRows {
		return rows
	}
	s.logger.Warn("export truncated",
		zap.String("dataset", name),
		zap.Int("rows", len(rows)),
		zap.Int("max_rows", s.maxRows))
	return rows[:s.maxRows]
}

func (s *ExportService) render(table export.Table, name string, format ExportFormat) (*ExportResult, error) {
	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case FormatCSV:
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("%s-%s.csv", name, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case FormatPDF:
		data, err := s.pdf.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("%s-%s.pdf", name, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
