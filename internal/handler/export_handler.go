package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foundarly/learnflow-junction/internal/models"
	"github.com/foundarly/learnflow-junction/internal/service"
	"github.com/foundarly/learnflow-junction/pkg/response"
)

// ExportHandler streams rendered export files.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Users godoc
// @Summary Export users
// @Description Download the user directory as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /exports/users [get]
func (h *ExportHandler) Users(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	var filter models.UserFilter
	if role := c.Query("role"); role != "" {
		parsed, err := models.ParseRole(role)
		if err == nil {
			filter.Role = &parsed
		}
	}

	result, err := h.exports.Users(c.Request.Context(), currentClaims(c), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// Courses godoc
// @Summary Export courses
// @Description Download the course catalog as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /exports/courses [get]
func (h *ExportHandler) Courses(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	var filter models.CourseFilter
	if status := c.Query("status"); status != "" {
		s := models.CourseStatus(status)
		filter.Status = &s
	}

	result, err := h.exports.Courses(c.Request.Context(), currentClaims(c), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
