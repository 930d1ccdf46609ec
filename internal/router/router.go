package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/foundarly/learnflow-junction/internal/handler"
	"github.com/foundarly/learnflow-junction/internal/middleware"
	"github.com/foundarly/learnflow-junction/internal/models"
	"github.com/foundarly/learnflow-junction/internal/service"
	"github.com/foundarly/learnflow-junction/pkg/config"
	"github.com/foundarly/learnflow-junction/pkg/logger"
	corsmiddleware "github.com/foundarly/learnflow-junction/pkg/middleware/cors"
	reqidmiddleware "github.com/foundarly/learnflow-junction/pkg/middleware/requestid"
)

// Deps bundles everything the HTTP surface needs. DashboardEnabled and
// ExportsEnabled mirror the feature flags in config; a disabled feature's
// routes are never registered.
type Deps struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Colleges    *handler.CollegeHandler
	Courses     *handler.CourseHandler
	Assignments *handler.AssignmentHandler
	Groups      *handler.GroupHandler
	Calendar    *handler.CalendarHandler
	Dashboard   *handler.DashboardHandler
	Exports     *handler.ExportHandler

	TokenValidator   middleware.TokenValidator
	Metrics          *service.MetricsService
	Logger           *zap.Logger
	CORS             config.CORSConfig
	APIPrefix        string
	DashboardEnabled bool
	ExportsEnabled   bool
}

// New assembles the gin engine with the full middleware chain and routes.
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.New())
	if deps.Logger != nil {
		r.Use(logger.GinMiddleware(deps.Logger))
	}
	r.Use(corsmiddleware.New(deps.CORS))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	prefix := deps.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/refresh", deps.Auth.Refresh)

		authed := auth.Group("")
		authed.Use(middleware.JWT(deps.TokenValidator))
		authed.POST("/logout", deps.Auth.Logout)
		authed.GET("/me", deps.Auth.Me)
		authed.PATCH("/me", deps.Auth.UpdateProfile)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(deps.TokenValidator))

	if deps.DashboardEnabled {
		protected.GET("/dashboard", deps.Dashboard.Summary)
	}

	colleges := protected.Group("/colleges")
	colleges.Use(middleware.RequireRoles(models.RoleSuperAdmin))
	{
		colleges.GET("", deps.Colleges.List)
		colleges.GET("/:id", deps.Colleges.Get)
		colleges.POST("", deps.Colleges.Create)
		colleges.PATCH("/:id", deps.Colleges.Update)
	}

	users := protected.Group("/users")
	users.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
	{
		users.GET("", deps.Users.List)
		users.PATCH("/:id", deps.Users.UpdateProfile)
		users.PATCH("/:id/status", deps.Users.UpdateStatus)
	}
	protected.GET("/users/:id", middleware.RequireRolesOrSelf("id", models.RoleSuperAdmin, models.RoleAdmin), deps.Users.Get)

	courses := protected.Group("/courses")
	{
		courses.GET("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTrainer, models.RoleStudent), deps.Courses.List)
		courses.GET("/mine", middleware.RequireRoles(models.RoleStudent), deps.Courses.MyCourses)
		courses.GET("/:id", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTrainer, models.RoleStudent), deps.Courses.Get)
		courses.POST("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin), deps.Courses.Create)
		courses.PATCH("/:id", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTrainer), deps.Courses.Update)
		courses.POST("/:id/enroll", middleware.RequireRoles(models.RoleStudent), deps.Courses.Enroll)
	}

	assignments := protected.Group("/assignments")
	assignments.Use(middleware.RequireRoles(models.RoleTrainer, models.RoleStudent))
	{
		assignments.GET("", deps.Assignments.List)
		assignments.GET("/:id", deps.Assignments.Get)
		assignments.POST("", middleware.RequireRoles(models.RoleTrainer), deps.Assignments.Create)
		assignments.PATCH("/:id/status", middleware.RequireRoles(models.RoleTrainer), deps.Assignments.UpdateStatus)
		assignments.GET("/:id/submissions", middleware.RequireRoles(models.RoleTrainer), deps.Assignments.Submissions)
		assignments.POST("/:id/submissions", middleware.RequireRoles(models.RoleStudent), deps.Assignments.Submit)
		assignments.PATCH("/:id/submissions/:submissionId", middleware.RequireRoles(models.RoleTrainer), deps.Assignments.Grade)
	}

	groups := protected.Group("/groups")
	groups.Use(middleware.RequireRoles(models.RoleStaff, models.RoleStudent))
	{
		groups.GET("", deps.Groups.List)
		groups.GET("/:id", deps.Groups.Get)
		groups.POST("", middleware.RequireRoles(models.RoleStaff), deps.Groups.Create)
		groups.POST("/:id/members", middleware.RequireRoles(models.RoleStaff), deps.Groups.AddMember)
		groups.DELETE("/:id/members/:userId", middleware.RequireRoles(models.RoleStaff), deps.Groups.RemoveMember)
		groups.PATCH("/:id/status", middleware.RequireRoles(models.RoleStaff), deps.Groups.UpdateStatus)
	}

	calendar := protected.Group("/calendar")
	{
		calendar.GET("", deps.Calendar.List)
		calendar.GET("/upcoming", deps.Calendar.Upcoming)
		calendar.POST("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTrainer, models.RoleStaff), deps.Calendar.Create)
	}

	if deps.ExportsEnabled {
		exports := protected.Group("/exports")
		exports.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
		{
			exports.GET("/users", deps.Exports.Users)
			exports.GET("/courses", deps.Exports.Courses)
		}
	}

	return r
}
