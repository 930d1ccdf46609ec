package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/foundarly/learnflow-junction/api/swagger"
	"github.com/foundarly/learnflow-junction/internal/handler"
	"github.com/foundarly/learnflow-junction/internal/repository"
	"github.com/foundarly/learnflow-junction/internal/router"
	"github.com/foundarly/learnflow-junction/internal/service"
	"github.com/foundarly/learnflow-junction/pkg/cache"
	"github.com/foundarly/learnflow-junction/pkg/config"
	"github.com/foundarly/learnflow-junction/pkg/database"
	"github.com/foundarly/learnflow-junction/pkg/logger"
)

// @title LearnFlow Junction API
// @version 1.0.0
// @description Role-based educational administration platform
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(redisClient, metricsSvc, cfg.Dashboard.CacheTTL, logr)

	userRepo := repository.NewUserRepository(db)
	collegeRepo := repository.NewCollegeRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	collegeSvc := service.NewCollegeService(collegeRepo, cacheSvc, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, courseRepo, validate, logr)
	groupSvc := service.NewGroupService(groupRepo, courseRepo, validate, logr)
	calendarSvc := service.NewCalendarService(calendarRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(statsRepo, calendarRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	exportSvc := service.NewExportService(userSvc, courseSvc, cfg.Export.MaxRows, cfg.Export.Brand, logr)

	r := router.New(router.Deps{
		Auth:        handler.NewAuthHandler(authSvc),
		Users:       handler.NewUserHandler(userSvc),
		Colleges:    handler.NewCollegeHandler(collegeSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Assignments: handler.NewAssignmentHandler(assignmentSvc),
		Groups:      handler.NewGroupHandler(groupSvc),
		Calendar:    handler.NewCalendarHandler(calendarSvc),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc),
		Exports:     handler.NewExportHandler(exportSvc),

		TokenValidator:   authSvc,
		Metrics:          metricsSvc,
		Logger:           logr,
		CORS:             cfg.CORS,
		APIPrefix:        cfg.APIPrefix,
		DashboardEnabled: cfg.Dashboard.Enabled,
		ExportsEnabled:   cfg.Export.Enabled,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
