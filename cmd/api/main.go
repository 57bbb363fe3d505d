package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/univ-registry-api/api/swagger"
	"github.com/noah-isme/univ-registry-api/internal/handler"
	"github.com/noah-isme/univ-registry-api/internal/middleware"
	"github.com/noah-isme/univ-registry-api/internal/models"
	"github.com/noah-isme/univ-registry-api/internal/repository"
	"github.com/noah-isme/univ-registry-api/internal/service"
	"github.com/noah-isme/univ-registry-api/pkg/cache"
	"github.com/noah-isme/univ-registry-api/pkg/config"
	"github.com/noah-isme/univ-registry-api/pkg/database"
	"github.com/noah-isme/univ-registry-api/pkg/export"
	"github.com/noah-isme/univ-registry-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/univ-registry-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/univ-registry-api/pkg/middleware/requestid"
	"github.com/noah-isme/univ-registry-api/pkg/storage"
)

// @title University Registry API
// @version 0.1.0
// @description Academic records administration backend
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload storage", "error", err)
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	metricsService := service.NewMetricsService()
	stateRepo := repository.NewStateRepository(redisClient, cfg.Registry.StateNamespace, metricsService, logr)

	activityService := service.NewActivityService(stateRepo, cfg.Registry.ActivityFeedSize, logr)
	activityService.RegisterDefaults()
	notifier := service.NewNotifier(cfg.Registry.ToastDuration)

	yearService := service.NewYearFolderService(stateRepo, activityService, logr)
	studentService := service.NewStudentService(studentRepo, activityService, validate, logr)
	facultyService := service.NewFacultyService(facultyRepo, activityService, validate, logr)
	courseService := service.NewCourseService(courseRepo, activityService, validate, logr)
	departmentService := service.NewDepartmentService(departmentRepo, studentRepo, facultyRepo, courseRepo, activityService, validate, logr)
	authService := service.NewAuthService(userRepo, uploadStore, cfg.JWT, validate, logr)
	reportService := service.NewReportService(studentRepo, facultyRepo, courseRepo, yearService, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authService, cfg.Uploads)
	studentHandler := handler.NewStudentHandler(studentService)
	facultyHandler := handler.NewFacultyHandler(facultyService)
	courseHandler := handler.NewCourseHandler(courseService, reportService)
	departmentHandler := handler.NewDepartmentHandler(departmentService, reportService)
	yearHandler := handler.NewYearFolderHandler(yearService)
	activityHandler := handler.NewActivityHandler(activityService, notifier)
	reportHandler := handler.NewReportHandler(reportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	r.Static(cfg.Uploads.PublicPath, cfg.Uploads.StorageDir)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	auth.PUT("/profile", middleware.JWT(authService), authHandler.UpdateProfile)

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	adminOnly := middleware.RequirePositions(models.PositionAdmin)

	students := protected.Group("/students")
	students.GET("", studentHandler.List)
	students.GET("/:id", studentHandler.Get)
	students.POST("", adminOnly, studentHandler.Create)
	students.PUT("/:id", adminOnly, studentHandler.Update)
	students.DELETE("/:id", adminOnly, studentHandler.Delete)

	faculty := protected.Group("/faculty")
	faculty.GET("", facultyHandler.List)
	faculty.GET("/:id", facultyHandler.Get)
	faculty.POST("", adminOnly, facultyHandler.Create)
	faculty.PUT("/:id", adminOnly, facultyHandler.Update)
	faculty.DELETE("/:id", adminOnly, facultyHandler.Delete)

	courses := protected.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/:id", courseHandler.Get)
	courses.GET("/:id/student-count", courseHandler.StudentCount)
	courses.POST("", adminOnly, courseHandler.Create)
	courses.PUT("/:id", adminOnly, courseHandler.Update)
	courses.DELETE("/:id", adminOnly, courseHandler.Delete)

	departments := protected.Group("/departments")
	departments.GET("", departmentHandler.List)
	departments.GET("/:id", departmentHandler.Get)
	departments.POST("", adminOnly, departmentHandler.Create)
	departments.PUT("/:id", adminOnly, departmentHandler.Update)
	departments.DELETE("/:id", adminOnly, departmentHandler.Delete)

	protected.GET("/programs/:name/faculty-count", departmentHandler.FacultyCount)

	years := protected.Group("/years")
	years.GET("", yearHandler.List)
	years.POST("", adminOnly, yearHandler.Create)
	years.POST("/archive", adminOnly, yearHandler.Archive)
	years.POST("/restore", adminOnly, yearHandler.Restore)
	years.DELETE("/:label", adminOnly, yearHandler.Delete)

	protected.GET("/activity", activityHandler.Feed)

	notifications := protected.Group("/notifications")
	notifications.GET("", activityHandler.Active)
	notifications.POST("", activityHandler.Notify)
	notifications.POST("/:id/hover", activityHandler.Hover)
	notifications.POST("/:id/leave", activityHandler.Leave)
	notifications.DELETE("/:id", activityHandler.Dismiss)

	reports := protected.Group("/reports")
	reports.GET("/students-by-year", reportHandler.StudentsByYear)
	reports.GET("/faculty-by-year", reportHandler.FacultyByYear)
	reports.GET("/faculty-position-count", reportHandler.PositionCount)
	reports.GET("/dean-count", reportHandler.DeanCount)
	reports.GET("/year-summary", reportHandler.YearSummary)
	reports.GET("/students/export", reportHandler.ExportStudents)
	reports.GET("/faculty/export", reportHandler.ExportFaculty)

	protected.GET("/admin/metrics", adminOnly, metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
