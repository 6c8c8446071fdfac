package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/student-records-api/api/swagger"
	"github.com/noah-isme/student-records-api/internal/handler"
	"github.com/noah-isme/student-records-api/internal/repository"
	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/internal/validation"
	"github.com/noah-isme/student-records-api/pkg/config"
	"github.com/noah-isme/student-records-api/pkg/database"
	"github.com/noah-isme/student-records-api/pkg/logger"
)

// @title Student Records API
// @version 1.0.0
// @description CRUD service for student records
// @BasePath /api
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

	db, err := database.NewPostgres(context.Background(), cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	var observer repository.QueryObserver
	if metrics != nil {
		observer = metrics
	}
	studentRepo := repository.NewStudentRepository(db, observer, cfg.Database.QueryTimeout)
	studentService := service.NewStudentService(studentRepo, validation.New(), logr)

	var exporter *service.ExportService
	if cfg.Exports.Enabled {
		exporter = service.NewExportService(studentService, logr)
	}

	studentHandler := newStudentHandler(studentService, exporter)
	healthHandler := handler.NewMetricsHandler(metrics, db)

	r := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Docs.Enabled,
		EnableMetrics:  metrics != nil,
	}, logr, metrics, studentHandler, healthHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// newStudentHandler keeps a disabled exporter as a nil interface.
func newStudentHandler(students *service.StudentService, exporter *service.ExportService) *handler.StudentHandler {
	if exporter == nil {
		return handler.NewStudentHandler(students, nil)
	}
	return handler.NewStudentHandler(students, exporter)
}
