package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/middleware"
	"github.com/noah-isme/student-records-api/internal/service"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/student-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-records-api/pkg/middleware/requestid"
	"github.com/noah-isme/student-records-api/pkg/response"
)

// RouterConfig carries the settings that shape the HTTP surface.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	EnableMetrics  bool
}

// NewRouter wires middleware and routes. Every failure, including a panic or
// an unknown route, is answered with a JSON error body.
func NewRouter(cfg RouterConfig, logr *zap.Logger, metrics *service.MetricsService, students *StudentHandler, health *MetricsHandler) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api"
	}

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logr.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		response.Recovered(c, recovered)
	}))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	if cfg.EnableMetrics && metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))

	api := r.Group(cfg.APIPrefix)
	api.GET("/health", health.Health)
	api.GET("/ready", health.Ready)

	studentRoutes := api.Group("/students")
	studentRoutes.GET("", students.List)
	studentRoutes.GET("/search", students.Search)
	studentRoutes.GET("/export", students.Export)
	studentRoutes.GET("/:id", students.Get)
	studentRoutes.POST("", students.Create)
	studentRoutes.PUT("/:id", students.Update)
	studentRoutes.DELETE("/:id", students.Delete)

	if cfg.EnableMetrics {
		r.GET("/metrics", health.Prometheus)
	}
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.ErrRouteNotFound)
	})

	return r
}
