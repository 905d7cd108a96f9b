package http

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	httpH "github.com/yungbote/slideforge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/slideforge-backend/internal/http/middleware"
	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/platform/validate"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	AuthHandler     *httpH.AuthHandler
	AuthMiddleware  *httpMW.AuthMiddleware
	RealtimeHandler *httpH.RealtimeHandler

	GenerationHandler   *httpH.GenerationHandler
	PresentationHandler *httpH.PresentationHandler
	DesignHandler       *httpH.DesignHandler
	TransferHandler     *httpH.TransferHandler

	HealthHandler *httpH.HealthHandler
}

var streamRoutes = []string{"/api/sse/stream", "/api/generate-slides/stream"}

func NewRouter(cfg RouterConfig) *gin.Engine {
	binding.Validator = validate.Binding{}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(httpMW.Tracing(cfg.ServiceName))
	}
	r.Use(httpMW.AttachRequestIDs())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, streamRoutes...))
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/demo-user", cfg.AuthHandler.CreateDemoUser)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}

		// Generation
		if cfg.GenerationHandler != nil {
			protected.POST("/generate-slides", cfg.GenerationHandler.Generate)
			protected.POST("/generate-slides/stream", cfg.GenerationHandler.GenerateStream)
		}

		// Presentations
		if cfg.PresentationHandler != nil {
			protected.GET("/presentations", cfg.PresentationHandler.List)
			protected.PATCH("/presentations", cfg.PresentationHandler.Update)
			protected.DELETE("/presentations", cfg.PresentationHandler.Delete)
			protected.GET("/presentations/:id", cfg.PresentationHandler.Get)
			protected.GET("/presentations/:id/editor", cfg.PresentationHandler.Editor)
		}

		// Design utilities
		if cfg.DesignHandler != nil {
			protected.GET("/design/images", cfg.DesignHandler.SearchImages)
			protected.GET("/design/gradient", cfg.DesignHandler.Gradient)
			protected.POST("/design/blob", cfg.DesignHandler.Blob)
		}

		// Demo data transfer
		if cfg.TransferHandler != nil {
			protected.POST("/transfer-demo-data", cfg.TransferHandler.TransferDemoData)
		}
	}

	return r
}
