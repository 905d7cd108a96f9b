package app

import (
	"gorm.io/gorm"

	apphttp "github.com/yungbote/slideforge-backend/internal/http"
	httpH "github.com/yungbote/slideforge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/slideforge-backend/internal/http/middleware"
	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/realtime"
)

func wireHTTP(db *gorm.DB, log *logger.Logger, cfg Config, svc Services, hub *realtime.SSEHub, metrics *observability.Metrics) *apphttp.Server {
	log.Info("Wiring handlers...")
	serviceName := ""
	if cfg.Observability.OtelEnabled {
		serviceName = cfg.Observability.ServiceName
	}
	return apphttp.NewServer(cfg.HTTP.Addr, apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    serviceName,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,

		AuthHandler:     httpH.NewAuthHandler(svc.Auth),
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, svc.Auth),
		RealtimeHandler: httpH.NewRealtimeHandler(log, hub),

		GenerationHandler:   httpH.NewGenerationHandler(log, svc.Generation),
		PresentationHandler: httpH.NewPresentationHandler(svc.Presentation),
		DesignHandler:       httpH.NewDesignHandler(svc.Design),
		TransferHandler:     httpH.NewTransferHandler(svc.Transfer),

		HealthHandler: httpH.NewHealthHandler(db),
	})
}
