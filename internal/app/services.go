package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/pipeline/orchestrator"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Generation   services.GenerationService
	Presentation services.PresentationService
	Design       services.DesignService
	Transfer     services.TransferService
	Pipeline     *orchestrator.Orchestrator
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	pipeline := orchestrator.NewForProfile(log, clients.Profile, clients.Pexels, clients.Texture, cfg.Pipeline.Concurrency, metrics)
	emitter := &services.BusEmitter{Bus: clients.Realtime, Log: log}

	return Services{
		Auth:         services.NewAuthService(db, log, repos.User, cfg.Auth.JWTSecretKey, cfg.Auth.AccessTokenTTL.Std()),
		Generation:   services.NewGenerationService(db, log, pipeline, repos.Presentation, repos.PromptHistory, emitter),
		Presentation: services.NewPresentationService(log, repos.Presentation),
		Design:       services.NewDesignService(log, clients.Pexels),
		Transfer:     services.NewTransferService(db, log, repos.User, repos.Presentation, repos.PromptHistory, repos.TransferLink),
		Pipeline:     pipeline,
	}
}
