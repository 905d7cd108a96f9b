package app

import (
	"fmt"

	"github.com/yungbote/slideforge-backend/internal/clients/pexels"
	"github.com/yungbote/slideforge-backend/internal/llm"
	"github.com/yungbote/slideforge-backend/internal/llm/gemini"
	"github.com/yungbote/slideforge-backend/internal/llm/mock"
	"github.com/yungbote/slideforge-backend/internal/llm/oaichat"
	"github.com/yungbote/slideforge-backend/internal/llm/ratelimit"
	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/pipeline/assets"
	"github.com/yungbote/slideforge-backend/internal/pipeline/profile"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/realtime"
	"github.com/yungbote/slideforge-backend/internal/realtime/bus"
)

type Clients struct {
	Gateway  llm.Gateway
	Pexels   *pexels.Client
	Texture  *assets.TextureSource
	Profile  profile.PromptProfile
	Hub      *realtime.SSEHub
	Bus      bus.Bus
	Realtime bus.Publisher
}

func wireClients(log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	gateway, err := newGateway(log, cfg.LLM, metrics)
	if err != nil {
		return Clients{}, err
	}

	prof, err := loadProfile(log, cfg.Pipeline)
	if err != nil {
		return Clients{}, err
	}

	px := pexels.New(log, pexels.Config{
		APIKey:  cfg.Pexels.APIKey,
		Timeout: cfg.Pexels.Timeout.Std(),
	})
	if !px.Configured() {
		log.Warn("PEXELS_API_KEY not set; image slots will use gradients")
	}

	hub := realtime.NewSSEHub(log)
	out := Clients{
		Gateway:  gateway,
		Pexels:   px,
		Texture:  assets.NewTextureSource(cfg.Pipeline.TextureMode),
		Profile:  profile.PromptProfile{Profile: prof, Gateway: gateway},
		Hub:      hub,
		Realtime: bus.Local{Hub: hub},
	}

	if cfg.Redis.Addr != "" {
		b, err := bus.NewRedisBus(log, bus.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.Channel,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis bus: %w", err)
		}
		out.Bus = b
		out.Realtime = b
	}
	return out, nil
}

func newGateway(log *logger.Logger, cfg LLMConfig, metrics *observability.Metrics) (llm.Gateway, error) {
	var provider llm.Provider
	switch cfg.Provider {
	case ProviderMock:
		log.Warn("LLM_PROVIDER=mock; every stage will use its fallback")
		return mock.New(), nil
	case ProviderGemini:
		provider = gemini.New(gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
	case ProviderOpenRouter:
		provider = oaichat.New(oaichat.Config{
			BaseURL: cfg.OpenRouterBaseURL,
			APIKey:  cfg.OpenRouterAPIKey,
			Model:   cfg.OpenRouterModel,
			Title:   "SlideForge",
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err := provider.Validate(); err != nil {
		log.Warn("LLM provider not configured; calls will fail over to fallbacks", "provider", provider.Name(), "error", err)
	}
	limiter := ratelimit.New(cfg.MinInterval.Std(), ratelimit.RealClock())
	return llm.NewClient(log, provider, limiter, llm.ClientConfig{
		Timeout: cfg.Timeout.Std(),
		Metrics: metrics,
	}), nil
}

// loadProfile picks the named prompt profile from the override bundle when
// one is configured, otherwise from the embedded bundle.
func loadProfile(log *logger.Logger, cfg PipelineConfig) (*profile.Profile, error) {
	var set *profile.Set
	if cfg.PromptProfilePath != "" {
		s, err := profile.Load(cfg.PromptProfilePath)
		if err != nil {
			return nil, fmt.Errorf("load prompt profiles %s: %w", cfg.PromptProfilePath, err)
		}
		set = s
	} else {
		set = profile.Runtime(log)
	}
	p, err := set.Get(cfg.PromptProfile)
	if err != nil {
		return nil, fmt.Errorf("select prompt profile: %w", err)
	}
	log.Info("Prompt profile selected", "profile", p.Name, "available", set.Names())
	return p, nil
}
