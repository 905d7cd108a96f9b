package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/slideforge-backend/internal/data/db"
	"github.com/yungbote/slideforge-backend/internal/platform/envutil"
)

const (
	ConfigPathEnv     = "SLIDEFORGE_CONFIG_PATH"
	defaultConfigPath = "./config/config.json"
	defaultJWTSecret  = "defaultsecret"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// Duration decodes from "5s" style strings or integer nanoseconds.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*d = Duration(time.Duration(x))
	case string:
		parsed, err := time.ParseDuration(strings.TrimSpace(x))
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", x, err)
		}
		*d = Duration(parsed)
	case nil:
		*d = 0
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

type HTTPConfig struct {
	Addr           string   `json:"addr"`
	AllowedOrigins []string `json:"allowed_origins"`
}

type AuthConfig struct {
	JWTSecretKey   string   `json:"jwt_secret_key"`
	AccessTokenTTL Duration `json:"access_token_ttl"`
}

type LLMConfig struct {
	Provider          string   `json:"provider"`
	OpenRouterAPIKey  string   `json:"openrouter_api_key"`
	OpenRouterModel   string   `json:"openrouter_model"`
	OpenRouterBaseURL string   `json:"openrouter_base_url"`
	GeminiAPIKey      string   `json:"gemini_api_key"`
	GeminiModel       string   `json:"gemini_model"`
	MinInterval       Duration `json:"min_interval"`
	Timeout           Duration `json:"timeout"`
}

type PexelsConfig struct {
	APIKey  string   `json:"api_key"`
	Timeout Duration `json:"timeout"`
}

type PipelineConfig struct {
	PromptProfile     string `json:"prompt_profile"`
	PromptProfilePath string `json:"prompt_profile_path"`
	TextureMode       string `json:"texture_mode"`
	Concurrency       int    `json:"concurrency"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Channel  string `json:"channel"`
}

type ObservabilityConfig struct {
	OtelEnabled    bool   `json:"otel_enabled"`
	ServiceName    string `json:"service_name"`
	Environment    string `json:"environment"`
	Version        string `json:"version"`
	MetricsEnabled bool   `json:"metrics_enabled"`
	MetricsAddr    string `json:"metrics_addr"`
}

type Config struct {
	LogMode       string              `json:"log_mode"`
	HTTP          HTTPConfig          `json:"http"`
	DB            db.Config           `json:"db"`
	Auth          AuthConfig          `json:"auth"`
	LLM           LLMConfig           `json:"llm"`
	Pexels        PexelsConfig        `json:"pexels"`
	Pipeline      PipelineConfig      `json:"pipeline"`
	Redis         RedisConfig         `json:"redis"`
	Observability ObservabilityConfig `json:"observability"`
}

func defaultConfig() Config {
	return Config{
		LogMode: "development",
		HTTP:    HTTPConfig{Addr: ":8080"},
		DB: db.Config{
			Driver:          db.DriverPostgres,
			PostgresHost:    "localhost",
			PostgresPort:    "5432",
			PostgresUser:    "postgres",
			PostgresName:    "slideforge",
			PostgresSSLMode: "disable",
		},
		Auth: AuthConfig{
			JWTSecretKey:   defaultJWTSecret,
			AccessTokenTTL: Duration(24 * time.Hour),
		},
		LLM: LLMConfig{
			Provider:    ProviderOpenRouter,
			MinInterval: Duration(time.Second),
			Timeout:     Duration(60 * time.Second),
		},
		Pexels: PexelsConfig{Timeout: Duration(10 * time.Second)},
		Pipeline: PipelineConfig{
			TextureMode: "raster",
			Concurrency: 3,
		},
		Redis:         RedisConfig{Channel: "slideforge:sse"},
		Observability: ObservabilityConfig{ServiceName: "slideforge-api", MetricsAddr: ":9090"},
	}
}

// LoadConfig reads the optional JSON file named by SLIDEFORGE_CONFIG_PATH,
// then applies environment overrides and validates the result.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	path := envutil.String(ConfigPathEnv, defaultConfigPath)
	if err := cfg.loadFile(path); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)

	c.HTTP.Addr = envutil.String("HTTP_ADDR", c.HTTP.Addr)
	if origins := envutil.String("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		c.HTTP.AllowedOrigins = splitList(origins)
	}

	c.DB.Driver = envutil.String("DB_DRIVER", c.DB.Driver)
	c.DB.PostgresHost = envutil.String("POSTGRES_HOST", c.DB.PostgresHost)
	c.DB.PostgresPort = envutil.String("POSTGRES_PORT", c.DB.PostgresPort)
	c.DB.PostgresUser = envutil.String("POSTGRES_USER", c.DB.PostgresUser)
	c.DB.PostgresPassword = envutil.String("POSTGRES_PASSWORD", c.DB.PostgresPassword)
	c.DB.PostgresName = envutil.String("POSTGRES_NAME", c.DB.PostgresName)
	c.DB.PostgresSSLMode = envutil.String("POSTGRES_SSLMODE", c.DB.PostgresSSLMode)
	c.DB.SQLitePath = envutil.String("SQLITE_PATH", c.DB.SQLitePath)

	c.Auth.JWTSecretKey = envutil.String("JWT_SECRET_KEY", c.Auth.JWTSecretKey)
	c.Auth.AccessTokenTTL = Duration(envutil.Duration("ACCESS_TOKEN_TTL", c.Auth.AccessTokenTTL.Std()))

	c.LLM.Provider = strings.ToLower(envutil.String("LLM_PROVIDER", c.LLM.Provider))
	c.LLM.OpenRouterAPIKey = envutil.String("OPENROUTER_API_KEY", c.LLM.OpenRouterAPIKey)
	c.LLM.OpenRouterModel = envutil.String("OPENROUTER_MODEL", c.LLM.OpenRouterModel)
	c.LLM.OpenRouterBaseURL = envutil.String("OPENROUTER_BASE_URL", c.LLM.OpenRouterBaseURL)
	c.LLM.GeminiAPIKey = envutil.String("GEMINI_API_KEY", c.LLM.GeminiAPIKey)
	c.LLM.GeminiModel = envutil.String("GEMINI_MODEL", c.LLM.GeminiModel)
	c.LLM.MinInterval = Duration(envutil.Duration("LLM_MIN_INTERVAL", c.LLM.MinInterval.Std()))
	c.LLM.Timeout = Duration(envutil.Duration("LLM_TIMEOUT", c.LLM.Timeout.Std()))

	c.Pexels.APIKey = envutil.String("PEXELS_API_KEY", c.Pexels.APIKey)
	c.Pexels.Timeout = Duration(envutil.Duration("PEXELS_TIMEOUT", c.Pexels.Timeout.Std()))

	c.Pipeline.PromptProfile = envutil.String("PROMPT_PROFILE", c.Pipeline.PromptProfile)
	c.Pipeline.PromptProfilePath = envutil.String("PROMPT_PROFILE_PATH", c.Pipeline.PromptProfilePath)
	c.Pipeline.TextureMode = strings.ToLower(envutil.String("TEXTURE_MODE", c.Pipeline.TextureMode))
	c.Pipeline.Concurrency = envutil.Int("PIPELINE_CONCURRENCY", c.Pipeline.Concurrency)

	c.Redis.Addr = envutil.String("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = envutil.String("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = envutil.Int("REDIS_DB", c.Redis.DB)
	c.Redis.Channel = envutil.String("REDIS_CHANNEL", c.Redis.Channel)

	c.Observability.OtelEnabled = envutil.Bool("OTEL_ENABLED", c.Observability.OtelEnabled)
	c.Observability.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.Observability.ServiceName)
	c.Observability.Environment = envutil.String("APP_ENV", c.Observability.Environment)
	c.Observability.Version = envutil.String("APP_VERSION", c.Observability.Version)
	c.Observability.MetricsEnabled = envutil.Bool("METRICS_ENABLED", c.Observability.MetricsEnabled)
	c.Observability.MetricsAddr = envutil.String("METRICS_ADDR", c.Observability.MetricsAddr)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports every problem at once. A missing provider credential is
// not an error here: the gateway reports it per call so the pipeline can
// fall back.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("db.driver %q must be %q or %q", c.DB.Driver, db.DriverPostgres, db.DriverSQLite))
	}
	if strings.TrimSpace(c.Auth.JWTSecretKey) == "" {
		errs = append(errs, errors.New("auth.jwt_secret_key is required"))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("auth.access_token_ttl must be positive"))
	}
	switch c.LLM.Provider {
	case ProviderOpenRouter, ProviderGemini, ProviderMock:
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q must be one of %s, %s, %s", c.LLM.Provider, ProviderOpenRouter, ProviderGemini, ProviderMock))
	}
	if c.LLM.MinInterval < 0 {
		errs = append(errs, errors.New("llm.min_interval must not be negative"))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm.timeout must be positive"))
	}
	if c.Pexels.Timeout <= 0 {
		errs = append(errs, errors.New("pexels.timeout must be positive"))
	}
	if c.Pipeline.Concurrency < 1 {
		errs = append(errs, errors.New("pipeline.concurrency must be at least 1"))
	}
	if c.Observability.MetricsEnabled && strings.TrimSpace(c.Observability.MetricsAddr) == "" {
		errs = append(errs, errors.New("observability.metrics_addr is required when metrics are enabled"))
	}
	return errors.Join(errs...)
}
