package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	// External marketplace backend that owns all real business logic.
	BackendURL     string        `env:"BACKEND_URL"     envDefault:"http://localhost:5000" validate:"url"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`

	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort uint16 `env:"REDIS_PORT" envDefault:"6379" validate:"min=1000,max=65535"`

	PostgresHost     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"     envDefault:"storefront_user"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"storefront_password"`
	PostgresDb       string `env:"POSTGRES_DB"       envDefault:"storefront_db"`

	// Abandoned wizard sessions are reclaimed by Redis after this TTL.
	WizardTTL time.Duration `env:"WIZARD_TTL" envDefault:"24h"`

	// Auction snapshots proxied from the backend are cached briefly so a busy
	// auction page does not turn into one backend call per visitor.
	SnapshotCacheTTL time.Duration `env:"SNAPSHOT_CACHE_TTL" envDefault:"5s"`
	ResponseCacheTTL time.Duration `env:"RESPONSE_CACHE_TTL" envDefault:"10s"`

	RateLimitPerSec float64 `env:"RATE_LIMIT_PER_SEC" envDefault:"20" validate:"gt=0"`
	RateLimitBurst  int     `env:"RATE_LIMIT_BURST"   envDefault:"40" validate:"gt=0"`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8085" validate:"min=1000,max=65535"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
