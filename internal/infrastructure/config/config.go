package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every process-wide setting. It is loaded exactly once at
// startup and passed by constructor injection; nothing re-reads the
// environment per request.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// JWTConfig configures token signing. The secret has no default: starting
// without one is a hard failure, never a silent placeholder.
type JWTConfig struct {
	Secret string        `env:"JWT_SECRET, required"`
	Issuer string        `env:"JWT_ISSUER, default=coaching-api"`
	TTL    time.Duration `env:"JWT_TTL,    default=168h"`
}

type AuthConfig struct {
	BcryptCost        int           `env:"BCRYPT_COST,          default=12"`
	LoginMaxAttempts  int           `env:"LOGIN_MAX_ATTEMPTS,   default=10"`
	LoginAttemptsOver time.Duration `env:"LOGIN_ATTEMPT_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=coaching"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
