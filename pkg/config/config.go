package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is read from the environment. A .env file in the working directory is
// applied first; variables already set in the environment win over it.
type Config struct {
	Address           string        `env:"ADDRESS"             env-default:":5000"`
	Database          string        `env:"DATABASE"            env-default:"chord_project_service.db"`
	LogLevel          string        `env:"LOG_LEVEL"           env-default:"info"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"    env-default:"10s"`
	StrictStatusCodes bool          `env:"STRICT_STATUS_CODES" env-default:"false"`
	MetricsEnabled    bool          `env:"METRICS_ENABLED"     env-default:"true"`
	AMQPURL           string        `env:"AMQP_URL"            env-default:""`
	AMQPExchange      string        `env:"AMQP_EXCHANGE"       env-default:"chord.projects"`

	// Version is the build version, not read from the environment.
	Version string
}

func Load(version string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.Version = version

	if cfg.Database == "" {
		return nil, errors.New("DATABASE must not be empty")
	}

	return cfg, nil
}
