package config

import (
	"fmt"

	"smshub/internal/errors"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, read from the environment. An unset
// WEBHOOK_SECRET is allowed at startup: the service comes up but reports not
// ready and rejects every webhook (signature verification fails closed).
type Config struct {
	DatabasePath  string `env:"DB_PATH,required"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	Port          string `env:"PORT" envDefault:"8080"`

	TracingEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	TracingStdout     bool    `env:"OTEL_USE_STDOUT" envDefault:"true"`
	OTLPEndpoint      string  `env:"OTEL_OTLP_ENDPOINT" envDefault:"http://localhost:4318/v1/traces"`
	TracingSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"0.1"`
	Environment       string  `env:"SMSHUB_ENV" envDefault:"development"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMissingConfig, "failed to parse environment")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(c *Config) error {
	if c.DatabasePath == "" {
		return errors.New(errors.ErrCodeMissingConfig, "DB_PATH must be set")
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("OTEL_SAMPLE_RATE must be in [0,1], got %v", c.TracingSampleRate))
	}
	return nil
}
