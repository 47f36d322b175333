package config

import (
	"errors"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "DDD_KERNEL_"

var (
	// ErrParsingEnvFailed is returned when the environment cannot be mapped onto Config.
	ErrParsingEnvFailed = errors.New("parsing environment failed")

	// ErrInvalidConfig is returned when parsed values are inconsistent.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the complete process configuration.
type Config struct {
	ServiceName string     `env:"SERVICE_NAME" envDefault:"ddd-kernel"`
	LogLevel    slog.Level `env:"LOG_LEVEL"    envDefault:"INFO"`

	Postgres PostgresConfig `envPrefix:"POSTGRES_"`
	Dispatch DispatchConfig `envPrefix:"DISPATCH_"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	return LoadWithEnvironment(nil)
}

// LoadWithEnvironment parses the given variables instead of the process environment when environment is not nil.
// Keys include the prefix.
func LoadWithEnvironment(environment map[string]string) (Config, error) {
	cfg := Config{}

	opts := env.Options{Prefix: EnvPrefix}
	if environment != nil {
		opts.Environment = environment
	}

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrParsingEnvFailed, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c Config) Validate() error {
	if err := c.Postgres.validate(); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	if err := c.Dispatch.validate(); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	return nil
}
