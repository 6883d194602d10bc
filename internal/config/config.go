// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types (struct), and validates that the
// values are usable so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate values so the app fails fast on bad config.
//   - Provide defaults for every block, so the service runs with no env at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix CROP_.

	Keys are normalized (lowercased, prefix removed) and nested struct
	fields are addressed with the "." delimiter:

		CROP_SERVER.PORT            -> server.port   -> Config.Server.Port
		CROP_MODEL.PATH             -> model.path    -> Config.Model.Path
		CROP_PREDICT.STRICT_RANGES  -> predict.strict_ranges
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "CROP_"

// ServiceName identifies this service in logs, metrics and traces.
const ServiceName = "crop-api"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at runtime.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Model         ModelConfig          `koanf:"model" validate:"required"`
	Predict       PredictConfig        `koanf:"predict"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are stored in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,gt=0"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,gt=0"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,gt=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// RateLimit is the sustained number of requests per second allowed per
	// client IP. Zero disables rate limiting.
	RateLimit      float64 `koanf:"rate_limit" validate:"gte=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"gte=0"`
}

// ModelConfig points at the classifier artifact loaded once at startup.
type ModelConfig struct {
	// Path of the artifact. Relative paths are resolved against the
	// directory of the running executable.
	Path string `koanf:"path" validate:"required"`
}

// PredictConfig tunes request handling on the prediction endpoint.
type PredictConfig struct {
	// StrictRanges rejects feature values outside the agronomic ranges
	// (N/P/K 0-150, temperature 0-50, humidity 0-100, ph 0-14, rainfall 0-500).
	StrictRanges bool `koanf:"strict_ranges"`
}

// Default returns a fully populated configuration. Values from the
// environment are layered on top of it by LoadConfig.
func Default() *Config {
	return &Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:               "5000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          0,
			RateLimitBurst:     20,
		},
		Model: ModelConfig{
			Path: "model.json",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of the
// defaults, validates it and returns the resulting config.
//
// Behavior summary:
//   - Loads env vars with prefix CROP_
//   - Unmarshals into a Config pre-filled with Default()
//   - Validates required config blocks/fields
//   - Overrides observability service name + environment
//   - Validates observability config as well
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

		// List values are comma separated.
		if key == "server.cors_allowed_origins" {
			origins := strings.Split(value, ",")
			for i := range origins {
				origins[i] = strings.TrimSpace(origins[i])
			}
			return key, origins
		}

		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := Default()

	// Keys absent from the environment keep their default value.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// ResolvePath returns the absolute artifact path. A relative path is taken
// relative to the directory holding the running executable, so the service
// finds its model no matter which working directory it was started from.
func (m ModelConfig) ResolvePath() (string, error) {
	if filepath.IsAbs(m.Path) {
		return m.Path, nil
	}

	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}

	if resolved, err := filepath.EvalSymlinks(executable); err == nil {
		executable = resolved
	}

	return filepath.Join(filepath.Dir(executable), m.Path), nil
}
