package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Settings holds the ambient process settings read from the environment.
type Settings struct {
	Environment    string `env:"ENVIRONMENT, default=local"`
	ServiceName    string `env:"SERVICE_NAME, default=marketroast"`
	Version        string `env:"SERVICE_VERSION, default=0.01"`
	LogLevel       string `env:"LOG_LEVEL, default=info"`
	LogFormat      string `env:"LOG_FORMAT, default=json"`
	PushgatewayURL string `env:"METRICS_PUSHGATEWAY_URL"`
}

// LoadSettings loads optional .env files and then reads Settings from the
// process environment.
func LoadSettings(ctx context.Context) (*Settings, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}
	return loadSettings(ctx, envconfig.OsLookuper())
}

func loadSettings(ctx context.Context, lookuper envconfig.Lookuper) (*Settings, error) {
	var s Settings
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return &s, nil
}

// Validate checks the enumerated settings.
func (s *Settings) Validate() error {
	var errs []string

	if strings.TrimSpace(s.ServiceName) == "" {
		errs = append(errs, "SERVICE_NAME is required")
	}

	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of debug, info, warn, error, got %q", s.LogLevel))
	}

	switch s.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be json or console, got %q", s.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// EffectiveLogFormat is the log format to use. Production always logs JSON
// so that entries stay machine readable.
func (s *Settings) EffectiveLogFormat() string {
	if s.IsProduction() {
		return "json"
	}
	return s.LogFormat
}

// IsProduction reports whether the process runs in production.
func (s *Settings) IsProduction() bool {
	env := strings.ToLower(s.Environment)
	return env == "production" || env == "prod"
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() error {
	// Load base .env file (optional)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	// Load environment-specific file (optional)
	env := os.Getenv("ENVIRONMENT")
	if env != "" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Overload(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	// Load .env.local for local overrides (highest precedence, optional)
	if _, err := os.Stat(".env.local"); err == nil {
		if err := godotenv.Overload(".env.local"); err != nil {
			return fmt.Errorf("failed to load .env.local: %w", err)
		}
	}

	return nil
}
