// Package env reads process settings from environment variables.
package env

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Environment is the deployment environment the process runs in.
type Environment string

const (
	// Development enables colored, verbose logging.
	Development Environment = "development"

	// Production enables JSON logging.
	Production Environment = "production"

	// Test is used by the test suites.
	Test Environment = "test"
)

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool {
	return e == Production
}

// Settings holds the values read from the environment. Tag names mirror the
// constants of the envvar package.
type Settings struct {
	Environment   Environment `env:"ARCITEK_ENV"              envDefault:"development"`
	HTTPPort      int         `env:"ARCITEK_SERVER_HTTP_PORT"`
	GRPCPort      int         `env:"ARCITEK_SERVER_GRPC_PORT"`
	OutputDir     string      `env:"ARCITEK_OUTPUT_DIR"`
	LogFile       string      `env:"ARCITEK_LOG_FILE"         envDefault:"logs/arcitek.log"`
	OpenAIAPIKey  string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string      `env:"OPENAI_BASE_URL"`
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("env: failed to load %s: %w", f, err)
		}
	}

	return nil
}

// Load parses Settings from the process environment.
func Load() (*Settings, error) {
	settings, err := env.ParseAs[Settings]()
	if err != nil {
		return nil, fmt.Errorf("env: failed to parse environment: %w", err)
	}

	switch settings.Environment {
	case Development, Production, Test:
	default:
		return nil, fmt.Errorf("env: unknown environment %q", settings.Environment)
	}

	return &settings, nil
}
