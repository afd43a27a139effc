package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// DefaultCommandTimeoutSeconds bounds a local generator run.
	DefaultCommandTimeoutSeconds = 600

	defaultHTTPPort = 5000
	defaultGRPCPort = 5001
)

// DefaultHTTPPort returns the default HTTP port.
func DefaultHTTPPort() int {
	return defaultHTTPPort
}

// DefaultGRPCPort returns the default gRPC port.
func DefaultGRPCPort() int {
	return defaultGRPCPort
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			HTTPPort: defaultHTTPPort,
			GRPCPort: defaultGRPCPort,
			CORS: CORSConfig{
				AllowedOrigins: []string{"*"},
			},
		},
		Storage: StorageConfig{
			OutputDir: "outputs",
		},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				BaseURL:        "https://api.openai.com/v1",
				TimeoutSeconds: 120,
			},
		},
		Services: ServicesConfig{
			Image:     ServiceConfig{Backend: "openai.images", Model: "dall-e-3"},
			Story:     ServiceConfig{Backend: "openai.chat", Model: "gpt-4.1-mini"},
			Narration: ServiceConfig{Backend: "openai.speech", Model: "tts-1-hd"},
			Music:     ServiceConfig{Backend: "command"},
		},
	}
}

// DefaultConfigPath returns the default path for the ArciTEK config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "arcitek", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "arcitek")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "arcitek")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "arcitek")
		}
		return filepath.Join(home, ".config", "arcitek")
	}
}
