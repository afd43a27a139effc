package config

import "maps"

// Config holds the main configuration for the application.
type Config struct {
	Version   string          `json:"version"             yaml:"version"`
	Server    ServerConfig    `json:"server,omitempty"    yaml:"server,omitempty"`
	Storage   StorageConfig   `json:"storage,omitempty"   yaml:"storage,omitempty"`
	Providers ProvidersConfig `json:"providers,omitempty" yaml:"providers,omitempty"`
	Services  ServicesConfig  `json:"services"            yaml:"services"`
}

// ServerConfig holds the listener configuration.
type ServerConfig struct {
	HTTPPort int        `json:"http_port,omitempty" yaml:"http_port,omitempty"`
	GRPCPort int        `json:"grpc_port,omitempty" yaml:"grpc_port,omitempty"`
	CORS     CORSConfig `json:"cors,omitempty"      yaml:"cors,omitempty"`
}

// CORSConfig holds the cross-origin policy of the HTTP API.
type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// StorageConfig holds configuration for generated files.
type StorageConfig struct {
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// ProvidersConfig holds configuration for the external providers.
type ProvidersConfig struct {
	OpenAI  OpenAIConfig   `json:"openai,omitempty"  yaml:"openai,omitempty"`
	Command *CommandConfig `json:"command,omitempty" yaml:"command,omitempty"`
}

// OpenAIConfig holds connection settings for the OpenAI API.
// The API key is only ever read from the environment.
type OpenAIConfig struct {
	BaseURL        string `json:"base_url,omitempty"        yaml:"base_url,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// CommandConfig describes a local generator binary.
// Args may contain the {prompt}, {duration} and {output} placeholders.
type CommandConfig struct {
	Path           string   `json:"path"                      yaml:"path"`
	Args           []string `json:"args,omitempty"            yaml:"args,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// ServicesConfig holds configuration for all services.
type ServicesConfig struct {
	Image     ServiceConfig `json:"image"     yaml:"image"`
	Story     ServiceConfig `json:"story"     yaml:"story"`
	Narration ServiceConfig `json:"narration" yaml:"narration"`
	Music     ServiceConfig `json:"music"     yaml:"music"`
}

// ServiceConfig assigns a backend and its parameters to a service.
type ServiceConfig struct {
	Backend    string         `json:"backend"              yaml:"backend"`
	Model      string         `json:"model,omitempty"      yaml:"model,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Params returns defaults overlaid with the configured model and parameters.
func (s ServiceConfig) Params(defaults map[string]any) map[string]any {
	params := make(map[string]any, len(defaults)+len(s.Parameters)+1)
	maps.Copy(params, defaults)
	maps.Copy(params, s.Parameters)
	if s.Model != "" {
		params["model"] = s.Model
	}

	return params
}

// ApplyDefaults fills every unset field with its default value.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = d.Server.HTTPPort
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = d.Server.GRPCPort
	}
	if len(c.Server.CORS.AllowedOrigins) == 0 {
		c.Server.CORS.AllowedOrigins = d.Server.CORS.AllowedOrigins
	}
	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = d.Storage.OutputDir
	}
	if c.Providers.OpenAI.BaseURL == "" {
		c.Providers.OpenAI.BaseURL = d.Providers.OpenAI.BaseURL
	}
	if c.Providers.OpenAI.TimeoutSeconds == 0 {
		c.Providers.OpenAI.TimeoutSeconds = d.Providers.OpenAI.TimeoutSeconds
	}
	if c.Providers.Command != nil && c.Providers.Command.TimeoutSeconds == 0 {
		c.Providers.Command.TimeoutSeconds = DefaultCommandTimeoutSeconds
	}

	applyServiceDefaults(&c.Services.Image, d.Services.Image)
	applyServiceDefaults(&c.Services.Story, d.Services.Story)
	applyServiceDefaults(&c.Services.Narration, d.Services.Narration)
	applyServiceDefaults(&c.Services.Music, d.Services.Music)
}

func applyServiceDefaults(s *ServiceConfig, d ServiceConfig) {
	if s.Backend == "" {
		s.Backend = d.Backend
	}
	if s.Model == "" {
		s.Model = d.Model
	}
}
