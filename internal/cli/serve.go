package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/config"
	"github.com/arcitek-ai/arcitek/internal/env"
	"github.com/arcitek-ai/arcitek/internal/logger"
	"github.com/arcitek-ai/arcitek/internal/output"
	grpcserver "github.com/arcitek-ai/arcitek/internal/server/grpc"
	httpserver "github.com/arcitek-ai/arcitek/internal/server/http"
	"github.com/arcitek-ai/arcitek/internal/service"
)

type serveOptions struct {
	configPath string
	schemaPath string
	envFile    string
	httpPort   int
	grpcPort   int
	outputDir  string
}

func newServeOptions() *serveOptions {
	return &serveOptions{}
}

func (o *serveOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", filepath.Join(config.DefaultConfigPath(), "config.yaml"), "Path to config file")
	f.StringVar(&o.schemaPath, "schema", "", "Path to schema file (default: embedded schema)")
	f.StringVar(&o.envFile, "env-file", ".env", "Path to .env file")
	f.IntVar(&o.httpPort, "http-port", config.DefaultHTTPPort(), "HTTP port to listen on")
	f.IntVar(&o.grpcPort, "grpc-port", config.DefaultGRPCPort(), "gRPC port to listen on")
	f.StringVar(&o.outputDir, "output-dir", "outputs", "Directory for generated files")
}

// overrides returns the settings that take precedence over the config file:
// environment variables, then explicitly set flags.
func (o *serveOptions) overrides(cmd *cobra.Command, settings *env.Settings) Overrides {
	ov := Overrides{
		HTTPPort:      settings.HTTPPort,
		GRPCPort:      settings.GRPCPort,
		OutputDir:     settings.OutputDir,
		OpenAIBaseURL: settings.OpenAIBaseURL,
	}

	f := cmd.Flags()
	if f.Changed("http-port") {
		ov.HTTPPort = o.httpPort
	}
	if f.Changed("grpc-port") {
		ov.GRPCPort = o.grpcPort
	}
	if f.Changed("output-dir") {
		ov.OutputDir = o.outputDir
	}

	return ov
}

// Overrides are values that replace the config file's.
type Overrides struct {
	HTTPPort      int
	GRPCPort      int
	OutputDir     string
	OpenAIBaseURL string
}

// Apply returns a copy of cfg with the overrides applied.
func (ov Overrides) Apply(cfg *config.Config) *config.Config {
	c := *cfg

	if ov.HTTPPort != 0 {
		c.Server.HTTPPort = ov.HTTPPort
	}
	if ov.GRPCPort != 0 {
		c.Server.GRPCPort = ov.GRPCPort
	}
	if ov.OutputDir != "" {
		c.Storage.OutputDir = ov.OutputDir
	}
	if ov.OpenAIBaseURL != "" {
		c.Providers.OpenAI.BaseURL = ov.OpenAIBaseURL
	}

	return &c
}

// liveState holds the live configuration and the backends built from it.
type liveState struct {
	overrides Overrides
	apiKey    string
	backends  *backend.Registry
	current   atomic.Pointer[config.Config]

	mu     sync.Mutex
	health *grpcserver.Server
}

// apply rebuilds the backends for cfg and publishes it.
func (rt *liveState) apply(cfg *config.Config) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	resolved := rt.overrides.Apply(cfg)

	if err := rt.backends.Reset(BuildBackends(resolved, rt.apiKey)...); err != nil {
		slog.Warn("Failed to close previous backends", "error", err)
	}
	rt.current.Store(resolved)

	if rt.health != nil {
		rt.health.Update(service.Availability(rt.backends, resolved))
	}

	slog.Info("Backends configured", "providers", rt.backends.Providers())
}

func (rt *liveState) setHealth(s *grpcserver.Server) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.health = s
	s.Update(service.Availability(rt.backends, rt.current.Load()))
}

func (rt *liveState) onReload(cfg *config.Config, err error) {
	if err != nil {
		slog.Error("Failed to reload config", "error", err)
		return
	}

	slog.Info("Config reloaded")
	rt.apply(cfg)
}

// loadConfig starts a watcher on path. A missing file at the default
// location falls back to the built-in configuration.
func loadConfig(cmd *cobra.Command, path, schemaPath string, onReload func(*config.Config, error)) (*config.Config, *config.Watcher, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		slog.Info("No config file found, using defaults", "config", path)
		return config.Default(), nil, nil
	}

	watcher, err := config.NewWatcher(path, schemaPath, onReload)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Config loaded successfully", "config", path, "schema", schemaPath)

	return watcher.Snapshot(), watcher, nil
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	if err := env.LoadDotEnv(opts.envFile); err != nil {
		return err
	}

	settings, err := env.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(
		logger.New(settings.Environment,
			logger.WithLogToFile(true),
			logger.WithLogFile(settings.LogFile),
		),
	)

	rt := &liveState{
		overrides: opts.overrides(cmd, settings),
		apiKey:    settings.OpenAIAPIKey,
		backends:  backend.NewRegistry(),
	}

	cfg, watcher, err := loadConfig(cmd, opts.configPath, opts.schemaPath, rt.onReload)
	if err != nil {
		return err
	}
	if watcher != nil {
		defer watcher.Close()
	}

	rt.apply(cfg)
	defer rt.backends.Close()

	resolved := rt.current.Load()

	store, err := output.NewStore(resolved.Storage.OutputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	live := service.ConfigFunc(rt.current.Load)

	grpcSrv := grpcserver.New(fmt.Sprintf(":%d", resolved.Server.GRPCPort))
	rt.setHealth(grpcSrv)

	httpSrv := httpserver.New(httpserver.Config{
		Addr:           fmt.Sprintf(":%d", resolved.Server.HTTPPort),
		Version:        Version,
		AllowedOrigins: resolved.Server.CORS.AllowedOrigins,
	}, httpserver.Deps{
		Backends: rt.backends,
		Config:   live,
		Store:    store,
		Image:    service.NewImage(rt.backends, store, live),
		Music:    service.NewMusic(rt.backends, store, live),
		Story:    service.NewStory(rt.backends, store, live),
	})

	slog.Info("ArciTEK.AI Backend starting",
		"version", Version,
		"branding", httpserver.Branding,
		"http_port", resolved.Server.HTTPPort,
		"grpc_port", resolved.Server.GRPCPort,
		"output_dir", store.Dir(),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAll(ctx, stop, grpcSrv.Run, httpSrv.Run)
}

// runAll runs every server until ctx is done or one of them fails, in
// which case the others are stopped too. It returns the first error.
func runAll(ctx context.Context, stop context.CancelFunc, runs ...func(context.Context) error) error {
	errCh := make(chan error, len(runs))
	for _, run := range runs {
		go func() { errCh <- run(ctx) }()
	}

	var first error
	for range runs {
		if err := <-errCh; err != nil && first == nil {
			first = err
			stop()
		}
	}

	return first
}
