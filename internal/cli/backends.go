package cli

import (
	"log/slog"
	"time"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/backend/command"
	"github.com/arcitek-ai/arcitek/internal/backend/openai"
	"github.com/arcitek-ai/arcitek/internal/config"
	"github.com/arcitek-ai/arcitek/internal/envvar"
	"github.com/arcitek-ai/arcitek/internal/httpclient"
	"github.com/arcitek-ai/arcitek/internal/xfs"
)

// BuildBackends creates the backends cfg can support. OpenAI backends need
// apiKey; the command backend needs a configured, existing binary.
// Services without a backend fall back to demo output.
func BuildBackends(cfg *config.Config, apiKey string) []backend.Backend {
	var backends []backend.Backend

	if apiKey != "" {
		timeout := time.Duration(cfg.Providers.OpenAI.TimeoutSeconds) * time.Second
		img, chat, speech, err := openai.NewBackends(openai.Config{
			APIKey:     apiKey,
			BaseURL:    cfg.Providers.OpenAI.BaseURL,
			HTTPClient: httpclient.New(httpclient.DefaultConfig().WithTimeout(timeout)),
		})
		if err != nil {
			slog.Error("Failed to create OpenAI backends", "error", err)
		} else {
			backends = append(backends, img, chat, speech)
		}
	} else {
		slog.Warn(envvar.OpenAIAPIKey + " is not set, image and story generation will return demo output")
	}

	if c := cfg.Providers.Command; c != nil && c.Path != "" {
		timeout := time.Duration(c.TimeoutSeconds) * time.Second
		executor, err := backend.NewExecutor(xfs.ExpandTilde(c.Path), timeout)
		if err != nil {
			slog.Warn("Music generator unavailable, using demo tone", "path", c.Path, "error", err)
		} else {
			backends = append(backends, command.New(executor, c.Args))
		}
	}

	return backends
}
