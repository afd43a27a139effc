// Package service implements the generation use cases: it builds prompts,
// calls the configured backend, post-processes the result and stores it.
package service

import (
	"fmt"
	"io"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/config"
)

// ConfigFunc returns the current configuration snapshot.
type ConfigFunc func() *config.Config

// StaticConfig returns a ConfigFunc that always yields cfg.
func StaticConfig(cfg *config.Config) ConfigFunc {
	return func() *config.Config { return cfg }
}

// lookup returns the backend assigned to a service.
func lookup(backends *backend.Registry, sc config.ServiceConfig) (backend.Backend, error) {
	b, ok := backends.Get(backend.BackendProvider(sc.Backend))
	if !ok {
		return nil, fmt.Errorf("%w: %s", backend.ErrNotFound, sc.Backend)
	}

	return b, nil
}

// readOutput drains a backend response.
func readOutput(resp *backend.Response) ([]byte, error) {
	if resp == nil || resp.Output == nil {
		return nil, backend.ErrEmptyOutput
	}

	data, err := io.ReadAll(resp.Output)
	if err != nil {
		return nil, fmt.Errorf("read backend output: %w", err)
	}
	if len(data) == 0 {
		return nil, backend.ErrEmptyOutput
	}

	return data, nil
}

// writeBytes adapts a byte slice to output.Store.Create.
func writeBytes(data []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) (string, bool) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}

// Service names as reported by health checks.
const (
	NameImage     = "image"
	NameStory     = "story"
	NameNarration = "narration"
	NameMusic     = "music"
)

// Names lists every service.
var Names = []string{NameImage, NameStory, NameNarration, NameMusic}

// Availability reports, per service, whether its configured backend is
// registered. Unavailable services fall back to demo output or fail.
func Availability(backends *backend.Registry, cfg *config.Config) map[string]bool {
	has := func(sc config.ServiceConfig) bool {
		_, ok := backends.Get(backend.BackendProvider(sc.Backend))
		return ok
	}

	return map[string]bool{
		NameImage:     has(cfg.Services.Image),
		NameStory:     has(cfg.Services.Story),
		NameNarration: has(cfg.Services.Narration),
		NameMusic:     has(cfg.Services.Music),
	}
}
