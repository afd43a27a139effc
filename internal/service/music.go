package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/media/wav"
	"github.com/arcitek-ai/arcitek/internal/output"
)

// MusicFormat is the container of every music result.
const MusicFormat = "WAV"

// MusicResult describes a stored track.
type MusicResult struct {
	File     output.File
	Format   string
	Quality  string
	Duration int
	Demo     bool
}

// Music generates music tracks.
type Music struct {
	backends *backend.Registry
	store    *output.Store
	config   ConfigFunc
}

// NewMusic creates a new Music service.
func NewMusic(backends *backend.Registry, store *output.Store, config ConfigFunc) *Music {
	return &Music{
		backends: backends,
		store:    store,
		config:   config,
	}
}

// EnhanceMusicPrompt folds genre and duration into the prompt.
func EnhanceMusicPrompt(prompt, genre string, duration int) string {
	return fmt.Sprintf("%s. Genre: %s. Duration: approximately %d seconds.", prompt, genre, duration)
}

// Generate produces a track for prompt. Without a working generator a
// studio-format sine tone of the requested duration is stored instead.
func (s *Music) Generate(ctx context.Context, prompt, genre string, duration int) (*MusicResult, error) {
	enhanced := EnhanceMusicPrompt(prompt, genre, duration)

	data, format, dataSize, err := s.compose(ctx, enhanced, duration)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			slog.Debug("No music backend configured, using demo tone")
		} else {
			slog.Warn("Music generation failed, using demo tone", "error", err)
		}
		return s.demo(duration)
	}

	f, err := s.store.Create(output.KindMusic, "music", "wav", writeBytes(data))
	if err != nil {
		return nil, err
	}

	return &MusicResult{
		File:     f,
		Format:   MusicFormat,
		Quality:  wav.Quality(format),
		Duration: int(math.Round(wav.Duration(format, dataSize))),
	}, nil
}

func (s *Music) compose(ctx context.Context, prompt string, duration int) ([]byte, wav.Format, uint32, error) {
	sc := s.config().Services.Music

	b, err := lookup(s.backends, sc)
	if err != nil {
		return nil, wav.Format{}, 0, err
	}

	params := sc.Params(nil)
	params["duration"] = duration

	resp, err := b.Infer(ctx, &backend.Request{
		Input:      strings.NewReader(prompt),
		Parameters: params,
	})
	if err != nil {
		return nil, wav.Format{}, 0, err
	}

	data, err := readOutput(resp)
	if err != nil {
		return nil, wav.Format{}, 0, err
	}

	format, dataSize, err := wav.ParseHeader(bytes.NewReader(data))
	if err != nil {
		return nil, wav.Format{}, 0, fmt.Errorf("generator output: %w", err)
	}

	return data, format, dataSize, nil
}

func (s *Music) demo(duration int) (*MusicResult, error) {
	f, err := s.store.Create(output.KindMusic, "music_demo", "wav", func(w io.Writer) error {
		_, err := wav.WriteTone(w, wav.StudioFormat, wav.DemoTone(float64(duration)))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &MusicResult{
		File:     f,
		Format:   MusicFormat,
		Quality:  wav.Quality(wav.StudioFormat),
		Duration: duration,
		Demo:     true,
	}, nil
}
