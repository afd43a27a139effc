// Package command implements a backend that runs a local generator binary.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/mapsafe"
)

// Placeholders substituted in the configured arguments.
const (
	PlaceholderPrompt   = "{prompt}"
	PlaceholderDuration = "{duration}"
	PlaceholderOutput   = "{output}"
)

// DefaultArgs is used when no arguments are configured.
var DefaultArgs = []string{
	"--description", PlaceholderPrompt,
	"--duration", PlaceholderDuration,
	"--output", PlaceholderOutput,
}

// Backend runs an external generator that writes its result to a file.
type Backend struct {
	executor *backend.Executor
	args     []string
}

// New creates a command backend. Empty args fall back to DefaultArgs.
func New(executor *backend.Executor, args []string) *Backend {
	if len(args) == 0 {
		args = DefaultArgs
	}

	return &Backend{
		executor: executor,
		args:     args,
	}
}

// Provider returns the backend provider.
func (b *Backend) Provider() backend.BackendProvider {
	return backend.BackendProviderCommand
}

// Infer runs the generator for the prompt in req.Input and returns the
// produced file.
//
// Parameters: duration (seconds, default 30), extension (default "wav").
func (b *Backend) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	if req.Input == nil {
		return nil, errors.New("command: empty input")
	}

	prompt, err := io.ReadAll(req.Input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	duration := mapsafe.Get(req.Parameters, "duration", 30)
	ext := mapsafe.Get(req.Parameters, "extension", "wav")

	workDir, err := os.MkdirTemp("", "arcitek-gen-*")
	if err != nil {
		return nil, fmt.Errorf("command: failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	outputPath := filepath.Join(workDir, "output."+ext)
	args := expandArgs(b.args, strings.NewReplacer(
		PlaceholderPrompt, string(prompt),
		PlaceholderDuration, strconv.Itoa(duration),
		PlaceholderOutput, outputPath,
	))

	start := time.Now()
	_, stderr, err := b.executor.Execute(ctx, args, nil)
	if err != nil {
		return nil, fmt.Errorf("command: %s failed: %w: %s", filepath.Base(b.executor.BinaryPath()), err, strings.TrimSpace(string(stderr)))
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("command: output file not produced: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("command: %w", backend.ErrEmptyOutput)
	}

	elapsed := time.Since(start)
	slog.Debug("Generator finished", "binary", b.executor.BinaryPath(), "elapsed", elapsed)

	return &backend.Response{
		Output: bytes.NewReader(data),
		Metadata: &backend.ResponseMetadata{
			Provider:    b.Provider(),
			Model:       filepath.Base(b.executor.BinaryPath()),
			Timestamp:   time.Now(),
			OutputBytes: int64(len(data)),
			BackendSpecific: map[string]any{
				"duration":   duration,
				"elapsed_ms": elapsed.Milliseconds(),
			},
		},
	}, nil
}

// Close cleans up resources. The command backend holds none.
func (b *Backend) Close() error {
	return nil
}

func expandArgs(args []string, r *strings.Replacer) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}
