package command

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcitek-ai/arcitek/internal/backend"
)

// fakeGenerator writes content to the path following "--output".
type fakeGenerator struct {
	content []byte
	err     error
	stderr  string
	args    []string
}

func (g *fakeGenerator) Run(_ context.Context, _ string, args []string, _ io.Reader) ([]byte, []byte, error) {
	g.args = args
	if g.err != nil {
		return nil, []byte(g.stderr), g.err
	}
	for i, a := range args {
		if a == "--output" && i+1 < len(args) && g.content != nil {
			if err := os.WriteFile(args[i+1], g.content, 0o644); err != nil {
				return nil, nil, err
			}
		}
	}
	return nil, nil, nil
}

func TestBackend_Infer(t *testing.T) {
	gen := &fakeGenerator{content: []byte("RIFF....WAVE")}
	b := New(backend.NewExecutorWithRunner("/opt/musicgen/bin/musicgen", 0, gen), nil)

	assert.Equal(t, backend.BackendProviderCommand, b.Provider())

	resp, err := b.Infer(context.Background(), &backend.Request{
		Input:      strings.NewReader("calm piano. Genre: ambient."),
		Parameters: map[string]any{"duration": 12},
	})
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Output)
	require.NoError(t, err)
	assert.Equal(t, "RIFF....WAVE", string(data))
	assert.Equal(t, "musicgen", resp.Metadata.Model)
	assert.Equal(t, int64(12), resp.Metadata.OutputBytes)

	require.Len(t, gen.args, 6)
	assert.Equal(t, "calm piano. Genre: ambient.", gen.args[1])
	assert.Equal(t, "12", gen.args[3])
	assert.Equal(t, "output.wav", filepath.Base(gen.args[5]))

	// The work dir is removed after the run.
	_, err = os.Stat(gen.args[5])
	assert.True(t, os.IsNotExist(err))
}

func TestBackend_CustomArgs(t *testing.T) {
	gen := &fakeGenerator{content: []byte("x")}
	b := New(backend.NewExecutorWithRunner("gen", 0, gen), []string{"-p={prompt}", "-d", "{duration}s", "--output", "{output}"})

	_, err := b.Infer(context.Background(), &backend.Request{
		Input:      strings.NewReader("drums"),
		Parameters: map[string]any{"extension": "flac"},
	})
	require.NoError(t, err)

	assert.Equal(t, "-p=drums", gen.args[0])
	assert.Equal(t, "30s", gen.args[2])
	assert.Equal(t, "output.flac", filepath.Base(gen.args[4]))
}

func TestBackend_CommandFails(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("exit status 1"), stderr: "CUDA out of memory\n"}
	b := New(backend.NewExecutorWithRunner("/usr/bin/musicgen", 0, gen), nil)

	_, err := b.Infer(context.Background(), &backend.Request{Input: strings.NewReader("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "musicgen failed")
	assert.Contains(t, err.Error(), "CUDA out of memory")
}

func TestBackend_NoOutputFile(t *testing.T) {
	b := New(backend.NewExecutorWithRunner("gen", 0, &fakeGenerator{}), nil)

	_, err := b.Infer(context.Background(), &backend.Request{Input: strings.NewReader("x")})
	assert.ErrorContains(t, err, "output file not produced")
}

func TestBackend_EmptyOutputFile(t *testing.T) {
	b := New(backend.NewExecutorWithRunner("gen", 0, &fakeGenerator{content: []byte{}}), nil)

	_, err := b.Infer(context.Background(), &backend.Request{Input: strings.NewReader("x")})
	assert.ErrorIs(t, err, backend.ErrEmptyOutput)
}

func TestBackend_NilInput(t *testing.T) {
	b := New(backend.NewExecutorWithRunner("gen", 0, &fakeGenerator{}), nil)

	_, err := b.Infer(context.Background(), &backend.Request{})
	assert.Error(t, err)
}
