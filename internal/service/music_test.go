package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/media/wav"
)

func TestEnhanceMusicPrompt(t *testing.T) {
	assert.Equal(t,
		"Epic orchestral soundtrack. Genre: orchestral. Duration: approximately 45 seconds.",
		EnhanceMusicPrompt("Epic orchestral soundtrack", "orchestral", 45),
	)
}

func TestMusic_Generate_DemoWithoutBackend(t *testing.T) {
	svc := NewMusic(backend.NewRegistry(), newTestStore(t), defaultConfig())

	res, err := svc.Generate(context.Background(), "chill beats", "lofi", 1)
	require.NoError(t, err)

	assert.True(t, res.Demo)
	assert.Equal(t, "WAV", res.Format)
	assert.Equal(t, "96kHz/24-bit", res.Quality)
	assert.Equal(t, 1, res.Duration)
	assert.True(t, strings.HasPrefix(res.File.Name, "music_demo_"))
	assert.True(t, strings.HasSuffix(res.File.Name, ".wav"))
	assert.Equal(t, "/api/outputs/music/"+res.File.Name, res.File.URL)

	f, err := os.Open(res.File.Path)
	require.NoError(t, err)
	defer f.Close()

	format, dataSize, err := wav.ParseHeader(f)
	require.NoError(t, err)
	assert.Equal(t, wav.StudioFormat, format)
	assert.Equal(t, uint32(96000*6), dataSize)
	assert.Equal(t, int64(44+96000*6), res.File.Size)
}

func TestMusic_Generate_UsesBackend(t *testing.T) {
	var track bytes.Buffer
	_, err := wav.WriteTone(&track, wav.Format{SampleRate: 44100, Channels: 2, BitsPerSample: 16}, wav.Tone{Frequency: 220, Amplitude: 0.5, Seconds: 2})
	require.NoError(t, err)

	var got captured
	b := newMockBackend(backend.BackendProviderCommand)
	b.On("Infer", mock.Anything, mock.Anything).Run(capture(&got)).Return(&backend.Response{
		Output: bytes.NewReader(track.Bytes()),
	}, nil)

	svc := NewMusic(newRegistry(t, b), newTestStore(t), defaultConfig())

	res, err := svc.Generate(context.Background(), "warm synth pads", "ambient", 2)
	require.NoError(t, err)

	assert.False(t, res.Demo)
	assert.Equal(t, "44.1kHz/16-bit", res.Quality)
	assert.Equal(t, 2, res.Duration)
	assert.True(t, strings.HasPrefix(res.File.Name, "music_"))
	assert.Equal(t, int64(track.Len()), res.File.Size)

	assert.Equal(t, "warm synth pads. Genre: ambient. Duration: approximately 2 seconds.", got.input)
	assert.Equal(t, 2, got.params["duration"])

	b.AssertExpectations(t)
}

func TestMusic_Generate_DemoWhenBackendFails(t *testing.T) {
	b := newMockBackend(backend.BackendProviderCommand)
	b.On("Infer", mock.Anything, mock.Anything).Return(nil, errors.New("exit status 137"))

	svc := NewMusic(newRegistry(t, b), newTestStore(t), defaultConfig())

	res, err := svc.Generate(context.Background(), "x", "rock", 1)
	require.NoError(t, err)
	assert.True(t, res.Demo)
}

func TestMusic_Generate_DemoWhenOutputIsNotWAV(t *testing.T) {
	b := newMockBackend(backend.BackendProviderCommand)
	b.On("Infer", mock.Anything, mock.Anything).Return(&backend.Response{
		Output: strings.NewReader("ID3 this is an mp3"),
	}, nil)

	svc := NewMusic(newRegistry(t, b), newTestStore(t), defaultConfig())

	res, err := svc.Generate(context.Background(), "x", "rock", 1)
	require.NoError(t, err)
	assert.True(t, res.Demo)
	assert.Equal(t, "96kHz/24-bit", res.Quality)
}
