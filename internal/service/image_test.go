package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/config"
	"github.com/arcitek-ai/arcitek/internal/media/picture"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func storedSize(t *testing.T, path string) picture.Size {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return picture.Size{Width: cfg.Width, Height: cfg.Height}
}

func TestImage_Generate_Upscales(t *testing.T) {
	var got captured
	b := newMockBackend(backend.BackendProviderOpenAIImages)
	b.On("Infer", mock.Anything, mock.Anything).Run(capture(&got)).Return(&backend.Response{
		Output: bytes.NewReader(pngBytes(t, 16, 9)),
	}, nil)

	svc := NewImage(newRegistry(t, b), newTestStore(t), defaultConfig())

	res, err := svc.Generate(context.Background(), "a red fox", "anime", "hd")
	require.NoError(t, err)

	assert.False(t, res.Demo)
	assert.Equal(t, picture.Size{Width: 1920, Height: 1080}, res.Resolution)
	assert.Equal(t, 2.1, res.Resolution.Megapixels())
	assert.True(t, strings.HasPrefix(res.File.Name, "image_"))
	assert.True(t, strings.HasPrefix(res.File.URL, "/api/outputs/images/"))
	assert.Equal(t, res.Resolution, storedSize(t, res.File.Path))

	assert.Equal(t, "a red fox, anime style, detailed anime artwork", got.input)
	assert.Equal(t, "dall-e-3", got.params["model"])
	assert.Equal(t, "1792x1024", got.params["size"])
	assert.Equal(t, "hd", got.params["quality"])

	b.AssertExpectations(t)
}

func TestImage_Generate_KeepsLargerSource(t *testing.T) {
	b := newMockBackend(backend.BackendProviderOpenAIImages)
	b.On("Infer", mock.Anything, mock.Anything).Return(&backend.Response{
		Output: bytes.NewReader(pngBytes(t, 2000, 1200)),
	}, nil)

	svc := NewImage(newRegistry(t, b), newTestStore(t), defaultConfig())

	res, err := svc.Generate(context.Background(), "x", "photorealistic", "hd")
	require.NoError(t, err)
	assert.Equal(t, picture.Size{Width: 2000, Height: 1200}, res.Resolution)
}

func TestImage_Generate_ConfiguredParameters(t *testing.T) {
	cfg := config.Default()
	cfg.Services.Image.Model = "dall-e-2"
	cfg.Services.Image.Parameters = map[string]any{"quality": "standard"}

	var got captured
	b := newMockBackend(backend.BackendProviderOpenAIImages)
	b.On("Infer", mock.Anything, mock.Anything).Run(capture(&got)).Return(&backend.Response{
		Output: bytes.NewReader(pngBytes(t, 1920, 1080)),
	}, nil)

	svc := NewImage(newRegistry(t, b), newTestStore(t), StaticConfig(cfg))

	_, err := svc.Generate(context.Background(), "x", "", "hd")
	require.NoError(t, err)
	assert.Equal(t, "dall-e-2", got.params["model"])
	assert.Equal(t, "standard", got.params["quality"])
	assert.Equal(t, "x, high quality artwork", got.input)
}

func TestImage_Generate_DemoWhenBackendFails(t *testing.T) {
	b := newMockBackend(backend.BackendProviderOpenAIImages)
	b.On("Infer", mock.Anything, mock.Anything).Return(nil, errors.New("billing hard limit reached"))

	svc := NewImage(newRegistry(t, b), newTestStore(t), defaultConfig())

	res, err := svc.Generate(context.Background(), "a castle", "fantasy", "hd")
	require.NoError(t, err)

	assert.True(t, res.Demo)
	assert.True(t, strings.HasPrefix(res.File.Name, "image_demo_"))
	assert.Equal(t, picture.Size{Width: 1920, Height: 1080}, res.Resolution)
	assert.Equal(t, res.Resolution, storedSize(t, res.File.Path))
}

func TestImage_Generate_DemoWhenUndecodable(t *testing.T) {
	b := newMockBackend(backend.BackendProviderOpenAIImages)
	b.On("Infer", mock.Anything, mock.Anything).Return(&backend.Response{
		Output: strings.NewReader("<html>not an image</html>"),
	}, nil)

	svc := NewImage(newRegistry(t, b), newTestStore(t), defaultConfig())

	res, err := svc.Generate(context.Background(), "x", "", "hd")
	require.NoError(t, err)
	assert.True(t, res.Demo)
}

func TestImage_Generate_DemoWithoutBackend(t *testing.T) {
	svc := NewImage(backend.NewRegistry(), newTestStore(t), defaultConfig())

	res, err := svc.Generate(context.Background(), "x", "", "unknown")
	require.NoError(t, err)

	assert.True(t, res.Demo)
	assert.Equal(t, picture.Resolutions["4k"], res.Resolution)
	assert.Equal(t, 8.3, res.Resolution.Megapixels())
}
