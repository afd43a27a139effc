package service

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/media/picture"
	"github.com/arcitek-ai/arcitek/internal/output"
)

// demoPromptRunes is how much of the prompt the placeholder image shows.
const demoPromptRunes = 100

var imageDefaults = map[string]any{
	"size":    "1792x1024",
	"quality": "hd",
}

// ImageResult describes a stored image.
type ImageResult struct {
	File       output.File
	Resolution picture.Size
	Demo       bool
}

// Image generates high resolution images.
type Image struct {
	backends *backend.Registry
	store    *output.Store
	config   ConfigFunc
}

// NewImage creates a new Image service.
func NewImage(backends *backend.Registry, store *output.Store, config ConfigFunc) *Image {
	return &Image{
		backends: backends,
		store:    store,
		config:   config,
	}
}

// Generate renders prompt in the given style and upscales the result to the
// named resolution. Backend failures produce a placeholder image instead.
func (s *Image) Generate(ctx context.Context, prompt, style, resolution string) (*ImageResult, error) {
	target := picture.ResolutionFor(resolution)
	enhanced := picture.EnhancePrompt(prompt, style)

	img, err := s.render(ctx, enhanced, target)
	if err != nil {
		slog.Warn("Image generation failed, using demo image", "error", err)
		return s.demo(prompt, target)
	}

	f, err := s.store.Create(output.KindImages, "image", "png", func(w io.Writer) error {
		return picture.EncodePNG(w, img)
	})
	if err != nil {
		return nil, err
	}

	size := picture.SizeOf(img)
	slog.Info("Generated image", "file", f.Name, "resolution", size, "megapixels", size.Megapixels())

	return &ImageResult{File: f, Resolution: size}, nil
}

func (s *Image) render(ctx context.Context, prompt string, target picture.Size) (image.Image, error) {
	sc := s.config().Services.Image

	b, err := lookup(s.backends, sc)
	if err != nil {
		return nil, err
	}

	slog.Debug("Generating image", "backend", sc.Backend, "prompt", prompt)

	resp, err := b.Infer(ctx, &backend.Request{
		Input:      strings.NewReader(prompt),
		Parameters: sc.Params(imageDefaults),
	})
	if err != nil {
		return nil, err
	}

	data, err := readOutput(resp)
	if err != nil {
		return nil, err
	}

	img, err := picture.DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	if scaled, ok := picture.Upscale(img, target); ok {
		slog.Info("Upscaling image", "from", picture.SizeOf(img), "to", target)
		img = scaled
	}

	return img, nil
}

func (s *Image) demo(prompt string, size picture.Size) (*ImageResult, error) {
	excerpt, _ := truncateRunes(prompt, demoPromptRunes)
	text := fmt.Sprintf("ArciTEK.AI\n\n%s\n\nDemo Image\n%s", excerpt, size)

	img := picture.Placeholder(size, text)

	f, err := s.store.Create(output.KindImages, "image_demo", "png", func(w io.Writer) error {
		return picture.EncodePNG(w, img)
	})
	if err != nil {
		return nil, err
	}

	return &ImageResult{File: f, Resolution: size, Demo: true}, nil
}
