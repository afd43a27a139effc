package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/mapsafe"
)

// maxImageBytes bounds the downloaded image.
const maxImageBytes = 64 << 20

// ImageBackend generates images with DALL-E and returns the downloaded bytes.
type ImageBackend struct {
	client     *goopenai.Client
	httpClient *http.Client
}

// NewImageBackend creates a new image backend.
func NewImageBackend(client *goopenai.Client, httpClient *http.Client) *ImageBackend {
	return &ImageBackend{
		client:     client,
		httpClient: httpClient,
	}
}

// Provider returns the backend provider.
func (b *ImageBackend) Provider() backend.BackendProvider {
	return backend.BackendProviderOpenAIImages
}

// Infer generates one image from the prompt in req.Input.
//
// Parameters: model (dall-e-3), size (1792x1024), quality (hd), style.
func (b *ImageBackend) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	prompt, err := readInput(req.Input)
	if err != nil {
		return nil, err
	}

	p := req.Parameters
	imageReq := goopenai.ImageRequest{
		Prompt:         prompt,
		Model:          mapsafe.Get(p, "model", goopenai.CreateImageModelDallE3),
		Size:           mapsafe.Get(p, "size", goopenai.CreateImageSize1792x1024),
		Quality:        mapsafe.Get(p, "quality", goopenai.CreateImageQualityHD),
		Style:          mapsafe.Get(p, "style", ""),
		ResponseFormat: goopenai.CreateImageResponseFormatURL,
		N:              1,
	}

	resp, err := b.client.CreateImage(ctx, imageReq)
	if err != nil {
		return nil, fmt.Errorf("openai: image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, fmt.Errorf("openai: image generation returned no URL: %w", backend.ErrEmptyOutput)
	}

	data, err := b.download(ctx, resp.Data[0].URL)
	if err != nil {
		return nil, err
	}

	return &backend.Response{
		Output: bytes.NewReader(data),
		Metadata: &backend.ResponseMetadata{
			Provider:    b.Provider(),
			Model:       imageReq.Model,
			Timestamp:   time.Now(),
			OutputBytes: int64(len(data)),
			BackendSpecific: map[string]any{
				"size":           imageReq.Size,
				"quality":        imageReq.Quality,
				"revised_prompt": resp.Data[0].RevisedPrompt,
			},
		},
	}, nil
}

// download fetches the temporary image URL returned by the API.
func (b *ImageBackend) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("openai: failed to create download request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai: image download failed: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("openai: image download failed: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("openai: image larger than %d bytes", maxImageBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("openai: image download: %w", backend.ErrEmptyOutput)
	}

	return data, nil
}

// Close cleans up resources. The image backend holds none.
func (b *ImageBackend) Close() error {
	return nil
}
