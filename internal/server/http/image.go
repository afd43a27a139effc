package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/arcitek-ai/arcitek/internal/service"
)

type (
	ImageRequestDTO struct {
		_ struct{} `json:"-" additionalProperties:"true"`

		Prompt     string `json:"prompt,omitempty" doc:"Description of the image"`
		Style      string `json:"style,omitempty" default:"photorealistic" doc:"photorealistic, artistic, concept-art, anime, 3d-render, oil-painting, cyberpunk or fantasy"`
		Resolution string `json:"resolution,omitempty" default:"4k" doc:"hd, 2k, 4k or 8k"`
	}

	ImageResponseDTO struct {
		Success    bool    `json:"success"`
		URL        string  `json:"url"`
		Filename   string  `json:"filename"`
		Resolution string  `json:"resolution"`
		Megapixels float64 `json:"megapixels"`
		Demo       bool    `json:"demo"`
	}
)

type (
	GenerateImageInput struct {
		Body ImageRequestDTO
	}

	GenerateImageOutput struct {
		Body ImageResponseDTO
	}
)

// ImageHandler handles HTTP requests for image generation.
type ImageHandler struct {
	service *service.Image
}

// NewImageHandler creates a new ImageHandler instance.
func NewImageHandler(api huma.API, service *service.Image) *ImageHandler {
	h := &ImageHandler{service: service}

	huma.Register(api, huma.Operation{
		OperationID:   "generate-image",
		Method:        http.MethodPost,
		Path:          "/api/generate-image",
		Summary:       "Generate a high resolution image from a prompt",
		Tags:          []string{"image"},
		DefaultStatus: http.StatusOK,
	}, h.handleGenerate)

	return h
}

// handleGenerate handles the generate-image operation.
func (h *ImageHandler) handleGenerate(ctx context.Context, input *GenerateImageInput) (*GenerateImageOutput, error) {
	body := input.Body
	if strings.TrimSpace(body.Prompt) == "" {
		return nil, huma.Error400BadRequest("Prompt is required")
	}

	res, err := h.service.Generate(ctx, body.Prompt, body.Style, body.Resolution)
	if err != nil {
		return nil, huma.Error500InternalServerError(err.Error())
	}

	return &GenerateImageOutput{
		Body: ImageResponseDTO{
			Success:    true,
			URL:        res.File.URL,
			Filename:   res.File.Name,
			Resolution: res.Resolution.String(),
			Megapixels: res.Resolution.Megapixels(),
			Demo:       res.Demo,
		},
	}, nil
}
