package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/arcitek-ai/arcitek/internal/service"
)

type (
	MusicRequestDTO struct {
		_ struct{} `json:"-" additionalProperties:"true"`

		Prompt   string `json:"prompt,omitempty" doc:"Description of the music"`
		Genre    string `json:"genre,omitempty" default:"electronic"`
		Duration int    `json:"duration,omitempty" default:"30" minimum:"1" maximum:"300" doc:"Duration in seconds"`
	}

	MusicResponseDTO struct {
		Success  bool   `json:"success"`
		URL      string `json:"url"`
		Filename string `json:"filename"`
		Format   string `json:"format"`
		Quality  string `json:"quality"`
		Duration int    `json:"duration"`
		Demo     bool   `json:"demo"`
	}
)

type (
	GenerateMusicInput struct {
		Body MusicRequestDTO
	}

	GenerateMusicOutput struct {
		Body MusicResponseDTO
	}
)

// MusicHandler handles HTTP requests for music generation.
type MusicHandler struct {
	service *service.Music
}

// NewMusicHandler creates a new MusicHandler instance.
func NewMusicHandler(api huma.API, service *service.Music) *MusicHandler {
	h := &MusicHandler{service: service}

	huma.Register(api, huma.Operation{
		OperationID:   "generate-music",
		Method:        http.MethodPost,
		Path:          "/api/generate-music",
		Summary:       "Generate a music track from a prompt",
		Tags:          []string{"music"},
		DefaultStatus: http.StatusOK,
	}, h.handleGenerate)

	return h
}

// handleGenerate handles the generate-music operation.
func (h *MusicHandler) handleGenerate(ctx context.Context, input *GenerateMusicInput) (*GenerateMusicOutput, error) {
	body := input.Body
	if strings.TrimSpace(body.Prompt) == "" {
		return nil, huma.Error400BadRequest("Prompt is required")
	}

	res, err := h.service.Generate(ctx, body.Prompt, body.Genre, body.Duration)
	if err != nil {
		return nil, huma.Error500InternalServerError(err.Error())
	}

	return &GenerateMusicOutput{
		Body: MusicResponseDTO{
			Success:  true,
			URL:      res.File.URL,
			Filename: res.File.Name,
			Format:   res.Format,
			Quality:  res.Quality,
			Duration: res.Duration,
			Demo:     res.Demo,
		},
	}, nil
}
