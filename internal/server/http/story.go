package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/arcitek-ai/arcitek/internal/service"
)

type (
	StoryRequestDTO struct {
		_ struct{} `json:"-" additionalProperties:"true"`

		Prompt string `json:"prompt,omitempty" doc:"Story concept"`
		Genre  string `json:"genre,omitempty" default:"sci-fi"`
		Length string `json:"length,omitempty" default:"short" doc:"flash, short, medium or long"`
	}

	StoryDTO struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		WordCount int    `json:"word_count"`
		URL       string `json:"url,omitempty"`
	}

	StoryResponseDTO struct {
		Success bool     `json:"success"`
		Story   StoryDTO `json:"story"`
		Demo    bool     `json:"demo"`
	}

	NarrateRequestDTO struct {
		_ struct{} `json:"-" additionalProperties:"true"`

		Text  string  `json:"text,omitempty"`
		Voice string  `json:"voice,omitempty" default:"alloy" enum:"alloy,echo,fable,onyx,nova,shimmer"`
		Speed float64 `json:"speed,omitempty" default:"1.0" minimum:"0.25" maximum:"4.0"`
	}

	NarrateResponseDTO struct {
		Success  bool   `json:"success"`
		URL      string `json:"url"`
		Filename string `json:"filename"`
		Duration int    `json:"duration"`
	}
)

type (
	GenerateStoryInput struct {
		Body StoryRequestDTO
	}

	GenerateStoryOutput struct {
		Body StoryResponseDTO
	}

	NarrateStoryInput struct {
		Body NarrateRequestDTO
	}

	NarrateStoryOutput struct {
		Body NarrateResponseDTO
	}
)

// StoryHandler handles HTTP requests for stories and narration.
type StoryHandler struct {
	service *service.Story
}

// NewStoryHandler creates a new StoryHandler instance.
func NewStoryHandler(api huma.API, service *service.Story) *StoryHandler {
	h := &StoryHandler{service: service}

	huma.Register(api, huma.Operation{
		OperationID:   "generate-story",
		Method:        http.MethodPost,
		Path:          "/api/generate-story",
		Summary:       "Write a story from a prompt",
		Tags:          []string{"story"},
		DefaultStatus: http.StatusOK,
	}, h.handleGenerate)

	huma.Register(api, huma.Operation{
		OperationID:   "narrate-story",
		Method:        http.MethodPost,
		Path:          "/api/narrate-story",
		Summary:       "Narrate story text",
		Tags:          []string{"story"},
		DefaultStatus: http.StatusOK,
	}, h.handleNarrate)

	return h
}

// handleGenerate handles the generate-story operation.
func (h *StoryHandler) handleGenerate(ctx context.Context, input *GenerateStoryInput) (*GenerateStoryOutput, error) {
	body := input.Body
	if strings.TrimSpace(body.Prompt) == "" {
		return nil, huma.Error400BadRequest("Prompt is required")
	}

	res, err := h.service.Generate(ctx, body.Prompt, body.Genre, body.Length)
	if err != nil {
		return nil, huma.Error500InternalServerError(err.Error())
	}

	story := StoryDTO{
		Title:     res.Title,
		Content:   res.Content,
		WordCount: res.WordCount,
	}
	if res.File != nil {
		story.URL = res.File.URL
	}

	return &GenerateStoryOutput{
		Body: StoryResponseDTO{
			Success: true,
			Story:   story,
			Demo:    res.Demo,
		},
	}, nil
}

// handleNarrate handles the narrate-story operation.
func (h *StoryHandler) handleNarrate(ctx context.Context, input *NarrateStoryInput) (*NarrateStoryOutput, error) {
	body := input.Body
	if strings.TrimSpace(body.Text) == "" {
		return nil, huma.Error400BadRequest("Text is required")
	}

	res, err := h.service.Narrate(ctx, body.Text, body.Voice, body.Speed)
	if err != nil {
		return nil, huma.Error500InternalServerError(err.Error())
	}

	return &NarrateStoryOutput{
		Body: NarrateResponseDTO{
			Success:  true,
			URL:      res.File.URL,
			Filename: res.File.Name,
			Duration: res.Duration,
		},
	}, nil
}
