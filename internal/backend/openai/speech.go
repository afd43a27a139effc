package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/mapsafe"
)

// SpeechBackend synthesizes speech with the audio speech API.
type SpeechBackend struct {
	client *goopenai.Client
}

// NewSpeechBackend creates a new speech backend.
func NewSpeechBackend(client *goopenai.Client) *SpeechBackend {
	return &SpeechBackend{client: client}
}

// Provider returns the backend provider.
func (b *SpeechBackend) Provider() backend.BackendProvider {
	return backend.BackendProviderOpenAISpeech
}

// Infer synthesizes req.Input.
//
// Parameters: model (tts-1-hd), voice (alloy), speed (1.0), response_format (mp3).
func (b *SpeechBackend) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	text, err := readInput(req.Input)
	if err != nil {
		return nil, err
	}

	p := req.Parameters
	speechReq := goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(mapsafe.Get(p, "model", string(goopenai.TTSModel1HD))),
		Input:          text,
		Voice:          goopenai.SpeechVoice(mapsafe.Get(p, "voice", string(goopenai.VoiceAlloy))),
		ResponseFormat: goopenai.SpeechResponseFormat(mapsafe.Get(p, "response_format", string(goopenai.SpeechResponseFormatMp3))),
		Speed:          mapsafe.Get(p, "speed", 1.0),
	}

	resp, err := b.client.CreateSpeech(ctx, speechReq)
	if err != nil {
		return nil, fmt.Errorf("openai: speech synthesis failed: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("openai: failed to read speech audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("openai: speech synthesis: %w", backend.ErrEmptyOutput)
	}

	return &backend.Response{
		Output: bytes.NewReader(audio),
		Metadata: &backend.ResponseMetadata{
			Provider:    b.Provider(),
			Model:       string(speechReq.Model),
			Timestamp:   time.Now(),
			OutputBytes: int64(len(audio)),
			BackendSpecific: map[string]any{
				"voice":           string(speechReq.Voice),
				"speed":           speechReq.Speed,
				"response_format": string(speechReq.ResponseFormat),
			},
		},
	}, nil
}

// Close cleans up resources. The speech backend holds none.
func (b *SpeechBackend) Close() error {
	return nil
}
