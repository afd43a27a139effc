// Package openai implements backends on top of the OpenAI API.
package openai

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"
)

// Config holds the connection settings shared by all OpenAI backends.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API endpoint (default: https://api.openai.com/v1).
	BaseURL string

	// HTTPClient is used for API calls and image downloads.
	HTTPClient *http.Client
}

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("openai: API key is required")

// NewClient creates a go-openai client from cfg.
func NewClient(cfg Config) (*goopenai.Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientConfig.HTTPClient = cfg.HTTPClient
	}

	return goopenai.NewClientWithConfig(clientConfig), nil
}

// NewBackends creates the image, chat and speech backends sharing one client.
func NewBackends(cfg Config) (*ImageBackend, *ChatBackend, *SpeechBackend, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return NewImageBackend(client, httpClient), NewChatBackend(client), NewSpeechBackend(client), nil
}

// readInput reads the request input as text.
func readInput(r io.Reader) (string, error) {
	if r == nil {
		return "", errors.New("openai: empty input")
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if len(b) == 0 {
		return "", errors.New("openai: empty input")
	}

	return string(b), nil
}
