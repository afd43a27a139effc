package backend

import (
	"context"
	"io"
	"time"
)

// BackendProvider is a string identifier for a backend provider.
type BackendProvider string

const (
	BackendProviderOpenAIImages BackendProvider = "openai.images"
	BackendProviderOpenAIChat   BackendProvider = "openai.chat"
	BackendProviderOpenAISpeech BackendProvider = "openai.speech"
	BackendProviderCommand      BackendProvider = "command"
)

// Backend defines the core interface for all generation backends.
type Backend interface {
	// Provider returns the backend identifier.
	Provider() BackendProvider

	// Infer executes a generation call and returns the complete result.
	Infer(ctx context.Context, req *Request) (*Response, error)

	// Close cleans up resources.
	Close() error
}

// Request encapsulates all parameters for a generation call.
type Request struct {
	// Input is the raw input data (prompt text, narration text, etc.).
	Input io.Reader

	// Parameters contains backend-specific parameters.
	Parameters map[string]any
}

// Response contains the result of a generation call.
type Response struct {
	// Output is the raw output data.
	Output io.Reader

	// Metadata contains backend-specific information.
	Metadata *ResponseMetadata
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	Provider        BackendProvider `json:"provider"`
	Model           string          `json:"model"`
	Timestamp       time.Time       `json:"timestamp"`
	OutputBytes     int64           `json:"output_bytes"`
	BackendSpecific map[string]any  `json:"backend_specific,omitempty"`
}
