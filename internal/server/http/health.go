package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/service"
)

// Branding is the tag line reported by the health endpoint.
const Branding = "infinite♾2025"

type (
	HealthResponseDTO struct {
		Status   string          `json:"status"`
		Service  string          `json:"service"`
		Version  string          `json:"version"`
		Branding string          `json:"branding"`
		Backends map[string]bool `json:"backends"`
	}

	HealthOutput struct {
		Body HealthResponseDTO
	}
)

// HealthHandler reports liveness and backend availability.
type HealthHandler struct {
	version  string
	backends *backend.Registry
	config   service.ConfigFunc
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(api huma.API, version string, backends *backend.Registry, config service.ConfigFunc) *HealthHandler {
	h := &HealthHandler{
		version:  version,
		backends: backends,
		config:   config,
	}

	huma.Register(api, huma.Operation{
		OperationID:   "health",
		Method:        http.MethodGet,
		Path:          "/api/health",
		Summary:       "Health check",
		Tags:          []string{"health"},
		DefaultStatus: http.StatusOK,
	}, h.handleHealth)

	return h
}

func (h *HealthHandler) handleHealth(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{
		Body: HealthResponseDTO{
			Status:   "online",
			Service:  ServiceName,
			Version:  h.version,
			Branding: Branding,
			Backends: service.Availability(h.backends, h.config()),
		},
	}, nil
}
