package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcitek-ai/arcitek/internal/output"
)

func TestNewError(t *testing.T) {
	err := newError(http.StatusUnprocessableEntity, "validation failed", io.EOF, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, err.GetStatus())
	assert.Equal(t, "validation failed: EOF", err.Error())

	err = newError(http.StatusBadRequest, "Prompt is required")
	assert.Equal(t, "Prompt is required", err.Error())
}

func TestServer_Health(t *testing.T) {
	srv := New(Config{Version: "1.0.0", AllowedOrigins: []string{"*"}}, newDeps(t))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec.Body.Bytes())
	assert.Equal(t, "online", got["status"])
	assert.NotContains(t, got, "$schema")
}

func TestServer_CORS(t *testing.T) {
	t.Run("all origins", func(t *testing.T) {
		srv := New(Config{AllowedOrigins: []string{"*"}}, newDeps(t))

		req := httptest.NewRequest(http.MethodOptions, "/api/generate-image", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("listed origins", func(t *testing.T) {
		srv := New(Config{AllowedOrigins: []string{"https://studio.example"}}, newDeps(t))

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "https://studio.example")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, "https://studio.example", rec.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec = httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		// Shared caches must key on Origin even when the origin is refused.
		assert.Contains(t, strings.Join(rec.Header().Values("Vary"), ","), "Origin")
	})

	t.Run("listed origin preflight", func(t *testing.T) {
		srv := New(Config{AllowedOrigins: []string{"https://studio.example"}}, newDeps(t))

		req := httptest.NewRequest(http.MethodOptions, "/api/narrate-story", nil)
		req.Header.Set("Origin", "https://studio.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://studio.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.MethodPost, rec.Header().Get("Access-Control-Allow-Methods"))
	})
}

func TestServer_Outputs(t *testing.T) {
	deps := newDeps(t)
	srv := New(Config{AllowedOrigins: []string{"*"}}, deps)

	f, err := deps.Store.Create(output.KindStories, "story", "txt", func(w io.Writer) error {
		_, err := io.WriteString(w, "Title\n\nBody")
		return err
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, f.URL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Title\n\nBody", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/outputs/images/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"File not found"}`, rec.Body.String())
}

func TestServer_Gzip(t *testing.T) {
	srv := New(Config{Version: "1.0.0", AllowedOrigins: []string{"*"}}, newDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.False(t, strings.HasPrefix(rec.Body.String(), "{"))
}

func TestRequestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	deps := newDeps(t)
	h := withRequestLog(logger, deps.Store.Handler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/outputs/images/missing.png", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	line := buf.String()
	assert.Contains(t, line, `"level":"WARN"`)
	assert.Contains(t, line, `"status":404`)
	assert.Contains(t, line, "/api/outputs/images/missing.png")
}
