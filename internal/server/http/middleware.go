package http

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"
	sloghttp "github.com/samber/slog-http"
)

// withCORS answers preflight requests and sets the CORS headers for
// allowed origins. "*" allows every origin.
func withCORS(origins []string, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(next)
}

// withRequestLog logs one line per request through logger.
func withRequestLog(logger *slog.Logger, next http.Handler) http.Handler {
	return sloghttp.NewWithConfig(logger, sloghttp.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
	})(next)
}
