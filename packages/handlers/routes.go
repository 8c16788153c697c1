package handlers

import (
	"net/http"

	"github.com/rs/cors"
)

// NewRouter registers the API routes behind CORS, request-ID, logging and
// recovery middleware.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", h.HandleAnalyze)
	mux.HandleFunc("POST /api/chat", h.HandleChat)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /{$}", h.HandleRoot)

	c := cors.New(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins(),
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
	})

	return Chain(mux,
		c.Handler,
		RequestID(),
		Logging(),
		Recovery(h.cfg.Server.StrictStatusCodes),
	)
}
