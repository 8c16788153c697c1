package handlers

import "net/http"

type HealthResponse struct {
	Status   string          `json:"status"`
	Services map[string]bool `json:"services"`
}

type ServiceInfo struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
	Status   string   `json:"status"`
}

var features = []string{
	"Repository analysis",
	"Technology stack detection",
	"Complexity scoring",
	"Community insights",
	"AI-powered learning paths",
	"Chat assistant",
}

// HandleHealth serves GET /api/health. Each service flag reports whether its
// credential is configured; no upstream call is made.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Services: map[string]bool{
			"github_api":     h.cfg.HasGitHubToken(),
			"openrouter_api": h.cfg.HasLLMKey(),
		},
	})
}

// HandleRoot serves GET /.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ServiceInfo{
		Name:     "CodeSensei API",
		Version:  h.version,
		Features: features,
		Status:   "running",
	})
}
