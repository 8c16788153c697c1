package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"codesensei/packages/config"
	"codesensei/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Analyzer is the analysis pipeline as seen by the HTTP layer.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*types.AnalysisResult, error)
	Chat(ctx context.Context, messages []types.ChatMessage) (string, error)
}

type AnalyzeRequest struct {
	GitHubURL string `json:"github_url"`
}

type ChatRequest struct {
	Messages []types.ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

// Handler serves the JSON API.
type Handler struct {
	cfg      *config.Config
	analyzer Analyzer
	version  string
}

func NewHandler(cfg *config.Config, analyzer Analyzer, version string) *Handler {
	return &Handler{cfg: cfg, analyzer: analyzer, version: version}
}

// HandleAnalyze serves POST /api/analyze.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	strict := h.cfg.Server.StrictStatusCodes

	var req AnalyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, strict, err, "")
		return
	}

	slog.Info("Analyze request", "url", req.GitHubURL, "requestID", GetRequestID(r.Context()))

	result, err := h.analyzer.Analyze(r.Context(), req.GitHubURL)
	if err != nil {
		writeError(w, strict, err, req.GitHubURL)
		return
	}

	result.DebugInfo.RequestID = GetRequestID(r.Context())
	writeJSON(w, http.StatusOK, result)
}

// HandleChat serves POST /api/chat.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	strict := h.cfg.Server.StrictStatusCodes

	var req ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, strict, err, "")
		return
	}

	reply, err := h.analyzer.Chat(r.Context(), req.Messages)
	if err != nil {
		slog.Warn("Chat request failed", "error", err, "requestID", GetRequestID(r.Context()))
		writeError(w, strict, err, "")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Status: statusSuccess, Response: reply})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
