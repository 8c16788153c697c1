package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"codesensei/packages/analysis"
	"codesensei/packages/repository"
	"codesensei/types"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// errInvalidBody marks a request body that could not be decoded.
var errInvalidBody = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func errorEnvelope(message string) types.ErrorEnvelope {
	return types.ErrorEnvelope{Status: statusError, Message: message}
}

// classify maps a pipeline error to the envelope message and the status code
// used in strict mode. input is the URL the client sent, if any.
func classify(err error, input string) (int, string) {
	var apiErr *repository.APIError
	switch {
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, repository.ErrInvalidRepoURL):
		return http.StatusBadRequest, "Invalid GitHub URL: " + input
	case errors.Is(err, analysis.ErrNoMessages):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, analysis.ErrMissingGitHubToken), errors.Is(err, analysis.ErrMissingLLMKey):
		return http.StatusInternalServerError, err.Error()
	case errors.As(err, &apiErr):
		if apiErr.NotFound() {
			return http.StatusNotFound, apiErr.Error()
		}
		return http.StatusBadGateway, apiErr.Error()
	default:
		return http.StatusInternalServerError, "An unexpected error occurred: " + err.Error()
	}
}

// writeError answers with the error envelope. Unless strict is set the HTTP
// status stays 200 and clients look at the status field.
func writeError(w http.ResponseWriter, strict bool, err error, input string) {
	code, message := classify(err, input)
	if !strict {
		code = http.StatusOK
	}
	writeJSON(w, code, errorEnvelope(message))
}
