package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codesensei/packages/analysis"
	"codesensei/packages/config"
	"codesensei/packages/repository"
	"codesensei/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	result *types.AnalysisResult
	reply  string
	err    error
	panics bool
	gotURL string
}

func (s *stubAnalyzer) Analyze(ctx context.Context, url string) (*types.AnalysisResult, error) {
	if s.panics {
		panic("walker exploded")
	}
	s.gotURL = url
	return s.result, s.err
}

func (s *stubAnalyzer) Chat(ctx context.Context, messages []types.ChatMessage) (string, error) {
	return s.reply, s.err
}

func newTestRouter(cfg *config.Config, a Analyzer) http.Handler {
	return NewRouter(NewHandler(cfg, a, "1.0.0"))
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAnalyzeSuccess(t *testing.T) {
	stub := &stubAnalyzer{result: &types.AnalysisResult{Status: "success", RepoInfo: types.RepoInfo{FullName: "foo/bar"}}}
	router := newTestRouter(config.Default(), stub)

	rec := post(t, router, "/api/analyze", `{"github_url": "https://github.com/foo/bar"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://github.com/foo/bar", stub.gotURL)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	result := decode[types.AnalysisResult](t, rec)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "foo/bar", result.RepoInfo.FullName)
	assert.NotEmpty(t, result.DebugInfo.RequestID)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), result.DebugInfo.RequestID)
}

func TestAnalyzeKeepsCallerRequestID(t *testing.T) {
	stub := &stubAnalyzer{result: &types.AnalysisResult{Status: "success"}}
	router := newTestRouter(config.Default(), stub)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"github_url": "a/b"}`))
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", decode[types.AnalysisResult](t, rec).DebugInfo.RequestID)
}

func TestAnalyzeErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		message    string
		strictCode int
	}{
		{
			name:       "invalid url",
			body:       `{"github_url": "nonsense"}`,
			err:        fmt.Errorf("%w: %q", repository.ErrInvalidRepoURL, "nonsense"),
			message:    "Invalid GitHub URL: nonsense",
			strictCode: http.StatusBadRequest,
		},
		{
			name:       "not found",
			body:       `{"github_url": "https://github.com/foo/missing"}`,
			err:        fmt.Errorf("failed to fetch repository: %w", &repository.APIError{StatusCode: 404, Message: "Not Found"}),
			message:    "GitHub API error: Not Found",
			strictCode: http.StatusNotFound,
		},
		{
			name:       "rate limited",
			body:       `{"github_url": "https://github.com/foo/bar"}`,
			err:        &repository.APIError{StatusCode: 403, Message: "API rate limit exceeded"},
			message:    "GitHub API error: API rate limit exceeded",
			strictCode: http.StatusBadGateway,
		},
		{
			name:       "missing token",
			body:       `{"github_url": "https://github.com/foo/bar"}`,
			err:        analysis.ErrMissingGitHubToken,
			message:    "GitHub token not configured",
			strictCode: http.StatusInternalServerError,
		},
		{
			name:       "unexpected",
			body:       `{"github_url": "https://github.com/foo/bar"}`,
			err:        errors.New("dial tcp: connection refused"),
			message:    "An unexpected error occurred: dial tcp: connection refused",
			strictCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, strict := range []bool{false, true} {
				cfg := config.Default()
				cfg.Server.StrictStatusCodes = strict
				router := newTestRouter(cfg, &stubAnalyzer{err: tt.err})

				rec := post(t, router, "/api/analyze", tt.body)

				want := http.StatusOK
				if strict {
					want = tt.strictCode
				}
				assert.Equal(t, want, rec.Code, "strict=%v", strict)
				assert.Equal(t, types.ErrorEnvelope{Status: "error", Message: tt.message}, decode[types.ErrorEnvelope](t, rec))
			}
		})
	}
}

func TestAnalyzeInvalidJSON(t *testing.T) {
	router := newTestRouter(config.Default(), &stubAnalyzer{})

	rec := post(t, router, "/api/analyze", `{"github_url": `)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode[types.ErrorEnvelope](t, rec)
	assert.Equal(t, "error", env.Status)
	assert.True(t, strings.HasPrefix(env.Message, "invalid request body"), env.Message)
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	router := newTestRouter(config.Default(), &stubAnalyzer{panics: true})

	rec := post(t, router, "/api/analyze", `{"github_url": "https://github.com/foo/bar"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.ErrorEnvelope{Status: "error", Message: "An unexpected error occurred: walker exploded"},
		decode[types.ErrorEnvelope](t, rec))
}

func TestChat(t *testing.T) {
	router := newTestRouter(config.Default(), &stubAnalyzer{reply: "Read README.md first."})

	rec := post(t, router, "/api/chat", `{"messages": [{"role": "user", "content": "Where do I start?"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ChatResponse{Status: "success", Response: "Read README.md first."}, decode[ChatResponse](t, rec))
}

func TestChatWithoutLLM(t *testing.T) {
	router := newTestRouter(config.Default(), &stubAnalyzer{err: analysis.ErrMissingLLMKey})

	rec := post(t, router, "/api/chat", `{"messages": [{"role": "user", "content": "hi"}]}`)

	assert.Equal(t, types.ErrorEnvelope{Status: "error", Message: analysis.ErrMissingLLMKey.Error()}, decode[types.ErrorEnvelope](t, rec))
}

func TestHealth(t *testing.T) {
	cfg := config.Default()
	cfg.GitHub.Token = "ghp_test"
	router := newTestRouter(cfg, &stubAnalyzer{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	health := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, map[string]bool{"github_api": true, "openrouter_api": false}, health.Services)
}

func TestRoot(t *testing.T) {
	router := newTestRouter(config.Default(), &stubAnalyzer{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	info := decode[ServiceInfo](t, rec)
	assert.Equal(t, "CodeSensei API", info.Name)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "running", info.Status)
	assert.NotEmpty(t, info.Features)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(config.Default(), &stubAnalyzer{})

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// TestAnalyzeNotFoundEndToEnd drives the real pipeline against a fake GitHub.
func TestAnalyzeNotFoundEndToEnd(t *testing.T) {
	github := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found", "documentation_url": "https://docs.github.com/rest"}`)
	}))
	defer github.Close()

	cfg := config.Default()
	cfg.GitHub.Token = "ghp_test"
	cfg.GitHub.BaseURL = github.URL

	client, err := repository.NewGitHubClient(cfg.GitHub)
	require.NoError(t, err)
	svc, err := analysis.NewService(cfg, repository.NewGitHubSource(client), nil)
	require.NoError(t, err)

	rec := post(t, newTestRouter(cfg, svc), "/api/analyze", `{"github_url": "https://github.com/foo/missing"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "error", "message": "GitHub API error: Not Found"}`, rec.Body.String())
}
