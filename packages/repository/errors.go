package repository

import (
	"errors"
	"net/http"

	"github.com/google/go-github/github"
)

// APIError is a structured error reported by the GitHub API.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return "GitHub API error: " + e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// NotFound reports whether the upstream answered 404.
func (e *APIError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// wrapAPIError converts go-github's structured errors into *APIError and
// leaves transport errors untouched.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &APIError{StatusCode: statusOf(rateErr.Response), Message: rateErr.Message, Err: err}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &APIError{StatusCode: statusOf(abuseErr.Response), Message: abuseErr.Message, Err: err}
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		msg := respErr.Message
		if msg == "" {
			msg = http.StatusText(statusOf(respErr.Response))
		}
		return &APIError{StatusCode: statusOf(respErr.Response), Message: msg, Err: err}
	}
	return err
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
