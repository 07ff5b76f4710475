package codevf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Sentinel errors for client operations. API failures wrap one of these so
// callers can classify without inspecting status codes.
var (
	// ErrMissingAPIKey indicates no API key was configured or found in the
	// environment.
	ErrMissingAPIKey = errors.New("codevf: missing API key (set Config.APIKey or CODEVF_API_KEY)")

	// ErrAuth indicates the API rejected the credential.
	ErrAuth = errors.New("codevf: authentication failed")

	// ErrInsufficientCredits indicates the project has no credits left or the
	// request exceeds the remaining balance.
	ErrInsufficientCredits = errors.New("codevf: insufficient credits")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("codevf: not found")

	// ErrRateLimit indicates the API returned a rate limit response.
	ErrRateLimit = errors.New("codevf: rate limited")

	// ErrUnavailable indicates the API is temporarily unreachable or failing.
	ErrUnavailable = errors.New("codevf: service unavailable")
)

// IsRetryable reports whether the error is transient and the request can be
// retried after a delay. The client never retries on its own.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrUnavailable)
}

// APIError is a structured error returned by the CodeVF API.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the machine-readable error code, e.g. "invalid_tag_id".
	Code string

	// Message is the human-readable error description.
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("codevf: HTTP %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("codevf: HTTP %d: %s", e.StatusCode, e.Message)
}

// ClientError reports whether the failure is in the 4xx class, i.e. caused
// by the request rather than the service.
func (e *APIError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// apiErrorBody is the error envelope used by the CodeVF API.
type apiErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// mapHTTPError maps an HTTP status code and response body to an error.
// Returns nil for 2xx status codes. Retryable classes wrap a sentinel;
// everything carries an *APIError with the original status.
func mapHTTPError(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: statusCode, Message: string(body)}
	var envelope apiErrorBody
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrAuth, apiErr)
	case statusCode == http.StatusPaymentRequired:
		return fmt.Errorf("%w: %w", ErrInsufficientCredits, apiErr)
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimit, apiErr)
	case statusCode >= 500:
		return fmt.Errorf("%w: %w", ErrUnavailable, apiErr)
	default:
		return apiErr
	}
}

// mapConnectionError maps network-level errors to sentinel errors.
// Context errors pass through unchanged so callers recognise cancellation.
func mapConnectionError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return fmt.Errorf("codevf: %w", err)
}
