package review

import "errors"

// Sentinel errors for the review adapter. Validation and configuration
// failures are raised before any network activity; everything surfaced by
// the service arrives as a codevf error (wrapping *codevf.APIError) and is
// never retried here.
var (
	// ErrEmptyPrompt indicates the prompt was empty or whitespace-only.
	ErrEmptyPrompt = errors.New("review: prompt must not be empty")

	// ErrAttachment indicates a malformed attachment descriptor.
	ErrAttachment = errors.New("review: invalid attachment")

	// ErrMissingProject indicates no project ID was configured or supplied
	// with the call.
	ErrMissingProject = errors.New("review: project id not configured")

	// ErrMaxCredits indicates a non-positive credit ceiling.
	ErrMaxCredits = errors.New("review: max credits must be greater than zero")

	// ErrPollInterval indicates a non-positive poll interval.
	ErrPollInterval = errors.New("review: poll interval must be greater than zero")

	// ErrTimeout indicates the task did not reach a terminal status within
	// the resolved timeout.
	ErrTimeout = errors.New("review: timed out waiting for task completion")
)
