package review

import (
	"time"

	"github.com/codevf/codevf-go/pkg/codevf"
)

// Default parameter values, matching the service's documented defaults.
const (
	DefaultMaxCredits   = 50
	DefaultPollInterval = 2 * time.Second

	// The default review timeout scales with the credit ceiling: larger
	// budgets buy longer-running reviews.
	timeoutPerCredit = 2 * time.Second
	timeoutBuffer    = 5 * time.Minute
)

// NoTimeout disables the completion timeout when assigned to
// Options.Timeout or Overrides.Timeout.
const NoTimeout = time.Duration(-1)

// Options holds the construction-time defaults for a Reviewer. The value is
// copied at construction and never mutated afterwards; per-call Overrides
// take precedence field by field.
type Options struct {
	// ProjectID organises tasks on the CodeVF side. Required here or via
	// Overrides on every call.
	ProjectID int64

	// MaxCredits caps spend per request. Defaults to DefaultMaxCredits.
	MaxCredits int

	// Mode selects the service tier. Defaults to codevf.ModeStandard.
	Mode codevf.Mode

	// TagID is an optional expertise tag, validated by the service only.
	TagID *int64

	// Metadata is attached to every task verbatim.
	Metadata map[string]any

	// PollInterval is the delay between status checks. Defaults to
	// DefaultPollInterval.
	PollInterval time.Duration

	// Timeout bounds the whole review round trip. Zero derives a default
	// from MaxCredits; NoTimeout waits forever.
	Timeout time.Duration
}

// withDefaults returns a copy with zero-valued fields filled in.
func (o Options) withDefaults() Options {
	if o.MaxCredits == 0 {
		o.MaxCredits = DefaultMaxCredits
	}
	if o.Mode == "" {
		o.Mode = codevf.ModeStandard
	}
	if o.PollInterval == 0 {
		o.PollInterval = DefaultPollInterval
	}
	return o
}

// validate checks option values after defaults are applied. A zero
// ProjectID is allowed here because it may still arrive via Overrides;
// Review enforces its presence per call.
func (o Options) validate() error {
	if o.MaxCredits <= 0 {
		return ErrMaxCredits
	}
	if o.PollInterval <= 0 {
		return ErrPollInterval
	}
	return nil
}

// Overrides carries call-time parameter overrides. Zero values mean "use the
// configured default"; TagID is a pointer so that an explicit tag can be set
// where the default has none.
type Overrides struct {
	ProjectID  int64
	MaxCredits int
	Mode       codevf.Mode
	TagID      *int64
	Timeout    time.Duration
	Metadata   map[string]any
}

// merge applies call-time overrides over the configured options, field by
// field, call-time winning where both are supplied.
func merge(opts Options, ov Overrides) Options {
	if ov.ProjectID != 0 {
		opts.ProjectID = ov.ProjectID
	}
	if ov.MaxCredits != 0 {
		opts.MaxCredits = ov.MaxCredits
	}
	if ov.Mode != "" {
		opts.Mode = ov.Mode
	}
	if ov.TagID != nil {
		opts.TagID = ov.TagID
	}
	if ov.Timeout != 0 {
		opts.Timeout = ov.Timeout
	}
	if ov.Metadata != nil {
		opts.Metadata = ov.Metadata
	}
	return opts
}

// resolveTimeout computes the effective completion timeout. Zero derives a
// default from the credit ceiling; a negative value (NoTimeout) disables
// the bound entirely, in which case ok is false.
func resolveTimeout(timeout time.Duration, maxCredits int) (d time.Duration, ok bool) {
	switch {
	case timeout < 0:
		return 0, false
	case timeout > 0:
		return timeout, true
	default:
		return time.Duration(maxCredits)*timeoutPerCredit + timeoutBuffer, true
	}
}
