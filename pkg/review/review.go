// Package review adapts the CodeVF task API into a single blocking review
// call: validate the request locally, submit it, poll until the task reaches
// a terminal status, and hand the service's result back unchanged. It is the
// one place request assembly and parameter precedence live; the calling
// convention shims (MCP tool, CLI) are thin translations over it.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codevf/codevf-go/pkg/codevf"
)

// TasksClient is the slice of the CodeVF client the adapter needs.
// *codevf.Client satisfies it; tests substitute a fake.
type TasksClient interface {
	CreateTask(ctx context.Context, req codevf.TaskRequest) (*codevf.Task, error)
	GetTask(ctx context.Context, id string) (*codevf.Task, error)
}

// Request is a single review invocation. Attachments built with the package
// constructors and structured AttachmentInputs may be mixed; both are
// validated before submission.
type Request struct {
	Prompt      string
	Attachments []Attachment

	// AttachmentInputs carries attachments arriving in the loose JSON shape
	// (tool calls, config files). They are validated and appended after
	// Attachments.
	AttachmentInputs []AttachmentInput

	Overrides Overrides
}

// Reviewer submits review requests with a fixed set of defaults. The options
// are immutable after New; concurrent Review calls are independent.
type Reviewer struct {
	client TasksClient
	opts   Options
	logger *slog.Logger
}

// New creates a Reviewer. opts.ProjectID may be zero if every call supplies
// one via Overrides.
func New(client TasksClient, opts Options) (*Reviewer, error) {
	if client == nil {
		return nil, fmt.Errorf("review: nil TasksClient")
	}

	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &Reviewer{
		client: client,
		opts:   opts,
		logger: slog.Default(),
	}, nil
}

// WithLogger returns a copy of the Reviewer using the given logger.
func (r *Reviewer) WithLogger(logger *slog.Logger) *Reviewer {
	if logger == nil {
		return r
	}
	clone := *r
	clone.logger = logger
	return &clone
}

// Options returns the configured defaults.
func (r *Reviewer) Options() Options {
	return r.opts
}

// Review validates req, submits it, and blocks until the task reaches a
// terminal status. The returned task is exactly what the service reported;
// interpreting it (including non-completed terminal statuses) is the
// caller's concern, see Outcome.
//
// Validation and configuration failures are returned before any network
// activity. Service failures arrive wrapped from the codevf package and are
// not retried.
func (r *Reviewer) Review(ctx context.Context, req Request) (*codevf.Task, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	attachments, err := r.collectAttachments(req)
	if err != nil {
		return nil, err
	}

	opts := merge(r.opts, req.Overrides)
	if opts.ProjectID == 0 {
		return nil, ErrMissingProject
	}
	if opts.MaxCredits <= 0 {
		return nil, ErrMaxCredits
	}

	task, err := r.client.CreateTask(ctx, codevf.TaskRequest{
		ProjectID:   opts.ProjectID,
		Prompt:      req.Prompt,
		MaxCredits:  opts.MaxCredits,
		Mode:        opts.Mode,
		TagID:       opts.TagID,
		Metadata:    opts.Metadata,
		Attachments: attachments,
	})
	if err != nil {
		return nil, err
	}

	timeout, bounded := resolveTimeout(opts.Timeout, opts.MaxCredits)
	r.logger.Info("review task submitted",
		"task", task.ID,
		"project", opts.ProjectID,
		"max_credits", opts.MaxCredits,
		"mode", opts.Mode,
		"timeout", formatTimeout(timeout, bounded),
	)

	return r.await(ctx, task.ID, opts.PollInterval, timeout, bounded)
}

// collectAttachments validates and normalizes both attachment forms.
func (r *Reviewer) collectAttachments(req Request) ([]codevf.TaskAttachment, error) {
	normalized, err := normalizeInputs(req.AttachmentInputs)
	if err != nil {
		return nil, err
	}

	all := make([]codevf.TaskAttachment, 0, len(req.Attachments)+len(normalized))
	for _, a := range req.Attachments {
		if err := a.validate(); err != nil {
			return nil, err
		}
		all = append(all, a.wire())
	}
	for _, a := range normalized {
		all = append(all, a.wire())
	}

	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// await polls the task until it reaches a terminal status, the timeout
// elapses, or ctx is done.
func (r *Reviewer) await(ctx context.Context, taskID string, interval, timeout time.Duration, bounded bool) (*codevf.Task, error) {
	start := time.Now()

	for {
		task, err := r.client.GetTask(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if task.Terminal() {
			r.logger.Info("review task finished",
				"task", task.ID,
				"status", task.Status,
				"elapsed", time.Since(start).Round(time.Second),
			)
			return task, nil
		}

		if bounded && time.Since(start) > timeout {
			return nil, fmt.Errorf("%w: task %q still %s after %s", ErrTimeout, taskID, task.Status, timeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// formatTimeout renders the resolved timeout for logging.
func formatTimeout(timeout time.Duration, bounded bool) string {
	if !bounded {
		return "infinite"
	}
	return timeout.String()
}
