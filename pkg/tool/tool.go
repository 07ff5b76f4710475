// Package tool exposes the review adapter as an MCP tool so agent
// orchestrators can call CodeVF through the structured calling convention.
// It performs no validation of its own; the adapter owns that. Direct Go
// callers should use review.Reviewer instead of going through this shim.
package tool

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/codevf/codevf-go/pkg/codevf"
	"github.com/codevf/codevf-go/pkg/review"
)

// Name is the tool name registered with the MCP host.
const Name = "codevf_review"

// reviewArgs is the structured input shape, a direct mirror of the adapter's
// request fields.
type reviewArgs struct {
	Prompt      string                   `json:"prompt"`
	Attachments []review.AttachmentInput `json:"attachments,omitempty"`
	TagID       *int64                   `json:"tag_id,omitempty"`
}

// Definition returns the MCP tool declaration for codevf_review.
func Definition() mcp.Tool {
	return mcp.NewTool(Name,
		mcp.WithDescription("Send a request to CodeVF for human code review, debugging, or verification."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("Natural-language request for CodeVF."),
		),
		mcp.WithArray("attachments",
			mcp.Description("Optional files/logs to attach. Each item needs file_name, mime_type, and exactly one of content or base64."),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"file_name": map[string]any{"type": "string"},
					"mime_type": map[string]any{"type": "string"},
					"content":   map[string]any{"type": "string"},
					"base64":    map[string]any{"type": "string"},
				},
				"required": []string{"file_name", "mime_type"},
			}),
		),
		mcp.WithNumber("tag_id",
			mcp.Description("Optional expertise tag ID from GET /tags."),
		),
	)
}

// Handler returns the MCP handler bound to a Reviewer. Local validation
// failures and service rejections are reported as tool-result errors so the
// calling model can correct its input; only transport-level faults surface
// as protocol errors.
func Handler(r *review.Reviewer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args reviewArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
		}

		task, err := r.Review(ctx, review.Request{
			Prompt:           args.Prompt,
			AttachmentInputs: args.Attachments,
			Overrides:        review.Overrides{TagID: args.TagID},
		})
		if err != nil {
			if recoverable(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		return mcp.NewToolResultText(review.Output(task)), nil
	}
}

// recoverable reports whether the failure is something the calling model can
// act on by adjusting its input or waiting, as opposed to a broken transport
// or misconfigured host.
func recoverable(err error) bool {
	var apiErr *codevf.APIError
	if errors.As(err, &apiErr) && apiErr.ClientError() {
		return true
	}
	return errors.Is(err, review.ErrEmptyPrompt) ||
		errors.Is(err, review.ErrAttachment) ||
		errors.Is(err, review.ErrTimeout) ||
		errors.Is(err, codevf.ErrRateLimit)
}
