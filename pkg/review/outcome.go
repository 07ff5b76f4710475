package review

import (
	"fmt"
	"strings"

	"github.com/codevf/codevf-go/pkg/codevf"
)

// Outcome statuses. A completed task maps to approved; every other terminal
// status maps to cancelled, matching how upstream orchestrators treat a
// human gate that did not sign off.
const (
	StatusApproved  = "approved"
	StatusCancelled = "cancelled"
)

// Outcome is the caller-facing summary of a finished review task.
type Outcome struct {
	Status string `json:"status"`
	Output string `json:"output"`
}

// Summarize reduces a terminal task to an Outcome. Non-terminal tasks keep
// their raw status so callers can spot them.
func Summarize(task *codevf.Task) Outcome {
	status := strings.ToLower(task.Status)
	out := Outcome{Status: status, Output: Output(task)}

	switch status {
	case codevf.StatusCompleted:
		out.Status = StatusApproved
	case codevf.StatusFailed, codevf.StatusCanceled, codevf.StatusCancelled, codevf.StatusExpired:
		out.Status = StatusCancelled
	}
	return out
}

// Output extracts the reviewer's textual response from a task, preferring
// the message, then a deliverables listing, then a status-appropriate
// fallback line.
func Output(task *codevf.Task) string {
	if task.Result != nil && task.Result.Message != "" {
		return task.Result.Message
	}

	if task.Result != nil && len(task.Result.Deliverables) > 0 {
		lines := []string{"CodeVF task completed. Deliverables:"}
		for _, d := range task.Result.Deliverables {
			lines = append(lines, fmt.Sprintf("- %s: %s", d.FileName, d.URL))
		}
		return strings.Join(lines, "\n")
	}

	switch strings.ToLower(task.Status) {
	case codevf.StatusFailed:
		return "CodeVF task failed without a text response."
	case codevf.StatusCanceled, codevf.StatusCancelled, codevf.StatusExpired:
		return "CodeVF task was cancelled."
	}
	return "CodeVF task completed without a text response."
}
