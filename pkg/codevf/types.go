package codevf

import "strings"

// Mode selects the CodeVF processing speed/quality tier. The set of valid
// values is owned by the service; unknown values are rejected remotely.
type Mode string

// Known service modes.
const (
	ModeStandard Mode = "standard"
	ModeFast     Mode = "fast"
)

// Task statuses reported by the service.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// TaskAttachment is the wire shape of a single file payload. Exactly one of
// Content and Base64 must be set; the review layer enforces this before a
// request is built.
type TaskAttachment struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Content  string `json:"content,omitempty"`
	Base64   string `json:"base64,omitempty"`
}

// TaskRequest is the payload for POST /tasks.
type TaskRequest struct {
	ProjectID   int64            `json:"projectId"`
	Prompt      string           `json:"prompt"`
	MaxCredits  int              `json:"maxCredits"`
	Mode        Mode             `json:"mode"`
	TagID       *int64           `json:"tagId,omitempty"`
	Metadata    map[string]any   `json:"metadata,omitempty"`
	Attachments []TaskAttachment `json:"attachments,omitempty"`
}

// Task is a review task as reported by the service.
type Task struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"createdAt,omitempty"`
	Result    *TaskResult `json:"result,omitempty"`
}

// TaskResult carries the reviewer's response once a task completes.
type TaskResult struct {
	Message      string        `json:"message,omitempty"`
	Deliverables []Deliverable `json:"deliverables,omitempty"`
}

// Deliverable is a file produced by the reviewer, served by URL.
type Deliverable struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

// Tag is an expertise tag from GET /tags. Tag IDs affect the credit cost
// multiplier and are validated by the service, never locally.
type Tag struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier,omitempty"`
}

// Terminal reports whether the task has reached a final status and will not
// change again. Status comparison is case-insensitive; the service has been
// observed to vary casing across API versions.
func (t *Task) Terminal() bool {
	switch strings.ToLower(t.Status) {
	case StatusCompleted, StatusFailed, StatusCanceled, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Completed reports whether the task finished successfully.
func (t *Task) Completed() bool {
	return strings.EqualFold(t.Status, StatusCompleted)
}
