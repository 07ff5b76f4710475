package codevf

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Client{
		config: Config{
			APIKey:  "cvf-test",
			BaseURL: srv.URL,
		},
		client: srv.Client(),
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readTaskRequest(t *testing.T, r *http.Request) TaskRequest {
	t.Helper()
	body, _ := io.ReadAll(r.Body)
	var req TaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("invalid request body: %v", err)
	}
	return req
}

func TestNew_MissingAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	_, err := New(Config{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNew_APIKeyFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "cvf-env")

	c, err := New(Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.config.APIKey != "cvf-env" {
		t.Errorf("APIKey = %q, want cvf-env", c.config.APIKey)
	}
	if c.config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", c.config.BaseURL)
	}
}

func TestNew_ConfigKeyWinsOverEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "cvf-env")

	c, err := New(Config{APIKey: "cvf-explicit"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.config.APIKey != "cvf-explicit" {
		t.Errorf("APIKey = %q, want cvf-explicit", c.config.APIKey)
	}
}

func TestNew_InvalidTimeout(t *testing.T) {
	t.Parallel()

	_, err := New(Config{APIKey: "cvf-test", Timeout: "soon"})
	if err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestCreateTask_Success(t *testing.T) {
	t.Parallel()

	tagID := int64(7)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer cvf-test" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}

		req := readTaskRequest(t, r)
		if req.ProjectID != 123 {
			t.Errorf("ProjectID = %d, want 123", req.ProjectID)
		}
		if req.MaxCredits != 50 {
			t.Errorf("MaxCredits = %d, want 50", req.MaxCredits)
		}
		if req.TagID == nil || *req.TagID != 7 {
			t.Errorf("TagID = %v, want 7", req.TagID)
		}
		if len(req.Attachments) != 1 || req.Attachments[0].Content != "x=1" {
			t.Errorf("Attachments = %+v", req.Attachments)
		}

		writeJSON(t, w, Task{ID: "task-1", Status: StatusPending})
	})

	c := newTestClient(t, handler)
	task, err := c.CreateTask(context.Background(), TaskRequest{
		ProjectID:  123,
		Prompt:     "Review this.",
		MaxCredits: 50,
		Mode:       ModeStandard,
		TagID:      &tagID,
		Attachments: []TaskAttachment{
			{FileName: "a.py", MimeType: "text/x-python", Content: "x=1"},
		},
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.ID != "task-1" || task.Status != StatusPending {
		t.Errorf("task = %+v", task)
	}
}

func TestCreateTask_MissingID(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]string{"status": "pending"})
	}))

	_, err := c.CreateTask(context.Background(), TaskRequest{ProjectID: 1, Prompt: "p", MaxCredits: 10})
	if err == nil {
		t.Fatal("expected error for response without task id")
	}
}

func TestGetTask_Success(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/tasks/task-9" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, Task{
			ID:     "task-9",
			Status: StatusCompleted,
			Result: &TaskResult{Message: "looks good"},
		})
	})

	c := newTestClient(t, handler)
	task, err := c.GetTask(context.Background(), "task-9")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if !task.Completed() {
		t.Errorf("Completed() = false, status %q", task.Status)
	}
	if task.Result == nil || task.Result.Message != "looks good" {
		t.Errorf("Result = %+v", task.Result)
	}
}

func TestGetTask_EmptyID(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("no request should be made")
	}))

	if _, err := c.GetTask(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty task id")
	}
}

func TestListTags(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tags" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(t, w, tagsResponse{Tags: []Tag{
			{ID: 1, Name: "Engineer", Multiplier: 2},
			{ID: 2, Name: "General Purpose", Multiplier: 1},
		}})
	})

	c := newTestClient(t, handler)
	tags, err := c.ListTags(context.Background())
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 2 || tags[0].Name != "Engineer" {
		t.Errorf("tags = %+v", tags)
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestClient_APIErrorSurfaced(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		writeJSON(t, w, map[string]any{
			"error": map[string]string{"code": "invalid_tag_id", "message": "tag 99 does not exist"},
		})
	})

	c := newTestClient(t, handler)
	_, err := c.CreateTask(context.Background(), TaskRequest{ProjectID: 1, Prompt: "p", MaxCredits: 10})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if !apiErr.ClientError() {
		t.Errorf("ClientError() = false for status %d", apiErr.StatusCode)
	}
	if apiErr.Code != "invalid_tag_id" {
		t.Errorf("Code = %q", apiErr.Code)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetTask(ctx, "task-1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
