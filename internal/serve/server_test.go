package serve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codevf/codevf-go/internal/config"
	"github.com/codevf/codevf-go/pkg/codevf"
	"github.com/codevf/codevf-go/pkg/review"
)

type fakePinger struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakePinger) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

type fakeTasks struct{}

func (fakeTasks) CreateTask(context.Context, codevf.TaskRequest) (*codevf.Task, error) {
	return &codevf.Task{ID: "task-1", Status: codevf.StatusPending}, nil
}

func (fakeTasks) GetTask(_ context.Context, id string) (*codevf.Task, error) {
	return &codevf.Task{
		ID:     id,
		Status: codevf.StatusCompleted,
		Result: &codevf.TaskResult{Message: "done"},
	}, nil
}

func newTestServer(t *testing.T, pinger Pinger) *Server {
	t.Helper()
	reviewer, err := review.New(fakeTasks{}, review.Options{
		ProjectID:    1,
		PollInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("review.New failed: %v", err)
	}
	return New(config.ServeConfig{Bind: "127.0.0.1:0"}, reviewer, pinger, nil, "test")
}

func TestHealth_OK(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)
	s.startedAt = time.Now()

	rec := httptest.NewRecorder()
	s.handleHealth()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q", resp.Status)
	}
}

func TestHealth_DegradedOnProbeFailure(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)
	s.startedAt = time.Now()
	s.probe = NewProbe("* * * * *", &fakePinger{}, s.metrics, nil)
	s.probe.record(errors.New("connection refused"))

	rec := httptest.NewRecorder()
	s.handleHealth()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Status != "degraded" || resp.APIError == "" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)
	s.metrics.ObserveReview("ok", time.Second)

	srv := httptest.NewServer(s.buildRouter())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestInstrument_RecordsOutcomes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	ok := func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("fine"), nil
	}
	rejected := func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("bad input"), nil
	}
	failed := func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("boom")
	}

	var req mcp.CallToolRequest

	if _, err := s.instrument(ok)(context.Background(), req); err != nil {
		t.Errorf("ok handler: %v", err)
	}
	result, err := s.instrument(rejected)(context.Background(), req)
	if err != nil || !result.IsError {
		t.Errorf("rejected handler: result=%+v err=%v", result, err)
	}
	if _, err := s.instrument(failed)(context.Background(), req); err == nil {
		t.Error("failed handler: error should propagate")
	}
}

func TestProbe_TickRecordsResult(t *testing.T) {
	t.Parallel()

	pinger := &fakePinger{}
	p := NewProbe("* * * * *", pinger, NewMetrics(), nil)

	p.tick()

	at, err := p.Last()
	if at.IsZero() {
		t.Fatal("Last() time is zero after tick")
	}
	if err != nil {
		t.Errorf("Last() err = %v", err)
	}
	if pinger.calls != 1 {
		t.Errorf("calls = %d", pinger.calls)
	}

	pinger.mu.Lock()
	pinger.err = errors.New("down")
	pinger.mu.Unlock()

	p.tick()
	if _, err := p.Last(); err == nil {
		t.Error("Last() err = nil after failing tick")
	}
}

func TestProbe_InvalidSchedule(t *testing.T) {
	t.Parallel()

	p := NewProbe("whenever", &fakePinger{}, nil, nil)
	if err := p.Start(); err == nil {
		p.Stop()
		t.Fatal("expected error for invalid schedule")
	}
}

func TestServer_StartStop(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakePinger{})
	s.cfg.ProbeSchedule = "* * * * *"

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}
