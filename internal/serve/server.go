// Package serve runs the MCP surface: the codevf_review tool over stdio or
// streamable HTTP, plus health, metrics, and a periodic API reachability
// probe when running as an HTTP daemon.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/codevf/codevf-go/internal/config"
	"github.com/codevf/codevf-go/pkg/review"
	"github.com/codevf/codevf-go/pkg/tool"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// tracerName identifies spans emitted by this package.
const tracerName = "github.com/codevf/codevf-go/internal/serve"

// Server hosts the codevf_review tool.
type Server struct {
	cfg      config.ServeConfig
	reviewer *review.Reviewer
	pinger   Pinger
	logger   *slog.Logger
	version  string

	metrics   *Metrics
	probe     *Probe
	server    *http.Server
	startedAt time.Time

	tracerShutdown func(context.Context) error
}

// New creates a Server. pinger may be nil to disable the reachability probe
// regardless of configuration.
func New(cfg config.ServeConfig, reviewer *review.Reviewer, pinger Pinger, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		reviewer: reviewer,
		pinger:   pinger,
		logger:   logger,
		version:  version,
		metrics:  NewMetrics(),
	}
}

// mcpServer builds the MCP server with the review tool registered.
func (s *Server) mcpServer() *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer("codevf", s.version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	srv.AddTool(tool.Definition(), s.instrument(tool.Handler(s.reviewer)))
	return srv
}

// instrument wraps the tool handler with metrics and a trace span.
func (s *Server) instrument(next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	tracer := otel.Tracer(tracerName)

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := tracer.Start(ctx, "codevf.review",
			trace.WithAttributes(attribute.String("mcp.tool", tool.Name)),
		)
		defer span.End()

		start := time.Now()
		result, err := next(ctx, request)

		status := "ok"
		switch {
		case err != nil:
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case result != nil && result.IsError:
			status = "rejected"
		}
		s.metrics.ObserveReview(status, time.Since(start))

		return result, err
	}
}

// ServeStdio runs the MCP server over stdin/stdout until EOF or ctx
// cancellation. Used when an agent host spawns codevf as a subprocess.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdio := mcpserver.NewStdioServer(s.mcpServer())
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// Start begins serving HTTP on the configured bind address. It returns once
// the listener is up; serving continues in the background until Stop.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Tracing {
		shutdown, err := setupTracing(ctx, s.version)
		if err != nil {
			return err
		}
		s.tracerShutdown = shutdown
	}

	if s.cfg.ProbeSchedule != "" && s.pinger != nil {
		s.probe = NewProbe(s.cfg.ProbeSchedule, s.pinger, s.metrics, s.logger)
		if err := s.probe.Start(); err != nil {
			return err
		}
	}

	s.startedAt = time.Now()
	s.server = &http.Server{
		Addr:        s.cfg.Bind,
		Handler:     s.buildRouter(),
		ReadTimeout: 30 * time.Second,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Bind)
	if err != nil {
		return errors.New("serve: listen failed: " + err.Error())
	}

	go func() {
		s.logger.Info("serving MCP over HTTP", "addr", s.cfg.Bind)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.probe != nil {
		s.probe.Stop()
	}

	var errs []error
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		errs = append(errs, s.server.Shutdown(shutdownCtx))
	}
	if s.tracerShutdown != nil {
		errs = append(errs, s.tracerShutdown(ctx))
	}
	return errors.Join(errs...)
}

// buildRouter constructs the chi mux with all routes wired.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth())
	r.Handle("/metrics", s.metrics.Handler())
	r.Mount("/mcp", mcpserver.NewStreamableHTTPServer(s.mcpServer()))

	return r
}

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status    string `json:"status"` // "ok" or "degraded"
	Uptime    string `json:"uptime"`
	LastProbe string `json:"last_probe,omitempty"`
	APIError  string `json:"api_error,omitempty"`
}

// handleHealth returns an http.HandlerFunc for GET /health.
// Returns 200 when the API probe is passing (or disabled), 503 otherwise.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{
			Status: "ok",
			Uptime: time.Since(s.startedAt).Round(time.Second).String(),
		}

		if s.probe != nil {
			if at, err := s.probe.Last(); !at.IsZero() {
				resp.LastProbe = at.UTC().Format(time.RFC3339)
				if err != nil {
					resp.Status = "degraded"
					resp.APIError = err.Error()
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status == "degraded" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
