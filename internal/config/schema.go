// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for the codevf CLI and server.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/codevf/codevf-go/pkg/codevf"
	"github.com/codevf/codevf-go/pkg/review"
)

// Environment variables consulted when the corresponding field is unset.
const (
	EnvBaseURL    = "CODEVF_BASE_URL"
	EnvProjectID  = "CODEVF_PROJECT_ID"
	EnvMaxCredits = "CODEVF_MAX_CREDITS"
)

// Config is the top-level configuration structure.
type Config struct {
	// APIKey authenticates against the CodeVF API. Usually left empty here
	// and supplied via CODEVF_API_KEY.
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint.
	BaseURL string `yaml:"base_url,omitempty"`

	// ProjectID is the default CodeVF project for task organisation.
	ProjectID int64 `yaml:"project_id,omitempty"`

	// MaxCredits is the default per-request credit ceiling.
	MaxCredits int `yaml:"max_credits,omitempty"`

	// Mode is the default service mode ("standard", "fast", ...).
	// Valid values are owned by the service; not checked locally.
	Mode string `yaml:"mode,omitempty"`

	// TagID is the default expertise tag.
	TagID *int64 `yaml:"tag_id,omitempty"`

	// PollInterval is the delay between task status checks, as a Go
	// duration string.
	PollInterval string `yaml:"poll_interval,omitempty"`

	// Timeout bounds a review round trip, as a Go duration string.
	// Any negative duration (e.g. "-1s") waits forever; empty derives a
	// default from the credit ceiling.
	Timeout string `yaml:"timeout,omitempty"`

	// Serve configures the MCP server surface.
	Serve ServeConfig `yaml:"serve,omitempty"`
}

// ServeConfig holds settings for `codevf serve`.
type ServeConfig struct {
	// Bind is the HTTP listen address. Empty selects the default.
	Bind string `yaml:"bind,omitempty"`

	// ProbeSchedule is a cron expression for the API reachability probe.
	// Empty disables the probe.
	ProbeSchedule string `yaml:"probe_schedule,omitempty"`

	// Tracing enables the OTLP trace exporter.
	Tracing bool `yaml:"tracing,omitempty"`
}

// DefaultBind is the default serve listen address.
const DefaultBind = "127.0.0.1:8799"

// defaults fills zero-valued fields, including the environment fallbacks
// the original CLI honours.
func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvBaseURL)
	}
	if c.ProjectID == 0 {
		if v, err := strconv.ParseInt(os.Getenv(EnvProjectID), 10, 64); err == nil {
			c.ProjectID = v
		}
	}
	if c.MaxCredits == 0 {
		if v, err := strconv.Atoi(os.Getenv(EnvMaxCredits)); err == nil {
			c.MaxCredits = v
		}
	}
	if c.Serve.Bind == "" {
		c.Serve.Bind = DefaultBind
	}
}

// ClientConfig converts to the API client configuration.
func (c *Config) ClientConfig() codevf.Config {
	return codevf.Config{
		APIKey:  c.APIKey,
		BaseURL: c.BaseURL,
	}
}

// ReviewOptions converts to review adapter defaults. Assumes Validate has
// accepted the duration fields.
func (c *Config) ReviewOptions() review.Options {
	opts := review.Options{
		ProjectID:  c.ProjectID,
		MaxCredits: c.MaxCredits,
		Mode:       codevf.Mode(c.Mode),
		TagID:      c.TagID,
	}
	if d, err := time.ParseDuration(c.PollInterval); err == nil && d != 0 {
		opts.PollInterval = d
	}
	if d, err := time.ParseDuration(c.Timeout); err == nil && d != 0 {
		opts.Timeout = d
	}
	return opts
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "codevf", "config.yaml"), nil
}
