package codevf

import (
	"fmt"
	"time"
)

// DefaultBaseURL is the production CodeVF API endpoint.
const DefaultBaseURL = "https://api.codevf.com/v1"

// EnvAPIKey is the environment variable consulted when Config.APIKey is empty.
const EnvAPIKey = "CODEVF_API_KEY"

// Config holds the client configuration.
type Config struct {
	// APIKey authenticates requests. Falls back to CODEVF_API_KEY when empty.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the API endpoint, e.g. for a staging environment.
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-HTTP-request timeout as a Go duration string.
	// This bounds a single API call, not a whole review round trip.
	Timeout string `yaml:"timeout"`
}

// defaults fills zero-valued fields with sensible defaults.
func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

// parsedTimeout returns the timeout as a time.Duration.
// Assumes the value has been validated by validateTimeout.
func (c *Config) parsedTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// validateTimeout checks that the timeout string is a valid Go duration.
func (c *Config) validateTimeout() error {
	_, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("codevf: invalid timeout %q: %w", c.Timeout, err)
	}
	return nil
}
