package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks the structural validity of a Config. Value errors are
// collected so a broken file reports everything at once. It deliberately
// does not check remote-owned enumerations (mode names, tag IDs); the
// service rejects those itself.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.ProjectID < 0 {
		errs = append(errs, fmt.Errorf("config: project_id must not be negative, got %d", cfg.ProjectID))
	}
	if cfg.MaxCredits < 0 {
		errs = append(errs, fmt.Errorf("config: max_credits must not be negative, got %d", cfg.MaxCredits))
	}
	if cfg.TagID != nil && *cfg.TagID <= 0 {
		errs = append(errs, fmt.Errorf("config: tag_id must be positive, got %d", *cfg.TagID))
	}

	if cfg.PollInterval != "" {
		if d, err := time.ParseDuration(cfg.PollInterval); err != nil {
			errs = append(errs, fmt.Errorf("config: invalid poll_interval %q: %w", cfg.PollInterval, err))
		} else if d <= 0 {
			errs = append(errs, fmt.Errorf("config: poll_interval must be greater than zero, got %s", d))
		}
	}

	// Negative timeouts are valid: they disable the completion bound.
	if cfg.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("config: invalid timeout %q: %w", cfg.Timeout, err))
		}
	}

	errs = append(errs, validateServe(cfg.Serve)...)

	return errors.Join(errs...)
}

func validateServe(sc ServeConfig) []error {
	var errs []error

	if sc.Bind != "" {
		if _, err := net.ResolveTCPAddr("tcp", sc.Bind); err != nil {
			errs = append(errs, fmt.Errorf("config: invalid serve.bind address %q", sc.Bind))
		}
	}

	if sc.ProbeSchedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(sc.ProbeSchedule); err != nil {
			errs = append(errs, fmt.Errorf("config: invalid serve.probe_schedule %q: %w", sc.ProbeSchedule, err))
		}
	}

	return errs
}
