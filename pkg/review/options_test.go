package review

import (
	"testing"
	"time"

	"github.com/codevf/codevf-go/pkg/codevf"
)

func TestOptionsWithDefaults(t *testing.T) {
	t.Parallel()

	opts := Options{}.withDefaults()
	if opts.MaxCredits != DefaultMaxCredits {
		t.Errorf("MaxCredits = %d, want %d", opts.MaxCredits, DefaultMaxCredits)
	}
	if opts.Mode != codevf.ModeStandard {
		t.Errorf("Mode = %q, want standard", opts.Mode)
	}
	if opts.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %s", opts.PollInterval)
	}
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	if err := (Options{MaxCredits: -1, PollInterval: time.Second}).validate(); err != ErrMaxCredits {
		t.Errorf("got %v, want ErrMaxCredits", err)
	}
	if err := (Options{MaxCredits: 10, PollInterval: -time.Second}).validate(); err != ErrPollInterval {
		t.Errorf("got %v, want ErrPollInterval", err)
	}
	if err := (Options{MaxCredits: 10, PollInterval: time.Second}).validate(); err != nil {
		t.Errorf("got %v, want nil", err)
	}
}

func TestMerge_OverridesWin(t *testing.T) {
	t.Parallel()

	tag := int64(3)
	defaults := Options{
		ProjectID:  123,
		MaxCredits: 50,
		Mode:       codevf.ModeFast,
		Timeout:    time.Minute,
	}

	merged := merge(defaults, Overrides{MaxCredits: 10})
	if merged.MaxCredits != 10 {
		t.Errorf("MaxCredits = %d, want 10", merged.MaxCredits)
	}
	if merged.Mode != codevf.ModeFast {
		t.Errorf("Mode = %q, want fast (untouched default)", merged.Mode)
	}
	if merged.ProjectID != 123 {
		t.Errorf("ProjectID = %d, want 123", merged.ProjectID)
	}

	merged = merge(defaults, Overrides{
		ProjectID: 456,
		Mode:      codevf.ModeStandard,
		TagID:     &tag,
		Timeout:   NoTimeout,
	})
	if merged.ProjectID != 456 {
		t.Errorf("ProjectID = %d, want 456", merged.ProjectID)
	}
	if merged.Mode != codevf.ModeStandard {
		t.Errorf("Mode = %q", merged.Mode)
	}
	if merged.TagID == nil || *merged.TagID != 3 {
		t.Errorf("TagID = %v", merged.TagID)
	}
	if merged.Timeout != NoTimeout {
		t.Errorf("Timeout = %s", merged.Timeout)
	}
}

func TestMerge_ZeroOverridesKeepDefaults(t *testing.T) {
	t.Parallel()

	tag := int64(9)
	defaults := Options{ProjectID: 1, MaxCredits: 20, Mode: codevf.ModeFast, TagID: &tag}

	merged := merge(defaults, Overrides{})
	if merged.ProjectID != 1 || merged.MaxCredits != 20 || merged.Mode != codevf.ModeFast {
		t.Errorf("merged = %+v, want defaults unchanged", merged)
	}
	if merged.TagID != &tag {
		t.Errorf("TagID = %v, want default pointer kept", merged.TagID)
	}
}

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	// Derived: 2s per credit plus a 5 minute buffer.
	d, ok := resolveTimeout(0, 50)
	if !ok || d != 100*time.Second+5*time.Minute {
		t.Errorf("derived timeout = %s ok=%v", d, ok)
	}

	d, ok = resolveTimeout(time.Minute, 50)
	if !ok || d != time.Minute {
		t.Errorf("explicit timeout = %s ok=%v", d, ok)
	}

	if _, ok := resolveTimeout(NoTimeout, 50); ok {
		t.Error("NoTimeout should report unbounded")
	}
}
