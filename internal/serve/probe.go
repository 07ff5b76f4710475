package serve

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// probeTimeout bounds a single reachability check.
const probeTimeout = 10 * time.Second

// Pinger is the slice of the API client the probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe periodically checks CodeVF API reachability on a cron schedule and
// feeds the /health endpoint and metrics. A tick that fires while the
// previous one is still running is skipped.
type Probe struct {
	schedule string
	pinger   Pinger
	metrics  *Metrics
	logger   *slog.Logger

	cron    *cron.Cron
	running sync.Mutex

	mu      sync.Mutex
	lastAt  time.Time
	lastErr error
}

// NewProbe creates a probe. Start must be called to begin scheduling.
func NewProbe(schedule string, pinger Pinger, metrics *Metrics, logger *slog.Logger) *Probe {
	if logger == nil {
		logger = slog.Default()
	}
	return &Probe{
		schedule: schedule,
		pinger:   pinger,
		metrics:  metrics,
		logger:   logger,
	}
}

// Start schedules the probe and runs one check immediately so /health has a
// result before the first tick.
func (p *Probe) Start() error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	p.cron = cron.New(cron.WithParser(parser))

	if _, err := p.cron.AddFunc(p.schedule, p.tick); err != nil {
		return err
	}

	go p.tick()
	p.cron.Start()
	return nil
}

// Stop halts scheduling. A running check is not interrupted.
func (p *Probe) Stop() {
	if p.cron != nil {
		p.cron.Stop()
	}
}

func (p *Probe) tick() {
	if !p.running.TryLock() {
		p.logger.Warn("probe still running, skipping tick")
		return
	}
	defer p.running.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	err := p.pinger.Ping(ctx)
	p.record(err)

	if err != nil {
		p.logger.Warn("API probe failed", "error", err)
	} else {
		p.logger.Debug("API probe ok")
	}
}

func (p *Probe) record(err error) {
	p.mu.Lock()
	p.lastAt = time.Now()
	p.lastErr = err
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.ObserveProbe(err)
	}
}

// Last returns the time and result of the most recent check. The zero time
// means no check has completed yet.
func (p *Probe) Last() (time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastAt, p.lastErr
}
