// Package sweeper periodically reclaims stale approval requests.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultInterval matches the default approval expiry.
const DefaultInterval = 5 * time.Minute

// Target is the component being swept, typically approval.Service.
type Target interface {
	Sweep(ctx context.Context) int
}

// Sweeper runs Target.Sweep on a cron "@every" schedule.
type Sweeper struct {
	target   Target
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	swept   int
	running bool
}

type Option func(*Sweeper)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) { s.logger = logger }
}

// New creates a sweeper; a non-positive interval falls back to DefaultInterval.
func New(target Target, interval time.Duration, options ...Option) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ret := &Sweeper{target: target, interval: interval}
	for _, option := range options {
		option(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}

// Start schedules the sweep. The job context is derived from ctx and is
// cancelled by Stop.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	jobCtx, cancel := context.WithCancel(ctx)
	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() { s.Run(jobCtx) }); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}
	c.Start()
	s.cron = c
	s.cancel = cancel
	s.running = true
	s.logger.Debug("sweeper started", "interval", s.interval)
	return nil
}

// Run performs one sweep and returns the number of reclaimed requests.
func (s *Sweeper) Run(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	count := s.target.Sweep(ctx)
	s.mu.Lock()
	s.swept += count
	s.mu.Unlock()
	if count > 0 {
		s.logger.Info("sweeper reclaimed expired requests", "count", count)
	}
	return count
}

// Swept returns the total number of requests reclaimed so far.
func (s *Sweeper) Swept() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swept
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	c, cancel := s.cron, s.cancel
	s.running = false
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	<-c.Stop().Done()
	cancel()
}
