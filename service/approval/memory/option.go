package memory

import (
	"log/slog"
	"time"

	"github.com/viant/consent/internal/clock"
	"github.com/viant/consent/metrics"
	"github.com/viant/consent/progress"
	approval "github.com/viant/consent/service/approval"
	"github.com/viant/consent/service/messaging"
)

type Option func(*service)

// WithRecorder attaches the observability collaborator notified on approval
// and cancellation.
func WithRecorder(recorder approval.Recorder) Option {
	return func(s *service) { s.recorder = recorder }
}

// WithQueue attaches the queue receiving approval events. Without a queue no
// events are published.
func WithQueue(q messaging.Queue[approval.Event]) Option {
	return func(s *service) { s.events = q }
}

// WithClock replaces the wall clock, typically with clock.Manual in tests.
func WithClock(c clock.Clock) Option {
	return func(s *service) { s.clock = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *service) { s.metrics = m }
}

func WithProgress(p *progress.Progress) Option {
	return func(s *service) { s.progress = p }
}

// WithRequestTimeout sets how long a shown action waits for the user before
// it is cancelled. Zero disables the per-request timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *service) { s.requestTimeout = d }
}

// WithExpiry sets the age after which Sweep reclaims a pending action.
func WithExpiry(d time.Duration) Option {
	return func(s *service) { s.expiry = d }
}
