package consent

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/consent/internal/clock"
	"github.com/viant/consent/policy"
	"github.com/viant/consent/progress"
	"github.com/viant/consent/service/approval"
	"github.com/viant/consent/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures Service
type Option func(s *Service)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg *Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithDisplay sets the confirmation surface; the default is an in-memory
// headless surface. A surface with a Bind method gets the registry bound.
func WithDisplay(display approval.Display) Option {
	return func(s *Service) { s.display = display }
}

// WithRecorder replaces the session as the observability collaborator.
func WithRecorder(recorder approval.Recorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger overrides the logger built from Config.Log.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetricsRegisterer enables metrics registered with reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(s *Service) { s.registerer = reg }
}

// WithEventListener registers a callback receiving every approval event once
// the service is started.
func WithEventListener(listener func(event *approval.Event)) Option {
	return func(s *Service) { s.listeners = append(s.listeners, listener) }
}

// WithPolicy overrides Config.Policy.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithProgressListener receives counter snapshots after every change.
func WithProgressListener(fn func(counters progress.Counters)) Option {
	return func(s *Service) { s.onProgress = fn }
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times; the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. The function is
// safe to call multiple times; the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
