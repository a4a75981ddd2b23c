package consent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/consent/internal/clock"
	"github.com/viant/consent/internal/idgen"
	"github.com/viant/consent/internal/logging"
	"github.com/viant/consent/metrics"
	"github.com/viant/consent/policy"
	"github.com/viant/consent/progress"
	"github.com/viant/consent/service/approval"
	"github.com/viant/consent/service/approval/memory"
	"github.com/viant/consent/service/display/headless"
	"github.com/viant/consent/service/display/terminal"
	"github.com/viant/consent/service/messaging"
	mmemory "github.com/viant/consent/service/messaging/memory"
	"github.com/viant/consent/service/session"
	"github.com/viant/consent/service/sweeper"
	"github.com/viant/consent/tracing"
)

// binder is implemented by surfaces that report answers back themselves.
type binder interface {
	Bind(resolver terminal.Resolver)
}

// starter is implemented by surfaces with their own input loop.
type starter interface {
	Start(ctx context.Context)
}

// Service is the user-confirmation gate: policy in front of the approval
// registry, with its display, session, sweep and event plumbing.
type Service struct {
	config     *Config
	registry   approval.Service
	display    approval.Display
	recorder   approval.Recorder
	session    *session.Manager
	progress   *progress.Progress
	onProgress func(progress.Counters)
	metrics    *metrics.Metrics
	registerer prometheus.Registerer
	sweeper    *sweeper.Sweeper
	policy     *policy.Policy
	events     messaging.Queue[approval.Event]
	listeners  []func(event *approval.Event)
	clock      clock.Clock
	logger     *slog.Logger
	logCloser  io.Closer
	tracing    bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	var registryOptions = []memory.Option{
		memory.WithClock(s.clock),
		memory.WithLogger(s.logger),
		memory.WithRecorder(s.recorder),
		memory.WithMetrics(s.metrics),
		memory.WithProgress(s.progress),
		memory.WithRequestTimeout(s.config.Approval.RequestTimeout),
		memory.WithExpiry(s.config.Approval.Expiry),
	}
	if s.events != nil {
		registryOptions = append(registryOptions, memory.WithQueue(s.events))
	}
	s.registry = memory.New(s.display, registryOptions...)
	if b, ok := s.display.(binder); ok {
		b.Bind(s.registry)
	}
	if s.config.Approval.SweepInterval > 0 {
		s.sweeper = sweeper.New(s.registry, s.config.Approval.SweepInterval, sweeper.WithLogger(s.logger))
	}
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	cfg := s.config
	if s.logger == nil {
		var w io.Writer
		s.logger, w = logging.New(cfg.Log)
		if closer, ok := w.(io.Closer); ok && cfg.Log.File != "" {
			s.logCloser = closer
		}
	}
	if s.clock == nil {
		s.clock = clock.System()
	}
	if s.display == nil {
		s.display = headless.New()
	}
	s.session = session.New(session.WithJournal(cfg.Session), session.WithClock(s.clock))
	if s.recorder == nil {
		s.recorder = s.session
	}
	s.progress = progress.New(s.onProgress)
	if s.registerer == nil && cfg.Metrics.Enabled {
		s.registerer = prometheus.DefaultRegisterer
	}
	if s.registerer != nil {
		s.metrics = metrics.New(s.registerer, cfg.Metrics.Namespace)
	}
	if cfg.Tracing.Enabled {
		if err := tracing.Init(cfg.Tracing.ServiceName, cfg.Tracing.ServiceVersion, cfg.Tracing.OutputFile); err != nil {
			s.logger.Warn("failed to initialise tracing", "error", err)
		} else {
			s.tracing = true
		}
	}
	if s.policy == nil {
		s.policy = policy.FromConfig(&cfg.Policy)
	}
	if cfg.Approval.EventBuffer > 0 {
		s.events = mmemory.NewQueue[approval.Event](mmemory.Config{
			QueueBuffer:  cfg.Approval.EventBuffer,
			DropWhenFull: true,
		})
	}
}

// New creates a Service with DefaultConfig unless WithConfig is supplied.
func New(options ...Option) *Service {
	ret := &Service{}
	ret.init(options)
	return ret
}

// NewFromConfig validates cfg and creates a Service from it; options are
// applied after the config.
func NewFromConfig(cfg *Config, options ...Option) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(append([]Option{WithConfig(cfg)}, options...)...), nil
}

// RequestApproval applies the policy (from ctx, else the service's) and
// either settles the action at once or hands it to the registry for the
// user to decide.
func (s *Service) RequestApproval(ctx context.Context, actionType string, params map[string]interface{}, explanation string, actionContext map[string]interface{}) (*approval.Result, error) {
	if actionType == "" {
		return nil, approval.ErrInvalidAction
	}
	p := policy.FromContext(ctx)
	if p == nil {
		p = s.policy
	}
	switch p.Decide(actionType) {
	case policy.VerdictDeny:
		id := idgen.NewAction()
		s.metrics.Bypassed(metrics.OutcomeDenied, actionType)
		s.progress.Update(progress.Delta{Requested: 1, Denied: 1})
		s.record(ctx, fmt.Sprintf("policy denied %s action", actionType), id, actionType, params, false)
		return approval.Failed(id, fmt.Errorf("%w: %s", approval.ErrDenied, actionType)), nil
	case policy.VerdictApprove:
		decision := &approval.Decision{
			ID:         idgen.NewAction(),
			Approved:   true,
			ActionType: actionType,
			Params:     params,
			DecidedAt:  s.clock.Now(),
		}
		s.metrics.Bypassed(metrics.OutcomeAutoApproved, actionType)
		s.progress.Update(progress.Delta{Requested: 1, Approved: 1})
		s.record(ctx, fmt.Sprintf("policy approved %s action", actionType), decision.ID, actionType, params, true)
		return approval.Approved(decision), nil
	}
	return s.registry.RequestApproval(ctx, actionType, params, explanation, actionContext)
}

// Approve resolves the pending action id, or the displayed one when id is
// empty.
func (s *Service) Approve(ctx context.Context, id string) (*approval.Decision, error) {
	return s.registry.Approve(ctx, id)
}

// Cancel rejects the pending action id, or the displayed one when id is
// empty, and hides the display.
func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.registry.Cancel(ctx, id)
}

func (s *Service) Sweep(ctx context.Context) int {
	return s.registry.Sweep(ctx)
}

// Pending returns the live actions, oldest first.
func (s *Service) Pending(ctx context.Context) ([]*approval.Action, error) {
	return s.registry.ListPending(ctx)
}

// Start launches the sweep schedule, the event listeners and the display's
// input loop when it has one. Calling it twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	if s.sweeper != nil {
		if err := s.sweeper.Start(runCtx); err != nil {
			cancel()
			return err
		}
	}
	if s.events != nil && len(s.listeners) > 0 {
		s.wg.Add(1)
		go s.dispatch(runCtx)
	}
	if st, ok := s.display.(starter); ok {
		st.Start(runCtx)
	}
	s.cancel = cancel
	s.started = true
	return nil
}

func (s *Service) dispatch(ctx context.Context) {
	defer s.wg.Done()
	for {
		msg, err := s.events.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("failed to consume approval event", "error", err)
			continue
		}
		event := msg.T()
		for _, listener := range s.listeners {
			listener(event)
		}
		if err = msg.Ack(); err != nil {
			s.logger.Debug("failed to ack approval event", "error", err)
		}
	}
}

// Shutdown stops background work and closes the session journal and log
// file. Pending actions are left to their callers.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	started := s.started
	s.started = false
	s.cancel = nil
	s.mu.Unlock()

	if started {
		if s.sweeper != nil {
			s.sweeper.Stop()
		}
		cancel()
		s.wg.Wait()
	}
	var errs []error
	if err := s.session.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.tracing {
		if err := tracing.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.logCloser != nil {
		if err := s.logCloser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) record(ctx context.Context, description, id, actionType string, params map[string]interface{}, approved bool) {
	if s.recorder == nil {
		return
	}
	metadata := map[string]interface{}{
		"actionId":     id,
		"actionType":   actionType,
		"actionParams": params,
		"approved":     approved,
		"reason":       "policy",
	}
	if err := s.recorder.Record(ctx, session.RoleSystem, description, metadata); err != nil {
		s.logger.Warn("failed to record policy decision", "actionType", actionType, "error", err)
	}
}

// Registry returns the underlying approval registry.
func (s *Service) Registry() approval.Service { return s.registry }

func (s *Service) Display() approval.Display { return s.display }

// Session returns the conversation history the registry records to.
func (s *Service) Session() *session.Manager { return s.session }

func (s *Service) Progress() *progress.Progress { return s.progress }

func (s *Service) Metrics() *metrics.Metrics { return s.metrics }

func (s *Service) Config() *Config { return s.config }
