package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/viant/consent/internal/clock"
	"github.com/viant/consent/internal/idgen"
	"github.com/viant/consent/metrics"
	"github.com/viant/consent/progress"
	approval "github.com/viant/consent/service/approval"
	"github.com/viant/consent/service/dao"
	"github.com/viant/consent/service/dao/store"
	"github.com/viant/consent/service/messaging"
	"github.com/viant/consent/tracing"
)

const (
	// DefaultRequestTimeout bounds how long a shown action waits for the user.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultExpiry is the age after which Sweep reclaims an action.
	DefaultExpiry = 5 * time.Minute

	// ParameterType filters ListPending by action type.
	ParameterType = "type"

	recordKind = "system"
)

type service struct {
	entries *store.MemoryStore[string, entry]

	display  approval.Display
	recorder approval.Recorder
	// fan-out queue, optional
	events messaging.Queue[approval.Event]

	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
	progress *progress.Progress

	requestTimeout time.Duration
	expiry         time.Duration
}

func matchEntry(e *entry, p *dao.Parameter) bool {
	switch p.Name {
	case ParameterType:
		return p.Matches(e.action.Type)
	}
	return true
}

// New creates an in-memory approval registry driving display. A nil display
// is replaced by one that shows nothing.
func New(display approval.Display, options ...Option) approval.Service {
	if display == nil {
		display = noDisplay{}
	}
	ret := &service{
		entries:        store.NewMemoryStore[string, entry](entryKey, store.WithMatcher[string, entry](matchEntry)),
		display:        display,
		clock:          clock.System(),
		requestTimeout: DefaultRequestTimeout,
		expiry:         DefaultExpiry,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}

func (s *service) RequestApproval(ctx context.Context, actionType string, params map[string]interface{}, explanation string, actionContext map[string]interface{}) (_ *approval.Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "approval.request")
	span.WithAttributes(map[string]string{"action.type": actionType})
	defer func() { tracing.EndSpan(span, err) }()

	if actionType == "" {
		return nil, approval.ErrInvalidAction
	}
	action := &approval.Action{
		Type:        actionType,
		Params:      params,
		Explanation: explanation,
		Context:     actionContext,
		CreatedAt:   s.clock.Now(),
	}
	var result *approval.Result
	var e *entry
	for {
		action.ID = idgen.NewAction()
		candidate := &entry{action: action}
		result, candidate.settler = approval.NewResult(action.ID)
		inserted, err := s.entries.Insert(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if inserted {
			e = candidate
			break
		}
	}
	id := action.ID
	span.WithAttributes(map[string]string{"action.id": id})
	s.metrics.Requested(actionType)
	s.progress.Update(progress.Delta{Requested: 1, Pending: 1})

	if err = s.display.Show(ctx, id, approval.Render(action)); err != nil {
		if taken, _ := s.entries.Take(ctx, id); taken != nil {
			taken.close()
			s.metrics.Withdrawn()
			s.progress.Update(progress.Delta{Requested: -1, Pending: -1})
		}
		return nil, fmt.Errorf("failed to show action %s: %w", id, err)
	}
	if s.requestTimeout > 0 {
		e.arm(s.clock, s.requestTimeout, func() { s.expire(id) })
	}
	s.publish(ctx, approval.TopicRequestCreated, action.Clone())
	s.logger.Debug("approval requested", "id", id, "actionType", actionType)
	return result, nil
}

func (s *service) Approve(ctx context.Context, id string) (_ *approval.Decision, err error) {
	ctx, span := tracing.StartSpan(ctx, "approval.approve")
	defer func() { tracing.EndSpan(span, err) }()

	if id == "" {
		id = s.display.Current()
	}
	span.WithAttributes(map[string]string{"action.id": id})
	e := s.take(ctx, id)
	if e == nil {
		s.metrics.Missing()
		s.logger.Warn("approval: no pending action to approve", "id", id)
		return nil, fmt.Errorf("approve %q: %w", id, approval.ErrNotFound)
	}
	action := e.action
	decision := &approval.Decision{
		ID:         action.ID,
		Approved:   true,
		ActionType: action.Type,
		Params:     action.Params,
		DecidedAt:  s.clock.Now(),
	}
	e.settler.Resolve(decision)
	s.metrics.Settled(metrics.OutcomeApproved, action.Type, action.Age(decision.DecidedAt))
	s.progress.Update(progress.Delta{Pending: -1, Approved: 1})
	s.record(ctx, action, true, fmt.Sprintf("user approved %s action", action.Type), nil)
	s.publish(ctx, approval.TopicDecisionCreated, decision)
	s.hide(ctx)
	return decision, nil
}

func (s *service) Cancel(ctx context.Context, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "approval.cancel")
	defer func() { tracing.EndSpan(span, err) }()

	explicit := id != ""
	if !explicit {
		id = s.display.Current()
	}
	span.WithAttributes(map[string]string{"action.id": id})
	if id != "" {
		if e := s.take(ctx, id); e != nil {
			action := e.action
			e.settler.Reject(approval.ErrUserCancelled)
			s.metrics.Settled(metrics.OutcomeCancelled, action.Type, action.Age(s.clock.Now()))
			s.progress.Update(progress.Delta{Pending: -1, Cancelled: 1})
			s.record(ctx, action, false, fmt.Sprintf("user cancelled %s action", action.Type), nil)
			s.publish(ctx, approval.TopicRequestCancelled, action.Clone())
		} else if explicit {
			err = fmt.Errorf("cancel %q: %w", id, approval.ErrNotFound)
		} else {
			s.logger.Debug("approval: displayed action is no longer pending", "id", id)
		}
	}
	s.hide(ctx)
	if err != nil {
		s.metrics.Missing()
		s.logger.Warn("approval: no pending action to cancel", "id", id)
	}
	return err
}

func (s *service) Sweep(ctx context.Context) int {
	ctx, span := tracing.StartSpan(ctx, "approval.sweep")
	defer tracing.EndSpan(span, nil)

	entries, err := s.entries.List(ctx)
	if err != nil {
		s.logger.Error("approval: failed to list pending actions", "error", err)
		return 0
	}
	now := s.clock.Now()
	reclaimed := 0
	for _, candidate := range entries {
		age := candidate.action.Age(now)
		if age <= s.expiry {
			continue
		}
		e := s.take(ctx, candidate.action.ID)
		if e == nil {
			continue
		}
		action := e.action
		e.settler.Reject(fmt.Errorf("%w: pending for %s", approval.ErrExpired, age.Round(time.Second)))
		s.metrics.Settled(metrics.OutcomeExpired, action.Type, age)
		s.progress.Update(progress.Delta{Pending: -1, Expired: 1})
		s.publish(ctx, approval.TopicRequestExpired, action.Clone())
		reclaimed++
	}
	if reclaimed > 0 {
		s.logger.Info("approval: expired stale actions", "count", reclaimed)
	}
	span.WithAttributes(map[string]string{"reclaimed": fmt.Sprint(reclaimed)})
	return reclaimed
}

func (s *service) ListPending(ctx context.Context, parameters ...*dao.Parameter) ([]*approval.Action, error) {
	entries, err := s.entries.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	ret := make([]*approval.Action, 0, len(entries))
	for _, e := range entries {
		ret = append(ret, e.action.Clone())
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].CreatedAt.Before(ret[j].CreatedAt)
	})
	return ret, nil
}

func (s *service) Queue() messaging.Queue[approval.Event] { return s.events }

// expire runs on the request timer; it is a no-op once the action is settled.
func (s *service) expire(id string) {
	ctx := context.Background()
	e := s.take(ctx, id)
	if e == nil {
		return
	}
	action := e.action
	e.settler.Reject(fmt.Errorf("%w: no response within %s", approval.ErrUserCancelled, s.requestTimeout))
	s.metrics.Settled(metrics.OutcomeTimedOut, action.Type, action.Age(s.clock.Now()))
	s.progress.Update(progress.Delta{Pending: -1, TimedOut: 1})
	s.record(ctx, action, false, fmt.Sprintf("%s action timed out", action.Type), map[string]interface{}{"reason": "timeout"})
	s.publish(ctx, approval.TopicRequestCancelled, action.Clone())
	if s.display.Current() == id {
		s.hide(ctx)
	}
	s.logger.Info("approval: request timed out", "id", id, "actionType", action.Type)
}

// take atomically removes a live entry and disarms its timer.
func (s *service) take(ctx context.Context, id string) *entry {
	if id == "" {
		return nil
	}
	e, err := s.entries.Take(ctx, id)
	if err != nil {
		if !errors.Is(err, dao.ErrNotFound) {
			s.logger.Error("approval: failed to take action", "id", id, "error", err)
		}
		return nil
	}
	e.close()
	return e
}

func (s *service) record(ctx context.Context, action *approval.Action, approved bool, description string, extra map[string]interface{}) {
	if s.recorder == nil {
		return
	}
	metadata := map[string]interface{}{
		"actionId":     action.ID,
		"actionType":   action.Type,
		"actionParams": action.Params,
		"approved":     approved,
	}
	for k, v := range extra {
		metadata[k] = v
	}
	if err := s.recorder.Record(ctx, recordKind, description, metadata); err != nil {
		s.logger.Warn("approval: failed to record outcome", "id", action.ID, "error", err)
	}
}

func (s *service) publish(ctx context.Context, topic string, data interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, &approval.Event{Topic: topic, Data: data}); err != nil {
		s.logger.Debug("approval: event dropped", "topic", topic, "error", err)
	}
}

func (s *service) hide(ctx context.Context) {
	if err := s.display.Hide(ctx); err != nil {
		s.logger.Warn("approval: failed to hide display", "error", err)
	}
}

type noDisplay struct{}

func (noDisplay) Show(context.Context, string, *approval.View) error { return nil }
func (noDisplay) Hide(context.Context) error                         { return nil }
func (noDisplay) Current() string                                    { return "" }

var _ approval.Service = (*service)(nil)
