package wikiz

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Option configures a Registry during creation.
type Option func(*config)

// config holds internal configuration for registry creation.
type config struct {
	clock  clockz.Clock // Time abstraction for deterministic testing
	logger *zap.Logger
}

// WithClock sets the clock used to measure invocation time.
// Default is clockz.RealClock.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the logger used to report contained hook failures.
// Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Callback contributes a content fragment for an event. self is the entity
// on which the hook was invoked, args are forwarded unchanged from the caller.
// The result is converted to text with Text.
type Callback func(self Hookable, args ...any) (any, error)

// Registry maps owner types to their per-event callback lists and
// holds the owner type hierarchy used by the lookup walk.
//
// Thread Safety:
// All methods are safe for concurrent use. Registration is expected to
// happen during initialization; invocation copies the callback list of
// each visited level under a read lock and runs callbacks outside of it,
// so a callback may itself invoke hooks on the same registry.
type Registry struct {
	clock      clockz.Clock
	logger     *zap.Logger
	mu         sync.RWMutex
	parents    map[TypeID]TypeID
	hooks      map[TypeID]map[Event][]Callback
	totalHooks int

	metrics Metrics
}

// New creates an empty registry. Only Root is known until DefineType is called.
//
// Example:
//
//	registry := wikiz.New(wikiz.WithLogger(logger))
//	registry.DefineType("page", wikiz.Root)
func New(opts ...Option) *Registry {
	cfg := config{
		clock:  clockz.RealClock,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Registry{
		clock:   cfg.clock,
		logger:  cfg.logger,
		parents: make(map[TypeID]TypeID),
		hooks:   make(map[TypeID]map[Event][]Callback),
	}
}

// Register appends callback to the list for (owner, event). Registration
// order is invocation order. Register never fails; a nil callback only
// creates the registration entry, like Declare.
func (r *Registry) Register(owner TypeID, event Event, callback Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := r.entry(owner)
	if callback == nil {
		if _, ok := events[event]; !ok {
			events[event] = []Callback{}
		}
		return
	}
	events[event] = append(events[event], callback)
	r.totalHooks++
}

// Declare records that owner explicitly handles event, without adding a
// callback. A declared owner stops the lookup walk even with no callbacks,
// hiding any callbacks registered on its ancestors.
func (r *Registry) Declare(owner TypeID, event Event) {
	r.Register(owner, event, nil)
}

// entry returns the event map for owner, creating it. Caller holds mu.
func (r *Registry) entry(owner TypeID) map[Event][]Callback {
	events, ok := r.hooks[owner]
	if !ok {
		events = make(map[Event][]Callback)
		r.hooks[owner] = events
	}
	return events
}

// level returns a copy of the callbacks for (owner, event) and whether an
// entry exists at all.
func (r *Registry) level(owner TypeID, event Event) ([]Callback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	original, ok := r.hooks[owner][event]
	if !ok {
		return nil, false
	}
	callbacks := make([]Callback, len(original))
	copy(callbacks, original)
	return callbacks, true
}

// Invoke runs the hooks for event on self and returns their results in order.
//
// The walk starts at self.HookType(). At each level every callback registered
// for that type runs with self and args. The walk stops at Root, at the first
// type with a registration entry for event, or at a type without a parent.
//
// A failing callback does not prevent the remaining callbacks of the level
// from running. Each failure is reported as a *CallbackError combined into
// the returned error; failed callbacks contribute no result.
func (r *Registry) Invoke(self Hookable, event Event, args ...any) ([]any, error) {
	if self == nil {
		return nil, ErrNilReceiver
	}

	start := r.clock.Now()
	atomic.AddInt64(&r.metrics.Invocations, 1)
	defer func() {
		elapsed := r.clock.Now().Sub(start)
		atomic.AddInt64((*int64)(&r.metrics.InvokeTime), int64(elapsed))
	}()

	var (
		results []any
		errs    []error
	)
	visited := make(map[TypeID]struct{})
	current := self.HookType()
	for {
		visited[current] = struct{}{}

		callbacks, declared := r.level(current, event)
		for i, callback := range callbacks {
			out, err := r.call(self, current, event, i, callback, args)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			results = append(results, out)
		}

		if current == Root || declared {
			break
		}
		parent, ok := r.Parent(current)
		if !ok {
			break
		}
		if _, seen := visited[parent]; seen {
			break
		}
		current = parent
	}

	return results, combine(errs)
}

// call executes one callback, converting panics into a CallbackError.
func (r *Registry) call(self Hookable, owner TypeID, event Event, index int, callback Callback, args []any) (out any, err error) {
	atomic.AddInt64(&r.metrics.CallbacksRun, 1)
	defer func() {
		if recovered := recover(); recovered != nil {
			out = nil
			err = newPanicError(owner, event, index, recovered)
		}
		if err != nil {
			atomic.AddInt64(&r.metrics.CallbackFailures, 1)
		}
	}()

	out, err = callback(self, args...)
	if err != nil {
		return nil, &CallbackError{Owner: owner, Event: event, Index: index, Err: err}
	}
	return out, nil
}

// InvokeSafe runs Invoke and concatenates the text of every result.
//
// InvokeSafe never fails. If Invoke reports any error, or converting a
// result to text panics, the whole call returns a single inline error
// marker holding the escaped message instead.
func (r *Registry) InvokeSafe(self Hookable, event Event, args ...any) (content string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			content = r.contain(self, event, newPanicError("", event, -1, recovered))
		}
	}()

	results, err := r.Invoke(self, event, args...)
	if err != nil {
		return r.contain(self, event, err)
	}

	var b strings.Builder
	for _, result := range results {
		b.WriteString(Text(result))
	}
	return b.String()
}

func (r *Registry) contain(self Hookable, event Event, err error) string {
	atomic.AddInt64(&r.metrics.ContainedFailures, 1)
	var owner TypeID
	if self != nil {
		owner = self.HookType()
	}
	r.logger.Warn("content hook failed",
		zap.String("type", string(owner)),
		zap.String("event", event),
		zap.Error(err))
	return ErrorMarker(err)
}

// HasHooks reports whether owner has a registration entry for event.
// Ancestors are not consulted.
func (r *Registry) HasHooks(owner TypeID, event Event) bool {
	_, ok := r.level(owner, event)
	return ok
}

// Metrics returns current registry metrics.
// Counter values are read atomically; registration counts are read under the lock.
func (r *Registry) Metrics() Metrics {
	r.mu.RLock()
	registeredHooks := int64(r.totalHooks)
	definedTypes := int64(len(r.parents))
	r.mu.RUnlock()

	return Metrics{
		Invocations:       atomic.LoadInt64(&r.metrics.Invocations),
		CallbacksRun:      atomic.LoadInt64(&r.metrics.CallbacksRun),
		CallbackFailures:  atomic.LoadInt64(&r.metrics.CallbackFailures),
		ContainedFailures: atomic.LoadInt64(&r.metrics.ContainedFailures),
		RegisteredHooks:   registeredHooks,
		DefinedTypes:      definedTypes,
		InvokeTime:        readDuration(&r.metrics.InvokeTime),
	}
}
