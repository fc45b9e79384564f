package realtime

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/goliatone/go-formval/pkg/schema"
	"github.com/goliatone/go-formval/pkg/validation"
)

// Status names the controller's lifecycle phase for one field.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusValidating Status = "validating"
	StatusValid      Status = "valid"
	StatusError      Status = "error"
)

// State is the per-field validation state the controller owns. It is
// created at zero/idle when the field mounts and discarded on unmount or
// form reset.
type State struct {
	IsValidating bool
	Error        *validation.Error
	IsValid      bool
	IsDirty      bool
	IsTouched    bool
	Status       Status
}

// ValidateFunc performs the possibly-slow check for one value. It may
// consult other fields or remote-ish resources; the controller serializes
// commits, not calls, so implementations must be safe to run concurrently.
type ValidateFunc func(ctx context.Context, value any) *validation.Error

// Controller drives the real-time validation lifecycle for a single field:
// debounced change triggers, immediate blur triggers, touch and dirty
// tracking, and ordered commits of asynchronous results. It never touches
// sibling state.
//
// Ordering discipline: every validation request carries a monotonically
// increasing sequence number; a result commits only if its sequence is
// still the latest issued. A stale in-flight result for a superseded value
// is discarded, so the committed state always reflects the newest trigger.
type Controller struct {
	field    schema.FieldSchema
	validate ValidateFunc
	opts     options

	mu        sync.Mutex
	state     State
	timer     *time.Timer
	seq       uint64
	lastValue any
	hasValue  bool
}

// NewController wires a controller for one field. A nil validate falls back
// to the field's compiled validator.
func NewController(field schema.FieldSchema, validate ValidateFunc, options ...Option) *Controller {
	opts := defaultOptions()
	for _, opt := range options {
		opt(&opts)
	}

	if validate == nil {
		compiled := validation.Compile(field)
		validate = func(_ context.Context, value any) *validation.Error {
			return compiled.Parse(value)
		}
	}

	return &Controller{
		field:    field,
		validate: validate,
		opts:     opts,
		state:    State{Status: StatusIdle},
	}
}

// State returns a snapshot of the field's validation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnChange records a new value. When change validation is enabled and the
// field has been touched before, it (re)schedules a debounced validation;
// the previous pending timer, if any, is cancelled so only the most recent
// trigger can fire.
func (c *Controller) OnChange(value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastValue = value
	c.hasValue = true
	if !c.state.IsDirty && !reflect.DeepEqual(value, c.field.Default) {
		c.state.IsDirty = true
		c.notifyLocked()
	}

	if !c.opts.validateOnChange || !c.state.IsTouched {
		return
	}

	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.opts.debounce, c.timerFired)
}

// OnBlur marks the field touched and, when blur validation is enabled,
// starts a validation immediately with no debounce.
func (c *Controller) OnBlur() {
	c.mu.Lock()

	if !c.state.IsTouched {
		c.state.IsTouched = true
		c.notifyLocked()
	}

	if !c.opts.validateOnBlur {
		c.mu.Unlock()
		return
	}

	c.stopTimerLocked()
	c.startLocked()
	c.mu.Unlock()
}

// TriggerValidate starts a validation immediately, regardless of trigger
// configuration. Used for submit-time revalidation of a single field.
func (c *Controller) TriggerValidate() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.startLocked()
	c.mu.Unlock()
}

// Reset cancels any pending timer, invalidates in-flight results, and
// returns the state to zero/idle.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.seq++ // orphan anything still in flight
	c.lastValue = nil
	c.hasValue = false
	c.state = State{Status: StatusIdle}
	c.notifyLocked()
	c.mu.Unlock()
}

// Close cancels any pending timer. In-flight validations finish but their
// results are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.seq++
	c.mu.Unlock()
}

func (c *Controller) timerFired() {
	c.mu.Lock()
	c.timer = nil
	c.startLocked()
	c.mu.Unlock()
}

// startLocked issues a new validation request for the current value. The
// caller holds c.mu.
func (c *Controller) startLocked() {
	c.seq++
	seq := c.seq
	value := c.lastValue

	c.state.IsValidating = true
	c.state.Status = StatusValidating
	c.notifyLocked()

	go c.run(seq, value)
}

func (c *Controller) run(seq uint64, value any) {
	var verr *validation.Error
	if c.opts.visible == nil || c.opts.visible() {
		verr = c.validate(context.Background(), value)
	}
	c.commit(seq, verr)
}

func (c *Controller) commit(seq uint64, verr *validation.Error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.opts.logger.Debug("discarding stale validation result",
			"field", c.field.Name, "seq", seq, "latest", c.seq)
		return
	}

	c.state.IsValidating = false
	c.state.Error = verr
	c.state.IsValid = verr == nil
	if verr == nil {
		c.state.Status = StatusValid
	} else {
		c.state.Status = StatusError
	}
	c.notifyLocked()
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// notifyLocked delivers a state snapshot to the listener. Delivery is
// synchronous so observers see transitions in commit order; listeners must
// not call back into the controller.
func (c *Controller) notifyLocked() {
	if c.opts.onState == nil {
		return
	}
	c.opts.onState(c.state)
}
