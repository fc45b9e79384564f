package realtime

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-formval/pkg/schema"
	"github.com/goliatone/go-formval/pkg/validation"
)

func usernameField() schema.FieldSchema {
	return schema.FieldSchema{
		Name:       "username",
		Label:      "Username",
		Type:       schema.FieldTypeText,
		Validation: schema.StringRule{Required: true, MinLength: intptr(3)},
	}
}

func intptr(v int) *int { return &v }

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not reached within %v", timeout)
}

func TestDebounceCollapsesRapidChanges(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	var lastValue atomic.Value

	validate := func(_ context.Context, value any) *validation.Error {
		calls.Add(1)
		lastValue.Store(value)
		return nil
	}

	c := NewController(usernameField(), validate,
		WithDebounce(20*time.Millisecond),
		WithValidateOnBlur(false),
	)
	defer c.Close()

	c.OnBlur() // touch without triggering
	c.OnChange("g")
	c.OnChange("go")
	c.OnChange("gopher")

	waitFor(t, time.Second, func() bool { return calls.Load() == 1 })
	time.Sleep(40 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one validation call, got %d", got)
	}
	if got := lastValue.Load(); got != "gopher" {
		t.Fatalf("validation used %v, want the final value", got)
	}
	if state := c.State(); state.Status != StatusValid || !state.IsValid {
		t.Fatalf("unexpected final state: %+v", state)
	}
}

func TestChangeTriggersRequireTouch(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	validate := func(_ context.Context, _ any) *validation.Error {
		calls.Add(1)
		return nil
	}

	c := NewController(usernameField(), validate,
		WithDebounce(5*time.Millisecond),
		WithValidateOnBlur(false),
	)
	defer c.Close()

	c.OnChange("gopher")
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("untouched field must not validate on change")
	}
	if state := c.State(); state.Status != StatusIdle {
		t.Fatalf("state should stay idle, got %+v", state)
	}
}

func TestBlurValidatesImmediately(t *testing.T) {
	t.Parallel()

	c := NewController(usernameField(), nil, WithValidateOnChange(false))
	defer c.Close()

	c.OnChange("ab")
	c.OnBlur()

	waitFor(t, time.Second, func() bool { return c.State().Status == StatusError })

	state := c.State()
	if !state.IsTouched {
		t.Fatalf("blur should mark the field touched")
	}
	if state.Error == nil || state.Error.Type != validation.ErrorMin {
		t.Fatalf("expected min error, got %+v", state.Error)
	}
}

func TestStaleResultsAreDiscarded(t *testing.T) {
	t.Parallel()

	// The first request is slow and would report an error; the second is
	// fast and passes. The slow result lands after the fast one and must
	// not overwrite it.
	release := make(chan struct{})
	validate := func(_ context.Context, value any) *validation.Error {
		if value == "slow" {
			<-release
			return &validation.Error{Field: "username", Message: "stale", Type: validation.ErrorCustom}
		}
		return nil
	}

	c := NewController(usernameField(), validate, WithValidateOnBlur(true))
	defer c.Close()

	c.OnChange("slow")
	c.OnBlur()
	c.OnChange("fast")
	c.OnBlur()

	waitFor(t, time.Second, func() bool { return c.State().Status == StatusValid })
	close(release)
	time.Sleep(20 * time.Millisecond)

	state := c.State()
	if state.Status != StatusValid || state.Error != nil {
		t.Fatalf("stale error overwrote fresh state: %+v", state)
	}
}

func TestStateTransitionsReachListenerInOrder(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var statuses []Status

	c := NewController(usernameField(), nil,
		WithValidateOnChange(false),
		WithStateListener(func(s State) {
			mu.Lock()
			statuses = append(statuses, s.Status)
			mu.Unlock()
		}),
	)
	defer c.Close()

	c.OnChange("gopher")
	c.OnBlur()

	waitFor(t, time.Second, func() bool { return c.State().Status == StatusValid })

	mu.Lock()
	defer mu.Unlock()
	var saw []Status
	for _, s := range statuses {
		if s == StatusValidating || s == StatusValid {
			saw = append(saw, s)
		}
	}
	if len(saw) < 2 || saw[len(saw)-2] != StatusValidating || saw[len(saw)-1] != StatusValid {
		t.Fatalf("expected validating then valid, saw %v", statuses)
	}
}

func TestDirtyTracksDeviationFromDefault(t *testing.T) {
	t.Parallel()

	field := usernameField()
	field.Default = "anonymous"

	c := NewController(field, nil, WithValidateOnChange(false), WithValidateOnBlur(false))
	defer c.Close()

	if c.State().IsDirty {
		t.Fatalf("fresh controller must not be dirty")
	}
	c.OnChange("anonymous")
	if c.State().IsDirty {
		t.Fatalf("default value should not mark dirty")
	}
	c.OnChange("gopher")
	if !c.State().IsDirty {
		t.Fatalf("changed value should mark dirty")
	}
}

func TestResetReturnsToIdleAndOrphansInFlight(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	validate := func(_ context.Context, _ any) *validation.Error {
		<-release
		return &validation.Error{Field: "username", Message: "late", Type: validation.ErrorCustom}
	}

	c := NewController(usernameField(), validate)
	defer c.Close()

	c.OnBlur() // starts a validation that blocks
	c.Reset()
	close(release)
	time.Sleep(20 * time.Millisecond)

	state := c.State()
	if state.Status != StatusIdle || state.Error != nil || state.IsTouched || state.IsDirty {
		t.Fatalf("reset state should be zero/idle, got %+v", state)
	}
}

func TestInvisibleFieldValidatesAsValid(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	validate := func(_ context.Context, _ any) *validation.Error {
		calls.Add(1)
		return &validation.Error{Field: "username", Message: "nope", Type: validation.ErrorCustom}
	}

	c := NewController(usernameField(), validate,
		WithVisibility(func() bool { return false }),
	)
	defer c.Close()

	c.OnBlur()
	waitFor(t, time.Second, func() bool { return c.State().Status == StatusValid })

	if calls.Load() != 0 {
		t.Fatalf("invisible field must skip the validator, got %d calls", calls.Load())
	}
}
