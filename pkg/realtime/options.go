package realtime

import (
	"log/slog"
	"time"
)

// DefaultDebounce is the quiet window between a change trigger and the
// validator call.
const DefaultDebounce = 300 * time.Millisecond

type options struct {
	validateOnChange bool
	validateOnBlur   bool
	debounce         time.Duration
	logger           *slog.Logger
	onState          func(State)
	visible          func() bool
}

// Option configures a Controller.
type Option func(*options)

// WithValidateOnChange toggles debounced validation on value changes.
// Change triggers only fire once the field has been touched.
func WithValidateOnChange(enabled bool) Option {
	return func(o *options) {
		o.validateOnChange = enabled
	}
}

// WithValidateOnBlur toggles immediate validation on blur.
func WithValidateOnBlur(enabled bool) Option {
	return func(o *options) {
		o.validateOnBlur = enabled
	}
}

// WithDebounce overrides the change-trigger quiet window.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithLogger sets the logger used for discarded stale results.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStateListener registers a callback invoked after every state
// transition with a snapshot of the new state. The rendering layer hangs
// off this.
func WithStateListener(fn func(State)) Option {
	return func(o *options) {
		o.onState = fn
	}
}

// WithVisibility supplies the controller's view of whether its field is
// currently visible and enabled. Invisible fields validate as trivially
// valid so a hidden required field can never pin an error.
func WithVisibility(fn func() bool) Option {
	return func(o *options) {
		o.visible = fn
	}
}

func defaultOptions() options {
	return options{
		validateOnChange: true,
		validateOnBlur:   true,
		debounce:         DefaultDebounce,
		logger:           slog.Default(),
	}
}
