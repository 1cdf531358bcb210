// Package driver option and type declarations: the Sink capability,
// sentinel errors, run outcomes, and tunable options.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sink is the device capability the driver consumes. Implementations wrap a
// concrete transport (MIDI port, audio stream, network link) and are
// expected to honor the context's deadline on every call.
//
// Errors returned from Submit are classified by the driver: errors wrapping
// ErrTransient — and context.DeadlineExceeded from an expired submission
// budget — are retried; anything else (including ErrDisconnected) is
// terminal. A Sink must be handed to at most one Driver per device channel
// at a time.
type Sink interface {
	// Submit sends one actuation command with an intensity in [0, 1].
	Submit(ctx context.Context, level float64) error

	// Neutral commands the stop/zero state. Called on completion,
	// cancellation, and fatal abort.
	Neutral(ctx context.Context) error
}

// Sentinel errors for driver construction and runs.
var (
	// ErrNilSink is returned by New when the sink is nil.
	ErrNilSink = errors.New("driver: sink is nil")

	// ErrNilPattern is returned by New when the root pattern is nil.
	ErrNilPattern = errors.New("driver: pattern is nil")

	// ErrOptionViolation is returned by New when an invalid Option is supplied.
	ErrOptionViolation = errors.New("driver: invalid option supplied")

	// ErrAlreadyRunning is returned by Run when a run is already in progress.
	ErrAlreadyRunning = errors.New("driver: run already in progress")

	// ErrDeviceUnavailable is returned (wrapping the sink's error) when a
	// run aborts on a terminal sink failure or exhausted retries.
	ErrDeviceUnavailable = errors.New("driver: device unavailable")
)

// Classification sentinels for Sink implementations to wrap.
var (
	// ErrTransient marks a recoverable device I/O hiccup; the driver
	// retries the tick up to the configured bound.
	ErrTransient = errors.New("driver: transient sink failure")

	// ErrDisconnected marks a terminal sink failure; the run aborts
	// immediately without retries.
	ErrDisconnected = errors.New("driver: sink disconnected")
)

// Outcome is the deterministic terminal state of a run.
type Outcome int

const (
	// Completed: a finite pattern's duration was exhausted.
	Completed Outcome = iota

	// Cancelled: the context was done or Stop was called; not a failure.
	Cancelled

	// DeviceUnavailable: the sink failed terminally or retries were
	// exhausted; the accompanying error carries the detail.
	DeviceUnavailable
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case DeviceUnavailable:
		return "device unavailable"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes a finished run.
type Result struct {
	// Outcome is the terminal state: Completed, Cancelled, or
	// DeviceUnavailable.
	Outcome Outcome

	// Submissions counts successfully submitted samples.
	Submissions int

	// Clamps counts samples the driver had to saturate into [0, 1].
	// A non-zero count signals a defective pattern implementation, not a
	// runtime condition.
	Clamps int

	// Elapsed is the wall-clock span of the run.
	Elapsed time.Duration
}

// Defaults for the run options.
const (
	// DefaultTickInterval paces sampling at 25 Hz: fine enough for
	// perceptible haptic smoothness, coarse enough not to flood the link.
	DefaultTickInterval = 40 * time.Millisecond

	// DefaultMaxRetries bounds transient-error retries per tick.
	DefaultMaxRetries = 3

	// DefaultRetryBackoff is the fixed pause between transient retries.
	DefaultRetryBackoff = 25 * time.Millisecond

	// DefaultSubmitTimeout is the per-call sink budget; the effective
	// budget is additionally capped by the next tick's deadline.
	DefaultSubmitTimeout = 250 * time.Millisecond
)

// Option configures a Driver via functional arguments. An invalid Option is
// recorded internally and surfaced as ErrOptionViolation when New is
// invoked.
type Option func(*Options)

// Options holds the tunable parameters and hooks of a run.
type Options struct {
	// TickInterval is the duration between samples.
	TickInterval time.Duration

	// MaxRetries bounds transient-error retries per tick; 0 disables
	// retrying.
	MaxRetries int

	// RetryBackoff is the pause between transient retries.
	RetryBackoff time.Duration

	// SubmitTimeout is the per-tick sink call budget. A submission that
	// would block past the next tick deadline is cut off early and treated
	// as a transient failure (backpressure, not silent drop).
	SubmitTimeout time.Duration

	// OnTick is called once per tick with the scheduled offset and the
	// level about to be submitted.
	OnTick func(at time.Duration, level float64)

	// OnClamp is called when a pattern produced a value outside [0, 1];
	// the raw value is reported before saturation.
	OnClamp func(at time.Duration, raw float64)

	// OnRetry is called before each transient retry with the attempt
	// number (starting at 1) and the error being retried.
	OnRetry func(attempt int, err error)

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with the documented defaults and no-op
// hooks.
func DefaultOptions() Options {
	return Options{
		TickInterval:  DefaultTickInterval,
		MaxRetries:    DefaultMaxRetries,
		RetryBackoff:  DefaultRetryBackoff,
		SubmitTimeout: DefaultSubmitTimeout,
		OnTick:        func(time.Duration, float64) {},
		OnClamp:       func(time.Duration, float64) {},
		OnRetry:       func(int, error) {},
	}
}

// WithTickInterval sets the duration between samples; must be positive.
func WithTickInterval(d time.Duration) Option {
	return func(o *Options) {
		if d <= 0 {
			o.err = fmt.Errorf("%w: tick interval %v must be positive", ErrOptionViolation, d)
			return
		}
		o.TickInterval = d
	}
}

// WithMaxRetries bounds transient retries per tick; must be non-negative.
func WithMaxRetries(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: max retries %d must be non-negative", ErrOptionViolation, n)
			return
		}
		o.MaxRetries = n
	}
}

// WithRetryBackoff sets the pause between transient retries; must be
// non-negative.
func WithRetryBackoff(d time.Duration) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: retry backoff %v must be non-negative", ErrOptionViolation, d)
			return
		}
		o.RetryBackoff = d
	}
}

// WithSubmitTimeout sets the per-tick sink call budget; must be positive.
func WithSubmitTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d <= 0 {
			o.err = fmt.Errorf("%w: submit timeout %v must be positive", ErrOptionViolation, d)
			return
		}
		o.SubmitTimeout = d
	}
}

// WithOnTick sets the per-tick hook; a nil hook is ignored.
func WithOnTick(hook func(at time.Duration, level float64)) Option {
	return func(o *Options) {
		if hook != nil {
			o.OnTick = hook
		}
	}
}

// WithOnClamp sets the clamp-violation hook; a nil hook is ignored.
func WithOnClamp(hook func(at time.Duration, raw float64)) Option {
	return func(o *Options) {
		if hook != nil {
			o.OnClamp = hook
		}
	}
}

// WithOnRetry sets the retry hook; a nil hook is ignored.
func WithOnRetry(hook func(attempt int, err error)) Option {
	return func(o *Options) {
		if hook != nil {
			o.OnRetry = hook
		}
	}
}
