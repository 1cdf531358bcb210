// Package driver run loop: drift-free tick scheduling, bounded retry with
// backoff, cooperative cancellation, and the guaranteed neutral command on
// every exit path.
package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/thrumlab/thrum/pattern"
)

// errStopRequested propagates a Stop observed during a retry backoff.
var errStopRequested = errors.New("driver: stop requested")

// Driver binds a device sink capability and a root pattern for one run.
// Construct with New; drive with Run; cancel with Stop or the context.
//
// The pattern tree is immutable and read-only to the driver; the sink is a
// shared capability the driver writes to, one sample at a time, in strictly
// increasing time order.
type Driver struct {
	sink Sink
	root pattern.Pattern
	opts Options

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	stopped bool
}

// New binds sink and root with any number of functional Options.
// Returns ErrNilSink, ErrNilPattern, or ErrOptionViolation for invalid
// input.
func New(sink Sink, root pattern.Pattern, opts ...Option) (*Driver, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	if root == nil {
		return nil, ErrNilPattern
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return &Driver{sink: sink, root: root, opts: o}, nil
}

// Run drives the pattern until it completes, the context is done, Stop is
// called, or the sink fails terminally. It blocks the caller for the whole
// run.
//
// The returned Result always carries one of Completed, Cancelled, or
// DeviceUnavailable; the error is non-nil only for DeviceUnavailable (it
// wraps ErrDeviceUnavailable and the sink's error) or when Run was
// re-entered while already running (ErrAlreadyRunning, with a nil Result).
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	d.running = true
	d.stopped = false
	d.stop = make(chan struct{})
	stop := d.stop
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()

	return d.loop(ctx, stop)
}

// Stop requests the running loop to halt at the next tick boundary. The
// final neutral command is still sent before Run returns. Safe to call from
// any goroutine, any number of times; a Stop with no run in progress is a
// no-op.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running && !d.stopped {
		d.stopped = true
		close(d.stop)
	}
}

// loop is the single logical driving loop: one timed wait, one sample, one
// submission per tick. Samples are taken at the scheduled instant
// (n·TickInterval from start), not the observed wall clock, so scheduling
// jitter never accumulates into drift and a finite pattern is never queried
// past its reported duration.
func (d *Driver) loop(ctx context.Context, stop <-chan struct{}) (*Result, error) {
	res := &Result{}
	total, finite := d.root.Duration()
	start := time.Now()

	for tick := 0; ; tick++ {
		at := time.Duration(tick) * d.opts.TickInterval
		if finite && at >= total {
			return d.finish(res, Completed, nil, start)
		}

		if outcome, done := d.await(ctx, stop, start.Add(at)); done {
			return d.finish(res, outcome, nil, start)
		}

		raw := d.root.Sample(at)
		level := pattern.Clamp(raw)
		if level != raw {
			res.Clamps++
			d.opts.OnClamp(at, raw)
		}
		d.opts.OnTick(at, level)

		next := start.Add(time.Duration(tick+1) * d.opts.TickInterval)
		if err := d.submit(ctx, stop, level, next); err != nil {
			if errors.Is(err, errStopRequested) || ctx.Err() != nil {
				return d.finish(res, Cancelled, nil, start)
			}
			return d.finish(res, DeviceUnavailable, err, start)
		}
		res.Submissions++
	}
}

// await sleeps until target, returning early with (Cancelled, true) when the
// context is done or Stop was called.
func (d *Driver) await(ctx context.Context, stop <-chan struct{}, target time.Time) (Outcome, bool) {
	timer := time.NewTimer(time.Until(target))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Cancelled, true
	case <-stop:
		return Cancelled, true
	case <-timer.C:
		return 0, false
	}
}

// submit pushes one level to the sink, retrying transient failures with a
// fixed backoff up to MaxRetries. The per-call budget is SubmitTimeout,
// additionally capped by the next tick deadline when that is sooner: a
// submission that would block past the next tick is cut off and retried as
// a transient failure.
func (d *Driver) submit(ctx context.Context, stop <-chan struct{}, level float64, next time.Time) error {
	for attempt := 0; ; attempt++ {
		budget := d.opts.SubmitTimeout
		if remaining := time.Until(next); remaining > 0 && remaining < budget {
			budget = remaining
		}
		sctx, cancel := context.WithTimeout(ctx, budget)
		err := d.sink.Submit(sctx, level)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			// The run itself was cancelled mid-submission; not a device fault.
			return ctx.Err()
		}
		if !isTransient(err) {
			return err
		}
		if attempt >= d.opts.MaxRetries {
			return fmt.Errorf("retries exhausted after %d attempts: %w", attempt+1, err)
		}
		d.opts.OnRetry(attempt+1, err)

		backoff := time.NewTimer(d.opts.RetryBackoff)
		select {
		case <-ctx.Done():
			backoff.Stop()
			return ctx.Err()
		case <-stop:
			backoff.Stop()
			return errStopRequested
		case <-backoff.C:
		}
	}
}

// isTransient reports whether a sink error should be retried. An expired
// submission budget is backpressure, hence transient; everything not
// explicitly marked transient is terminal, because re-actuating through an
// unclassified failure risks commanding a half-broken device.
func isTransient(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded)
}

// finish stamps the result, sends the best-effort neutral command, and maps
// the outcome to Run's return contract. The neutral uses a fresh detached
// timeout so a cancelled run context cannot strand a live intensity on the
// device; its failure never changes the outcome.
func (d *Driver) finish(res *Result, out Outcome, cause error, start time.Time) (*Result, error) {
	res.Outcome = out
	res.Elapsed = time.Since(start)

	nctx, cancel := context.WithTimeout(context.Background(), d.opts.SubmitTimeout)
	_ = d.sink.Neutral(nctx)
	cancel()

	if out == DeviceUnavailable {
		return res, fmt.Errorf("%w: %w", ErrDeviceUnavailable, cause)
	}
	return res, nil
}
