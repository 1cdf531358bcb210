// Package record provides an in-memory device sink that captures every
// command it receives. It backs golden tests for the driver and lets users
// record a pattern run for later inspection or replay — sampling is
// deterministic, so a recorded trace is reproducible.
//
// What:
//
//   - Recording: a driver.Sink that stores timestamped submissions and
//     neutral commands, safe for concurrent use.
//   - WithLatency: simulate a slow device link to exercise the driver's
//     backpressure and timeout handling.
//
// Errors:
//
//   - Submit and Neutral fail only when the context expires before the
//     simulated latency elapses; the error is the context's.
package record

import (
	"context"
	"sync"
	"time"

	"github.com/thrumlab/thrum/driver"
)

// Event is one recorded sink command.
type Event struct {
	// At is the offset since the recording began (New, or the latest
	// Reset), so the delay before the first command is part of the trace.
	At time.Duration

	// Level is the submitted intensity; 0 for a neutral command.
	Level float64

	// Neutral marks a stop/zero command rather than a submission.
	Neutral bool
}

// Option configures a Recording.
type Option func(*Recording)

// WithLatency makes every command block for d before being recorded,
// simulating a slow device link. A command whose context expires first is
// dropped and the context's error returned.
func WithLatency(d time.Duration) Option {
	return func(r *Recording) {
		if d > 0 {
			r.latency = d
		}
	}
}

// Recording implements driver.Sink, capturing commands in arrival order.
// The zero value is not ready; use New.
type Recording struct {
	latency time.Duration

	mu     sync.Mutex
	start  time.Time
	events []Event
}

var _ driver.Sink = (*Recording)(nil)

// New returns an empty Recording. Its clock starts now: event offsets are
// measured from this call.
func New(opts ...Option) *Recording {
	r := &Recording{start: time.Now()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit records one intensity command.
func (r *Recording) Submit(ctx context.Context, level float64) error {
	return r.record(ctx, level, false)
}

// Neutral records one stop/zero command.
func (r *Recording) Neutral(ctx context.Context) error {
	return r.record(ctx, 0, true)
}

func (r *Recording) record(ctx context.Context, level float64, neutral bool) error {
	if r.latency > 0 {
		timer := time.NewTimer(r.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{At: time.Since(r.start), Level: level, Neutral: neutral})
	return nil
}

// Events returns a copy of all recorded commands in arrival order.
func (r *Recording) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Levels returns the intensities of all submissions, neutrals excluded.
func (r *Recording) Levels() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, 0, len(r.events))
	for _, e := range r.events {
		if !e.Neutral {
			out = append(out, e.Level)
		}
	}
	return out
}

// Last returns the most recent command, or false when nothing was recorded.
func (r *Recording) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}

// NeutralCount returns how many neutral commands were recorded.
func (r *Recording) NeutralCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Neutral {
			n++
		}
	}
	return n
}

// Reset discards all recorded commands and restarts the clock, keeping the
// configuration.
func (r *Recording) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start = time.Now()
	r.events = nil
}
