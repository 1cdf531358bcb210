// Package midisink adapts a MIDI output port to the driver.Sink capability:
// each intensity becomes a control-change message on a configurable channel
// and controller, so any MIDI-controllable actuator (or a synth, for
// auditioning) can be driven by a pattern.
//
// What:
//
//   - Ports: list the MIDI output ports visible to the backend.
//   - Open: resolve a port by name and wrap it as a Sink.
//   - Submit maps [0, 1] onto CC values 0..127; Neutral sends 0.
//
// Errors:
//
//   - ErrPortNotFound: no output port matches the requested name.
//   - Submit/Neutral on a closed sink, and send failures, wrap
//     driver.ErrDisconnected: a vanished port is terminal, not retryable.
//
// The rtmididrv backend is loaded via blank import. Call midi.CloseDriver
// at application shutdown to release the backend itself.
package midisink

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/thrumlab/thrum/driver"
)

// ErrPortNotFound is returned by Open when no output port matches.
var ErrPortNotFound = errors.New("midisink: output port not found")

// ccMax is the top of the 7-bit MIDI control value range.
const ccMax = 127

// Defaults for the target channel and controller.
const (
	// DefaultChannel is MIDI channel 0 (displayed as channel 1).
	DefaultChannel uint8 = 0

	// DefaultController is CC 1, the modulation wheel — the conventional
	// continuous-intensity controller.
	DefaultController uint8 = 1
)

// Option configures a Sink.
type Option func(*Sink)

// WithChannel selects the MIDI channel (0..15).
func WithChannel(ch uint8) Option {
	return func(s *Sink) { s.channel = ch % 16 }
}

// WithController selects the control-change number (0..127).
func WithController(cc uint8) Option {
	return func(s *Sink) { s.controller = cc % 128 }
}

// Sink drives one MIDI output port. Safe for use by a single Driver at a
// time (the driver.Sink contract); Close may be called from any goroutine.
type Sink struct {
	channel    uint8
	controller uint8

	// port and send are set once at Open and never change.
	port drivers.Out
	send func(midi.Message) error

	// gate has capacity 1 and is held for the duration of one send, so a
	// wedged port never has messages piled onto it.
	gate chan struct{}

	mu     sync.Mutex
	closed bool
}

var _ driver.Sink = (*Sink)(nil)

// Ports returns the names of all MIDI output ports currently visible.
func Ports() []string {
	outs := midi.GetOutPorts()
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names
}

// Open resolves an output port by its exact name and wraps it as a Sink.
// Returns ErrPortNotFound when the name matches nothing.
func Open(portName string, opts ...Option) (*Sink, error) {
	var port drivers.Out
	for _, out := range midi.GetOutPorts() {
		if out.String() == portName {
			port = out
			break
		}
	}
	if port == nil {
		return nil, fmt.Errorf("%w: %q", ErrPortNotFound, portName)
	}

	send, err := midi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("midisink: open %q: %w", portName, err)
	}

	s := &Sink{
		channel:    DefaultChannel,
		controller: DefaultController,
		port:       port,
		send:       send,
		gate:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Submit sends one control-change message with the level mapped to 0..127.
// The wait for the port is bounded by ctx: a send that outlives its deadline
// keeps running in the background and returns the context error here, while
// later submissions fail fast on their own deadline instead of queueing
// behind the wedged one.
func (s *Sink) Submit(ctx context.Context, level float64) error {
	return s.sendCC(ctx, levelToCC(level))
}

// Neutral sends a zero control value, stopping the actuator.
func (s *Sink) Neutral(ctx context.Context) error {
	return s.sendCC(ctx, 0)
}

// Close sends a final zero value (skipped when a send is still in flight),
// then releases the port. Idempotent.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	select {
	case s.gate <- struct{}{}:
		_ = s.send(midi.ControlChange(s.channel, s.controller, 0))
		<-s.gate
	default:
	}
	return s.port.Close()
}

func (s *Sink) sendCC(ctx context.Context, value uint8) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("midisink: sink closed: %w", driver.ErrDisconnected)
	}
	s.mu.Unlock()

	select {
	case s.gate <- struct{}{}:
	case <-ctx.Done():
		// A previous send still holds the port.
		return ctx.Err()
	}

	errc := make(chan error, 1)
	go func() {
		errc <- s.send(midi.ControlChange(s.channel, s.controller, value))
		<-s.gate
	}()
	select {
	case err := <-errc:
		if err != nil {
			// A failed send on an open port means the device went away.
			return fmt.Errorf("midisink: send: %w: %w", driver.ErrDisconnected, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// levelToCC maps an intensity in [0, 1] onto the 7-bit control range,
// rounding to the nearest step. Out-of-range input is saturated.
func levelToCC(level float64) uint8 {
	if !(level > 0) {
		return 0
	}
	if level > 1 {
		return ccMax
	}
	return uint8(math.Round(level * ccMax))
}
