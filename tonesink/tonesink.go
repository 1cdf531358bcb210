// Package tonesink adapts the speaker to the driver.Sink capability: the
// submitted intensity becomes the loudness of a steady sine carrier, so a
// pattern can be auditioned by ear without any haptic hardware attached.
//
// What:
//
//   - New opens an audio output (ebitengine/oto) and starts a silent
//     carrier; Submit sets its amplitude, Neutral mutes it, Close stops it.
//   - The carrier amplitude glides between levels over a few milliseconds
//     to avoid audible clicks at tick boundaries.
//
// Constraints:
//
//   - The underlying audio context can be created only once per process;
//     create one Sink and reuse it across runs.
//   - Submit never blocks on the audio device (the generator is pulled by
//     the playback thread), so submission timeouts do not apply here.
package tonesink

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/thrumlab/thrum/driver"
	"github.com/thrumlab/thrum/pattern"
)

// Defaults for the audio carrier.
const (
	// DefaultFrequency is a low hum reminiscent of an actuator motor.
	DefaultFrequency = 180.0

	// DefaultSampleRate is plenty for a sine carrier.
	DefaultSampleRate = 44100

	// glideTime is the span over which the amplitude glides to a new
	// target, suppressing clicks.
	glideTime = 5 * time.Millisecond
)

// Option configures a Sink before the audio stream starts.
type Option func(*Sink)

// WithFrequency sets the carrier frequency in Hz; non-positive values are
// ignored.
func WithFrequency(hz float64) Option {
	return func(s *Sink) {
		if hz > 0 {
			s.freq = hz
		}
	}
}

// WithSampleRate sets the output sample rate; non-positive values are
// ignored.
func WithSampleRate(rate int) Option {
	return func(s *Sink) {
		if rate > 0 {
			s.rate = rate
		}
	}
}

// Sink renders intensity as an audible tone.
type Sink struct {
	freq float64
	rate int

	gen    *generator
	player *oto.Player

	mu     sync.Mutex
	closed bool
}

var _ driver.Sink = (*Sink)(nil)

// New opens the audio output and starts a muted carrier.
func New(opts ...Option) (*Sink, error) {
	s := &Sink{freq: DefaultFrequency, rate: DefaultSampleRate}
	for _, opt := range opts {
		opt(s)
	}

	octx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   s.rate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("tonesink: audio context: %w", err)
	}
	<-ready

	s.gen = newGenerator(s.freq, s.rate)
	s.player = octx.NewPlayer(s.gen)
	s.player.Play()
	return s, nil
}

// Submit sets the carrier loudness to level.
func (s *Sink) Submit(ctx context.Context, level float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("tonesink: sink closed: %w", driver.ErrDisconnected)
	}
	s.gen.setTarget(level)
	return nil
}

// Neutral mutes the carrier.
func (s *Sink) Neutral(ctx context.Context) error {
	return s.Submit(ctx, 0)
}

// Close mutes and stops playback. Idempotent.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.gen.setTarget(0)
	return s.player.Close()
}

// generator produces float32 little-endian mono frames of a sine carrier
// whose amplitude glides toward an atomically-set target. It is pulled from
// the audio playback thread, concurrently with setTarget calls.
type generator struct {
	freq   float64
	rate   float64
	step   float64 // amplitude change per frame during a glide
	target atomic.Uint64

	// playback-thread state
	phase float64
	amp   float64
}

const frameBytes = 4 // one float32 mono sample

func newGenerator(freq float64, rate int) *generator {
	return &generator{
		freq: freq,
		rate: float64(rate),
		step: 1 / (float64(rate) * glideTime.Seconds()),
	}
}

// setTarget sets the amplitude the carrier glides toward. Values are
// saturated into [0, 1].
func (g *generator) setTarget(level float64) {
	g.target.Store(math.Float64bits(pattern.Clamp(level)))
}

// Read fills buf with carrier frames. It never returns io.EOF: the stream
// lives until the player is closed.
func (g *generator) Read(buf []byte) (int, error) {
	target := math.Float64frombits(g.target.Load())
	phaseStep := g.freq / g.rate

	n := len(buf) / frameBytes
	for i := 0; i < n; i++ {
		switch {
		case g.amp < target:
			g.amp = math.Min(g.amp+g.step, target)
		case g.amp > target:
			g.amp = math.Max(g.amp-g.step, target)
		}

		v := float32(g.amp * math.Sin(2*math.Pi*g.phase))
		binary.LittleEndian.PutUint32(buf[i*frameBytes:], math.Float32bits(v))

		g.phase += phaseStep
		if g.phase >= 1 {
			g.phase -= 1
		}
	}
	return n * frameBytes, nil
}
