// Primitive waveform generators. Every constructor validates its inputs and
// returns a sentinel error; values are range-correct by construction, so the
// resulting patterns never produce an intensity outside [0, amplitude].
package pattern

import (
	"math"
	"time"
)

// twoPi is the full-cycle angular constant used by Sine.
const twoPi = 2 * math.Pi

type constant struct {
	level float64
	span  time.Duration
}

// Constant returns a pattern holding level for the whole of d.
// Fails with ErrIntensityRange or ErrNegativeDuration on bad input.
func Constant(level float64, d time.Duration) (Pattern, error) {
	if !validIntensity(level) {
		return nil, ErrIntensityRange
	}
	if d < 0 {
		return nil, ErrNegativeDuration
	}
	return constant{level: level, span: d}, nil
}

func (c constant) Sample(time.Duration) float64    { return c.level }
func (c constant) Duration() (time.Duration, bool) { return c.span, true }

type sine struct {
	amplitude float64
	period    time.Duration
}

// Sine returns one full raised-cosine cycle over period:
//
//	Sample(t) = amplitude * (1 - cos(2π·t/period)) / 2
//
// rising from 0 at t=0 up to amplitude at period/2 and back to 0 as t
// approaches period. This shape is contractual: tests and recorded traces
// rely on Sample(0)=0 and Sample(period/2)=amplitude exactly (within
// floating-point tolerance).
func Sine(amplitude float64, period time.Duration) (Pattern, error) {
	if !validIntensity(amplitude) {
		return nil, ErrIntensityRange
	}
	if period < 0 {
		return nil, ErrNegativeDuration
	}
	return sine{amplitude: amplitude, period: period}, nil
}

func (s sine) Sample(t time.Duration) float64 {
	return s.amplitude * (1 - math.Cos(twoPi*phase(t, s.period))) / 2
}

func (s sine) Duration() (time.Duration, bool) { return s.period, true }

type ramp struct {
	from, to float64
	span     time.Duration
}

// Ramp returns a linear sweep from one intensity to another over d.
// Both endpoints must lie in [0, 1]; from > to yields a falling ramp.
func Ramp(from, to float64, d time.Duration) (Pattern, error) {
	if !validIntensity(from) || !validIntensity(to) {
		return nil, ErrIntensityRange
	}
	if d < 0 {
		return nil, ErrNegativeDuration
	}
	return ramp{from: from, to: to, span: d}, nil
}

func (r ramp) Sample(t time.Duration) float64 {
	return r.from + (r.to-r.from)*phase(t, r.span)
}

func (r ramp) Duration() (time.Duration, bool) { return r.span, true }

type square struct {
	amplitude float64
	period    time.Duration
	duty      float64
}

// Square returns one rectangular cycle: amplitude for the first duty
// fraction of period, then 0 for the rest. duty must lie in [0, 1];
// duty 0.5 gives the classic symmetric square wave.
func Square(amplitude float64, period time.Duration, duty float64) (Pattern, error) {
	if !validIntensity(amplitude) {
		return nil, ErrIntensityRange
	}
	if period < 0 {
		return nil, ErrNegativeDuration
	}
	if !(duty >= 0 && duty <= 1) {
		return nil, ErrDutyRange
	}
	return square{amplitude: amplitude, period: period, duty: duty}, nil
}

func (q square) Sample(t time.Duration) float64 {
	if phase(t, q.period) < q.duty {
		return q.amplitude
	}
	return 0
}

func (q square) Duration() (time.Duration, bool) { return q.period, true }

type triangle struct {
	amplitude float64
	period    time.Duration
}

// Triangle returns one triangular cycle rising linearly from 0 to amplitude
// at period/2 and falling back to 0 as t approaches period.
func Triangle(amplitude float64, period time.Duration) (Pattern, error) {
	if !validIntensity(amplitude) {
		return nil, ErrIntensityRange
	}
	if period < 0 {
		return nil, ErrNegativeDuration
	}
	return triangle{amplitude: amplitude, period: period}, nil
}

func (r triangle) Sample(t time.Duration) float64 {
	return r.amplitude * (1 - math.Abs(2*phase(t, r.period)-1))
}

func (r triangle) Duration() (time.Duration, bool) { return r.period, true }

type saw struct {
	amplitude float64
	period    time.Duration
}

// Saw returns one sawtooth cycle rising linearly from 0 toward amplitude
// over period (the peak itself is never reached: the cycle is defined on
// [0, period)).
func Saw(amplitude float64, period time.Duration) (Pattern, error) {
	if !validIntensity(amplitude) {
		return nil, ErrIntensityRange
	}
	if period < 0 {
		return nil, ErrNegativeDuration
	}
	return saw{amplitude: amplitude, period: period}, nil
}

func (w saw) Sample(t time.Duration) float64 {
	return w.amplitude * phase(t, w.period)
}

func (w saw) Duration() (time.Duration, bool) { return w.period, true }
