package pattern_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/thrumlab/thrum/pattern"
)

const tol = 1e-9

// TestConstructors_Errors verifies that invalid parameters are rejected with
// both the granular sentinel and the ErrInvalidParameter class.
func TestConstructors_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"constant level high", errOf(pattern.Constant(1.5, time.Second)), pattern.ErrIntensityRange},
		{"constant level low", errOf(pattern.Constant(-0.1, time.Second)), pattern.ErrIntensityRange},
		{"constant negative duration", errOf(pattern.Constant(0.5, -time.Second)), pattern.ErrNegativeDuration},
		{"sine amplitude", errOf(pattern.Sine(2.0, time.Second)), pattern.ErrIntensityRange},
		{"sine amplitude nan", errOf(pattern.Sine(math.NaN(), time.Second)), pattern.ErrIntensityRange},
		{"sine negative period", errOf(pattern.Sine(1.0, -time.Millisecond)), pattern.ErrNegativeDuration},
		{"ramp endpoint", errOf(pattern.Ramp(0.2, 1.2, time.Second)), pattern.ErrIntensityRange},
		{"square duty", errOf(pattern.Square(0.5, time.Second, 1.5)), pattern.ErrDutyRange},
		{"triangle amplitude", errOf(pattern.Triangle(-0.5, time.Second)), pattern.ErrIntensityRange},
		{"saw amplitude", errOf(pattern.Saw(7, time.Second)), pattern.ErrIntensityRange},
		{"noise inverted", errOf(pattern.Noise(0.8, 0.2, time.Second, 1)), pattern.ErrNoiseRange},
		{"noise out of range", errOf(pattern.Noise(0.5, 1.5, time.Second, 1)), pattern.ErrNoiseRange},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.want) {
			t.Errorf("%s: got %v; want %v", tc.name, tc.err, tc.want)
		}
		if !errors.Is(tc.err, pattern.ErrInvalidParameter) {
			t.Errorf("%s: %v does not wrap ErrInvalidParameter", tc.name, tc.err)
		}
	}
}

// errOf discards the pattern and keeps the constructor error.
func errOf(_ pattern.Pattern, err error) error { return err }

func TestConstant_Sample(t *testing.T) {
	p, err := pattern.Constant(0.42, 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, at := range []time.Duration{0, time.Millisecond, time.Second, 2*time.Second - time.Nanosecond} {
		if got := p.Sample(at); got != 0.42 {
			t.Errorf("Sample(%v) = %v; want 0.42", at, got)
		}
	}
	if d, finite := p.Duration(); !finite || d != 2*time.Second {
		t.Errorf("Duration() = %v,%v; want 2s,true", d, finite)
	}
}

func TestConstant_ZeroDurationLegal(t *testing.T) {
	p, err := pattern.Constant(0.5, 0)
	if err != nil {
		t.Fatalf("zero duration must be legal, got %v", err)
	}
	if d, finite := p.Duration(); !finite || d != 0 {
		t.Errorf("Duration() = %v,%v; want 0,true", d, finite)
	}
}

// TestSine_Shape pins the documented waveform convention:
// f(x) = (1 - cos 2πx)/2, so the wave starts at 0, peaks at amplitude
// mid-period, and returns to 0 at the period boundary.
func TestSine_Shape(t *testing.T) {
	const amp = 0.9
	period := 2 * time.Second
	p, err := pattern.Sine(amp, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := p.Sample(0); math.Abs(got) > tol {
		t.Errorf("Sample(0) = %v; want 0", got)
	}
	if got := p.Sample(period / 2); math.Abs(got-amp) > tol {
		t.Errorf("Sample(period/2) = %v; want %v", got, amp)
	}
	if got := p.Sample(period / 4); math.Abs(got-amp/2) > tol {
		t.Errorf("Sample(period/4) = %v; want %v", got, amp/2)
	}
}

// TestSine_Bounded sweeps a full period and asserts samples never leave
// [0, amplitude].
func TestSine_Bounded(t *testing.T) {
	for _, amp := range []float64{0, 0.25, 0.5, 1.0} {
		p, err := pattern.Sine(amp, time.Second)
		if err != nil {
			t.Fatalf("amp %v: %v", amp, err)
		}
		for at := time.Duration(0); at < time.Second; at += time.Millisecond {
			v := p.Sample(at)
			if v < -tol || v > amp+tol {
				t.Fatalf("amp %v: Sample(%v) = %v outside [0, %v]", amp, at, v, amp)
			}
		}
	}
}

func TestRamp_Endpoints(t *testing.T) {
	up, err := pattern.Ramp(0.1, 0.9, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := up.Sample(0); math.Abs(got-0.1) > tol {
		t.Errorf("Sample(0) = %v; want 0.1", got)
	}
	if got := up.Sample(500 * time.Millisecond); math.Abs(got-0.5) > tol {
		t.Errorf("Sample(mid) = %v; want 0.5", got)
	}

	// Falling ramp is equally valid.
	down, err := pattern.Ramp(1.0, 0.0, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := down.Sample(750 * time.Millisecond); math.Abs(got-0.25) > tol {
		t.Errorf("falling Sample(750ms) = %v; want 0.25", got)
	}
}

func TestSquare_Duty(t *testing.T) {
	p, err := pattern.Square(0.8, time.Second, 0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.Sample(0); got != 0.8 {
		t.Errorf("Sample(0) = %v; want 0.8", got)
	}
	if got := p.Sample(249 * time.Millisecond); got != 0.8 {
		t.Errorf("Sample(249ms) = %v; want 0.8", got)
	}
	// The high window is [0, duty): the boundary itself is low.
	if got := p.Sample(250 * time.Millisecond); got != 0 {
		t.Errorf("Sample(250ms) = %v; want 0", got)
	}
	if got := p.Sample(999 * time.Millisecond); got != 0 {
		t.Errorf("Sample(999ms) = %v; want 0", got)
	}
}

func TestTriangle_Shape(t *testing.T) {
	p, err := pattern.Triangle(1.0, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.Sample(0); math.Abs(got) > tol {
		t.Errorf("Sample(0) = %v; want 0", got)
	}
	if got := p.Sample(500 * time.Millisecond); math.Abs(got-1.0) > tol {
		t.Errorf("Sample(mid) = %v; want 1.0", got)
	}
	if got := p.Sample(250 * time.Millisecond); math.Abs(got-0.5) > tol {
		t.Errorf("Sample(quarter) = %v; want 0.5", got)
	}
	if got := p.Sample(750 * time.Millisecond); math.Abs(got-0.5) > tol {
		t.Errorf("Sample(3/4) = %v; want 0.5", got)
	}
}

func TestSaw_Shape(t *testing.T) {
	p, err := pattern.Saw(0.6, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.Sample(0); got != 0 {
		t.Errorf("Sample(0) = %v; want 0", got)
	}
	if got := p.Sample(500 * time.Millisecond); math.Abs(got-0.3) > tol {
		t.Errorf("Sample(mid) = %v; want 0.3", got)
	}
}

// TestNoise_Deterministic asserts the record/replay guarantee: same seed and
// offset, same value — across independently constructed patterns.
func TestNoise_Deterministic(t *testing.T) {
	a, err := pattern.Noise(0.2, 0.8, time.Second, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := pattern.Noise(0.2, 0.8, time.Second, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for at := time.Duration(0); at < time.Second; at += 50 * time.Millisecond {
		va, vb := a.Sample(at), b.Sample(at)
		if va != vb {
			t.Fatalf("Sample(%v) differs across identical seeds: %v vs %v", at, va, vb)
		}
		if va < 0.2 || va >= 0.8 {
			t.Fatalf("Sample(%v) = %v outside [0.2, 0.8)", at, va)
		}
	}
}

func TestNoise_SeedVariesTexture(t *testing.T) {
	a, _ := pattern.Noise(0, 1, time.Second, 1)
	b, _ := pattern.Noise(0, 1, time.Second, 2)
	same := 0
	const probes = 20
	for i := 0; i < probes; i++ {
		at := time.Duration(i) * 50 * time.Millisecond
		if a.Sample(at) == b.Sample(at) {
			same++
		}
	}
	if same == probes {
		t.Error("different seeds produced identical traces")
	}
}
