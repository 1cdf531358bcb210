// Deterministic noise primitive. Unlike a live RNG, the value at a given
// offset is a pure function of (seed, offset), so noise patterns keep the
// record/replay guarantee the rest of the algebra provides.
package pattern

import (
	"math/rand/v2"
	"time"
)

type noise struct {
	lo, hi float64
	span   time.Duration
	seed   uint64
}

// Noise returns a pattern whose samples are uniformly distributed in
// [lo, hi), derived deterministically from seed and the sample offset.
// The same seed always reproduces the same trace; vary the seed to get a
// different texture. Fails with ErrNoiseRange when the interval is inverted
// or leaves [0, 1], or ErrNegativeDuration.
func Noise(lo, hi float64, d time.Duration, seed uint64) (Pattern, error) {
	if !validIntensity(lo) || !validIntensity(hi) || lo > hi {
		return nil, ErrNoiseRange
	}
	if d < 0 {
		return nil, ErrNegativeDuration
	}
	return noise{lo: lo, hi: hi, span: d, seed: seed}, nil
}

func (n noise) Sample(t time.Duration) float64 {
	// A fresh PCG keyed by (seed, offset) makes the sample stateless and
	// deterministic without sharing mutable RNG state across goroutines.
	u := rand.New(rand.NewPCG(n.seed, uint64(t))).Float64()
	return n.lo + (n.hi-n.lo)*u
}

func (n noise) Duration() (time.Duration, bool) { return n.span, true }
