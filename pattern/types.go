// Package pattern core declarations: the Pattern interface, intensity
// helpers, and sentinel errors shared by primitives and combinators.
package pattern

import (
	"errors"
	"fmt"
	"time"
)

// Wrap-root sentinels for construction-time failures. Granular sentinels
// below wrap one of these, so callers may branch either on the exact cause
// or on the class:
//
//	errors.Is(err, pattern.ErrIntensityRange)      // exact
//	errors.Is(err, pattern.ErrInvalidParameter)    // class
var (
	// ErrInvalidParameter indicates an out-of-range or malformed argument.
	ErrInvalidParameter = errors.New("pattern: invalid parameter")

	// ErrUnsupportedComposition indicates a combinator was applied to a
	// pattern that cannot occupy that position (typically an infinite
	// pattern where finiteness is required).
	ErrUnsupportedComposition = errors.New("pattern: unsupported composition")

	// ErrNilPattern indicates a nil Pattern was supplied.
	ErrNilPattern = errors.New("pattern: nil pattern")
)

// Granular construction errors. Each wraps its class sentinel.
var (
	// ErrIntensityRange indicates an intensity or amplitude outside [0.0, 1.0].
	ErrIntensityRange = fmt.Errorf("%w: intensity outside [0.0, 1.0]", ErrInvalidParameter)

	// ErrNegativeDuration indicates a negative duration or period.
	ErrNegativeDuration = fmt.Errorf("%w: negative duration", ErrInvalidParameter)

	// ErrRepeatCount indicates a repeat count below 1.
	ErrRepeatCount = fmt.Errorf("%w: repeat count must be at least 1", ErrInvalidParameter)

	// ErrScaleFactor indicates a non-positive or non-finite scale factor.
	ErrScaleFactor = fmt.Errorf("%w: scale factor must be positive and finite", ErrInvalidParameter)

	// ErrGainFactor indicates a negative or non-finite gain factor.
	ErrGainFactor = fmt.Errorf("%w: gain factor must be non-negative and finite", ErrInvalidParameter)

	// ErrOffsetRange indicates a shift offset past the pattern's end.
	ErrOffsetRange = fmt.Errorf("%w: offset exceeds pattern duration", ErrInvalidParameter)

	// ErrClipRange indicates a clip length past the pattern's end.
	ErrClipRange = fmt.Errorf("%w: clip length exceeds pattern duration", ErrInvalidParameter)

	// ErrOverlapRange indicates a crossfade overlap longer than a side.
	ErrOverlapRange = fmt.Errorf("%w: overlap exceeds a pattern duration", ErrInvalidParameter)

	// ErrDutyRange indicates a square-wave duty cycle outside [0, 1].
	ErrDutyRange = fmt.Errorf("%w: duty cycle outside [0.0, 1.0]", ErrInvalidParameter)

	// ErrNoiseRange indicates a noise interval that is inverted or outside [0,1].
	ErrNoiseRange = fmt.Errorf("%w: noise range must satisfy 0 <= lo <= hi <= 1", ErrInvalidParameter)

	// ErrDurationOverflow indicates a composed duration that does not fit
	// in a time.Duration.
	ErrDurationOverflow = fmt.Errorf("%w: composed duration overflows", ErrInvalidParameter)

	// ErrInfinitePattern indicates an infinite pattern where a finite one is
	// required (repeat, chain-first, forever, crossfade-first).
	ErrInfinitePattern = fmt.Errorf("%w: pattern must be finite", ErrUnsupportedComposition)

	// ErrZeroCycle indicates an attempt to loop a zero-duration pattern,
	// whose cycle modulus is undefined.
	ErrZeroCycle = fmt.Errorf("%w: cannot loop a zero-duration pattern", ErrUnsupportedComposition)

	// ErrShortModulator indicates a modulator that does not cover the
	// modulated pattern's full duration.
	ErrShortModulator = fmt.Errorf("%w: modulator does not cover pattern duration", ErrUnsupportedComposition)
)

// Pattern is a pure value that, given an elapsed offset from its own start,
// yields an intensity sample in [0.0, 1.0] and reports whether and when it
// ends.
//
// Sample must be deterministic: repeated calls with the same offset return
// the same value. A finite pattern is defined only for offsets in
// [0, duration); sampling past the reported duration is a caller bug and
// its result is unspecified (implementations in this package return an
// in-range value rather than panic).
type Pattern interface {
	// Sample returns the intensity at offset t from the pattern's start.
	Sample(t time.Duration) float64

	// Duration returns the pattern's total span and true, or an undefined
	// duration and false when the pattern never ends.
	Duration() (time.Duration, bool)
}

// Clamp saturates v into the valid intensity range [0.0, 1.0].
// NaN maps to 0. Exported for sink implementations that receive raw levels.
func Clamp(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// validIntensity reports whether v is a legal intensity.
// NaN compares false on both bounds and is rejected.
func validIntensity(v float64) bool {
	return v >= 0 && v <= 1
}

// phase returns t/period as a fraction in [0, 1) for offsets within one
// period. A zero period yields 0 (such a pattern is never legally sampled).
func phase(t, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	return float64(t) / float64(period)
}

// addDurations sums two non-negative durations, guarding int64 overflow.
func addDurations(a, b time.Duration) (time.Duration, error) {
	if sum := a + b; sum >= a {
		return sum, nil
	}
	return 0, ErrDurationOverflow
}
