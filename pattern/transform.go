// Combinators: patterns that wrap previously-constructed patterns and
// redefine sampling and duration in terms of their children. All finiteness
// and range constraints are checked here, at composition time — a pattern
// that constructs successfully never fails while being sampled.
package pattern

import (
	"math"
	"time"
)

type repeated struct {
	child Pattern
	cycle time.Duration
	total time.Duration
}

// Repeat plays p back-to-back count times. p must be finite
// (ErrInfinitePattern) and count at least 1 (ErrRepeatCount).
// Repeat(p, n).Sample(t) equals p.Sample(t mod p-duration).
func Repeat(p Pattern, count int) (Pattern, error) {
	if p == nil {
		return nil, ErrNilPattern
	}
	if count < 1 {
		return nil, ErrRepeatCount
	}
	cycle, finite := p.Duration()
	if !finite {
		return nil, ErrInfinitePattern
	}
	if cycle > 0 && int64(count) > int64(math.MaxInt64)/int64(cycle) {
		return nil, ErrDurationOverflow
	}
	return repeated{child: p, cycle: cycle, total: cycle * time.Duration(count)}, nil
}

func (r repeated) Sample(t time.Duration) float64 {
	if r.cycle == 0 {
		return 0
	}
	return r.child.Sample(t % r.cycle)
}

func (r repeated) Duration() (time.Duration, bool) { return r.total, true }

type chained struct {
	first, second Pattern
	split         time.Duration
	total         time.Duration
	finite        bool
}

// Chain plays first to completion, then second. first must be finite
// (ErrInfinitePattern): nothing can follow an infinite pattern in time.
// second may be infinite, in which case the chain is infinite too.
func Chain(first, second Pattern) (Pattern, error) {
	if first == nil || second == nil {
		return nil, ErrNilPattern
	}
	split, finite := first.Duration()
	if !finite {
		return nil, ErrInfinitePattern
	}
	c := chained{first: first, second: second, split: split}
	if rest, ok := second.Duration(); ok {
		total, err := addDurations(split, rest)
		if err != nil {
			return nil, err
		}
		c.total, c.finite = total, true
	}
	return c, nil
}

func (c chained) Sample(t time.Duration) float64 {
	if t < c.split {
		return c.first.Sample(t)
	}
	return c.second.Sample(t - c.split)
}

func (c chained) Duration() (time.Duration, bool) { return c.total, c.finite }

type looped struct {
	child Pattern
	cycle time.Duration
}

// Forever loops p without end. p must be finite (ErrInfinitePattern) and of
// non-zero duration (ErrZeroCycle: the cycle modulus of an instantaneous
// segment is undefined).
func Forever(p Pattern) (Pattern, error) {
	if p == nil {
		return nil, ErrNilPattern
	}
	cycle, finite := p.Duration()
	if !finite {
		return nil, ErrInfinitePattern
	}
	if cycle == 0 {
		return nil, ErrZeroCycle
	}
	return looped{child: p, cycle: cycle}, nil
}

func (l looped) Sample(t time.Duration) float64 { return l.child.Sample(t % l.cycle) }

func (l looped) Duration() (time.Duration, bool) { return 0, false }

type clipped struct {
	child Pattern
	span  time.Duration
}

// Clip truncates p to the first d. p must be infinite or at least d long
// (ErrClipRange), so the clipped window never samples past p's end.
// Combined with Repeat this expresses fractional repetition:
// Clip(Forever(p), 2500*ms) plays two and a half cycles of a 1s pattern.
func Clip(p Pattern, d time.Duration) (Pattern, error) {
	if p == nil {
		return nil, ErrNilPattern
	}
	if d < 0 {
		return nil, ErrNegativeDuration
	}
	if full, finite := p.Duration(); finite && d > full {
		return nil, ErrClipRange
	}
	return clipped{child: p, span: d}, nil
}

func (c clipped) Sample(t time.Duration) float64  { return c.child.Sample(t) }
func (c clipped) Duration() (time.Duration, bool) { return c.span, true }

type shifted struct {
	child  Pattern
	offset time.Duration
	span   time.Duration
	finite bool
}

// Shift skips the first offset of p: Sample(t) = p.Sample(t + offset).
// For a finite p the offset must not exceed its duration (ErrOffsetRange);
// an infinite p stays infinite.
func Shift(p Pattern, offset time.Duration) (Pattern, error) {
	if p == nil {
		return nil, ErrNilPattern
	}
	if offset < 0 {
		return nil, ErrNegativeDuration
	}
	s := shifted{child: p, offset: offset}
	if full, finite := p.Duration(); finite {
		if offset > full {
			return nil, ErrOffsetRange
		}
		s.span, s.finite = full-offset, true
	}
	return s, nil
}

func (s shifted) Sample(t time.Duration) float64  { return s.child.Sample(t + s.offset) }
func (s shifted) Duration() (time.Duration, bool) { return s.span, s.finite }

type stretched struct {
	child  Pattern
	factor float64
	limit  time.Duration // child duration when finite, for tail rounding
	span   time.Duration
	finite bool
}

// Stretch scales p in the time domain by factor: a factor of 2 doubles its
// length, 0.5 halves it. factor must be positive and finite
// (ErrScaleFactor); the scaled duration must fit in a time.Duration
// (ErrDurationOverflow).
func Stretch(p Pattern, factor float64) (Pattern, error) {
	if p == nil {
		return nil, ErrNilPattern
	}
	if !(factor > 0) || math.IsInf(factor, 1) {
		return nil, ErrScaleFactor
	}
	s := stretched{child: p, factor: factor}
	if full, finite := p.Duration(); finite {
		scaled := float64(full) * factor
		if scaled > float64(math.MaxInt64) {
			return nil, ErrDurationOverflow
		}
		s.limit = full
		s.span, s.finite = time.Duration(scaled), true
	}
	return s, nil
}

func (s stretched) Sample(t time.Duration) float64 {
	inner := time.Duration(float64(t) / s.factor)
	// Rounding can land exactly on the child's end when t is the last
	// representable offset; pull it back inside the defined window.
	if s.finite && inner >= s.limit && s.limit > 0 {
		inner = s.limit - 1
	}
	return s.child.Sample(inner)
}

func (s stretched) Duration() (time.Duration, bool) { return s.span, s.finite }

type gained struct {
	child  Pattern
	factor float64
}

// Gain scales p in the intensity domain by factor, saturating at 1.0 so the
// result stays a valid intensity. factor must be non-negative and finite
// (ErrGainFactor). A factor below 1 attenuates; above 1 amplifies with
// clipping.
func Gain(p Pattern, factor float64) (Pattern, error) {
	if p == nil {
		return nil, ErrNilPattern
	}
	if factor < 0 || math.IsInf(factor, 1) || math.IsNaN(factor) {
		return nil, ErrGainFactor
	}
	return gained{child: p, factor: factor}, nil
}

func (g gained) Sample(t time.Duration) float64 {
	v := g.factor * g.child.Sample(t)
	if v > 1 {
		return 1
	}
	return v
}

func (g gained) Duration() (time.Duration, bool) { return g.child.Duration() }

type modulated struct {
	child, mod Pattern
}

// Multiply modulates p's amplitude by mod, sample by sample. Since both
// factors lie in [0, 1] the product does too. mod must cover p's whole
// duration: infinite, or at least as long as a finite p (ErrShortModulator).
// The result has p's duration.
func Multiply(p, mod Pattern) (Pattern, error) {
	if p == nil || mod == nil {
		return nil, ErrNilPattern
	}
	span, finite := p.Duration()
	modSpan, modFinite := mod.Duration()
	if modFinite && (!finite || modSpan < span) {
		return nil, ErrShortModulator
	}
	return modulated{child: p, mod: mod}, nil
}

func (m modulated) Sample(t time.Duration) float64 {
	return m.child.Sample(t) * m.mod.Sample(t)
}

func (m modulated) Duration() (time.Duration, bool) { return m.child.Duration() }

// mixer holds the shared state of the two-operand mixing combinators (Add,
// Subtract, Average): both operands are sampled at the same instant, a
// finite operand that has already ended contributes silence, and the mix
// lasts as long as the longer operand.
type mixer struct {
	a, b             Pattern
	aSpan, bSpan     time.Duration
	aFinite, bFinite bool
	span             time.Duration
	finite           bool
}

func newMixer(a, b Pattern) (mixer, error) {
	if a == nil || b == nil {
		return mixer{}, ErrNilPattern
	}
	m := mixer{a: a, b: b}
	m.aSpan, m.aFinite = a.Duration()
	m.bSpan, m.bFinite = b.Duration()
	if m.aFinite && m.bFinite {
		m.span, m.finite = max(m.aSpan, m.bSpan), true
	}
	return m, nil
}

func (m mixer) sampleA(t time.Duration) float64 {
	if m.aFinite && t >= m.aSpan {
		return 0
	}
	return m.a.Sample(t)
}

func (m mixer) sampleB(t time.Duration) float64 {
	if m.bFinite && t >= m.bSpan {
		return 0
	}
	return m.b.Sample(t)
}

func (m mixer) Duration() (time.Duration, bool) { return m.span, m.finite }

type added struct{ mixer }

// Add mixes two patterns by summing their samples at the same instant,
// saturating at 1.0 so the result stays a valid intensity. Once a finite
// operand ends it contributes silence; the mix lasts as long as the longer
// operand and is infinite when either operand is.
func Add(a, b Pattern) (Pattern, error) {
	m, err := newMixer(a, b)
	if err != nil {
		return nil, err
	}
	return added{m}, nil
}

func (x added) Sample(t time.Duration) float64 {
	v := x.sampleA(t) + x.sampleB(t)
	if v > 1 {
		return 1
	}
	return v
}

type subtracted struct{ mixer }

// Subtract mixes two patterns by subtracting b's samples from a's, flooring
// at 0.0. Duration and end-of-operand behavior follow Add: an ended operand
// contributes silence, the mix lasts as long as the longer operand.
func Subtract(a, b Pattern) (Pattern, error) {
	m, err := newMixer(a, b)
	if err != nil {
		return nil, err
	}
	return subtracted{m}, nil
}

func (x subtracted) Sample(t time.Duration) float64 {
	v := x.sampleA(t) - x.sampleB(t)
	if v < 0 {
		return 0
	}
	return v
}

type averaged struct{ mixer }

// Average mixes two patterns as the midpoint of their samples. The blend is
// a convex combination, so intensities stay in [0, 1] with no saturation.
// Duration and end-of-operand behavior follow Add.
func Average(a, b Pattern) (Pattern, error) {
	m, err := newMixer(a, b)
	if err != nil {
		return nil, err
	}
	return averaged{m}, nil
}

func (x averaged) Sample(t time.Duration) float64 {
	return (x.sampleA(t) + x.sampleB(t)) / 2
}

type crossfaded struct {
	first, second Pattern
	fadeStart     time.Duration // first duration - overlap
	split         time.Duration // first duration
	overlap       time.Duration
	total         time.Duration
	finite        bool
}

// Crossfade chains first into second with a linear blend over the last
// overlap of first and the first overlap of second. first must be finite
// (ErrInfinitePattern); overlap must not exceed either side
// (ErrOverlapRange). The blend is a convex combination, so intensities stay
// in [0, 1]. An overlap of zero degenerates to Chain.
func Crossfade(first, second Pattern, overlap time.Duration) (Pattern, error) {
	if first == nil || second == nil {
		return nil, ErrNilPattern
	}
	if overlap < 0 {
		return nil, ErrNegativeDuration
	}
	split, finite := first.Duration()
	if !finite {
		return nil, ErrInfinitePattern
	}
	if overlap > split {
		return nil, ErrOverlapRange
	}
	c := crossfaded{
		first:     first,
		second:    second,
		fadeStart: split - overlap,
		split:     split,
		overlap:   overlap,
	}
	if rest, ok := second.Duration(); ok {
		if overlap > rest {
			return nil, ErrOverlapRange
		}
		total, err := addDurations(split, rest-overlap)
		if err != nil {
			return nil, err
		}
		c.total, c.finite = total, true
	}
	return c, nil
}

func (c crossfaded) Sample(t time.Duration) float64 {
	switch {
	case t < c.fadeStart:
		return c.first.Sample(t)
	case t < c.split:
		w := float64(t-c.fadeStart) / float64(c.overlap)
		return (1-w)*c.first.Sample(t) + w*c.second.Sample(t-c.fadeStart)
	default:
		return c.second.Sample(t - c.fadeStart)
	}
}

func (c crossfaded) Duration() (time.Duration, bool) { return c.total, c.finite }
