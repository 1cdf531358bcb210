// Fluent composition. The Builder records the first error and short-circuits
// every later step, so a whole chain can be written without intermediate
// error checks and validated once at the end.
package pattern

import "time"

// Builder composes patterns fluently:
//
//	p, err := pattern.Compose(wave).
//		Chain(rest).
//		Repeat(4).
//		Gain(0.8).
//		Pattern()
//
// Each step consumes the current value and produces a new immutable
// composite; a failing step poisons the builder and Pattern() returns the
// first recorded error.
type Builder struct {
	p   Pattern
	err error
}

// Compose starts a fluent composition from p.
func Compose(p Pattern) *Builder {
	if p == nil {
		return &Builder{err: ErrNilPattern}
	}
	return &Builder{p: p}
}

// ComposeErr starts a fluent composition directly from a constructor call:
//
//	p, err := pattern.ComposeErr(pattern.Sine(1.0, time.Second)).Repeat(3).Pattern()
func ComposeErr(p Pattern, err error) *Builder {
	if err != nil {
		return &Builder{err: err}
	}
	return Compose(p)
}

// step applies op unless an earlier step already failed.
func (b *Builder) step(op func(Pattern) (Pattern, error)) *Builder {
	if b.err != nil {
		return b
	}
	b.p, b.err = op(b.p)
	return b
}

// Repeat plays the current pattern count times. See Repeat.
func (b *Builder) Repeat(count int) *Builder {
	return b.step(func(p Pattern) (Pattern, error) { return Repeat(p, count) })
}

// Chain appends next after the current pattern. See Chain.
func (b *Builder) Chain(next Pattern) *Builder {
	return b.step(func(p Pattern) (Pattern, error) { return Chain(p, next) })
}

// Forever loops the current pattern without end. See Forever.
func (b *Builder) Forever() *Builder {
	return b.step(Forever)
}

// Clip truncates the current pattern to d. See Clip.
func (b *Builder) Clip(d time.Duration) *Builder {
	return b.step(func(p Pattern) (Pattern, error) { return Clip(p, d) })
}

// Shift skips the first offset of the current pattern. See Shift.
func (b *Builder) Shift(offset time.Duration) *Builder {
	return b.step(func(p Pattern) (Pattern, error) { return Shift(p, offset) })
}

// Stretch scales the current pattern in time by factor. See Stretch.
func (b *Builder) Stretch(factor float64) *Builder {
	return b.step(func(p Pattern) (Pattern, error) { return Stretch(p, factor) })
}

// Gain scales the current pattern's intensity by factor. See Gain.
func (b *Builder) Gain(factor float64) *Builder {
	return b.step(func(p Pattern) (Pattern, error) { return Gain(p, factor) })
}

// Multiply modulates the current pattern's amplitude by mod. See Multiply.
func (b *Builder) Multiply(mod Pattern) *Builder {
	return b.step(func(p Pattern) (Pattern, error) { return Multiply(p, mod) })
}

// Add mixes other into the current pattern, saturating at 1.0. See Add.
func (b *Builder) Add(other Pattern) *Builder {
	return b.step(func(p Pattern) (Pattern, error) { return Add(p, other) })
}

// Subtract subtracts other from the current pattern, flooring at 0. See
// Subtract.
func (b *Builder) Subtract(other Pattern) *Builder {
	return b.step(func(p Pattern) (Pattern, error) { return Subtract(p, other) })
}

// Average mixes the current pattern and other as their midpoint. See Average.
func (b *Builder) Average(other Pattern) *Builder {
	return b.step(func(p Pattern) (Pattern, error) { return Average(p, other) })
}

// Crossfade blends the current pattern into next over overlap. See Crossfade.
func (b *Builder) Crossfade(next Pattern, overlap time.Duration) *Builder {
	return b.step(func(p Pattern) (Pattern, error) { return Crossfade(p, next, overlap) })
}

// Pattern returns the composed pattern, or the first error recorded by any
// step.
func (b *Builder) Pattern() (Pattern, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.p, nil
}
