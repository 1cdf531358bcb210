// Package pattern provides a composable algebra of time-varying intensity
// signals: primitive waveforms plus combinators that build arbitrarily
// complex, possibly-infinite patterns while preserving well-defined timing
// and value semantics.
//
// What:
//
//   - Pattern: a pure value sampled by elapsed offset, reporting its span
//     and whether it ever ends.
//   - Primitives: Constant, Sine, Ramp, Square, Triangle, Saw, Noise.
//   - Combinators: Repeat, Chain, Forever, Clip, Shift, Stretch, Gain,
//     Multiply, Crossfade — each returns a new immutable value.
//   - Builder: fluent composition with first-error capture via Compose.
//
// Why:
//
//   - Haptic actuation: build vibration envelopes from small reusable parts.
//   - Testability: sampling is deterministic, so traces can be recorded,
//     replayed, and compared against golden data.
//   - Safety: every misuse (out-of-range intensity, negative duration,
//     chaining after an infinite pattern) fails at construction, never
//     mid-run.
//
// Semantics:
//
//   - Intensity values are float64 in [0.0, 1.0].
//   - A finite pattern is defined only for offsets in [0, duration);
//     callers must not sample past the reported duration.
//   - Zero duration is legal and denotes an instantaneous, skippable segment.
//   - Patterns are immutable once constructed and safe to share across
//     concurrently running drivers.
//
// Errors:
//
//   - ErrInvalidParameter: out-of-range amplitude, negative duration,
//     non-positive repeat count, bad scale factors (wrap-root; granular
//     sentinels such as ErrIntensityRange wrap it).
//   - ErrUnsupportedComposition: composing with an infinite pattern in a
//     position that requires finiteness (wrap-root; ErrInfinitePattern and
//     friends wrap it).
//   - ErrNilPattern: a nil child was supplied to a combinator.
package pattern
