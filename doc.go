// Package thrum generates time-varying intensity signals ("patterns") and
// actuates them on physical output devices at a controlled sample rate —
// from primitive waveforms to composed, possibly-infinite sequences.
//
// 🚀 What is thrum?
//
//	A small, composable haptics library that brings together:
//		• Primitives: constant, sine, ramp, square, triangle, saw, seeded noise
//		• Combinators: repeat, chain, forever, clip, shift, stretch, gain,
//		  multiply, crossfade — all validated at construction, never at runtime
//		• A soft real-time Driver: drift-free tick schedule, bounded retries,
//		  cooperative cancellation, guaranteed neutral command on every exit
//		• Device adapters: MIDI control change, audible tone preview,
//		  and a recording sink for tests and replay
//
// ✨ Why choose thrum?
//
//   - Beginner-friendly – minimal API, clear, intuitive naming
//   - Rock-solid guarantees – immutable pattern values, in-code docs & hooks
//   - Deterministic – the same pattern sampled at the same offset always
//     yields the same intensity, so runs can be recorded and replayed
//   - Extensible – implement driver.Sink for any transport
//
// Under the hood, everything is organized under five subpackages:
//
//	pattern/  — the signal algebra: Pattern values, primitives, combinators
//	driver/   — the sampling loop and the Sink device capability
//	record/   — recording Sink for golden tests and replay
//	midisink/ — Sink adapter over MIDI control change messages
//	tonesink/ — Sink adapter that renders intensity as an audible tone
//
// Quick sketch:
//
//	wave, _ := pattern.Sine(1.0, time.Second)
//	rest, _ := pattern.Constant(0, time.Second)
//	p, _ := pattern.Compose(wave).Chain(rest).Repeat(4).Pattern()
//
//	d, _ := driver.New(sink, p)
//	res, err := d.Run(ctx) // Completed, Cancelled, or DeviceUnavailable
//
// Dive into examples/ for runnable demos against real and fake devices.
//
//	go get github.com/thrumlab/thrum
package thrum
