// Package driver samples a pattern on a soft real-time schedule and streams
// the resulting intensities to a device sink, tolerating device latency,
// disconnection, and cancellation without drift or resource leaks.
//
// What:
//
//   - Sink: the minimal device capability the driver consumes — submit one
//     intensity, or command the neutral/stop state.
//   - Driver: binds a Sink and a root Pattern; Run walks time forward on a
//     fixed tick, queries the pattern, and pushes each sample to the sink.
//   - Options: tick interval, retry policy, submission timeout, and
//     observability hooks — explicit options, no hidden globals.
//
// Why:
//
//   - Haptic actuation needs tens-of-milliseconds pacing, not microsecond
//     hard real-time: ticks are scheduled against absolute instants from the
//     run start, so jitter in one tick never accumulates into drift.
//   - Device links hiccup: transient submission failures are retried with
//     bounded backoff; terminal failures abort the run after a best-effort
//     neutral command, so the device is never left buzzing.
//
// Lifecycle:
//
//	d, err := driver.New(sink, p, driver.WithTickInterval(40*time.Millisecond))
//	res, err := d.Run(ctx)   // blocks; returns Completed, Cancelled,
//	                         // or DeviceUnavailable
//	d.Stop()                 // from another goroutine: cooperative cancel
//
// Run always ends deterministically: a finite pattern completes when its
// duration is exhausted; an infinite pattern runs until the context is done,
// Stop is called, or the sink fails terminally. Every exit path sends a
// best-effort neutral command so the last commanded state is never stale.
//
// Ordering: one Driver submits samples strictly in increasing time order,
// one at a time. Independent Drivers share no state and may run
// concurrently; handing one device channel to two Drivers at once is a
// caller error the package does not arbitrate.
//
// Errors:
//
//   - ErrOptionViolation: an invalid Option was supplied to New.
//   - ErrNilSink, ErrNilPattern: missing collaborators.
//   - ErrAlreadyRunning: Run re-entered while a run is in progress.
//   - ErrDeviceUnavailable: terminal sink failure; wraps the sink's error.
//   - ErrTransient, ErrDisconnected: classification sentinels for Sink
//     implementations to wrap.
package driver
