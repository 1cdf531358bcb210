package midisink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.com/gomidi/midi/v2"
)

// Opening real ports needs a MIDI backend; everything below the port is
// exercised through an in-memory send function instead.
func TestLevelToCC(t *testing.T) {
	cases := []struct {
		level float64
		want  uint8
	}{
		{0, 0},
		{1, 127},
		{0.5, 64},  // 63.5 rounds up
		{0.25, 32}, // 31.75 rounds up
		{0.004, 1}, // just above half a step
		{0.003, 0}, // just below half a step
		{-0.5, 0},  // saturated low
		{1.5, 127}, // saturated high
	}
	for _, tc := range cases {
		require.Equalf(t, tc.want, levelToCC(tc.level), "level %v", tc.level)
	}
}

// stubSink builds a Sink over an in-memory send function, bypassing Open.
func stubSink(send func(midi.Message) error) *Sink {
	return &Sink{
		channel:    DefaultChannel,
		controller: DefaultController,
		send:       send,
		gate:       make(chan struct{}, 1),
	}
}

func TestSubmit_SendsControlChange(t *testing.T) {
	var got []midi.Message
	s := stubSink(func(m midi.Message) error {
		got = append(got, m)
		return nil
	})

	require.NoError(t, s.Submit(context.Background(), 0.5))
	require.NoError(t, s.Neutral(context.Background()))

	require.Len(t, got, 2)
	require.Equal(t, midi.ControlChange(DefaultChannel, DefaultController, 64), got[0])
	require.Equal(t, midi.ControlChange(DefaultChannel, DefaultController, 0), got[1])
}

// A port that stops answering must not stall the caller past its deadline,
// and must not have further messages piled onto it while wedged.
func TestSubmit_BoundedByContext(t *testing.T) {
	release := make(chan struct{})
	sends := make(chan struct{}, 8)
	s := stubSink(func(midi.Message) error {
		sends <- struct{}{}
		<-release
		return nil
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, s.Submit(ctx, 0.5), context.DeadlineExceeded)

	// The wedged send still holds the gate, so the next submission fails on
	// its own deadline without reaching the port.
	ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()
	require.ErrorIs(t, s.Submit(ctx2, 0.1), context.DeadlineExceeded)
	require.Len(t, sends, 1)
}
