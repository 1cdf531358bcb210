package pattern_test

import (
	"fmt"
	"time"

	"github.com/thrumlab/thrum/pattern"
)

// ExampleSine pins the documented waveform convention: a raised-cosine cycle
// rising from 0 to the amplitude at mid-period and back.
func ExampleSine() {
	wave, err := pattern.Sine(1.0, time.Second)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%.2f %.2f %.2f\n",
		wave.Sample(0),
		wave.Sample(250*time.Millisecond),
		wave.Sample(500*time.Millisecond),
	)
	// Output:
	// 0.00 0.50 1.00
}

// ExampleCompose builds a pulse train: a 2s swell followed by 1s of rest,
// played twice.
func ExampleCompose() {
	swell, _ := pattern.Sine(1.0, 2*time.Second)
	rest, _ := pattern.Constant(0, time.Second)

	p, err := pattern.Compose(swell).Chain(rest).Repeat(2).Pattern()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	d, _ := p.Duration()
	fmt.Println(d)
	fmt.Printf("%.2f\n", p.Sample(time.Second))   // first swell peak
	fmt.Printf("%.2f\n", p.Sample(4*time.Second)) // second swell peak
	fmt.Printf("%.2f\n", p.Sample(5*time.Second)) // second rest
	// Output:
	// 6s
	// 1.00
	// 1.00
	// 0.00
}

// ExampleForever shows that an endless pattern reports no duration and wraps
// its child's cycle.
func ExampleForever() {
	blip, _ := pattern.Square(0.8, time.Second, 0.5)
	heartbeat, err := pattern.Forever(blip)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_, finite := heartbeat.Duration()
	fmt.Println("finite:", finite)
	fmt.Printf("%.1f %.1f\n",
		heartbeat.Sample(10*time.Second),
		heartbeat.Sample(10*time.Second+750*time.Millisecond),
	)
	// Output:
	// finite: false
	// 0.8 0.0
}
