// ABOUTME: Simulated hardware implementations for host runs and tests
// ABOUTME: TickerClock batches ticks to hold an aggregate rate; ManualClock steps by hand
package hal

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// TickerClock delivers ticks at an aggregate nominal rate by waking on a
// coarse wall-clock ticker and running the callback in batches, the way an
// audio callback fills a buffer. Individual tick spacing is not uniform;
// the long-run rate is.
type TickerClock struct {
	// RateHz is the nominal tick rate.
	RateHz uint32
	// Wake is the wall-clock wakeup interval. Zero means 10ms.
	Wake time.Duration

	mu   sync.Mutex
	done chan struct{}
}

// Start begins the tick loop.
func (c *TickerClock) Start(tick func()) error {
	if c.RateHz == 0 {
		return fmt.Errorf("ticker clock: rate must be positive")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != nil {
		return fmt.Errorf("ticker clock: already started")
	}
	c.done = make(chan struct{})

	wake := c.Wake
	if wake == 0 {
		wake = 10 * time.Millisecond
	}

	go c.run(tick, wake, c.done)

	return nil
}

func (c *TickerClock) run(tick func(), wake time.Duration, done chan struct{}) {
	ticker := time.NewTicker(wake)
	defer ticker.Stop()

	start := time.Now()
	var delivered uint64

	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			// Catch up to where the nominal rate says we should be.
			due := uint64(now.Sub(start).Seconds() * float64(c.RateHz))
			for delivered < due {
				tick()
				delivered++
			}
		}
	}
}

// Stop halts the clock.
func (c *TickerClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}

// ManualClock is a test clock stepped explicitly.
type ManualClock struct {
	tick func()
}

func (c *ManualClock) Start(tick func()) error {
	c.tick = tick
	return nil
}

func (c *ManualClock) Stop() { c.tick = nil }

// Step delivers n ticks synchronously.
func (c *ManualClock) Step(n int) {
	for i := 0; i < n && c.tick != nil; i++ {
		c.tick()
	}
}

// HostPWM is the non-recording PWM output the daemon runs on when no real
// board is attached. It keeps only the most recent duty value in an atomic
// word, so driving it from the tick allocates nothing and never grows.
type HostPWM struct {
	// TopValue is the maximum duty value. Zero means 255.
	TopValue uint32

	duty atomic.Uint32
}

// Configure accepts any positive frequency and reports it achieved exactly.
func (p *HostPWM) Configure(freqHz uint32) (uint32, error) {
	if freqHz == 0 {
		return 0, fmt.Errorf("host pwm: frequency must be positive")
	}
	return freqHz, nil
}

// SetDuty stores the value, clamped to Top.
func (p *HostPWM) SetDuty(value uint32) {
	if top := p.Top(); value > top {
		value = top
	}
	p.duty.Store(value)
}

// Top returns the maximum duty value, defaulting to 255.
func (p *HostPWM) Top() uint32 {
	if p.TopValue == 0 {
		return 255
	}
	return p.TopValue
}

// Duty returns the most recent duty write.
func (p *HostPWM) Duty() uint32 {
	return p.duty.Load()
}

// SimPWM records every duty write for test assertions. The unbounded trace
// makes it unsuitable as a production output; the daemon uses HostPWM.
// DeviationHz offsets the reported actual frequency to exercise
// carrier-mismatch reporting.
type SimPWM struct {
	TopValue    uint32
	DeviationHz int32

	mu     sync.Mutex
	duties []uint32
}

// Configure records the requested frequency and reports it shifted by
// DeviationHz.
func (p *SimPWM) Configure(freqHz uint32) (uint32, error) {
	if freqHz == 0 {
		return 0, fmt.Errorf("sim pwm: frequency must be positive")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	actual := int64(freqHz) + int64(p.DeviationHz)
	if actual < 1 {
		actual = 1
	}
	return uint32(actual), nil
}

// SetDuty appends the written value to the recorded trace.
func (p *SimPWM) SetDuty(value uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if value > p.Top() {
		value = p.TopValue
	}
	p.duties = append(p.duties, value)
}

// Top returns the maximum duty value, defaulting to 255.
func (p *SimPWM) Top() uint32 {
	if p.TopValue == 0 {
		return 255
	}
	return p.TopValue
}

// Duties returns a copy of all duty values written so far.
func (p *SimPWM) Duties() []uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]uint32, len(p.duties))
	copy(out, p.duties)
	return out
}

// LastDuty returns the most recent duty write, or 0 if none.
func (p *SimPWM) LastDuty() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.duties) == 0 {
		return 0
	}
	return p.duties[len(p.duties)-1]
}

// Reset clears the recorded trace.
func (p *SimPWM) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duties = nil
}

// SimInput is a test-settable digital line. The zero value reads high,
// matching a pulled-up trigger line at rest.
type SimInput struct {
	mu  sync.Mutex
	low bool
}

// Read returns the raw level.
func (i *SimInput) Read() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return !i.low
}

// SetLevel sets the raw level.
func (i *SimInput) SetLevel(high bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.low = !high
}

// SimADC replays a programmed sequence of readings, then repeats the last
// one. An empty sequence reads mid-scale.
type SimADC struct {
	Sequence []uint16

	mu  sync.Mutex
	pos int
}

// Read returns the next programmed sample.
func (a *SimADC) Read() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.Sequence) == 0 {
		return 2048
	}
	v := a.Sequence[a.pos]
	if a.pos < len(a.Sequence)-1 {
		a.pos++
	}
	return v
}
