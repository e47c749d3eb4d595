// ABOUTME: Hysteresis debounce for the playback trigger line
// ABOUTME: Polled from the main loop; emits one event per confirmed assertion
package trigger

import (
	"time"

	"github.com/Bwooce/soundprojector/internal/hal"
)

// DefaultWindow is the stable period required before a raw level change is
// confirmed.
const DefaultWindow = 50 * time.Millisecond

// Debouncer filters the trigger line. The line is active-low: pulled to
// ground means asserted. Any raw level change restarts the debounce window;
// once the raw level has held for the full window and differs from the last
// confirmed level, the confirmed level flips. A confirmed deasserted to
// asserted transition is reported exactly once.
//
// Poll cadence must be shorter than the physical button dwell; the design
// assumes tens of milliseconds.
type Debouncer struct {
	input  hal.DigitalInput
	window time.Duration
	now    func() time.Time

	started    bool
	raw        bool // logical level: true = asserted
	confirmed  bool
	lastChange time.Time
}

// New creates a debouncer. now is the time source, injectable for tests;
// pass time.Now in production.
func New(input hal.DigitalInput, window time.Duration, now func() time.Time) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		input:  input,
		window: window,
		now:    now,
	}
}

// Poll samples the line once and returns true when a confirmed assertion
// edge fired. Called once per main-loop pass, never from the tick.
func (d *Debouncer) Poll() bool {
	asserted := !d.input.Read() // active-low

	t := d.now()

	// First poll adopts whatever level the line is at, without an event.
	// A button held down across boot does not start playback.
	if !d.started {
		d.started = true
		d.raw = asserted
		d.confirmed = asserted
		d.lastChange = t
		return false
	}

	if asserted != d.raw {
		d.raw = asserted
		d.lastChange = t
		return false
	}

	if d.raw != d.confirmed && t.Sub(d.lastChange) >= d.window {
		d.confirmed = d.raw
		return d.confirmed
	}

	return false
}

// Confirmed returns the current debounced level, true meaning asserted.
func (d *Debouncer) Confirmed() bool {
	return d.confirmed
}
