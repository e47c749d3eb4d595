// ABOUTME: Hardware abstraction for the projector's sample clock, PWM, GPIO and ADC
// ABOUTME: Interfaces only; sim implementations live in sim.go
package hal

// SampleClock invokes a callback at a fixed nominal rate. It models the
// hardware timer that drives the modulation engine once per carrier period.
type SampleClock interface {
	// Start begins invoking tick at the clock's rate. The callback must be
	// non-blocking; it is called from a single goroutine, never concurrently
	// with itself.
	Start(tick func()) error
	// Stop halts the clock. No ticks are delivered after Stop returns.
	Stop()
}

// PWMOutput is a duty-cycle-controlled output. The carrier output and the
// status LED are both PWMOutputs at different frequencies.
type PWMOutput interface {
	// Configure sets the output frequency and returns the frequency actually
	// achieved, which may deviate from the request due to divider granularity.
	Configure(freqHz uint32) (actualHz uint32, err error)
	// SetDuty sets the duty value, 0 (off) to Top() (fully on).
	SetDuty(value uint32)
	// Top returns the maximum duty value (255 for the 8-bit carrier output).
	Top() uint32
}

// DigitalInput is a single digital line. Read returns the raw electrical
// level; the trigger line is active-low, so false means asserted.
type DigitalInput interface {
	Read() bool
}

// AnalogInput is a single ADC channel returning native-resolution samples
// (12-bit on the reference hardware, so 0-4095).
type AnalogInput interface {
	Read() uint16
}
