// ABOUTME: Fixed-frequency sine test tone source
// ABOUTME: Phase accumulator wraps modulo the table resolution
package source

import "math"

// DefaultToneSteps is the default tone table resolution in steps per cycle.
const DefaultToneSteps = 100

// FixedTone generates a sine test tone at a fixed audio frequency,
// independent of any file. The phase advances by toneHz*steps/carrierHz per
// sample and wraps modulo the table resolution, so the emitted sequence is
// periodic and fully deterministic.
type FixedTone struct {
	phase float64
	inc   float64
	steps float64
}

// NewFixedTone creates a tone source. steps is the table resolution in steps
// per cycle; pass DefaultToneSteps for the standard 100.
func NewFixedTone(toneHz, carrierHz float64, steps int) *FixedTone {
	return &FixedTone{
		inc:   toneHz * float64(steps) / carrierHz,
		steps: float64(steps),
	}
}

// Next returns 128 + round(127*sin(2π·phase/steps)) and advances the phase.
func (t *FixedTone) Next() byte {
	v := 128 + math.Round(127*math.Sin(2*math.Pi*t.phase/t.steps))

	t.phase += t.inc
	if t.phase >= t.steps {
		t.phase = math.Mod(t.phase, t.steps)
	}

	return byte(v)
}
