// ABOUTME: Live analog input source
// ABOUTME: Scales native ADC resolution down to the 8-bit modulation range
package source

import "github.com/Bwooce/soundprojector/internal/hal"

// LiveInput modulates the carrier with samples read directly from an ADC
// channel, for feeding line-level audio straight through the projector.
type LiveInput struct {
	adc   hal.AnalogInput
	shift uint
}

// NewLiveInput creates a live source. resolutionBits is the ADC's native
// sample width; readings are right-shifted down to 8 bits.
func NewLiveInput(adc hal.AnalogInput, resolutionBits uint) *LiveInput {
	shift := uint(0)
	if resolutionBits > 8 {
		shift = resolutionBits - 8
	}
	return &LiveInput{adc: adc, shift: shift}
}

func (l *LiveInput) Next() byte {
	return byte(l.adc.Read() >> l.shift)
}
