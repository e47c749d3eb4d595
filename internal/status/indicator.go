// ABOUTME: Status LED indicator with two discrete brightness levels
// ABOUTME: Dim while ready, bright while a session is playing
package status

import "github.com/Bwooce/soundprojector/internal/hal"

// Default duty levels for an 8-bit LED output.
const (
	DefaultReadyLevel   = 16
	DefaultPlayingLevel = 255
)

// Indicator maps playback state to an LED intensity. It is an optional
// collaborator: a nil *Indicator is safe to call and does nothing.
type Indicator struct {
	led     hal.PWMOutput
	ready   uint32
	playing uint32
}

// New creates an indicator driving the given PWM output. Level values are
// clamped to the output's top.
func New(led hal.PWMOutput, readyLevel, playingLevel uint32) *Indicator {
	top := led.Top()
	if readyLevel > top {
		readyLevel = top
	}
	if playingLevel > top {
		playingLevel = top
	}
	return &Indicator{led: led, ready: readyLevel, playing: playingLevel}
}

// Ready sets the dim idle level.
func (i *Indicator) Ready() {
	if i == nil {
		return
	}
	i.led.SetDuty(i.ready)
}

// Playing sets the bright playback level.
func (i *Indicator) Playing() {
	if i == nil {
		return
	}
	i.led.SetDuty(i.playing)
}
