// ABOUTME: Tests for the status LED indicator
// ABOUTME: Two discrete levels, nil indicator is a no-op
package status

import (
	"testing"

	"github.com/Bwooce/soundprojector/internal/hal"
)

func TestIndicatorLevels(t *testing.T) {
	led := &hal.SimPWM{TopValue: 255}
	ind := New(led, 16, 255)

	ind.Ready()
	if led.LastDuty() != 16 {
		t.Errorf("ready duty %d, want 16", led.LastDuty())
	}

	ind.Playing()
	if led.LastDuty() != 255 {
		t.Errorf("playing duty %d, want 255", led.LastDuty())
	}

	ind.Ready()
	if led.LastDuty() != 16 {
		t.Errorf("back to ready duty %d, want 16", led.LastDuty())
	}
}

func TestIndicatorClampsToTop(t *testing.T) {
	led := &hal.SimPWM{TopValue: 100}
	ind := New(led, 500, 600)

	ind.Playing()
	if led.LastDuty() != 100 {
		t.Errorf("duty %d, want clamped 100", led.LastDuty())
	}
}

func TestNilIndicatorIsSafe(t *testing.T) {
	var ind *Indicator
	ind.Ready()
	ind.Playing()
}
