// ABOUTME: Tests for the modulation engine
// ABOUTME: Covers source priority, finished handling and fallback behavior
package engine

import (
	"context"
	"math"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Bwooce/soundprojector/internal/hal"
	"github.com/Bwooce/soundprojector/internal/playback"
	"github.com/Bwooce/soundprojector/internal/source"
	"github.com/Bwooce/soundprojector/internal/trigger"
)

func testController(files map[string][]byte) *playback.Controller {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: data}
	}
	return playback.NewController(playback.OpenFS(fsys), 40000)
}

func testEngine(t *testing.T, files map[string][]byte, fallback source.Source) (*Engine, *hal.SimPWM) {
	t.Helper()

	pwm := &hal.SimPWM{TopValue: 255}
	eng, err := New(Config{
		Carrier:    pwm,
		Clock:      &hal.ManualClock{},
		Controller: testController(files),
		Fallback:   fallback,
		CarrierHz:  40000,
		AudioFile:  "clip.raw",
	})
	if err != nil {
		t.Fatalf("engine creation failed: %v", err)
	}
	return eng, pwm
}

func TestFilePlaybackPreemptsTone(t *testing.T) {
	clip := []byte{10, 200, 0}
	tone := source.NewFixedTone(1000, 40000, 100)
	eng, pwm := testEngine(t, map[string][]byte{"clip.raw": clip}, tone)

	// Run a few tone ticks first so the phase is mid-cycle.
	eng.Tick()
	eng.Tick()
	pwm.Reset()

	eng.startPlayback("test")
	if !eng.cfg.Controller.IsActive() {
		t.Fatal("expected active session")
	}

	for range clip {
		eng.Tick()
	}

	duties := pwm.Duties()
	for i, want := range clip {
		if duties[i] != uint32(want) {
			t.Errorf("tick %d: duty %d, want file byte %d", i, duties[i], want)
		}
	}

	// These must be the file bytes, not the tone curve the source would
	// have produced at this phase.
	toneNext := byte(128 + math.Round(127*math.Sin(2*math.Pi*2*2.5/100)))
	if duties[0] == uint32(toneNext) && duties[1] == uint32(toneNext) {
		t.Error("engine emitted tone samples during file playback")
	}
}

func TestDoneTickEmitsSilenceThenFallbackResumes(t *testing.T) {
	tone := source.NewFixedTone(1000, 40000, 100)
	eng, pwm := testEngine(t, map[string][]byte{"clip.raw": {9}}, tone)

	eng.startPlayback("test")

	eng.Tick() // the file byte
	eng.Tick() // exhaustion: silence and the deferred finished flag

	duties := pwm.Duties()
	if duties[0] != 9 {
		t.Errorf("first tick: duty %d, want 9", duties[0])
	}
	if duties[1] != 0 {
		t.Errorf("done tick: duty %d, want silence 0", duties[1])
	}
	if !eng.justFinished.Load() {
		t.Error("finished flag not raised for the main loop")
	}

	// Next tick: no active session, the configured fallback runs again.
	eng.Tick()
	want := uint32(128 + math.Round(127*math.Sin(0))) // tone restarts at phase 0
	if got := pwm.LastDuty(); got != want {
		t.Errorf("post-done tick: duty %d, want tone sample %d", got, want)
	}
}

func TestPollReportsFinishedOnce(t *testing.T) {
	transitions := 0
	pwm := &hal.SimPWM{TopValue: 255}
	eng, err := New(Config{
		Carrier:    pwm,
		Clock:      &hal.ManualClock{},
		Controller: testController(map[string][]byte{"clip.raw": {1, 2}}),
		CarrierHz:  40000,
		AudioFile:  "clip.raw",
		OnStateChange: func(st Status) {
			transitions++
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	eng.startPlayback("test") // transition 1: playing
	eng.Tick()
	eng.Tick()
	eng.Tick() // done

	eng.pollOnce() // transition 2: idle
	eng.pollOnce() // no further transitions

	if transitions != 2 {
		t.Errorf("got %d state transitions, want 2", transitions)
	}
}

func TestMissingResourceLeavesFallbackRunning(t *testing.T) {
	tone := source.NewFixedTone(1000, 40000, 100)
	eng, pwm := testEngine(t, map[string][]byte{}, tone)

	eng.startPlayback("test")
	if eng.cfg.Controller.IsActive() {
		t.Fatal("session must stay inactive when the resource is missing")
	}

	want := source.NewFixedTone(1000, 40000, 100)
	for i := 0; i < 10; i++ {
		eng.Tick()
		if got, w := pwm.LastDuty(), uint32(want.Next()); got != w {
			t.Fatalf("tick %d: duty %d, want tone %d", i, got, w)
		}
	}
}

func TestTriggerDuringPlaybackIsSwallowed(t *testing.T) {
	eng, _ := testEngine(t, map[string][]byte{"clip.raw": {1, 2, 3}}, source.Silence{})

	eng.startPlayback("test")
	eng.Tick()

	// A second trigger must not restart or queue.
	eng.startPlayback("test")

	if b, done := eng.cfg.Controller.Advance(); done || b != 2 {
		t.Errorf("stream position disturbed by retrigger: got (%d,%v)", b, done)
	}
}

func TestRemoteTriggerRoutesThroughMainLoop(t *testing.T) {
	eng, pwm := testEngine(t, map[string][]byte{"clip.raw": {42}}, source.Silence{})

	eng.RequestPlayback("remote test")
	if eng.cfg.Controller.IsActive() {
		t.Fatal("request must not start playback before the main loop runs")
	}

	eng.pollOnce()
	if !eng.cfg.Controller.IsActive() {
		t.Fatal("main loop did not apply the queued trigger")
	}

	eng.Tick()
	if got := pwm.LastDuty(); got != 42 {
		t.Errorf("duty %d, want 42", got)
	}
}

func TestStatusSnapshot(t *testing.T) {
	eng, _ := testEngine(t, map[string][]byte{"clip.raw": {1, 2, 3}}, source.Silence{})

	st := eng.Status()
	if st.State != StateIdle {
		t.Errorf("state %q, want %q", st.State, StateIdle)
	}

	eng.startPlayback("test")
	eng.Tick()

	st = eng.Status()
	if st.State != StatePlaying {
		t.Errorf("state %q, want %q", st.State, StatePlaying)
	}
	if st.File != "clip.raw" {
		t.Errorf("file %q, want clip.raw", st.File)
	}
	if st.Position != 1 {
		t.Errorf("position %d, want 1", st.Position)
	}
	if st.Length != 3 {
		t.Errorf("length %d, want 3", st.Length)
	}
	if st.SessionID == "" {
		t.Error("expected a session id")
	}
}

func TestRunConfiguresCarrierAndStops(t *testing.T) {
	pwm := &hal.SimPWM{TopValue: 255, DeviationHz: 160}
	line := &hal.SimInput{}
	eng, err := New(Config{
		Carrier:      pwm,
		Clock:        &hal.ManualClock{},
		Controller:   testController(nil),
		Debouncer:    trigger.New(line, 50*time.Millisecond, time.Now),
		CarrierHz:    40000,
		AudioFile:    "clip.raw",
		PollInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not stop on context cancellation")
	}

	if eng.Status().CarrierHz != 40160 {
		t.Errorf("achieved carrier %d, want 40160", eng.Status().CarrierHz)
	}
}
