// ABOUTME: Modulation engine: the fixed-rate tick plus the cooperative main loop
// ABOUTME: Tick selects a sample source by priority and writes the PWM duty
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/Bwooce/soundprojector/internal/hal"
	"github.com/Bwooce/soundprojector/internal/playback"
	"github.com/Bwooce/soundprojector/internal/source"
	"github.com/Bwooce/soundprojector/internal/status"
	"github.com/Bwooce/soundprojector/internal/trigger"
)

// DefaultCarrierHz is the nominal ultrasonic carrier frequency.
const DefaultCarrierHz = 40000

// DefaultPollInterval is the main-loop cadence. It doubles as the debounce
// poll interval and keeps the loop yielding often enough for any platform
// watchdog.
const DefaultPollInterval = 10 * time.Millisecond

// State names reported through OnStateChange.
const (
	StateIdle    = "idle"
	StatePlaying = "playing"
)

// Status is a snapshot of the engine, pushed to collaborators on
// transitions and queryable at any time.
type Status struct {
	State     string `json:"state"`
	File      string `json:"file,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Position  int64  `json:"position"`
	Length    int64  `json:"length"`
	CarrierHz uint32 `json:"carrier_hz"`
	Ticks     uint64 `json:"ticks"`
}

// Tap receives every emitted sample byte. Push must never block; taps drop
// samples they cannot keep up with.
type Tap interface {
	Push(b byte)
}

// Config assembles an engine. Fallback is the single non-file source
// resolved at startup; file playback always preempts it.
type Config struct {
	Carrier      hal.PWMOutput
	Clock        hal.SampleClock
	Controller   *playback.Controller
	Debouncer    *trigger.Debouncer
	Indicator    *status.Indicator
	Fallback     source.Source
	CarrierHz    uint32
	AudioFile    string
	PollInterval time.Duration
	Tap          Tap
	// OnStateChange is invoked from the main loop on idle/playing
	// transitions. May be nil.
	OnStateChange func(Status)
}

// Engine drives the carrier output. Tick runs once per carrier period from
// the sample clock and must never block, allocate or log; everything
// deferred lands in the main loop via single-word flags.
type Engine struct {
	cfg      Config
	actualHz uint32

	ticks        atomic.Uint64
	justFinished atomic.Bool

	// triggers carries start requests from other goroutines (remote
	// control) into the main loop, which is the only caller of Start.
	triggers chan string
}

// New creates an engine from the config. Defaults are applied for zero
// carrier frequency and poll interval.
func New(cfg Config) (*Engine, error) {
	if cfg.Carrier == nil || cfg.Clock == nil || cfg.Controller == nil {
		return nil, errors.New("engine: carrier, clock and controller are required")
	}
	if cfg.Fallback == nil {
		cfg.Fallback = source.Silence{}
	}
	if cfg.CarrierHz == 0 {
		cfg.CarrierHz = DefaultCarrierHz
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	return &Engine{
		cfg:      cfg,
		triggers: make(chan string, 4),
	}, nil
}

// Tick runs one carrier period: pick the sample, write the duty. File
// playback preempts every other source. Any failure degrades to silence;
// nothing propagates out of here.
func (e *Engine) Tick() {
	var b byte

	if e.cfg.Controller.IsActive() {
		v, done := e.cfg.Controller.Advance()
		if done {
			// Silence for this cycle; reporting is deferred to the
			// main loop.
			e.justFinished.Store(true)
			b = 0
		} else {
			b = v
		}
	} else {
		b = e.cfg.Fallback.Next()
	}

	e.cfg.Carrier.SetDuty(uint32(b))
	if e.cfg.Tap != nil {
		e.cfg.Tap.Push(b)
	}
	e.ticks.Add(1)
}

// Run configures the carrier, starts the sample clock and executes the
// main loop until ctx is cancelled. The loop polls the trigger line,
// consumes remote start requests and reports deferred engine events.
func (e *Engine) Run(ctx context.Context) error {
	actual, err := e.cfg.Carrier.Configure(e.cfg.CarrierHz)
	if err != nil {
		return fmt.Errorf("failed to configure carrier output: %w", err)
	}
	e.actualHz = actual

	if actual != e.cfg.CarrierHz {
		log.Printf("Warning: carrier frequency mismatch: requested %d Hz, achieved %d Hz",
			e.cfg.CarrierHz, actual)
	} else {
		log.Printf("Carrier configured at %d Hz", actual)
	}

	e.cfg.Carrier.SetDuty(0)
	e.cfg.Indicator.Ready()
	e.notify()

	if err := e.cfg.Clock.Start(e.Tick); err != nil {
		return fmt.Errorf("failed to start sample clock: %w", err)
	}
	defer e.cfg.Clock.Stop()

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.pollOnce()
		}
	}
}

// pollOnce is one main-loop pass: debounce the trigger line, drain remote
// trigger requests, report a finished session.
func (e *Engine) pollOnce() {
	if e.cfg.Debouncer != nil && e.cfg.Debouncer.Poll() {
		e.startPlayback("trigger line")
	}

	for {
		select {
		case origin := <-e.triggers:
			e.startPlayback(origin)
			continue
		default:
		}
		break
	}

	if e.justFinished.CompareAndSwap(true, false) {
		if err := e.cfg.Controller.LastError(); err != nil {
			log.Printf("Playback aborted by read failure: %v", err)
		} else {
			log.Printf("Playback finished")
		}
		e.cfg.Indicator.Ready()
		e.notify()
	}
}

// startPlayback applies the start-if-inactive rule shared by every trigger
// origin. A trigger during an active session is swallowed, not queued.
func (e *Engine) startPlayback(origin string) {
	if e.cfg.Controller.IsActive() {
		return
	}

	if err := e.cfg.Controller.Start(e.cfg.AudioFile); err != nil {
		log.Printf("Cannot start playback (%s): %v", origin, err)
		return
	}

	e.cfg.Indicator.Playing()
	e.notify()
}

// RequestPlayback queues a start request from another goroutine. The main
// loop applies the same rules as the hardware trigger. Requests are dropped
// when the queue is full.
func (e *Engine) RequestPlayback(origin string) {
	select {
	case e.triggers <- origin:
	default:
	}
}

// Status returns a snapshot of the engine.
func (e *Engine) Status() Status {
	st := Status{
		State:     StateIdle,
		CarrierHz: e.actualHz,
		Ticks:     e.ticks.Load(),
	}

	if e.cfg.Controller.IsActive() {
		st.State = StatePlaying
		name, id, pos, length := e.cfg.Controller.Status()
		st.File = name
		st.SessionID = id
		st.Position = pos
		st.Length = length
	}

	return st
}

func (e *Engine) notify() {
	if e.cfg.OnStateChange != nil {
		e.cfg.OnStateChange(e.Status())
	}
}
