// ABOUTME: Entry point for the sound projector daemon
// ABOUTME: Parses CLI flags, wires hardware and components, runs the engine
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Bwooce/soundprojector/internal/config"
	"github.com/Bwooce/soundprojector/internal/engine"
	"github.com/Bwooce/soundprojector/internal/hal"
	"github.com/Bwooce/soundprojector/internal/monitor"
	"github.com/Bwooce/soundprojector/internal/playback"
	"github.com/Bwooce/soundprojector/internal/remote"
	"github.com/Bwooce/soundprojector/internal/source"
	"github.com/Bwooce/soundprojector/internal/status"
	"github.com/Bwooce/soundprojector/internal/trigger"
	"github.com/Bwooce/soundprojector/internal/ui"
	"github.com/Bwooce/soundprojector/internal/version"
)

var (
	configPath = flag.String("config", "", "YAML config file (flags override)")
	libraryDir = flag.String("library", "", "Audio library directory")
	audioFile  = flag.String("file", "", "Resource played on trigger")
	fallback   = flag.String("fallback", "", "Fallback source: tone, live or silence")
	carrierHz  = flag.Uint("carrier", 0, "Carrier frequency in Hz")
	toneHz     = flag.Float64("tone", 0, "Test tone frequency in Hz")
	listenAddr = flag.String("listen", "", "Remote endpoint listen address (empty disables)")
	advertise  = flag.Bool("advertise", false, "Advertise the remote endpoint via mDNS")
	useMonitor = flag.Bool("monitor", false, "Play the modulation envelope on the host soundcard")
	logFile    = flag.String("log-file", "", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

func main() {
	flag.Parse()

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("error loading config: %v", err)
		}
		cfg = loaded
	}
	applyFlags(cfg)

	resolved, err := cfg.Resolve()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(resolved.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	var tuiProg *tea.Program
	var control *ui.Control

	if useTUI {
		control = ui.NewControl()
		tuiProg, err = ui.Run(control, resolved.CarrierHz)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go tuiProg.Run()

		// TUI mode: log to file plus the TUI's log pane.
		log.SetOutput(io.MultiWriter(f, &tuiLogWriter{prog: tuiProg}))
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
		log.Printf("Starting %s %s", version.Product, version.Version)
	}

	// Hardware. The sims stand in for the real board; the engine only sees
	// the hal interfaces.
	carrier := &hal.HostPWM{TopValue: 255}
	led := &hal.HostPWM{TopValue: 255}
	line := &hal.SimInput{}
	adc := &hal.SimADC{}
	clock := &hal.TickerClock{RateHz: resolved.CarrierHz}

	// Audio library. Mount failure disables file playback only.
	var library *playback.Library
	if lib, err := playback.Open(resolved.LibraryDir); err != nil {
		log.Printf("File playback disabled: %v", err)
	} else {
		library = lib
	}

	controller := playback.NewController(library, int(resolved.CarrierHz))
	debouncer := trigger.New(line, resolved.DebounceWindow, time.Now)

	var indicator *status.Indicator
	if resolved.StatusEnabled {
		indicator = status.New(led, resolved.ReadyLevel, resolved.PlayingLevel)
	}

	var fallbackSource source.Source
	switch resolved.Fallback() {
	case config.SourceTone:
		fallbackSource = source.NewFixedTone(resolved.ToneHz, float64(resolved.CarrierHz), resolved.ToneSteps)
		log.Printf("Fallback source: %.0f Hz test tone", resolved.ToneHz)
	case config.SourceLive:
		fallbackSource = source.NewLiveInput(adc, resolved.ADCBits)
		log.Printf("Fallback source: live analog input (%d-bit)", resolved.ADCBits)
	default:
		fallbackSource = source.Silence{}
		log.Printf("Fallback source: silence")
	}

	var tap engine.Tap
	var mon *monitor.Monitor
	if *useMonitor {
		mon, err = monitor.New(int(resolved.CarrierHz))
		if err != nil {
			log.Printf("Audio monitor unavailable: %v", err)
		} else {
			mon.Start()
			defer mon.Close()
			tap = mon
		}
	}

	var remoteSrv *remote.Server

	eng, err := engine.New(engine.Config{
		Carrier:      carrier,
		Clock:        clock,
		Controller:   controller,
		Debouncer:    debouncer,
		Indicator:    indicator,
		Fallback:     fallbackSource,
		CarrierHz:    resolved.CarrierHz,
		AudioFile:    resolved.AudioFile,
		PollInterval: resolved.PollInterval,
		Tap:          tap,
		OnStateChange: func(st engine.Status) {
			if tuiProg != nil {
				tuiProg.Send(ui.StatusMsg(st))
			}
			if remoteSrv != nil {
				remoteSrv.Broadcast(st)
			}
		},
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	remoteSrv = remote.New(remote.Config{
		Listen:    resolved.RemoteListen,
		Name:      resolved.Name,
		Advertise: resolved.Advertise,
	}, eng)
	if err := remoteSrv.Start(); err != nil {
		log.Fatalf("Failed to start remote endpoint: %v", err)
	}
	defer remoteSrv.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// TUI key handling and periodic stats.
	if control != nil {
		go func() {
			for {
				select {
				case <-control.Trigger:
					eng.RequestPlayback("tui")
				case <-control.Quit:
					cancel()
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	if tuiProg != nil {
		go statsUpdateLoop(ctx, eng, tuiProg)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("Shutdown signal received")
		cancel()
	}()

	if err := eng.Run(ctx); err != nil {
		log.Fatalf("Engine failed: %v", err)
	}

	if tuiProg != nil {
		tuiProg.Quit()
	}

	log.Printf("Projector stopped")
}

// applyFlags overlays non-empty flag values onto the config.
func applyFlags(cfg *config.Config) {
	if *libraryDir != "" {
		cfg.Audio.LibraryDir = *libraryDir
	}
	if *audioFile != "" {
		cfg.Audio.File = *audioFile
	}
	if *fallback != "" {
		cfg.Fallback = *fallback
	}
	if *carrierHz != 0 {
		cfg.Carrier.FrequencyHz = uint32(*carrierHz)
	}
	if *toneHz != 0 {
		cfg.Tone.FrequencyHz = *toneHz
	}
	if *listenAddr != "" {
		cfg.Remote.Listen = *listenAddr
	}
	if *advertise {
		cfg.Remote.Advertise = true
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
}

// statsUpdateLoop pushes periodic status snapshots to the TUI so tick and
// position counters move between state transitions.
func statsUpdateLoop(ctx context.Context, eng *engine.Engine, prog *tea.Program) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			prog.Send(ui.StatusMsg(eng.Status()))
		case <-ctx.Done():
			return
		}
	}
}

// tuiLogWriter forwards log lines to the TUI's log pane.
type tuiLogWriter struct {
	prog *tea.Program
}

func (w *tuiLogWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	if line != "" {
		w.prog.Send(ui.LogMsg(line))
	}
	return len(p), nil
}
