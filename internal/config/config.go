// ABOUTME: YAML configuration for the projector daemon
// ABOUTME: Resolve validates once at startup and fixes the source priority order
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceKind names a sample source in the priority order.
type SourceKind string

const (
	SourceFile    SourceKind = "file"
	SourceTone    SourceKind = "tone"
	SourceLive    SourceKind = "live"
	SourceSilence SourceKind = "silence"
)

// Config is the on-disk YAML shape.
type Config struct {
	Carrier struct {
		FrequencyHz uint32 `yaml:"frequency_hz"`
	} `yaml:"carrier"`

	Tone struct {
		FrequencyHz float64 `yaml:"frequency_hz"`
		Steps       int     `yaml:"steps"`
	} `yaml:"tone"`

	Audio struct {
		LibraryDir string `yaml:"library_dir"`
		File       string `yaml:"file"`
	} `yaml:"audio"`

	// Fallback is the source used when no file session is active:
	// tone, live or silence.
	Fallback string `yaml:"fallback"`

	Input struct {
		DebounceMs int  `yaml:"debounce_ms"`
		PollMs     int  `yaml:"poll_ms"`
		ADCBits    uint `yaml:"adc_bits"`
	} `yaml:"input"`

	Status struct {
		Disabled     bool   `yaml:"disabled"`
		ReadyLevel   uint32 `yaml:"ready_level"`
		PlayingLevel uint32 `yaml:"playing_level"`
	} `yaml:"status"`

	Remote struct {
		Listen    string `yaml:"listen"`
		Advertise bool   `yaml:"advertise"`
		Name      string `yaml:"name"`
	} `yaml:"remote"`

	LogFile string `yaml:"log_file"`
}

// Resolved is the validated runtime configuration. Priority is the fixed
// source order: file playback first, then the configured fallback, then
// silence. It is assembled once at startup; there is no runtime source
// switching.
type Resolved struct {
	CarrierHz      uint32
	ToneHz         float64
	ToneSteps      int
	LibraryDir     string
	AudioFile      string
	Priority       []SourceKind
	DebounceWindow time.Duration
	PollInterval   time.Duration
	ADCBits        uint
	StatusEnabled  bool
	ReadyLevel     uint32
	PlayingLevel   uint32
	RemoteListen   string
	Advertise      bool
	Name           string
	LogFile        string
}

// Fallback returns the first non-file source in the priority order.
func (r *Resolved) Fallback() SourceKind {
	for _, k := range r.Priority {
		if k != SourceFile {
			return k
		}
	}
	return SourceSilence
}

// Load reads and parses a YAML config file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}

	return &cfg, nil
}

// Resolve validates the config and fills defaults.
func (c *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		CarrierHz:      c.Carrier.FrequencyHz,
		ToneHz:         c.Tone.FrequencyHz,
		ToneSteps:      c.Tone.Steps,
		LibraryDir:     c.Audio.LibraryDir,
		AudioFile:      c.Audio.File,
		ADCBits:        c.Input.ADCBits,
		StatusEnabled:  !c.Status.Disabled,
		ReadyLevel:     c.Status.ReadyLevel,
		PlayingLevel:   c.Status.PlayingLevel,
		RemoteListen:   c.Remote.Listen,
		Advertise:      c.Remote.Advertise,
		Name:           c.Remote.Name,
		LogFile:        c.LogFile,
	}

	if r.CarrierHz == 0 {
		r.CarrierHz = 40000
	}
	if r.ToneHz == 0 {
		r.ToneHz = 1000
	}
	if r.ToneHz < 0 {
		return nil, fmt.Errorf("tone frequency must be positive, got %v", r.ToneHz)
	}
	if r.ToneSteps == 0 {
		r.ToneSteps = 100
	}
	if r.ToneSteps < 2 {
		return nil, fmt.Errorf("tone steps must be at least 2, got %d", r.ToneSteps)
	}
	if r.LibraryDir == "" {
		r.LibraryDir = "audio"
	}
	if r.AudioFile == "" {
		r.AudioFile = "audio.raw"
	}
	if r.ADCBits == 0 {
		r.ADCBits = 12
	}
	if r.ADCBits < 8 || r.ADCBits > 16 {
		return nil, fmt.Errorf("adc_bits must be 8-16, got %d", r.ADCBits)
	}

	fallback := SourceKind(c.Fallback)
	if fallback == "" {
		fallback = SourceSilence
	}
	switch fallback {
	case SourceTone, SourceLive, SourceSilence:
	case SourceFile:
		return nil, fmt.Errorf("fallback cannot be %q: file playback is trigger-driven", fallback)
	default:
		return nil, fmt.Errorf("unknown fallback source %q (want tone, live or silence)", fallback)
	}

	r.Priority = []SourceKind{SourceFile, fallback}
	if fallback != SourceSilence {
		r.Priority = append(r.Priority, SourceSilence)
	}

	if c.Input.DebounceMs == 0 {
		r.DebounceWindow = 50 * time.Millisecond
	} else if c.Input.DebounceMs < 0 {
		return nil, fmt.Errorf("debounce_ms must be positive, got %d", c.Input.DebounceMs)
	} else {
		r.DebounceWindow = time.Duration(c.Input.DebounceMs) * time.Millisecond
	}

	if c.Input.PollMs == 0 {
		r.PollInterval = 10 * time.Millisecond
	} else if c.Input.PollMs < 0 {
		return nil, fmt.Errorf("poll_ms must be positive, got %d", c.Input.PollMs)
	} else {
		r.PollInterval = time.Duration(c.Input.PollMs) * time.Millisecond
	}

	if r.ReadyLevel == 0 {
		r.ReadyLevel = 16
	}
	if r.PlayingLevel == 0 {
		r.PlayingLevel = 255
	}

	if r.Name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		r.Name = fmt.Sprintf("%s-soundprojector", hostname)
	}
	if r.LogFile == "" {
		r.LogFile = "soundprojector.log"
	}

	return r, nil
}
