// ABOUTME: Tests for configuration loading and resolution
// ABOUTME: Covers defaults, validation and the fixed source priority order
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveDefaults(t *testing.T) {
	r, err := (&Config{}).Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if r.CarrierHz != 40000 {
		t.Errorf("carrier %d, want 40000", r.CarrierHz)
	}
	if r.ToneHz != 1000 {
		t.Errorf("tone %v, want 1000", r.ToneHz)
	}
	if r.ToneSteps != 100 {
		t.Errorf("steps %d, want 100", r.ToneSteps)
	}
	if r.DebounceWindow != 50*time.Millisecond {
		t.Errorf("debounce %v, want 50ms", r.DebounceWindow)
	}
	if r.PollInterval != 10*time.Millisecond {
		t.Errorf("poll %v, want 10ms", r.PollInterval)
	}
	if r.ADCBits != 12 {
		t.Errorf("adc bits %d, want 12", r.ADCBits)
	}
	if r.Fallback() != SourceSilence {
		t.Errorf("default fallback %q, want silence", r.Fallback())
	}
	if !r.StatusEnabled {
		t.Error("status indicator should be enabled by default")
	}
	if r.ReadyLevel != 16 || r.PlayingLevel != 255 {
		t.Errorf("indicator levels %d/%d, want 16/255", r.ReadyLevel, r.PlayingLevel)
	}
}

func TestPriorityOrderIsFileFirst(t *testing.T) {
	cfg := &Config{Fallback: "tone"}
	r, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	want := []SourceKind{SourceFile, SourceTone, SourceSilence}
	if len(r.Priority) != len(want) {
		t.Fatalf("priority %v, want %v", r.Priority, want)
	}
	for i := range want {
		if r.Priority[i] != want[i] {
			t.Errorf("priority[%d] = %q, want %q", i, r.Priority[i], want[i])
		}
	}
	if r.Fallback() != SourceTone {
		t.Errorf("fallback %q, want tone", r.Fallback())
	}
}

func TestResolveRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown fallback", func(c *Config) { c.Fallback = "theremin" }},
		{"file as fallback", func(c *Config) { c.Fallback = "file" }},
		{"negative debounce", func(c *Config) { c.Input.DebounceMs = -1 }},
		{"negative poll", func(c *Config) { c.Input.PollMs = -5 }},
		{"one tone step", func(c *Config) { c.Tone.Steps = 1 }},
		{"narrow adc", func(c *Config) { c.Input.ADCBits = 4 }},
	}

	for _, tc := range cases {
		cfg := &Config{}
		tc.mutate(cfg)
		if _, err := cfg.Resolve(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	yaml := `
carrier:
  frequency_hz: 41000
tone:
  frequency_hz: 440
audio:
  library_dir: /srv/audio
  file: greeting.raw
fallback: tone
input:
  debounce_ms: 80
  poll_ms: 20
remote:
  listen: ":9000"
  advertise: true
  name: lobby-projector
`
	path := filepath.Join(t.TempDir(), "projector.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	r, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if r.CarrierHz != 41000 {
		t.Errorf("carrier %d, want 41000", r.CarrierHz)
	}
	if r.ToneHz != 440 {
		t.Errorf("tone %v, want 440", r.ToneHz)
	}
	if r.LibraryDir != "/srv/audio" {
		t.Errorf("library %q", r.LibraryDir)
	}
	if r.AudioFile != "greeting.raw" {
		t.Errorf("file %q", r.AudioFile)
	}
	if r.DebounceWindow != 80*time.Millisecond {
		t.Errorf("debounce %v", r.DebounceWindow)
	}
	if r.PollInterval != 20*time.Millisecond {
		t.Errorf("poll %v", r.PollInterval)
	}
	if r.RemoteListen != ":9000" || !r.Advertise || r.Name != "lobby-projector" {
		t.Errorf("remote config mismatch: %q %v %q", r.RemoteListen, r.Advertise, r.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
