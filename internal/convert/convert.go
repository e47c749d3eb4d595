// ABOUTME: Host-side conversion of audio files to the projector's resource format
// ABOUTME: Decodes MP3/FLAC/Opus/WAV/raw, downmixes, resamples and quantizes to unsigned 8-bit
package convert

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Bwooce/soundprojector/internal/resample"
)

// DefaultTargetRate matches the carrier rate the engine replays resources at.
const DefaultTargetRate = 40000

// Options controls a conversion.
type Options struct {
	// TargetRate is the output sample rate. Zero means DefaultTargetRate.
	TargetRate int
	// Gain scales the signal before quantization. Zero means 1.0.
	Gain float64
	// RawRate is the assumed rate for headerless .raw/.pcm input
	// (signed 16-bit little-endian mono). Required for those inputs.
	RawRate int
	// OpusMono treats Ogg/Opus streams as mono instead of stereo.
	OpusMono bool
}

// File converts the named audio file and returns the unsigned 8-bit mono
// samples at the target rate: exactly the headerless stream the playback
// core reads.
func File(path string, opts Options) ([]byte, error) {
	if opts.TargetRate == 0 {
		opts.TargetRate = DefaultTargetRate
	}
	if opts.Gain == 0 {
		opts.Gain = 1.0
	}

	var (
		mono []int16
		rate int
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		mono, rate, err = decodeMP3(path)
	case ".flac":
		mono, rate, err = decodeFLAC(path)
	case ".opus", ".ogg":
		mono, rate, err = decodeOpus(path, opts.OpusMono)
	case ".wav":
		mono, rate, err = decodeWAV(path)
	case ".raw", ".pcm":
		if opts.RawRate <= 0 {
			return nil, fmt.Errorf("raw input needs an explicit input rate")
		}
		mono, rate, err = decodeRaw(path, opts.RawRate)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .flac, .opus, .wav, .raw)", ext)
	}
	if err != nil {
		return nil, err
	}

	if rate != opts.TargetRate {
		r := resample.New(rate, opts.TargetRate)
		out := make([]int16, r.OutputLen(len(mono))+1)
		n := r.Resample(mono, out)
		mono = out[:n]
	}

	return quantize(mono, opts.Gain), nil
}

// quantize applies gain, clips and maps signed 16-bit to unsigned 8-bit.
func quantize(samples []int16, gain float64) []byte {
	out := make([]byte, len(samples))
	for i, s := range samples {
		v := float64(s) * gain
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = byte((int32(v) + 32768) >> 8)
	}
	return out
}

// downmix averages interleaved frames into mono.
func downmix(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	out := make([]int16, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += int(samples[i*channels+ch])
		}
		out[i] = int16(sum / channels)
	}
	return out
}

// bytesToInt16 converts little-endian byte pairs.
func bytesToInt16(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return out
}

// decodeRaw reads headerless signed 16-bit little-endian mono.
func decodeRaw(path string, rate int) ([]int16, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read raw input: %w", err)
	}
	return bytesToInt16(data), rate, nil
}

// readAll drains a reader in fixed chunks, tolerating a trailing EOF.
func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return data, nil
}
