// ABOUTME: Minimal RIFF/WAVE parsing for the conversion pipeline
// ABOUTME: Handles PCM chunks at 8 or 16 bits, any channel count
package convert

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

func decodeWAV(path string) ([]int16, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read WAV file: %w", err)
	}

	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE file: %s", path)
	}

	var (
		channels   int
		rate       int
		bitsPer    int
		haveFormat bool
		pcm        []byte
	)

	// Walk the chunk list.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, fmt.Errorf("truncated fmt chunk")
			}
			format := binary.LittleEndian.Uint16(data[body:])
			if format != 1 { // PCM
				return nil, 0, fmt.Errorf("unsupported WAV encoding %d (PCM only)", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			rate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bitsPer = int(binary.LittleEndian.Uint16(data[body+14:]))
			haveFormat = true
		case "data":
			pcm = data[body : body+size]
		}

		// Chunks are word-aligned.
		pos = body + size
		if size%2 == 1 {
			pos++
		}
	}

	if !haveFormat || pcm == nil {
		return nil, 0, fmt.Errorf("missing fmt or data chunk in %s", path)
	}
	if channels < 1 || rate < 1 {
		return nil, 0, fmt.Errorf("invalid WAV format: %d channels at %d Hz", channels, rate)
	}

	var interleaved []int16
	switch bitsPer {
	case 16:
		interleaved = bytesToInt16(pcm)
	case 8:
		// 8-bit WAV is unsigned.
		interleaved = make([]int16, len(pcm))
		for i, b := range pcm {
			interleaved[i] = (int16(b) - 128) << 8
		}
	default:
		return nil, 0, fmt.Errorf("unsupported WAV bit depth %d (8 or 16 only)", bitsPer)
	}

	return downmix(interleaved, channels), rate, nil
}
