// ABOUTME: MP3 decoding for the conversion pipeline
// ABOUTME: go-mp3 outputs 16-bit little-endian stereo at the file's native rate
package convert

import (
	"fmt"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"
)

func decodeMP3(path string) ([]int16, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode MP3: %w", err)
	}

	data, err := readAll(decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("MP3 decode failed: %w", err)
	}

	// go-mp3 always outputs interleaved stereo.
	return downmix(bytesToInt16(data), 2), decoder.SampleRate(), nil
}
