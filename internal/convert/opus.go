// ABOUTME: Ogg/Opus decoding for the conversion pipeline
// ABOUTME: libopusfile decodes at 48kHz; channel count is not discoverable through the binding
package convert

import (
	"fmt"
	"io"
	"os"

	opus "gopkg.in/hraban/opus.v2"
)

// opusRate is the fixed decode rate of libopusfile.
const opusRate = 48000

func decodeOpus(path string, mono bool) ([]int16, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open Opus file: %w", err)
	}
	defer f.Close()

	stream, err := opus.NewStream(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode Opus: %w", err)
	}
	defer stream.Close()

	channels := 2
	if mono {
		channels = 1
	}

	var interleaved []int16
	buf := make([]int16, 16384)

	for {
		n, err := stream.Read(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("Opus decode failed: %w", err)
		}
		interleaved = append(interleaved, buf[:n*channels]...)
	}

	return downmix(interleaved, channels), opusRate, nil
}
