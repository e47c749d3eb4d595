// ABOUTME: FLAC decoding for the conversion pipeline
// ABOUTME: Frames are scaled to 16-bit and downmixed to mono
package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
)

func decodeFLAC(path string) ([]int16, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open FLAC file: %w", err)
	}
	defer f.Close()

	stream, err := flac.New(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)

	var interleaved []int16

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("FLAC decode failed: %w", err)
		}

		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				s := frame.Subframes[ch].Samples[i]

				// Scale whatever bit depth the file carries to 16-bit.
				if bitDepth > 16 {
					s >>= uint(bitDepth - 16)
				} else if bitDepth < 16 {
					s <<= uint(16 - bitDepth)
				}
				interleaved = append(interleaved, int16(s))
			}
		}
	}

	return downmix(interleaved, channels), int(info.SampleRate), nil
}
