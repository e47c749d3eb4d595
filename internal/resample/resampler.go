// ABOUTME: Linear resampler for converting decoded audio to the carrier rate
// ABOUTME: Mono int16 in, mono int16 out, streaming chunk by chunk
package resample

// Resampler converts a mono sample buffer between rates using linear
// interpolation.
type Resampler struct {
	inputRate  int
	outputRate int
	ratio      float64
	position   float64
}

// New creates a resampler from inputRate to outputRate.
func New(inputRate, outputRate int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample fills output with interpolated samples from input and returns
// the number of output samples produced. Interpolation needs a successor
// sample, so the final input frame is never consumed; callers convert whole
// buffers and lose one trailing sample.
func (r *Resampler) Resample(input, output []int16) int {
	if len(input) == 0 {
		return 0
	}

	outIdx := 0

	for outIdx < len(output) {
		inputIdx := int(r.position)
		if inputIdx >= len(input)-1 {
			break
		}

		frac := r.position - float64(inputIdx)

		s1 := float64(input[inputIdx])
		s2 := float64(input[inputIdx+1])
		output[outIdx] = int16(s1*(1.0-frac) + s2*frac)

		outIdx++
		r.position += r.ratio
	}

	// Keep only the fractional part for the next chunk.
	r.position -= float64(int(r.position))

	return outIdx
}

// OutputLen returns how many output samples a given input length yields.
func (r *Resampler) OutputLen(inputSamples int) int {
	return int(float64(inputSamples) / r.ratio)
}

// Reset clears interpolation state.
func (r *Resampler) Reset() {
	r.position = 0.0
}
