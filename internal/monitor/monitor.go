// ABOUTME: Audible monitor for the modulation stream using oto
// ABOUTME: Renders the 8-bit envelope on the host soundcard, as the air would demodulate it
package monitor

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Monitor plays the projector's 8-bit modulation samples on the host audio
// output. It is fed from the engine's tap: Push never blocks and drops
// samples when the host output falls behind. Strictly a diagnostic aid.
type Monitor struct {
	ctx     *oto.Context
	player  *oto.Player
	samples chan byte
}

// New creates a monitor at the given sample rate (the carrier rate).
func New(sampleRate int) (*Monitor, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	m := &Monitor{
		ctx:     ctx,
		samples: make(chan byte, sampleRate/4), // 250ms of slack
	}
	m.player = ctx.NewPlayer(m)

	log.Printf("Audio monitor initialized at %d Hz", sampleRate)

	return m, nil
}

// Push queues one modulation sample. Never blocks.
func (m *Monitor) Push(b byte) {
	select {
	case m.samples <- b:
	default:
	}
}

// Read is the oto pull path: u8 envelope to int16, duplicated to stereo.
// Starvation yields the mid-scale value, which is acoustic silence.
func (m *Monitor) Read(p []byte) (int, error) {
	n := 0
	for n+4 <= len(p) {
		var b byte = 128
		select {
		case b = <-m.samples:
		default:
		}

		s := uint16((int16(b) - 128) << 8)
		p[n] = byte(s)
		p[n+1] = byte(s >> 8)
		p[n+2] = byte(s)
		p[n+3] = byte(s >> 8)
		n += 4
	}
	return n, nil
}

// Start begins host playback.
func (m *Monitor) Start() {
	m.player.Play()
}

// Close stops playback and suspends the audio context.
func (m *Monitor) Close() {
	if m.player != nil {
		m.player.Close()
	}
	if m.ctx != nil {
		m.ctx.Suspend()
	}
}

// Play renders a complete sample buffer and blocks until it has been
// played. Used by the converter's preview mode.
func Play(samples []byte, sampleRate int) error {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	pcm := make([]byte, len(samples)*4)
	for i, b := range samples {
		s := uint16((int16(b) - 128) << 8)
		pcm[i*4] = byte(s)
		pcm[i*4+1] = byte(s >> 8)
		pcm[i*4+2] = byte(s)
		pcm[i*4+3] = byte(s >> 8)
	}

	player := ctx.NewPlayer(&sliceReader{data: pcm})
	player.Play()

	for player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}

	return player.Close()
}

// sliceReader serves a fixed byte slice to the player.
type sliceReader struct {
	data []byte
	pos  int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
