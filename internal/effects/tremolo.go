package effects

import (
	"github.com/cbegin/jingle-go/internal/lfo"
	"github.com/cbegin/jingle-go/internal/synth"
)

// Tremolo modulates amplitude with an LFO. Gain swings between 1-depth and 1.
type Tremolo struct {
	mod        *lfo.LFO
	depth      float32
	sampleRate float64
}

// NewTremolo creates a tremolo.
// rateHz: modulation rate in Hz
// depth: 0..1, how far the gain dips
func NewTremolo(sampleRate int, rateHz, depth float32, waveform synth.Waveform) *Tremolo {
	depth = clamp(depth, 0, 1)
	return &Tremolo{
		mod:        lfo.New(float64(depth)/2, float64(rateHz), waveform),
		depth:      depth,
		sampleRate: float64(sampleRate),
	}
}

func (t *Tremolo) ProcessSample(x float32) float32 {
	m := float32(t.mod.Sample(t.sampleRate))
	return x * (1 - t.depth/2 + m)
}

func (t *Tremolo) Reset() { t.mod.Reset() }
