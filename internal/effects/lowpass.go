package effects

import (
	"math"

	"github.com/cbegin/jingle-go/internal/audio"
)

// LowPassFilter is a one-pole RC smoothing filter.
type LowPassFilter struct {
	alpha    float32
	previous float32
}

// NewLowPassFilter derives alpha = dt/(rc+dt) from the cutoff. A cutoff of
// zero or below yields alpha 0, which holds the output at silence.
func NewLowPassFilter(cutoffHz float32, sampleRate int) *LowPassFilter {
	f := &LowPassFilter{}
	if cutoffHz > 0 && sampleRate > 0 {
		rc := 1.0 / (2.0 * math.Pi * float64(cutoffHz))
		dt := 1.0 / float64(sampleRate)
		f.alpha = float32(dt / (rc + dt))
	}
	return f
}

func (f *LowPassFilter) ProcessSample(x float32) float32 {
	f.previous = f.alpha*x + (1-f.alpha)*f.previous
	return f.previous
}

func (f *LowPassFilter) Reset() { f.previous = 0 }

func (f *LowPassFilter) Alpha() float32 { return f.alpha }

// LowPass wraps a stream with a LowPassFilter.
type LowPass struct {
	*Effect
	filter *LowPassFilter
}

func NewLowPass(src audio.Source, cutoffHz float32) *LowPass {
	f := NewLowPassFilter(cutoffHz, src.SampleRate())
	return &LowPass{Effect: Apply(src, f), filter: f}
}

// Smooth takes the edge off bright waveforms.
func Smooth(src audio.Source) *LowPass { return NewLowPass(src, 4000) }

// Muffled sounds like it is playing through a wall.
func Muffled(src audio.Source) *LowPass { return NewLowPass(src, 1000) }

func (l *LowPass) Filter() *LowPassFilter { return l.filter }
