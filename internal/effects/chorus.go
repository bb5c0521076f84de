package effects

import (
	"github.com/cbegin/jingle-go/internal/lfo"
	"github.com/cbegin/jingle-go/internal/synth"
)

// Chorus mixes in a copy of the signal read from a delay line whose length
// is swept by a sine LFO. Short delays with feedback give a flanger.
type Chorus struct {
	line       []float32
	write      int
	center     float32 // samples
	sweep      *lfo.LFO
	sampleRate float64
	feedback   float32
	wet        float32
}

// NewChorus takes the center delay and sweep depth in milliseconds, the
// sweep rate in Hz, and feedback and wet amounts in [0, 1]. Feedback is
// capped at 0.9.
func NewChorus(sampleRate int, delayMs, feedback, depthMs, rateHz, wet float32) *Chorus {
	center := delayMs * float32(sampleRate) / 1000
	depth := depthMs * float32(sampleRate) / 1000
	n := max(int(center+depth)+2, 4)
	return &Chorus{
		line:       make([]float32, n),
		center:     center,
		sweep:      lfo.New(float64(depth), float64(rateHz), synth.Sine),
		sampleRate: float64(sampleRate),
		feedback:   clamp(feedback, 0, 0.9),
		wet:        clamp(wet, 0, 1),
	}
}

// read interpolates the line d samples behind the write position.
func (c *Chorus) read(d float32) float32 {
	n := len(c.line)
	d = clamp(d, 1, float32(n-1))
	pos := float32(c.write) - d
	if pos < 0 {
		pos += float32(n)
	}
	i := int(pos)
	frac := pos - float32(i)
	return c.line[i%n]*(1-frac) + c.line[(i+1)%n]*frac
}

func (c *Chorus) ProcessSample(x float32) float32 {
	d := c.center + float32(c.sweep.Sample(c.sampleRate))
	delayed := c.read(d)
	c.line[c.write] = x + delayed*c.feedback
	c.write = (c.write + 1) % len(c.line)
	return x*(1-c.wet) + delayed*c.wet
}

func (c *Chorus) Reset() {
	clear(c.line)
	c.write = 0
	c.sweep.Reset()
}
