package effects

import "github.com/cbegin/jingle-go/internal/audio"

// MaxFeedback keeps iterated feedback strictly below unity gain.
const MaxFeedback = 0.95

// DelayBuffer is a feedback delay line over a fixed ring of samples. The tap
// read on each call is the value written capacity samples earlier.
type DelayBuffer struct {
	buf      []float32
	pos      int
	feedback float32
	mix      float32
}

// NewDelayBuffer creates a delay line.
// delayMs: delay time in milliseconds, truncated to whole samples (min 1)
// feedback: feedback amount, clamped to [0, 0.95]
// mix: wet/dry mix, clamped to [0, 1]
func NewDelayBuffer(sampleRate int, delayMs, feedback, mix float32) *DelayBuffer {
	samples := int(float64(delayMs) * float64(sampleRate) / 1000.0)
	if samples < 1 {
		samples = 1
	}
	return &DelayBuffer{
		buf:      make([]float32, samples),
		feedback: clamp(feedback, 0, MaxFeedback),
		mix:      clamp(mix, 0, 1),
	}
}

// tap returns the delayed sample and stores x plus its feedback.
func (d *DelayBuffer) tap(x float32) float32 {
	delayed := d.buf[d.pos]
	d.buf[d.pos] = x + delayed*d.feedback
	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
	return delayed
}

func (d *DelayBuffer) ProcessSample(x float32) float32 {
	delayed := d.tap(x)
	return x*(1-d.mix) + delayed*d.mix
}

// Wet advances the line like ProcessSample but returns only the wet part.
func (d *DelayBuffer) Wet(x float32) float32 {
	return d.tap(x) * d.mix
}

func (d *DelayBuffer) Reset() {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.pos = 0
}

func (d *DelayBuffer) Capacity() int     { return len(d.buf) }
func (d *DelayBuffer) Feedback() float32 { return d.feedback }
func (d *DelayBuffer) Mix() float32      { return d.mix }

// Echo wraps a stream with a single delay line.
type Echo struct {
	*Effect
	delay *DelayBuffer
}

func NewEcho(src audio.Source, delayMs, feedback, mix float32) *Echo {
	d := NewDelayBuffer(src.SampleRate(), delayMs, feedback, mix)
	return &Echo{Effect: Apply(src, d), delay: d}
}

func (e *Echo) Delay() *DelayBuffer { return e.delay }
