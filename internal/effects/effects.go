// Package effects implements the streaming DSP stages that shape a jingle:
// feedback delay, comb-bank reverb, one-pole low-pass, automatic gain
// control, and a few colour effects. Every stage is a Processor working on
// one mono sample at a time; Apply turns a Processor into an audio.Source
// decorator that owns its upstream.
package effects

import (
	"time"

	"github.com/cbegin/jingle-go/internal/audio"
)

// Processor transforms mono audio one sample at a time.
type Processor interface {
	ProcessSample(x float32) float32
	Reset()
}

// Chain applies a sequence of processors in order.
type Chain struct {
	processors []Processor
}

func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

func (c *Chain) ProcessSample(x float32) float32 {
	for _, p := range c.processors {
		x = p.ProcessSample(x)
	}
	return x
}

func (c *Chain) Reset() {
	for _, p := range c.processors {
		p.Reset()
	}
}

func (c *Chain) Add(p Processor) {
	c.processors = append(c.processors, p)
}

func (c *Chain) Len() int { return len(c.processors) }

// Effect pulls one upstream sample per output sample and runs it through a
// Processor. Stream metadata passes through unchanged.
type Effect struct {
	src  audio.Source
	proc Processor
}

// Apply wraps src with proc.
func Apply(src audio.Source, proc Processor) *Effect {
	return &Effect{src: src, proc: proc}
}

func (e *Effect) Next() (float32, bool) {
	x, ok := e.src.Next()
	if !ok {
		return 0, false
	}
	return e.proc.ProcessSample(x), true
}

func (e *Effect) SampleRate() int { return e.src.SampleRate() }
func (e *Effect) Channels() int   { return e.src.Channels() }

func (e *Effect) TotalDuration() (time.Duration, bool) {
	return e.src.TotalDuration()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
