package audio

import "time"

// Source is a pull-based mono sample stream. Next returns false once the
// stream is exhausted; an exhausted Source never produces samples again.
type Source interface {
	Next() (float32, bool)
	SampleRate() int
	Channels() int
	// TotalDuration reports the stream length when it is known up front.
	TotalDuration() (time.Duration, bool)
}

// Collect drains src into a new buffer.
func Collect(src Source) []float32 {
	var out []float32
	if d, ok := src.TotalDuration(); ok {
		out = make([]float32, 0, int(d.Seconds()*float64(src.SampleRate()))+1)
	}
	for {
		s, ok := src.Next()
		if !ok {
			return out
		}
		out = append(out, s)
	}
}

// Buffer replays a materialized sample slice as a Source.
type Buffer struct {
	samples    []float32
	pos        int
	sampleRate int
}

func NewBuffer(samples []float32, sampleRate int) *Buffer {
	return &Buffer{samples: samples, sampleRate: sampleRate}
}

func (b *Buffer) Next() (float32, bool) {
	if b.pos >= len(b.samples) {
		return 0, false
	}
	s := b.samples[b.pos]
	b.pos++
	return s, true
}

func (b *Buffer) SampleRate() int { return b.sampleRate }
func (b *Buffer) Channels() int   { return 1 }

func (b *Buffer) TotalDuration() (time.Duration, bool) {
	if b.sampleRate <= 0 {
		return 0, false
	}
	return time.Duration(len(b.samples)) * time.Second / time.Duration(b.sampleRate), true
}

// Concat plays each source to exhaustion in order. Sample rate and channel
// count are taken from the first source.
type Concat struct {
	sources []Source
	idx     int
}

func NewConcat(sources ...Source) *Concat {
	return &Concat{sources: sources}
}

func (c *Concat) Next() (float32, bool) {
	for c.idx < len(c.sources) {
		if s, ok := c.sources[c.idx].Next(); ok {
			return s, true
		}
		c.idx++
	}
	return 0, false
}

func (c *Concat) SampleRate() int {
	if len(c.sources) == 0 {
		return 0
	}
	return c.sources[0].SampleRate()
}

func (c *Concat) Channels() int { return 1 }

func (c *Concat) TotalDuration() (time.Duration, bool) {
	var total time.Duration
	for _, s := range c.sources {
		d, ok := s.TotalDuration()
		if !ok {
			return 0, false
		}
		total += d
	}
	return total, true
}

// Silence yields n zero samples.
func Silence(n int, sampleRate int) *Buffer {
	if n < 0 {
		n = 0
	}
	return NewBuffer(make([]float32, n), sampleRate)
}
