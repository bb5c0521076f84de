package effects

import "github.com/cbegin/jingle-go/internal/audio"

// ReverbDelaysMs are the base comb lengths, scaled by room size. The spacing
// avoids common multiples so the taps do not reinforce each other.
var ReverbDelaysMs = [8]float32{29, 37, 41, 43, 47, 53, 59, 61}

const (
	reverbFeedbackScale = 0.6
	reverbOutputGain    = 0.7
)

// CombBank is an early-reflection reverb built from eight parallel delay
// lines. Their wet outputs are summed onto the dry input and the total is
// scaled by 0.7.
type CombBank struct {
	lines [len(ReverbDelaysMs)]*DelayBuffer
}

// NewCombBank creates the reverb core.
// roomSize: multiplier on the base delays
// damping: 0..1, each line feeds back damping*0.6
// mix: overall wet amount, split evenly across the lines
func NewCombBank(sampleRate int, roomSize, damping, mix float32) *CombBank {
	if roomSize < 0 {
		roomSize = 0
	}
	b := &CombBank{}
	lineMix := clamp(mix, 0, 1) / float32(len(b.lines))
	for i, ms := range ReverbDelaysMs {
		b.lines[i] = NewDelayBuffer(sampleRate, ms*roomSize, damping*reverbFeedbackScale, lineMix)
	}
	return b
}

func (b *CombBank) ProcessSample(x float32) float32 {
	out := x
	for _, l := range b.lines {
		out += l.Wet(x)
	}
	return out * reverbOutputGain
}

func (b *CombBank) Reset() {
	for _, l := range b.lines {
		l.Reset()
	}
}

// Lines exposes the delay lines, longest last.
func (b *CombBank) Lines() []*DelayBuffer { return b.lines[:] }

// Reverb wraps a stream with a CombBank.
type Reverb struct {
	*Effect
	bank *CombBank
}

func NewReverb(src audio.Source, roomSize, damping, mix float32) *Reverb {
	b := NewCombBank(src.SampleRate(), roomSize, damping, mix)
	return &Reverb{Effect: Apply(src, b), bank: b}
}

// SmallRoom is a short, light reverb.
func SmallRoom(src audio.Source) *Reverb { return NewReverb(src, 0.5, 0.3, 0.2) }

// LargeHall is a long, dense reverb.
func LargeHall(src audio.Source) *Reverb { return NewReverb(src, 1.5, 0.5, 0.4) }

func (r *Reverb) Bank() *CombBank { return r.bank }
