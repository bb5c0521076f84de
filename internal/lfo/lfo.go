package lfo

import (
	"math"

	"github.com/cbegin/jingle-go/internal/synth"
)

// LFO is a low-frequency oscillator that produces per-sample modulation for
// the time-varying effects (chorus, tremolo).
type LFO struct {
	depth    float64 // modulation depth (units depend on the effect: samples, gain)
	rateHz   float64 // oscillation rate in Hz
	waveform synth.Waveform
	phase    float64 // current phase [0, 1)
}

func New(depth, rateHz float64, waveform synth.Waveform) *LFO {
	l := &LFO{}
	l.Set(depth, rateHz, waveform)
	return l
}

// Set configures the LFO parameters. Negative rates are treated as zero.
func (l *LFO) Set(depth, rateHz float64, waveform synth.Waveform) {
	if rateHz < 0 {
		rateHz = 0
	}
	l.depth = depth
	l.rateHz = rateHz
	l.waveform = waveform
}

// Sample advances the LFO by one sample and returns a value in [-depth, +depth].
// Returns 0 if depth or rate is zero.
func (l *LFO) Sample(sampleRate float64) float64 {
	if l.depth == 0 || l.rateHz == 0 || sampleRate <= 0 {
		return 0
	}

	waveVal := float64(synth.Wave(l.waveform, float32(l.phase*2*math.Pi)))

	l.phase += l.rateHz / sampleRate
	for l.phase >= 1.0 {
		l.phase -= 1.0
	}
	return waveVal * l.depth
}

// Active returns true if the LFO has non-zero depth and rate.
func (l *LFO) Active() bool {
	return l.depth != 0 && l.rateHz != 0
}

// Reset zeros the LFO phase.
func (l *LFO) Reset() {
	l.phase = 0
}
