package synth

import (
	"math"
	"time"
)

const (
	DefaultSampleRate = 44100

	// Headroom attenuates every oscillator so several voices can be summed
	// without clipping.
	Headroom = 0.3
)

// Oscillator renders one enveloped note. It is a finite, non-restartable
// audio.Source.
type Oscillator struct {
	frequency  float32
	waveform   Waveform
	adsr       ADSR
	sampleRate int
	elapsed    int
	duration   float32
}

func NewOscillator(sampleRate int, frequency float32, waveform Waveform, duration float32) *Oscillator {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Oscillator{
		frequency:  frequency,
		waveform:   waveform,
		adsr:       DefaultADSR(),
		sampleRate: sampleRate,
		duration:   duration,
	}
}

func (o *Oscillator) WithADSR(adsr ADSR) *Oscillator {
	o.adsr = adsr
	return o
}

func (o *Oscillator) Frequency() float32 { return o.frequency }
func (o *Oscillator) Waveform() Waveform { return o.waveform }
func (o *Oscillator) ADSR() ADSR         { return o.adsr }

func (o *Oscillator) Next() (float32, bool) {
	t := float32(o.elapsed) / float32(o.sampleRate)
	if t >= o.duration {
		return 0, false
	}
	wave := Wave(o.waveform, t*o.frequency*twoPi)
	env := o.adsr.Envelope(o.duration, t)
	o.elapsed++
	return wave * env * Headroom, true
}

func (o *Oscillator) SampleRate() int { return o.sampleRate }
func (o *Oscillator) Channels() int   { return 1 }

func (o *Oscillator) TotalDuration() (time.Duration, bool) {
	return secondsToDuration(o.duration), true
}

func secondsToDuration(s float32) time.Duration {
	if s <= 0 {
		return 0
	}
	// float32 seconds are not exact; round to the microsecond.
	return time.Duration(math.Round(float64(s)*1e6)) * time.Microsecond
}
