package synth

import (
	"math"
	"time"
)

// Layer is one partial of a LayeredOscillator. Its frequency is the base
// frequency times Ratio.
type Layer struct {
	Ratio       float32
	Waveform    Waveform
	Amplitude   float32
	PhaseOffset float32
}

// LayeredOscillator sums detuned or harmonic copies of a tone and divides by
// the total layer amplitude, so the pre-envelope signal stays in [-1, 1]
// however many layers are stacked.
type LayeredOscillator struct {
	base       float32
	layers     []Layer
	adsr       ADSR
	sampleRate int
	elapsed    int
	duration   float32
}

func NewLayeredOscillator(sampleRate int, baseFrequency float32, waveform Waveform, duration float32) *LayeredOscillator {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &LayeredOscillator{
		base:       baseFrequency,
		layers:     []Layer{{Ratio: 1, Waveform: waveform, Amplitude: 1}},
		adsr:       DefaultADSR(),
		sampleRate: sampleRate,
		duration:   duration,
	}
}

func (o *LayeredOscillator) WithADSR(adsr ADSR) *LayeredOscillator {
	o.adsr = adsr
	return o
}

func (o *LayeredOscillator) AddLayer(l Layer) *LayeredOscillator {
	o.layers = append(o.layers, l)
	return o
}

// AddHarmonic adds a layer at multiplier times the base frequency.
func (o *LayeredOscillator) AddHarmonic(multiplier float32, waveform Waveform, amplitude float32) *LayeredOscillator {
	return o.AddLayer(Layer{Ratio: multiplier, Waveform: waveform, Amplitude: amplitude})
}

// AddDetune adds a layer offset from the base frequency by cents.
func (o *LayeredOscillator) AddDetune(cents float32, waveform Waveform, amplitude float32) *LayeredOscillator {
	return o.AddLayer(Layer{Ratio: CentsToRatio(cents), Waveform: waveform, Amplitude: amplitude})
}

func (o *LayeredOscillator) Layers() []Layer {
	return append([]Layer(nil), o.layers...)
}

func (o *LayeredOscillator) Next() (float32, bool) {
	t := float32(o.elapsed) / float32(o.sampleRate)
	if t >= o.duration {
		return 0, false
	}
	var sum, weight float32
	for _, l := range o.layers {
		phase := t*(o.base*l.Ratio)*twoPi + l.PhaseOffset
		sum += Wave(l.Waveform, phase) * l.Amplitude
		weight += l.Amplitude
	}
	var mixed float32
	if weight != 0 {
		mixed = sum / weight
	}
	env := o.adsr.Envelope(o.duration, t)
	o.elapsed++
	return mixed * env * Headroom, true
}

func (o *LayeredOscillator) SampleRate() int { return o.sampleRate }
func (o *LayeredOscillator) Channels() int   { return 1 }

func (o *LayeredOscillator) TotalDuration() (time.Duration, bool) {
	return secondsToDuration(o.duration), true
}

// CentsToRatio converts a pitch offset in cents to a frequency ratio.
func CentsToRatio(cents float32) float32 {
	return float32(math.Pow(2, float64(cents)/1200))
}
