package effects

import "math"

// Distortion soft-clips with tanh between an input drive and an output
// level, then optionally darkens the result with a LowPassFilter.
type Distortion struct {
	drive float32
	level float32
	tone  *LowPassFilter
}

// NewDistortion builds the stage. A tone cutoff of 0, or one at or above
// Nyquist, skips the filter.
func NewDistortion(sampleRate int, drive, level, toneHz float32) *Distortion {
	d := &Distortion{drive: drive, level: level}
	if toneHz > 0 && toneHz < float32(sampleRate)/2 {
		d.tone = NewLowPassFilter(toneHz, sampleRate)
	}
	return d
}

func (d *Distortion) ProcessSample(x float32) float32 {
	y := d.level * float32(math.Tanh(float64(d.drive*x)))
	if d.tone == nil {
		return y
	}
	return d.tone.ProcessSample(y)
}

func (d *Distortion) Reset() {
	if d.tone != nil {
		d.tone.Reset()
	}
}
