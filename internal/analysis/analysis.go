// Package analysis measures rendered jingles: level, loudness and spectral
// content.
package analysis

import (
	"math"
	"time"

	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// MaxSpectrumSamples caps the FFT length; longer inputs are analyzed from
// their start.
const MaxSpectrumSamples = 1 << 16

// Report summarizes a buffer.
type Report struct {
	Samples    int
	SampleRate int
	Duration   time.Duration
	Peak       float32
	RMS        float32
	PeakDB     float64
	RMSDB      float64
	// Clipped counts samples at or beyond full scale.
	Clipped    int
	DominantHz float64
}

func Analyze(samples []float32, sampleRate int) Report {
	r := Report{
		Samples:    len(samples),
		SampleRate: sampleRate,
		Peak:       Peak(samples),
		RMS:        RMS(samples),
		DominantHz: DominantFrequency(samples, sampleRate),
	}
	if sampleRate > 0 {
		r.Duration = time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	}
	r.PeakDB = Decibels(float64(r.Peak))
	r.RMSDB = Decibels(float64(r.RMS))
	for _, s := range samples {
		if s >= 1 || s <= -1 {
			r.Clipped++
		}
	}
	return r
}

func Peak(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		peak = max(peak, float32(math.Abs(float64(s))))
	}
	return peak
}

func RMS(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return float32(math.Sqrt(sum / float64(len(samples))))
}

// Decibels converts a linear amplitude to dBFS. Zero maps to -Inf.
func Decibels(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

// Bin is one bucket of a magnitude spectrum.
type Bin struct {
	Frequency float64
	Magnitude float64
}

// Spectrum returns the Hann-windowed magnitude spectrum from DC to Nyquist.
// Magnitudes are scaled so a full-scale sine reads close to 1.
func Spectrum(samples []float32, sampleRate int) []Bin {
	n := min(len(samples), MaxSpectrumSamples)
	if n < 2 || sampleRate <= 0 {
		return nil
	}
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = float64(samples[i])
	}
	coeffs := window.Hann(n)
	var gain float64
	for _, c := range coeffs {
		gain += c
	}
	vecmath.MulBlockInPlace(buf, coeffs)

	bins := fft.FFTReal(buf)[:n/2+1]
	re := make([]float64, len(bins))
	im := make([]float64, len(bins))
	for i, c := range bins {
		re[i] = real(c)
		im[i] = imag(c)
	}
	mag := make([]float64, len(bins))
	vecmath.Magnitude(mag, re, im)

	out := make([]Bin, len(bins))
	step := float64(sampleRate) / float64(n)
	for i, m := range mag {
		out[i] = Bin{Frequency: float64(i) * step, Magnitude: 2 * m / gain}
	}
	return out
}

// DominantFrequency returns the strongest non-DC frequency, refined by
// parabolic interpolation over the log magnitudes of the neighbouring bins.
// It returns 0 for silence.
func DominantFrequency(samples []float32, sampleRate int) float64 {
	spec := Spectrum(samples, sampleRate)
	if len(spec) < 3 {
		return 0
	}
	best := 1
	for i := 2; i < len(spec); i++ {
		if spec[i].Magnitude > spec[best].Magnitude {
			best = i
		}
	}
	if spec[best].Magnitude <= 1e-9 {
		return 0
	}
	step := spec[1].Frequency
	if best == len(spec)-1 {
		return spec[best].Frequency
	}
	a := math.Log(spec[best-1].Magnitude + 1e-12)
	b := math.Log(spec[best].Magnitude + 1e-12)
	c := math.Log(spec[best+1].Magnitude + 1e-12)
	offset := 0.0
	if d := a - 2*b + c; d != 0 {
		offset = 0.5 * (a - c) / d
	}
	return (float64(best) + offset) * step
}
