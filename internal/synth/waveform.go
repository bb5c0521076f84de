// Package synth generates enveloped oscillator tones as pull-based sample
// streams.
package synth

import (
	"fmt"
	"math"
	"strings"
)

const twoPi = float32(2 * math.Pi)

type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Sawtooth
	Square
)

var waveformNames = [...]string{
	Sine:     "sine",
	Triangle: "triangle",
	Sawtooth: "sawtooth",
	Square:   "square",
}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// Waveforms lists every waveform in declaration order.
func Waveforms() []Waveform {
	return []Waveform{Sine, Triangle, Sawtooth, Square}
}

// ParseWaveform accepts the lower-case names plus the short forms sin, tri,
// saw and sq.
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return Sine, nil
	case "triangle", "tri":
		return Triangle, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "square", "sq":
		return Square, nil
	default:
		return Sine, fmt.Errorf("invalid waveform %q (expected sine|triangle|sawtooth|square)", name)
	}
}

// Wave maps a phase in radians to an amplitude in [-1, 1].
func Wave(w Waveform, phase float32) float32 {
	switch w {
	case Triangle:
		p := normalizedPhase(phase)
		if p < 0.5 {
			return 4*p - 1
		}
		return 3 - 4*p
	case Sawtooth:
		return 2*normalizedPhase(phase) - 1
	case Square:
		if math.Sin(float64(phase)) >= 0 {
			return 1
		}
		return -1
	default:
		return float32(math.Sin(float64(phase)))
	}
}

// normalizedPhase is (phase / 2π) mod 1 in [0, 1), negative phases included.
func normalizedPhase(phase float32) float32 {
	p := math.Mod(float64(phase)/(2*math.Pi), 1)
	if p < 0 {
		p++
	}
	if p >= 1 {
		p = 0
	}
	return float32(p)
}
