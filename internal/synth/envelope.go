package synth

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidEnvelope is wrapped by ADSR.Validate.
var ErrInvalidEnvelope = errors.New("invalid envelope")

// ADSR holds phase lengths in seconds and the sustain level in [0, 1].
type ADSR struct {
	Attack  float32
	Decay   float32
	Sustain float32
	Release float32
}

func DefaultADSR() ADSR {
	return ADSR{
		Attack:  0.1,
		Decay:   0.1,
		Sustain: 0.7,
		Release: 0.2,
	}
}

// Envelope returns the amplitude multiplier at time t of a note lasting
// total seconds. Phases of zero length are skipped. When the phases do not
// fit inside total, decay and release overlap and release wins.
func (a ADSR) Envelope(total, t float32) float32 {
	releaseStart := total - a.Release
	switch {
	case t < a.Attack:
		return t / a.Attack
	case t < a.Attack+a.Decay:
		progress := (t - a.Attack) / a.Decay
		return 1 - progress*(1-a.Sustain)
	case t < releaseStart:
		return a.Sustain
	case a.Release <= 0:
		return 0
	default:
		progress := (t - releaseStart) / a.Release
		return a.Sustain * (1 - progress)
	}
}

// Validate rejects envelopes that would not produce a sensible note of the
// given duration. The engine itself accepts any values.
func (a ADSR) Validate(duration float32) error {
	for _, f := range []struct {
		name string
		v    float32
	}{
		{"attack", a.Attack},
		{"decay", a.Decay},
		{"sustain", a.Sustain},
		{"release", a.Release},
	} {
		if math.IsNaN(float64(f.v)) || math.IsInf(float64(f.v), 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidEnvelope, f.name)
		}
		if f.v < 0 {
			return fmt.Errorf("%w: %s must be >= 0: %f", ErrInvalidEnvelope, f.name, f.v)
		}
	}
	if a.Sustain > 1 {
		return fmt.Errorf("%w: sustain must be <= 1: %f", ErrInvalidEnvelope, a.Sustain)
	}
	if sum := a.Attack + a.Decay + a.Release; duration > 0 && sum > duration {
		return fmt.Errorf("%w: attack+decay+release %.3fs exceeds duration %.3fs", ErrInvalidEnvelope, sum, duration)
	}
	return nil
}

// Fit scales the timed phases down proportionally so they fit into duration.
func (a ADSR) Fit(duration float32) ADSR {
	sum := a.Attack + a.Decay + a.Release
	if sum <= duration || sum <= 0 {
		return a
	}
	k := duration / sum
	a.Attack *= k
	a.Decay *= k
	a.Release *= k
	return a
}
