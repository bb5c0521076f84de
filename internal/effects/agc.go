package effects

import (
	"math"

	"github.com/cbegin/jingle-go/internal/audio"
)

const (
	minGain       = 0.1
	maxGain       = 10.0
	followerFloor = 1e-4
)

// AutomaticGainControl drives the signal toward a target level using a peak
// envelope follower. Gain persists across samples and is kept within
// [0.1, 10].
type AutomaticGainControl struct {
	target     float32
	attack     float32 // seconds
	release    float32 // seconds
	sampleRate float32
	follower   float32
	gain       float32
}

// NewAutomaticGainControl creates a gain stage.
// target: desired peak level 0..1
// attack: time in seconds to pull gain down on loud input
// release: time in seconds to let gain recover on quiet input
func NewAutomaticGainControl(target, attack, release float32, sampleRate int) *AutomaticGainControl {
	return &AutomaticGainControl{
		target:     clamp(target, 0, 1),
		attack:     max(attack, 0),
		release:    max(release, 0),
		sampleRate: float32(sampleRate),
		gain:       1,
	}
}

func (a *AutomaticGainControl) ProcessSample(x float32) float32 {
	attackCoeff := a.coeff(a.attack)
	releaseCoeff := a.coeff(a.release)

	level := abs32(x)
	if level > a.follower {
		a.follower = level + (a.follower-level)*attackCoeff
	} else {
		a.follower = level + (a.follower-level)*releaseCoeff
	}

	required := float32(1)
	if a.follower > followerFloor {
		required = a.target / a.follower
	}

	diff := required - a.gain
	c := attackCoeff
	if diff > 0 {
		c = releaseCoeff
	}
	a.gain = clamp(a.gain+diff*(1-c), minGain, maxGain)
	return x * a.gain
}

// coeff is the one-pole smoothing coefficient for a time constant.
func (a *AutomaticGainControl) coeff(seconds float32) float32 {
	return float32(math.Exp(-1.0 / float64(seconds*a.sampleRate)))
}

func (a *AutomaticGainControl) Reset() {
	a.follower = 0
	a.gain = 1
}

func (a *AutomaticGainControl) Gain() float32 { return a.gain }

// AGC wraps a stream with an AutomaticGainControl.
type AGC struct {
	*Effect
	agc *AutomaticGainControl
}

func NewAGC(src audio.Source, target, attack, release float32) *AGC {
	a := NewAutomaticGainControl(target, attack, release, src.SampleRate())
	return &AGC{Effect: Apply(src, a), agc: a}
}

// Gentle evens out level differences slowly.
func Gentle(src audio.Source) *AGC { return NewAGC(src, 0.7, 0.003, 0.1) }

// Limiter reacts fast and holds peaks just under full scale.
func Limiter(src audio.Source) *AGC { return NewAGC(src, 0.95, 0.001, 0.05) }

func (a *AGC) Control() *AutomaticGainControl { return a.agc }
