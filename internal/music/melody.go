package music

import (
	"fmt"
	"slices"
	"strings"
)

// Pattern selects how a scale or chord is walked to form a melody.
type Pattern int

const (
	Ascending Pattern = iota
	Descending
	Arpeggio
	ScaleRun
	Random
)

var patternNames = []string{"ascending", "descending", "arpeggio", "scalerun", "random"}

func (p Pattern) String() string {
	if p < Ascending || p > Random {
		return fmt.Sprintf("Pattern(%d)", int(p))
	}
	return patternNames[p]
}

func ParsePattern(name string) (Pattern, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("-", "", "_", "").Replace(name)
	for i, n := range patternNames {
		if n == name {
			return Pattern(i), nil
		}
	}
	return 0, fmt.Errorf("invalid pattern %q (want one of %s)", name, strings.Join(patternNames, ", "))
}

// Step is one note handed to the synthesizer.
type Step struct {
	Frequency float32
	Duration  float32 // seconds
}

type MelodyNote struct {
	Pitch    Pitch
	Duration float32 // seconds
}

// Melody is an ordered list of notes. Gaps between notes are left to the
// renderer.
type Melody struct {
	Notes []MelodyNote
}

func (m *Melody) Add(p Pitch, duration float32) *Melody {
	m.Notes = append(m.Notes, MelodyNote{Pitch: p, Duration: duration})
	return m
}

// MelodyFromScale walks a scale built on root in octave.
func MelodyFromScale(scale Scale, root Note, octave int, pattern Pattern, noteDuration float32) Melody {
	ps := scale.Pitches(root, octave)
	var m Melody
	switch pattern {
	case Ascending:
		for _, p := range ps {
			m.Add(p, noteDuration)
		}
	case Descending:
		for _, p := range slices.Backward(ps) {
			m.Add(p, noteDuration)
		}
	case Arpeggio:
		// root, third, fifth and back
		if len(ps) >= 5 {
			for _, i := range []int{0, 2, 4, 2, 0} {
				m.Add(ps[i], noteDuration)
			}
		}
	case ScaleRun:
		half := noteDuration * 0.5
		for _, p := range ps {
			m.Add(p, half)
		}
		for i := len(ps) - 2; i >= 0; i-- {
			m.Add(ps[i], half)
		}
	case Random:
		if len(ps) >= 3 {
			for _, i := range []int{0, 2, 1, 0} {
				m.Add(ps[i], noteDuration)
			}
		}
	}
	return m
}

// MelodyFromChord walks a chord voiced upward from octave. Patterns other
// than Arpeggio and Descending play the chord tones in order.
func MelodyFromChord(chord Chord, octave int, pattern Pattern, noteDuration float32) Melody {
	ps := chord.Pitches(octave)
	var m Melody
	switch pattern {
	case Arpeggio:
		for _, p := range ps {
			m.Add(p, noteDuration)
		}
		for i := len(ps) - 2; i >= 0; i-- {
			m.Add(ps[i], noteDuration)
		}
	case Descending:
		for _, p := range slices.Backward(ps) {
			m.Add(p, noteDuration)
		}
	default:
		for _, p := range ps {
			m.Add(p, noteDuration)
		}
	}
	return m
}

// Steps converts the melody to synthesizer steps.
func (m Melody) Steps() []Step {
	out := make([]Step, len(m.Notes))
	for i, n := range m.Notes {
		out[i] = Step{Frequency: n.Pitch.Frequency(), Duration: n.Duration}
	}
	return out
}

// Duration is the summed length of all notes in seconds.
func (m Melody) Duration() float32 {
	var d float32
	for _, n := range m.Notes {
		d += n.Duration
	}
	return d
}

// Transpose returns a copy shifted by semitones.
func (m Melody) Transpose(semitones int) Melody {
	out := Melody{Notes: make([]MelodyNote, len(m.Notes))}
	for i, n := range m.Notes {
		out.Notes[i] = MelodyNote{Pitch: n.Pitch.Transpose(semitones), Duration: n.Duration}
	}
	return out
}

// WithRhythm returns a copy whose note lengths follow r.
func (m Melody) WithRhythm(r Rhythm, base float32) Melody {
	durs := r.Durations(base, len(m.Notes))
	out := Melody{Notes: make([]MelodyNote, len(m.Notes))}
	for i, n := range m.Notes {
		out.Notes[i] = MelodyNote{Pitch: n.Pitch, Duration: durs[i]}
	}
	return out
}
