package music

import (
	"fmt"
	"strings"
)

type Scale int

const (
	Major Scale = iota
	Minor
	Pentatonic
	Chromatic
)

var scaleNames = []string{"major", "minor", "pentatonic", "chromatic"}

func (s Scale) String() string {
	if s < Major || s > Chromatic {
		return fmt.Sprintf("Scale(%d)", int(s))
	}
	return scaleNames[s]
}

func ParseScale(name string) (Scale, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range scaleNames {
		if n == name {
			return Scale(i), nil
		}
	}
	return 0, fmt.Errorf("invalid scale %q (want one of %s)", name, strings.Join(scaleNames, ", "))
}

// Intervals returns the semitone offsets of the scale degrees from the root.
func (s Scale) Intervals() []int {
	switch s {
	case Minor:
		return []int{0, 2, 3, 5, 7, 8, 10}
	case Pentatonic:
		return []int{0, 2, 4, 7, 9}
	case Chromatic:
		return []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	default:
		return []int{0, 2, 4, 5, 7, 9, 11}
	}
}

// Notes returns the pitch classes of the scale built on root.
func (s Scale) Notes(root Note) []Note {
	iv := s.Intervals()
	out := make([]Note, len(iv))
	for i, v := range iv {
		out[i] = root.Transpose(v)
	}
	return out
}

// Pitches returns the scale on root in octave, rising through octave
// boundaries rather than wrapping.
func (s Scale) Pitches(root Note, octave int) []Pitch {
	base := Pitch{Note: root, Octave: octave}
	iv := s.Intervals()
	out := make([]Pitch, len(iv))
	for i, v := range iv {
		out[i] = base.Transpose(v)
	}
	return out
}

// Chord is a root plus semitone intervals above it.
type Chord struct {
	Root      Note
	Intervals []int
}

func MajorChord(root Note) Chord     { return Chord{Root: root, Intervals: []int{0, 4, 7}} }
func MinorChord(root Note) Chord     { return Chord{Root: root, Intervals: []int{0, 3, 7}} }
func Dominant7Chord(root Note) Chord { return Chord{Root: root, Intervals: []int{0, 4, 7, 10}} }
func Minor7Chord(root Note) Chord    { return Chord{Root: root, Intervals: []int{0, 3, 7, 10}} }

func (c Chord) Notes() []Note {
	out := make([]Note, len(c.Intervals))
	for i, v := range c.Intervals {
		out[i] = c.Root.Transpose(v)
	}
	return out
}

// Pitches voices the chord upward from its root in octave.
func (c Chord) Pitches(octave int) []Pitch {
	base := Pitch{Note: c.Root, Octave: octave}
	out := make([]Pitch, len(c.Intervals))
	for i, v := range c.Intervals {
		out[i] = base.Transpose(v)
	}
	return out
}

type Progression int

const (
	Pop       Progression = iota // I-V-vi-IV
	Jazz                         // ii7-V7-I
	Blues                        // I-IV-V
	Classical                    // I-vi-IV-V
)

var progressionNames = []string{"pop", "jazz", "blues", "classical"}

func (p Progression) String() string {
	if p < Pop || p > Classical {
		return fmt.Sprintf("Progression(%d)", int(p))
	}
	return progressionNames[p]
}

func ParseProgression(name string) (Progression, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range progressionNames {
		if n == name {
			return Progression(i), nil
		}
	}
	return 0, fmt.Errorf("invalid progression %q (want one of %s)", name, strings.Join(progressionNames, ", "))
}

// Chords returns the progression's chords in the major key of key.
func (p Progression) Chords(key Note) []Chord {
	deg := Major.Notes(key)
	switch p {
	case Jazz:
		return []Chord{Minor7Chord(deg[1]), Dominant7Chord(deg[4]), MajorChord(deg[0])}
	case Blues:
		return []Chord{MajorChord(deg[0]), MajorChord(deg[3]), MajorChord(deg[4])}
	case Classical:
		return []Chord{MajorChord(deg[0]), MinorChord(deg[5]), MajorChord(deg[3]), MajorChord(deg[4])}
	default:
		return []Chord{MajorChord(deg[0]), MajorChord(deg[4]), MinorChord(deg[5]), MajorChord(deg[3])}
	}
}
