// Package music turns note names, scales, chords and rhythm patterns into
// the (frequency, duration) steps the synthesizer renders.
package music

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// A4 is the tuning reference in Hz.
const A4 = 440.0

// Note is a pitch class, C through B.
type Note int

const (
	C Note = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (n Note) String() string {
	if n < C || n > B {
		return fmt.Sprintf("Note(%d)", int(n))
	}
	return noteNames[n]
}

// SemitonesFromA returns the offset of n from A in the same octave.
func (n Note) SemitonesFromA() int { return int(n) - int(A) }

// Frequency returns the equal-tempered frequency of n in octave.
func (n Note) Frequency(octave int) float32 {
	return Pitch{Note: n, Octave: octave}.Frequency()
}

// Transpose moves n by semitones, wrapping within the octave.
func (n Note) Transpose(semitones int) Note {
	return Note(((int(n)+semitones)%12 + 12) % 12)
}

// FromFrequency returns the pitch class nearest to f.
func FromFrequency(f float32) Note {
	return PitchFromFrequency(f).Note
}

// Pitch is a note in a specific octave. Octave 4 contains A4 = 440 Hz.
type Pitch struct {
	Note   Note
	Octave int
}

// MIDI returns the MIDI note number, where A4 is 69.
func (p Pitch) MIDI() int { return (p.Octave+1)*12 + int(p.Note) }

func PitchFromMIDI(m int) Pitch {
	octave := m/12 - 1
	if m < 0 && m%12 != 0 {
		octave--
	}
	return Pitch{Note: C.Transpose(m), Octave: octave}
}

func (p Pitch) Frequency() float32 {
	semitones := p.MIDI() - 69
	return float32(A4 * math.Pow(2, float64(semitones)/12))
}

func (p Pitch) Transpose(semitones int) Pitch {
	return PitchFromMIDI(p.MIDI() + semitones)
}

func (p Pitch) String() string {
	return p.Note.String() + strconv.Itoa(p.Octave)
}

// PitchFromFrequency rounds f to the nearest equal-tempered pitch.
func PitchFromFrequency(f float32) Pitch {
	if f <= 0 {
		return Pitch{Note: A, Octave: 4}
	}
	semitones := int(math.Round(12 * math.Log2(float64(f)/A4)))
	return PitchFromMIDI(69 + semitones)
}

// ParseNote parses a pitch class such as "C", "f#" or "Bb".
func ParseNote(s string) (Note, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty note name")
	}
	var n Note
	switch strings.ToUpper(s[:1]) {
	case "C":
		n = C
	case "D":
		n = D
	case "E":
		n = E
	case "F":
		n = F
	case "G":
		n = G
	case "A":
		n = A
	case "B":
		n = B
	default:
		return 0, fmt.Errorf("invalid note %q", s)
	}
	for _, r := range s[1:] {
		switch r {
		case '#', 's':
			n = n.Transpose(1)
		case 'b':
			n = n.Transpose(-1)
		default:
			return 0, fmt.Errorf("invalid note %q", s)
		}
	}
	return n, nil
}

// ParsePitch parses a note followed by an octave number, e.g. "C#5" or
// "A-1". The octave defaults to 4 when omitted.
func ParsePitch(s string) (Pitch, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool { return r == '-' || (r >= '0' && r <= '9') })
	name, oct := s, "4"
	if i > 0 {
		name, oct = s[:i], s[i:]
	}
	n, err := ParseNote(name)
	if err != nil {
		return Pitch{}, err
	}
	octave, err := strconv.Atoi(oct)
	if err != nil {
		return Pitch{}, fmt.Errorf("invalid octave in %q", s)
	}
	return Pitch{Note: n, Octave: octave}, nil
}
