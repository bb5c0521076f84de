package score

import (
	"fmt"
	"math"

	"github.com/cbegin/jingle-go/internal/music"
	"github.com/cbegin/jingle-go/internal/synth"
)

const (
	defaultNoteDuration = 0.2
	maxRepeat           = 64
)

// Event is one rendered note, or a rest when Frequency is zero.
type Event struct {
	Frequency float32
	Duration  float32 // seconds
	Waveform  synth.Waveform
}

func (e Event) Rest() bool { return e.Frequency == 0 }

// Validate checks every field that Events would otherwise reject.
func (s *Score) Validate() error {
	if s.SampleRate < 0 {
		return invalidf("sampleRate", "must not be negative, got %d", s.SampleRate)
	}
	if s.Gap < 0 || s.Normalize < 0 || s.Normalize > 1 {
		return invalidf("gap/normalize", "gap must be >= 0 and normalize in [0, 1]")
	}
	w, adsr, err := s.Voice()
	if err != nil {
		return err
	}
	if err := adsr.Validate(math.MaxFloat32); err != nil {
		return invalid("adsr", err)
	}
	if _, err := s.SynthLayers(w); err != nil {
		return err
	}
	if len(s.Parts) == 0 {
		return invalidf("parts", "at least one part is required")
	}
	_, err = s.Events()
	return err
}

// Events flattens the score into notes and rests. Gap rests are inserted
// between parts.
func (s *Score) Events() ([]Event, error) {
	base, _, err := s.Voice()
	if err != nil {
		return nil, err
	}
	var out []Event
	for i, p := range s.Parts {
		field := fmt.Sprintf("parts[%d]", i)
		evs, err := p.events(base)
		if err != nil {
			return nil, fmt.Errorf("%s.%w", field, err)
		}
		if i > 0 && s.Gap > 0 {
			out = append(out, Event{Duration: s.Gap})
		}
		out = append(out, evs...)
	}
	return out, nil
}

func (p Part) events(base synth.Waveform) ([]Event, error) {
	w := base
	if p.Waveform != "" {
		var err error
		if w, err = synth.ParseWaveform(p.Waveform); err != nil {
			return nil, invalid("waveform", err)
		}
	}
	if p.Duration < 0 {
		return nil, invalidf("duration", "must not be negative")
	}
	dur := p.Duration
	if dur == 0 {
		dur = defaultNoteDuration
	}

	set := 0
	for _, ok := range []bool{len(p.Notes) > 0, p.Scale != nil, p.Chord != nil, p.Progression != nil, len(p.Tones) > 0, p.Rest != 0} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, invalidf("part", "exactly one of notes, scale, chord, progression, tones or rest is required")
	}

	var m music.Melody
	switch {
	case p.Rest != 0:
		if p.Rest < 0 {
			return nil, invalidf("rest", "must not be negative")
		}
		return repeat([]Event{{Duration: p.Rest}}, p.Repeat)
	case len(p.Tones) > 0:
		evs := make([]Event, len(p.Tones))
		for i, t := range p.Tones {
			if t.Frequency <= 0 || t.Duration <= 0 {
				return nil, invalidf(fmt.Sprintf("tones[%d]", i), "frequency and duration must be positive")
			}
			evs[i] = Event{Frequency: t.Frequency, Duration: t.Duration, Waveform: w}
		}
		return repeat(evs, p.Repeat)
	case len(p.Notes) > 0:
		if len(p.Durations) > 0 && len(p.Durations) != len(p.Notes) {
			return nil, invalidf("durations", "got %d durations for %d notes", len(p.Durations), len(p.Notes))
		}
		for i, n := range p.Notes {
			pitch, err := music.ParsePitch(n)
			if err != nil {
				return nil, invalid(fmt.Sprintf("notes[%d]", i), err)
			}
			d := dur
			if len(p.Durations) > 0 {
				d = p.Durations[i]
			}
			m.Add(pitch, d)
		}
	case p.Scale != nil:
		root, err := music.ParseNote(p.Scale.Root)
		if err != nil {
			return nil, invalid("scale.root", err)
		}
		scale, err := music.ParseScale(p.Scale.Type)
		if err != nil {
			return nil, invalid("scale.type", err)
		}
		pattern, err := p.pattern(music.Ascending)
		if err != nil {
			return nil, err
		}
		m = music.MelodyFromScale(scale, root, octave(p.Scale.Octave), pattern, dur)
	case p.Chord != nil:
		chord, err := parseChord(p.Chord.Root, p.Chord.Type)
		if err != nil {
			return nil, err
		}
		pattern, err := p.pattern(music.Arpeggio)
		if err != nil {
			return nil, err
		}
		m = music.MelodyFromChord(chord, octave(p.Chord.Octave), pattern, dur)
	case p.Progression != nil:
		key, err := music.ParseNote(p.Progression.Key)
		if err != nil {
			return nil, invalid("progression.key", err)
		}
		prog, err := music.ParseProgression(p.Progression.Type)
		if err != nil {
			return nil, invalid("progression.type", err)
		}
		pattern, err := p.pattern(music.Arpeggio)
		if err != nil {
			return nil, err
		}
		chords := prog.Chords(key)
		if n := p.Progression.Chords; n > 0 && n < len(chords) {
			chords = chords[:n]
		}
		for _, c := range chords {
			cm := music.MelodyFromChord(c, octave(p.Progression.Octave), pattern, dur)
			m.Notes = append(m.Notes, cm.Notes...)
		}
	}

	if p.Rhythm != "" {
		r, err := music.ParseRhythm(p.Rhythm)
		if err != nil {
			return nil, invalid("rhythm", err)
		}
		m = m.WithRhythm(r, dur)
	}

	var evs []Event
	for i, st := range m.Steps() {
		if st.Duration <= 0 {
			return nil, invalidf(fmt.Sprintf("durations[%d]", i), "must be positive")
		}
		evs = append(evs, Event{Frequency: st.Frequency, Duration: st.Duration, Waveform: w})
	}
	return repeat(evs, p.Repeat)
}

func (p Part) pattern(def music.Pattern) (music.Pattern, error) {
	if p.Pattern == "" {
		return def, nil
	}
	pat, err := music.ParsePattern(p.Pattern)
	if err != nil {
		return 0, invalid("pattern", err)
	}
	return pat, nil
}

func parseChord(root, kind string) (music.Chord, error) {
	n, err := music.ParseNote(root)
	if err != nil {
		return music.Chord{}, invalid("chord.root", err)
	}
	switch kind {
	case "", "major", "maj":
		return music.MajorChord(n), nil
	case "minor", "min", "m":
		return music.MinorChord(n), nil
	case "dominant7", "dom7", "7":
		return music.Dominant7Chord(n), nil
	case "minor7", "min7", "m7":
		return music.Minor7Chord(n), nil
	}
	return music.Chord{}, invalidf("chord.type", "unknown chord type %q", kind)
}

// octave defaults an unset octave to 4.
func octave(o int) int {
	if o == 0 {
		return 4
	}
	return o
}

func repeat(evs []Event, n int) ([]Event, error) {
	if n < 0 || n > maxRepeat {
		return nil, invalidf("repeat", "must be in [0, %d], got %d", maxRepeat, n)
	}
	if n <= 1 {
		return evs, nil
	}
	out := make([]Event, 0, len(evs)*n)
	for range n {
		out = append(out, evs...)
	}
	return out, nil
}
