// Package score reads jingle definitions written in YAML. A score names a
// voice (waveform, envelope, optional extra layers), an effect chain, and a
// list of parts built from note names, scales, chords, progressions, plain
// tones and rests.
//
//	name: doorbell
//	waveform: triangle
//	adsr: {attack: 0.01, decay: 0.05, sustain: 0.6, release: 0.1}
//	effects: "reverb room; lowpass smooth"
//	parts:
//	  - notes: [E5, C5]
//	    durations: [0.2, 0.4]
//	  - rest: 0.1
//	  - chord: {root: C, type: major, octave: 4}
//	    pattern: arpeggio
//	    duration: 0.12
package score

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cbegin/jingle-go/internal/synth"
)

var ErrInvalidScore = errors.New("invalid score")

type Score struct {
	Name        string    `yaml:"name,omitempty"`
	Description string    `yaml:"description,omitempty"`
	SampleRate  int       `yaml:"sampleRate,omitempty"`
	Waveform    string    `yaml:"waveform,omitempty"`
	ADSR        *Envelope `yaml:"adsr,omitempty,flow"`
	// FitEnvelope shrinks the envelope on notes too short to hold it.
	FitEnvelope bool    `yaml:"fitEnvelope,omitempty"`
	Layers      []Layer `yaml:"layers,omitempty"`
	Effects     string  `yaml:"effects,omitempty"`
	// Normalize is the target peak applied after rendering; 0 disables it.
	Normalize float32 `yaml:"normalize,omitempty"`
	// Gap is silence inserted between parts, in seconds.
	Gap   float32 `yaml:"gap,omitempty"`
	Parts []Part  `yaml:"parts"`
}

type Envelope struct {
	Attack  float32 `yaml:"attack"`
	Decay   float32 `yaml:"decay"`
	Sustain float32 `yaml:"sustain"`
	Release float32 `yaml:"release"`
}

// Layer adds a partial on top of the base waveform. Exactly one of Ratio
// and Cents positions it; a zero Ratio with zero Cents means unison.
type Layer struct {
	Ratio     float32 `yaml:"ratio,omitempty"`
	Cents     float32 `yaml:"cents,omitempty"`
	Waveform  string  `yaml:"waveform,omitempty"`
	Amplitude float32 `yaml:"amplitude"`
	Phase     float32 `yaml:"phase,omitempty"`
}

// Part is one phrase of a score. Exactly one of Notes, Scale, Chord,
// Progression, Tones or Rest must be set.
type Part struct {
	Notes       []string         `yaml:"notes,omitempty,flow"`
	Durations   []float32        `yaml:"durations,omitempty,flow"`
	Scale       *ScalePart       `yaml:"scale,omitempty,flow"`
	Chord       *ChordPart       `yaml:"chord,omitempty,flow"`
	Progression *ProgressionPart `yaml:"progression,omitempty,flow"`
	Tones       []Tone           `yaml:"tones,omitempty,flow"`
	Rest        float32          `yaml:"rest,omitempty"`

	Pattern  string  `yaml:"pattern,omitempty"`
	Rhythm   string  `yaml:"rhythm,omitempty"`
	Duration float32 `yaml:"duration,omitempty"`
	Waveform string  `yaml:"waveform,omitempty"`
	Repeat   int     `yaml:"repeat,omitempty"`
}

type ScalePart struct {
	Root   string `yaml:"root"`
	Type   string `yaml:"type"`
	Octave int    `yaml:"octave"`
}

type ChordPart struct {
	Root   string `yaml:"root"`
	Type   string `yaml:"type"`
	Octave int    `yaml:"octave"`
}

type ProgressionPart struct {
	Key    string `yaml:"key"`
	Type   string `yaml:"type"`
	Octave int    `yaml:"octave"`
	// Chords limits how many chords of the progression are played.
	Chords int `yaml:"chords,omitempty"`
}

type Tone struct {
	Frequency float32 `yaml:"frequency"`
	Duration  float32 `yaml:"duration"`
}

// Parse decodes and validates a YAML score. Unknown fields are rejected.
func Parse(data []byte) (*Score, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Score
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document: %w", ErrInvalidScore)
		}
		return nil, fmt.Errorf("decode score: %w: %v", ErrInvalidScore, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a score file.
func Load(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read score: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Marshal encodes s as YAML.
func Marshal(s *Score) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Voice returns the waveform and envelope notes are rendered with.
func (s *Score) Voice() (synth.Waveform, synth.ADSR, error) {
	w := synth.Sine
	if s.Waveform != "" {
		var err error
		if w, err = synth.ParseWaveform(s.Waveform); err != nil {
			return 0, synth.ADSR{}, invalid("waveform", err)
		}
	}
	adsr := synth.DefaultADSR()
	if s.ADSR != nil {
		adsr = synth.ADSR(*s.ADSR)
	}
	return w, adsr, nil
}

// SynthLayers converts the extra layers for a LayeredOscillator.
func (s *Score) SynthLayers(base synth.Waveform) ([]synth.Layer, error) {
	out := make([]synth.Layer, 0, len(s.Layers))
	for i, l := range s.Layers {
		w := base
		if l.Waveform != "" {
			var err error
			if w, err = synth.ParseWaveform(l.Waveform); err != nil {
				return nil, invalid(fmt.Sprintf("layers[%d]", i), err)
			}
		}
		ratio := l.Ratio
		switch {
		case l.Cents != 0:
			ratio = synth.CentsToRatio(l.Cents)
		case ratio == 0:
			ratio = 1
		}
		out = append(out, synth.Layer{Ratio: ratio, Waveform: w, Amplitude: l.Amplitude, PhaseOffset: l.Phase})
	}
	return out, nil
}

func invalid(field string, err error) error {
	return fmt.Errorf("%s: %w: %v", field, ErrInvalidScore, err)
}

func invalidf(field, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", field, ErrInvalidScore, fmt.Sprintf(format, args...))
}
