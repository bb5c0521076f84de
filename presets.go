package jingle

import (
	"fmt"
	"strings"

	"github.com/cbegin/jingle-go/internal/music"
	"github.com/cbegin/jingle-go/internal/score"
	"github.com/cbegin/jingle-go/internal/synth"
)

type Preset int

const (
	Notification Preset = iota
	Success
	Alert
	Error
	Startup
	Shutdown
	Message
	Completion
)

var presetInfo = [...]struct {
	name, description string
	waveform          synth.Waveform
}{
	Notification: {"notification", "Gentle notification sound", synth.Sine},
	Success:      {"success", "Pleasant success chime", synth.Triangle},
	Alert:        {"alert", "Attention-grabbing alert", synth.Square},
	Error:        {"error", "Warning error sound", synth.Sawtooth},
	Startup:      {"startup", "System startup jingle", synth.Sine},
	Shutdown:     {"shutdown", "System shutdown sound", synth.Sine},
	Message:      {"message", "Message received notification", synth.Sine},
	Completion:   {"completion", "Task completion sound", synth.Sine},
}

func Presets() []Preset {
	return []Preset{Notification, Success, Alert, Error, Startup, Shutdown, Message, Completion}
}

func (p Preset) valid() bool { return p >= 0 && int(p) < len(presetInfo) }

func (p Preset) Name() string {
	if !p.valid() {
		return fmt.Sprintf("Preset(%d)", int(p))
	}
	return presetInfo[p].name
}

func (p Preset) String() string { return p.Name() }

func (p Preset) Description() string {
	if !p.valid() {
		return ""
	}
	return presetInfo[p].description
}

// DefaultWaveform is the voice the preset is usually played with.
func (p Preset) DefaultWaveform() synth.Waveform {
	if !p.valid() {
		return synth.Sine
	}
	return presetInfo[p].waveform
}

func ParsePreset(name string) (Preset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range Presets() {
		if p.Name() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown preset %q", ErrInvalidParameter, name)
}

// Score returns a fresh score for the preset, voiced with its default
// waveform.
func (p Preset) Score() (*score.Score, error) {
	var parts []score.Part
	switch p {
	case Notification:
		parts = []score.Part{{
			Scale:    &score.ScalePart{Root: music.C.String(), Type: music.Pentatonic.String(), Octave: 5},
			Pattern:  music.Arpeggio.String(),
			Duration: 0.15,
		}}
	case Success:
		parts = []score.Part{{
			Scale:    &score.ScalePart{Root: music.C.String(), Type: music.Major.String(), Octave: 4},
			Pattern:  music.Ascending.String(),
			Duration: 0.2,
		}}
	case Alert:
		// two short beeps, each followed by a rest
		beep := score.Part{Notes: []string{"G6"}, Duration: 0.1}
		rest := score.Part{Rest: 0.05}
		parts = []score.Part{beep, rest, beep, rest}
	case Error:
		parts = []score.Part{{
			Scale:    &score.ScalePart{Root: music.D.String(), Type: music.Minor.String(), Octave: 5},
			Pattern:  music.Descending.String(),
			Duration: 0.25,
		}}
	case Startup:
		// I-V of the pop progression
		parts = []score.Part{{
			Progression: &score.ProgressionPart{Key: music.C.String(), Type: music.Pop.String(), Octave: 4, Chords: 2},
			Pattern:     music.Arpeggio.String(),
			Duration:    0.3,
		}}
	case Shutdown:
		parts = []score.Part{{
			Scale:    &score.ScalePart{Root: music.G.String(), Type: music.Pentatonic.String(), Octave: 4},
			Pattern:  music.Descending.String(),
			Duration: 0.4,
		}}
	case Message:
		parts = []score.Part{{Notes: []string{"C5", "E5"}, Durations: []float32{0.1, 0.15}}}
	case Completion:
		// perfect cadence V-I
		parts = []score.Part{
			{Chord: &score.ChordPart{Root: music.G.String(), Type: "major", Octave: 4}, Pattern: music.Arpeggio.String(), Duration: 0.2},
			{Chord: &score.ChordPart{Root: music.C.String(), Type: "major", Octave: 4}, Pattern: music.Arpeggio.String(), Duration: 0.3},
		}
	default:
		return nil, fmt.Errorf("%w: unknown preset %d", ErrInvalidParameter, int(p))
	}
	return &score.Score{
		Name:        p.Name(),
		Description: p.Description(),
		Waveform:    p.DefaultWaveform().String(),
		Parts:       parts,
	}, nil
}

// Preset renders p voiced with w.
func (g *Generator) Preset(p Preset, w synth.Waveform) ([]float32, error) {
	s, err := p.Score()
	if err != nil {
		return nil, err
	}
	s.Waveform = w.String()
	return g.RenderScore(s)
}
