package jingle

import (
	"fmt"
	"strings"

	"github.com/cbegin/jingle-go/internal/audio"
	"github.com/cbegin/jingle-go/internal/effects"
	"github.com/cbegin/jingle-go/internal/music"
	"github.com/cbegin/jingle-go/internal/score"
	"github.com/cbegin/jingle-go/internal/synth"
)

// Tone renders one note at exactly frequency and duration with the
// generator's envelope. Tempo, transposition and effects are not applied.
func (g *Generator) Tone(frequency, duration float32, w synth.Waveform) []float32 {
	osc := synth.NewOscillator(g.cfg.sampleRate, frequency, w, duration).WithADSR(g.cfg.adsr)
	return audio.Collect(osc)
}

// RenderMelody renders the notes of m back to back, without gaps.
func (g *Generator) RenderMelody(m music.Melody, w synth.Waveform) []float32 {
	var out []float32
	for _, st := range m.Steps() {
		out = append(out, g.Tone(st.Frequency, st.Duration, w)...)
	}
	return out
}

// Combine concatenates buffers with gap seconds of silence between them.
func (g *Generator) Combine(gap float32, bufs ...[]float32) []float32 {
	n := gapSamples(g.cfg.sampleRate, gap)
	var out []float32
	for i, b := range bufs {
		out = append(out, b...)
		if i < len(bufs)-1 && n > 0 {
			out = append(out, make([]float32, n)...)
		}
	}
	return out
}

func gapSamples(sampleRate int, seconds float32) int {
	if seconds <= 0 {
		return 0
	}
	return int(float32(sampleRate) * seconds)
}

// Stream builds the lazy source for s: every event in order, then the
// score's effect chain followed by the generator's. Tempo and transposition
// are applied to each event.
func (g *Generator) Stream(s *score.Score) (audio.Source, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	rate := g.cfg.sampleRate
	if s.SampleRate > 0 {
		rate = s.SampleRate
	}
	base, adsr, err := s.Voice()
	if err != nil {
		return nil, err
	}
	if s.ADSR == nil {
		adsr = g.cfg.adsr
	}
	layers, err := s.SynthLayers(base)
	if err != nil {
		return nil, err
	}
	events, err := s.Events()
	if err != nil {
		return nil, err
	}

	ratio := g.pitchRatio()
	sources := make([]audio.Source, 0, len(events))
	for _, ev := range events {
		dur := ev.Duration * g.cfg.tempo
		if ev.Rest() {
			sources = append(sources, audio.Silence(gapSamples(rate, dur), rate))
			continue
		}
		freq := ev.Frequency * ratio
		env := adsr
		if s.FitEnvelope {
			env = adsr.Fit(dur)
		}
		if len(layers) == 0 {
			sources = append(sources, synth.NewOscillator(rate, freq, ev.Waveform, dur).WithADSR(env))
			continue
		}
		osc := synth.NewLayeredOscillator(rate, freq, ev.Waveform, dur).WithADSR(env)
		for _, l := range layers {
			osc.AddLayer(l)
		}
		sources = append(sources, osc)
	}

	var src audio.Source = audio.NewConcat(sources...)
	if len(sources) == 0 {
		src = audio.Silence(0, rate)
	}
	chain := strings.Join(nonEmpty(s.Effects, g.cfg.effects), "; ")
	src, err = effects.Build(src, chain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return src, nil
}

// RenderScore renders s to a buffer and applies peak normalization, taking
// the score's target over the generator's.
func (g *Generator) RenderScore(s *score.Score) ([]float32, error) {
	src, err := g.Stream(s)
	if err != nil {
		return nil, err
	}
	out := audio.Collect(src)
	target := g.cfg.normalize
	if s.Normalize > 0 {
		target = s.Normalize
	}
	if target > 0 {
		effects.NormalizeSamples(out, target)
	}
	return out, nil
}

func nonEmpty(ss ...string) []string {
	var out []string
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
