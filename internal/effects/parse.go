package effects

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cbegin/jingle-go/internal/audio"
	"github.com/cbegin/jingle-go/internal/synth"
)

var (
	ErrUnknownEffect = errors.New("unknown effect")
	ErrEffectParam   = errors.New("invalid effect parameter")
)

// Names lists the effect names accepted by ParseChain.
func Names() []string {
	return []string{"echo", "reverb", "lowpass", "agc", "chorus", "distortion", "eq", "compressor", "tremolo"}
}

// ParseChain builds a processor chain from a text description such as
//
//	echo 120,0.4,0.3; reverb hall; lowpass 4000; agc gentle
//
// Stages are separated by ';'. Each stage is an effect name followed by
// comma-separated numbers and, for some effects, a preset name; missing
// numbers take their defaults. Braces around a stage are ignored.
func ParseChain(spec string, sampleRate int) (*Chain, error) {
	chain := NewChain()
	for _, raw := range strings.Split(spec, ";") {
		raw = strings.TrimSpace(raw)
		raw = strings.TrimPrefix(raw, "{")
		raw = strings.TrimSuffix(raw, "}")
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.SplitN(raw, " ", 2)
		effectType := strings.ToLower(strings.TrimSpace(parts[0]))
		var args string
		if len(parts) > 1 {
			args = strings.TrimSpace(parts[1])
		}
		p, err := createEffect(effectType, args, sampleRate)
		if err != nil {
			return nil, err
		}
		chain.Add(p)
	}
	return chain, nil
}

// Build wraps src with the chain described by spec. An empty spec returns
// src unchanged.
func Build(src audio.Source, spec string) (audio.Source, error) {
	chain, err := ParseChain(spec, src.SampleRate())
	if err != nil {
		return nil, err
	}
	if chain.Len() == 0 {
		return src, nil
	}
	return Apply(src, chain), nil
}

func createEffect(effectType, args string, sampleRate int) (Processor, error) {
	preset, params, err := parseArgs(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", effectType, err)
	}
	getParam := func(idx int, def float32) float32 {
		if idx < len(params) {
			return params[idx]
		}
		return def
	}
	badPreset := func() error {
		return fmt.Errorf("%s: unknown preset %q: %w", effectType, preset, ErrEffectParam)
	}

	switch effectType {
	case "echo", "delay":
		if preset != "" {
			return nil, badPreset()
		}
		return NewDelayBuffer(sampleRate,
			getParam(0, 250), // delay ms
			getParam(1, 0.4), // feedback
			getParam(2, 0.3), // mix
		), nil
	case "reverb":
		switch preset {
		case "":
		case "room", "small":
			return NewCombBank(sampleRate, 0.5, 0.3, 0.2), nil
		case "hall", "large":
			return NewCombBank(sampleRate, 1.5, 0.5, 0.4), nil
		default:
			return nil, badPreset()
		}
		return NewCombBank(sampleRate,
			getParam(0, 0.5), // room size
			getParam(1, 0.3), // damping
			getParam(2, 0.2), // mix
		), nil
	case "lowpass", "lpf":
		switch preset {
		case "":
		case "smooth":
			return NewLowPassFilter(4000, sampleRate), nil
		case "muffled":
			return NewLowPassFilter(1000, sampleRate), nil
		default:
			return nil, badPreset()
		}
		return NewLowPassFilter(getParam(0, 4000), sampleRate), nil
	case "agc":
		switch preset {
		case "":
		case "gentle":
			return NewAutomaticGainControl(0.7, 0.003, 0.1, sampleRate), nil
		case "limiter":
			return NewAutomaticGainControl(0.95, 0.001, 0.05, sampleRate), nil
		default:
			return nil, badPreset()
		}
		return NewAutomaticGainControl(
			getParam(0, 0.7),   // target level
			getParam(1, 0.003), // attack s
			getParam(2, 0.1),   // release s
			sampleRate,
		), nil
	case "chorus":
		if preset != "" {
			return nil, badPreset()
		}
		return NewChorus(sampleRate,
			getParam(0, 15),  // delay ms
			getParam(1, 0.3), // feedback
			getParam(2, 3),   // depth ms
			getParam(3, 1.5), // rate Hz
			getParam(4, 0.4), // wet
		), nil
	case "dist", "distortion":
		if preset != "" {
			return nil, badPreset()
		}
		return NewDistortion(sampleRate,
			getParam(0, 4),    // drive
			getParam(1, 0.5),  // level
			getParam(2, 8000), // tone Hz
		), nil
	case "eq":
		if preset != "" {
			return nil, badPreset()
		}
		return NewEQ3Band(sampleRate,
			getParam(0, 1.0),  // low gain
			getParam(1, 1.0),  // mid gain
			getParam(2, 1.0),  // high gain
			getParam(3, 300),  // low freq
			getParam(4, 3000), // high freq
		), nil
	case "comp", "compressor":
		if preset != "" {
			return nil, badPreset()
		}
		return NewCompressor(sampleRate,
			getParam(0, -20), // threshold dB
			getParam(1, 4),   // ratio
			getParam(2, 5),   // attack ms
			getParam(3, 100), // release ms
			getParam(4, 6),   // makeup dB
		), nil
	case "tremolo", "trem":
		w := synth.Sine
		if preset != "" {
			if w, err = synth.ParseWaveform(preset); err != nil {
				return nil, badPreset()
			}
		}
		return NewTremolo(sampleRate,
			getParam(0, 5),   // rate Hz
			getParam(1, 0.5), // depth
			w,
		), nil
	}
	return nil, fmt.Errorf("%q: %w", effectType, ErrUnknownEffect)
}

// parseArgs splits a stage's arguments into numbers and at most one preset
// word. Numbers may be separated by commas or spaces.
func parseArgs(args string) (string, []float32, error) {
	var preset string
	var params []float32
	for _, f := range strings.Fields(strings.ReplaceAll(args, ",", " ")) {
		v, err := strconv.ParseFloat(f, 32)
		if err == nil {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return "", nil, fmt.Errorf("non-finite argument %q: %w", f, ErrEffectParam)
			}
			params = append(params, float32(v))
			continue
		}
		if preset != "" {
			return "", nil, fmt.Errorf("bad argument %q: %w", f, ErrEffectParam)
		}
		preset = strings.ToLower(f)
	}
	return preset, params, nil
}
