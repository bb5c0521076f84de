package jingle

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/cbegin/jingle-go/internal/effects"
	"github.com/cbegin/jingle-go/internal/music"
	"github.com/cbegin/jingle-go/internal/synth"
)

type GeneratorOption func(*generatorConfig)

type generatorConfig struct {
	sampleRate    int
	seed          uint64
	seeded        bool
	effects       string
	adsr          synth.ADSR
	tempo         float32
	baseFrequency float32
	normalize     float32
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		sampleRate:    DefaultSampleRate,
		adsr:          synth.DefaultADSR(),
		tempo:         1,
		baseFrequency: music.A4,
	}
}

func WithSampleRate(sampleRate int) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.sampleRate = sampleRate
	}
}

// WithSeed makes the generator's random helpers reproducible.
func WithSeed(seed uint64) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.seed = seed
		cfg.seeded = true
	}
}

// WithStringSeed seeds the generator from the FNV-1a hash of s.
func WithStringSeed(s string) GeneratorOption {
	return WithSeed(StringSeed(s))
}

// WithEffects sets an effect chain, such as "echo 200,0.4,0.3; lowpass smooth",
// applied to every jingle after any chain the score declares.
func WithEffects(spec string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.effects = spec
	}
}

// WithADSR replaces the envelope used by scores that do not declare one.
func WithADSR(adsr synth.ADSR) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.adsr = adsr
	}
}

// WithTempo scales every note and rest length. 2 plays twice as long.
func WithTempo(scale float32) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.tempo = scale
	}
}

// WithBaseFrequency transposes jingles by the ratio of hz to A4 (440 Hz).
func WithBaseFrequency(hz float32) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.baseFrequency = hz
	}
}

// WithNormalize peak-normalizes rendered jingles to target. 0 disables it.
func WithNormalize(target float32) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.normalize = target
	}
}

// Generator renders jingles. It is not safe for concurrent use; Fork gives
// each goroutine its own.
type Generator struct {
	cfg generatorConfig
	rng *rand.Rand
}

func NewGenerator(opts ...GeneratorOption) (*Generator, error) {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := &Generator{cfg: cfg}
	g.resetRNG()
	return g, nil
}

func (cfg generatorConfig) validate() error {
	if cfg.sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidParameter, cfg.sampleRate)
	}
	if !positive(cfg.tempo) {
		return fmt.Errorf("%w: tempo must be positive, got %v", ErrInvalidParameter, cfg.tempo)
	}
	if !positive(cfg.baseFrequency) {
		return fmt.Errorf("%w: base frequency must be positive, got %v", ErrInvalidParameter, cfg.baseFrequency)
	}
	if cfg.normalize < 0 || cfg.normalize > 1 {
		return fmt.Errorf("%w: normalize must be in [0, 1], got %v", ErrInvalidParameter, cfg.normalize)
	}
	if err := cfg.adsr.Validate(0); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if _, err := effects.ParseChain(cfg.effects, cfg.sampleRate); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return nil
}

func positive(v float32) bool {
	return v > 0 && !math.IsInf(float64(v), 0)
}

func (g *Generator) resetRNG() {
	if g.cfg.seeded {
		g.rng = rand.New(rand.NewPCG(g.cfg.seed, g.cfg.seed^0x9e3779b97f4a7c15))
		return
	}
	g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (g *Generator) SampleRate() int { return g.cfg.sampleRate }

// Seed returns the seed, and false when the generator was seeded from entropy.
func (g *Generator) Seed() (uint64, bool) {
	return g.cfg.seed, g.cfg.seeded
}

// Reseed switches to seed and restarts the random sequence.
func (g *Generator) Reseed(seed uint64) {
	g.cfg.seed = seed
	g.cfg.seeded = true
	g.resetRNG()
}

// Reset restarts the random sequence from the current seed.
func (g *Generator) Reset() error {
	if !g.cfg.seeded {
		return fmt.Errorf("%w: no seed to reset to", ErrInvalidParameter)
	}
	g.resetRNG()
	return nil
}

// Fork returns an independent generator that starts over from the same seed.
func (g *Generator) Fork() (*Generator, error) {
	if !g.cfg.seeded {
		return nil, fmt.Errorf("%w: cannot fork a generator without a seed", ErrInvalidParameter)
	}
	return g.withSeed(g.cfg.seed), nil
}

// Derive returns a generator seeded with seed+variation, wrapping on
// overflow.
func (g *Generator) Derive(variation uint64) (*Generator, error) {
	if !g.cfg.seeded {
		return nil, fmt.Errorf("%w: cannot derive from a generator without a seed", ErrInvalidParameter)
	}
	return g.withSeed(g.cfg.seed + variation), nil
}

func (g *Generator) withSeed(seed uint64) *Generator {
	out := &Generator{cfg: g.cfg}
	out.cfg.seed = seed
	out.cfg.seeded = true
	out.resetRNG()
	return out
}

// Variation returns a parameter scale factor in [0.6, 1.4].
func (g *Generator) Variation() float32 {
	return g.uniform(0.6, 1.4)
}

// PitchOffset returns a transposition in [-4, 4] semitones.
func (g *Generator) PitchOffset() float32 {
	return g.uniform(-4, 4)
}

// RhythmVariation returns a duration scale factor in [0.5, 2].
func (g *Generator) RhythmVariation() float32 {
	return g.uniform(0.5, 2)
}

func (g *Generator) RandomWaveform() synth.Waveform {
	ws := synth.Waveforms()
	return ws[g.rng.IntN(len(ws))]
}

func (g *Generator) RandomScale() music.Scale {
	return []music.Scale{music.Major, music.Minor, music.Pentatonic, music.Chromatic}[g.rng.IntN(4)]
}

func (g *Generator) RandomPattern() music.Pattern {
	return []music.Pattern{music.Ascending, music.Descending, music.Arpeggio, music.ScaleRun, music.Random}[g.rng.IntN(5)]
}

func (g *Generator) uniform(lo, hi float32) float32 {
	return lo + g.rng.Float32()*(hi-lo)
}

// Vary returns a copy whose tempo and pitch are nudged by Variation and
// PitchOffset. The copy shares nothing with g; its own random sequence is
// drawn from g.
func (g *Generator) Vary() *Generator {
	out := &Generator{cfg: g.cfg}
	out.cfg.tempo *= g.Variation()
	semis := g.PitchOffset()
	out.cfg.baseFrequency *= float32(math.Pow(2, float64(semis)/12))
	out.cfg.seed = g.rng.Uint64()
	out.cfg.seeded = g.cfg.seeded
	out.resetRNG()
	return out
}

// Tempo is the note length scale applied to presets and scores.
func (g *Generator) Tempo() float32 { return g.cfg.tempo }

// BaseFrequency is the reference pitch that A4 is moved to.
func (g *Generator) BaseFrequency() float32 { return g.cfg.baseFrequency }

func (g *Generator) pitchRatio() float32 {
	return g.cfg.baseFrequency / music.A4
}

// StringSeed hashes s into a seed.
func StringSeed(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
