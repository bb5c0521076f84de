package jingle

import (
	"errors"
	"testing"

	"github.com/cbegin/jingle-go/internal/music"
	"github.com/cbegin/jingle-go/internal/synth"
	"github.com/google/go-cmp/cmp"
)

func mustGenerator(t *testing.T, opts ...GeneratorOption) *Generator {
	t.Helper()
	g, err := NewGenerator(opts...)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func TestNewGeneratorRejectsBadOptions(t *testing.T) {
	for _, tc := range []struct {
		name string
		opt  GeneratorOption
	}{
		{"zero rate", WithSampleRate(0)},
		{"zero tempo", WithTempo(0)},
		{"negative base", WithBaseFrequency(-440)},
		{"normalize range", WithNormalize(1.5)},
		{"bad adsr", WithADSR(synth.ADSR{Attack: -1})},
		{"bad effects", WithEffects("flanger")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewGenerator(tc.opt); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("err = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestToneLength(t *testing.T) {
	g := mustGenerator(t)
	if got := len(g.Tone(440, 0.1, synth.Sine)); got != 4410 {
		t.Errorf("len = %d, want 4410", got)
	}
	g = mustGenerator(t, WithSampleRate(8000))
	if got := len(g.Tone(440, 0.5, synth.Square)); got != 4000 {
		t.Errorf("len at 8 kHz = %d, want 4000", got)
	}
}

func TestRenderMelody(t *testing.T) {
	g := mustGenerator(t)
	m := music.MelodyFromScale(music.Major, music.C, 4, music.Ascending, 0.1)
	got := g.RenderMelody(m, synth.Sine)
	if len(got) != 7*4410 {
		t.Errorf("len = %d, want %d", len(got), 7*4410)
	}
	first := g.Tone(music.C.Frequency(4), 0.1, synth.Sine)
	if diff := cmp.Diff(got[:len(first)], first); diff != "" {
		t.Errorf("first note (-got +want):\n%s", diff)
	}
}

func TestCombine(t *testing.T) {
	g := mustGenerator(t)
	a := []float32{0.1, 0.2, 0.3}
	b := []float32{0.4, 0.5, 0.6}
	if diff := cmp.Diff(g.Combine(0, a, b), []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}); diff != "" {
		t.Errorf("Combine (-got +want):\n%s", diff)
	}
	got := g.Combine(0.5, a, b)
	if len(got) != 6+22050 {
		t.Fatalf("len = %d, want %d", len(got), 6+22050)
	}
	if got[3] != 0 || got[len(got)-3] != 0.4 {
		t.Errorf("gap misplaced: %v ... %v", got[:4], got[len(got)-3:])
	}
	if g.Combine(1) != nil {
		t.Error("Combine of nothing should be empty")
	}
}

func TestSeededGeneratorsAgree(t *testing.T) {
	a := mustGenerator(t, WithSeed(12345))
	b := mustGenerator(t, WithSeed(12345))
	for range 10 {
		if a.Variation() != b.Variation() || a.PitchOffset() != b.PitchOffset() || a.RandomWaveform() != b.RandomWaveform() {
			t.Fatal("same seed diverged")
		}
	}
	s1 := mustGenerator(t, WithStringSeed("test"))
	s2 := mustGenerator(t, WithStringSeed("test"))
	if s1.Variation() != s2.Variation() {
		t.Error("string seeds diverged")
	}
	if StringSeed("test") == StringSeed("tset") {
		t.Error("string seed ignores order")
	}
}

func TestResetFork(t *testing.T) {
	g := mustGenerator(t, WithSeed(12345))
	first := g.Variation()
	g.Variation()
	if err := g.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := g.Variation(); got != first {
		t.Errorf("after Reset = %f, want %f", got, first)
	}

	fork, err := g.Fork()
	if err != nil {
		t.Fatal(err)
	}
	if got := fork.Variation(); got != first {
		t.Errorf("fork first value = %f, want %f", got, first)
	}

	derived, err := g.Derive(100)
	if err != nil {
		t.Fatal(err)
	}
	if seed, ok := derived.Seed(); !ok || seed != 12445 {
		t.Errorf("derived seed = %d, %v", seed, ok)
	}
	wrap, err := mustGenerator(t, WithSeed(^uint64(0))).Derive(2)
	if err != nil {
		t.Fatal(err)
	}
	if seed, _ := wrap.Seed(); seed != 1 {
		t.Errorf("derive should wrap, got %d", seed)
	}

	g.Reseed(7)
	if seed, ok := g.Seed(); !ok || seed != 7 {
		t.Errorf("Reseed: seed = %d, %v", seed, ok)
	}
}

func TestUnseededGenerator(t *testing.T) {
	g := mustGenerator(t)
	if _, ok := g.Seed(); ok {
		t.Error("default generator should be unseeded")
	}
	if _, err := g.Fork(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Fork err = %v", err)
	}
	if _, err := g.Derive(1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Derive err = %v", err)
	}
	if err := g.Reset(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Reset err = %v", err)
	}
}

func TestRandomRanges(t *testing.T) {
	g := mustGenerator(t, WithSeed(1))
	for range 1000 {
		if v := g.Variation(); v < 0.6 || v > 1.4 {
			t.Fatalf("variation %f out of range", v)
		}
		if p := g.PitchOffset(); p < -4 || p > 4 {
			t.Fatalf("pitch offset %f out of range", p)
		}
		if r := g.RhythmVariation(); r < 0.5 || r > 2 {
			t.Fatalf("rhythm variation %f out of range", r)
		}
		if s := g.RandomScale(); s < music.Major || s > music.Chromatic {
			t.Fatalf("scale %v", s)
		}
		if p := g.RandomPattern(); p < music.Ascending || p > music.Random {
			t.Fatalf("pattern %v", p)
		}
	}
}

func TestVary(t *testing.T) {
	a := mustGenerator(t, WithSeed(99)).Vary()
	b := mustGenerator(t, WithSeed(99)).Vary()
	if a.Tempo() != b.Tempo() || a.BaseFrequency() != b.BaseFrequency() {
		t.Error("seeded Vary diverged")
	}
	if a.Tempo() < 0.6 || a.Tempo() > 1.4 {
		t.Errorf("tempo %f", a.Tempo())
	}
	// four semitones either way of A4
	if f := a.BaseFrequency(); f < 349 || f > 555 {
		t.Errorf("base frequency %f", f)
	}
}
