package effects

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cbegin/jingle-go/internal/audio"
	"github.com/cbegin/jingle-go/internal/synth"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const sr = 44100

func impulse(n int) []float32 {
	s := make([]float32, n)
	s[0] = 1
	return s
}

func TestDelayProducesOutput(t *testing.T) {
	d := NewDelayBuffer(sr, 100, 0.5, 0.5)
	if d.Capacity() != 4410 {
		t.Fatalf("capacity = %d, want 4410", d.Capacity())
	}
	d.ProcessSample(1.0)
	for i := 1; i < 4410; i++ {
		if out := d.ProcessSample(0); out != 0 {
			t.Fatalf("sample %d = %f before the delay elapsed", i, out)
		}
	}
	if out := d.ProcessSample(0); math.Abs(float64(out)-0.5) > 1e-6 {
		t.Errorf("expected delayed output 0.5, got %f", out)
	}
}

func TestDelayClampsParameters(t *testing.T) {
	d := NewDelayBuffer(sr, 0, 2, 5)
	if d.Capacity() != 1 {
		t.Errorf("capacity = %d, want 1", d.Capacity())
	}
	if d.Feedback() != MaxFeedback {
		t.Errorf("feedback = %f, want %f", d.Feedback(), MaxFeedback)
	}
	if d.Mix() != 1 {
		t.Errorf("mix = %f, want 1", d.Mix())
	}
	d = NewDelayBuffer(sr, 10, -1, -1)
	if d.Feedback() != 0 || d.Mix() != 0 {
		t.Errorf("negative params not clamped: feedback %f mix %f", d.Feedback(), d.Mix())
	}
}

func TestDelayStableAtMaxFeedback(t *testing.T) {
	d := NewDelayBuffer(sr, 1, 0.95, 1)
	const limit = 1 / (1 - 0.95)
	var out float32
	for i := 0; i < 40000; i++ {
		out = d.ProcessSample(1)
		if out > limit+1e-3 {
			t.Fatalf("sample %d = %f exceeds geometric limit %f", i, out, limit)
		}
	}
	if out < limit-0.5 {
		t.Errorf("steady state %f did not converge toward %f", out, limit)
	}
}

func TestDelayReset(t *testing.T) {
	d := NewDelayBuffer(sr, 1, 0.5, 1)
	for i := 0; i < 100; i++ {
		d.ProcessSample(1)
	}
	d.Reset()
	if out := d.ProcessSample(0); out != 0 {
		t.Errorf("after reset got %f, want 0", out)
	}
}

func TestDelayWetIsProcessMinusDry(t *testing.T) {
	a := NewDelayBuffer(sr, 2, 0.6, 0.4)
	b := NewDelayBuffer(sr, 2, 0.6, 0.4)
	in := collect(synth.NewOscillator(sr, 440, synth.Sawtooth, 0.01))
	for i, x := range in {
		full := a.ProcessSample(x)
		wet := b.Wet(x)
		if math.Abs(float64(full-(x*0.6+wet))) > 1e-6 {
			t.Fatalf("sample %d: process %f != dry %f + wet %f", i, full, x*0.6, wet)
		}
	}
}

func TestEchoPassesMetadataThrough(t *testing.T) {
	osc := synth.NewOscillator(22050, 440, synth.Sine, 0.2)
	e := NewEcho(osc, 50, 0.4, 0.3)
	if e.SampleRate() != 22050 || e.Channels() != 1 {
		t.Errorf("metadata = %d Hz / %d ch", e.SampleRate(), e.Channels())
	}
	if d, ok := e.TotalDuration(); !ok || d != 200*time.Millisecond {
		t.Errorf("duration = %v, %v", d, ok)
	}
	if n := len(audio.Collect(e)); n != 4410 {
		t.Errorf("echo produced %d samples, want 4410", n)
	}
	if e.Delay().Capacity() != 1102 {
		t.Errorf("echo capacity = %d, want 1102", e.Delay().Capacity())
	}
}

func TestReverbImpulseBounded(t *testing.T) {
	for _, room := range []float32{0, 0.5, 1, 1.5, 2} {
		for _, damping := range []float32{0, 0.5, 1} {
			for _, mix := range []float32{0, 0.5, 1} {
				r := NewReverb(audio.NewBuffer(impulse(20000), sr), room, damping, mix)
				for i, s := range audio.Collect(r) {
					if math.Abs(float64(s)) > 1 {
						t.Fatalf("room %.1f damping %.1f mix %.1f: sample %d = %f", room, damping, mix, i, s)
					}
				}
			}
		}
	}
}

func TestReverbClampsMix(t *testing.T) {
	want := audio.Collect(NewReverb(audio.NewBuffer(impulse(20000), sr), 1, 1, 1))
	got := audio.Collect(NewReverb(audio.NewBuffer(impulse(20000), sr), 1, 1, 8))
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("mix 8 should behave as mix 1 (-got +want):\n%s", diff)
	}
	c, err := ParseChain("reverb 1,1,8", sr)
	if err != nil {
		t.Fatal(err)
	}
	for i := range 20000 {
		x := float32(0)
		if i == 0 {
			x = 1
		}
		if v := c.ProcessSample(x); math.Abs(float64(v)) > 1 {
			t.Fatalf("sample %d = %f", i, v)
		}
	}
}

func TestReverbProducesTail(t *testing.T) {
	out := audio.Collect(LargeHall(audio.NewBuffer(impulse(10000), sr)))
	if math.Abs(float64(out[0])-0.7) > 1e-6 {
		t.Errorf("dry impulse = %f, want 0.7", out[0])
	}
	var maxTail float32
	for _, s := range out[1:] {
		maxTail = max(maxTail, abs32(s))
	}
	if maxTail < 0.001 {
		t.Error("expected reverb tail")
	}
}

func TestReverbPresetLines(t *testing.T) {
	r := SmallRoom(audio.Silence(10, sr))
	lines := r.Bank().Lines()
	if len(lines) != 8 {
		t.Fatalf("lines = %d, want 8", len(lines))
	}
	if lines[0].Capacity() != 639 {
		t.Errorf("first line capacity = %d, want 639", lines[0].Capacity())
	}
	got := []float32{lines[0].Feedback(), lines[0].Mix()}
	want := []float32{0.18, 0.025}
	if diff := cmp.Diff(got, want, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("line params (-got +want):\n%s", diff)
	}
	for i := 1; i < len(lines); i++ {
		if lines[i].Capacity() <= lines[i-1].Capacity() {
			t.Errorf("line %d not longer than line %d", i, i-1)
		}
	}
}

func TestLowPassStepIsMonotone(t *testing.T) {
	for _, cutoff := range []float32{100, 1000, 4000, 15000} {
		f := NewLowPassFilter(cutoff, sr)
		prev := float32(0)
		for i := 0; i < 5000; i++ {
			out := f.ProcessSample(1)
			if out < prev-1e-6 || out > 1+1e-6 {
				t.Fatalf("cutoff %.0f: sample %d = %f after %f", cutoff, i, out, prev)
			}
			prev = out
		}
		if prev < 0.99 {
			t.Errorf("cutoff %.0f: step converged only to %f", cutoff, prev)
		}
	}
}

func TestLowPassAlphaAndReset(t *testing.T) {
	f := NewLowPassFilter(4000, sr)
	rc := 1 / (2 * math.Pi * 4000.0)
	dt := 1 / 44100.0
	if want := dt / (rc + dt); math.Abs(float64(f.Alpha())-want) > 1e-6 {
		t.Errorf("alpha = %f, want %f", f.Alpha(), want)
	}
	f.ProcessSample(1)
	f.Reset()
	if out := f.ProcessSample(0); out != 0 {
		t.Errorf("after reset got %f, want 0", out)
	}
	if NewLowPassFilter(0, sr).ProcessSample(1) != 0 {
		t.Error("zero cutoff should hold silence")
	}
}

func TestSquareThroughSmooth(t *testing.T) {
	out := audio.Collect(Smooth(synth.NewOscillator(sr, 440, synth.Square, 0.1)))
	if len(out) != 4410 {
		t.Fatalf("got %d samples, want 4410", len(out))
	}
	if out[0] != 0 {
		t.Errorf("first sample = %f, want 0", out[0])
	}
	for i, s := range out {
		if math.Abs(float64(s)) > synth.Headroom+1e-6 {
			t.Fatalf("sample %d = %f exceeds headroom", i, s)
		}
	}
	if Muffled(audio.Silence(1, sr)).Filter().Alpha() >= Smooth(audio.Silence(1, sr)).Filter().Alpha() {
		t.Error("muffled should filter harder than smooth")
	}
}

func TestAGCGainBounded(t *testing.T) {
	var in []float32
	for _, amp := range []float32{1, 0.001, 0.5, 0, 0.05} {
		osc := synth.NewOscillator(sr, 330, synth.Sine, 0.2).WithADSR(synth.ADSR{Sustain: 1})
		for _, s := range collect(osc) {
			in = append(in, s/synth.Headroom*amp)
		}
	}
	for _, tc := range []struct {
		name string
		agc  *AutomaticGainControl
	}{
		{"gentle", NewAutomaticGainControl(0.7, 0.003, 0.1, sr)},
		{"limiter", NewAutomaticGainControl(0.95, 0.001, 0.05, sr)},
		{"instant", NewAutomaticGainControl(1, 0, 0, sr)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for i, x := range in {
				out := tc.agc.ProcessSample(x)
				if abs32(out) > 10*abs32(x)+1e-6 {
					t.Fatalf("sample %d: |%f| > 10*|%f|", i, out, x)
				}
				if g := tc.agc.Gain(); g < minGain || g > maxGain {
					t.Fatalf("sample %d: gain %f out of range", i, g)
				}
			}
		})
	}
}

func TestAGCRaisesQuietSignal(t *testing.T) {
	osc := synth.NewOscillator(sr, 220, synth.Sine, 1).WithADSR(synth.ADSR{Sustain: 1})
	quiet := make([]float32, 0, sr)
	for _, s := range collect(osc) {
		quiet = append(quiet, s/3) // peak 0.1
	}
	out := audio.Collect(Gentle(audio.NewBuffer(quiet, sr)))
	if peak := Peak(out[len(out)/2:]); peak < 0.3 {
		t.Errorf("AGC output peak %f, expected the quiet input to be raised", peak)
	}
	a := Limiter(audio.Silence(1, sr))
	a.Control().ProcessSample(1)
	a.Control().Reset()
	if a.Control().Gain() != 1 {
		t.Errorf("gain after reset = %f, want 1", a.Control().Gain())
	}
}

func TestNormalizeExact(t *testing.T) {
	buf := collect(synth.NewOscillator(sr, 440, synth.Triangle, 0.1))
	for _, target := range []float32{0.1, 0.5, 0.95, 1} {
		got := PeakNormalize(buf, target)
		if p := Peak(got); math.Abs(float64(p-target)) > 1e-3 {
			t.Errorf("target %f: peak %f", target, p)
		}
		again := PeakNormalize(got, target)
		if diff := cmp.Diff(again, got, cmpopts.EquateApprox(0, 1e-5)); diff != "" {
			t.Errorf("target %f: second normalization changed samples:\n%s", target, diff)
		}
	}
	if Peak(buf) > synth.Headroom+1e-6 {
		t.Error("PeakNormalize modified its input")
	}
}

func TestNormalizeLeavesSilence(t *testing.T) {
	buf := []float32{0, 5e-5, -5e-5, 0}
	want := append([]float32(nil), buf...)
	NormalizeSamples(buf, 1)
	if diff := cmp.Diff(buf, want); diff != "" {
		t.Errorf("near-silent buffer changed (-got +want):\n%s", diff)
	}
	NormalizeSamples(nil, 1)
}

func TestDistortionClips(t *testing.T) {
	d := NewDistortion(sr, 10, 0.5, 0)
	out := d.ProcessSample(0.5)
	if math.Abs(float64(out)) > 0.5 {
		t.Errorf("distortion output %f should be bounded by post gain", out)
	}
	if math.Abs(float64(out)) < 0.01 {
		t.Error("expected non-zero distortion output")
	}
}

func TestChainAppliesEffectsInOrder(t *testing.T) {
	c := NewChain(
		NewDistortion(sr, 2, 1, 0),
		NewDelayBuffer(sr, 10, 0, 0.5),
	)
	want := float32(math.Tanh(1)) * 0.5
	if out := c.ProcessSample(0.5); math.Abs(float64(out-want)) > 1e-6 {
		t.Errorf("chain output %f, want %f", out, want)
	}
	c.Add(NewLowPassFilter(1000, sr))
	if c.Len() != 3 {
		t.Errorf("len = %d, want 3", c.Len())
	}
}

func TestEQ3BandUnityGain(t *testing.T) {
	eq := NewEQ3Band(sr, 1.0, 1.0, 1.0, 300, 3000)
	for _, x := range collect(synth.NewOscillator(sr, 1000, synth.Sawtooth, 0.05)) {
		if out := eq.ProcessSample(x); math.Abs(float64(out-x)) > 1e-6 {
			t.Fatalf("unity EQ changed %f to %f", x, out)
		}
	}
}

func TestEQ3BandCutsLows(t *testing.T) {
	eq := NewEQ3Band(sr, 0, 1, 1, 300, 3000)
	var out float32
	for i := 0; i < 5000; i++ {
		out = eq.ProcessSample(0.5)
	}
	if math.Abs(float64(out)) > 0.01 {
		t.Errorf("DC should be removed with zero low gain, got %f", out)
	}
}

func TestCompressorReducesLoud(t *testing.T) {
	c := NewCompressor(sr, -10, 4, 1, 50, 0)
	var out float32
	for i := 0; i < 1000; i++ {
		out = c.ProcessSample(1.0)
	}
	if out >= 1.0 {
		t.Errorf("compressor should reduce loud signals, got %f", out)
	}
}

func TestTremoloRange(t *testing.T) {
	tr := NewTremolo(sr, 8, 0.6, synth.Triangle)
	for i := 0; i < sr; i++ {
		out := tr.ProcessSample(1)
		if out < 0.4-1e-5 || out > 1+1e-5 {
			t.Fatalf("sample %d gain %f outside [0.4, 1]", i, out)
		}
	}
}

func TestChorusBounded(t *testing.T) {
	c := NewChorus(sr, 15, 0.3, 3, 1.5, 0.4)
	var nonZero bool
	for i, x := range collect(synth.NewOscillator(sr, 440, synth.Sine, 0.2)) {
		out := c.ProcessSample(x)
		if math.Abs(float64(out)) > 1 {
			t.Fatalf("sample %d = %f", i, out)
		}
		nonZero = nonZero || out != 0
	}
	if !nonZero {
		t.Error("chorus produced silence")
	}
}

func TestParseChain(t *testing.T) {
	for _, tc := range []struct {
		spec    string
		want    int
		wantErr error
	}{
		{"", 0, nil},
		{"echo 120,0.4,0.3; reverb hall; lowpass 4000; agc gentle", 4, nil},
		{"{reverb room}; {lpf muffled}", 2, nil},
		{"delay; chorus; dist 8; eq 1,1.5,0.8; comp -12,3; tremolo 6,0.3 triangle", 6, nil},
		{"agc limiter;", 1, nil},
		{"flanger 1,2", 0, ErrUnknownEffect},
		{"reverb cathedral", 0, ErrEffectParam},
		{"echo 120,abc", 0, ErrEffectParam},
		{"tremolo 5 noise", 0, ErrEffectParam},
		{"lowpass nan", 0, ErrEffectParam},
		{"echo inf,0.4,0.3", 0, ErrEffectParam},
		{"reverb 1,0.5,-Inf", 0, ErrEffectParam},
	} {
		t.Run(tc.spec, func(t *testing.T) {
			c, err := ParseChain(tc.spec, sr)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Len() != tc.want {
				t.Errorf("len = %d, want %d", c.Len(), tc.want)
			}
		})
	}
}

func TestBuildMatchesDirectComposition(t *testing.T) {
	mk := func() audio.Source { return synth.NewOscillator(sr, 523.25, synth.Triangle, 0.15) }
	built, err := Build(mk(), "echo 80,0.3,0.25; reverb room; lowpass smooth")
	if err != nil {
		t.Fatal(err)
	}
	direct := Smooth(SmallRoom(NewEcho(mk(), 80, 0.3, 0.25)))
	if diff := cmp.Diff(audio.Collect(built), audio.Collect(direct)); diff != "" {
		t.Errorf("built chain differs from direct composition (-built +direct):\n%s", diff)
	}

	src := mk()
	same, err := Build(src, "  ")
	if err != nil || same != audio.Source(src) {
		t.Errorf("empty spec should return the source unchanged, got %v, %v", same, err)
	}
}

func collect(src audio.Source) []float32 { return audio.Collect(src) }
