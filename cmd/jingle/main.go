package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/cbegin/jingle-go"
	"github.com/cbegin/jingle-go/internal/analysis"
	"github.com/cbegin/jingle-go/internal/effects"
	"github.com/cbegin/jingle-go/internal/score"
	"github.com/cbegin/jingle-go/internal/synth"
)

const maxCount = 100

func main() {
	log.SetFlags(0)
	log.SetPrefix("jingle: ")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	var err error
	switch cmd {
	case "list":
		list()
	case "render":
		err = runRender(ctx, args)
	case "analyze":
		err = runAnalyze(args)
	default:
		p, perr := jingle.ParsePreset(cmd)
		if perr != nil {
			usage()
			os.Exit(2)
		}
		err = runPreset(ctx, p, args)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "usage: jingle <preset|render|list|analyze> [flags]")
	fmt.Fprintln(out, "\npresets:")
	for _, p := range jingle.Presets() {
		fmt.Fprintf(out, "  %-13s %s\n", p.Name(), p.Description())
	}
	fmt.Fprintln(out, "\n  render -file jingle.yaml   render a YAML jingle definition")
	fmt.Fprintln(out, "  analyze <file.wav|preset>  print level and pitch statistics")
	fmt.Fprintln(out, "\nrun 'jingle <command> -h' for flags")
}

func list() {
	for _, p := range jingle.Presets() {
		fmt.Printf("%-13s %-9s %s\n", p.Name(), p.DefaultWaveform(), p.Description())
	}
	fmt.Printf("\neffects: %s\n", strings.Join(effects.Names(), ", "))
}

// outputFlags are shared by the preset and render commands.
type outputFlags struct {
	output     *string
	duration   *float64
	frequency  *float64
	fx         *string
	normalize  *float64
	sampleRate *int
	resample   *int
	play       *bool
}

func addOutputFlags(fs *flag.FlagSet, defaultOutput string) *outputFlags {
	return &outputFlags{
		output:     fs.String("o", defaultOutput, "output file (.wav), or - for stdout"),
		duration:   fs.Float64("duration", 1.0, "tempo scale applied to every note"),
		frequency:  fs.Float64("frequency", 440.0, "base frequency; transposes relative to A4=440"),
		fx:         fs.String("fx", "", `effect chain, e.g. "echo 200,0.4,0.3; reverb hall"`),
		normalize:  fs.Float64("normalize", 0, "peak-normalize to this level (0 disables)"),
		sampleRate: fs.Int("rate", jingle.DefaultSampleRate, "render sample rate"),
		resample:   fs.Int("resample", 0, "resample the output to this rate (0 keeps -rate)"),
		play:       fs.Bool("play", false, "play the jingle after writing it"),
	}
}

func (f *outputFlags) generatorOptions() []jingle.GeneratorOption {
	return []jingle.GeneratorOption{
		jingle.WithSampleRate(*f.sampleRate),
		jingle.WithTempo(float32(*f.duration)),
		jingle.WithBaseFrequency(float32(*f.frequency)),
		jingle.WithEffects(*f.fx),
		jingle.WithNormalize(float32(*f.normalize)),
	}
}

func runPreset(ctx context.Context, p jingle.Preset, args []string) error {
	fs := flag.NewFlagSet(p.Name(), flag.ExitOnError)
	out := addOutputFlags(fs, p.Name()+".wav")
	var (
		waveName = fs.String("waveform", p.DefaultWaveform().String(), "waveform: sine|triangle|sawtooth|square")
		count    = fs.Int("count", 1, "number of files to generate (1..100); extras are variations")
		seed     = fs.String("seed", "", "seed for variations: a number or any string")
	)
	fs.Parse(args)

	waveform, err := synth.ParseWaveform(*waveName)
	if err != nil {
		return fmt.Errorf("invalid -waveform: %w", err)
	}
	if *count < 1 || *count > maxCount {
		return fmt.Errorf("-count must be between 1 and %d", maxCount)
	}
	if *count > 1 && *out.output == "-" {
		return errors.New("-count > 1 cannot write to stdout")
	}
	opts := out.generatorOptions()
	if *seed != "" {
		opts = append(opts, seedOption(*seed))
	}
	g, err := jingle.NewGenerator(opts...)
	if err != nil {
		return err
	}

	status("Generating %d jingle(s)...\n", *count)
	status("Preset: %s (%s)\n", p.Name(), p.Description())
	status("Waveform: %s\n", waveform)
	for i := range *count {
		vg, err := variant(g, i)
		if err != nil {
			return err
		}
		samples, err := vg.Preset(p, waveform)
		if err != nil {
			return err
		}
		path := numberedPath(*out.output, i, *count)
		if err := out.emit(ctx, path, samples, g.SampleRate()); err != nil {
			return err
		}
	}
	return nil
}

func seedOption(s string) jingle.GeneratorOption {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return jingle.WithSeed(n)
	}
	return jingle.WithStringSeed(s)
}

// variant returns the generator for the i-th file: the first is rendered as
// configured, later ones are random variations, reproducible when seeded.
func variant(g *jingle.Generator, i int) (*jingle.Generator, error) {
	if i == 0 {
		return g, nil
	}
	if _, ok := g.Seed(); !ok {
		return g.Vary(), nil
	}
	d, err := g.Derive(uint64(i))
	if err != nil {
		return nil, err
	}
	return d.Vary(), nil
}

func numberedPath(path string, i, count int) string {
	if count == 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), i+1, ext)
}

func runRender(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	file := fs.String("file", "", "path to a YAML jingle definition")
	out := addOutputFlags(fs, "")
	fs.Parse(args)
	if strings.TrimSpace(*file) == "" {
		return errors.New("render: -file is required")
	}
	s, err := score.Load(*file)
	if err != nil {
		return err
	}
	if *out.output == "" {
		name := s.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(*file), filepath.Ext(*file))
		}
		*out.output = name + ".wav"
	}
	g, err := jingle.NewGenerator(out.generatorOptions()...)
	if err != nil {
		return err
	}
	samples, err := g.RenderScore(s)
	if err != nil {
		return err
	}
	rate := g.SampleRate()
	if s.SampleRate > 0 {
		rate = s.SampleRate
	}
	status("Rendering %s\n", *file)
	return out.emit(ctx, *out.output, samples, rate)
}

// emit writes samples to path, or stdout for "-", and plays them if asked.
func (f *outputFlags) emit(ctx context.Context, path string, samples []float32, rate int) error {
	if *f.resample > 0 && *f.resample != rate {
		var err error
		if samples, err = jingle.Resample(samples, rate, *f.resample); err != nil {
			return err
		}
		rate = *f.resample
	}
	if path == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("refusing to write WAV data to a terminal; redirect stdout or use -o file.wav")
		}
		if err := jingle.WriteWAV(os.Stdout, samples, rate); err != nil {
			return err
		}
	} else {
		if err := jingle.ExportFile(path, samples, rate); err != nil {
			return err
		}
		status("✓ Generated %s (%d samples)\n", path, len(samples))
	}
	if *f.play {
		if err := jingle.Play(ctx, samples, rate); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return nil
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("analyze: expected one WAV file or preset name")
	}
	target := fs.Arg(0)
	var (
		samples []float32
		rate    int
		err     error
	)
	if p, perr := jingle.ParsePreset(target); perr == nil {
		g, gerr := jingle.NewGenerator()
		if gerr != nil {
			return gerr
		}
		rate = g.SampleRate()
		samples, err = g.Preset(p, p.DefaultWaveform())
	} else {
		samples, rate, err = jingle.ReadWAVFile(target)
	}
	if err != nil {
		return err
	}
	r := analysis.Analyze(samples, rate)
	fmt.Printf("samples:   %d @ %d Hz\n", r.Samples, r.SampleRate)
	fmt.Printf("duration:  %v\n", r.Duration)
	fmt.Printf("peak:      %.4f (%.1f dBFS)\n", r.Peak, r.PeakDB)
	fmt.Printf("rms:       %.4f (%.1f dBFS)\n", r.RMS, r.RMSDB)
	fmt.Printf("clipped:   %d\n", r.Clipped)
	fmt.Printf("dominant:  %.1f Hz\n", r.DominantHz)
	return nil
}

// status reports progress on stderr so stdout can carry WAV data.
func status(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
