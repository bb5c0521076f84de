package jingle

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/arl/blip/wave"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gopxl/beep"
)

// wavChunk bounds each wave.Writer.Write call; the writer stages a whole
// call in a fixed 4 KiB buffer.
const wavChunk = 512

// resampleQuality is the beep interpolation window.
const resampleQuality = 4

func pcm16(s float32) int16 {
	return int16(max(-1, min(1, s)) * math.MaxInt16)
}

// WriteWAV streams samples to w as a mono 16-bit PCM WAV.
func WriteWAV(w io.Writer, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidParameter, sampleRate)
	}
	ww := wave.NewWriter(w, sampleRate)
	chunk := make([]int16, 0, wavChunk)
	for len(samples) > 0 {
		n := min(len(samples), wavChunk)
		chunk = chunk[:0]
		for _, s := range samples[:n] {
			chunk = append(chunk, pcm16(s))
		}
		if _, err := ww.Write(chunk); err != nil {
			return err
		}
		samples = samples[n:]
	}
	return ww.Close()
}

// WriteWAVFile writes samples to path as a mono 16-bit PCM WAV.
func WriteWAVFile(path string, samples []float32, sampleRate int) (err error) {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidParameter, sampleRate)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(pcm16(s))
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// ReadWAVFile decodes a PCM WAV into mono float32 samples, averaging the
// channels of multi-channel files.
func ReadWAVFile(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: not a PCM WAV file: %s", ErrInvalidParameter, path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}
	if bitDepth == 0 {
		return nil, 0, fmt.Errorf("%w: unknown bit depth: %s", ErrInvalidParameter, path)
	}
	channels := max(1, buf.Format.NumChannels)
	scale := 1 / math.Pow(2, float64(bitDepth-1))
	out := make([]float32, len(buf.Data)/channels)
	for i := range out {
		var sum int
		for c := range channels {
			sum += buf.Data[i*channels+c]
		}
		out[i] = float32(float64(sum) / float64(channels) * scale)
	}
	return out, buf.Format.SampleRate, nil
}

// Resample converts samples from one rate to another with beep's
// interpolating resampler.
func Resample(samples []float32, from, to int) ([]float32, error) {
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("%w: sample rates must be positive, got %d -> %d", ErrInvalidParameter, from, to)
	}
	if from == to || len(samples) == 0 {
		return append([]float32(nil), samples...), nil
	}
	pos := 0
	src := beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := 0
		for n < len(buf) && pos < len(samples) {
			v := float64(samples[pos])
			buf[n] = [2]float64{v, v}
			n++
			pos++
		}
		return n, true
	})
	r := beep.Resample(resampleQuality, beep.SampleRate(from), beep.SampleRate(to), src)
	out := make([]float32, 0, len(samples)*to/from+1)
	buf := make([][2]float64, 512)
	for {
		n, ok := r.Stream(buf)
		for _, s := range buf[:n] {
			out = append(out, float32(s[0]))
		}
		if !ok || n == 0 {
			break
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportFile writes samples to path in the container named by its
// extension. Paths without a known extension get WAV.
func ExportFile(path string, samples []float32, sampleRate int) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return fmt.Errorf("%w: mp3 export is not supported, use .wav", ErrInvalidParameter)
	default:
		return WriteWAVFile(path, samples, sampleRate)
	}
}

// EncodeWAVFloat32LE builds an IEEE-float WAV image of interleaved samples.
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
