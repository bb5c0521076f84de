package effects

// silenceThreshold is the peak below which a buffer is left alone.
const silenceThreshold = 1e-4

// Peak returns the largest absolute sample value.
func Peak(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		if a := abs32(s); a > peak {
			peak = a
		}
	}
	return peak
}

// NormalizeSamples scales samples in place so their peak equals target.
// Near-silent buffers are not touched.
func NormalizeSamples(samples []float32, target float32) {
	peak := Peak(samples)
	if peak <= silenceThreshold {
		return
	}
	gain := target / peak
	for i := range samples {
		samples[i] *= gain
	}
}

// PeakNormalize returns a normalized copy of samples.
func PeakNormalize(samples []float32, target float32) []float32 {
	out := append([]float32(nil), samples...)
	NormalizeSamples(out, target)
	return out
}
