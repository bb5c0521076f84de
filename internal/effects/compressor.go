package effects

import "math"

// Compressor turns the level down above a threshold. The follower tracks the
// rectified input; above threshold the excess in dB is divided by ratio.
type Compressor struct {
	thresholdDB float64
	slope       float64 // 1/ratio - 1
	attack      float32
	release     float32
	makeup      float32
	env         float32
}

// NewCompressor takes the threshold and makeup gain in dB and the attack and
// release times in milliseconds. Ratios below 1 are raised to 1.
func NewCompressor(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float32) *Compressor {
	return &Compressor{
		thresholdDB: float64(thresholdDB),
		slope:       1/float64(max(ratio, 1)) - 1,
		attack:      smoothing(attackMs, sampleRate),
		release:     smoothing(releaseMs, sampleRate),
		makeup:      float32(dbToLinear(float64(makeupDB))),
	}
}

// smoothing is the per-sample step of a one-pole follower with a time
// constant of ms.
func smoothing(ms float32, sampleRate int) float32 {
	if ms <= 0 {
		return 1
	}
	return float32(1 - math.Exp(-1000/(float64(ms)*float64(sampleRate))))
}

func dbToLinear(db float64) float64 { return math.Pow(10, db/20) }

func (c *Compressor) ProcessSample(x float32) float32 {
	level := abs32(x)
	step := c.release
	if level > c.env {
		step = c.attack
	}
	c.env += step * (level - c.env)

	gain := float32(1)
	if c.env > 0 {
		if over := 20*math.Log10(float64(c.env)) - c.thresholdDB; over > 0 {
			gain = float32(dbToLinear(over * c.slope))
		}
	}
	return x * gain * c.makeup
}

func (c *Compressor) Reset() { c.env = 0 }
