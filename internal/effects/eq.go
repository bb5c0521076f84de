package effects

// EQ3Band weights three bands split by two one-pole crossovers. The bands
// sum back to the input, so unity gains are transparent.
type EQ3Band struct {
	gains     [3]float32 // low, mid, high
	lowSplit  *LowPassFilter
	highSplit *LowPassFilter
}

// NewEQ3Band takes the low, mid and high band gains followed by the two
// crossover frequencies in Hz.
func NewEQ3Band(sampleRate int, lowGain, midGain, highGain, lowHz, highHz float32) *EQ3Band {
	return &EQ3Band{
		gains:     [3]float32{lowGain, midGain, highGain},
		lowSplit:  NewLowPassFilter(lowHz, sampleRate),
		highSplit: NewLowPassFilter(highHz, sampleRate),
	}
}

func (eq *EQ3Band) ProcessSample(x float32) float32 {
	low := eq.lowSplit.ProcessSample(x)
	belowHigh := eq.highSplit.ProcessSample(x)
	return low*eq.gains[0] + (belowHigh-low)*eq.gains[1] + (x-belowHigh)*eq.gains[2]
}

func (eq *EQ3Band) Reset() {
	eq.lowSplit.Reset()
	eq.highSplit.Reset()
}
