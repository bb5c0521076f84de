package music

import (
	"fmt"
	"strings"
)

// Rhythm maps a base note length to per-note durations.
type Rhythm int

const (
	Steady       Rhythm = iota // equal lengths
	Quick                      // short, punchy notes
	Long                       // sustained notes
	Notification               // quick pickups, long final note
)

var rhythmNames = []string{"steady", "quick", "long", "notification"}

func (r Rhythm) String() string {
	if r < Steady || r > Notification {
		return fmt.Sprintf("Rhythm(%d)", int(r))
	}
	return rhythmNames[r]
}

func ParseRhythm(name string) (Rhythm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range rhythmNames {
		if n == name {
			return Rhythm(i), nil
		}
	}
	return 0, fmt.Errorf("invalid rhythm %q (want one of %s)", name, strings.Join(rhythmNames, ", "))
}

func (r Rhythm) Durations(base float32, n int) []float32 {
	if n <= 0 {
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		switch r {
		case Quick:
			out[i] = base * 0.3
		case Long:
			out[i] = base * 1.5
		case Notification:
			out[i] = base * 0.2
			if i == n-1 {
				out[i] = base
			}
		default:
			out[i] = base
		}
	}
	return out
}
