// Package jingle renders short notification sounds. A Generator turns
// presets, YAML scores and melodies into mono float32 buffers, runs them
// through an optional effect chain and hands them to the WAV writers or the
// audio device.
package jingle

import (
	"errors"

	"github.com/cbegin/jingle-go/internal/synth"
)

// DefaultSampleRate is used when no sample rate is configured.
const DefaultSampleRate = synth.DefaultSampleRate

var ErrInvalidParameter = errors.New("invalid parameter")
