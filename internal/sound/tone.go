package sound

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
)

const (
	// SampleRate is the output sample rate.
	SampleRate = beep.SampleRate(44100)

	// Amplitude is the peak level of every tone; effects.Gain multiplies by
	// 1+Gain.
	Amplitude = 0.3
)

// Kind selects a notification tone.
type Kind int

const (
	RecordingStarted Kind = iota
	RecordingStopped
)

func (k Kind) String() string {
	switch k {
	case RecordingStarted:
		return "recording_started"
	case RecordingStopped:
		return "recording_stopped"
	default:
		return "unknown"
	}
}

// Tone is a sine beep.
type Tone struct {
	Frequency float64
	Duration  time.Duration
}

// Tone returns the tone played for k: A5 for start, a longer A4 for stop.
func (k Kind) Tone() Tone {
	if k == RecordingStopped {
		return Tone{Frequency: 440, Duration: 150 * time.Millisecond}
	}
	return Tone{Frequency: 880, Duration: 100 * time.Millisecond}
}

// Streamer returns the tone as a finite stream scaled to Amplitude. It fails
// for frequencies at or above half the sample rate.
func (t Tone) Streamer() (beep.Streamer, error) {
	sine, err := generators.SineTone(SampleRate, t.Frequency)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %.0f Hz tone: %w", t.Frequency, err)
	}
	return beep.Take(SampleRate.N(t.Duration), &effects.Gain{
		Streamer: sine,
		Gain:     Amplitude - 1,
	}), nil
}
