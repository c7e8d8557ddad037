// Package sound plays short notification tones.
package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

// bufferSize is the speaker buffer in samples.
const bufferSize = 4096

// output is the audio device.
type output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
}

type speakerOutput struct{}

func (speakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerOutput) Play(s beep.Streamer) {
	speaker.Play(s)
}

// Player plays tones asynchronously. The speaker is initialised on first use.
type Player struct {
	out      output
	initOnce sync.Once
	initErr  error
	wg       sync.WaitGroup
	log      zerolog.Logger
}

// NewPlayer creates a player on the default audio device.
func NewPlayer(log zerolog.Logger) *Player {
	return &Player{
		out: speakerOutput{},
		log: log.With().Str("component", "sound").Logger(),
	}
}

// Play starts the tone for kind on its own goroutine and returns at once.
// Failures are logged.
func (p *Player) Play(kind Kind) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.log.Warn().Interface("panic", r).Str("kind", kind.String()).Msg("Tone playback panicked")
			}
		}()

		if err := p.PlaySync(kind); err != nil {
			p.log.Warn().Err(err).Str("kind", kind.String()).Msg("Failed to play sound")
		}
	}()
}

// PlaySync plays the tone for kind and blocks until it has been consumed by
// the device.
func (p *Player) PlaySync(kind Kind) error {
	p.initOnce.Do(func() {
		p.initErr = p.out.Init(SampleRate, bufferSize)
	})
	if p.initErr != nil {
		return fmt.Errorf("failed to initialize audio: %w", p.initErr)
	}

	tone := kind.Tone()
	streamer, err := tone.Streamer()
	if err != nil {
		return err
	}

	done := make(chan struct{})
	p.out.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-time.After(tone.Duration + time.Second):
		return fmt.Errorf("playback of %s timed out", kind)
	}
}

// Wait blocks until every tone started with Play has finished.
func (p *Player) Wait() {
	p.wg.Wait()
}
