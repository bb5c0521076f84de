package jingle

import (
	"context"
	"fmt"
	"sync"
	"time"

	intaudio "github.com/cbegin/jingle-go/internal/audio"
)

// Player plays one jingle at a time on the default audio device.
type Player struct {
	mu    sync.Mutex
	audio *intaudio.Player
	done  chan struct{}
}

func NewPlayer() *Player {
	return &Player{}
}

// Play starts samples and returns immediately. A jingle that is still
// playing is stopped first.
func (p *Player) Play(samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidParameter, sampleRate)
	}
	return p.PlaySource(intaudio.NewBuffer(samples, sampleRate))
}

// PlaySource starts a lazy mono source, such as Generator.Stream's.
func (p *Player) PlaySource(src intaudio.Source) error {
	backend, err := intaudio.NewPlayer(src)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		_ = p.audio.Stop()
	}
	if p.done != nil {
		close(p.done)
	}
	done := make(chan struct{})
	p.audio = backend
	p.done = done
	backend.Play()
	go func() {
		backend.Wait()
		p.finish(done)
	}()
	return nil
}

func (p *Player) finish(done chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != done {
		return
	}
	close(done)
	p.done = nil
}

// Position returns how much of the current jingle has been heard.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return 0
	}
	return p.audio.Position()
}

func (p *Player) Stop() error {
	p.mu.Lock()
	if p.audio == nil {
		p.mu.Unlock()
		return nil
	}
	err := p.audio.Stop()
	p.audio = nil
	done := p.done
	p.done = nil
	p.mu.Unlock()
	if done != nil {
		close(done)
	}
	return err
}

// Wait blocks until the current jingle ends, it is stopped or replaced, or
// ctx is done.
func (p *Player) Wait(ctx context.Context) error {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Play plays samples to completion, or until ctx is done, on a fresh Player.
func Play(ctx context.Context, samples []float32, sampleRate int) error {
	p := NewPlayer()
	if err := p.Play(samples, sampleRate); err != nil {
		return err
	}
	err := p.Wait(ctx)
	if serr := p.Stop(); err == nil {
		err = serr
	}
	return err
}
