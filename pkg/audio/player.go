package audio

import (
	"bytes"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ErrContextUnavailable is returned when the audio device could not be opened
var ErrContextUnavailable = errors.New("audio context not ready")

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
)

// Handle controls one playback
type Handle interface {
	Stop()
	Done() <-chan struct{}
}

// Output plays WAV data on the system audio device
type Output struct{}

// NewOutput returns an Output backed by the shared oto context
func NewOutput() *Output {
	return &Output{}
}

// initAudioContext initializes the global audio context once, in OutputFormat.
// Oto allows a single context per process.
func initAudioContext() {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   OutputFormat.SampleRate,
			ChannelCount: OutputFormat.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		log.Println("Audio context initialized successfully")
	})
}

// Play starts playing wav once at the given volume (0..1) and returns immediately
func (o *Output) Play(wav []byte, volume float64) (Handle, error) {
	format, samples, err := ParseWAV(wav)
	if err != nil {
		return nil, err
	}

	initAudioContext()
	if globalAudioCtx == nil {
		return nil, ErrContextUnavailable
	}
	samples = Convert(format, samples, OutputFormat)

	p := &Player{
		player: globalAudioCtx.NewPlayer(bytes.NewReader(samples)),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	p.player.SetVolume(volume)
	p.player.Play()

	go p.watch()

	return p, nil
}

// Player is a single playback started by Output.Play
type Player struct {
	player *oto.Player

	mu      sync.Mutex
	stopped bool
	stop    chan struct{}
	done    chan struct{}
}

func (p *Player) watch() {
	defer close(p.done)

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			if !p.player.IsPlaying() {
				if err := p.player.Err(); err != nil {
					log.Printf("Audio playback failed: %v", err)
				}
				p.release()
				return
			}
		}
	}
}

// Stop pauses playback, rewinds it and releases the device player. It is safe
// to call more than once.
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.stop)
	p.mu.Unlock()

	p.player.Pause()
	if _, err := p.player.Seek(0, io.SeekStart); err != nil {
		log.Printf("Failed to rewind audio player: %v", err)
	}
	if err := p.player.Close(); err != nil {
		log.Printf("Failed to close audio player: %v", err)
	}
	log.Println("Audio playback stopped")
}

// release closes the device player after it finished on its own
func (p *Player) release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true
	if err := p.player.Close(); err != nil {
		log.Printf("Failed to close audio player: %v", err)
	}
}

// Done is closed when playback finishes or is stopped
func (p *Player) Done() <-chan struct{} {
	return p.done
}
