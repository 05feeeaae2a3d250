// Package playback turns a batch of due notification texts into sound: the
// ringtone first, then each text spoken aloud.
package playback

import (
	"log"
	"time"

	"github.com/borgmon/schedule-bell/pkg/audio"
	"github.com/borgmon/schedule-bell/pkg/models"
	"github.com/borgmon/schedule-bell/pkg/speech"
	"github.com/jonboulle/clockwork"
)

// SpeechDelay separates the end of the ringtone from the first utterance
const SpeechDelay = 500 * time.Millisecond

// RingtoneSource resolves ringtone identifiers to WAV data
type RingtoneSource interface {
	Resolve(identifier string) (audio.Ringtone, error)
	Load(r audio.Ringtone) ([]byte, error)
}

// Output plays WAV data
type Output interface {
	Play(wav []byte, volume float64) (audio.Handle, error)
}

// Orchestrator plays due batches. Play never blocks on audio or speech.
type Orchestrator struct {
	clock     clockwork.Clock
	ringtones RingtoneSource
	output    Output
	synth     speech.Synthesizer
}

// NewOrchestrator creates an Orchestrator. synth may be nil when speech is disabled.
func NewOrchestrator(clk clockwork.Clock, ringtones RingtoneSource, output Output, synth speech.Synthesizer) *Orchestrator {
	return &Orchestrator{
		clock:     clk,
		ringtones: ringtones,
		output:    output,
		synth:     synth,
	}
}

// Play rings, then speaks texts once the ringtone has been stopped. Speech still
// queued from an earlier batch is cancelled; its ringtone is left alone.
func (o *Orchestrator) Play(texts []string, settings models.NotificationSettings) {
	if len(texts) == 0 {
		return
	}

	if o.synth != nil {
		o.synth.CancelAll()
	}

	volume := settings.ClampVolume()
	ringFor := time.Duration(settings.RingtoneDuration) * time.Second

	// Ringtone and speech fail independently
	o.ring(settings.Ringtone, volume, ringFor)

	texts = append([]string(nil), texts...)
	o.clock.AfterFunc(ringFor+SpeechDelay, func() {
		o.speak(texts, settings.VoiceURI, volume)
	})
}

// Preview plays the ringtone and speaks a sample text with the given settings
func (o *Orchestrator) Preview(sample string, settings models.NotificationSettings) {
	o.Play([]string{sample}, settings)
}

func (o *Orchestrator) ring(identifier string, volume float64, ringFor time.Duration) {
	wav, err := o.loadRingtone(identifier)
	if err != nil {
		log.Printf("Failed to load ringtone %q: %v", identifier, err)
		return
	}

	handle, err := o.output.Play(wav, volume)
	if err != nil {
		log.Printf("Failed to play ringtone %q: %v", identifier, err)
		return
	}
	o.clock.AfterFunc(ringFor, handle.Stop)
}

// loadRingtone tries the configured ringtone, then the built-in default
func (o *Orchestrator) loadRingtone(identifier string) ([]byte, error) {
	var lastErr error
	for _, id := range []string{identifier, audio.DefaultRingtoneName} {
		r, err := o.ringtones.Resolve(id)
		if err != nil {
			lastErr = err
			continue
		}
		wav, err := o.ringtones.Load(r)
		if err != nil {
			log.Printf("Ringtone %q unreadable, trying default: %v", r.Name, err)
			lastErr = err
			continue
		}
		return wav, nil
	}
	return nil, lastErr
}

func (o *Orchestrator) speak(texts []string, voiceURI string, volume float64) {
	if o.synth == nil || !o.synth.Available() {
		return
	}

	voice := speech.ResolveVoice(o.synth.Voices(), voiceURI)
	lang := speech.DefaultLanguage
	if voice != nil {
		lang = voice.Lang
	}
	for _, text := range texts {
		o.synth.Speak(speech.Utterance{
			Text:   text,
			Voice:  voice,
			Lang:   lang,
			Volume: volume,
		})
	}
}
