// Package speech reads notification texts aloud through the platform's
// text-to-speech engine.
package speech

import (
	"errors"
	"strings"
)

// DefaultLanguage is used when no configured voice can be found
const DefaultLanguage = "vi-VN"

// ErrUnavailable is returned when no speech engine is installed
var ErrUnavailable = errors.New("speech synthesis unavailable")

// Voice is one voice offered by the engine
type Voice struct {
	URI  string // identifier stored in settings
	Name string
	Lang string // BCP 47, e.g. vi-VN
}

// Utterance is one piece of text to speak
type Utterance struct {
	Text   string
	Voice  *Voice // nil speaks with Lang
	Lang   string
	Volume float64 // 0..1
}

// Synthesizer queues utterances and speaks them one after another
type Synthesizer interface {
	Available() bool
	Voices() []Voice
	Speak(u Utterance)
	CancelAll()
}

// ResolveVoice returns the voice with the given URI, or else the first voice
// for DefaultLanguage. It returns nil when neither exists.
func ResolveVoice(voices []Voice, uri string) *Voice {
	for i := range voices {
		if voices[i].URI == uri {
			return &voices[i]
		}
	}
	for i := range voices {
		if strings.EqualFold(voices[i].Lang, DefaultLanguage) {
			return &voices[i]
		}
	}
	primary := primaryLanguage(DefaultLanguage)
	for i := range voices {
		if strings.EqualFold(primaryLanguage(voices[i].Lang), primary) {
			return &voices[i]
		}
	}
	return nil
}

func primaryLanguage(tag string) string {
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		return tag[:i]
	}
	return tag
}
