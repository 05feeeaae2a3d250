package audio

import (
	"encoding/binary"
	"math"
	"sync"
)

// DefaultRingtoneName is the built-in ringtone, always available
const DefaultRingtoneName = "Báo thức số"

const toneSampleRate = 44100

var (
	defaultTone     []byte
	defaultToneOnce sync.Once
)

// DefaultTone returns the built-in digital alarm as WAV data: four short double
// beeps over three seconds.
func DefaultTone() []byte {
	defaultToneOnce.Do(func() {
		defaultTone = EncodeWAV(
			Format{SampleRate: toneSampleRate, Channels: 1, BitDepth: 16},
			synthesizeBeeps(3*toneSampleRate),
		)
	})
	return defaultTone
}

func synthesizeBeeps(total int) []byte {
	const (
		freq      = 2000.0
		beep      = toneSampleRate / 10 // 100ms
		gap       = toneSampleRate / 20 // 50ms
		period    = toneSampleRate * 3 / 4
		amplitude = 0.6 * math.MaxInt16
		fade      = 200 // samples
	)

	samples := make([]byte, total*2)
	for i := 0; i < total; i++ {
		pos := i % period

		// Two beeps at the start of each period, silence after
		var offset int
		switch {
		case pos < beep:
			offset = pos
		case pos >= beep+gap && pos < 2*beep+gap:
			offset = pos - beep - gap
		default:
			continue
		}

		env := 1.0
		if offset < fade {
			env = float64(offset) / fade
		} else if beep-offset < fade {
			env = float64(beep-offset) / fade
		}

		v := amplitude * env * math.Sin(2*math.Pi*freq*float64(i)/toneSampleRate)
		binary.LittleEndian.PutUint16(samples[i*2:], uint16(int16(v)))
	}
	return samples
}
