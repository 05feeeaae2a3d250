package audio

import (
	"encoding/binary"
	"math"
)

// OutputFormat is the format the audio device is opened with. Every sound is
// converted to it before playback.
var OutputFormat = Format{SampleRate: 44100, Channels: 2, BitDepth: 16}

// Convert turns 16-bit PCM samples in format from into format to. Mono is
// duplicated onto every output channel, extra channels are mixed down, and the
// sample rate is changed by linear interpolation.
func Convert(from Format, samples []byte, to Format) []byte {
	if from == to {
		return samples
	}
	if from.Channels < 1 || from.SampleRate < 1 || to.Channels < 1 || to.SampleRate < 1 {
		return nil
	}

	frames := len(samples) / (2 * from.Channels)
	if frames == 0 {
		return []byte{}
	}

	// Mix into the output channel layout first
	mixed := make([][]float64, to.Channels)
	for c := range mixed {
		mixed[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		frame := samples[i*2*from.Channels:]
		for c := 0; c < to.Channels; c++ {
			mixed[c][i] = channelValue(frame, from.Channels, to.Channels, c)
		}
	}

	outFrames := int(int64(frames) * int64(to.SampleRate) / int64(from.SampleRate))
	if outFrames == 0 {
		outFrames = 1
	}
	step := float64(from.SampleRate) / float64(to.SampleRate)

	out := make([]byte, outFrames*2*to.Channels)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		i0 := int(pos)
		if i0 >= frames {
			i0 = frames - 1
		}
		i1 := i0 + 1
		if i1 >= frames {
			i1 = frames - 1
		}
		frac := pos - float64(i0)

		for c := 0; c < to.Channels; c++ {
			v := mixed[c][i0] + (mixed[c][i1]-mixed[c][i0])*frac
			binary.LittleEndian.PutUint16(out[(i*to.Channels+c)*2:], uint16(clampSample(v)))
		}
	}
	return out
}

// channelValue picks the source value for output channel c of one frame
func channelValue(frame []byte, in, out, c int) float64 {
	sample := func(ch int) float64 {
		return float64(int16(binary.LittleEndian.Uint16(frame[ch*2:])))
	}

	switch {
	case in == out:
		return sample(c)
	case in == 1:
		return sample(0)
	case out == 1:
		var sum float64
		for ch := 0; ch < in; ch++ {
			sum += sample(ch)
		}
		return sum / float64(in)
	case c < in:
		return sample(c)
	default:
		return sample(in - 1)
	}
}

func clampSample(v float64) int16 {
	v = math.Round(v)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
