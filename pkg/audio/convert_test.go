package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcm(values ...int16) []byte {
	b := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	return b
}

func values(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return out
}

var (
	mono44   = Format{SampleRate: 44100, Channels: 1, BitDepth: 16}
	stereo44 = Format{SampleRate: 44100, Channels: 2, BitDepth: 16}
	stereo22 = Format{SampleRate: 22050, Channels: 2, BitDepth: 16}
)

func TestConvert_MonoToStereo(t *testing.T) {
	out := Convert(mono44, pcm(100, -200, 300), stereo44)

	assert.Equal(t, []int16{100, 100, -200, -200, 300, 300}, values(out))
}

func TestConvert_StereoToMonoMixes(t *testing.T) {
	out := Convert(stereo44, pcm(100, 300, -1000, 0), mono44)

	assert.Equal(t, []int16{200, -500}, values(out))
}

func TestConvert_Resamples(t *testing.T) {
	out := Convert(stereo22, pcm(0, 0, 1000, -1000), stereo44)

	// Twice the frames, midpoints interpolated, last frame held
	assert.Equal(t, []int16{0, 0, 500, -500, 1000, -1000, 1000, -1000}, values(out))
}

func TestConvert_SameFormatIsUntouched(t *testing.T) {
	in := pcm(1, 2, 3, 4)

	assert.Equal(t, in, Convert(stereo44, in, stereo44))
}

func TestConvert_DefaultToneToOutputFormat(t *testing.T) {
	format, samples, err := ParseWAV(DefaultTone())
	require.NoError(t, err)

	out := Convert(format, samples, OutputFormat)

	// Same duration, twice the channels
	assert.Len(t, out, len(samples)*OutputFormat.Channels)
	v := values(out)
	for i := 0; i+1 < len(v); i += 2 {
		if v[i] != v[i+1] {
			t.Fatalf("frame %d: left %d and right %d differ", i/2, v[i], v[i+1])
		}
	}
}

func TestConvert_ClampsAndTruncatesPartialFrames(t *testing.T) {
	// A trailing odd byte is not a whole frame
	out := Convert(mono44, append(pcm(32767), 7), stereo44)

	assert.Equal(t, []int16{32767, 32767}, values(out))
	assert.Empty(t, Convert(mono44, nil, stereo44))
}
