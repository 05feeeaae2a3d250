package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotWAV            = errors.New("not a RIFF/WAVE file")
	ErrUnsupportedFormat = errors.New("only 16-bit PCM WAV is supported")
)

const pcmFormat = 1

// Format holds WAV stream format information
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// ParseWAV parses a WAV file and returns the format and raw sample data
func ParseWAV(data []byte) (Format, []byte, error) {
	reader := bytes.NewReader(data)

	var header struct {
		RIFF [4]byte
		Size uint32
		WAVE [4]byte
	}
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return Format{}, nil, ErrNotWAV
	}
	if string(header.RIFF[:]) != "RIFF" || string(header.WAVE[:]) != "WAVE" {
		return Format{}, nil, ErrNotWAV
	}

	var format Format
	var haveFormat bool

	// Read chunks until the data chunk
	for {
		var chunk struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(reader, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				return Format{}, nil, fmt.Errorf("%w: missing data chunk", ErrNotWAV)
			}
			return Format{}, nil, err
		}

		switch string(chunk.ID[:]) {
		case "fmt ":
			var fmtChunk struct {
				AudioFormat   uint16
				Channels      uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(reader, binary.LittleEndian, &fmtChunk); err != nil {
				return Format{}, nil, fmt.Errorf("%w: short fmt chunk", ErrNotWAV)
			}
			if fmtChunk.AudioFormat != pcmFormat || fmtChunk.BitsPerSample != 16 ||
				fmtChunk.Channels == 0 || fmtChunk.SampleRate == 0 {
				return Format{}, nil, ErrUnsupportedFormat
			}
			format = Format{
				SampleRate: int(fmtChunk.SampleRate),
				Channels:   int(fmtChunk.Channels),
				BitDepth:   int(fmtChunk.BitsPerSample),
			}
			haveFormat = true

			// Skip any extra format bytes
			if extra := int64(chunk.Size) - 16; extra > 0 {
				if _, err := reader.Seek(extra, io.SeekCurrent); err != nil {
					return Format{}, nil, err
				}
			}
		case "data":
			if !haveFormat {
				return Format{}, nil, fmt.Errorf("%w: data before fmt chunk", ErrNotWAV)
			}
			size := int64(chunk.Size)
			if remaining := int64(reader.Len()); size > remaining {
				size = remaining
			}
			samples := make([]byte, size)
			if _, err := io.ReadFull(reader, samples); err != nil {
				return Format{}, nil, err
			}
			return format, samples, nil
		default:
			// Chunks are padded to an even size
			skip := int64(chunk.Size) + int64(chunk.Size%2)
			if _, err := reader.Seek(skip, io.SeekCurrent); err != nil {
				return Format{}, nil, err
			}
		}
	}
}

// EncodeWAV wraps 16-bit PCM samples in a WAV container
func EncodeWAV(format Format, samples []byte) []byte {
	var buf bytes.Buffer
	blockAlign := format.Channels * format.BitDepth / 8

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(samples)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(pcmFormat))
	binary.Write(&buf, binary.LittleEndian, uint16(format.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(format.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(format.SampleRate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(format.BitDepth))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(samples)))
	buf.Write(samples)

	return buf.Bytes()
}
