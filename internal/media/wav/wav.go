// Package wav writes and inspects canonical PCM RIFF/WAVE files.
package wav

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	headerSize   = 44
	fmtChunkSize = 16
	formatPCM    = 1
)

// Error definitions for the wav package.
var (
	ErrInvalidFormat = errors.New("wav: invalid format")
	ErrNotWAV        = errors.New("wav: not a RIFF/WAVE stream")
	ErrTooLarge      = errors.New("wav: data exceeds 4 GiB")
)

// Format describes a linear PCM stream.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// StudioFormat is the 96 kHz, stereo, 24-bit format of generated music.
var StudioFormat = Format{SampleRate: 96000, Channels: 2, BitsPerSample: 24}

// BytesPerSample returns the width of one sample of one channel.
func (f Format) BytesPerSample() int {
	return f.BitsPerSample / 8
}

// BlockAlign returns the size of one frame (all channels).
func (f Format) BlockAlign() int {
	return f.BytesPerSample() * f.Channels
}

// ByteRate returns the number of bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

// Validate checks that f can be encoded.
func (f Format) Validate() error {
	switch {
	case f.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	case f.Channels <= 0 || f.Channels > math.MaxUint16:
		return fmt.Errorf("%w: %d channels", ErrInvalidFormat, f.Channels)
	}

	switch f.BitsPerSample {
	case 8, 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("%w: %d bits per sample", ErrInvalidFormat, f.BitsPerSample)
	}
}

// Quality renders f the way it is reported to clients, e.g. "96kHz/24-bit".
func Quality(f Format) string {
	rate := fmt.Sprintf("%gkHz", float64(f.SampleRate)/1000)
	return fmt.Sprintf("%s/%d-bit", rate, f.BitsPerSample)
}

// Duration returns the playback time in seconds of dataSize bytes of audio.
func Duration(f Format, dataSize uint32) float64 {
	if f.ByteRate() == 0 {
		return 0
	}
	return float64(dataSize) / float64(f.ByteRate())
}

// WriteHeader writes the 44-byte canonical header for dataSize bytes of PCM data.
func WriteHeader(w io.Writer, f Format, dataSize uint32) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if uint64(dataSize)+headerSize-8 > math.MaxUint32 {
		return ErrTooLarge
	}

	var h [headerSize]byte
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], headerSize-8+dataSize)
	copy(h[8:12], "WAVE")

	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(h[20:22], formatPCM)
	binary.LittleEndian.PutUint16(h[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(f.ByteRate()))
	binary.LittleEndian.PutUint16(h[32:34], uint16(f.BlockAlign()))
	binary.LittleEndian.PutUint16(h[34:36], uint16(f.BitsPerSample))

	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], dataSize)

	_, err := w.Write(h[:])
	return err
}

// ParseHeader reads a RIFF/WAVE header, skipping unknown chunks, and returns
// the format and the size of the data chunk. r is left at the first data byte.
func ParseHeader(r io.Reader) (Format, uint32, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Format{}, 0, fmt.Errorf("%w: %w", ErrNotWAV, err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Format{}, 0, ErrNotWAV
	}

	var (
		f      Format
		hasFmt bool
		chunk  [8]byte
	)
	for {
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return Format{}, 0, fmt.Errorf("%w: missing data chunk: %w", ErrNotWAV, err)
		}

		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < fmtChunkSize {
				return Format{}, 0, fmt.Errorf("%w: short fmt chunk", ErrNotWAV)
			}

			body := make([]byte, int(size)+int(size%2))
			if _, err := io.ReadFull(r, body); err != nil {
				return Format{}, 0, fmt.Errorf("%w: %w", ErrNotWAV, err)
			}

			f = Format{
				Channels:      int(binary.LittleEndian.Uint16(body[2:4])),
				SampleRate:    int(binary.LittleEndian.Uint32(body[4:8])),
				BitsPerSample: int(binary.LittleEndian.Uint16(body[14:16])),
			}
			hasFmt = true

		case "data":
			if !hasFmt {
				return Format{}, 0, fmt.Errorf("%w: data before fmt chunk", ErrNotWAV)
			}
			return f, size, nil

		default:
			// Chunks are padded to an even size.
			if _, err := io.CopyN(io.Discard, r, int64(size)+int64(size%2)); err != nil {
				return Format{}, 0, fmt.Errorf("%w: %w", ErrNotWAV, err)
			}
		}
	}
}

// Tone describes a sine wave.
type Tone struct {
	// Frequency in Hz.
	Frequency float64

	// Amplitude relative to full scale, in [0, 1].
	Amplitude float64

	// Seconds of audio to generate.
	Seconds float64
}

// DemoTone is the A4 placeholder used when no music backend answers.
func DemoTone(seconds float64) Tone {
	return Tone{Frequency: 440, Amplitude: 0.3, Seconds: seconds}
}

// Frames returns the number of frames t spans at the given sample rate.
func (t Tone) Frames(sampleRate int) int {
	return int(float64(sampleRate) * t.Seconds)
}

// WriteTone writes a complete WAV file containing t. The mono sine is
// duplicated on every channel. It returns the number of bytes written.
func WriteTone(w io.Writer, f Format, t Tone) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	if t.Seconds < 0 || t.Amplitude < 0 || t.Amplitude > 1 {
		return 0, fmt.Errorf("%w: tone %+v", ErrInvalidFormat, t)
	}

	frames := t.Frames(f.SampleRate)
	dataSize := uint64(frames) * uint64(f.BlockAlign())
	if dataSize+headerSize-8 > math.MaxUint32 {
		return 0, ErrTooLarge
	}

	bw := bufio.NewWriterSize(w, 64*1024)
	if err := WriteHeader(bw, f, uint32(dataSize)); err != nil {
		return 0, err
	}

	width := f.BytesPerSample()
	peak := float64(int64(1)<<(f.BitsPerSample-1) - 1)
	step := 2 * math.Pi * t.Frequency / float64(f.SampleRate)

	frame := make([]byte, f.BlockAlign())
	for i := range frames {
		sample := int32(math.Sin(step*float64(i)) * t.Amplitude * peak)
		putSample(frame[:width], sample, f.BitsPerSample)
		for c := 1; c < f.Channels; c++ {
			copy(frame[c*width:(c+1)*width], frame[:width])
		}

		if _, err := bw.Write(frame); err != nil {
			return 0, err
		}
	}

	if err := bw.Flush(); err != nil {
		return 0, err
	}

	return int64(headerSize + dataSize), nil
}

// putSample packs a signed sample little-endian into dst. 8-bit PCM is unsigned.
func putSample(dst []byte, sample int32, bits int) {
	switch bits {
	case 8:
		dst[0] = byte(sample + 128)
	case 16:
		binary.LittleEndian.PutUint16(dst, uint16(int16(sample)))
	case 24:
		dst[0] = byte(sample)
		dst[1] = byte(sample >> 8)
		dst[2] = byte(sample >> 16)
	case 32:
		binary.LittleEndian.PutUint32(dst, uint32(sample))
	}
}
