// Package audio decodes and re-encodes the WAV payloads produced by the
// recording widget.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	ErrNotWAV     = errors.New("payload is not a WAV file")
	ErrEmptyAudio = errors.New("audio contains no samples")
)

// Clip is decoded PCM audio with samples interleaved by channel.
type Clip struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []int
}

// Frames is the number of samples per channel.
func (c Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

func (c Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// IsWAV reports whether the payload starts with a RIFF/WAVE header.
func IsWAV(payload []byte) bool {
	return len(payload) >= 12 && string(payload[0:4]) == "RIFF" && string(payload[8:12]) == "WAVE"
}

// Decode reads a PCM WAV payload.
func Decode(payload []byte) (Clip, error) {
	if !IsWAV(payload) {
		return Clip{}, ErrNotWAV
	}

	dec := wav.NewDecoder(bytes.NewReader(payload))
	if !dec.IsValidFile() {
		return Clip{}, ErrNotWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("decode wav: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels == 0 || buf.Format.SampleRate == 0 {
		return Clip{}, fmt.Errorf("decode wav: missing format chunk")
	}

	return Clip{
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		BitDepth:   int(dec.BitDepth),
		Samples:    buf.Data,
	}, nil
}

// Encode writes clip as a PCM WAV file and returns its bytes.
func Encode(clip Clip) ([]byte, error) {
	if clip.SampleRate <= 0 || clip.Channels <= 0 || clip.BitDepth <= 0 {
		return nil, fmt.Errorf("invalid clip format: rate=%d channels=%d depth=%d",
			clip.SampleRate, clip.Channels, clip.BitDepth)
	}
	if len(clip.Samples) == 0 {
		return nil, ErrEmptyAudio
	}

	// wav.Encoder needs a seekable writer to patch the header sizes on Close
	tmp, err := os.CreateTemp("", "quotevoice-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	enc := wav.NewEncoder(tmp, clip.SampleRate, clip.BitDepth, clip.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: clip.Channels,
			SampleRate:  clip.SampleRate,
		},
		Data:           clip.Samples,
		SourceBitDepth: clip.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav: %w", err)
	}

	return os.ReadFile(tmp.Name())
}

// FromPCM16 wraps raw signed 16-bit little-endian PCM in a WAV container.
func FromPCM16(raw []byte, sampleRate, channels int) ([]byte, error) {
	samples := make([]int, len(raw)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(raw[i*2:])))
	}
	return Encode(Clip{
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   16,
		Samples:    samples,
	})
}
