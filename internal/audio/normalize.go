package audio

import (
	"fmt"
	"time"
)

// DefaultMaxDuration bounds the length of a normalized clip.
const DefaultMaxDuration = 15 * time.Second

// Normalize re-encodes a WAV payload as mono 16-bit PCM at the original
// sample rate, trimmed to maxDuration. Engines that choke on unusual headers,
// stereo input or long takes usually accept the result.
func Normalize(payload []byte, maxDuration time.Duration) ([]byte, error) {
	clip, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}

	mono := Downmix(clip)
	mono = Trim(mono, maxDuration)
	mono = ToBitDepth(mono, 16)

	out, err := Encode(mono)
	if err != nil {
		return nil, fmt.Errorf("re-encode: %w", err)
	}
	return out, nil
}

// Downmix averages interleaved channels into one.
func Downmix(clip Clip) Clip {
	if clip.Channels <= 1 {
		return clip
	}
	frames := clip.Frames()
	out := make([]int, frames)
	for f := 0; f < frames; f++ {
		sum := 0
		for ch := 0; ch < clip.Channels; ch++ {
			sum += clip.Samples[f*clip.Channels+ch]
		}
		out[f] = sum / clip.Channels
	}
	return Clip{SampleRate: clip.SampleRate, Channels: 1, BitDepth: clip.BitDepth, Samples: out}
}

// Trim keeps at most max of audio.
func Trim(clip Clip, max time.Duration) Clip {
	limit := int(int64(clip.SampleRate) * int64(max) / int64(time.Second))
	if clip.Frames() <= limit {
		return clip
	}
	clip.Samples = clip.Samples[:limit*clip.Channels]
	return clip
}

// ToBitDepth rescales samples to the target bit depth.
func ToBitDepth(clip Clip, depth int) Clip {
	if clip.BitDepth == depth || clip.BitDepth == 0 {
		clip.BitDepth = depth
		return clip
	}
	out := make([]int, len(clip.Samples))
	shift := clip.BitDepth - depth
	for i, s := range clip.Samples {
		switch {
		case clip.BitDepth == 8:
			// 8-bit WAV is unsigned
			out[i] = (s - 128) << (depth - 8)
		case shift > 0:
			out[i] = s >> shift
		default:
			out[i] = s << -shift
		}
	}
	return Clip{SampleRate: clip.SampleRate, Channels: clip.Channels, BitDepth: depth, Samples: out}
}
