package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tone(rate, channels, depth int, d time.Duration) Clip {
	frames := int(int64(rate) * int64(d) / int64(time.Second))
	samples := make([]int, frames*channels)
	for i := range samples {
		samples[i] = (i % 200) - 100
	}
	return Clip{SampleRate: rate, Channels: channels, BitDepth: depth, Samples: samples}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := tone(16000, 1, 16, 500*time.Millisecond)

	payload, err := Encode(in)
	require.NoError(t, err)
	assert.True(t, IsWAV(payload))

	out, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, 16000, out.SampleRate)
	assert.Equal(t, 1, out.Channels)
	assert.Equal(t, 16, out.BitDepth)
	assert.Equal(t, in.Samples, out.Samples)
	assert.Equal(t, 500*time.Millisecond, out.Duration())
}

func TestDecode_NotWAV(t *testing.T) {
	_, err := Decode([]byte("definitely not audio"))
	assert.True(t, errors.Is(err, ErrNotWAV))

	_, err = Decode(nil)
	assert.True(t, errors.Is(err, ErrNotWAV))
}

func TestEncode_Empty(t *testing.T) {
	_, err := Encode(Clip{SampleRate: 16000, Channels: 1, BitDepth: 16})
	assert.True(t, errors.Is(err, ErrEmptyAudio))
}

func TestNormalize_TrimsAndDownmixes(t *testing.T) {
	in := tone(8000, 2, 16, 20*time.Second)
	payload, err := Encode(in)
	require.NoError(t, err)

	norm, err := Normalize(payload, 15*time.Second)
	require.NoError(t, err)

	out, err := Decode(norm)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Channels)
	assert.Equal(t, 8000, out.SampleRate)
	assert.Equal(t, 16, out.BitDepth)
	assert.Equal(t, 15*time.Second, out.Duration())
}

func TestNormalize_ShortClipKeepsLength(t *testing.T) {
	payload, err := Encode(tone(16000, 1, 16, 2*time.Second))
	require.NoError(t, err)

	norm, err := Normalize(payload, 0)
	require.NoError(t, err)

	out, err := Decode(norm)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, out.Duration())
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte{0x00, 0x01, 0x02}, DefaultMaxDuration)
	assert.Error(t, err)
}

func TestDownmix(t *testing.T) {
	clip := Clip{SampleRate: 10, Channels: 2, BitDepth: 16, Samples: []int{10, 20, -4, 4, 7, 7}}
	out := Downmix(clip)
	assert.Equal(t, 1, out.Channels)
	assert.Equal(t, []int{15, 0, 7}, out.Samples)
}

func TestToBitDepth(t *testing.T) {
	tests := []struct {
		name string
		in   Clip
		want []int
	}{
		{"24 to 16", Clip{BitDepth: 24, Samples: []int{256, -512}}, []int{1, -2}},
		{"8 to 16", Clip{BitDepth: 8, Samples: []int{128, 129, 127}}, []int{0, 256, -256}},
		{"16 unchanged", Clip{BitDepth: 16, Samples: []int{5}}, []int{5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToBitDepth(tt.in, 16)
			assert.Equal(t, 16, got.BitDepth)
			assert.Equal(t, tt.want, got.Samples)
		})
	}
}

func TestFromPCM16(t *testing.T) {
	raw := []byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80}
	payload, err := FromPCM16(raw, 16000, 1)
	require.NoError(t, err)

	clip, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1, -32768}, clip.Samples)
}
