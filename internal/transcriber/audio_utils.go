package transcriber

import "github.com/leonardotrapani/quotevoice/internal/audio"

const (
	rawSampleRate = 16000
	rawChannels   = 1
)

// ensureWAV passes WAV payloads through and wraps anything else as raw
// 16kHz mono s16le PCM, which is what pw-record produces by default.
func ensureWAV(payload []byte) ([]byte, error) {
	if audio.IsWAV(payload) {
		return payload, nil
	}
	return audio.FromPCM16(payload, rawSampleRate, rawChannels)
}
