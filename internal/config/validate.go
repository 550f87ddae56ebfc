package config

import (
	"fmt"

	"github.com/leonardotrapani/quotevoice/internal/logging"
)

// maxExponentLimit keeps word_count^exponent printable.
const maxExponentLimit = 100

func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.General.LogLevel); err != nil {
		return fmt.Errorf("invalid general.log_level: %s (must be debug, info, warn, or error)", c.General.LogLevel)
	}

	if c.Recording.SampleRate <= 0 {
		return fmt.Errorf("invalid recording.sample_rate: %d", c.Recording.SampleRate)
	}
	if c.Recording.Channels <= 0 {
		return fmt.Errorf("invalid recording.channels: %d", c.Recording.Channels)
	}
	if c.Recording.BufferSize <= 0 {
		return fmt.Errorf("invalid recording.buffer_size: %d", c.Recording.BufferSize)
	}
	if c.Recording.ChannelBufferSize <= 0 {
		return fmt.Errorf("invalid recording.channel_buffer_size: %d", c.Recording.ChannelBufferSize)
	}
	if c.Recording.Format == "" {
		return fmt.Errorf("invalid recording.format: empty")
	}
	if c.Recording.Timeout <= 0 {
		return fmt.Errorf("invalid recording.timeout: %v", c.Recording.Timeout)
	}

	if c.Transcription.Language != "" && !isValidLanguageCode(c.Transcription.Language) {
		return fmt.Errorf("invalid transcription.language: %s (use empty string for auto-detect or ISO-639-1 codes like 'it', 'en', 'fr')", c.Transcription.Language)
	}

	switch c.Transcription.Provider {
	case "whisper-cpp":
		if c.Transcription.Model == "" {
			return fmt.Errorf("invalid transcription.model: empty (path to a ggml model required for whisper-cpp)")
		}
	case "openai":
		if c.Transcription.Endpoint == "" && c.resolveAPIKey() == "" {
			return fmt.Errorf("OpenAI API key required: not found in config (transcription.api_key) or environment variable (OPENAI_API_KEY)")
		}
	case "":
		return fmt.Errorf("invalid transcription.provider: empty")
	default:
		return fmt.Errorf("unsupported transcription.provider: %s (must be whisper-cpp or openai)", c.Transcription.Provider)
	}
	if c.Transcription.Threads < 0 {
		return fmt.Errorf("invalid transcription.threads: %d", c.Transcription.Threads)
	}
	if c.Transcription.MaxRetryDuration <= 0 {
		return fmt.Errorf("invalid transcription.max_retry_duration: %v", c.Transcription.MaxRetryDuration)
	}

	validBackends := map[string]bool{"xlsx": true, "sqlite": true}
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid storage.backend: %s (must be xlsx or sqlite)", c.Storage.Backend)
	}

	m := c.Metrics
	if m.MinExponent < 0 {
		return fmt.Errorf("invalid metrics.min_exponent: %d (must be >= 0)", m.MinExponent)
	}
	if m.MaxExponent < m.MinExponent || m.MaxExponent > maxExponentLimit {
		return fmt.Errorf("invalid metrics.max_exponent: %d (must be between min_exponent and %d)", m.MaxExponent, maxExponentLimit)
	}
	if m.Exponent < m.MinExponent || m.Exponent > m.MaxExponent {
		return fmt.Errorf("invalid metrics.exponent: %d (must be between %d and %d)", m.Exponent, m.MinExponent, m.MaxExponent)
	}

	validTypes := map[string]bool{"desktop": true, "log": true, "none": true}
	if !validTypes[c.Notifications.Type] {
		return fmt.Errorf("invalid notifications.type: %s (must be desktop, log, or none)", c.Notifications.Type)
	}

	return nil
}

func isValidLanguageCode(code string) bool {
	validCodes := map[string]bool{
		"en": true, "es": true, "fr": true, "de": true, "it": true, "pt": true,
		"ru": true, "ja": true, "ko": true, "zh": true, "ar": true, "hi": true,
		"nl": true, "sv": true, "da": true, "no": true, "fi": true, "pl": true,
		"tr": true, "he": true, "th": true, "vi": true, "id": true, "ms": true,
		"uk": true, "cs": true, "hu": true, "ro": true, "bg": true, "hr": true,
		"sk": true, "sl": true, "et": true, "lv": true, "lt": true, "mt": true,
		"cy": true, "ga": true, "eu": true, "ca": true, "gl": true, "is": true,
		"el": true, "la": true, "sr": true, "bs": true, "lb": true, "fo": true,
		"fa": true, "ur": true, "bn": true, "ta": true, "te": true, "sw": true,
		"af": true,
	}
	return validCodes[code]
}
