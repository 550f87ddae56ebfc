package config

import "time"

// DefaultConfig mirrors the file written by SaveDefaultConfig.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Recording: RecordingConfig{
			SampleRate:        16000,
			Channels:          1,
			Format:            "s16",
			BufferSize:        8192,
			Device:            "",
			ChannelBufferSize: 30,
			Timeout:           2 * time.Minute,
		},
		Transcription: TranscriptionConfig{
			Provider:         "whisper-cpp",
			Language:         "it",
			Threads:          0,
			MaxRetryDuration: 15 * time.Second,
		},
		Storage: StorageConfig{
			Backend: "xlsx",
		},
		Metrics: MetricsConfig{
			Exponent:    2,
			MinExponent: 1,
			MaxExponent: 10,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "log",
		},
	}
}

const defaultConfigContent = `# Quotevoice Configuration
# This file is automatically generated with defaults.
# The daemon picks up changes for new sessions without a restart.

[general]
  log_file = ""                # Diagnostics log file, rotated (empty = stderr)
  log_level = "info"           # debug, info, warn, error

# Audio Recording Configuration
[recording]
  sample_rate = 16000          # Audio sample rate in Hz (16000 recommended for speech)
  channels = 1                 # Number of audio channels (1 = mono, 2 = stereo)
  format = "s16"               # Audio format (s16 = 16-bit signed integers)
  buffer_size = 8192           # Internal buffer size in bytes
  device = ""                  # PipeWire audio device (empty = use default microphone)
  channel_buffer_size = 30     # Audio frame buffer size (frames to buffer)
  timeout = "2m"               # Maximum recording duration (e.g., "30s", "2m")

# Speech Transcription Configuration
[transcription]
  provider = "whisper-cpp"     # "whisper-cpp" (local) or "openai" (OpenAI or compatible server)
  model = ""                   # whisper-cpp: path to a ggml model (empty = data dir ggml-tiny.bin)
                               # openai: model name (empty = whisper-1)
  language = "it"              # Language code (empty for auto-detect)
  api_key = ""                 # OpenAI API key (or set OPENAI_API_KEY environment variable)
  endpoint = ""                # OpenAI-compatible base URL (empty = api.openai.com)
  threads = 0                  # CPU threads for whisper-cpp (0 = auto)
  max_retry_duration = "15s"   # Audio kept when retrying with a normalized recording

# Quote Log Storage
[storage]
  backend = "xlsx"             # "xlsx" or "sqlite"
  path = ""                    # Empty = ~/.local/share/quotevoice/quotes.xlsx (or quotes.db)

# Metrics
[metrics]
  exponent = 2                 # Default exponent: power = word_count ^ exponent
  min_exponent = 1             # Lowest exponent offered in the UI
  max_exponent = 10            # Highest exponent offered in the UI

# Notification Configuration
[notifications]
  enabled = true               # Enable notifications
  type = "log"                 # Notification type ("desktop", "log", "none")

# Custom message texts, e.g.:
# [notifications.messages.quote_saved]
#   body = "Saved!"
`
