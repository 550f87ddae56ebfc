package config

import (
	"reflect"
	"time"

	"github.com/leonardotrapani/quotevoice/internal/notify"
)

// GeneralConfig holds global settings that apply across the application
type GeneralConfig struct {
	LogFile  string `toml:"log_file"`  // empty logs to stderr
	LogLevel string `toml:"log_level"` // debug, info, warn, error
}

type Config struct {
	General       GeneralConfig       `toml:"general"`
	Recording     RecordingConfig     `toml:"recording"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Storage       StorageConfig       `toml:"storage"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Notifications NotificationsConfig `toml:"notifications"`
}

type RecordingConfig struct {
	SampleRate        int           `toml:"sample_rate"`
	Channels          int           `toml:"channels"`
	Format            string        `toml:"format"`
	BufferSize        int           `toml:"buffer_size"`
	Device            string        `toml:"device"`
	ChannelBufferSize int           `toml:"channel_buffer_size"`
	Timeout           time.Duration `toml:"timeout"`
}

type TranscriptionConfig struct {
	Provider         string        `toml:"provider"` // "whisper-cpp" or "openai"
	Model            string        `toml:"model"`
	Language         string        `toml:"language"`
	APIKey           string        `toml:"api_key"`
	Endpoint         string        `toml:"endpoint"`
	Threads          int           `toml:"threads"` // CPU threads for whisper-cpp (0 = auto: NumCPU-1)
	MaxRetryDuration time.Duration `toml:"max_retry_duration"`
}

type StorageConfig struct {
	Backend string `toml:"backend"` // "xlsx" or "sqlite"
	Path    string `toml:"path"`    // empty for the default data dir
}

type MetricsConfig struct {
	Exponent    int `toml:"exponent"`
	MinExponent int `toml:"min_exponent"`
	MaxExponent int `toml:"max_exponent"`
}

type NotificationsConfig struct {
	Enabled  bool           `toml:"enabled"`
	Type     string         `toml:"type"` // "desktop", "log", "none"
	Messages MessagesConfig `toml:"messages"`
}

type MessageConfig struct {
	Title string `toml:"title"`
	Body  string `toml:"body"`
}

type MessagesConfig struct {
	Transcribing          MessageConfig `toml:"transcribing"`
	TranscriptionComplete MessageConfig `toml:"transcription_complete"`
	NoSpeech              MessageConfig `toml:"no_speech"`
	TranscriptionFailed   MessageConfig `toml:"transcription_failed"`
	EmptyQuote            MessageConfig `toml:"empty_quote"`
	QuoteSaved            MessageConfig `toml:"quote_saved"`
	SaveFailed            MessageConfig `toml:"save_failed"`
	ConfigReloaded        MessageConfig `toml:"config_reloaded"`
}

// Resolve merges user config with defaults from MessageDefs
func (m *MessagesConfig) Resolve() map[notify.MessageType]notify.Message {
	result := make(map[notify.MessageType]notify.Message)

	v := reflect.ValueOf(m).Elem()
	t := v.Type()
	tagToField := make(map[string]int)
	for i := 0; i < t.NumField(); i++ {
		tagToField[t.Field(i).Tag.Get("toml")] = i
	}

	for _, def := range notify.MessageDefs {
		msg := notify.Message{
			Title:   def.DefaultTitle,
			Body:    def.DefaultBody,
			IsError: def.IsError,
		}
		if idx, ok := tagToField[def.ConfigKey]; ok {
			userMsg := v.Field(idx).Interface().(MessageConfig)
			if userMsg.Title != "" {
				msg.Title = userMsg.Title
			}
			if userMsg.Body != "" {
				msg.Body = userMsg.Body
			}
		}
		result[def.Type] = msg
	}
	return result
}
