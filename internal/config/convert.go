package config

import (
	"os"

	"github.com/leonardotrapani/quotevoice/internal/logging"
	"github.com/leonardotrapani/quotevoice/internal/notify"
	"github.com/leonardotrapani/quotevoice/internal/quotelog"
	"github.com/leonardotrapani/quotevoice/internal/recording"
	"github.com/leonardotrapani/quotevoice/internal/transcriber"
)

func (c *Config) ToRecordingConfig() recording.Config {
	return recording.Config{
		SampleRate:        c.Recording.SampleRate,
		Channels:          c.Recording.Channels,
		Format:            c.Recording.Format,
		BufferSize:        c.Recording.BufferSize,
		Device:            c.Recording.Device,
		ChannelBufferSize: c.Recording.ChannelBufferSize,
		Timeout:           c.Recording.Timeout,
	}
}

func (c *Config) ToTranscriberConfig() transcriber.Config {
	return transcriber.Config{
		Provider: c.Transcription.Provider,
		Model:    c.Transcription.Model,
		Language: c.Transcription.Language,
		APIKey:   c.resolveAPIKey(),
		Endpoint: c.Transcription.Endpoint,
		Threads:  c.Transcription.Threads,
	}
}

// resolveAPIKey prefers the config file over OPENAI_API_KEY.
func (c *Config) resolveAPIKey() string {
	if c.Transcription.APIKey != "" {
		return c.Transcription.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

func (c *Config) ToLoggingOptions() logging.Options {
	return logging.Options{
		Level: c.General.LogLevel,
		File:  c.General.LogFile,
	}
}

// OpenStore opens the configured quote log.
func (c *Config) OpenStore() (quotelog.Store, error) {
	return quotelog.Open(c.Storage.Backend, c.Storage.Path)
}

func (c *Config) NewNotifier() notify.Notifier {
	return notify.New(c.Notifications.Enabled, c.Notifications.Type)
}
