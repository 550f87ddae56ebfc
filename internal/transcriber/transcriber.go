package transcriber

import (
	"context"
	"fmt"
	"os"
)

// BatchAdapter turns one complete audio payload into text.
type BatchAdapter interface {
	Transcribe(ctx context.Context, audioData []byte) (string, error)
}

// Configuration for the transcription engine
type Config struct {
	Provider string // "whisper-cpp" or "openai"
	Model    string // model file for whisper-cpp, model name for openai
	Language string // ISO-639-1 hint, empty for auto-detect
	APIKey   string
	Endpoint string // OpenAI-compatible base URL, empty for api.openai.com
	Threads  int
}

func DefaultConfig() Config {
	return Config{
		Provider: "whisper-cpp",
		Language: "it",
	}
}

// NewAdapter creates the adapter for the configured provider.
func NewAdapter(config Config) (BatchAdapter, error) {
	switch config.Provider {
	case "whisper-cpp":
		if config.Model == "" {
			return nil, fmt.Errorf("whisper-cpp model path required")
		}
		return NewWhisperCppAdapter(config.Model, config.Language, config.Threads), nil

	case "openai":
		if config.APIKey == "" {
			config.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if config.APIKey == "" && config.Endpoint == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		return NewOpenAIAdapter(config), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
