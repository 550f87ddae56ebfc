package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/leonardotrapani/quotevoice/internal/logging"
	"github.com/sashabaranov/go-openai"
)

const openAIProvider = "openai"

// OpenAIAdapter implements BatchAdapter for the OpenAI transcription API or
// any server speaking the same protocol (e.g. a local faster-whisper server).
type OpenAIAdapter struct {
	client *openai.Client
	config Config
}

func NewOpenAIAdapter(config Config) *OpenAIAdapter {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.Endpoint != "" {
		clientConfig.BaseURL = config.Endpoint
	}
	if config.Model == "" {
		config.Model = openai.Whisper1
	}
	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

func (a *OpenAIAdapter) Transcribe(ctx context.Context, audioData []byte) (string, error) {
	log := logging.For("openai")

	if len(audioData) == 0 {
		return "", nil
	}

	wavData, err := ensureWAV(audioData)
	if err != nil {
		return "", newError(openAIProvider, fmt.Errorf("convert to WAV: %w", err))
	}

	req := openai.AudioRequest{
		Model:    a.config.Model,
		Reader:   bytes.NewReader(wavData),
		FilePath: "audio.wav",
		Language: a.config.Language,
	}

	start := time.Now()
	resp, err := a.client.CreateTranscription(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Error().Err(err).Dur("after", duration).Msg("API call failed")
		return "", newError(openAIProvider, err)
	}

	log.Info().Int("bytes", len(audioData)).Dur("took", duration).Str("text", resp.Text).Msg("transcribed")
	return resp.Text, nil
}
