package recording

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/leonardotrapani/quotevoice/internal/audio"
	"github.com/leonardotrapani/quotevoice/internal/logging"
)

var ErrNothingRecorded = errors.New("nothing recorded")

// Capture records from src until stop is closed, ctx ends or the source
// finishes, and returns the take as a WAV payload.
func Capture(ctx context.Context, src Source, config Config, stop <-chan struct{}) ([]byte, error) {
	log := logging.For("recording")

	frameCh, errCh, err := src.Start(ctx)
	if err != nil {
		return nil, err
	}

	var pcm bytes.Buffer
	var captureErr error

	for frameCh != nil || errCh != nil {
		select {
		case frame, ok := <-frameCh:
			if !ok {
				frameCh = nil
				continue
			}
			pcm.Write(frame.Data)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if captureErr == nil {
				captureErr = err
			}
		case <-stop:
			_ = src.Stop()
			stop = nil
		case <-ctx.Done():
			_ = src.Stop()
			return nil, ctx.Err()
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if captureErr != nil {
		return nil, fmt.Errorf("capture: %w", captureErr)
	}

	// drop a trailing partial sample frame
	channels := config.Channels
	if channels <= 0 {
		channels = 1
	}
	frameBytes := 2 * channels
	raw := pcm.Bytes()
	raw = raw[:len(raw)-len(raw)%frameBytes]
	if len(raw) == 0 {
		return nil, ErrNothingRecorded
	}

	payload, err := audio.FromPCM16(raw, config.SampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("encode WAV: %w", err)
	}
	log.Info().Int("pcm_bytes", len(raw)).Msg("capture finished")
	return payload, nil
}
