package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/leonardotrapani/quotevoice/internal/audio"
	"github.com/leonardotrapani/quotevoice/internal/logging"
	"github.com/leonardotrapani/quotevoice/internal/metrics"
	"github.com/leonardotrapani/quotevoice/internal/quotelog"
	"github.com/leonardotrapani/quotevoice/internal/transcriber"
)

// Normalizer re-encodes a payload into something the engine is more likely to accept.
type Normalizer func(payload []byte, maxDuration time.Duration) ([]byte, error)

type Option func(*Controller)

func WithNormalizer(n Normalizer) Option {
	return func(c *Controller) { c.normalize = n }
}

// WithMaxRetryDuration caps the length of the audio sent on retry.
func WithMaxRetryDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.maxRetryDuration = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller advances session state. It holds no per-session data, so one
// controller can serve any number of sessions.
type Controller struct {
	engine           transcriber.BatchAdapter
	normalize        Normalizer
	maxRetryDuration time.Duration
	now              func() time.Time
	log              zerolog.Logger
}

func NewController(engine transcriber.BatchAdapter, opts ...Option) *Controller {
	c := &Controller{
		engine:           engine,
		normalize:        audio.Normalize,
		maxRetryDuration: audio.DefaultMaxDuration,
		now:              time.Now,
		log:              logging.For("session"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fingerprint identifies a payload by content.
func Fingerprint(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// WillTranscribe reports whether OnRenderPass would call the engine for payload.
// Render layers use it to show a busy indicator before the call blocks.
func (c *Controller) WillTranscribe(payload []byte, st State) bool {
	return len(payload) > 0 && Fingerprint(payload) != st.LastAudioFingerprint
}

// OnRenderPass transcribes each distinct payload at most once.
func (c *Controller) OnRenderPass(ctx context.Context, payload []byte, st State) (State, Command) {
	if len(payload) == 0 {
		return st, NoOp
	}

	fp := Fingerprint(payload)
	if fp == st.LastAudioFingerprint {
		return st, NoOp
	}

	log := c.log.With().Str("session", st.ID).Str("fingerprint", fp[:12]).Logger()

	st.AudioPayload = payload
	st.Phase = PhaseTranscribing
	log.Info().Int("bytes", len(payload)).Msg("transcribing new recording")

	transcript, err := c.engine.Transcribe(ctx, payload)
	if err != nil {
		log.Warn().Err(err).Msg("transcription failed, retrying with normalized audio")
		st.Phase = PhaseRetrying

		transcript, err = c.retry(ctx, payload)
		if err != nil {
			log.Error().Err(err).Msg("retry failed")
			st.Phase = PhaseIdle
			return st.bumpEpoch(), NotifyTranscriptionFailed
		}
	}

	transcript = strings.TrimSpace(transcript)
	st.LastAudioFingerprint = fp

	if transcript == "" {
		log.Info().Msg("no speech detected")
		st.Phase = PhaseIdle
		return st, NotifyNoSpeechDetected
	}

	log.Info().Str("transcript", transcript).Msg("transcript pending")
	st.PendingTranscript = transcript
	st.Phase = PhasePendingApply
	return st.bumpEpoch(), Rerun
}

func (c *Controller) retry(ctx context.Context, payload []byte) (string, error) {
	normalized, err := c.normalize(payload, c.maxRetryDuration)
	if err != nil {
		return "", fmt.Errorf("normalize audio: %w", err)
	}
	return c.engine.Transcribe(ctx, normalized)
}

// ApplyPending moves the pending transcript into the quote field. It must
// run before the quote field is built.
func (c *Controller) ApplyPending(st State) State {
	if st.PendingTranscript != "" {
		st.QuoteText = st.PendingTranscript
		st.PendingTranscript = ""
	}
	if st.Phase == PhasePendingApply {
		st.Phase = PhaseIdle
	}
	return st
}

// RequestFreshRecording gives the user an empty recording widget and forgets
// the last processed payload.
func (c *Controller) RequestFreshRecording(st State) State {
	st = st.bumpEpoch()
	st.LastAudioFingerprint = ""
	st.PendingTranscript = ""
	st.Phase = PhaseIdle
	c.log.Debug().Str("session", st.ID).Uint64("epoch", st.RecordingEpoch).Msg("fresh recording")
	return st
}

// OnSubmit computes the metrics for text and returns the log entry to store.
// The quote field is cleared on every submit. Whitespace-only text yields no entry.
func (c *Controller) OnSubmit(text string, exponent int, st State) (Outcome, error) {
	st.QuoteText = ""

	quote := strings.TrimSpace(text)
	if quote == "" {
		return Outcome{State: st, Command: NotifyEmptyQuote}, nil
	}

	m, err := metrics.Compute(quote, exponent)
	if err != nil {
		return Outcome{State: st}, err
	}

	st.LastQuote = quote
	st.LastMetrics = m

	entry := quotelog.Entry{
		Timestamp: c.now().Truncate(time.Second),
		Quote:     quote,
		Metrics:   m,
	}
	c.log.Info().Str("session", st.ID).Int("words", m.WordCount).Str("power", m.PowerString()).Msg("quote submitted")

	return Outcome{State: st, Command: NotifySaved, Entry: &entry}, nil
}
