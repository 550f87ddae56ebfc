// Package session holds the per-user recording session: its state, the
// controller that advances it and the runner that glues it to a UI.
package session

import (
	"github.com/google/uuid"

	"github.com/leonardotrapani/quotevoice/internal/metrics"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTranscribing
	PhaseRetrying
	PhasePendingApply
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTranscribing:
		return "transcribing"
	case PhaseRetrying:
		return "retrying"
	case PhasePendingApply:
		return "pending_apply"
	default:
		return "unknown"
	}
}

// State is everything one session remembers between render passes.
// It is a value: every controller operation takes one and returns the next.
type State struct {
	ID string

	// AudioPayload is what the recording widget currently holds.
	// It is dropped whenever RecordingEpoch moves.
	AudioPayload []byte

	// LastAudioFingerprint identifies the last payload that was transcribed.
	LastAudioFingerprint string

	PendingTranscript string
	QuoteText         string
	RecordingEpoch    uint64
	Phase             Phase

	LastQuote   string
	LastMetrics metrics.Metrics
}

func New() State {
	return State{
		ID:          uuid.NewString(),
		LastMetrics: metrics.Zero(),
	}
}

// HasPending reports whether a transcript is waiting to be applied.
func (s State) HasPending() bool {
	return s.PendingTranscript != ""
}

// HasSubmission reports whether a quote was ever submitted in this session.
func (s State) HasSubmission() bool {
	return s.LastQuote != ""
}

// bumpEpoch resets the recording widget.
func (s State) bumpEpoch() State {
	s.RecordingEpoch++
	s.AudioPayload = nil
	return s
}
