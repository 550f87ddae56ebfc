package session

import "github.com/leonardotrapani/quotevoice/internal/notify"

// Command tells the render layer what to do after an operation.
type Command int

const (
	NoOp Command = iota
	// Rerun asks for one more render pass so the pending transcript lands
	// in the quote field before it is built.
	Rerun
	NotifyNoSpeechDetected
	NotifyTranscriptionFailed
	NotifyEmptyQuote
	NotifySaved
)

func (c Command) String() string {
	switch c {
	case NoOp:
		return "noop"
	case Rerun:
		return "rerun"
	case NotifyNoSpeechDetected:
		return "notify_no_speech"
	case NotifyTranscriptionFailed:
		return "notify_transcription_failed"
	case NotifyEmptyQuote:
		return "notify_empty_quote"
	case NotifySaved:
		return "notify_saved"
	default:
		return "unknown"
	}
}

// Message maps a command to the notification it should raise, if any.
func (c Command) Message() (notify.MessageType, bool) {
	switch c {
	case Rerun:
		return notify.MsgTranscriptionComplete, true
	case NotifyNoSpeechDetected:
		return notify.MsgNoSpeech, true
	case NotifyTranscriptionFailed:
		return notify.MsgTranscriptionFailed, true
	case NotifyEmptyQuote:
		return notify.MsgEmptyQuote, true
	case NotifySaved:
		return notify.MsgQuoteSaved, true
	default:
		return 0, false
	}
}
