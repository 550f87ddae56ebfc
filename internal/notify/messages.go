package notify

type MessageType int

const (
	MsgTranscribing MessageType = iota
	MsgTranscriptionComplete
	MsgNoSpeech
	MsgTranscriptionFailed
	MsgEmptyQuote
	MsgQuoteSaved
	MsgSaveFailed
	MsgConfigReloaded
)

type Message struct {
	Title   string
	Body    string
	IsError bool
}

// MessageDef ties a message to its config key and default text.
type MessageDef struct {
	Type         MessageType
	ConfigKey    string
	DefaultTitle string
	DefaultBody  string
	IsError      bool
}

var MessageDefs = []MessageDef{
	{MsgTranscribing, "transcribing", appName, "Transcribing recording...", false},
	{MsgTranscriptionComplete, "transcription_complete", appName, "Transcript ready, check the quote field", false},
	{MsgNoSpeech, "no_speech", appName, "No speech detected in the recording", false},
	{MsgTranscriptionFailed, "transcription_failed", appName, "Transcription failed, record again", true},
	{MsgEmptyQuote, "empty_quote", appName, "The quote is empty: nothing to save", false},
	{MsgQuoteSaved, "quote_saved", appName, "Quote saved to the log", false},
	{MsgSaveFailed, "save_failed", appName, "Could not save the quote log", true},
	{MsgConfigReloaded, "config_reloaded", appName, "Config reloaded", false},
}

// Defaults returns the built-in text for every message type.
func Defaults() map[MessageType]Message {
	out := make(map[MessageType]Message, len(MessageDefs))
	for _, def := range MessageDefs {
		out[def.Type] = Message{Title: def.DefaultTitle, Body: def.DefaultBody, IsError: def.IsError}
	}
	return out
}
