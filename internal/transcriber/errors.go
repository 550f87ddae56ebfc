package transcriber

import "errors"

// Error records which engine failed a transcription.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return "transcription failed"
	}
	return e.Provider + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Provider: provider, Err: err}
}

// IsTranscriptionError reports whether err came out of an adapter.
func IsTranscriptionError(err error) bool {
	var terr *Error
	return errors.As(err, &terr)
}
