package conversation

import "errors"

var (
	// ErrInvalidInput is returned for blank utterances. It is never masked by
	// the static fallback.
	ErrInvalidInput = errors.New("conversation: utterance is required")
	// ErrModelUnavailable wraps every transport or service failure of the model.
	ErrModelUnavailable = errors.New("conversation: model unavailable")
)
