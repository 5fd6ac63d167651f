package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrInvalidRequest means a required field is missing.
var ErrInvalidRequest = errors.New("invalid request")

// ErrInvalidTranscription means the transcription payload could not be read.
var ErrInvalidTranscription = errors.New("invalid transcription")

// ErrAudioTooLarge means the audio exceeds what the recognizer accepts.
var ErrAudioTooLarge = errors.New("audio too large")

// ProviderError wraps a failure returned by an external AI provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the provider call ran out of time; such calls
// may be retried by the client.
func (e *ProviderError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	return status.Code(e.Err) == codes.DeadlineExceeded
}

func newProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}
