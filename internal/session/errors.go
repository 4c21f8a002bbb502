package session

import "fmt"

// TransportError is a connection-level failure. Fatal to the session.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// TranscriptionError is a per-utterance STT failure. The session stays in
// listening and the user can simply speak again.
type TranscriptionError struct {
	Cause error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription error: %v", e.Cause)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Cause
}

// GenerationError is a per-turn reply generation failure. Surfaced as an
// error state; the session recovers on the next client action.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation error: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// SynthesisError is a per-sentence TTS failure. The sentence is skipped;
// the turn continues with the next one.
type SynthesisError struct {
	Sentence string
	Cause    error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis error for %q: %v", e.Sentence, e.Cause)
}

func (e *SynthesisError) Unwrap() error {
	return e.Cause
}
