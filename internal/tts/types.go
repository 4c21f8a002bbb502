package tts

import "context"

// Synthesizer converts one sentence of tutor text into raw PCM16 audio.
// Implementations must honor context cancellation so an interrupted turn
// stops requesting synthesis promptly.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)

	// Close releases client resources.
	Close() error
}
