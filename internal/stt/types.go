package stt

import "context"

// Result is one transcription result for the current utterance.
type Result struct {
	// Text is the transcribed text.
	Text string

	// Final indicates a final segment (true) or an interim hypothesis (false).
	Final bool

	// Confidence is the confidence score (0.0 to 1.0) if available.
	Confidence float64
}

// Transcriber is a streaming speech-to-text session. One Transcriber is
// created per voice session and fed decoded PCM16 audio; partial and final
// results come back on the Results channel.
type Transcriber interface {
	// Start opens the streaming transcription connection.
	Start(ctx context.Context) error

	// SendAudio sends a chunk of PCM16 audio to the service.
	SendAudio(pcm []byte) error

	// Results returns the channel delivering transcription results.
	Results() <-chan Result

	// Finalize tells the transcriber the current utterance is over
	// (explicit client signal or VAD-detected silence) so provider-side
	// interim state can be discarded.
	Finalize() error

	// Close tears down the streaming connection and releases resources.
	Close() error
}
