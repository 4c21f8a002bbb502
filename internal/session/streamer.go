package session

import (
	"context"
	"fmt"

	"github.com/brightpath/voice-tutor/internal/audio"
	"github.com/brightpath/voice-tutor/internal/tts"
)

// streamSpeech synthesizes one assistant reply sentence by sentence and
// emits ordered chunk events for each, so the client hears the first
// sentence before later ones are synthesized. Cancellation is observed
// between sentences and between chunks; a cancelled turn never produces
// an audio_complete event.
func (s *Session) streamSpeech(ctx context.Context, seq int, reply string, voice tts.Voice) {
	sentences := tts.SplitSentences(reply)
	if len(sentences) == 0 {
		s.sendEvent(ctx, turnEvent{seq: seq, kind: evAudioComplete})
		return
	}

	failures := 0
	for _, sentence := range sentences {
		if ctx.Err() != nil {
			return
		}

		s.metrics.RecordTTSStart()
		data, err := s.synthesizer.Synthesize(ctx, sentence, voice.ProviderID)
		if err != nil {
			s.metrics.RecordTTSEnd(false)
			if ctx.Err() != nil {
				return
			}
			// One bad sentence must not abort the whole reply.
			failures++
			s.logger.Warn().
				Err(&SynthesisError{Sentence: sentence, Cause: err}).
				Msg("Skipping sentence")
			continue
		}
		s.metrics.RecordTTSEnd(true)

		chunks := audio.Chunk(data, s.config.AudioChunkSize)
		for i, chunk := range chunks {
			if ctx.Err() != nil {
				return
			}
			s.sendEvent(ctx, turnEvent{
				seq:         seq,
				kind:        evAudioChunk,
				audio:       chunk,
				chunkIndex:  i,
				totalChunks: len(chunks),
			})
		}
	}

	if failures == len(sentences) {
		s.sendEvent(ctx, turnEvent{
			seq:  seq,
			kind: evTurnError,
			err:  &SynthesisError{Cause: fmt.Errorf("all %d sentences failed", len(sentences))},
		})
		return
	}

	s.sendEvent(ctx, turnEvent{seq: seq, kind: evAudioComplete})
}
