package tts

import (
	"strings"
	"unicode"
)

// SplitSentences splits tutor reply text into sentence-sized units for
// incremental synthesis. A sentence ends at terminal punctuation (., !, ?)
// followed by whitespace; runs of whitespace collapse to single spaces and
// each sentence is trimmed. Trailing text with no terminal punctuation is
// emitted as its own sentence. Empty or whitespace-only input yields nil.
//
// Splitting lets synthesis of the first sentence start before later
// sentences are spoken, cutting time to first audio.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	lastRune := rune(0)

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		current.Reset()
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
	}

	for _, r := range text {
		if unicode.IsSpace(r) {
			if isTerminal(lastRune) {
				flush()
				lastRune = r
				continue
			}
			// Collapse whitespace runs inside a sentence
			if !unicode.IsSpace(lastRune) && current.Len() > 0 {
				current.WriteRune(' ')
			}
			lastRune = r
			continue
		}

		current.WriteRune(r)
		lastRune = r
	}
	flush()

	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
