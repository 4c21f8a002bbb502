package llm

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt composes the system message for one tutor turn from the
// persona profile, the course, and any retrieved course context.
func BuildSystemPrompt(req Request) string {
	var b strings.Builder

	b.WriteString(req.Persona.SystemPrompt)

	if req.Course != "" {
		fmt.Fprintf(&b, "\n\nThe student is studying the course %s.", req.Course)
	}

	if len(req.Context) > 0 {
		b.WriteString("\n\nUse the following course material when it is relevant. " +
			"If it does not cover the question, say so rather than inventing facts.\n")
		for i, snippet := range req.Context {
			fmt.Fprintf(&b, "\n[%d] %s", i+1, strings.TrimSpace(snippet.Text))
			if snippet.Source != "" {
				fmt.Fprintf(&b, " (source: %s)", snippet.Source)
			}
		}
	}

	b.WriteString("\n\nYour reply will be converted to speech. Keep it under a few sentences, " +
		"avoid markdown, lists, and formatting, and spell out symbols in words.")

	return b.String()
}
