package llm

import (
	"context"

	"github.com/brightpath/voice-tutor/internal/persona"
	"github.com/brightpath/voice-tutor/internal/retrieval"
)

// Message is one conversation history entry sent to the model.
type Message struct {
	Role    string // "user" | "assistant" | "system"
	Content string
}

// Request carries everything the generator needs for one tutor turn.
type Request struct {
	Persona  persona.Persona
	Course   string
	Context  []retrieval.Snippet
	History  []Message
	UserText string
}

// Generator produces one tutor reply for a user turn.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
