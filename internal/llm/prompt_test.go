package llm

import (
	"strings"
	"testing"

	"github.com/brightpath/voice-tutor/internal/persona"
	"github.com/brightpath/voice-tutor/internal/retrieval"
)

func TestBuildSystemPrompt_PersonaOnly(t *testing.T) {
	prompt := BuildSystemPrompt(Request{
		Persona: persona.Persona{SystemPrompt: "You are a patient tutor."},
	})

	if !strings.HasPrefix(prompt, "You are a patient tutor.") {
		t.Errorf("Expected prompt to start with persona instructions, got: %s", prompt)
	}
	if strings.Contains(prompt, "course material") {
		t.Error("Expected no context section without snippets")
	}
	if !strings.Contains(prompt, "converted to speech") {
		t.Error("Expected speech guidance in every prompt")
	}
}

func TestBuildSystemPrompt_IncludesCourse(t *testing.T) {
	prompt := BuildSystemPrompt(Request{
		Persona: persona.Persona{SystemPrompt: "You are a tutor."},
		Course:  "PHYS-210",
	})

	if !strings.Contains(prompt, "PHYS-210") {
		t.Errorf("Expected course code in prompt, got: %s", prompt)
	}
}

func TestBuildSystemPrompt_IncludesSnippets(t *testing.T) {
	prompt := BuildSystemPrompt(Request{
		Persona: persona.Persona{SystemPrompt: "You are a tutor."},
		Course:  "MATH-101",
		Context: []retrieval.Snippet{
			{Text: "The chain rule states that...", Score: 0.9, Source: "lecture-4"},
			{Text: "For composite functions...", Score: 0.8},
		},
	})

	if !strings.Contains(prompt, "[1] The chain rule states that...") {
		t.Errorf("Expected first numbered snippet, got: %s", prompt)
	}
	if !strings.Contains(prompt, "(source: lecture-4)") {
		t.Errorf("Expected snippet source attribution, got: %s", prompt)
	}
	if !strings.Contains(prompt, "[2] For composite functions...") {
		t.Errorf("Expected second numbered snippet, got: %s", prompt)
	}
	if strings.Contains(prompt, "[2] For composite functions... (source:") {
		t.Error("Expected no source attribution for snippet without a source")
	}
}
