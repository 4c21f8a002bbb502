package tts

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "three sentences",
			input: "Hello world. How are you? I am fine.",
			want:  []string{"Hello world.", "How are you?", "I am fine."},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  nil,
		},
		{
			name:  "interior spaces collapse",
			input: "Hello.   World.",
			want:  []string{"Hello.", "World."},
		},
		{
			name:  "trailing sentence without punctuation",
			input: "First one. And then we kept going",
			want:  []string{"First one.", "And then we kept going"},
		},
		{
			name:  "single unterminated sentence",
			input: "just a fragment",
			want:  []string{"just a fragment"},
		},
		{
			name:  "exclamation and question marks",
			input: "Great work! Want another problem? Sure.",
			want:  []string{"Great work!", "Want another problem?", "Sure."},
		},
		{
			name:  "newlines collapse like spaces",
			input: "The limit\nexists. The derivative\ndoes not.",
			want:  []string{"The limit exists.", "The derivative does not."},
		},
		{
			name:  "decimal points do not split",
			input: "The answer is 3.14 rounded. Try again.",
			want:  []string{"The answer is 3.14 rounded.", "Try again."},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SplitSentences(c.input)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("SplitSentences(%q) = %#v, want %#v", c.input, got, c.want)
			}
		})
	}
}

func TestSplitSentences_Pure(t *testing.T) {
	input := "One. Two. Three."

	first := SplitSentences(input)
	second := SplitSentences(input)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical results across calls")
	}
	if len(first) != 3 {
		t.Errorf("Expected 3 sentences, got %d", len(first))
	}
}

func TestFindVoice(t *testing.T) {
	v := FindVoice("crisp-lecturer")
	if v.ID != "crisp-lecturer" {
		t.Errorf("Expected 'crisp-lecturer', got '%s'", v.ID)
	}
	if v.ProviderID == "" {
		t.Error("Expected a provider id")
	}

	fallback := FindVoice("no-such-voice")
	if fallback.ID != DefaultVoiceID {
		t.Errorf("Expected fallback to default voice, got '%s'", fallback.ID)
	}
}
