package tts

// Voice describes one entry in the static voice catalog exposed to clients.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ProviderID  string `json:"-"` // Cartesia voice id, not exposed
}

// DefaultVoiceID is used when a session does not select a voice.
const DefaultVoiceID = "warm-mentor"

// Voices returns the static voice catalog.
func Voices() []Voice {
	return []Voice{
		{
			ID:          "warm-mentor",
			Name:        "Warm Mentor",
			Description: "Friendly, unhurried delivery suited to walkthroughs",
			ProviderID:  "sonic-english",
		},
		{
			ID:          "crisp-lecturer",
			Name:        "Crisp Lecturer",
			Description: "Brisk and articulate, suited to dense material",
			ProviderID:  "sonic-english-2",
		},
		{
			ID:          "calm-narrator",
			Name:        "Calm Narrator",
			Description: "Low-energy voice for long study sessions",
			ProviderID:  "sonic-english-calm",
		},
	}
}

// FindVoice resolves a catalog voice id to its provider voice id.
// Unknown ids fall back to the default voice.
func FindVoice(id string) Voice {
	catalog := Voices()
	for _, v := range catalog {
		if v.ID == id {
			return v
		}
	}
	return catalog[0]
}
