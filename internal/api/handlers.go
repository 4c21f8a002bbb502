package api

import (
	"encoding/json"
	"net/http"

	"github.com/brightpath/voice-tutor/internal/persona"
	"github.com/brightpath/voice-tutor/internal/tts"
)

// PersonasHandler serves the tutor persona catalog.
func PersonasHandler(store *persona.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"personas": store.All(),
			"default":  persona.DefaultID,
		})
	}
}

// VoicesHandler serves the voice catalog.
func VoicesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"voices":  tts.Voices(),
			"default": tts.DefaultVoiceID,
		})
	}
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}
