package session

// Inbound message types.
const (
	TypeStartSession = "start_session"
	TypeAudio        = "audio"
	TypeText         = "text"
	TypeInterrupt    = "interrupt"
	TypeClearHistory = "clear_history"
	TypeEndUtterance = "end_utterance"
)

// Outbound message types.
const (
	TypeStateChange       = "state_change"
	TypeTranscriptPartial = "transcript_partial"
	TypeTranscript        = "transcript"
	TypeAudioChunk        = "audio_chunk"
	TypeAudioComplete     = "audio_complete"
)

// ClientMessage is one inbound WebSocket frame. The Type discriminator
// decides which other fields are meaningful; everything else is ignored.
type ClientMessage struct {
	Type       string `json:"type"`
	CourseCode string `json:"courseCode,omitempty"`
	PersonaID  string `json:"personaId,omitempty"`
	VoiceID    string `json:"voiceId,omitempty"`
	Audio      string `json:"audio,omitempty"` // base64 PCM16
	Text       string `json:"text,omitempty"`
}

// ServerMessage is one outbound WebSocket frame.
type ServerMessage struct {
	Type        string `json:"type"`
	State       State  `json:"state,omitempty"`
	Text        string `json:"text,omitempty"`
	IsUser      *bool  `json:"isUser,omitempty"`
	Audio       string `json:"audio,omitempty"` // base64 PCM16
	ChunkIndex  *int   `json:"chunkIndex,omitempty"`
	TotalChunks int    `json:"totalChunks,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func newStateChange(state State, reason string) ServerMessage {
	return ServerMessage{Type: TypeStateChange, State: state, Reason: reason}
}

func newTranscriptPartial(text string) ServerMessage {
	return ServerMessage{Type: TypeTranscriptPartial, Text: text}
}

func newTranscript(text string, isUser bool) ServerMessage {
	return ServerMessage{Type: TypeTranscript, Text: text, IsUser: &isUser}
}

func newAudioChunk(encoded string, index, total int) ServerMessage {
	return ServerMessage{Type: TypeAudioChunk, Audio: encoded, ChunkIndex: &index, TotalChunks: total}
}

func newAudioComplete() ServerMessage {
	return ServerMessage{Type: TypeAudioComplete}
}
