package session

// State is the observable phase of a tutoring session.
type State string

const (
	StateIdle        State = "idle"        // connected, waiting for start_session
	StateListening   State = "listening"   // capturing user audio or text
	StateProcessing  State = "processing"  // generating the tutor reply
	StateSpeaking    State = "speaking"    // streaming synthesized audio
	StateInterrupted State = "interrupted" // turn cancelled, transient
	StateError       State = "error"       // recoverable fault, cleared by next client action
)
