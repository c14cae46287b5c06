package sse

import "time"

// SSE event type constants
const (
	EventStatus    = "status" // snapshot sent when a client connects
	EventTurn      = "turn"
	EventVote      = "vote"
	EventGuess     = "guess"
	EventNarration = "narration"
)

const (
	// BufferSize is the per-client channel capacity
	BufferSize = 16

	// SendTimeout bounds how long a publish waits on one slow client
	SendTimeout = 2 * time.Second
)

// Message is one server-sent event
type Message struct {
	Event string
	Data  string // JSON payload
}
