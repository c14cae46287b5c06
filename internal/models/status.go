package models

// Status is a read-only snapshot of a session for callers and transports
type Status struct {
	SessionID        string          `json:"session_id"`
	Keyword          string          `json:"keyword"`
	Category         string          `json:"category"`
	ImpostorID       string          `json:"impostor_id"`
	Roles            map[string]Role `json:"role_map"`
	History          []Message       `json:"history"`
	MessageCount     int             `json:"message_count"`
	TurnOrder        []string        `json:"turn_order"`
	CurrentTurnIndex int             `json:"current_turn_index"`
	CurrentSpeaker   string          `json:"current_speaker"`
	Round            int             `json:"round"`
	Phase            Phase           `json:"phase"`
	Vote             *VoteResult     `json:"vote,omitempty"`
	Guess            *GuessResult    `json:"guess,omitempty"`
}
