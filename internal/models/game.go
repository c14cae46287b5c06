package models

import (
	"maps"
	"slices"
	"time"
)

// Message is one participant's contribution to the conversation
type Message struct {
	Speaker  string `json:"speaker"`
	Content  string `json:"content"`
	Degraded bool   `json:"degraded,omitempty"` // recorded in place of a failed agent response
}

// Session represents one game between the human and the three agents
type Session struct {
	ID               string          `json:"session_id"`
	Keyword          string          `json:"keyword"`
	Category         string          `json:"category"`
	ImpostorID       string          `json:"impostor_id"`
	Roles            map[string]Role `json:"role_map"`   // agentID -> role
	TurnOrder        []string        `json:"turn_order"` // fixed at creation
	CurrentTurnIndex int             `json:"current_turn_index"`
	History          []Message       `json:"history"`
	Phase            Phase           `json:"phase"`

	Vote  *VoteResult  `json:"vote,omitempty"`
	Guess *GuessResult `json:"guess,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate it without touching stored state
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Roles = maps.Clone(s.Roles)
	c.TurnOrder = slices.Clone(s.TurnOrder)
	c.History = slices.Clone(s.History)
	if s.Vote != nil {
		c.Vote = s.Vote.Clone()
	}
	if s.Guess != nil {
		g := *s.Guess
		c.Guess = &g
	}
	return &c
}

// VoteOutcome describes what a vote means for the game
type VoteOutcome string

const (
	OutcomeImpostorCaught  VoteOutcome = "impostor_caught"  // the impostor gets a last guess
	OutcomeImpostorEscaped VoteOutcome = "impostor_escaped" // the impostor wins
)

// VoteResult is the outcome of the single voting round of a session
type VoteResult struct {
	HumanVote  string            `json:"human_vote"`
	Votes      map[string]string `json:"votes"`     // voterID -> suspectID, human included
	Fallbacks  []string          `json:"fallbacks"` // agents whose vote was substituted at random
	Tally      map[string]int    `json:"tally"`
	MostVoted  []string          `json:"most_voted"`
	ImpostorID string            `json:"impostor_id"`
	LiarCaught bool              `json:"liar_caught"`
	Outcome    VoteOutcome       `json:"outcome"`
}

// Clone returns a deep copy of the vote result
func (v *VoteResult) Clone() *VoteResult {
	c := *v
	c.Votes = maps.Clone(v.Votes)
	c.Fallbacks = slices.Clone(v.Fallbacks)
	c.Tally = maps.Clone(v.Tally)
	c.MostVoted = slices.Clone(v.MostVoted)
	return &c
}

// Winner names the side that won a game
type Winner string

const (
	WinnerImpostor  Winner = "impostor"
	WinnerCivilians Winner = "civilians"
)

// GuessResult is the outcome of the impostor's last-chance keyword guess
type GuessResult struct {
	Guess   string `json:"guess"`
	Keyword string `json:"keyword"`
	Correct bool   `json:"correct"`
	Winner  Winner `json:"winner"`
}

// TurnResult describes one completed turn
type TurnResult struct {
	Speaker       string `json:"speaker"`
	Content       string `json:"content"`
	NextSpeaker   string `json:"next_speaker"`
	TurnIndex     int    `json:"turn_index"` // index after advancing
	Round         int    `json:"round"`      // 1-based round the next turn belongs to
	RoundComplete bool   `json:"round_complete"`
	Degraded      bool   `json:"degraded,omitempty"`
	Commentary    string `json:"commentary,omitempty"`
}
