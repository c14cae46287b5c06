package game

import "time"

const (
	// ParticipantCount is the number of players in every session: the human and three agents
	ParticipantCount = 4

	// DefaultHistoryWindow is how many trailing messages an agent sees when speaking
	DefaultHistoryWindow = 20

	// DefaultCallTimeout bounds a single collaborator request
	DefaultCallTimeout = 20 * time.Second

	// DefaultCategory is used when a keyword is supplied without a category and none can be looked up
	DefaultCategory = "general"

	// DegradedReply is recorded in place of an agent message when the collaborator fails
	DegradedReply = "[no response] the agent could not answer this turn"
)
