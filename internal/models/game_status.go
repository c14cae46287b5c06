package models

// Phase represents the current state of a game session
type Phase string

const (
	PhaseSetup            Phase = "setup"
	PhaseInProgress       Phase = "in_progress"
	PhaseVoting           Phase = "voting"
	PhaseImpostorRebuttal Phase = "impostor_rebuttal"
	PhaseEnded            Phase = "ended"
)
