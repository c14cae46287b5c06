package models

// Participant identifiers. The human always plays as HumanID.
const (
	HumanID = "user"
	Agent1  = "ai_1"
	Agent2  = "ai_2"
	Agent3  = "ai_3"
)

// Role is the secret role of an agent
type Role string

const (
	RoleCivilian Role = "civilian"
	RoleImpostor Role = "impostor"
)

// AgentIDs returns the agent identifiers in their canonical order
func AgentIDs() []string {
	return []string{Agent1, Agent2, Agent3}
}

// ParticipantIDs returns every participant, human first
func ParticipantIDs() []string {
	return []string{HumanID, Agent1, Agent2, Agent3}
}

// IsAgent reports whether id names one of the agents
func IsAgent(id string) bool {
	switch id {
	case Agent1, Agent2, Agent3:
		return true
	}
	return false
}

// IsParticipant reports whether id names the human or one of the agents
func IsParticipant(id string) bool {
	return id == HumanID || IsAgent(id)
}
