package game

import (
	"fmt"

	"github.com/mvg01/liargame/internal/models"
)

// AssignRoles picks the impostor uniformly among agentIDs and maps every
// other agent to civilian. The human can never be the impostor.
func AssignRoles(src Source, agentIDs []string) (string, map[string]models.Role, error) {
	if len(agentIDs) != ParticipantCount-1 {
		return "", nil, fmt.Errorf("assign roles: need %d agents, got %d", ParticipantCount-1, len(agentIDs))
	}
	seen := make(map[string]bool, len(agentIDs))
	for _, id := range agentIDs {
		if !models.IsAgent(id) {
			return "", nil, fmt.Errorf("assign roles: %q is not an agent", id)
		}
		if seen[id] {
			return "", nil, fmt.Errorf("assign roles: duplicate agent %q", id)
		}
		seen[id] = true
	}

	impostor := Pick(src, agentIDs)
	roles := make(map[string]models.Role, len(agentIDs))
	for _, id := range agentIDs {
		if id == impostor {
			roles[id] = models.RoleImpostor
		} else {
			roles[id] = models.RoleCivilian
		}
	}
	return impostor, roles, nil
}
