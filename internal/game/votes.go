package game

import (
	"strings"

	"github.com/mvg01/liargame/internal/models"
)

// ParseVote extracts a vote target from a free-text collaborator response.
// Participants are checked in canonical order (user, ai_1, ai_2, ai_3) and the
// first one mentioned anywhere in the text (case-insensitive) that is not the
// voter wins, regardless of where in the text it appears.
func ParseVote(raw, voter string) (string, bool) {
	text := strings.ToLower(raw)
	for _, id := range models.ParticipantIDs() {
		if id != voter && strings.Contains(text, id) {
			return id, true
		}
	}
	return "", false
}

// FallbackVote picks a uniformly random target other than the voter
func FallbackVote(src Source, voter string) string {
	candidates := make([]string, 0, ParticipantCount-1)
	for _, id := range models.ParticipantIDs() {
		if id != voter {
			candidates = append(candidates, id)
		}
	}
	return Pick(src, candidates)
}

// ResolveAgentVote runs the two-stage pipeline: parse first, random fallback second.
// The boolean reports whether the fallback was used.
func ResolveAgentVote(src Source, raw, voter string) (string, bool) {
	if target, ok := ParseVote(raw, voter); ok {
		return target, false
	}
	return FallbackVote(src, voter), true
}
