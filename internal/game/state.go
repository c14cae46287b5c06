package game

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/mvg01/liargame/internal/models"
)

// NewSession builds a session that is ready for its first turn
func NewSession(id string, topic models.Topic, src Source, now time.Time) (*models.Session, error) {
	impostor, roles, err := AssignRoles(src, models.AgentIDs())
	if err != nil {
		return nil, err
	}

	s := &models.Session{
		ID:         id,
		Keyword:    topic.Keyword,
		Category:   topic.Category,
		ImpostorID: impostor,
		Roles:      roles,
		TurnOrder:  ComputeTurnOrder(src, models.ParticipantIDs()),
		History:    []models.Message{},
		Phase:      models.PhaseSetup,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// setup is never observable
	s.Phase = models.PhaseInProgress
	return s, nil
}

// Tally counts votes per suspect
func Tally(votes map[string]string) map[string]int {
	voteCount := make(map[string]int)
	for _, votedFor := range votes {
		voteCount[votedFor]++
	}
	return voteCount
}

// MostVoted returns every suspect holding the highest count, sorted
func MostVoted(voteCount map[string]int) []string {
	maxVotes := 0
	var playersWithMaxVotes []string
	for pID, count := range voteCount {
		if count > maxVotes {
			maxVotes = count
			playersWithMaxVotes = []string{pID}
		} else if count == maxVotes {
			playersWithMaxVotes = append(playersWithMaxVotes, pID)
		}
	}
	sort.Strings(playersWithMaxVotes)
	return playersWithMaxVotes
}

// ApplyVotes tallies the human vote and the resolved agent votes, records the
// result and moves the session out of voting.
func ApplyVotes(s *models.Session, humanVote string, agentVotes map[string]string, fallbacks []string) (*models.VoteResult, error) {
	if err := RequirePhase(s, "resolve votes", models.PhaseVoting); err != nil {
		return nil, err
	}

	votes := make(map[string]string, ParticipantCount)
	votes[models.HumanID] = humanVote
	for voter, suspect := range agentVotes {
		votes[voter] = suspect
	}

	tally := Tally(votes)
	mostVoted := MostVoted(tally)
	fb := slices.Clone(fallbacks)
	sort.Strings(fb)

	result := &models.VoteResult{
		HumanVote:  humanVote,
		Votes:      votes,
		Fallbacks:  fb,
		Tally:      tally,
		MostVoted:  mostVoted,
		ImpostorID: s.ImpostorID,
		LiarCaught: slices.Contains(mostVoted, s.ImpostorID),
	}
	if result.LiarCaught {
		result.Outcome = models.OutcomeImpostorCaught
		s.Phase = models.PhaseImpostorRebuttal
	} else {
		result.Outcome = models.OutcomeImpostorEscaped
		s.Phase = models.PhaseEnded
	}
	s.Vote = result
	return result, nil
}

// Validate checks the structural invariants of a session
func Validate(s *models.Session) error {
	impostors := 0
	for id, role := range s.Roles {
		if !models.IsAgent(id) {
			return fmt.Errorf("role map: %q is not an agent", id)
		}
		if role == models.RoleImpostor {
			impostors++
			if id != s.ImpostorID {
				return fmt.Errorf("role map: impostor %q does not match impostor id %q", id, s.ImpostorID)
			}
		}
	}
	if impostors != 1 || len(s.Roles) != ParticipantCount-1 {
		return fmt.Errorf("role map: want exactly one impostor among %d agents", ParticipantCount-1)
	}

	if len(s.TurnOrder) != ParticipantCount {
		return fmt.Errorf("turn order: want %d participants, got %d", ParticipantCount, len(s.TurnOrder))
	}
	seen := make(map[string]bool, ParticipantCount)
	for _, id := range s.TurnOrder {
		if !models.IsParticipant(id) || seen[id] {
			return fmt.Errorf("turn order: %v is not a permutation of the participants", s.TurnOrder)
		}
		seen[id] = true
	}

	for i, m := range s.History {
		if !seen[m.Speaker] {
			return fmt.Errorf("history[%d]: unknown speaker %q", i, m.Speaker)
		}
	}
	if s.CurrentTurnIndex < 0 {
		return fmt.Errorf("turn index: negative value %d", s.CurrentTurnIndex)
	}
	return nil
}
