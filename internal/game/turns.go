package game

import (
	"fmt"
	"strings"

	"github.com/mvg01/liargame/internal/models"
)

// ComputeTurnOrder returns a uniformly random speaking order over all participants
func ComputeTurnOrder(src Source, participantIDs []string) []string {
	return Shuffle(src, participantIDs)
}

// CurrentSpeaker returns the participant whose turn it is
func CurrentSpeaker(s *models.Session) string {
	return s.TurnOrder[s.CurrentTurnIndex%len(s.TurnOrder)]
}

// Advance moves the session to the next turn. It is the only place the turn counter changes.
func Advance(s *models.Session) {
	s.CurrentTurnIndex++
}

// RoundComplete reports whether the turn just taken closed a round
func RoundComplete(s *models.Session) bool {
	return s.CurrentTurnIndex != 0 && s.CurrentTurnIndex%len(s.TurnOrder) == 0
}

// Round returns the 1-based round the current turn belongs to
func Round(s *models.Session) int {
	return s.CurrentTurnIndex/len(s.TurnOrder) + 1
}

// CheckTurn validates that the supplied human message matches the current
// speaker and returns that speaker. A blank message counts as no message.
func CheckTurn(s *models.Session, humanMessage string) (string, error) {
	if err := RequirePhase(s, "take turn", models.PhaseInProgress); err != nil {
		return "", err
	}
	speaker := CurrentSpeaker(s)
	hasMessage := strings.TrimSpace(humanMessage) != ""
	switch {
	case speaker == models.HumanID && !hasMessage:
		return "", fmt.Errorf("%w: it is the human's turn but no message was given", ErrInvalidTurn)
	case speaker != models.HumanID && hasMessage:
		return "", fmt.Errorf("%w: it is %s's turn, not the human's", ErrInvalidTurn, speaker)
	}
	return speaker, nil
}

// RecordTurn appends the speaker's message and advances the turn
func RecordTurn(s *models.Session, msg models.Message) {
	s.History = append(s.History, msg)
	Advance(s)
}

// Window returns the trailing n messages of the history (all of it when n <= 0)
func Window(history []models.Message, n int) []models.Message {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
