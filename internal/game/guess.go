package game

import (
	"strings"

	"github.com/mvg01/liargame/internal/models"
)

// CheckGuess compares a guess with the keyword, ignoring case and surrounding whitespace
func CheckGuess(guess, keyword string) bool {
	return strings.EqualFold(strings.TrimSpace(guess), strings.TrimSpace(keyword))
}

// ResolveGuess judges the impostor's guess and ends the session
func ResolveGuess(s *models.Session, guess string) (*models.GuessResult, error) {
	if err := RequirePhase(s, "resolve guess", models.PhaseImpostorRebuttal); err != nil {
		return nil, err
	}

	result := &models.GuessResult{
		Guess:   guess,
		Keyword: s.Keyword,
		Correct: CheckGuess(guess, s.Keyword),
		Winner:  models.WinnerCivilians,
	}
	if result.Correct {
		result.Winner = models.WinnerImpostor
	}

	s.Guess = result
	s.Phase = models.PhaseEnded
	return result, nil
}
