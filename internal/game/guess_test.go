package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvg01/liargame/internal/models"
)

func TestCheckGuess(t *testing.T) {
	assert.True(t, CheckGuess("kiwi", "kiwi"))
	assert.True(t, CheckGuess("  KIWI\n", "kiwi"))
	assert.True(t, CheckGuess("Kiwi", " kiwi "))
	assert.False(t, CheckGuess("kiwis", "kiwi"))
	assert.False(t, CheckGuess("", "kiwi"))
	assert.False(t, CheckGuess("ki wi", "kiwi"))
}

func TestResolveGuess(t *testing.T) {
	t.Run("correct guess hands the win to the impostor", func(t *testing.T) {
		s := newTestSession(t, nil)
		s.Phase = models.PhaseImpostorRebuttal

		result, err := ResolveGuess(s, " Kiwi ")
		require.NoError(t, err)
		assert.True(t, result.Correct)
		assert.Equal(t, models.WinnerImpostor, result.Winner)
		assert.Equal(t, "kiwi", result.Keyword)
		assert.Equal(t, models.PhaseEnded, s.Phase)
	})

	t.Run("wrong guess still ends the game", func(t *testing.T) {
		s := newTestSession(t, nil)
		s.Phase = models.PhaseImpostorRebuttal

		result, err := ResolveGuess(s, "banana")
		require.NoError(t, err)
		assert.False(t, result.Correct)
		assert.Equal(t, models.WinnerCivilians, result.Winner)
		assert.Equal(t, models.PhaseEnded, s.Phase)

		_, err = ResolveGuess(s, "kiwi")
		assert.ErrorIs(t, err, ErrWrongPhase)
		assert.ErrorIs(t, err, ErrSessionEnded)
	})

	t.Run("rejected outside rebuttal", func(t *testing.T) {
		for _, phase := range []models.Phase{models.PhaseInProgress, models.PhaseVoting, models.PhaseEnded} {
			s := newTestSession(t, nil)
			s.Phase = phase
			_, err := ResolveGuess(s, "kiwi")
			assert.ErrorIs(t, err, ErrWrongPhase, "phase %s", phase)
			assert.Nil(t, s.Guess)
		}
	})
}
