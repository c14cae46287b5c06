package game

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvg01/liargame/internal/models"
)

func TestNewSession(t *testing.T) {
	src := rand.New(rand.NewPCG(11, 12))
	for range 50 {
		s, err := NewSession("abc", models.Topic{Category: "fruit", Keyword: "kiwi"}, src, time.Now())
		require.NoError(t, err)
		assert.Equal(t, models.PhaseInProgress, s.Phase)
		assert.Equal(t, 0, s.CurrentTurnIndex)
		assert.Empty(t, s.History)
		assert.NoError(t, Validate(s))
	}
}

func TestTally(t *testing.T) {
	votes := map[string]string{
		models.HumanID: models.Agent1,
		models.Agent1:  models.Agent2,
		models.Agent2:  models.Agent3,
		models.Agent3:  models.Agent1,
	}
	tally := Tally(votes)
	assert.Equal(t, map[string]int{models.Agent1: 2, models.Agent2: 1, models.Agent3: 1}, tally)
	assert.Equal(t, []string{models.Agent1}, MostVoted(tally))
}

func TestMostVotedFourWayTie(t *testing.T) {
	votes := map[string]string{
		models.HumanID: models.Agent1,
		models.Agent1:  models.Agent2,
		models.Agent2:  models.Agent3,
		models.Agent3:  models.HumanID,
	}
	assert.ElementsMatch(t, models.ParticipantIDs(), MostVoted(Tally(votes)))
}

func TestApplyVotes(t *testing.T) {
	newVoting := func(t *testing.T, impostor string) *models.Session {
		s := newTestSession(t, nil)
		for id := range s.Roles {
			s.Roles[id] = models.RoleCivilian
		}
		s.Roles[impostor] = models.RoleImpostor
		s.ImpostorID = impostor
		s.Phase = models.PhaseVoting
		return s
	}

	t.Run("impostor caught", func(t *testing.T) {
		s := newVoting(t, models.Agent1)
		result, err := ApplyVotes(s, models.Agent1, map[string]string{
			models.Agent1: models.Agent2,
			models.Agent2: models.Agent3,
			models.Agent3: models.Agent1,
		}, nil)
		require.NoError(t, err)
		assert.True(t, result.LiarCaught)
		assert.Equal(t, models.OutcomeImpostorCaught, result.Outcome)
		assert.Equal(t, models.PhaseImpostorRebuttal, s.Phase)
		assert.Same(t, result, s.Vote)
		assert.Len(t, result.Votes, 4)
	})

	t.Run("tie including the impostor counts as caught", func(t *testing.T) {
		s := newVoting(t, models.Agent3)
		result, err := ApplyVotes(s, models.Agent1, map[string]string{
			models.Agent1: models.Agent2,
			models.Agent2: models.Agent3,
			models.Agent3: models.HumanID,
		}, nil)
		require.NoError(t, err)
		assert.Len(t, result.MostVoted, 4)
		assert.True(t, result.LiarCaught)
		assert.Equal(t, models.PhaseImpostorRebuttal, s.Phase)
	})

	t.Run("impostor escapes", func(t *testing.T) {
		s := newVoting(t, models.Agent2)
		result, err := ApplyVotes(s, models.Agent1, map[string]string{
			models.Agent1: models.HumanID,
			models.Agent2: models.Agent1,
			models.Agent3: models.Agent1,
		}, []string{models.Agent3})
		require.NoError(t, err)
		assert.False(t, result.LiarCaught)
		assert.Equal(t, models.OutcomeImpostorEscaped, result.Outcome)
		assert.Equal(t, []string{models.Agent3}, result.Fallbacks)
		assert.Equal(t, models.PhaseEnded, s.Phase)
	})

	t.Run("requires voting phase", func(t *testing.T) {
		s := newVoting(t, models.Agent2)
		s.Phase = models.PhaseInProgress
		_, err := ApplyVotes(s, models.Agent1, nil, nil)
		assert.ErrorIs(t, err, ErrWrongPhase)
	})
}

func TestValidate(t *testing.T) {
	t.Run("two impostors", func(t *testing.T) {
		s := newTestSession(t, nil)
		for id := range s.Roles {
			s.Roles[id] = models.RoleImpostor
		}
		assert.Error(t, Validate(s))
	})

	t.Run("turn order not a permutation", func(t *testing.T) {
		s := newTestSession(t, []string{models.HumanID, models.HumanID, models.Agent1, models.Agent2})
		assert.Error(t, Validate(s))
	})

	t.Run("unknown speaker", func(t *testing.T) {
		s := newTestSession(t, nil)
		s.History = append(s.History, models.Message{Speaker: "narrator", Content: "hi"})
		assert.Error(t, Validate(s))
	})
}
