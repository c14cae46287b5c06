package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvg01/liargame/internal/models"
)

func TestTranscript(t *testing.T) {
	assert.Equal(t, "(no messages yet)\n", Transcript(nil))

	got := Transcript([]models.Message{
		{Speaker: "user", Content: "it is fuzzy"},
		{Speaker: "ai_2", Content: "green inside"},
	})
	assert.Equal(t, "1. [user] it is fuzzy\n2. [ai_2] green inside\n", got)
}

func TestTallyOrdering(t *testing.T) {
	got := Tally(map[string]int{"ai_3": 1, "ai_1": 2, "user": 1})
	assert.Equal(t, "  ai_1: 2\n  ai_3: 1\n  user: 1\n", got)
}

func TestVoteSummary(t *testing.T) {
	v := &models.VoteResult{
		Votes:      map[string]string{"user": "ai_1", "ai_1": "ai_2", "ai_2": "ai_1", "ai_3": "ai_1"},
		Fallbacks:  []string{"ai_1"},
		Tally:      map[string]int{"ai_1": 3, "ai_2": 1},
		MostVoted:  []string{"ai_1"},
		ImpostorID: "ai_1",
		LiarCaught: true,
	}
	got := VoteSummary(v)
	assert.Contains(t, got, "ai_1 -> ai_2 (random)")
	assert.Contains(t, got, "user -> ai_1\n")
	assert.Contains(t, got, "Most voted: ai_1")
	assert.Contains(t, got, "was caught")

	v.LiarCaught = false
	assert.Contains(t, VoteSummary(v), "escaped")
}

func TestGuessSummary(t *testing.T) {
	assert.Contains(t, GuessSummary(&models.GuessResult{Guess: "kiwi", Keyword: "kiwi", Correct: true}), "impostor wins")
	got := GuessSummary(&models.GuessResult{Keyword: "kiwi"})
	assert.Contains(t, got, "Guess: (none)")
	assert.Contains(t, got, "civilians win")
}

func TestPromptAndBriefing(t *testing.T) {
	st := &models.Status{
		Category:         "fruit",
		Keyword:          "kiwi",
		TurnOrder:        []string{"ai_2", "user", "ai_1", "ai_3"},
		CurrentTurnIndex: 5,
		CurrentSpeaker:   "user",
		Round:            2,
	}
	assert.Equal(t, "round 2, turn 6: user", Prompt(st))
	assert.Contains(t, Briefing(st), "ai_2 -> user -> ai_1 -> ai_3")
	assert.Contains(t, Briefing(st), "Keyword:  kiwi")
}
