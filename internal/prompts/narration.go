package prompts

import (
	"fmt"
	"strings"

	"github.com/mvg01/liargame/internal/game"
	"github.com/mvg01/liargame/internal/llm"
	"github.com/mvg01/liargame/internal/models"
)

// Event is a moment the narrator comments on
type Event string

const (
	EventGameStart    Event = "game_start"
	EventTurnAnnounce Event = "turn_announce"
	EventRoundEnd     Event = "round_end"
)

// ParseEvent validates an event name
func ParseEvent(name string) (Event, bool) {
	switch e := Event(name); e {
	case EventGameStart, EventTurnAnnounce, EventRoundEnd:
		return e, true
	}
	return "", false
}

const narratorRole = `You are the host of a party game called "find the impostor". You never reveal the keyword or anyone's role.`

// Narration builds the host's commentary request for an event
func Narration(ev Event, s *models.Session) llm.Request {
	var task string
	switch ev {
	case EventGameStart:
		task = fmt.Sprintf(`The game has just started.
Category: %s
Players: user, ai_1, ai_2, ai_3
Speaking order: %s
Open the game in two or three lively sentences.`, s.Category, strings.Join(s.TurnOrder, " -> "))
	case EventTurnAnnounce:
		task = fmt.Sprintf("Call on %s to speak next and encourage them, in one short sentence.", game.CurrentSpeaker(s))
	case EventRoundEnd:
		task = fmt.Sprintf(`Round %d has just finished.
Sum up the conversation in a sentence and ask whether to play another round or go to the vote.`, completedRound(s))
	}

	var msgs []llm.Message
	if ev == EventRoundEnd {
		msgs = conversation(s.History)
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: task})

	return llm.Request{Purpose: llm.PurposeNarration, System: narratorRole, Messages: msgs}
}

// FallbackNarration is used when the host's commentary cannot be generated
func FallbackNarration(ev Event, s *models.Session) string {
	switch ev {
	case EventGameStart:
		return fmt.Sprintf("Welcome! Today's category is %s. Listen closely and find the impostor.", s.Category)
	case EventTurnAnnounce:
		return fmt.Sprintf("%s, you're up.", game.CurrentSpeaker(s))
	case EventRoundEnd:
		return fmt.Sprintf("That's the end of round %d. Another round, or shall we vote?", completedRound(s))
	}
	return "Let's keep going."
}

// completedRound is the round that the last turn closed
func completedRound(s *models.Session) int {
	if n := s.CurrentTurnIndex / len(s.TurnOrder); n > 0 {
		return n
	}
	return 1
}
