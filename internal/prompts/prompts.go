// Package prompts builds the role-conditioned requests sent to the language model.
package prompts

import (
	"fmt"
	"strings"

	"github.com/mvg01/liargame/internal/game"
	"github.com/mvg01/liargame/internal/llm"
	"github.com/mvg01/liargame/internal/models"
)

const civilianBrief = `You are %s, a player in a party game called "find the impostor".
There are four players: user, ai_1, ai_2 and ai_3. Everyone except one impostor knows the secret keyword.

You are a CIVILIAN. The category is %q and the keyword is %q.
- Describe the keyword indirectly in one or two short sentences.
- Never say the keyword itself, and don't be so specific that the impostor can work it out.
- Watch for players whose hints are vague or slightly off; they may be the impostor.`

const impostorBrief = `You are %s, a player in a party game called "find the impostor".
There are four players: user, ai_1, ai_2 and ai_3. Everyone except one impostor knows the secret keyword.

You are the IMPOSTOR. You only know the category: %q.
- Blend in. Pick up on what the others say and give a plausible one- or two-sentence hint.
- Don't admit you lack the keyword, and avoid claims that are easy to contradict.
- Try to work out the keyword from the conversation.`

// Dialogue builds the request for an agent's turn. Only the trailing window
// of the history is included.
func Dialogue(s *models.Session, agentID string, window int) llm.Request {
	msgs := conversation(game.Window(s.History, window))
	msgs = append(msgs, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("It is your turn, %s. Answer briefly.", agentID),
	})
	return llm.Request{
		Purpose:  llm.PurposeDialogue,
		System:   brief(s, agentID),
		Messages: msgs,
	}
}

// Vote builds the request asking an agent to name the suspected impostor
func Vote(s *models.Session, agentID string) llm.Request {
	var strategy string
	if s.Roles[agentID] == models.RoleImpostor {
		strategy = "You are secretly the impostor. Vote for someone else so that suspicion moves away from you; pick whoever looks most suspicious to the others."
	} else {
		strategy = fmt.Sprintf("The keyword was %q. Vote for the player whose hints fit it worst.", s.Keyword)
	}

	system := fmt.Sprintf(`%s

Discussion is over and it is time to vote for the impostor.
%s
You may not vote for yourself (%s). Reply with exactly one player name out of: %s.`,
		brief(s, agentID), strategy, agentID, strings.Join(candidates(agentID), ", "))

	msgs := conversation(s.History)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: "Cast your vote now. Reply with the name only."})
	return llm.Request{Purpose: llm.PurposeVote, System: system, Messages: msgs}
}

// Guess builds the impostor's last-chance keyword request
func Guess(s *models.Session) llm.Request {
	var transcript strings.Builder
	for _, m := range s.History {
		fmt.Fprintf(&transcript, "%s: %s\n", m.Speaker, m.Content)
	}

	user := fmt.Sprintf(`You were caught as the impostor, but you get one chance to win.
The category is %q. Here is the whole conversation:

%s
Guess the keyword. Reply with a single word or short phrase and nothing else.`, s.Category, transcript.String())

	return llm.Request{
		Purpose:  llm.PurposeGuess,
		System:   "You are an impostor in a word party game. Guess the hidden keyword; answer with exactly one guess.",
		Messages: []llm.Message{{Role: llm.RoleUser, Content: user}},
	}
}

func brief(s *models.Session, agentID string) string {
	if s.Roles[agentID] == models.RoleImpostor {
		return fmt.Sprintf(impostorBrief, agentID, s.Category)
	}
	return fmt.Sprintf(civilianBrief, agentID, s.Category, s.Keyword)
}

// conversation renders history as chat messages: the human's lines are user
// turns and every agent line is an assistant turn tagged with its speaker
func conversation(history []models.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleAssistant
		if m.Speaker == models.HumanID {
			role = llm.RoleUser
		}
		out = append(out, llm.Message{Role: role, Content: fmt.Sprintf("[%s]: %s", m.Speaker, m.Content)})
	}
	return out
}

func candidates(voter string) []string {
	var out []string
	for _, id := range models.ParticipantIDs() {
		if id != voter {
			out = append(out, id)
		}
	}
	return out
}
