package llm

import (
	"context"
	"math/rand/v2"
)

var offlineLines = map[Purpose][]string{
	PurposeDialogue: {
		"I'd say it's something you run into pretty often.",
		"Hmm, it reminds me of the weekend.",
		"Most people have an opinion about it.",
		"I've seen a few of these up close.",
		"It comes in more than one shape, I think.",
	},
	PurposeVote: {
		"I can't decide.",
	},
	PurposeGuess: {
		"no idea",
	},
	PurposeNarration: {
		"Keep it coming, everyone.",
		"Interesting answers so far!",
		"Someone here is bluffing. Who could it be?",
	},
}

// Offline answers with canned lines and needs no network. Its votes never
// name a participant, so vote resolution always falls back to a random pick.
type Offline struct{}

func (Offline) Name() string { return "offline" }

func (Offline) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrap("offline", req.Purpose, err)
	}
	lines := offlineLines[req.Purpose]
	if len(lines) == 0 {
		return "", wrap("offline", req.Purpose, ErrEmptyResponse)
	}
	return lines[rand.IntN(len(lines))], nil
}
