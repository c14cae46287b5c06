package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mvg01/liargame/internal/game"
	"github.com/mvg01/liargame/internal/models"
	"github.com/mvg01/liargame/internal/observability"
	"github.com/mvg01/liargame/internal/prompts"
	"github.com/mvg01/liargame/internal/sse"
)

// ResolveVotes ends the discussion: the human's vote is combined with one
// vote per agent and the session moves to the impostor's rebuttal or ends.
// It runs at most once per session.
func (e *Engine) ResolveVotes(ctx context.Context, id, humanVote string) (*models.VoteResult, error) {
	ctx, span := e.startSpan(ctx, "engine.ResolveVotes", id)
	defer span.End()

	unlock, err := e.locker.Lock(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	defer unlock()

	s, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := game.RequirePhase(s, "resolve votes", models.PhaseInProgress); err != nil {
		return nil, fail(span, err)
	}
	humanVote = strings.ToLower(strings.TrimSpace(humanVote))
	if !models.IsAgent(humanVote) {
		return nil, fail(span, fmt.Errorf("%w: %q is not one of %v", game.ErrInvalidVote, humanVote, models.AgentIDs()))
	}

	s.Phase = models.PhaseVoting
	votes, fallbacks := e.collectVotes(ctx, s)

	result, err := game.ApplyVotes(s, humanVote, votes, fallbacks)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := e.save(ctx, s); err != nil {
		return nil, fail(span, err)
	}
	unlock()

	e.logger.Info("votes resolved",
		"session_id", id,
		"most_voted", result.MostVoted,
		"liar_caught", result.LiarCaught,
		"fallbacks", len(result.Fallbacks),
	)
	if s.Phase == models.PhaseEnded {
		observability.RecordGameFinished(string(models.WinnerImpostor))
	}
	e.events.Publish(id, sse.EventVote, result)
	return result, nil
}

// collectVotes asks every agent for a vote concurrently. Each call has its
// own timeout and any failure becomes a random fallback for that agent only.
// Fallbacks are drawn after the join, in agent order, so the source is never
// shared between goroutines.
func (e *Engine) collectVotes(ctx context.Context, s *models.Session) (map[string]string, []string) {
	agents := models.AgentIDs()
	raw := make([]string, len(agents))

	var wg sync.WaitGroup
	for i, agent := range agents {
		req := prompts.Vote(s, agent)
		wg.Go(func() {
			text, err := e.complete(ctx, req)
			if err != nil {
				e.logger.Warn("agent vote failed",
					"session_id", s.ID,
					"voter", agent,
					"error", err,
				)
				return
			}
			raw[i] = text
		})
	}
	wg.Wait()

	votes := make(map[string]string, len(agents))
	var fallbacks []string
	for i, agent := range agents {
		target, usedFallback := game.ResolveAgentVote(e.src, raw[i], agent)
		votes[agent] = target
		if usedFallback {
			fallbacks = append(fallbacks, agent)
			observability.RecordAgentVote("fallback")
			e.logger.Warn("agent vote replaced at random",
				"session_id", s.ID,
				"voter", agent,
				"target", target,
			)
			continue
		}
		observability.RecordAgentVote("parsed")
	}
	return votes, fallbacks
}
