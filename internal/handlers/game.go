package handlers

import (
	"net/http"

	"github.com/mvg01/liargame/internal/models"
)

type talkRequest struct {
	SessionID   string `json:"session_id"`
	UserMessage string `json:"user_message"`
}

type talkResponse struct {
	SessionID string `json:"session_id"`
	*models.TurnResult
}

// HandleTalk plays the current turn; user_message is required exactly when
// the human is the speaker
func (ctx *Context) HandleTalk(w http.ResponseWriter, r *http.Request) {
	var req talkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := ctx.Engine.TakeTurn(r.Context(), req.SessionID, req.UserMessage)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, talkResponse{SessionID: req.SessionID, TurnResult: res})
}

type voteRequest struct {
	SessionID string `json:"session_id"`
	UserVote  string `json:"user_vote"`
}

type voteResponse struct {
	SessionID string `json:"session_id"`
	*models.VoteResult
}

// HandleVote closes the discussion and resolves the single voting round
func (ctx *Context) HandleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := ctx.Engine.ResolveVotes(r.Context(), req.SessionID, req.UserVote)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, voteResponse{SessionID: req.SessionID, VoteResult: res})
}

type guessRequest struct {
	SessionID string  `json:"session_id"`
	Guess     *string `json:"guess"` // omitted: the impostor agent guesses by itself
}

type guessResponse struct {
	SessionID string `json:"session_id"`
	*models.GuessResult
}

// HandleLiarGuess resolves the caught impostor's keyword guess
func (ctx *Context) HandleLiarGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		res *models.GuessResult
		err error
	)
	if req.Guess == nil {
		res, err = ctx.Engine.ImpostorGuess(r.Context(), req.SessionID)
	} else {
		res, err = ctx.Engine.ResolveGuess(r.Context(), req.SessionID, *req.Guess)
	}
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guessResponse{SessionID: req.SessionID, GuessResult: res})
}
