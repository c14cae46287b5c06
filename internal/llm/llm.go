// Package llm is the text-completion collaborator used for agent dialogue,
// votes, keyword guesses and narrator commentary.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Purpose identifies why a completion is requested; sampling is tuned per purpose
type Purpose string

const (
	PurposeDialogue  Purpose = "dialogue"
	PurposeVote      Purpose = "vote"
	PurposeGuess     Purpose = "guess"
	PurposeNarration Purpose = "narration"
)

// Role is the author of a conversation message as seen by the model
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation context
type Message struct {
	Role    Role
	Content string
}

// Request is a single completion request: a system context plus conversation
type Request struct {
	Purpose  Purpose
	System   string
	Messages []Message
}

// Sampling holds generation parameters
type Sampling struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SamplingTable maps each purpose to its sampling parameters
type SamplingTable map[Purpose]Sampling

// DefaultSampling returns the stock sampling parameters
func DefaultSampling() SamplingTable {
	return SamplingTable{
		PurposeDialogue:  {Temperature: 0.8, MaxTokens: 150},
		PurposeVote:      {Temperature: 0.7, MaxTokens: 10},
		PurposeGuess:     {Temperature: 0.8, MaxTokens: 20},
		PurposeNarration: {Temperature: 0.9, MaxTokens: 100},
	}
}

// For returns the parameters for p, falling back to the defaults
func (t SamplingTable) For(p Purpose) Sampling {
	if s, ok := t[p]; ok {
		return s
	}
	return DefaultSampling()[p]
}

// Completer turns a request into free text
type Completer interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrEmptyResponse is returned when the model answers with no text
var ErrEmptyResponse = errors.New("empty completion")

// Error wraps a collaborator failure with the provider and purpose
type Error struct {
	Provider string
	Purpose  Purpose
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s completion: %v", e.Provider, e.Purpose, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(provider string, purpose Purpose, err error) error {
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	return &Error{Provider: provider, Purpose: purpose, Err: err}
}
