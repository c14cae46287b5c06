package llm

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ChatClient is the subset of the go-openai client used here
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI completes requests with an OpenAI-compatible chat API
type OpenAI struct {
	client   ChatClient
	model    string
	sampling SamplingTable
}

// NewOpenAI creates a completer; an empty baseURL uses the public endpoint
func NewOpenAI(apiKey, baseURL, model string, sampling SamplingTable) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewOpenAIWithClient(openai.NewClientWithConfig(cfg), model, sampling)
}

// NewOpenAIWithClient creates a completer over a custom client (useful for testing)
func NewOpenAIWithClient(client ChatClient, model string, sampling SamplingTable) *OpenAI {
	if sampling == nil {
		sampling = DefaultSampling()
	}
	return &OpenAI{client: client, model: model, sampling: sampling}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	s := o.sampling.For(req.Purpose)

	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    msgs,
		Temperature: float32(s.Temperature),
		MaxTokens:   s.MaxTokens,
	})
	if err != nil {
		return "", wrap(o.Name(), req.Purpose, err)
	}
	if len(resp.Choices) == 0 {
		return "", wrap(o.Name(), req.Purpose, ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", wrap(o.Name(), req.Purpose, ErrEmptyResponse)
	}
	return text, nil
}
