package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type mockChatClient struct {
	mu        sync.Mutex
	responses []openai.ChatCompletionResponse
	errs      []error
	calls     []openai.ChatCompletionRequest
}

func (m *mockChatClient) add(content string, err error) {
	m.responses = append(m.responses, openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
	})
	m.errs = append(m.errs, err)
}

func (m *mockChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if len(m.responses) == 0 {
		return openai.ChatCompletionResponse{}, nil
	}
	resp, err := m.responses[0], m.errs[0]
	m.responses, m.errs = m.responses[1:], m.errs[1:]
	return resp, err
}

func sampleRequest(p Purpose) Request {
	return Request{
		Purpose: p,
		System:  "you are ai_1",
		Messages: []Message{
			{Role: RoleUser, Content: "[user]: it is sweet"},
			{Role: RoleAssistant, Content: "[ai_2]: and green"},
			{Role: RoleUser, Content: "your turn"},
		},
	}
}

func TestOpenAIComplete(t *testing.T) {
	client := &mockChatClient{}
	client.add("  It grows on vines.  ", nil)
	c := NewOpenAIWithClient(client, "gpt-4o", nil)

	text, err := c.Complete(context.Background(), sampleRequest(PurposeDialogue))
	require.NoError(t, err)
	assert.Equal(t, "It grows on vines.", text)

	require.Len(t, client.calls, 1)
	call := client.calls[0]
	assert.Equal(t, "gpt-4o", call.Model)
	assert.Equal(t, 150, call.MaxTokens)
	assert.InDelta(t, 0.8, call.Temperature, 0.001)
	require.Len(t, call.Messages, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, call.Messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, call.Messages[1].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, call.Messages[2].Role)
}

func TestOpenAIVoteSampling(t *testing.T) {
	client := &mockChatClient{}
	client.add("ai_2", nil)
	c := NewOpenAIWithClient(client, "gpt-4o", nil)

	_, err := c.Complete(context.Background(), sampleRequest(PurposeVote))
	require.NoError(t, err)
	assert.Equal(t, 10, client.calls[0].MaxTokens)
}

func TestOpenAIErrors(t *testing.T) {
	boom := errors.New("rate limited")

	t.Run("transport error is wrapped", func(t *testing.T) {
		client := &mockChatClient{}
		client.add("", boom)
		_, err := NewOpenAIWithClient(client, "m", nil).Complete(context.Background(), sampleRequest(PurposeVote))

		require.ErrorIs(t, err, boom)
		var le *Error
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "openai", le.Provider)
		assert.Equal(t, PurposeVote, le.Purpose)
	})

	t.Run("no choices", func(t *testing.T) {
		_, err := NewOpenAIWithClient(&mockChatClient{}, "m", nil).Complete(context.Background(), sampleRequest(PurposeGuess))
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("blank content", func(t *testing.T) {
		client := &mockChatClient{}
		client.add("   ", nil)
		_, err := NewOpenAIWithClient(client, "m", nil).Complete(context.Background(), sampleRequest(PurposeGuess))
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

type mockGenerator struct {
	resp     *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (m *mockGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.model, m.contents, m.config = model, contents, config
	return m.resp, m.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeminiComplete(t *testing.T) {
	gen := &mockGenerator{resp: textResponse("kiwi", "\n")}
	c := NewGeminiWithGenerator(gen, "", nil)

	text, err := c.Complete(context.Background(), sampleRequest(PurposeGuess))
	require.NoError(t, err)
	assert.Equal(t, "kiwi", text)

	assert.Equal(t, defaultGeminiModel, gen.model)
	require.NotNil(t, gen.config.SystemInstruction)
	assert.Equal(t, "you are ai_1", gen.config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, int32(20), gen.config.MaxOutputTokens)
	require.Len(t, gen.contents, 3)
	assert.Equal(t, "user", gen.contents[0].Role)
	assert.Equal(t, "model", gen.contents[1].Role)
}

func TestGeminiErrors(t *testing.T) {
	_, err := NewGeminiWithGenerator(&mockGenerator{resp: &genai.GenerateContentResponse{}}, "m", nil).
		Complete(context.Background(), sampleRequest(PurposeDialogue))
	assert.ErrorIs(t, err, ErrEmptyResponse)

	boom := errors.New("quota")
	_, err = NewGeminiWithGenerator(&mockGenerator{err: boom}, "m", nil).
		Complete(context.Background(), sampleRequest(PurposeDialogue))
	assert.ErrorIs(t, err, boom)
}

func TestBuildContentsNeverEmpty(t *testing.T) {
	contents := buildContents(nil)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
}

func TestSamplingFor(t *testing.T) {
	table := SamplingTable{PurposeVote: {Temperature: 0.1, MaxTokens: 5}}
	assert.Equal(t, 5, table.For(PurposeVote).MaxTokens)
	assert.Equal(t, 150, table.For(PurposeDialogue).MaxTokens)
}

func TestLimited(t *testing.T) {
	fake := NewFake()
	fake.Respond = func(context.Context, Request) (string, error) { return "ok", nil }

	assert.Same(t, Completer(fake), NewLimited(fake, 0, 0))

	limited := NewLimited(fake, 1, 1)
	_, err := limited.Complete(context.Background(), sampleRequest(PurposeDialogue))
	require.NoError(t, err)

	// bucket is empty; the next call must wait past this deadline
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = limited.Complete(ctx, sampleRequest(PurposeDialogue))
	assert.Error(t, err)
	assert.Len(t, fake.Calls(), 1)
}

func TestInstrumented(t *testing.T) {
	fake := NewFake().PushText(PurposeNarration, "welcome")
	fake.Push(PurposeNarration, Reply{Err: errors.New("down")})
	c := NewInstrumented(fake)

	assert.Equal(t, "fake", c.Name())
	text, err := c.Complete(context.Background(), sampleRequest(PurposeNarration))
	require.NoError(t, err)
	assert.Equal(t, "welcome", text)

	_, err = c.Complete(context.Background(), sampleRequest(PurposeNarration))
	assert.Error(t, err)
}

func TestFake(t *testing.T) {
	fake := NewFake().PushText(PurposeVote, "ai_2", "ai_3")

	for _, want := range []string{"ai_2", "ai_3"} {
		got, err := fake.Complete(context.Background(), sampleRequest(PurposeVote))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := fake.Complete(context.Background(), sampleRequest(PurposeVote))
	assert.ErrorIs(t, err, ErrNoScript)
	assert.Len(t, fake.CallsFor(PurposeVote), 3)
	assert.Empty(t, fake.CallsFor(PurposeGuess))
}

func TestFakeDelayHonoursContext(t *testing.T) {
	fake := NewFake().Push(PurposeDialogue, Reply{Text: "late", Delay: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fake.Complete(ctx, sampleRequest(PurposeDialogue))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOffline(t *testing.T) {
	var c Offline
	for _, p := range []Purpose{PurposeDialogue, PurposeVote, PurposeGuess, PurposeNarration} {
		text, err := c.Complete(context.Background(), Request{Purpose: p})
		require.NoError(t, err)
		assert.NotEmpty(t, text)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Complete(ctx, Request{Purpose: PurposeDialogue})
	assert.ErrorIs(t, err, context.Canceled)
}
