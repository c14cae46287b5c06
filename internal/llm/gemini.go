package llm

import (
	"context"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// ContentGenerator is the subset of the genai Models service used here
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini completes requests with the Gemini API
type Gemini struct {
	models   ContentGenerator
	model    string
	sampling SamplingTable
}

// NewGemini creates a completer backed by the Gemini developer API
func NewGemini(ctx context.Context, apiKey, model string, sampling SamplingTable) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return NewGeminiWithGenerator(client.Models, model, sampling), nil
}

// NewGeminiWithGenerator creates a completer over a custom generator (useful for testing)
func NewGeminiWithGenerator(models ContentGenerator, model string, sampling SamplingTable) *Gemini {
	if model == "" {
		model = defaultGeminiModel
	}
	if sampling == nil {
		sampling = DefaultSampling()
	}
	return &Gemini{models: models, model: model, sampling: sampling}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	s := g.sampling.For(req.Purpose)

	config := &genai.GenerateContentConfig{}
	config.Temperature = genai.Ptr(float32(s.Temperature))
	if s.MaxTokens > 0 && s.MaxTokens <= math.MaxInt32 {
		config.MaxOutputTokens = int32(s.MaxTokens)
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	resp, err := g.models.GenerateContent(ctx, g.model, buildContents(req.Messages), config)
	if err != nil {
		return "", wrap(g.Name(), req.Purpose, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", wrap(g.Name(), req.Purpose, ErrEmptyResponse)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", wrap(g.Name(), req.Purpose, ErrEmptyResponse)
	}
	return text, nil
}

// buildContents maps the conversation onto Gemini's user/model turns
func buildContents(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	if len(contents) == 0 {
		contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: "Go ahead."}}})
	}
	return contents
}
