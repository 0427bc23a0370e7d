package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator answers prompts with a Gemini chat model.
type Generator struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGenerator(ctx context.Context, apiKey, model string, temperature float32, opts ...option.ClientOption) (*Generator, error) {
	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}
	return &Generator{client: client, model: model, temperature: temperature}, nil
}

// Complete sends the prompt and returns the concatenated text parts of the
// first candidate.
func (g *Generator) Complete(ctx context.Context, promptText string) (string, error) {
	slog.DebugContext(ctx, "generating completion", "model", g.model, "prompt_length", len(promptText))

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)

	res, err := model.GenerateContent(ctx, genai.Text(promptText))
	if err != nil {
		slog.ErrorContext(ctx, "generation failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrModelCall, err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates in response", ErrModelCall)
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: no text in response", ErrModelCall)
	}
	return b.String(), nil
}
