// Package review generates pull request reviews with the Gemini API.
package review

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrGeneration reports a response that carries no usable candidate text.
var ErrGeneration = errors.New("review: generation failed")

// Generator performs a single-shot review generation. No retry and no
// diff chunking: an oversized request is the provider's to reject.
type Generator struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

// NewGenerator builds a generator against the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model, systemPrompt string) (*Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("review: create genai client: %w", err)
	}

	return &Generator{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
	}, nil
}

// Generate builds the prompt from the PR fields and returns the first
// candidate's text.
func (g *Generator) Generate(ctx context.Context, title, body, diff string) (string, error) {
	prompt := BuildPrompt(title, body, diff)

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(g.systemPrompt)},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("review: generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: response has no candidates", ErrGeneration)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: candidate has no text", ErrGeneration)
	}
	return text, nil
}
