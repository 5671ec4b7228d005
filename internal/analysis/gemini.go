package analysis

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiStrategy analyzes listings with the Google Gemini API.
type GeminiStrategy struct {
	client *genai.Client
	model  string
}

func NewGeminiStrategy(ctx context.Context, apiKey, model string) (*GeminiStrategy, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}

	return &GeminiStrategy{client: client, model: model}, nil
}

func (s *GeminiStrategy) Name() string { return "gemini" }

func (s *GeminiStrategy) Analyze(ctx context.Context, view ListingView) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("%w: gemini client not initialized", ErrAnalysis)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(buildPrompt(view)), nil)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", ErrAnalysis, err)
	}

	var out strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate == nil || candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part != nil && part.Text != "" {
					out.WriteString(part.Text)
				}
			}
			if out.Len() > 0 {
				break
			}
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%w: gemini returned no text", ErrAnalysis)
	}
	return strings.TrimSpace(out.String()), nil
}
