package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaStrategy analyzes listings with a self-hosted model behind the
// Ollama generate API.
type OllamaStrategy struct {
	client   *http.Client
	endpoint string
	model    string
}

func NewOllamaStrategy(endpoint, model string) *OllamaStrategy {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = "http://localhost:11434/api/generate"
	}
	if strings.TrimSpace(model) == "" {
		model = "mistral"
	}
	return &OllamaStrategy{
		client:   &http.Client{Timeout: 120 * time.Second},
		endpoint: strings.TrimSpace(endpoint),
		model:    strings.TrimSpace(model),
	}
}

func (s *OllamaStrategy) Name() string { return "ollama" }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (s *OllamaStrategy) Analyze(ctx context.Context, view ListingView) (string, error) {
	if s == nil {
		return "", fmt.Errorf("%w: nil strategy", ErrAnalysis)
	}

	body, err := json.Marshal(ollamaRequest{Model: s.model, Prompt: buildPrompt(view), Stream: false})
	if err != nil {
		return "", fmt.Errorf("%w: ollama: %v", ErrAnalysis, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: ollama: %v", ErrAnalysis, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: ollama: %v", ErrAnalysis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: ollama: unexpected status %d", ErrAnalysis, resp.StatusCode)
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: ollama: decode response: %v", ErrAnalysis, err)
	}
	if strings.TrimSpace(decoded.Response) == "" {
		return "", fmt.Errorf("%w: ollama returned no text", ErrAnalysis)
	}
	return strings.TrimSpace(decoded.Response), nil
}
