// In file: internal/llm/gemini_client.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient asks Google's Gemini models for operation suggestions.
type GeminiClient struct {
	model *genai.GenerativeModel
}

var _ SuggestionClient = (*GeminiClient)(nil)

func NewGeminiClient(apiKey, modelID string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelID)
	model.SetTemperature(0)
	model.SetMaxOutputTokens(suggestionMaxTokens)
	return &GeminiClient{model: model}, nil
}

// Suggest performs a blocking request to the Gemini API. The system prompt is
// carried as a per-request system instruction; the SDK handles retries for
// transient faults internally.
func (c *GeminiClient) Suggest(ctx context.Context, systemPrompt, query string) (string, error) {
	c.model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(query))
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	return extractGeminiText(resp)
}

// extractGeminiText concatenates the text parts of the first candidate.
func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no content returned from Gemini")
	}

	var contentBuilder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			contentBuilder.WriteString(string(txt))
		}
	}
	return contentBuilder.String(), nil
}
