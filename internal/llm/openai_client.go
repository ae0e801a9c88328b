// In file: internal/llm/openai_client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// openAIRequest is the chat-completions payload. The same shape works for
// OpenAI itself and for OpenAI-compatible providers such as Groq.
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float32         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIResponse is the subset of a successful response we read.
type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

const defaultOpenAIAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// Statically verify that OpenAIClient implements the SuggestionClient interface.
var _ SuggestionClient = (*OpenAIClient)(nil)

// NewOpenAIClient creates a configured client. An empty endpoint selects the
// official OpenAI URL; a zero timeout selects the package default.
func NewOpenAIClient(apiKey, model, endpoint string, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key cannot be empty")
	}
	if model == "" {
		return nil, errors.New("model ID cannot be empty")
	}
	if endpoint == "" {
		endpoint = defaultOpenAIAPIURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenAIClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Suggest performs a blocking chat-completions request and returns the raw
// text of the first choice.
func (c *OpenAIClient) Suggest(ctx context.Context, systemPrompt, query string) (string, error) {
	payload, err := c.buildRequestPayload(systemPrompt, query)
	if err != nil {
		return "", fmt.Errorf("failed to build request payload: %w", err)
	}

	respBody, err := c.doRequest(ctx, payload)
	if err != nil {
		return "", err // The error from doRequest is already descriptive.
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) buildRequestPayload(systemPrompt, query string) (*bytes.Buffer, error) {
	req := openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
		MaxTokens:   suggestionMaxTokens,
		Temperature: 0, // A name lookup wants the most likely answer, not variety.
	}

	payloadBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}
	return bytes.NewBuffer(payloadBytes), nil
}

// doRequest performs the HTTP call with retries on transport faults and 5xx
// responses. Client errors (4xx) are returned immediately: retrying a bad
// request cannot fix it.
func (c *OpenAIClient) doRequest(ctx context.Context, payload *bytes.Buffer) ([]byte, error) {
	var lastErr error
	delay := initialRetryDelay

	for i := 0; i < maxRetries; i++ {
		// Use a bytes.Reader so the request body can be re-read on retry.
		req, err := c.createRequest(ctx, bytes.NewReader(payload.Bytes()))
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", i+1, maxRetries, err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			time.Sleep(delay)
			delay *= 2
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		lastErr = fmt.Errorf("API error (attempt %d/%d): status %d, body: %s", i+1, maxRetries, resp.StatusCode, string(body))

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, lastErr
		}

		time.Sleep(delay)
		delay *= 2
	}
	return nil, lastErr
}

func (c *OpenAIClient) createRequest(ctx context.Context, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
