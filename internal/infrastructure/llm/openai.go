package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

const chatCompletionsPath = "/v1/chat/completions"

// OpenAIClient implements ports.ModelBackend against OpenAI-compatible
// cloud endpoints.
type OpenAIClient struct {
	baseURL    string
	model      string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
}

var _ ports.ModelBackend = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from base URL, model, and API credential.
func NewOpenAIClient(baseURL, model, apiKey string, maxTokens int) *OpenAIClient {
	return &OpenAIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		maxTokens:  maxTokens,
		httpClient: &http.Client{},
	}
}

// Name identifies the backend in responses and error reports.
func (c *OpenAIClient) Name() string { return "openai" }

// Infer posts the prompt as a single user message and returns the first
// choice's content.
func (c *OpenAIClient) Infer(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" || c.baseURL == "" || c.model == "" {
		return "", &domain.FatalBackendError{Backend: c.Name(), Err: fmt.Errorf("openai client misconfigured")}
	}

	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.3,
	}
	if c.maxTokens > 0 {
		payload["max_tokens"] = c.maxTokens
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(c.Name(), resp)
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat response contained no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
