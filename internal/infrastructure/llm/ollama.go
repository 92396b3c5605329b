package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

// OllamaClient implements ports.ModelBackend against a local Ollama daemon.
type OllamaClient struct {
	baseURL    string
	model      string
	numPredict int
	httpClient *http.Client
}

var _ ports.ModelBackend = (*OllamaClient)(nil)

// NewOllamaClient builds a client from base URL and model identifier.
// Per-call timeouts come from the request context, not the HTTP client.
func NewOllamaClient(baseURL, model string, numPredict int) *OllamaClient {
	return &OllamaClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		numPredict: numPredict,
		httpClient: &http.Client{},
	}
}

// Name identifies the backend in responses and error reports.
func (c *OllamaClient) Name() string { return "ollama" }

// Infer posts the prompt to /api/generate and returns the generated text.
func (c *OllamaClient) Infer(ctx context.Context, prompt string) (string, error) {
	if c.baseURL == "" || c.model == "" {
		return "", &domain.FatalBackendError{Backend: c.Name(), Err: fmt.Errorf("ollama client misconfigured")}
	}

	options := map[string]any{"temperature": 0.3}
	if c.numPredict > 0 {
		options["num_predict"] = c.numPredict
	}

	body, err := json.Marshal(map[string]any{
		"model":   c.model,
		"prompt":  prompt,
		"stream":  false,
		"options": options,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(c.Name(), resp)
	}

	var payload struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	return payload.Response, nil
}

// statusError snapshots a non-2xx response for retry classification.
func statusError(backend string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &domain.BackendStatusError{
		Backend:    backend,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(snippet)),
	}
}
