package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"project_ria/internal/entities"
	"project_ria/internal/interfaces"
)

// ProviderConfig describes one OpenAI-compatible chat-completions endpoint.
// Keys is a pool of equivalent credentials; one is chosen uniformly at
// random per call to spread rate-limit exposure.
type ProviderConfig struct {
	Name     string
	BaseURL  string
	Model    string
	ProModel string
	Keys     []string
	Timeout  time.Duration
}

// OpenAIProvider calls a chat-completions endpoint speaking the
// {model, messages[], temperature} / {choices[{message{content}}]} contract.
type OpenAIProvider struct {
	cfg    ProviderConfig
	client *http.Client
}

func NewOpenAIProvider(cfg ProviderConfig) *OpenAIProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OpenAIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *OpenAIProvider) Name() string {
	return p.cfg.Name
}

// Configured reports whether the provider has at least one credential.
func (p *OpenAIProvider) Configured() bool {
	return len(p.cfg.Keys) > 0
}

type completionRequest struct {
	Model       string                 `json:"model"`
	Messages    []entities.ChatMessage `json:"messages"`
	Temperature float64                `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *OpenAIProvider) Complete(ctx context.Context, messages []entities.ChatMessage, opts interfaces.CompletionOptions) (string, error) {
	if len(p.cfg.Keys) == 0 {
		return "", fmt.Errorf("%s: no credentials configured", p.cfg.Name)
	}
	key := p.cfg.Keys[rand.Intn(len(p.cfg.Keys))]

	model := p.cfg.Model
	if opts.Tier == "pro" && p.cfg.ProModel != "" {
		model = p.cfg.ProModel
	}

	body, err := json.Marshal(completionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", p.cfg.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", p.cfg.Name, err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.cfg.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", p.cfg.Name, err)
	}

	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%s: malformed response (status %d): %w", p.cfg.Name, resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%s: api error (status %d): %s", p.cfg.Name, resp.StatusCode, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: empty completion (status %d)", p.cfg.Name, resp.StatusCode)
	}

	return parsed.Choices[0].Message.Content, nil
}
