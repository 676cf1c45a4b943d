package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"dhonk_backend/internal/config"
	"dhonk_backend/internal/entities"
)

// ErrUpstreamTimeout is returned (wrapped) when the model endpoint does not
// connect or answer within the configured timeouts.
var ErrUpstreamTimeout = errors.New("llm upstream timed out")

// ErrMissingAPIKey is returned when no API key was configured.
var ErrMissingAPIKey = errors.New("OPENROUTER_API_KEY is not set")

// UpstreamStatusError carries a non-200 reply from the model endpoint.
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("llm upstream status %d: %s", e.StatusCode, e.Body)
}

// OpenRouterClient calls an OpenAI-compatible chat-completion endpoint.
type OpenRouterClient struct {
	apiKey      string
	url         string
	model       string
	temperature float64
	deadline    time.Duration
	httpClient  *http.Client
}

// NewOpenRouterClient builds a client whose transport enforces the connect
// timeout on dial and TLS handshake and the read timeout on response headers.
// The whole exchange is additionally bounded by connect+read.
func NewOpenRouterClient(cfg config.LLMConfig) *OpenRouterClient {
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &OpenRouterClient{
		apiKey:      cfg.APIKey,
		url:         cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		deadline:    cfg.ConnectTimeout + cfg.ReadTimeout,
		httpClient:  &http.Client{Transport: transport},
	}
}

type chatRequest struct {
	Model       string                 `json:"model"`
	Messages    []entities.ChatMessage `json:"messages"`
	Temperature float64                `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletion sends messages and returns the first choice's content.
func (c *OpenRouterClient) ChatCompletion(ctx context.Context, messages []entities.ChatMessage) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.deadline)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("llm request failed: %w", err)
}
