package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Fixed user-facing texts for gateway failures. The pipeline surfaces
// these instead of structural errors.
const (
	apiErrorText   = "I encountered an API error. Please try again."
	timeoutText    = "The request timed out. Please try again."
	transportText  = "A connection error occurred. Please try again."
	unexpectedText = "I hit an unexpected error. Please try again."
)

// Sentinel errors classifying gateway failures.
var (
	ErrTimeout   = errors.New("llm: request timed out")
	ErrTransport = errors.New("llm: connection failed")
	ErrStatus    = errors.New("llm: non-success status")
)

const defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

// Config configures the completion client.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Client is a stateless text-completion gateway over an OpenRouter- or
// OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	topP        float64
	client      *http.Client
	logger      *zap.Logger
}

// NewClient creates a completion client. The API key is required; without
// it pipeline construction must fail fast.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: API key not set")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "mistralai/mistral-small-3.2-24b-instruct-2506:free"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 200
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.8
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.96
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		client:      &http.Client{Timeout: cfg.Timeout},
		logger:      cfg.Logger,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Stop        []string      `json:"stop,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single user message and returns the
// trimmed primary completion text. Failures are classified with the
// ErrTimeout / ErrTransport / ErrStatus sentinels so callers can map them
// to the fixed user-facing texts via FailureText.
func (c *Client) Complete(ctx context.Context, prompt string, stop ...string) (string, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		Stop:        stop,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("llm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("completion request failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", payload),
		)
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrStatus)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// FailureText maps a gateway error to its fixed user-facing message.
func FailureText(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return timeoutText
	case errors.Is(err, ErrTransport):
		return transportText
	case errors.Is(err, ErrStatus):
		return apiErrorText
	default:
		return unexpectedText
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

