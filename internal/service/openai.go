package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Junction-25/pdf-service/internal/config"
	"github.com/Junction-25/pdf-service/internal/metrics"
	"github.com/Junction-25/pdf-service/internal/model"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultRetryBackoff = 500 * time.Millisecond

// RemoteError classifies a failed call to the reasoning service. It never
// leaves the service package: the analysis generator turns it into a
// fallback reason.
type RemoteError struct {
	Reason     model.FallbackReason
	Transient  bool
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("reasoning service %s (status %d): %v", e.Reason, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("reasoning service %s: %v", e.Reason, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint
type OpenAIClient struct {
	config       *config.ReasoningConfig
	httpClient   *http.Client
	limiter      *rate.Limiter
	provider     Provider
	timeout      time.Duration
	retryBackoff time.Duration
	logger       *zap.Logger
}

// NewOpenAIClient creates a new OpenAI-compatible client with auto-detection of provider
func NewOpenAIClient(cfg *config.ReasoningConfig, logger *zap.Logger) *OpenAIClient {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	provider := DetectProvider(cfg.APIBase)
	logger.Info("reasoning client configured",
		zap.String("provider", string(provider)),
		zap.String("api_base", cfg.APIBase),
		zap.String("model", cfg.ChatModel),
		zap.Bool("enabled", cfg.Enabled),
	)

	return &OpenAIClient{
		config:       cfg,
		httpClient:   &http.Client{},
		limiter:      rate.NewLimiter(limit, burst),
		provider:     provider,
		timeout:      time.Duration(cfg.Timeout) * time.Second,
		retryBackoff: defaultRetryBackoff,
		logger:       logger,
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIClient) IsEnabled() bool {
	return c != nil && c.config.Enabled
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat specifies the format of the response
type ResponseFormat struct {
	Type string `json:"type"` // "json_object" or "text"
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role             string  `json:"role"`
			Content          string  `json:"content"`
			ReasoningContent *string `json:"reasoning_content,omitempty"` // DeepSeek/NVIDIA thinking
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends a system and user prompt and returns the model's text,
// asking for a JSON object. Transient failures are retried up to
// MaxRetries times.
func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !c.IsEnabled() {
		return "", &RemoteError{Reason: model.ReasonDisabled, Err: errors.New("no API key configured")}
	}

	req := ChatCompletionRequest{
		Model: c.config.ChatModel,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature:    c.config.Temperature,
		MaxTokens:      c.config.MaxTokens,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	return withRetry(ctx, c.config.MaxRetries, c.retryBackoff, func(ctx context.Context) (string, error) {
		text, err := c.attempt(ctx, req)
		metrics.ReasoningAttempts.WithLabelValues(attemptOutcome(err)).Inc()
		if err != nil {
			c.logger.Warn("reasoning attempt failed", zap.Error(err))
		}
		return text, err
	})
}

// Ping sends a tiny completion to check the service is reachable
func (c *OpenAIClient) Ping(ctx context.Context) error {
	if !c.IsEnabled() {
		return &RemoteError{Reason: model.ReasonDisabled, Err: errors.New("no API key configured")}
	}
	_, err := c.attempt(ctx, ChatCompletionRequest{
		Model:     c.config.ChatModel,
		Messages:  []ChatMessage{{Role: "user", Content: "Hello, this is a test message."}},
		MaxTokens: 10,
	})
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Reason == model.ReasonEmpty {
		return nil
	}
	return err
}

// attempt performs exactly one bounded HTTP round trip
func (c *OpenAIClient) attempt(ctx context.Context, req ChatCompletionRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &RemoteError{Reason: model.ReasonUnreachable, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.config.APIBase)
	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	c.provider.ApplyHeaders(httpReq, c.config)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", c.classifyTransportError(ctx, attemptCtx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.classifyTransportError(ctx, attemptCtx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RemoteError{
			Reason:     model.ReasonBadStatus,
			Transient:  resp.StatusCode >= 500,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("API request failed: %s", truncate(string(body), 200)),
		}
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &RemoteError{Reason: model.ReasonMalformed, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	if len(result.Choices) == 0 {
		return "", &RemoteError{Reason: model.ReasonEmpty, Err: errors.New("no choices in response")}
	}

	msg := result.Choices[0].Message
	text := c.provider.ExtractContent(msg.Content, msg.ReasoningContent)
	if strings.TrimSpace(text) == "" {
		return "", &RemoteError{Reason: model.ReasonEmpty, Err: errors.New("empty message content")}
	}

	c.logger.Debug("reasoning attempt succeeded",
		zap.String("model", result.Model),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return text, nil
}

// classifyTransportError separates caller cancellation from attempt
// timeouts and connection failures
func (c *OpenAIClient) classifyTransportError(parent, attemptCtx context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return &RemoteError{Reason: model.ReasonTimeout, Transient: true, Err: err}
	}
	return &RemoteError{Reason: model.ReasonUnreachable, Transient: true, Err: err}
}

func attemptOutcome(err error) string {
	if err == nil {
		return "success"
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return string(remote.Reason)
	}
	return "canceled"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
