package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultModel      = "claude-3-haiku-20240307"
	DefaultBaseURL    = "https://api.anthropic.com/v1/messages"
	APIVersion        = "2023-06-01"
	DefaultTimeout    = 60 * time.Second
	MaxRetries        = 2
	InitialBackoff    = 1 * time.Second
	MaxBackoff        = 15 * time.Second
	BackoffMultiplier = 2.0
)

// AnthropicClient handles communication with the Anthropic Messages API.
type AnthropicClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// Message represents one turn in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesRequest represents a request to the Messages API.
type MessagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
}

// MessagesResponse represents a response from the Messages API.
type MessagesResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// anthropicError represents an error response body.
type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropicClient creates a new Anthropic API client.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	return NewAnthropicClientWithOptions(apiKey, "", 0)
}

// NewAnthropicClientWithOptions creates a client with custom options.
func NewAnthropicClientWithOptions(apiKey, baseURL string, timeout time.Duration) *AnthropicClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &AnthropicClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// Complete sends a message request with retry logic.
func (c *AnthropicClient) Complete(ctx context.Context, req *MessagesRequest) (*MessagesResponse, error) {
	if req.Model == "" {
		req.Model = DefaultModel
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 1000
	}
	if req.Temperature == 0 {
		req.Temperature = 0.7
	}

	var lastErr error
	backoff := InitialBackoff

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * BackoffMultiplier)
			if backoff > MaxBackoff {
				backoff = MaxBackoff
			}
		}

		resp, err := c.doRequest(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", MaxRetries, lastErr)
}

// doRequest performs the actual HTTP request.
func (c *AnthropicClient) doRequest(ctx context.Context, req *MessagesRequest) (*MessagesResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", APIVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr anthropicError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    apiErr.Error.Message,
				Type:       apiErr.Error.Type,
			}
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	var msgResp MessagesResponse
	if err := json.Unmarshal(respBody, &msgResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &msgResp, nil
}

// APIError represents an API error with status code and message.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("Anthropic API error (%d): %s - %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("Anthropic API error (%d): %s", e.StatusCode, e.Message)
}

// IsRateLimitError checks if the error is a rate limit error.
func (e *APIError) IsRateLimitError() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError checks if the error is a server error.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 || e.StatusCode == 529
}

// isRetryableError checks if an error should be retried.
func isRetryableError(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.IsRateLimitError() || apiErr.IsServerError()
	}
	return false
}

// Text extracts the concatenated text blocks from the response.
func (r *MessagesResponse) Text() string {
	var out string
	for _, block := range r.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}
