// Package assistant answers citizen questions through an external
// generative-AI endpoint, grounded on the portal's service catalog.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"egov-portal/metrics"
	"egov-portal/models"
)

// FallbackReply is returned whenever the AI endpoint cannot produce an answer.
const FallbackReply = "Sorry, I am having trouble answering right now. Please try again in a little while or visit your nearest service office."

var (
	ErrNotConfigured  = errors.New("ASSISTANT_NOT_CONFIGURED")
	ErrTimeout        = errors.New("ASSISTANT_TIMEOUT")
	ErrGenerateFailed = errors.New("ASSISTANT_GENERATE_FAILED")
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int
	Temperature float64
}

type Client struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

func NewClient(config Config, logger *zap.Logger) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 512
	}
	if config.Temperature == 0 {
		config.Temperature = 0.4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config: config,
		client: &http.Client{},
		logger: logger.With(zap.String("component", "assistant")),
	}
}

// Reply answers message. It never fails: any error is logged and replaced
// with FallbackReply.
func (c *Client) Reply(ctx context.Context, catalog []models.Service, lang models.Language, message string) string {
	text, err := c.Generate(ctx, SystemPrompt(catalog, lang), message)
	if err != nil {
		metrics.AssistantRequests.WithLabelValues("fallback").Inc()
		c.logger.Warn("assistant fell back to canned reply", zap.Error(err))
		return FallbackReply
	}
	metrics.AssistantRequests.WithLabelValues("ok").Inc()
	return text
}

type generateRequest struct {
	Model       string  `json:"model,omitempty"`
	System      string  `json:"system"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// Generate calls POST {base}/api/ai/generate, retrying non-200 responses
// with exponential backoff.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	if c.config.BaseURL == "" {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:       c.config.Model,
		System:      system,
		Prompt:      prompt,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerateFailed, err)
	}

	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/ai/generate", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrGenerateFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, lastErr = c.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
		if ctx.Err() != nil {
			return "", ErrTimeout
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerateFailed, lastErr)
	}
	defer resp.Body.Close()

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrGenerateFailed, err)
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerateFailed)
	}
	return text, nil
}

// SystemPrompt describes the assistant's role and the current catalog.
func SystemPrompt(catalog []models.Service, lang models.Language) string {
	var b strings.Builder
	b.WriteString("You are the help desk assistant of a government e-services portal. ")
	b.WriteString("Answer questions about the services below, their fees, required documents and processing times. ")
	b.WriteString("If a question is unrelated to these services, politely say you can only help with portal services.\n")
	if lang == models.LanguageHindi {
		b.WriteString("Reply in Hindi.\n")
	} else {
		b.WriteString("Reply in English.\n")
	}

	b.WriteString("\nServices:\n")
	for _, svc := range catalog {
		fmt.Fprintf(&b, "- %s (%s, %s): fee Rs %.2f, takes %s", svc.Name, svc.Code, svc.Category, svc.Fee, svc.EstimatedTime)
		if len(svc.RequiredDocs) > 0 {
			fmt.Fprintf(&b, ", documents: %s", strings.Join(svc.RequiredDocs, ", "))
		}
		if svc.Description != "" {
			fmt.Fprintf(&b, ". %s", svc.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nKeep answers short and practical.")
	return b.String()
}
