// Package llm talks to an OpenAI-compatible chat completion endpoint and
// turns model output into normalized analysis results.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultRequestTimeout = 120 * time.Second

// Client posts chat completion requests to one provider endpoint.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

// ClientOptions configures a Client.
type ClientOptions struct {
	BaseURL string
	Model   string
	APIKey  string
	// Timeout is the per-request timeout, distinct from retry backoff and
	// from the scan-level deadline. Zero means 120s.
	Timeout time.Duration
}

// NewClient builds a chat completion client.
func NewClient(opts ClientOptions, log zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		model:   opts.Model,
		apiKey:  opts.APIKey,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "LlmClient").Logger(),
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one system+user exchange and returns the raw assistant
// text. Failures are classified as *AnalysisError.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", &AnalysisError{Class: Permanent, Msg: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &AnalysisError{Class: Permanent, Msg: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &AnalysisError{Class: classifyTransportError(err), Msg: "request failed", Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("chat completion")

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", &AnalysisError{Class: Transient, StatusCode: resp.StatusCode, Msg: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("provider returned %s", resp.Status)
		var parsed chatResponse
		if json.Unmarshal(data, &parsed) == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", &AnalysisError{Class: classifyHTTPStatus(resp.StatusCode), StatusCode: resp.StatusCode, Msg: msg}
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &AnalysisError{Class: Unparseable, Msg: "malformed completion envelope", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &AnalysisError{Class: Unparseable, Msg: "completion has no choices"}
	}
	return parsed.Choices[0].Message.Content, nil
}
