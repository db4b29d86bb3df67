package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"autovid/internal/logger"
	"autovid/internal/models"
)

// ErrUnprocessableVideo is returned when the model reports it could
// not work with the video.
var ErrUnprocessableVideo = errors.New("summarizer could not process the video")

// Client generates demo-video summaries through the Perplexity
// chat-completions API. Each call costs money, so callers are
// expected to reuse cached results whenever they have them.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(apiKey, model string, logger *logger.Logger) *Client {
	return &Client{
		endpoint: "https://api.perplexity.ai/chat/completions",
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// NewClientWithEndpoint is used by tests to point at a stub server.
func NewClientWithEndpoint(endpoint, apiKey, model string, logger *logger.Logger) *Client {
	c := NewClient(apiKey, model, logger)
	c.endpoint = endpoint
	return c
}

type Request struct {
	VideoURL    string
	Title       string
	Vendor      string
	ProductType string
	// PromptOverride replaces the stock template when non-empty
	// (per-shop setting).
	PromptOverride string
}

type Summary struct {
	Summary    string             `json:"summary"`
	Highlights []models.Highlight `json:"highlights"`
}

// HighlightsJSON serializes the highlight list the way it is stored
// in metafields and the local cache.
func (s Summary) HighlightsJSON() string {
	if s.Highlights == nil {
		return "[]"
	}
	data, err := json.Marshal(s.Highlights)
	if err != nil {
		return "[]"
	}
	return string(data)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize runs one chat completion and parses the model's JSON
// reply.
func (c *Client) Summarize(ctx context.Context, req Request) (Summary, error) {
	prompt := FormatPrompt(req.PromptOverride, req)

	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Summary{}, fmt.Errorf("summarizer request failed: %d %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return Summary{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return Summary{}, fmt.Errorf("summarizer returned no choices")
	}

	content := chat.Choices[0].Message.Content
	var parsed struct {
		Summary    string             `json:"summary"`
		Highlights []models.Highlight `json:"highlights"`
		Error      string             `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Summary{}, fmt.Errorf("failed to parse summary body: %w", err)
	}
	if parsed.Error != "" {
		c.logger.Warn("summarizer refused video %s: %s", req.VideoURL, parsed.Error)
		return Summary{}, ErrUnprocessableVideo
	}
	return Summary{Summary: parsed.Summary, Highlights: parsed.Highlights}, nil
}
