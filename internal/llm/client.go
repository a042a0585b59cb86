// Package llm is the outbound client for the third-party chat-completion
// API used to generate blog posts.
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
)

// GenerateRequest carries the inputs for one blog-post generation.
type GenerateRequest struct {
	Topic                  string
	Keywords               string
	AdditionalInstructions string
}

// Generator produces blog-post content from a GenerateRequest.
type Generator interface {
	GenerateBlogPost(ctx context.Context, req GenerateRequest) (string, error)
}

// Client calls an OpenAI-compatible chat-completion endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

// NewClient creates a chat-completion client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateBlogPost builds the prompt and performs a single upstream call.
// Failures are not retried; they surface to the caller as one error.
func (c *Client) GenerateBlogPost(ctx context.Context, req GenerateRequest) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a copywriter for e-commerce storefronts. Write engaging, SEO-friendly blog posts in markdown."},
			{Role: "user", Content: buildPrompt(req)},
		},
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling LLM provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Error bodies are not always JSON; a proxy may answer with HTML.
		msg := http.StatusText(resp.StatusCode)
		var parsed chatResponse
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("LLM provider returned %d: %s", resp.StatusCode, msg)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("LLM provider returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func buildPrompt(req GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a blog post about: %s\n", req.Topic)
	fmt.Fprintf(&b, "Target keywords: %s\n", req.Keywords)
	if req.AdditionalInstructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n", req.AdditionalInstructions)
	}
	b.WriteString("Use a clear structure with headings and a short conclusion.")
	return b.String()
}
