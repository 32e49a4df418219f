// Package textgen calls an OpenAI-compatible chat completions endpoint to draft document prose.
// It makes exactly one request per call; retrying is the caller's decision.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
)

type Request struct {
	DocType string
	Prompt  string
	Facts   map[string]any
}

//go:generate mockgen -source=textgen.go -destination=generator_mock.go -package=textgen
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type Client struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

func NewClient(url, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
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
}

const systemPrompt = "You draft paperwork for small trade businesses. Use only the facts provided. " +
	"Do not invent names, amounts, dates or licence numbers. Reply with the document text only."

func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	facts, err := json.MarshalIndent(req.Facts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding job facts: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Document type: %s\n\n%s\n\nJob facts:\n%s", req.DocType, req.Prompt, facts)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", failed(fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", failed(fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", failed(fmt.Errorf("decoding response: %w", err))
	}

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", failed(fmt.Errorf("empty completion"))
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func failed(err error) error {
	return apperr.Downstream(apperr.CodeGenerationFailed, "text generation failed", err)
}
