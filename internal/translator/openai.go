package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultModel = "gpt-4o-mini"

// OpenAIGateway talks to an OpenAI-compatible chat-completions endpoint.
type OpenAIGateway struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIGateway builds a gateway client. baseURL and model fall back to
// the OpenAI defaults when empty. timeout applies to the whole HTTP exchange;
// zero means no client-side deadline.
func NewOpenAIGateway(apiKey, baseURL, model string, timeout time.Duration) *OpenAIGateway {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIGateway{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *OpenAIGateway) Name() string { return "openai" }

func (g *OpenAIGateway) Complete(ctx context.Context, prompt string) (Completion, error) {
	body := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return Completion{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", g.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return Completion{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.apiKey))

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Completion{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Completion{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(raw))
	}

	var completionResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(raw, &completionResp); err != nil || len(completionResp.Choices) == 0 {
		// The endpoint answered 200 with an unexpected shape. Hand the raw
		// body back rather than failing the whole job.
		return Completion{Kind: Unrecognized, Raw: string(raw)}, nil
	}

	return Completion{Kind: Text, Text: completionResp.Choices[0].Message.Content}, nil
}
