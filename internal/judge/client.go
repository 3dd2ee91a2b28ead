package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const judgePrompt = `You are an impartial AI debate judge. Score the two debaters on logic, rebuttal, and clarity. Then provide brief feedback for both. Return the result strictly in JSON format.

Topic:
%s

Debater A (%s):
%s

Debater B (%s):
%s

Please respond in the following JSON format:
{
  "winner": "debaterA" or "debaterB",
  "score": { "debaterA": 0-100, "debaterB": 0-100 },
  "feedback": {
    "debaterA": "brief feedback",
    "debaterB": "brief feedback"
  }
}`

const topicPrompt = `Generate a single concise debate topic about %s. The topic must be a statement one side can argue for and the other against. Respond with the topic only, no preamble and no quotes.`

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	APIKey  string
	BaseURL string
	Model   string
	http    *http.Client
}

func New(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Score(ctx context.Context, t Transcripts) (Outcome, error) {
	nameA := t.NameA
	if nameA == "" {
		nameA = "Debater A"
	}
	nameB := t.NameB
	if nameB == "" {
		nameB = "Debater B"
	}

	prompt := fmt.Sprintf(judgePrompt, t.Topic, nameA, t.DebaterA, nameB, t.DebaterB)
	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrJudgingUnavailable, err)
	}

	// Models sometimes wrap the JSON in a code fence despite the prompt.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var out Outcome
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Outcome{}, fmt.Errorf("%w: malformed judge output: %v", ErrJudgingUnavailable, err)
	}
	if out.Winner != "debaterA" && out.Winner != "debaterB" {
		return Outcome{}, fmt.Errorf("%w: invalid winner %q", ErrJudgingUnavailable, out.Winner)
	}
	if out.Score.DebaterA < 0 || out.Score.DebaterA > 100 ||
		out.Score.DebaterB < 0 || out.Score.DebaterB > 100 {
		return Outcome{}, fmt.Errorf("%w: score out of range (%d, %d)",
			ErrJudgingUnavailable, out.Score.DebaterA, out.Score.DebaterB)
	}
	return out, nil
}

func (c *Client) GenerateTopic(ctx context.Context, interest string) (string, error) {
	if interest == "" {
		interest = "Technology"
	}
	topic, err := c.complete(ctx, fmt.Sprintf(topicPrompt, interest))
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(topic), `"`), nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("missing judge API key")
	}

	payload := map[string]any{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.7,
		"max_tokens":  500,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("judge status %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
