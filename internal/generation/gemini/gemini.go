package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"newschat/internal/domain"
)

// contextCharBudget bounds how much of each candidate goes into the
// prompt so request size stays predictable.
const contextCharBudget = 250

// Client calls the Gemini generateContent API. Timeouts, non-2xx
// statuses and malformed bodies surface as domain.ErrGenerationFailure
// so the caller can switch to the templated fallback.
type Client struct {
	baseURL         string
	apiKey          string
	model           string
	maxOutputTokens int
	temperature     float64
	topP            float64
	client          *http.Client
}

type Config struct {
	BaseURL         string
	APIKeyEnv       string
	Model           string
	MaxOutputTokens int
	Temperature     float64
	TopP            float64
	Timeout         time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "GEMINI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 300
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.8
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL:         cfg.BaseURL,
		apiKey:          key,
		model:           cfg.Model,
		maxOutputTokens: cfg.MaxOutputTokens,
		temperature:     cfg.Temperature,
		topP:            cfg.TopP,
		client:          &http.Client{Timeout: t},
	}, nil
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) Generate(ctx context.Context, query string, candidates []domain.RetrievalResult) (string, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Parts []part `json:"parts"`
	}
	body := map[string]any{
		"contents": []content{{Parts: []part{{Text: buildPrompt(query, candidates)}}}},
		"generationConfig": map[string]any{
			"maxOutputTokens": c.maxOutputTokens,
			"temperature":     c.temperature,
			"topP":            c.topP,
		},
	}
	data, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: gemini request failed: %s", domain.ErrGenerationFailure, resp.Status)
	}
	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: unexpected response format", domain.ErrGenerationFailure)
	}
	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty candidate text", domain.ErrGenerationFailure)
	}
	return text, nil
}

func buildPrompt(query string, candidates []domain.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("You are a helpful news assistant. Based on the following news context, " +
		"provide a helpful answer to the user's question.\n\n")
	b.WriteString("**Instructions:**\n")
	b.WriteString("- ALWAYS provide a helpful response even if the context isn't perfectly relevant\n")
	b.WriteString("- Connect the context to the user's question in a meaningful way\n")
	b.WriteString("- Never say you don't know or that the context lacks information\n")
	b.WriteString("- Keep responses concise (under 100 words) but informative\n\n")
	b.WriteString("**News Context:**\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "[Source %d] %s\n", i+1, truncate(c.Text, contextCharBudget))
	}
	b.WriteString("\n**User Question:** ")
	b.WriteString(query)
	b.WriteString("\n\n**Your Answer:**")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
