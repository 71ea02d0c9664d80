package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultModel is the text-generation model used when none is configured.
const DefaultModel = "gemini-1.5-flash-latest"

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Request/response shapes of the generateContent endpoint. Only the parts
// this client reads are modeled.
type (
	geminiRequestPart struct {
		Text string `json:"text"`
	}

	geminiRequestContent struct {
		Parts []geminiRequestPart `json:"parts"`
	}

	geminiRequest struct {
		Contents []geminiRequestContent `json:"contents"`
	}

	geminiResponsePart struct {
		Text string `json:"text"`
	}

	geminiResponseContent struct {
		Parts []geminiResponsePart `json:"parts"`
	}

	geminiCandidate struct {
		Content      geminiResponseContent `json:"content"`
		FinishReason string                `json:"finishReason"`
	}

	geminiResponse struct {
		Candidates []geminiCandidate `json:"candidates"`
	}
)

// GeminiClient calls the Gemini generateContent REST endpoint. The API key
// comes from environment configuration; transport timeouts are whatever the
// provided http.Client enforces (single attempt, no retries).
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(apiKey, model string, httpClient *http.Client) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

// GenerateText submits the prompt and returns the first candidate's text.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("missing API key")
	}

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiRequestContent{{Parts: []geminiRequestPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("gemini returned %s: %s", resp.Status, body)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty gemini response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
