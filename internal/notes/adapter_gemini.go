package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiAdapter implements Adapter against the Google generative
// language REST API.
type GeminiAdapter struct {
	client  *http.Client
	config  Config
	baseURL string
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiAdapter(cfg Config) *GeminiAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &GeminiAdapter{
		client:  &http.Client{Timeout: 60 * time.Second},
		config:  cfg,
		baseURL: baseURL,
	}
}

func (a *GeminiAdapter) Generate(ctx context.Context, transcript string) (*Notes, error) {
	model := a.config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	prompt := fmt.Sprintf("%s\n\nTranscript:\n%s", SystemPrompt, transcript)

	reqBody, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, NewGenerationError(fmt.Errorf("marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", a.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, NewGenerationError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.config.APIKey)

	start := time.Now()
	resp, err := a.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("gemini-notes: API call failed after %v: %v", duration, err)
		return nil, NewGenerationError(fmt.Errorf("gemini request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("gemini-notes: API returned status %d: %s", resp.StatusCode, string(body))
		return nil, NewGenerationError(fmt.Errorf("gemini API status %d: %s", resp.StatusCode, string(body)))
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, NewGenerationError(fmt.Errorf("decode response: %w", err))
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, NewGenerationError(fmt.Errorf("gemini: empty response"))
	}

	log.Printf("gemini-notes: generated notes in %v", duration)
	return ParseResponse(result.Candidates[0].Content.Parts[0].Text)
}
