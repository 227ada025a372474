package notes

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OllamaAdapter implements Adapter against a local OpenAI-compatible
// endpoint (Ollama, llama.cpp server, etc.). No API key is needed; the
// go-openai client still requires a non-empty token.
type OllamaAdapter struct {
	client *openai.Client
	config Config
}

func NewOllamaAdapter(cfg Config) *OllamaAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	clientConfig := openai.DefaultConfig("ollama")
	clientConfig.BaseURL = baseURL
	return &OllamaAdapter{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

func (a *OllamaAdapter) Generate(ctx context.Context, transcript string) (*Notes, error) {
	model := a.config.Model
	if model == "" {
		model = "llama3.1"
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	}

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("ollama-notes: API call failed after %v: %v", duration, err)
		return nil, NewGenerationError(fmt.Errorf("ollama chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return nil, NewGenerationError(fmt.Errorf("ollama chat completion: no response choices"))
	}

	log.Printf("ollama-notes: generated notes in %v", duration)
	return ParseResponse(resp.Choices[0].Message.Content)
}
