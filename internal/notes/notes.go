package notes

import (
	"context"
	"fmt"
)

// Notes is the structured output of notes generation. One Notes record
// exists per meeting; regeneration overwrites it.
type Notes struct {
	Summary     string       `json:"summary"`
	Decisions   []string     `json:"decisions"`
	ActionItems []ActionItem `json:"actionItems"`
}

type ActionItem struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
}

// Adapter converts a flat transcript into structured notes via a
// language-model backend.
type Adapter interface {
	Generate(ctx context.Context, transcript string) (*Notes, error)
}

// Config selects and configures the backend. An adapter is built per
// generation call, so the provider choice can vary per meeting.
type Config struct {
	Provider string // "openai", "gemini", "ollama"
	APIKey   string
	Model    string
	BaseURL  string // for ollama / OpenAI-compatible backends
}

// NewAdapter creates a notes adapter for the configured backend.
func NewAdapter(cfg Config) (Adapter, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		return NewOpenAIAdapter(cfg), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("Gemini API key required")
		}
		return NewGeminiAdapter(cfg), nil
	case "ollama":
		return NewOllamaAdapter(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported notes provider: %s", cfg.Provider)
	}
}
