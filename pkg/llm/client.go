package llm

import (
	"context"
	"errors"
	"time"
)

// Package llm holds the text generation client used for article briefings.

// ErrMissingKey is returned when a client is built without credentials.
var ErrMissingKey = errors.New("llm api key is required")

// Client generates text for a single prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config for LLM clients.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// Referer is sent with every call; keys restricted by HTTP referrer need it.
	Referer     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

const (
	defaultModel   = "gemini-2.0-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 30 * time.Second
)

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}
