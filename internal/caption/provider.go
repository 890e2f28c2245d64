// Package caption turns evidence photos into natural-language captions.
package caption

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	BackendOpenAI = "openai"
	BackendHTTP   = "http"
)

const (
	DefaultPrompt  = "Describe what the person in this photo is doing in one short sentence."
	DefaultTimeout = 30 * time.Second
)

// ErrEmptyCaption is returned when the model answers without any text
var ErrEmptyCaption = errors.New("empty caption")

// Provider generates a caption for an image
type Provider interface {
	Caption(ctx context.Context, image []byte) (string, error)
}

// Config selects and configures a caption backend
type Config struct {
	Backend   string
	APIKeys   []string
	BaseURL   string
	Model     string
	Prompt    string
	MaxTokens int
	Timeout   time.Duration

	// Endpoint is the inference URL of the http backend
	Endpoint string
}

// New creates the provider selected by cfg.Backend
func New(cfg Config) (Provider, error) {
	pool, err := NewCredentialPool(cfg.APIKeys)
	if err != nil {
		return nil, fmt.Errorf("caption credentials: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch strings.ToLower(cfg.Backend) {
	case BackendOpenAI, "":
		return NewOpenAIProvider(cfg, pool), nil
	case BackendHTTP:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("caption endpoint is required for the %s backend", BackendHTTP)
		}
		return NewHTTPProvider(cfg.Endpoint, pool, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown caption backend %q", cfg.Backend)
	}
}
