// Package embedding converts text into vectors for semantic comparison.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habitlog-service/internal/caption"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the default embedding model
const DefaultModel = openai.SmallEmbedding3

const defaultTimeout = 15 * time.Second

// ErrNoEmbedding is returned when the model answers without a vector
var ErrNoEmbedding = errors.New("no embedding returned")

// Encoder turns text into an embedding vector
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float64, error)
}

// Config configures the OpenAI encoder
type Config struct {
	APIKeys []string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIEncoder computes embeddings with the OpenAI embeddings API
type OpenAIEncoder struct {
	pool    *caption.CredentialPool
	clients map[string]*openai.Client
	model   openai.EmbeddingModel
	timeout time.Duration
}

// NewOpenAIEncoder creates an encoder with one client per key
func NewOpenAIEncoder(cfg Config) (*OpenAIEncoder, error) {
	pool, err := caption.NewCredentialPool(cfg.APIKeys)
	if err != nil {
		return nil, fmt.Errorf("embedding credentials: %w", err)
	}

	clients := make(map[string]*openai.Client, pool.Len())
	for _, key := range pool.Keys() {
		clientCfg := openai.DefaultConfig(key)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		clients[key] = openai.NewClientWithConfig(clientCfg)
	}

	e := &OpenAIEncoder{
		pool:    pool,
		clients: clients,
		model:   openai.EmbeddingModel(cfg.Model),
		timeout: cfg.Timeout,
	}
	if e.model == "" {
		e.model = DefaultModel
	}
	if e.timeout <= 0 {
		e.timeout = defaultTimeout
	}

	return e, nil
}

// Encode generates the embedding of text
func (e *OpenAIEncoder) Encode(ctx context.Context, text string) ([]float64, error) {
	client := e.clients[e.pool.Next()]

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, ErrNoEmbedding
	}

	// Convert []float32 to []float64
	embedding32 := resp.Data[0].Embedding
	embedding64 := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		embedding64[i] = float64(v)
	}

	return embedding64, nil
}
