package caption

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel     = openai.GPT4oMini
	defaultMaxTokens = 60
)

// OpenAIProvider captions images with an OpenAI-compatible vision chat model
type OpenAIProvider struct {
	pool      *CredentialPool
	clients   map[string]*openai.Client
	model     string
	prompt    string
	maxTokens int
	timeout   time.Duration
}

// NewOpenAIProvider creates a provider with one client per pooled key
func NewOpenAIProvider(cfg Config, pool *CredentialPool) *OpenAIProvider {
	clients := make(map[string]*openai.Client, pool.Len())
	for _, key := range pool.Keys() {
		clientCfg := openai.DefaultConfig(key)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		clients[key] = openai.NewClientWithConfig(clientCfg)
	}

	p := &OpenAIProvider{
		pool:      pool,
		clients:   clients,
		model:     cfg.Model,
		prompt:    cfg.Prompt,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
	if p.model == "" {
		p.model = DefaultModel
	}
	if p.prompt == "" {
		p.prompt = DefaultPrompt
	}
	if p.maxTokens <= 0 {
		p.maxTokens = defaultMaxTokens
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}

	return p
}

// Caption sends a JPEG image to the chat completion endpoint
func (p *OpenAIProvider) Caption(ctx context.Context, image []byte) (string, error) {
	client := p.clients[p.pool.Next()]

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: p.prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create caption: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCaption
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCaption
	}

	return text, nil
}
