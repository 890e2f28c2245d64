package caption

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxErrorBody = 512

// HTTPProvider captions images through a HuggingFace-style inference
// endpoint that accepts raw image bytes
type HTTPProvider struct {
	endpoint string
	pool     *CredentialPool
	client   *http.Client
}

type generatedText struct {
	GeneratedText string `json:"generated_text"`
}

// NewHTTPProvider creates an inference endpoint provider
func NewHTTPProvider(endpoint string, pool *CredentialPool, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPProvider{
		endpoint: endpoint,
		pool:     pool,
		client:   &http.Client{Timeout: timeout},
	}
}

// Caption posts the image and returns the first generated text
func (p *HTTPProvider) Caption(ctx context.Context, image []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("failed to build caption request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.pool.Next())
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("caption endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var results []generatedText
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("failed to decode caption response: %w", err)
	}

	if len(results) == 0 {
		return "", ErrEmptyCaption
	}

	text := strings.TrimSpace(results[0].GeneratedText)
	if text == "" {
		return "", ErrEmptyCaption
	}

	return text, nil
}
