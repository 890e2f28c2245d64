package caption

import (
	"errors"
	"strings"
	"sync"
)

// ErrNoCredentials is returned when a pool is built without any key
var ErrNoCredentials = errors.New("no credentials configured")

// CredentialPool hands out API keys round-robin. Safe for concurrent use.
type CredentialPool struct {
	mu   sync.Mutex
	keys []string
	next int
}

// NewCredentialPool creates a pool from keys, ignoring blanks
func NewCredentialPool(keys []string) (*CredentialPool, error) {
	cleaned := make([]string, 0, len(keys))
	for _, key := range keys {
		if key = strings.TrimSpace(key); key != "" {
			cleaned = append(cleaned, key)
		}
	}

	if len(cleaned) == 0 {
		return nil, ErrNoCredentials
	}

	return &CredentialPool{keys: cleaned}, nil
}

// Next returns the next key in rotation
func (p *CredentialPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := p.keys[p.next]
	p.next = (p.next + 1) % len(p.keys)
	return key
}

// Keys returns a copy of the configured keys
func (p *CredentialPool) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of keys
func (p *CredentialPool) Len() int {
	return len(p.keys)
}
