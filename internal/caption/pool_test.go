package caption

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialPool_RoundRobin(t *testing.T) {
	pool, err := NewCredentialPool([]string{"a", " ", "b", "c"})
	require.NoError(t, err)
	require.Equal(t, 3, pool.Len())

	var got []string
	for i := 0; i < 7; i++ {
		got = append(got, pool.Next())
	}

	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, got)
}

func TestCredentialPool_Empty(t *testing.T) {
	_, err := NewCredentialPool(nil)
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = NewCredentialPool([]string{"", "  "})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestCredentialPool_ConcurrentNextIsBalanced(t *testing.T) {
	keys := []string{"k1", "k2", "k3", "k4"}
	pool, err := NewCredentialPool(keys)
	require.NoError(t, err)

	const workers = 16
	const perWorker = 250

	var (
		mu     sync.Mutex
		counts = make(map[string]int)
		wg     sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make(map[string]int)
			for i := 0; i < perWorker; i++ {
				local[pool.Next()]++
			}
			mu.Lock()
			for k, v := range local {
				counts[k] += v
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	// every call advanced the index exactly once
	for _, key := range keys {
		assert.Equal(t, workers*perWorker/len(keys), counts[key], key)
	}
}
