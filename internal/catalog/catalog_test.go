package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"habitlog-service/internal/infrastructure/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lengthEncoder struct {
	calls []string
}

func (e *lengthEncoder) Encode(_ context.Context, text string) ([]float64, error) {
	e.calls = append(e.calls, text)
	return []float64{float64(len(text)), 1}, nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habits.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
habits:
  - name: Running
    description: Go for a run
    references:
      - a person running outdoors
      - a person jogging on a treadmill
  - name: " Reading "
    description: Read a book
`)

	entries, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Running", entries[0].Name)
	assert.Len(t, entries[0].References, 2)
	assert.Equal(t, "Reading", entries[1].Name)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := writeFile(t, `
habits:
  - name: Running
  - name: Running
  - description: nameless
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate name")
	assert.Contains(t, err.Error(), "name is required")
}

func TestSeed(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "habitlog.db"), 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	_, err = store.Migrate(context.Background(), nil)
	require.NoError(t, err)

	encoder := &lengthEncoder{}
	entries := []Entry{
		{Name: "Running", Description: "Go for a run", References: []string{"a person running", "a jogger"}},
		{Name: "Reading", Description: "Read a book"},
	}

	ctx := context.Background()
	seeded, err := Seed(ctx, store.Habits(), encoder, entries)
	require.NoError(t, err)
	require.Len(t, seeded, 2)
	assert.Equal(t, []string{"a person running", "a jogger", "Read a book"}, encoder.calls)

	// Reseeding updates in place
	entries[1].Description = "Read twenty pages"
	again, err := Seed(ctx, store.Habits(), encoder, entries)
	require.NoError(t, err)
	assert.Equal(t, seeded[1].ID, again[1].ID)

	habits, err := store.Habits().List(ctx)
	require.NoError(t, err)
	assert.Len(t, habits, 2)

	got, err := store.Habits().GetByID(ctx, seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Read twenty pages", got.Description)
	assert.Equal(t, [][]float64{{17, 1}}, got.Embeddings)
}
