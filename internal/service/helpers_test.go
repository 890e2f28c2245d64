package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/infrastructure/sqlite"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "habitlog.db"), 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	_, err = store.Migrate(context.Background(), nil)
	require.NoError(t, err)
	return store
}

func createUser(t *testing.T, store *sqlite.Store, name string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:           uuid.New(),
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func createHabit(t *testing.T, store *sqlite.Store, name string, refs [][]float64) *entity.Habit {
	t.Helper()
	habit := &entity.Habit{ID: uuid.New(), Name: name, Description: name, Embeddings: refs}
	require.NoError(t, store.Habits().Upsert(context.Background(), habit))
	return habit
}

func subscribe(t *testing.T, store *sqlite.Store, user *entity.User, habit *entity.Habit) *entity.UserHabit {
	t.Helper()
	uh := &entity.UserHabit{
		ID:        uuid.New(),
		UserID:    user.ID,
		HabitID:   habit.ID,
		StartDate: date(t, "2026-01-01"),
	}
	require.NoError(t, store.Subscriptions().Create(context.Background(), uh))
	return uh
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := entity.ParseDate(s)
	require.NoError(t, err)
	return d
}

func streakOf(t *testing.T, store *sqlite.Store, id uuid.UUID) (int, *time.Time) {
	t.Helper()
	uh, err := store.Subscriptions().GetByID(context.Background(), id)
	require.NoError(t, err)
	return uh.CurrentStreak, uh.LastStreakDate
}

type fakeCaptioner struct {
	mu      sync.Mutex
	caption string
	err     error
	calls   int
	images  [][]byte
}

func (f *fakeCaptioner) Caption(_ context.Context, image []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.images = append(f.images, image)
	return f.caption, f.err
}

type fakeScorer struct {
	score float64
	err   error
}

func (f fakeScorer) Score(_ context.Context, _ string, _ [][]float64) (float64, error) {
	return f.score, f.err
}

type fakeEncoder struct {
	vectors map[string][]float64
	err     error
}

func (f fakeEncoder) Encode(_ context.Context, text string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[text], nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	updates []*entity.StreakUpdate
	err     error
}

func (p *recordingPublisher) PublishHabitLogged(_ context.Context, update *entity.StreakUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, update)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type memoryCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID][]entity.LeaderboardEntry
	deletes int
	err     error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[uuid.UUID][]entity.LeaderboardEntry)}
}

func (c *memoryCache) Get(_ context.Context, habitID uuid.UUID) ([]entity.LeaderboardEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	entries, ok := c.entries[habitID]
	return entries, ok, nil
}

func (c *memoryCache) Set(_ context.Context, habitID uuid.UUID, entries []entity.LeaderboardEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[habitID] = entries
	return nil
}

func (c *memoryCache) Delete(_ context.Context, habitID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	delete(c.entries, habitID)
	return c.err
}
