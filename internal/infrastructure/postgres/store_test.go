package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"
	"habitlog-service/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore migrates a throwaway schema on the database named by
// HABITLOG_TEST_POSTGRES_DSN.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("HABITLOG_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HABITLOG_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	schema := "habitlog_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	admin, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema))
	require.NoError(t, err)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	poolCfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	require.NoError(t, err)

	store := NewStore(pool, 5*time.Second)
	t.Cleanup(func() {
		store.Close()
		_, _ = admin.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		admin.Close()
	})

	_, err = store.Migrate(ctx, nil)
	require.NoError(t, err)
	return store
}

func seedSubscription(t *testing.T, store *Store) (*entity.User, *entity.Habit, *entity.UserHabit) {
	t.Helper()
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", PasswordHash: "x", CreatedAt: time.Now()}
	require.NoError(t, store.Users().Create(ctx, user))

	habit := &entity.Habit{ID: uuid.New(), Name: "Running", Description: "Go for a run", Embeddings: [][]float64{{1, 0}, {0, 1}}}
	require.NoError(t, store.Habits().Upsert(ctx, habit))

	uh := &entity.UserHabit{ID: uuid.New(), UserID: user.ID, HabitID: habit.ID, StartDate: entity.DateOf(time.Now(), time.UTC)}
	require.NoError(t, store.Subscriptions().Create(ctx, uh))

	return user, habit, uh
}

func TestStore_Constraints(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user, habit, uh := seedSubscription(t, store)

	dupUser := &entity.User{ID: uuid.New(), Username: "alice", Email: "other@example.com", PasswordHash: "x", CreatedAt: time.Now()}
	assert.ErrorIs(t, store.Users().Create(ctx, dupUser), repository.ErrUniqueViolation)

	dupSub := &entity.UserHabit{ID: uuid.New(), UserID: user.ID, HabitID: habit.ID, StartDate: uh.StartDate}
	assert.ErrorIs(t, store.Subscriptions().Create(ctx, dupSub), repository.ErrUniqueViolation)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Logs().Insert(ctx, &entity.HabitLog{UserHabitID: uh.ID, PerformedAt: day}))
	assert.ErrorIs(t, store.Logs().Insert(ctx, &entity.HabitLog{UserHabitID: uh.ID, PerformedAt: day}), repository.ErrUniqueViolation)
	assert.ErrorIs(t, store.Logs().Insert(ctx, &entity.HabitLog{UserHabitID: uuid.New(), PerformedAt: day}), repository.ErrForeignKeyViolation)

	_, err := store.Users().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_HabitUpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, habit, _ := seedSubscription(t, store)

	again := &entity.Habit{ID: uuid.New(), Name: "Running", Description: "Run 5k", Embeddings: [][]float64{{0.5, 0.5}}}
	require.NoError(t, store.Habits().Upsert(ctx, again))
	assert.Equal(t, habit.ID, again.ID)

	target, err := store.Habits().GetByID(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5, 0.5}}, target.Embeddings)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, _, uh := seedSubscription(t, store)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(ctx context.Context, tx repository.Repositories) error {
		if _, err := tx.Subscriptions().GetStreakForUpdate(ctx, uh.ID); err != nil {
			return err
		}
		if err := tx.Logs().Insert(ctx, &entity.HabitLog{UserHabitID: uh.ID, PerformedAt: day}); err != nil {
			return err
		}
		if err := tx.Subscriptions().UpdateStreak(ctx, uh.ID, 1, day); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := store.Logs().ExistsForDate(ctx, uh.ID, day)
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := store.Subscriptions().GetByID(ctx, uh.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStreak)
}

func TestStore_Leaderboard(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	alice, habit, aliceSub := seedSubscription(t, store)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Subscriptions().UpdateStreak(ctx, aliceSub.ID, 3, day))

	bob := &entity.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com", PasswordHash: "x", CreatedAt: time.Now()}
	require.NoError(t, store.Users().Create(ctx, bob))
	require.NoError(t, store.Users().UpdateLocation(ctx, bob.ID, entity.GeoPoint{Latitude: 51.5, Longitude: -0.12}))
	bobSub := &entity.UserHabit{ID: uuid.New(), UserID: bob.ID, HabitID: habit.ID, StartDate: day}
	require.NoError(t, store.Subscriptions().Create(ctx, bobSub))
	require.NoError(t, store.Subscriptions().UpdateStreak(ctx, bobSub.ID, 5, day))

	entries, err := store.Subscriptions().Leaderboard(ctx, habit.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, []entity.LeaderboardEntry{{Username: "bob", CurrentStreak: 5}, {Username: "alice", CurrentStreak: 3}}, entries)

	candidates, err := store.Subscriptions().NearbyCandidates(ctx, habit.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "bob", candidates[0].Username)
}

func TestStreakEngine_ConcurrentSameDateExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, _, uh := seedSubscription(t, store)
	engine := service.NewStreakEngine(store, nil)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	const workers = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.RecordVerifiedCompletion(ctx, uh.ID, day)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperr.KindOf(err) == apperr.KindDuplicateLog:
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, duplicates)

	got, err := store.Subscriptions().GetByID(ctx, uh.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentStreak)
	require.NotNil(t, got.LastStreakDate)
	assert.Equal(t, "2026-03-01", entity.FormatDate(*got.LastStreakDate))
}

func TestStreakEngine_ConcurrentConsecutiveDatesMatchSerialOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, _, uh := seedSubscription(t, store)
	engine := service.NewStreakEngine(store, nil)
	first := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	const days = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted []time.Time
		rejected int
	)
	for i := 0; i < days; i++ {
		d := first.AddDate(0, 0, i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.RecordVerifiedCompletion(ctx, uh.ID, d)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted = append(accepted, d)
			case apperr.KindOf(err) == apperr.KindPastDateLog:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.NotEmpty(t, accepted)
	assert.Equal(t, days, len(accepted)+rejected)

	// the row lock orders accepted logs by date, so a serial replay must
	// arrive at the stored streak
	sort.Slice(accepted, func(i, j int) bool { return accepted[i].Before(accepted[j]) })
	var last *time.Time
	want := 0
	for i := range accepted {
		next, _, err := entity.AdvanceStreak(accepted[i], last, want)
		require.NoError(t, err)
		want = next
		last = &accepted[i]
	}

	got, err := store.Subscriptions().GetByID(ctx, uh.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got.CurrentStreak)
	require.NotNil(t, got.LastStreakDate)
	assert.Equal(t, entity.FormatDate(*last), entity.FormatDate(*got.LastStreakDate))

	logs, err := store.Logs().ListBetween(ctx, []uuid.UUID{uh.ID}, first, first.AddDate(0, 0, days))
	require.NoError(t, err)
	assert.Len(t, logs, len(accepted))
}
