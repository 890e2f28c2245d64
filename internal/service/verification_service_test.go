package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/imaging"
	"habitlog-service/internal/infrastructure/sqlite"
	"habitlog-service/internal/similarity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verificationFixture struct {
	store     *sqlite.Store
	user      *entity.User
	habit     *entity.Habit
	sub       *entity.UserHabit
	captioner *fakeCaptioner
	events    *recordingPublisher
	cache     *memoryCache
}

func newVerificationFixture(t *testing.T, refs [][]float64) *verificationFixture {
	t.Helper()
	store := newTestStore(t)
	user := createUser(t, store, "alice")
	habit := createHabit(t, store, "Running", refs)
	return &verificationFixture{
		store:     store,
		user:      user,
		habit:     habit,
		sub:       subscribe(t, store, user, habit),
		captioner: &fakeCaptioner{caption: "a person running"},
		events:    &recordingPublisher{},
		cache:     newMemoryCache(),
	}
}

func (f *verificationFixture) service(scorer EvidenceScorer, normalizer ImageNormalizer) *verificationService {
	return NewVerificationService(VerificationDeps{
		Store:       f.store,
		Normalizer:  normalizer,
		Captioner:   f.captioner,
		Scorer:      scorer,
		Engine:      NewStreakEngine(f.store, nil),
		Events:      f.events,
		Leaderboard: NewLeaderboardService(f.store, f.cache, nil),
	}).(*verificationService)
}

func (f *verificationFixture) principal() entity.Principal {
	return entity.Principal{SubjectID: f.user.ID}
}

func TestVerifyAndLog_Accepted(t *testing.T) {
	f := newVerificationFixture(t, [][]float64{{1, 0}})
	svc := f.service(fakeScorer{score: 0.9}, nil)

	update, err := svc.VerifyAndLog(context.Background(), f.principal(), f.sub.ID, []byte("img"), date(t, "2026-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, update.CurrentStreak)
	assert.Equal(t, f.habit.ID, update.HabitID)
	assert.Equal(t, f.user.ID, update.UserID)

	require.Len(t, f.events.updates, 1)
	assert.Equal(t, update, f.events.updates[0])
	assert.Equal(t, 1, f.cache.deletes)
}

func TestVerifyAndLog_ThresholdIsStrict(t *testing.T) {
	f := newVerificationFixture(t, [][]float64{{1, 0}})
	svc := f.service(fakeScorer{score: VerificationThreshold}, nil)

	_, err := svc.VerifyAndLog(context.Background(), f.principal(), f.sub.ID, []byte("img"), date(t, "2026-03-01"))
	assert.ErrorIs(t, err, apperr.ErrEvidenceRejected)

	streak, last := streakOf(t, f.store, f.sub.ID)
	assert.Equal(t, 0, streak)
	assert.Nil(t, last)
	assert.Empty(t, f.events.updates)
}

func TestVerifyAndLog_CaptionFailureMutatesNothing(t *testing.T) {
	f := newVerificationFixture(t, [][]float64{{1, 0}})
	f.captioner.err = errors.New("model overloaded")
	svc := f.service(fakeScorer{score: 0.99}, nil)

	_, err := svc.VerifyAndLog(context.Background(), f.principal(), f.sub.ID, []byte("img"), date(t, "2026-03-01"))
	assert.ErrorIs(t, err, apperr.ErrPerceptionUnavailable)
	assert.Equal(t, "Internal server error", apperr.MessageOf(err))

	exists, err := f.store.Logs().ExistsForDate(context.Background(), f.sub.ID, date(t, "2026-03-01"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVerifyAndLog_EmbeddingFailure(t *testing.T) {
	f := newVerificationFixture(t, [][]float64{{1, 0}})
	svc := f.service(similarity.NewScorer(fakeEncoder{err: errors.New("quota")}), nil)

	_, err := svc.VerifyAndLog(context.Background(), f.principal(), f.sub.ID, []byte("img"), date(t, "2026-03-01"))
	assert.ErrorIs(t, err, apperr.ErrPerceptionUnavailable)
}

func TestVerifyAndLog_EmptyReferencesReject(t *testing.T) {
	f := newVerificationFixture(t, nil)
	encoder := fakeEncoder{vectors: map[string][]float64{"a person running": {1, 0}}}
	svc := f.service(similarity.NewScorer(encoder), nil)

	_, err := svc.VerifyAndLog(context.Background(), f.principal(), f.sub.ID, []byte("img"), date(t, "2026-03-01"))
	assert.ErrorIs(t, err, apperr.ErrEvidenceRejected)
}

func TestVerifyAndLog_OtherUsersSubscription(t *testing.T) {
	f := newVerificationFixture(t, [][]float64{{1, 0}})
	intruder := createUser(t, f.store, "mallory")
	svc := f.service(fakeScorer{score: 0.99}, nil)

	_, err := svc.VerifyAndLog(context.Background(), entity.Principal{SubjectID: intruder.ID}, f.sub.ID, []byte("img"), date(t, "2026-03-01"))
	assert.ErrorIs(t, err, apperr.ErrSubscriptionNotFound)
	assert.Zero(t, f.captioner.calls)
}

func TestVerifyAndLog_InvalidImage(t *testing.T) {
	f := newVerificationFixture(t, [][]float64{{1, 0}})
	svc := f.service(fakeScorer{score: 0.99}, imaging.NewNormalizer(256))

	_, err := svc.VerifyAndLog(context.Background(), f.principal(), f.sub.ID, []byte("not an image"), date(t, "2026-03-01"))
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	assert.Zero(t, f.captioner.calls)
}

func TestVerifyAndLog_NormalizesBeforeCaptioning(t *testing.T) {
	f := newVerificationFixture(t, [][]float64{{1, 0}})
	svc := f.service(fakeScorer{score: 0.99}, imaging.NewNormalizer(256))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 32))))

	_, err := svc.VerifyAndLog(context.Background(), f.principal(), f.sub.ID, buf.Bytes(), date(t, "2026-03-01"))
	require.NoError(t, err)

	require.Len(t, f.captioner.images, 1)
	mimeType, err := imaging.DetectType(f.captioner.images[0])
	require.NoError(t, err)
	assert.Equal(t, imaging.MIMETypeJPEG, mimeType)
}

func TestVerifyAndLog_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newVerificationFixture(t, [][]float64{{1, 0}})
	f.events.err = errors.New("broker down")
	svc := f.service(fakeScorer{score: 0.99}, nil)

	update, err := svc.VerifyAndLog(context.Background(), f.principal(), f.sub.ID, []byte("img"), date(t, "2026-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, update.CurrentStreak)
}

func TestVerifyAndLog_EndToEndStreak(t *testing.T) {
	f := newVerificationFixture(t, [][]float64{{1, 0}, {0, 1}})
	encoder := fakeEncoder{vectors: map[string][]float64{"a person running": {0.9, 0.1}}}
	svc := f.service(similarity.NewScorer(encoder), nil)
	ctx := context.Background()

	days := []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-05"}
	want := []int{1, 2, 3, 1}

	for i, d := range days {
		update, err := svc.VerifyAndLog(ctx, f.principal(), f.sub.ID, []byte("img"), date(t, d))
		require.NoError(t, err, d)
		assert.Equal(t, want[i], update.CurrentStreak, d)
	}

	_, err := svc.VerifyAndLog(ctx, f.principal(), f.sub.ID, []byte("img"), date(t, "2026-03-05"))
	assert.ErrorIs(t, err, apperr.ErrDuplicateLog)
}
