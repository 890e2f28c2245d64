package service

import (
	"context"
	"errors"
	"time"

	"habitlog-service/internal/caption"
	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"
	"habitlog-service/internal/domain/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VerificationThreshold is the similarity a caption must exceed to count as evidence
const VerificationThreshold = 0.5

// ImageNormalizer prepares uploads for the caption model
type ImageNormalizer interface {
	Normalize(data []byte) ([]byte, error)
}

// EvidenceScorer compares a caption with reference embeddings
type EvidenceScorer interface {
	Score(ctx context.Context, caption string, refs [][]float64) (float64, error)
}

type verificationService struct {
	store       repository.Store
	normalizer  ImageNormalizer
	captioner   caption.Provider
	scorer      EvidenceScorer
	engine      service.StreakEngine
	events      service.HabitEventPublisher
	leaderboard service.LeaderboardService
	logger      *zap.Logger
}

// VerificationDeps groups the collaborators of the verification service.
// Events and Leaderboard are optional.
type VerificationDeps struct {
	Store       repository.Store
	Normalizer  ImageNormalizer
	Captioner   caption.Provider
	Scorer      EvidenceScorer
	Engine      service.StreakEngine
	Events      service.HabitEventPublisher
	Leaderboard service.LeaderboardService
	Logger      *zap.Logger
}

// NewVerificationService creates a new verification service
func NewVerificationService(deps VerificationDeps) service.VerificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &verificationService{
		store:       deps.Store,
		normalizer:  deps.Normalizer,
		captioner:   deps.Captioner,
		scorer:      deps.Scorer,
		engine:      deps.Engine,
		events:      deps.Events,
		leaderboard: deps.Leaderboard,
		logger:      logger,
	}
}

func (s *verificationService) VerifyAndLog(ctx context.Context, principal entity.Principal, userHabitID uuid.UUID, image []byte, today time.Time) (*entity.StreakUpdate, error) {
	log := s.logger.With(
		zap.String("user_habit_id", userHabitID.String()),
		zap.String("user_id", principal.SubjectID.String()),
	)

	// Snapshot of owner and reference embeddings
	target, err := s.store.Subscriptions().GetVerificationTarget(ctx, userHabitID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.ErrSubscriptionNotFound
	}
	if err != nil {
		log.Error("failed to load verification target", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindStoreError, "failed to load subscription", err)
	}

	// Other users' subscriptions are indistinguishable from missing ones
	if target.UserID != principal.SubjectID {
		return nil, apperr.ErrSubscriptionNotFound
	}

	if s.normalizer != nil {
		image, err = s.normalizer.Normalize(image)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidArgument, "image_file is not a supported image", err)
		}
	}

	text, err := s.captioner.Caption(ctx, image)
	if err != nil {
		log.Error("caption provider failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindPerceptionUnavailable, "image captioning failed", err)
	}

	score, err := s.scorer.Score(ctx, text, target.Embeddings)
	if err != nil {
		log.Error("embedding model failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindPerceptionUnavailable, "caption embedding failed", err)
	}

	log.Info("evidence scored", zap.String("caption", text), zap.Float64("score", score))

	if score <= VerificationThreshold {
		return nil, apperr.ErrEvidenceRejected
	}

	update, err := s.engine.RecordVerifiedCompletion(ctx, userHabitID, today)
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, update, log)

	return update, nil
}

// afterCommit runs best-effort side effects; failures are logged only
func (s *verificationService) afterCommit(ctx context.Context, update *entity.StreakUpdate, log *zap.Logger) {
	ctx = context.WithoutCancel(ctx)

	if s.events != nil {
		if err := s.events.PublishHabitLogged(ctx, update); err != nil {
			log.Warn("failed to publish habit logged event", zap.Error(err))
		}
	}

	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx, update.HabitID)
	}
}
