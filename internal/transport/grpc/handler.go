package grpc

import (
	"context"
	"time"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/service"
	"habitlog-service/internal/transport/http/middleware"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// HabitLogHandler implements HabitLogServiceServer on top of the domain services
type HabitLogHandler struct {
	auth         service.AuthService
	verification service.VerificationService
	leaderboards service.LeaderboardService
	today        func() time.Time
}

// NewHabitLogHandler creates a new handler; today yields the service-local date
func NewHabitLogHandler(
	auth service.AuthService,
	verification service.VerificationService,
	leaderboards service.LeaderboardService,
	today func() time.Time,
) *HabitLogHandler {
	return &HabitLogHandler{
		auth:         auth,
		verification: verification,
		leaderboards: leaderboards,
		today:        today,
	}
}

//nolint:gochecknoglobals
var kindCodes = map[apperr.Kind]codes.Code{
	apperr.KindUnauthorized:          codes.Unauthenticated,
	apperr.KindSubscriptionNotFound:  codes.NotFound,
	apperr.KindNotFound:              codes.NotFound,
	apperr.KindDuplicateLog:          codes.AlreadyExists,
	apperr.KindConflict:              codes.AlreadyExists,
	apperr.KindEvidenceRejected:      codes.FailedPrecondition,
	apperr.KindPastDateLog:           codes.FailedPrecondition,
	apperr.KindLocationNotSet:        codes.FailedPrecondition,
	apperr.KindInvalidArgument:       codes.InvalidArgument,
	apperr.KindPerceptionUnavailable: codes.Unavailable,
	apperr.KindStoreError:            codes.Internal,
	apperr.KindInternal:              codes.Internal,
}

// toStatus converts an application error into a gRPC status error
func toStatus(err error) error {
	kind := apperr.KindOf(err)
	code, ok := kindCodes[kind]
	if !ok {
		code = codes.Internal
	}
	return status.Error(code, kind.Code()+": "+apperr.MessageOf(err))
}

func (h *HabitLogHandler) authenticate(ctx context.Context) (*entity.Principal, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization metadata")
	}

	token, ok := middleware.BearerToken(values[0])
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization metadata")
	}

	principal, err := h.auth.Verify(ctx, token)
	if err != nil {
		return nil, toStatus(err)
	}
	return principal, nil
}

func (h *HabitLogHandler) LogHabit(ctx context.Context, req *LogHabitRequest) (*LogHabitResponse, error) {
	principal, err := h.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	userHabitID, err := uuid.Parse(req.UserHabitID)
	if err != nil {
		return nil, toStatus(apperr.ErrSubscriptionNotFound)
	}

	if len(req.Image) == 0 {
		return nil, status.Error(codes.InvalidArgument, "image is required")
	}

	update, err := h.verification.VerifyAndLog(ctx, *principal, userHabitID, req.Image, h.today())
	if err != nil {
		return nil, toStatus(err)
	}

	return &LogHabitResponse{
		UserHabitID:    update.UserHabitID.String(),
		PreviousStreak: update.PreviousStreak,
		CurrentStreak:  update.CurrentStreak,
		Transition:     string(update.Transition),
	}, nil
}

func (h *HabitLogHandler) GetLeaderboard(ctx context.Context, req *GetLeaderboardRequest) (*GetLeaderboardResponse, error) {
	if _, err := h.authenticate(ctx); err != nil {
		return nil, err
	}

	habitID, err := uuid.Parse(req.HabitID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid habit_id format")
	}

	entries, err := h.leaderboards.Top(ctx, habitID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &GetLeaderboardResponse{Entries: entries}, nil
}
