package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"habitlog-service/internal/config"
	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type stubAuth struct {
	principal entity.Principal
}

func (s stubAuth) Signup(context.Context, string, string, string) (*entity.User, error) {
	return nil, apperr.ErrInvalidArgument
}

func (s stubAuth) Login(context.Context, string, string) (*service.LoginResult, error) {
	return nil, apperr.ErrUnauthorized
}

func (s stubAuth) Verify(_ context.Context, token string) (*entity.Principal, error) {
	if token != "good" {
		return nil, apperr.New(apperr.KindUnauthorized, "Could not validate credentials")
	}
	p := s.principal
	return &p, nil
}

type stubVerification struct {
	err       error
	principal entity.Principal
	image     []byte
}

func (s *stubVerification) VerifyAndLog(_ context.Context, principal entity.Principal, userHabitID uuid.UUID, image []byte, _ time.Time) (*entity.StreakUpdate, error) {
	s.principal = principal
	s.image = image
	if s.err != nil {
		return nil, s.err
	}
	return &entity.StreakUpdate{UserHabitID: userHabitID, PreviousStreak: 2, CurrentStreak: 3, Transition: entity.TransitionConsecutive}, nil
}

type stubLeaderboards struct{}

func (stubLeaderboards) Top(context.Context, uuid.UUID) ([]entity.LeaderboardEntry, error) {
	return []entity.LeaderboardEntry{{Username: "alice", CurrentStreak: 3}}, nil
}

func (stubLeaderboards) Nearby(context.Context, uuid.UUID, uuid.UUID) ([]entity.NearbyEntry, error) {
	return nil, apperr.ErrLocationNotSet
}

func (stubLeaderboards) Invalidate(context.Context, uuid.UUID) {}

func (stubLeaderboards) RefreshAll(context.Context) error { return nil }

func startServer(t *testing.T, verification *stubVerification) *grpc.ClientConn {
	t.Helper()

	userID := uuid.New()
	handler := NewHabitLogHandler(stubAuth{principal: entity.Principal{SubjectID: userID}}, verification, stubLeaderboards{}, func() time.Time {
		return time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	})
	server := NewServer(handler, config.GRPCConfig{}, zap.NewNop())

	listener := bufconn.Listen(1 << 20)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func TestServer_LogHabit(t *testing.T) {
	verification := &stubVerification{}
	client := NewHabitLogServiceClient(startServer(t, verification))
	id := uuid.New()

	resp, err := client.LogHabit(withToken("good"), &LogHabitRequest{UserHabitID: id.String(), Image: []byte{0xFF, 0xD8}})
	require.NoError(t, err)
	assert.Equal(t, id.String(), resp.UserHabitID)
	assert.Equal(t, 3, resp.CurrentStreak)
	assert.Equal(t, "consecutive", resp.Transition)
	assert.Equal(t, []byte{0xFF, 0xD8}, verification.image)
}

func TestServer_LogHabitErrors(t *testing.T) {
	verification := &stubVerification{err: apperr.ErrDuplicateLog}
	client := NewHabitLogServiceClient(startServer(t, verification))

	_, err := client.LogHabit(context.Background(), &LogHabitRequest{UserHabitID: uuid.New().String(), Image: []byte{1}})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = client.LogHabit(withToken("bad"), &LogHabitRequest{UserHabitID: uuid.New().String(), Image: []byte{1}})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = client.LogHabit(withToken("good"), &LogHabitRequest{UserHabitID: uuid.New().String(), Image: []byte{1}})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "DUPLICATE_LOG")

	verification.err = apperr.Wrap(apperr.KindPerceptionUnavailable, "caption failed", assert.AnError)
	_, err = client.LogHabit(withToken("good"), &LogHabitRequest{UserHabitID: uuid.New().String(), Image: []byte{1}})
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.NotContains(t, status.Convert(err).Message(), assert.AnError.Error())

	_, err = client.LogHabit(withToken("good"), &LogHabitRequest{UserHabitID: "nope", Image: []byte{1}})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_GetLeaderboard(t *testing.T) {
	client := NewHabitLogServiceClient(startServer(t, &stubVerification{}))

	resp, err := client.GetLeaderboard(withToken("good"), &GetLeaderboardRequest{HabitID: uuid.New().String()})
	require.NoError(t, err)
	assert.Equal(t, []entity.LeaderboardEntry{{Username: "alice", CurrentStreak: 3}}, resp.Entries)

	_, err = client.GetLeaderboard(withToken("good"), &GetLeaderboardRequest{HabitID: "x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_Health(t *testing.T) {
	conn := startServer(t, &stubVerification{})

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: serviceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
}
