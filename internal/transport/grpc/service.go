package grpc

import (
	"context"

	"habitlog-service/internal/domain/entity"

	"google.golang.org/grpc"
)

const serviceName = "habitlog.v1.HabitLogService"

type LogHabitRequest struct {
	UserHabitID string `json:"user_habit_id"`
	Image       []byte `json:"image"`
}

type LogHabitResponse struct {
	UserHabitID    string `json:"user_habit_id"`
	PreviousStreak int    `json:"previous_streak"`
	CurrentStreak  int    `json:"current_streak"`
	Transition     string `json:"transition"`
}

type GetLeaderboardRequest struct {
	HabitID string `json:"habit_id"`
}

type GetLeaderboardResponse struct {
	Entries []entity.LeaderboardEntry `json:"entries"`
}

// HabitLogServiceServer is the server API for HabitLogService
type HabitLogServiceServer interface {
	LogHabit(ctx context.Context, req *LogHabitRequest) (*LogHabitResponse, error)
	GetLeaderboard(ctx context.Context, req *GetLeaderboardRequest) (*GetLeaderboardResponse, error)
}

// HabitLogServiceDesc describes HabitLogService for grpc.Server.RegisterService
//
//nolint:gochecknoglobals
var HabitLogServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*HabitLogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "LogHabit", Handler: logHabitHandler},
		{MethodName: "GetLeaderboard", Handler: getLeaderboardHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "habitlog/v1/habitlog.proto",
}

func logHabitHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LogHabitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HabitLogServiceServer).LogHabit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/LogHabit"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HabitLogServiceServer).LogHabit(ctx, req.(*LogHabitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getLeaderboardHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetLeaderboardRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HabitLogServiceServer).GetLeaderboard(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetLeaderboard"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HabitLogServiceServer).GetLeaderboard(ctx, req.(*GetLeaderboardRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// HabitLogServiceClient calls HabitLogService over a client connection
type HabitLogServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewHabitLogServiceClient creates a new HabitLogService client
func NewHabitLogServiceClient(cc grpc.ClientConnInterface) *HabitLogServiceClient {
	return &HabitLogServiceClient{cc: cc}
}

func (c *HabitLogServiceClient) LogHabit(ctx context.Context, in *LogHabitRequest, opts ...grpc.CallOption) (*LogHabitResponse, error) {
	out := new(LogHabitResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/LogHabit", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HabitLogServiceClient) GetLeaderboard(ctx context.Context, in *GetLeaderboardRequest, opts ...grpc.CallOption) (*GetLeaderboardResponse, error) {
	out := new(GetLeaderboardResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetLeaderboard", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
