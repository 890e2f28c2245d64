package kafka

import (
	"fmt"
	"time"

	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/service"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// HabitLoggedEvent is the decoded payload of a habit.logged message
type HabitLoggedEvent struct {
	EventID     string
	OccurredAt  time.Time
	UserID      uuid.UUID
	UserHabitID uuid.UUID
	HabitID     uuid.UUID
	Streak      int
	PerformedOn time.Time
}

// EncodeHabitLogged marshals a streak update into a protobuf Struct
func EncodeHabitLogged(update *entity.StreakUpdate, occurredAt time.Time) ([]byte, error) {
	payload, err := structpb.NewStruct(map[string]interface{}{
		"event_id":      NewEventID(),
		"event_type":    service.EventHabitLogged,
		"occurred_at":   occurredAt.UTC().Format(time.RFC3339Nano),
		"user_id":       update.UserID.String(),
		"user_habit_id": update.UserHabitID.String(),
		"habit_id":      update.HabitID.String(),
		"streak":        update.CurrentStreak,
		"performed_on":  entity.FormatDate(update.LoggedOn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build event payload: %w", err)
	}

	data, err := proto.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return data, nil
}

// DecodeHabitLogged parses a message produced by EncodeHabitLogged
func DecodeHabitLogged(data []byte) (*HabitLoggedEvent, error) {
	var payload structpb.Struct
	if err := proto.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	fields := payload.GetFields()
	if eventType := fields["event_type"].GetStringValue(); eventType != service.EventHabitLogged {
		return nil, fmt.Errorf("unexpected event type %q", eventType)
	}

	event := &HabitLoggedEvent{
		EventID: fields["event_id"].GetStringValue(),
		Streak:  int(fields["streak"].GetNumberValue()),
	}

	var err error
	if event.OccurredAt, err = time.Parse(time.RFC3339Nano, fields["occurred_at"].GetStringValue()); err != nil {
		return nil, fmt.Errorf("invalid occurred_at: %w", err)
	}
	if event.PerformedOn, err = entity.ParseDate(fields["performed_on"].GetStringValue()); err != nil {
		return nil, fmt.Errorf("invalid performed_on: %w", err)
	}
	if event.UserID, err = uuid.Parse(fields["user_id"].GetStringValue()); err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	if event.UserHabitID, err = uuid.Parse(fields["user_habit_id"].GetStringValue()); err != nil {
		return nil, fmt.Errorf("invalid user_habit_id: %w", err)
	}
	if event.HabitID, err = uuid.Parse(fields["habit_id"].GetStringValue()); err != nil {
		return nil, fmt.Errorf("invalid habit_id: %w", err)
	}

	return event, nil
}

// NewEventID creates a unique event ID
func NewEventID() string {
	return uuid.New().String()
}
