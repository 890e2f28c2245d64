package service

import (
	"context"
	"testing"

	"habitlog-service/internal/infrastructure/smtp"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to   string
	mail smtp.MilestoneMail
}

type recordingSender struct {
	sent []sentMail
}

func (s *recordingSender) SendMilestone(_ context.Context, to string, mail smtp.MilestoneMail) error {
	s.sent = append(s.sent, sentMail{to: to, mail: mail})
	return nil
}

func TestMilestoneNotifier(t *testing.T) {
	store := newTestStore(t)
	sender := &recordingSender{}
	notifier := NewMilestoneNotifier(store, sender, []int{7, 30}, nil)
	ctx := context.Background()

	user := createUser(t, store, "alice")
	habit := createHabit(t, store, "Running", nil)

	sent, err := notifier.Notify(ctx, user.ID, habit.ID, 6)
	require.NoError(t, err)
	assert.False(t, sent)

	sent, err = notifier.Notify(ctx, user.ID, habit.ID, 7)
	require.NoError(t, err)
	assert.True(t, sent)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "alice@example.com", sender.sent[0].to)
	assert.Equal(t, smtp.MilestoneMail{Username: "alice", HabitName: "Running", Streak: 7}, sender.sent[0].mail)
}

func TestMilestoneNotifier_UnknownUser(t *testing.T) {
	store := newTestStore(t)
	sender := &recordingSender{}
	notifier := NewMilestoneNotifier(store, sender, []int{7}, nil)

	sent, err := notifier.Notify(context.Background(), uuid.New(), uuid.New(), 7)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, sender.sent)
}
