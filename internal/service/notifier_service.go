package service

import (
	"context"
	"errors"

	"habitlog-service/internal/domain/repository"
	"habitlog-service/internal/infrastructure/smtp"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MilestoneSender delivers milestone emails
type MilestoneSender interface {
	SendMilestone(ctx context.Context, to string, mail smtp.MilestoneMail) error
}

// MilestoneNotifier emails users whose streak reaches a milestone
type MilestoneNotifier struct {
	store      repository.Store
	sender     MilestoneSender
	milestones map[int]struct{}
	logger     *zap.Logger
}

// NewMilestoneNotifier creates a new milestone notifier
func NewMilestoneNotifier(store repository.Store, sender MilestoneSender, milestones []int, logger *zap.Logger) *MilestoneNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	set := make(map[int]struct{}, len(milestones))
	for _, m := range milestones {
		set[m] = struct{}{}
	}
	return &MilestoneNotifier{
		store:      store,
		sender:     sender,
		milestones: set,
		logger:     logger,
	}
}

// IsMilestone reports whether streak is one of the configured milestones
func (n *MilestoneNotifier) IsMilestone(streak int) bool {
	_, ok := n.milestones[streak]
	return ok
}

// Notify sends the milestone email when streak is a milestone. It reports
// whether an email was sent.
func (n *MilestoneNotifier) Notify(ctx context.Context, userID, habitID uuid.UUID, streak int) (bool, error) {
	if !n.IsMilestone(streak) {
		return false, nil
	}

	user, err := n.store.Users().GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		n.logger.Warn("milestone for unknown user", zap.String("user_id", userID.String()))
		return false, nil
	}
	if err != nil {
		return false, storeError("failed to load user", err)
	}

	habit, err := n.store.Habits().GetByID(ctx, habitID)
	if err != nil {
		return false, storeError("failed to load habit", err)
	}

	mail := smtp.MilestoneMail{
		Username:  user.Username,
		HabitName: habit.Name,
		Streak:    streak,
	}
	if err := n.sender.SendMilestone(ctx, user.Email, mail); err != nil {
		return false, err
	}

	n.logger.Info("milestone email sent",
		zap.String("user_id", userID.String()),
		zap.String("habit_id", habitID.String()),
		zap.Int("streak", streak),
	)

	return true, nil
}
