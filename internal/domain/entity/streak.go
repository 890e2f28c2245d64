package entity

import (
	"time"

	"habitlog-service/internal/domain/apperr"
)

// Transition names the streak state-machine edge taken by a log
type Transition string

const (
	TransitionFirst       Transition = "first"
	TransitionConsecutive Transition = "consecutive"
	TransitionReset       Transition = "reset"
)

// AdvanceStreak computes the streak after logging on day d.
//
// last is the previous last-streak date (nil when the subscription has never
// been logged) and current the streak stored with it. Both are compared as
// calendar dates, the time of day is ignored. A log that does not move
// forward in time fails with apperr.ErrPastDateLog.
func AdvanceStreak(d time.Time, last *time.Time, current int) (int, Transition, error) {
	if last == nil {
		return 1, TransitionFirst, nil
	}

	d = CalendarDate(d)
	next := CalendarDate(*last).AddDate(0, 0, 1)
	switch {
	case d.Equal(next):
		return current + 1, TransitionConsecutive, nil
	case d.After(next):
		return 1, TransitionReset, nil
	default:
		return current, "", apperr.ErrPastDateLog
	}
}
