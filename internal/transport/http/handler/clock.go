package handler

import (
	"time"

	"habitlog-service/internal/domain/entity"
)

// Clock yields the service-local calendar date
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// Today returns the current date in the service timezone
func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return entity.DateOf(now(), loc)
}
