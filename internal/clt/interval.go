package clt

import (
	"time"

	"github.com/google/uuid"
)

// Interval is the engine's view of a timesheet entry: where and when it
// happened, without the bookkeeping the persistence layer carries.
type Interval struct {
	ID    uuid.UUID
	Date  time.Time // calendar date of the start
	Start TimeOfDay
	End   *TimeOfDay // nil while the entry is still open
	Label string     // human reference for conflict and alert messages
}

// Overnight reports whether the interval crosses midnight.
func (iv Interval) Overnight() bool {
	return iv.End != nil && *iv.End < iv.Start
}

// Seconds is the worked duration. Open intervals count as zero.
func (iv Interval) Seconds() int {
	if iv.End == nil {
		return 0
	}
	return Duration(iv.Start, *iv.End)
}

// StartAt is the absolute start instant.
func (iv Interval) StartAt() time.Time {
	return iv.Start.At(iv.Date)
}

// EndAt is the absolute end instant with the midnight wraparound
// applied. Open intervals fall back to the start instant.
func (iv Interval) EndAt() time.Time {
	if iv.End == nil {
		return iv.StartAt()
	}
	end := iv.End.At(iv.Date)
	if iv.Overnight() {
		end = end.AddDate(0, 0, 1)
	}
	return end
}
