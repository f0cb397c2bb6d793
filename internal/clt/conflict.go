package clt

import (
	"fmt"

	"github.com/google/uuid"
)

// ConflictKind tells which collision rule fired.
type ConflictKind int

const (
	// ConflictSameDay means the candidate overlaps an entry recorded on
	// the same calendar date.
	ConflictSameDay ConflictKind = iota
	// ConflictPreviousDay means an overnight entry from the previous
	// calendar date spills into the candidate (inter-shift collision).
	ConflictPreviousDay
)

// Conflict describes a collision between a candidate interval and an
// already recorded one.
type Conflict struct {
	Kind  ConflictKind
	Entry Interval
}

// Message is the user-facing description of the collision.
func (c Conflict) Message() string {
	end := "open"
	if c.Entry.End != nil {
		end = c.Entry.End.Clock()
	}
	switch c.Kind {
	case ConflictPreviousDay:
		return fmt.Sprintf("conflicts with an overnight entry from the previous day (%s, %s to %s)",
			c.Entry.Label, c.Entry.Start.Clock(), end)
	default:
		return fmt.Sprintf("conflicts with an existing entry (%s, %s to %s)",
			c.Entry.Label, c.Entry.Start.Clock(), end)
	}
}

// FindConflict checks a candidate interval against the employee's
// entries of the same calendar date and of the previous one. Same-day
// collisions win over previous-day ones, and within each group the
// first recorded match is reported. excludeID skips the entry being
// edited; pass uuid.Nil when creating.
//
// The candidate must be closed (End non nil). Recorded entries that
// are still open never collide.
func FindConflict(cand Interval, sameDay, previousDay []Interval, excludeID uuid.UUID) *Conflict {
	if cand.End == nil {
		return nil
	}
	for _, e := range sameDay {
		if e.ID == excludeID {
			continue
		}
		if overlapsSameDay(cand, e) {
			e := e
			return &Conflict{Kind: ConflictSameDay, Entry: e}
		}
	}
	for _, e := range previousDay {
		if e.ID == excludeID {
			continue
		}
		// Only an overnight tail reaches into the candidate's date.
		if e.Overnight() && *e.End > cand.Start {
			e := e
			return &Conflict{Kind: ConflictPreviousDay, Entry: e}
		}
	}
	return nil
}

func overlapsSameDay(cand, e Interval) bool {
	if e.End == nil {
		return false
	}
	start, end := cand.Start, *cand.End
	if end < start {
		// Overnight candidate: anything on the same date that touches
		// either the evening leg or the post-midnight leg collides.
		if e.Start >= start || *e.End > start {
			return true
		}
		return e.Start < end || (*e.End > 0 && *e.End < end)
	}
	if e.Start < end && *e.End > start {
		return true
	}
	// Overnight recorded entry whose evening leg starts inside the
	// candidate window.
	return e.Overnight() && e.Start < end
}
