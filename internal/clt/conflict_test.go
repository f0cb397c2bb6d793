package clt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tod(h, m int) *TimeOfDay {
	v := ClockAt(h, m)
	return &v
}

func iv(id uuid.UUID, start TimeOfDay, end *TimeOfDay) Interval {
	return Interval{
		ID:    id,
		Date:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Start: start,
		End:   end,
		Label: "Office",
	}
}

func TestFindConflictSameDayOverlap(t *testing.T) {
	existing := iv(uuid.New(), ClockAt(9, 0), tod(12, 0))
	cand := iv(uuid.Nil, ClockAt(11, 0), tod(13, 0))

	c := FindConflict(cand, []Interval{existing}, nil, uuid.Nil)
	require.NotNil(t, c)
	assert.Equal(t, ConflictSameDay, c.Kind)
	assert.Equal(t, existing.ID, c.Entry.ID)
	assert.Contains(t, c.Message(), "09:00 to 12:00")
}

func TestFindConflictAdjacentIsClean(t *testing.T) {
	existing := iv(uuid.New(), ClockAt(9, 0), tod(12, 0))
	cand := iv(uuid.Nil, ClockAt(12, 0), tod(14, 0))
	assert.Nil(t, FindConflict(cand, []Interval{existing}, nil, uuid.Nil))
}

func TestFindConflictOvernightExistingEntry(t *testing.T) {
	// An entry running 22:00 into 02:00 recorded on the same date
	// collides with an evening candidate.
	existing := iv(uuid.New(), ClockAt(22, 0), tod(2, 0))
	cand := iv(uuid.Nil, ClockAt(23, 0), tod(23, 30))

	c := FindConflict(cand, []Interval{existing}, nil, uuid.Nil)
	require.NotNil(t, c)
	assert.Equal(t, ConflictSameDay, c.Kind)
}

func TestFindConflictOvernightCandidate(t *testing.T) {
	existing := iv(uuid.New(), ClockAt(1, 0), tod(3, 0))
	cand := iv(uuid.Nil, ClockAt(23, 0), tod(2, 0))

	c := FindConflict(cand, []Interval{existing}, nil, uuid.Nil)
	require.NotNil(t, c)
	assert.Equal(t, ConflictSameDay, c.Kind)
}

func TestFindConflictPreviousDayTail(t *testing.T) {
	prev := iv(uuid.New(), ClockAt(22, 0), tod(9, 0))
	prev.Date = prev.Date.AddDate(0, 0, -1)
	cand := iv(uuid.Nil, ClockAt(8, 0), tod(12, 0))

	c := FindConflict(cand, nil, []Interval{prev}, uuid.Nil)
	require.NotNil(t, c)
	assert.Equal(t, ConflictPreviousDay, c.Kind)
	assert.Contains(t, c.Message(), "previous day")
}

func TestFindConflictPreviousDayEndedBeforeCandidate(t *testing.T) {
	prev := iv(uuid.New(), ClockAt(22, 0), tod(6, 0))
	prev.Date = prev.Date.AddDate(0, 0, -1)
	cand := iv(uuid.Nil, ClockAt(8, 0), tod(12, 0))
	assert.Nil(t, FindConflict(cand, nil, []Interval{prev}, uuid.Nil))
}

func TestFindConflictSameDayWinsOverPreviousDay(t *testing.T) {
	same := iv(uuid.New(), ClockAt(8, 30), tod(10, 0))
	prev := iv(uuid.New(), ClockAt(22, 0), tod(9, 0))
	prev.Date = prev.Date.AddDate(0, 0, -1)
	cand := iv(uuid.Nil, ClockAt(8, 0), tod(12, 0))

	c := FindConflict(cand, []Interval{same}, []Interval{prev}, uuid.Nil)
	require.NotNil(t, c)
	assert.Equal(t, ConflictSameDay, c.Kind)
	assert.Equal(t, same.ID, c.Entry.ID)
}

func TestFindConflictExcludesEditedEntry(t *testing.T) {
	existing := iv(uuid.New(), ClockAt(9, 0), tod(12, 0))
	cand := iv(existing.ID, ClockAt(9, 30), tod(11, 0))
	assert.Nil(t, FindConflict(cand, []Interval{existing}, nil, existing.ID))
}

func TestFindConflictIgnoresOpenEntries(t *testing.T) {
	open := iv(uuid.New(), ClockAt(9, 0), nil)
	cand := iv(uuid.Nil, ClockAt(9, 30), tod(11, 0))
	assert.Nil(t, FindConflict(cand, []Interval{open}, nil, uuid.Nil))
}

func TestFindConflictOpenCandidateNeverConflicts(t *testing.T) {
	existing := iv(uuid.New(), ClockAt(9, 0), tod(12, 0))
	cand := iv(uuid.Nil, ClockAt(10, 0), nil)
	assert.Nil(t, FindConflict(cand, []Interval{existing}, nil, uuid.Nil))
}
