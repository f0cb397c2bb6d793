package clt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, ClockAt(8, 30), got)

	got, err = ParseTimeOfDay("12:00")
	require.NoError(t, err)
	assert.Equal(t, ClockAt(12, 0), got)

	got, err = ParseTimeOfDay("23:59:59")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(23*3600+59*60+59), got)

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("12:60")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("12")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("12:00:00:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("12:xx")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("bogus")
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 4*3600, Duration(ClockAt(8, 0), ClockAt(12, 0)))
	// Overnight shift: end earlier than start means it crossed midnight.
	assert.Equal(t, 9*3600, Duration(ClockAt(22, 0), ClockAt(7, 0)))
	assert.Equal(t, 0, Duration(ClockAt(9, 0), ClockAt(9, 0)))
}

func TestFormatDurationFloors(t *testing.T) {
	assert.Equal(t, "01:30", FormatDuration(90*60+59))
	assert.Equal(t, "10:48", FormatDuration(DailyCeilingSeconds))
	assert.Equal(t, "00:00", FormatDuration(0))
	assert.Equal(t, "11:00h", FormatDurationH(11*3600))
}

func TestAccountingDate(t *testing.T) {
	loc := time.UTC
	// 04:00 belongs to the previous working day.
	got := AccountingDate(time.Date(2025, 3, 11, 4, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), got)

	// 06:00 opens the new working day.
	got = AccountingDate(time.Date(2025, 3, 11, 6, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, loc), got)

	got = AccountingDate(time.Date(2025, 3, 11, 5, 59, 59, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), got)

	got = AccountingDateFor(time.Date(2025, 3, 11, 0, 0, 0, 0, loc), ClockAt(23, 0))
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, loc), got)
}
