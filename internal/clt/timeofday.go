package clt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed as seconds since midnight,
// in the range [0, 86400).
type TimeOfDay int

const (
	SecondsPerDay = 24 * 60 * 60

	// WorkdayStart is when the accounting day rolls over. Anything
	// before 06:00 belongs to the previous accounting day.
	WorkdayStart = TimeOfDay(6 * 60 * 60)
)

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM or HH:MM:SS", s)
	}

	fields := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("invalid time of day %q, expected HH:MM or HH:MM:SS", s)
		}
		fields[i] = v
	}

	h, m, sec := fields[0], fields[1], fields[2]
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay(h*3600 + m*60 + sec), nil
}

// ClockAt builds a TimeOfDay from hour and minute. Inputs are trusted.
func ClockAt(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60)
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return (int(t) % 3600) / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

// String renders "HH:MM:SS", the wire/database format.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Clock renders "HH:MM", the display format.
func (t TimeOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// At anchors the time of day on a calendar date.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, date.Location())
}

// Duration returns the number of worked seconds between start and end.
// An end numerically earlier than start means the shift crossed
// midnight and is read as end+24h. Never negative.
func Duration(start, end TimeOfDay) int {
	if end < start {
		return (SecondsPerDay - int(start)) + int(end)
	}
	return int(end) - int(start)
}

// FormatDuration renders seconds as "HH:MM", flooring to whole minutes.
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// FormatDurationH renders seconds as "HH:MMh", the style used in
// compliance alert messages.
func FormatDurationH(seconds int) string {
	return FormatDuration(seconds) + "h"
}

// AccountingDate attributes a timestamp to its working day: the window
// runs 06:00 through 05:59:59 of the next calendar day, so timestamps
// before 06:00 belong to the previous date.
func AccountingDate(ts time.Time) time.Time {
	d := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	if ts.Hour() < WorkdayStart.Hour() {
		return d.AddDate(0, 0, -1)
	}
	return d
}

// AccountingDateFor attributes an entry (calendar date + start time) to
// its accounting day.
func AccountingDateFor(date time.Time, start TimeOfDay) time.Time {
	return AccountingDate(start.At(date))
}
