package clt

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DailyCeilingSeconds is the maximum worked time per accounting
	// day: the standard shift plus two hours of overtime, 10h48m.
	DailyCeilingSeconds = 10*3600 + 48*60
	// ContinuousMaxSeconds is the longest stretch allowed without a
	// break, 6h.
	ContinuousMaxSeconds = 6 * 3600
	// RestMinimumSeconds is the minimum rest between two accounting
	// days, 11h.
	RestMinimumSeconds = 11 * 3600
)

// Entry is an interval plus its current compliance flag, as read from
// and written back to storage.
type Entry struct {
	Interval
	Attention   bool
	AlertReason string
}

// FlagUpdate carries a recomputed flag for one entry.
type FlagUpdate struct {
	ID          uuid.UUID
	Attention   bool
	AlertReason string
}

// EntryStore is what the evaluator needs from persistence.
type EntryStore interface {
	// ListByDateRange returns one employee's entries whose calendar
	// date falls within [from, to] inclusive, ordered by date then
	// start time.
	ListByDateRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]Entry, error)
	// UpdateFlags persists recomputed flags in one batch.
	UpdateFlags(ctx context.Context, updates []FlagUpdate) error
}

// Evaluator recomputes compliance flags. Evaluating a date also
// re-evaluates its neighbours, since an edit on one day can create or
// clear violations on the days beside it.
type Evaluator struct {
	store  EntryStore
	logger *zap.Logger
}

func NewEvaluator(store EntryStore, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{store: store, logger: logger.Named("clt_evaluator")}
}

// Evaluate recomputes the flags of the accounting day containing date
// and of the two adjacent accounting days. A failure on one day does
// not stop the others; the errors are joined.
func (ev *Evaluator) Evaluate(ctx context.Context, employeeID uuid.UUID, date time.Time) error {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	var errs []error
	for _, d := range []time.Time{day.AddDate(0, 0, -1), day, day.AddDate(0, 0, 1)} {
		if err := ev.evaluateDay(ctx, employeeID, d); err != nil {
			ev.logger.Error("day evaluation failed",
				zap.String("employee_id", employeeID.String()),
				zap.Time("day", d),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("day %s: %w", d.Format("2006-01-02"), err))
		}
	}
	return errors.Join(errs...)
}

// evaluateDay runs the three rules over one accounting day and writes
// back only the flags that changed, keeping the pass idempotent.
func (ev *Evaluator) evaluateDay(ctx context.Context, employeeID uuid.UUID, day time.Time) error {
	entries, err := ev.store.ListByDateRange(ctx, employeeID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}

	windowStart := WorkdayStart.At(day)
	valid := make([]Entry, 0, len(entries))
	for _, e := range entries {
		startAt := e.StartAt()
		if !startAt.Before(windowStart) && startAt.Before(windowStart.AddDate(0, 0, 1)) {
			valid = append(valid, e)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].StartAt().Before(valid[j].StartAt())
	})

	alerts := make(map[uuid.UUID][]string, len(valid))

	// Rule 1: daily ceiling. Exceeding it taints every entry of the
	// day, since the total is a property of the day, not of one entry.
	total := 0
	for _, e := range valid {
		total += e.Seconds()
	}
	if total > DailyCeilingSeconds {
		msg := fmt.Sprintf("Daily total of %s exceeded the %s limit",
			FormatDurationH(total), FormatDurationH(DailyCeilingSeconds))
		for _, e := range valid {
			alerts[e.ID] = append(alerts[e.ID], msg)
		}
	}

	// Rule 2: continuous work. The running stretch carries across
	// entries only when one starts exactly where the previous ended;
	// any gap, however small, resets it.
	continuous := 0
	var lastEnd time.Time
	for _, e := range valid {
		dur := e.Seconds()
		if !lastEnd.IsZero() && e.StartAt().Equal(lastEnd) {
			continuous += dur
		} else {
			continuous = dur
		}
		lastEnd = e.EndAt()
		if continuous > ContinuousMaxSeconds {
			alerts[e.ID] = append(alerts[e.ID],
				fmt.Sprintf("Continuous work of %s without the mandatory break (limit %s)",
					FormatDurationH(continuous), FormatDurationH(ContinuousMaxSeconds)))
		}
	}

	// Rule 3: inter-shift rest. Measured from the end of the previous
	// accounting day's last entry to the start of this day's first.
	if len(valid) > 0 {
		prevEnd, ok, err := ev.previousDayEnd(ctx, employeeID, day)
		if err != nil {
			return fmt.Errorf("resolving previous day end: %w", err)
		}
		if ok {
			gap := valid[0].StartAt().Sub(prevEnd)
			if gap > 0 && gap < RestMinimumSeconds*time.Second {
				alerts[valid[0].ID] = append(alerts[valid[0].ID],
					fmt.Sprintf("Inter-shift rest of %s (minimum %s)",
						FormatDurationH(int(gap/time.Second)), FormatDurationH(RestMinimumSeconds)))
			}
		}
	}

	updates := make([]FlagUpdate, 0, len(valid))
	for _, e := range valid {
		attention := len(alerts[e.ID]) > 0
		reason := strings.Join(alerts[e.ID], " | ")
		if attention != e.Attention || reason != e.AlertReason {
			updates = append(updates, FlagUpdate{ID: e.ID, Attention: attention, AlertReason: reason})
		}
	}
	if len(updates) == 0 {
		return nil
	}
	if err := ev.store.UpdateFlags(ctx, updates); err != nil {
		return fmt.Errorf("updating flags: %w", err)
	}
	return nil
}

// previousDayEnd finds when the previous accounting day's work ended:
// the latest wraparound-adjusted end instant that still falls inside
// the previous day's window. Open entries compete for the last slot at
// their start instant; when one wins, the day has no usable end and the
// rest check stays silent.
func (ev *Evaluator) previousDayEnd(ctx context.Context, employeeID uuid.UUID, day time.Time) (time.Time, bool, error) {
	prev := day.AddDate(0, 0, -1)
	entries, err := ev.store.ListByDateRange(ctx, employeeID, prev, day)
	if err != nil {
		return time.Time{}, false, err
	}
	prevWindowStart := WorkdayStart.At(prev)
	prevWindowEnd := WorkdayStart.At(day)

	var best time.Time
	found := false
	bestOpen := false
	for _, e := range entries {
		endAt := e.EndAt()
		if endAt.Before(prevWindowStart) || !endAt.Before(prevWindowEnd) {
			continue
		}
		if !found || endAt.After(best) {
			best = endAt
			found = true
			bestOpen = e.End == nil
		}
	}
	if bestOpen {
		return time.Time{}, false, nil
	}
	return best, found, nil
}
