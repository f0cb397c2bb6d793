package clt

import (
	"context"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RoleCategory classifies a job title for target purposes. Parsing raw
// titles is confined to ParseRoleCategory; everything downstream works
// with the enum.
type RoleCategory int

const (
	RoleGeneral RoleCategory = iota
	RoleApprentice
	RoleManager
	RoleController
	RoleDirector
	RolePartner
)

func (r RoleCategory) String() string {
	switch r {
	case RoleApprentice:
		return "APPRENTICE"
	case RoleManager:
		return "MANAGER"
	case RoleController:
		return "CONTROLLER"
	case RoleDirector:
		return "DIRECTOR"
	case RolePartner:
		return "PARTNER"
	default:
		return "GENERAL"
	}
}

// ParseRoleCategory maps a free-form job title to its category. The
// match is case and accent insensitive on well-known keywords; anything
// unrecognised is RoleGeneral.
func ParseRoleCategory(title string) RoleCategory {
	t := strings.ToUpper(strings.TrimSpace(title))
	t = stripAccents(t)
	switch {
	case strings.Contains(t, "JOVEM APRENDIZ") || strings.Contains(t, "APRENDIZ"):
		return RoleApprentice
	case strings.Contains(t, "CONTROLLER"):
		return RoleController
	case strings.Contains(t, "DIRETOR") || strings.Contains(t, "DIRECTOR"):
		return RoleDirector
	case strings.Contains(t, "SOCIO") || strings.Contains(t, "PARTNER"):
		return RolePartner
	case strings.Contains(t, "GERENTE") || strings.Contains(t, "MANAGER"):
		return RoleManager
	default:
		return RoleGeneral
	}
}

// stripAccents folds "SÓCIO" to "SOCIO" and the like. Decompose,
// drop the combining marks, recompose. The transformer chain is
// stateful, so it is built per call.
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// ExemptFromDailyTarget reports whether the category is outside the
// daily target and notification regime.
func (r RoleCategory) ExemptFromDailyTarget() bool {
	switch r {
	case RoleApprentice, RoleManager, RoleController, RoleDirector, RolePartner:
		return true
	}
	return false
}

const (
	// DefaultTargetSeconds is the standard daily working target, 8h48m.
	DefaultTargetSeconds = 8*3600 + 48*60
	// DefaultToleranceSeconds is the slack below the target before an
	// incomplete-hours notification goes out.
	DefaultToleranceSeconds = 15 * 60

	// FallbackToleranceSeconds applies when the holiday lookup failed
	// and the resolver cannot tell whether the date is a working day.
	FallbackToleranceSeconds = 10 * 60
)

// HolidayLookup answers whether a date is a holiday at the employee's
// workplace. Implementations may cache; the resolver treats a lookup
// failure as a signal to fall back, never as a hard error.
type HolidayLookup interface {
	IsHoliday(ctx context.Context, date time.Time, city, state string) (bool, error)
}

// DailyTarget is the resolved expectation for one employee-day.
type DailyTarget struct {
	TargetSeconds    int
	ToleranceSeconds int
	// Notify is false for days where no target applies (weekends,
	// holidays, exempt roles).
	Notify    bool
	OffReason string
}

// TargetResolver computes DailyTarget values from the role category and
// the calendar.
type TargetResolver struct {
	holidays HolidayLookup
	logger   *zap.Logger
}

func NewTargetResolver(holidays HolidayLookup, logger *zap.Logger) *TargetResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TargetResolver{holidays: holidays, logger: logger.Named("target_resolver")}
}

// Resolve returns the daily target for a role on a date at a workplace.
// Weekends and holidays zero the target; exempt roles always get zero.
// A holiday lookup failure degrades to the default target with the
// fallback tolerance instead of failing the caller.
func (r *TargetResolver) Resolve(ctx context.Context, role RoleCategory, date time.Time, city, state string) DailyTarget {
	if role.ExemptFromDailyTarget() {
		return DailyTarget{OffReason: "exempt role"}
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return DailyTarget{OffReason: "weekend"}
	}
	holiday, err := r.holidays.IsHoliday(ctx, date, city, state)
	if err != nil {
		r.logger.Warn("holiday lookup failed, using fallback target",
			zap.String("city", city),
			zap.String("state", state),
			zap.Time("date", date),
			zap.Error(err))
		return DailyTarget{
			TargetSeconds:    DefaultTargetSeconds,
			ToleranceSeconds: FallbackToleranceSeconds,
			Notify:           true,
		}
	}
	if holiday {
		return DailyTarget{OffReason: "holiday"}
	}
	return DailyTarget{
		TargetSeconds:    DefaultTargetSeconds,
		ToleranceSeconds: DefaultToleranceSeconds,
		Notify:           true,
	}
}
