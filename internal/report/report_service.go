package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"go-timesheet/internal/clt"
	"go-timesheet/internal/employee"
	"go-timesheet/internal/notification"
	"go-timesheet/internal/timesheet"
)

// EntrySource is the slice of the timesheet repository the reports
// read from.
type EntrySource interface {
	ListByDate(ctx context.Context, date time.Time) ([]timesheet.Entry, error)
	ListSince(ctx context.Context, from time.Time) ([]timesheet.Entry, error)
}

// EmployeeSource supplies the population the dashboard and the sweep
// walk over.
type EmployeeSource interface {
	FindActive(ctx context.Context) ([]employee.Employee, error)
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Dashboard(ctx context.Context, date time.Time) (DashboardResponse, error)
	Export(ctx context.Context, days int) ([]ExportRow, error)
	// SweepPendencies notifies every active employee who is absent or
	// below target on the reference date. Safe to rerun; delivery is
	// deduplicated per employee, kind and day.
	SweepPendencies(ctx context.Context, date time.Time) (SweepResult, error)
}

type service struct {
	entries      EntrySource
	employees    EmployeeSource
	resolver     *clt.TargetResolver
	notification notification.Service
	logger       *zap.Logger
}

func NewService(
	entries EntrySource,
	employees EmployeeSource,
	resolver *clt.TargetResolver,
	notificationService notification.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		entries:      entries,
		employees:    employees,
		resolver:     resolver,
		notification: notificationService,
		logger:       l,
	}
}

// resolveTarget applies the per-employee schedule override on top of
// the calendar-derived target.
func (s *service) resolveTarget(ctx context.Context, emp *employee.Employee, date time.Time) clt.DailyTarget {
	target := s.resolver.Resolve(ctx, clt.ParseRoleCategory(emp.JobTitle), date, emp.City, emp.State)
	if !target.Notify {
		return target
	}
	if emp.TargetSeconds != nil {
		target.TargetSeconds = *emp.TargetSeconds
	}
	if emp.ToleranceSeconds != nil {
		target.ToleranceSeconds = *emp.ToleranceSeconds
	}
	return target
}

func signedDuration(seconds int) string {
	if seconds < 0 {
		return "-" + clt.FormatDuration(-seconds)
	}
	return "+" + clt.FormatDuration(seconds)
}

func (s *service) Dashboard(ctx context.Context, date time.Time) (DashboardResponse, error) {
	employees, err := s.employees.FindActive(ctx)
	if err != nil {
		return DashboardResponse{}, err
	}
	entries, err := s.entries.ListByDate(ctx, date)
	if err != nil {
		return DashboardResponse{}, err
	}

	worked := make(map[string]int, len(employees))
	reasons := make(map[string]string, len(employees))
	for i := range entries {
		e := &entries[i]
		key := e.EmployeeID.String()
		worked[key] += e.DurationSeconds()
		if e.Attention && reasons[key] == "" {
			reasons[key] = e.AlertReason
		}
	}

	out := DashboardResponse{
		Date:       date.Format("2006-01-02"),
		Ok:         []DashboardRow{},
		Incomplete: []DashboardRow{},
		Absent:     []DashboardRow{},
	}
	for i := range employees {
		emp := &employees[i]
		target := s.resolveTarget(ctx, emp, date)
		if !target.Notify {
			out.Skipped++
			continue
		}

		key := emp.ID.String()
		total := worked[key]
		row := DashboardRow{
			EmployeeID:     key,
			Name:           emp.FullName,
			WorkedSeconds:  total,
			Worked:         clt.FormatDuration(total),
			TargetSeconds:  target.TargetSeconds,
			Target:         clt.FormatDuration(target.TargetSeconds),
			BalanceSeconds: total - target.TargetSeconds,
			Balance:        signedDuration(total - target.TargetSeconds),
			AlertReason:    reasons[key],
		}
		switch {
		case total == 0:
			out.Absent = append(out.Absent, row)
		case total+target.ToleranceSeconds < target.TargetSeconds:
			out.Incomplete = append(out.Incomplete, row)
		default:
			out.Ok = append(out.Ok, row)
		}
	}

	considered := len(out.Ok) + len(out.Incomplete) + len(out.Absent)
	if considered > 0 {
		out.AdherencePercent = math.Round(float64(len(out.Ok))/float64(considered)*1000) / 10
	}
	return out, nil
}

func (s *service) Export(ctx context.Context, days int) ([]ExportRow, error) {
	if days <= 0 {
		days = 45
	}
	from := time.Now().AddDate(0, 0, -days)
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	entries, err := s.entries.ListSince(ctx, from)
	if err != nil {
		return nil, err
	}
	employees, err := s.employees.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(employees))
	for i := range employees {
		names[employees[i].ID.String()] = employees[i].FullName
	}

	rows := make([]ExportRow, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		row := ExportRow{
			ID:            e.ID.String(),
			EmployeeID:    e.EmployeeID.String(),
			EmployeeName:  names[e.EmployeeID.String()],
			Date:          e.Date.Format("2006-01-02"),
			Start:         e.Start.Clock(),
			Duration:      clt.FormatDuration(e.DurationSeconds()),
			Location:      e.Location,
			Status:        e.Status,
			Attention:     e.Attention,
			AlertReason:   e.AlertReason,
			Latitude:      e.Latitude,
			Longitude:     e.Longitude,
			ReviewComment: e.ReviewComment,
		}
		if e.End != nil {
			row.End = e.End.Clock()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *service) SweepPendencies(ctx context.Context, date time.Time) (SweepResult, error) {
	employees, err := s.employees.FindActive(ctx)
	if err != nil {
		return SweepResult{}, err
	}
	entries, err := s.entries.ListByDate(ctx, date)
	if err != nil {
		return SweepResult{}, err
	}
	worked := make(map[string]int, len(employees))
	for i := range entries {
		worked[entries[i].EmployeeID.String()] += entries[i].DurationSeconds()
	}

	var result SweepResult
	day := date.Format("02/01/2006")
	for i := range employees {
		emp := &employees[i]
		target := s.resolveTarget(ctx, emp, date)
		if !target.Notify {
			result.Skipped++
			continue
		}

		total := worked[emp.ID.String()]
		switch {
		case total == 0:
			err = s.notification.NotifyOncePerDay(ctx, emp.ID, notification.KindAbsent,
				"Absence recorded",
				fmt.Sprintf("No working hours were recorded for you on %s. If you did work, request an adjustment.", day),
				date)
			if err == nil {
				result.Absent++
			}
		case total+target.ToleranceSeconds < target.TargetSeconds:
			missing := target.TargetSeconds - total
			err = s.notification.NotifyOncePerDay(ctx, emp.ID, notification.KindIncompleteHours,
				"Incomplete hours",
				fmt.Sprintf("You recorded %s on %s, %s short of your %s target.",
					clt.FormatDuration(total), day, clt.FormatDuration(missing), clt.FormatDuration(target.TargetSeconds)),
				date)
			if err == nil {
				result.Incomplete++
			}
		}
		if err != nil {
			s.logger.Error("pendency notification failed",
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err))
			err = nil
		}
	}
	return result, nil
}
