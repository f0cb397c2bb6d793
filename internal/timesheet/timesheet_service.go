package timesheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-timesheet/internal/audit"
	"go-timesheet/internal/clt"
	"go-timesheet/internal/events"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/rbac"
	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shared/counter"
	timesheeterrors "go-timesheet/internal/timesheet/errors"
)

const auditModel = "Entry"

//go:generate mockgen -source=timesheet_service.go -destination=mock/timesheet_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, actor Actor, req CheckInRequest) (EntryResponse, error)
	CheckOut(ctx context.Context, actor Actor) (EntryResponse, error)
	Create(ctx context.Context, actor Actor, req CreateEntryRequest) ([]EntryResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateEntryRequest) (EntryResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	RequestAdjustment(ctx context.Context, actor Actor, id string, req AdjustmentRequest) (EntryResponse, error)
	ApproveAdjustment(ctx context.Context, actor Actor, id string) (EntryResponse, error)
	Review(ctx context.Context, actor Actor, id string, req ReviewRequest) (EntryResponse, error)
	GetAll(ctx context.Context, actor Actor, filter ListFilter) ([]EntryResponse, int64, error)
	GetByID(ctx context.Context, actor Actor, id string) (EntryResponse, error)
	GetHistory(ctx context.Context, id string) ([]HistoryResponse, error)
	// AutoApprove closes out unedited, compliant entries whose
	// approval trigger has passed. Returns how many were approved.
	AutoApprove(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	catalog   LocationCatalog
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	audit     *audit.Sink
	evaluator *clt.Evaluator
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	locationCatalog LocationCatalog,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	auditSink *audit.Sink,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("timesheet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		catalog:   locationCatalog,
		counter:   counterRepo,
		outbox:    outboxRepo,
		audit:     auditSink,
		evaluator: clt.NewEvaluator(repo, l),
		logger:    l,
	}
}

func timeOfDayNow(now time.Time) clt.TimeOfDay {
	return clt.TimeOfDay(now.Hour()*3600 + now.Minute()*60 + now.Second())
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) CheckIn(ctx context.Context, actor Actor, req CheckInRequest) (EntryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindOpen(ctx, actor.EmployeeID.String()); err == nil {
		return EntryResponse{}, timesheeterrors.ErrOpenEntryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return EntryResponse{}, err
	}

	loc, err := s.resolveLocation(ctx, req.LocationRequest)
	if err != nil {
		return EntryResponse{}, err
	}
	vehicleID, vehicleModel, vehiclePlate, err := s.resolveVehicle(ctx, req.VehicleID, req.VehicleModel, req.VehiclePlate)
	if err != nil {
		return EntryResponse{}, err
	}
	helperID, err := parseOptionalUUID(req.HelperID)
	if err != nil {
		return EntryResponse{}, invalidInput("Invalid helper reference")
	}

	now := time.Now()
	entry := &Entry{
		ID:           uuid.New(),
		EmployeeID:   actor.EmployeeID,
		Date:         dateOnly(now),
		Start:        timeOfDayNow(now),
		Location:     loc.Location,
		ProjectID:    loc.ProjectID,
		ClientCodeID: loc.ClientCodeID,
		CostCenterID: loc.CostCenterID,
		VehicleID:    vehicleID,
		VehicleModel: vehicleModel,
		VehiclePlate: vehiclePlate,
		HelperID:     helperID,
		Notes:        req.Notes,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Status:       StatusInReview,
		RegisteredBy: actor.UserID,
	}
	if err := qtx.Create(ctx, entry); err != nil {
		return EntryResponse{}, mapEntryError(err)
	}
	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	s.record(actor, audit.ActionCreate, entry.ID.String(),
		fmt.Sprintf("Check-in at %s", entry.Start.Clock()))
	return mapToResponse(entry), nil
}

func (s *service) CheckOut(ctx context.Context, actor Actor) (EntryResponse, error) {
	entry, err := s.repo.FindOpen(ctx, actor.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EntryResponse{}, timesheeterrors.ErrNoOpenEntry
		}
		return EntryResponse{}, err
	}

	now := time.Now()
	end := timeOfDayNow(now)
	entry.End = &end
	if err := s.repo.Update(ctx, entry); err != nil {
		return EntryResponse{}, err
	}

	s.record(actor, audit.ActionEdit, entry.ID.String(),
		fmt.Sprintf("Check-out at %s, duration %s", end.Clock(), clt.FormatDuration(entry.DurationSeconds())))
	s.evaluateAndPublish(ctx, entry.EmployeeID, entry.Date, entry.Start)
	return mapToResponse(entry), nil
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateEntryRequest) ([]EntryResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, invalidInput("Invalid employee reference")
	}
	if actor.Role == rbac.RoleEmployee && employeeID != actor.EmployeeID {
		return nil, timesheeterrors.ErrNotOwner
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, invalidInput("Invalid date")
	}
	start, err := clt.ParseTimeOfDay(req.Start)
	if err != nil {
		return nil, invalidInput("Invalid start time")
	}
	end, err := clt.ParseTimeOfDay(req.End)
	if err != nil {
		return nil, invalidInput("Invalid end time")
	}

	if _, err := s.repo.FindOpen(ctx, employeeID.String()); err == nil {
		return nil, timesheeterrors.ErrOpenEntryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	loc, err := s.resolveLocation(ctx, req.LocationRequest)
	if err != nil {
		return nil, err
	}
	vehicleID, vehicleModel, vehiclePlate, err := s.resolveVehicle(ctx, req.VehicleID, req.VehicleModel, req.VehiclePlate)
	if err != nil {
		return nil, err
	}
	helperID, err := parseOptionalUUID(req.HelperID)
	if err != nil {
		return nil, invalidInput("Invalid helper reference")
	}

	cand := clt.Interval{ID: uuid.New(), Date: date, Start: start, End: &end}
	if err := s.checkConflict(ctx, cand, employeeID.String(), uuid.Nil); err != nil {
		return nil, err
	}

	base := Entry{
		EmployeeID:   employeeID,
		Date:         date,
		Start:        start,
		End:          &end,
		Location:     loc.Location,
		ProjectID:    loc.ProjectID,
		ClientCodeID: loc.ClientCodeID,
		CostCenterID: loc.CostCenterID,
		VehicleID:    vehicleID,
		VehicleModel: vehicleModel,
		VehiclePlate: vehiclePlate,
		HelperID:     helperID,
		Notes:        req.Notes,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Status:       StatusInReview,
		RegisteredBy: actor.UserID,
	}
	if req.OnCall {
		base.OnCall = true
		if d, err := time.Parse("2006-01-02", req.OnCallDate); err == nil {
			base.OnCallDate = &d
		}
	}
	if req.SleepAway {
		base.SleepAway = true
		if d, err := time.Parse("2006-01-02", req.SleepAwayDate); err == nil {
			base.SleepAwayDate = &d
		}
	}

	entries, err := s.fanOut(ctx, base, req.Allocations)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)
	if err := qtx.CreateBatch(ctx, entries); err != nil {
		return nil, mapEntryError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	for _, e := range entries {
		s.record(actor, audit.ActionCreate, e.ID.String(),
			fmt.Sprintf("Entry created: %s %s-%s", e.Date.Format("2006-01-02"), e.Start.Clock(), e.End.Clock()))
	}
	s.evaluateAndPublish(ctx, employeeID, date, start)
	return mapToResponses(entries), nil
}

// fanOut turns one submission into its pro-rata slices. Without
// allocations the base entry is the only slice.
func (s *service) fanOut(ctx context.Context, base Entry, allocations []AllocationRequest) ([]*Entry, error) {
	if len(allocations) == 0 {
		e := base
		e.ID = uuid.New()
		return []*Entry{&e}, nil
	}

	type target struct {
		projectID    *uuid.UUID
		clientCodeID *uuid.UUID
	}
	targets := []target{{projectID: base.ProjectID, clientCodeID: base.ClientCodeID}}
	for _, alloc := range allocations {
		projectID, err := parseOptionalUUID(alloc.ProjectID)
		if err != nil {
			return nil, invalidInput("Invalid project reference in allocation")
		}
		clientCodeID, err := parseOptionalUUID(alloc.ClientCodeID)
		if err != nil {
			return nil, invalidInput("Invalid client code reference in allocation")
		}
		if (projectID == nil) == (clientCodeID == nil) {
			return nil, invalidInput("Each allocation needs exactly one of project or client code")
		}
		if projectID != nil {
			active, err := s.catalog.ProjectActive(ctx, projectID.String())
			if err != nil {
				return nil, err
			}
			if !active {
				return nil, invalidInput("An allocated project is not active")
			}
		}
		if clientCodeID != nil {
			active, err := s.catalog.ClientCodeActive(ctx, clientCodeID.String())
			if err != nil {
				return nil, err
			}
			if !active {
				return nil, invalidInput("An allocated client code is not active")
			}
		}
		targets = append(targets, target{projectID: projectID, clientCodeID: clientCodeID})
	}

	spans := clt.Split(base.Start, *base.End, len(targets))
	grouping := uuid.New()

	entries := make([]*Entry, 0, len(targets))
	for i, tgt := range targets {
		e := base
		e.ID = uuid.New()
		e.GroupingID = &grouping
		e.ProjectID = tgt.projectID
		e.ClientCodeID = tgt.clientCodeID
		e.Start = spans[i].Start
		end := spans[i].End
		e.End = &end
		entries = append(entries, &e)
	}
	return entries, nil
}

func (s *service) Update(ctx context.Context, actor Actor, id string, req UpdateEntryRequest) (EntryResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EntryResponse{}, mapEntryError(err)
	}

	isAdmin := actor.Role == rbac.RoleAdmin
	if !isAdmin && entry.EmployeeID != actor.EmployeeID {
		return EntryResponse{}, timesheeterrors.ErrNotOwner
	}
	if entry.EditCount >= 1 && !isAdmin {
		return EntryResponse{}, timesheeterrors.ErrEditLimitReached
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return EntryResponse{}, invalidInput("Invalid date")
	}
	start, err := clt.ParseTimeOfDay(req.Start)
	if err != nil {
		return EntryResponse{}, invalidInput("Invalid start time")
	}
	end, err := clt.ParseTimeOfDay(req.End)
	if err != nil {
		return EntryResponse{}, invalidInput("Invalid end time")
	}

	loc, err := s.resolveLocation(ctx, req.LocationRequest)
	if err != nil {
		return EntryResponse{}, err
	}
	vehicleID, vehicleModel, vehiclePlate, err := s.resolveVehicle(ctx, req.VehicleID, req.VehicleModel, req.VehiclePlate)
	if err != nil {
		return EntryResponse{}, err
	}
	helperID, err := parseOptionalUUID(req.HelperID)
	if err != nil {
		return EntryResponse{}, invalidInput("Invalid helper reference")
	}

	cand := clt.Interval{ID: entry.ID, Date: date, Start: start, End: &end}
	if err := s.checkConflict(ctx, cand, entry.EmployeeID.String(), entry.ID); err != nil {
		return EntryResponse{}, err
	}

	snapshot, err := json.Marshal(entry)
	if err != nil {
		return EntryResponse{}, err
	}

	prevDate, prevStart := entry.Date, entry.Start

	entry.Date = date
	entry.Start = start
	entry.End = &end
	entry.Location = loc.Location
	entry.ProjectID = loc.ProjectID
	entry.ClientCodeID = loc.ClientCodeID
	entry.CostCenterID = loc.CostCenterID
	entry.VehicleID = vehicleID
	entry.VehicleModel = vehicleModel
	entry.VehiclePlate = vehiclePlate
	entry.HelperID = helperID
	entry.Notes = req.Notes
	entry.EditCount++
	entry.Status = StatusInReview
	entry.ReviewComment = ""

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	history := &EntryHistory{
		ID:         uuid.New(),
		EntryID:    entry.ID,
		Snapshot:   snapshot,
		EditedBy:   actor.UserID,
		EditNumber: entry.EditCount,
	}
	if err := qtx.CreateHistory(ctx, history); err != nil {
		return EntryResponse{}, err
	}
	if err := qtx.Update(ctx, entry); err != nil {
		return EntryResponse{}, mapEntryError(err)
	}
	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	s.record(actor, audit.ActionEdit, entry.ID.String(),
		fmt.Sprintf("Entry edited (version %d)", entry.EditCount))

	s.evaluateAndPublish(ctx, entry.EmployeeID, prevDate, prevStart)
	if !prevDate.Equal(date) || prevStart != start {
		s.evaluateAndPublish(ctx, entry.EmployeeID, date, start)
	}
	return mapToResponse(entry), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id string) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapEntryError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapEntryError(err)
	}

	s.record(actor, audit.ActionDelete, id,
		fmt.Sprintf("Entry deleted: employee %s, date %s", entry.EmployeeID, entry.Date.Format("2006-01-02")))
	s.evaluateAndPublish(ctx, entry.EmployeeID, entry.Date, entry.Start)
	return nil
}

func (s *service) RequestAdjustment(ctx context.Context, actor Actor, id string, req AdjustmentRequest) (EntryResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return EntryResponse{}, timesheeterrors.ErrReasonRequired
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EntryResponse{}, mapEntryError(err)
	}
	if actor.Role == rbac.RoleEmployee && entry.EmployeeID != actor.EmployeeID {
		return EntryResponse{}, timesheeterrors.ErrNotOwner
	}
	if entry.Open() {
		return EntryResponse{}, timesheeterrors.ErrEntryStillOpen
	}

	seq, err := s.counter.GetNextValue(ctx, fmt.Sprint(time.Now().Year()), "adjustment_protocol")
	if err != nil {
		return EntryResponse{}, err
	}
	protocol := fmt.Sprintf("AJ-%d-%06d", time.Now().Year(), seq)

	pending := AdjustmentPending
	entry.Status = StatusAdjustmentRequested
	entry.AdjustmentStatus = &pending
	entry.AdjustmentReason = reason
	entry.AdjustmentProtocol = protocol

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	if err := qtx.Update(ctx, entry); err != nil {
		return EntryResponse{}, mapEntryError(err)
	}
	if err := s.publishTx(ctx, tx, events.AdjustmentRequestedTopic, entry.ID.String(), events.AdjustmentRequestedEvent{
		EventType:  "adjustment_requested",
		RequestID:  contextutil.GetRequestID(ctx),
		EntryID:    entry.ID.String(),
		EmployeeID: entry.EmployeeID.String(),
		Protocol:   protocol,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return EntryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	s.record(actor, audit.ActionAdjustmentRequest, entry.ID.String(),
		fmt.Sprintf("Adjustment requested under protocol %s: %s", protocol, reason))
	return mapToResponse(entry), nil
}

func (s *service) ApproveAdjustment(ctx context.Context, actor Actor, id string) (EntryResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EntryResponse{}, mapEntryError(err)
	}
	if entry.AdjustmentStatus == nil || *entry.AdjustmentStatus != AdjustmentPending {
		return EntryResponse{}, timesheeterrors.ErrNoAdjustmentPending
	}

	approved := AdjustmentApproved
	entry.AdjustmentStatus = &approved
	if err := s.repo.Update(ctx, entry); err != nil {
		return EntryResponse{}, mapEntryError(err)
	}

	s.record(actor, audit.ActionAdjustmentApprove, entry.ID.String(),
		fmt.Sprintf("Adjustment request %s approved", entry.AdjustmentProtocol))
	return mapToResponse(entry), nil
}

func (s *service) Review(ctx context.Context, actor Actor, id string, req ReviewRequest) (EntryResponse, error) {
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return EntryResponse{}, timesheeterrors.ErrCommentRequired
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EntryResponse{}, mapEntryError(err)
	}
	if entry.Status == StatusApproved || entry.Status == StatusRejected {
		return EntryResponse{}, timesheeterrors.ErrAlreadyReviewed
	}

	action := audit.ActionReject
	entry.Status = StatusRejected
	if req.Approve {
		action = audit.ActionApprove
		entry.Status = StatusApproved
	}
	entry.ReviewComment = comment

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	if err := qtx.Update(ctx, entry); err != nil {
		return EntryResponse{}, mapEntryError(err)
	}
	if err := s.publishTx(ctx, tx, events.EntryReviewedTopic, entry.ID.String(), events.EntryReviewedEvent{
		EventType:  "entry_reviewed",
		RequestID:  contextutil.GetRequestID(ctx),
		EntryID:    entry.ID.String(),
		EmployeeID: entry.EmployeeID.String(),
		Approved:   req.Approve,
		Comment:    comment,
		ReviewedBy: actor.UserID.String(),
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return EntryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	s.record(actor, action, entry.ID.String(),
		fmt.Sprintf("Entry %s: %s", strings.ToLower(entry.Status), comment))
	return mapToResponse(entry), nil
}

func (s *service) GetAll(ctx context.Context, actor Actor, filter ListFilter) ([]EntryResponse, int64, error) {
	// Employees only see their own entries.
	if actor.Role == rbac.RoleEmployee {
		filter.EmployeeID = actor.EmployeeID.String()
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]EntryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, mapToResponse(&rows[i]))
	}
	return out, total, nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id string) (EntryResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EntryResponse{}, mapEntryError(err)
	}
	if actor.Role == rbac.RoleEmployee && entry.EmployeeID != actor.EmployeeID {
		return EntryResponse{}, timesheeterrors.ErrNotOwner
	}
	return mapToResponse(entry), nil
}

func (s *service) GetHistory(ctx context.Context, id string) ([]HistoryResponse, error) {
	rows, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, HistoryResponse{
			ID:         h.ID.String(),
			EditNumber: h.EditNumber,
			EditedBy:   h.EditedBy.String(),
			Snapshot:   json.RawMessage(h.Snapshot),
			CreatedAt:  h.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// approvalTrigger computes when an unedited, compliant entry becomes
// eligible for automatic approval, based on when it was submitted:
// daytime submissions (06:00-18:00) wait for the next midnight, evening
// ones for 08:00 the next morning, small-hours ones for 08:00 the same
// day.
func approvalTrigger(submitted time.Time) time.Time {
	hour, minute := submitted.Hour(), submitted.Minute()
	day := time.Date(submitted.Year(), submitted.Month(), submitted.Day(), 0, 0, 0, 0, submitted.Location())

	switch {
	case (hour > 6 || (hour == 6 && minute >= 0)) && (hour < 18 || (hour == 18 && minute == 0)):
		return day.AddDate(0, 0, 1)
	case hour >= 18:
		return day.AddDate(0, 0, 1).Add(8 * time.Hour)
	default:
		return day.Add(8 * time.Hour)
	}
}

func (s *service) AutoApprove(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.repo.ListAutoApprovable(ctx)
	if err != nil {
		return 0, err
	}

	approved := 0
	for i := range candidates {
		entry := &candidates[i]
		trigger := approvalTrigger(entry.CreatedAt.In(now.Location()))
		if now.Before(trigger) {
			continue
		}

		entry.Status = StatusApproved
		entry.ReviewComment = "Automatic approval"
		if err := s.repo.Update(ctx, entry); err != nil {
			s.logger.Error("auto approval update failed",
				zap.String("entry_id", entry.ID.String()),
				zap.Error(err))
			continue
		}

		s.publish(ctx, events.EntryReviewedTopic, entry.ID.String(), events.EntryReviewedEvent{
			EventType:  "entry_reviewed",
			EntryID:    entry.ID.String(),
			EmployeeID: entry.EmployeeID.String(),
			Approved:   true,
			Comment:    "Automatic approval",
			ReviewedBy: "system",
			OccurredAt: time.Now().UTC(),
		})
		if s.audit != nil {
			s.audit.Record(nil, audit.ActionApprove, auditModel, entry.ID.String(),
				fmt.Sprintf("Automatic approval, submitted %s, trigger %s",
					entry.CreatedAt.Format("2006-01-02 15:04"), trigger.Format("2006-01-02 15:04")), "")
		}
		approved++
	}
	return approved, nil
}

// evaluateAndPublish recomputes compliance flags around the changed
// entry's accounting day and emits an event for every entry whose flag
// was raised or whose reason changed. Failures here never surface to
// the caller's mutation.
func (s *service) evaluateAndPublish(ctx context.Context, employeeID uuid.UUID, date time.Time, start clt.TimeOfDay) {
	day := clt.AccountingDateFor(date, start)
	from, to := day.AddDate(0, 0, -2), day.AddDate(0, 0, 2)

	before, err := s.repo.ListByDateRange(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("compliance pre-read failed",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err))
		return
	}
	prior := make(map[uuid.UUID]string, len(before))
	for _, e := range before {
		if e.Attention {
			prior[e.ID] = e.AlertReason
		}
	}

	if err := s.evaluator.Evaluate(ctx, employeeID, day); err != nil {
		s.logger.Error("compliance evaluation failed",
			zap.String("employee_id", employeeID.String()),
			zap.String("accounting_day", day.Format("2006-01-02")),
			zap.Error(err))
	}

	after, err := s.repo.ListByDateRange(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("compliance post-read failed",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err))
		return
	}
	for _, e := range after {
		if !e.Attention {
			continue
		}
		if reason, was := prior[e.ID]; was && reason == e.AlertReason {
			continue
		}
		s.publish(ctx, events.EntryFlaggedTopic, e.ID.String(), events.EntryFlaggedEvent{
			EventType:  "entry_flagged",
			RequestID:  contextutil.GetRequestID(ctx),
			EntryID:    e.ID.String(),
			EmployeeID: employeeID.String(),
			Reason:     e.AlertReason,
			OccurredAt: time.Now().UTC(),
		})
	}
}

func (s *service) publishTx(ctx context.Context, tx *sql.Tx, topic, aggregateID string, payload any) error {
	if s.outbox == nil {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "timesheet_entry",
		AggregateID:   aggregateID,
		EventType:     topic,
		Topic:         topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) publish(ctx context.Context, topic, aggregateID string, payload any) {
	if s.outbox == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("encode outbox payload failed", zap.String("topic", topic), zap.Error(err))
		return
	}
	err = s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "timesheet_entry",
		AggregateID:   aggregateID,
		EventType:     topic,
		Topic:         topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Error("outbox write failed", zap.String("topic", topic), zap.Error(err))
	}
}

func (s *service) record(actor Actor, action, objectID, details string) {
	if s.audit == nil {
		return
	}
	actorID := actor.UserID
	s.audit.Record(&actorID, action, auditModel, objectID, details, actor.IP)
}

func mapEntryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return timesheeterrors.ErrEntryNotFound
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key value") && strings.Contains(msg, "uq_entry_open") {
		return timesheeterrors.ErrOpenEntryExists
	}
	return err
}
