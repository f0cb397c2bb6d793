package timesheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-timesheet/internal/catalog"
	"go-timesheet/internal/clt"
	"go-timesheet/internal/events"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/rbac"
	timesheeterrors "go-timesheet/internal/timesheet/errors"
)

type fakeRepo struct {
	createFn          func(ctx context.Context, e *Entry) error
	createBatchFn     func(ctx context.Context, entries []*Entry) error
	findByIDFn        func(ctx context.Context, id string) (*Entry, error)
	findOpenFn        func(ctx context.Context, employeeID string) (*Entry, error)
	updateFn          func(ctx context.Context, e *Entry) error
	deleteFn          func(ctx context.Context, id string) error
	listByEmpDateFn   func(ctx context.Context, employeeID string, date time.Time) ([]Entry, error)
	listFn            func(ctx context.Context, filter ListFilter) ([]Entry, int64, error)
	listAutoFn        func(ctx context.Context) ([]Entry, error)
	createHistoryFn   func(ctx context.Context, h *EntryHistory) error
	listHistoryFn     func(ctx context.Context, entryID string) ([]EntryHistory, error)
	listByDateRangeFn func(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]clt.Entry, error)
	updateFlagsFn     func(ctx context.Context, updates []clt.FlagUpdate) error
}

func (f *fakeRepo) WithTx(_ *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, e *Entry) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeRepo) CreateBatch(ctx context.Context, entries []*Entry) error {
	if f.createBatchFn != nil {
		return f.createBatchFn(ctx, entries)
	}
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Entry, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindOpen(ctx context.Context, employeeID string) (*Entry, error) {
	if f.findOpenFn != nil {
		return f.findOpenFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Update(ctx context.Context, e *Entry) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRepo) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]Entry, error) {
	if f.listByEmpDateFn != nil {
		return f.listByEmpDateFn(ctx, employeeID, date)
	}
	return nil, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Entry, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeRepo) ListByDate(_ context.Context, _ time.Time) ([]Entry, error) { return nil, nil }
func (f *fakeRepo) ListSince(_ context.Context, _ time.Time) ([]Entry, error)  { return nil, nil }

func (f *fakeRepo) ListAutoApprovable(ctx context.Context) ([]Entry, error) {
	if f.listAutoFn != nil {
		return f.listAutoFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepo) CreateHistory(ctx context.Context, h *EntryHistory) error {
	if f.createHistoryFn != nil {
		return f.createHistoryFn(ctx, h)
	}
	return nil
}

func (f *fakeRepo) ListHistory(ctx context.Context, entryID string) ([]EntryHistory, error) {
	if f.listHistoryFn != nil {
		return f.listHistoryFn(ctx, entryID)
	}
	return nil, nil
}

func (f *fakeRepo) ListByDateRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]clt.Entry, error) {
	if f.listByDateRangeFn != nil {
		return f.listByDateRangeFn(ctx, employeeID, from, to)
	}
	return nil, nil
}

func (f *fakeRepo) UpdateFlags(ctx context.Context, updates []clt.FlagUpdate) error {
	if f.updateFlagsFn != nil {
		return f.updateFlagsFn(ctx, updates)
	}
	return nil
}

type fakeCatalog struct {
	inactiveProjects map[string]bool
	costCenters      map[string]*catalog.CostCenter
}

func (f *fakeCatalog) ProjectActive(_ context.Context, id string) (bool, error) {
	return !f.inactiveProjects[id], nil
}

func (f *fakeCatalog) ClientCodeActive(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func (f *fakeCatalog) CostCenterByID(_ context.Context, id string) (*catalog.CostCenter, error) {
	if cc, ok := f.costCenters[id]; ok {
		return cc, nil
	}
	return nil, nil
}

func (f *fakeCatalog) VehicleActive(_ context.Context, _ string) (bool, error) {
	return true, nil
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(_ context.Context, _ string, _ string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(_ *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(_ context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(_ context.Context, _ int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(_ context.Context, _ string) error           { return nil }
func (f *fakeOutbox) MarkFailed(_ context.Context, _ string, _ string) error { return nil }

func (f *fakeOutbox) onTopic(topic string) []kafka.OutboxEvent {
	var out []kafka.OutboxEvent
	for _, e := range f.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

func tod(t *testing.T, clock string) clt.TimeOfDay {
	t.Helper()
	v, err := clt.ParseTimeOfDay(clock)
	require.NoError(t, err)
	return v
}

func newTestService(t *testing.T, repo Repository, outbox *fakeOutbox) (Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cat := &fakeCatalog{}
	svc := NewService(db, repo, cat, &fakeCounter{}, outbox, nil, zap.NewNop())
	return svc, mock, func() { db.Close() }
}

func employeeActor(employeeID uuid.UUID) Actor {
	return Actor{UserID: uuid.New(), EmployeeID: employeeID, Role: rbac.RoleEmployee, IP: "10.0.0.7"}
}

func TestCheckInRejectsConcurrentOpenEntry(t *testing.T) {
	employeeID := uuid.New()
	repo := &fakeRepo{
		findOpenFn: func(_ context.Context, _ string) (*Entry, error) {
			return &Entry{ID: uuid.New(), EmployeeID: employeeID}, nil
		},
	}
	svc, mock, closeDB := newTestService(t, repo, &fakeOutbox{})
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CheckIn(context.Background(), employeeActor(employeeID), CheckInRequest{
		LocationRequest: LocationRequest{Location: LocationOnSite, ProjectID: uuid.NewString()},
	})
	assert.ErrorIs(t, err, timesheeterrors.ErrOpenEntryExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInOpensEntryForActor(t *testing.T) {
	employeeID := uuid.New()
	projectID := uuid.New()

	var created *Entry
	repo := &fakeRepo{
		createFn: func(_ context.Context, e *Entry) error { created = e; return nil },
	}
	svc, mock, closeDB := newTestService(t, repo, &fakeOutbox{})
	defer closeDB()

	actor := employeeActor(employeeID)
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.CheckIn(context.Background(), actor, CheckInRequest{
		LocationRequest: LocationRequest{Location: LocationOnSite, ProjectID: projectID.String()},
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, employeeID, created.EmployeeID)
	assert.Equal(t, actor.UserID, created.RegisteredBy)
	assert.Equal(t, StatusInReview, created.Status)
	assert.Nil(t, created.End)
	require.NotNil(t, created.ProjectID)
	assert.Equal(t, projectID, *created.ProjectID)
	assert.Empty(t, resp.End)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOutClosesOpenEntry(t *testing.T) {
	employeeID := uuid.New()
	open := &Entry{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Date:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Start:      tod(t, "08:00"),
		Status:     StatusInReview,
	}
	var updated *Entry
	repo := &fakeRepo{
		findOpenFn: func(_ context.Context, _ string) (*Entry, error) { return open, nil },
		updateFn:   func(_ context.Context, e *Entry) error { updated = e; return nil },
	}
	svc, _, closeDB := newTestService(t, repo, &fakeOutbox{})
	defer closeDB()

	resp, err := svc.CheckOut(context.Background(), employeeActor(employeeID))
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.End)
	assert.NotEmpty(t, resp.End)
}

func TestCheckOutWithoutOpenEntry(t *testing.T) {
	svc, _, closeDB := newTestService(t, &fakeRepo{}, &fakeOutbox{})
	defer closeDB()

	_, err := svc.CheckOut(context.Background(), employeeActor(uuid.New()))
	assert.ErrorIs(t, err, timesheeterrors.ErrNoOpenEntry)
}

func TestCreateFansOutProRata(t *testing.T) {
	employeeID := uuid.New()
	mainProject := uuid.New()
	secondProject := uuid.New()
	thirdProject := uuid.New()

	var batch []*Entry
	repo := &fakeRepo{
		createBatchFn: func(_ context.Context, entries []*Entry) error { batch = entries; return nil },
	}
	svc, mock, closeDB := newTestService(t, repo, &fakeOutbox{})
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), employeeActor(employeeID), CreateEntryRequest{
		EmployeeID:      employeeID.String(),
		Date:            "2026-03-10",
		Start:           "06:00",
		End:             "12:00",
		LocationRequest: LocationRequest{Location: LocationOnSite, ProjectID: mainProject.String()},
		Allocations: []AllocationRequest{
			{ProjectID: secondProject.String()},
			{ProjectID: thirdProject.String()},
		},
	})
	require.NoError(t, err)
	require.Len(t, batch, 3)
	assert.Len(t, resp, 3)

	// The slices tile the original interval, main location first.
	assert.Equal(t, tod(t, "06:00"), batch[0].Start)
	assert.Equal(t, tod(t, "08:00"), *batch[0].End)
	assert.Equal(t, tod(t, "08:00"), batch[1].Start)
	assert.Equal(t, tod(t, "10:00"), *batch[1].End)
	assert.Equal(t, tod(t, "10:00"), batch[2].Start)
	assert.Equal(t, tod(t, "12:00"), *batch[2].End)

	assert.Equal(t, mainProject, *batch[0].ProjectID)
	assert.Equal(t, secondProject, *batch[1].ProjectID)
	assert.Equal(t, thirdProject, *batch[2].ProjectID)

	require.NotNil(t, batch[0].GroupingID)
	for _, e := range batch {
		require.NotNil(t, e.GroupingID)
		assert.Equal(t, *batch[0].GroupingID, *e.GroupingID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsAllocationWithBothTargets(t *testing.T) {
	employeeID := uuid.New()
	svc, _, closeDB := newTestService(t, &fakeRepo{}, &fakeOutbox{})
	defer closeDB()

	_, err := svc.Create(context.Background(), employeeActor(employeeID), CreateEntryRequest{
		EmployeeID:      employeeID.String(),
		Date:            "2026-03-10",
		Start:           "06:00",
		End:             "12:00",
		LocationRequest: LocationRequest{Location: LocationOnSite, ProjectID: uuid.NewString()},
		Allocations: []AllocationRequest{
			{ProjectID: uuid.NewString(), ClientCodeID: uuid.NewString()},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestCreateRejectsOverlap(t *testing.T) {
	employeeID := uuid.New()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := tod(t, "12:00")
	existing := Entry{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Date:       date,
		Start:      tod(t, "08:00"),
		End:        &end,
	}
	repo := &fakeRepo{
		listByEmpDateFn: func(_ context.Context, _ string, d time.Time) ([]Entry, error) {
			if d.Equal(date) {
				return []Entry{existing}, nil
			}
			return nil, nil
		},
	}
	svc, _, closeDB := newTestService(t, repo, &fakeOutbox{})
	defer closeDB()

	_, err := svc.Create(context.Background(), employeeActor(employeeID), CreateEntryRequest{
		EmployeeID:      employeeID.String(),
		Date:            "2026-03-10",
		Start:           "11:00",
		End:             "13:00",
		LocationRequest: LocationRequest{Location: LocationOnSite, ProjectID: uuid.NewString()},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicts with an existing entry")
}

func TestCreateForAnotherEmployeeDenied(t *testing.T) {
	svc, _, closeDB := newTestService(t, &fakeRepo{}, &fakeOutbox{})
	defer closeDB()

	_, err := svc.Create(context.Background(), employeeActor(uuid.New()), CreateEntryRequest{
		EmployeeID:      uuid.NewString(),
		Date:            "2026-03-10",
		Start:           "08:00",
		End:             "12:00",
		LocationRequest: LocationRequest{Location: LocationOnSite, ProjectID: uuid.NewString()},
	})
	assert.ErrorIs(t, err, timesheeterrors.ErrNotOwner)
}

func closedEntry(employeeID uuid.UUID) *Entry {
	end := clt.TimeOfDay(17 * 3600)
	return &Entry{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Date:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Start:      clt.TimeOfDay(8 * 3600),
		End:        &end,
		Location:   LocationOnSite,
		Status:     StatusInReview,
	}
}

func TestUpdateEnforcesSingleEdit(t *testing.T) {
	employeeID := uuid.New()
	entry := closedEntry(employeeID)
	entry.EditCount = 1

	repo := &fakeRepo{
		findByIDFn: func(_ context.Context, _ string) (*Entry, error) { return entry, nil },
	}
	svc, _, closeDB := newTestService(t, repo, &fakeOutbox{})
	defer closeDB()

	req := UpdateEntryRequest{
		Date:            "2026-03-10",
		Start:           "08:30",
		End:             "17:00",
		LocationRequest: LocationRequest{Location: LocationOnSite, ProjectID: uuid.NewString()},
	}
	_, err := svc.Update(context.Background(), employeeActor(employeeID), entry.ID.String(), req)
	assert.ErrorIs(t, err, timesheeterrors.ErrEditLimitReached)
}

func TestUpdateSnapshotsPreviousVersion(t *testing.T) {
	employeeID := uuid.New()
	entry := closedEntry(employeeID)
	entry.ReviewComment = "Looks off"

	var history *EntryHistory
	var updated *Entry
	repo := &fakeRepo{
		findByIDFn:      func(_ context.Context, _ string) (*Entry, error) { return entry, nil },
		createHistoryFn: func(_ context.Context, h *EntryHistory) error { history = h; return nil },
		updateFn:        func(_ context.Context, e *Entry) error { updated = e; return nil },
	}
	svc, mock, closeDB := newTestService(t, repo, &fakeOutbox{})
	defer closeDB()

	actor := employeeActor(employeeID)
	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Update(context.Background(), actor, entry.ID.String(), UpdateEntryRequest{
		Date:            "2026-03-10",
		Start:           "08:30",
		End:             "17:30",
		LocationRequest: LocationRequest{Location: LocationOnSite, ProjectID: uuid.NewString()},
	})
	require.NoError(t, err)

	require.NotNil(t, history)
	assert.Equal(t, entry.ID, history.EntryID)
	assert.Equal(t, 1, history.EditNumber)
	assert.Equal(t, actor.UserID, history.EditedBy)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(history.Snapshot, &snapshot))

	require.NotNil(t, updated)
	assert.Equal(t, 1, updated.EditCount)
	assert.Equal(t, StatusInReview, updated.Status)
	assert.Empty(t, updated.ReviewComment)
	assert.Equal(t, tod(t, "08:30"), updated.Start)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateByAdminBypassesEditLimit(t *testing.T) {
	employeeID := uuid.New()
	entry := closedEntry(employeeID)
	entry.EditCount = 3

	var history *EntryHistory
	repo := &fakeRepo{
		findByIDFn:      func(_ context.Context, _ string) (*Entry, error) { return entry, nil },
		createHistoryFn: func(_ context.Context, h *EntryHistory) error { history = h; return nil },
	}
	svc, mock, closeDB := newTestService(t, repo, &fakeOutbox{})
	defer closeDB()

	admin := Actor{UserID: uuid.New(), EmployeeID: uuid.New(), Role: rbac.RoleAdmin}
	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Update(context.Background(), admin, entry.ID.String(), UpdateEntryRequest{
		Date:            "2026-03-10",
		Start:           "08:00",
		End:             "16:00",
		LocationRequest: LocationRequest{Location: LocationOnSite, ProjectID: uuid.NewString()},
	})
	require.NoError(t, err)
	require.NotNil(t, history)
	assert.Equal(t, 4, history.EditNumber)
}

func TestRequestAdjustmentAssignsSequentialProtocol(t *testing.T) {
	employeeID := uuid.New()
	entry := closedEntry(employeeID)

	var updated *Entry
	repo := &fakeRepo{
		findByIDFn: func(_ context.Context, _ string) (*Entry, error) { return entry, nil },
		updateFn:   func(_ context.Context, e *Entry) error { updated = e; return nil },
	}
	outbox := &fakeOutbox{}
	svc, mock, closeDB := newTestService(t, repo, outbox)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.RequestAdjustment(context.Background(), employeeActor(employeeID), entry.ID.String(), AdjustmentRequest{
		Reason: "Forgot to punch out before lunch",
	})
	require.NoError(t, err)

	want := fmt.Sprintf("AJ-%d-000001", time.Now().Year())
	assert.Equal(t, want, resp.AdjustmentProtocol)
	require.NotNil(t, updated)
	assert.Equal(t, StatusAdjustmentRequested, updated.Status)
	require.NotNil(t, updated.AdjustmentStatus)
	assert.Equal(t, AdjustmentPending, *updated.AdjustmentStatus)

	published := outbox.onTopic(events.AdjustmentRequestedTopic)
	require.Len(t, published, 1)
	var event events.AdjustmentRequestedEvent
	require.NoError(t, json.Unmarshal(published[0].Payload, &event))
	assert.Equal(t, want, event.Protocol)
	assert.Equal(t, entry.ID.String(), event.EntryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestAdjustmentOnOpenEntry(t *testing.T) {
	employeeID := uuid.New()
	entry := closedEntry(employeeID)
	entry.End = nil

	repo := &fakeRepo{
		findByIDFn: func(_ context.Context, _ string) (*Entry, error) { return entry, nil },
	}
	svc, _, closeDB := newTestService(t, repo, &fakeOutbox{})
	defer closeDB()

	_, err := svc.RequestAdjustment(context.Background(), employeeActor(employeeID), entry.ID.String(), AdjustmentRequest{Reason: "x"})
	assert.ErrorIs(t, err, timesheeterrors.ErrEntryStillOpen)
}

func TestReviewRequiresComment(t *testing.T) {
	svc, _, closeDB := newTestService(t, &fakeRepo{}, &fakeOutbox{})
	defer closeDB()

	manager := Actor{UserID: uuid.New(), EmployeeID: uuid.New(), Role: rbac.RoleManager}
	_, err := svc.Review(context.Background(), manager, uuid.NewString(), ReviewRequest{Approve: true, Comment: "   "})
	assert.ErrorIs(t, err, timesheeterrors.ErrCommentRequired)
}

func TestReviewApprovesAndPublishes(t *testing.T) {
	employeeID := uuid.New()
	entry := closedEntry(employeeID)

	var updated *Entry
	repo := &fakeRepo{
		findByIDFn: func(_ context.Context, _ string) (*Entry, error) { return entry, nil },
		updateFn:   func(_ context.Context, e *Entry) error { updated = e; return nil },
	}
	outbox := &fakeOutbox{}
	svc, mock, closeDB := newTestService(t, repo, outbox)
	defer closeDB()

	manager := Actor{UserID: uuid.New(), EmployeeID: uuid.New(), Role: rbac.RoleManager}
	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Review(context.Background(), manager, entry.ID.String(), ReviewRequest{
		Approve: true,
		Comment: "Checked against the site log",
	})
	require.NoError(t, err)

	require.NotNil(t, updated)
	assert.Equal(t, StatusApproved, updated.Status)
	assert.Equal(t, "Checked against the site log", updated.ReviewComment)

	published := outbox.onTopic(events.EntryReviewedTopic)
	require.Len(t, published, 1)
	var event events.EntryReviewedEvent
	require.NoError(t, json.Unmarshal(published[0].Payload, &event))
	assert.True(t, event.Approved)
	assert.Equal(t, manager.UserID.String(), event.ReviewedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRejectedEntryTwice(t *testing.T) {
	employeeID := uuid.New()
	entry := closedEntry(employeeID)
	entry.Status = StatusRejected

	repo := &fakeRepo{
		findByIDFn: func(_ context.Context, _ string) (*Entry, error) { return entry, nil },
	}
	svc, _, closeDB := newTestService(t, repo, &fakeOutbox{})
	defer closeDB()

	manager := Actor{UserID: uuid.New(), EmployeeID: uuid.New(), Role: rbac.RoleManager}
	_, err := svc.Review(context.Background(), manager, entry.ID.String(), ReviewRequest{Approve: true, Comment: "again"})
	assert.ErrorIs(t, err, timesheeterrors.ErrAlreadyReviewed)
}

func TestGetAllScopesEmployeesToThemselves(t *testing.T) {
	employeeID := uuid.New()
	var seen ListFilter
	repo := &fakeRepo{
		listFn: func(_ context.Context, filter ListFilter) ([]Entry, int64, error) {
			seen = filter
			return nil, 0, nil
		},
	}
	svc, _, closeDB := newTestService(t, repo, &fakeOutbox{})
	defer closeDB()

	_, _, err := svc.GetAll(context.Background(), employeeActor(employeeID), ListFilter{EmployeeID: uuid.NewString()})
	require.NoError(t, err)
	assert.Equal(t, employeeID.String(), seen.EmployeeID)
}

func TestApprovalTrigger(t *testing.T) {
	local := time.UTC
	cases := []struct {
		name      string
		submitted time.Time
		want      time.Time
	}{
		{
			name:      "daytime submission waits for midnight",
			submitted: time.Date(2026, 3, 10, 14, 30, 0, 0, local),
			want:      time.Date(2026, 3, 11, 0, 0, 0, 0, local),
		},
		{
			name:      "evening submission waits for next morning",
			submitted: time.Date(2026, 3, 10, 19, 5, 0, 0, local),
			want:      time.Date(2026, 3, 11, 8, 0, 0, 0, local),
		},
		{
			name:      "small hours submission waits for the same morning",
			submitted: time.Date(2026, 3, 10, 2, 15, 0, 0, local),
			want:      time.Date(2026, 3, 10, 8, 0, 0, 0, local),
		},
		{
			name:      "boundary at six in the morning counts as daytime",
			submitted: time.Date(2026, 3, 10, 6, 0, 0, 0, local),
			want:      time.Date(2026, 3, 11, 0, 0, 0, 0, local),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, approvalTrigger(tc.submitted))
		})
	}
}

func TestAutoApproveOnlyPastTrigger(t *testing.T) {
	employeeID := uuid.New()
	local := time.UTC
	now := time.Date(2026, 3, 11, 1, 0, 0, 0, local)

	due := *closedEntry(employeeID)
	due.CreatedAt = time.Date(2026, 3, 10, 10, 0, 0, 0, local) // trigger: 11th 00:00
	notDue := *closedEntry(employeeID)
	notDue.CreatedAt = time.Date(2026, 3, 10, 20, 0, 0, 0, local) // trigger: 11th 08:00

	var approved []uuid.UUID
	repo := &fakeRepo{
		listAutoFn: func(_ context.Context) ([]Entry, error) {
			return []Entry{due, notDue}, nil
		},
		updateFn: func(_ context.Context, e *Entry) error {
			approved = append(approved, e.ID)
			return nil
		},
	}
	outbox := &fakeOutbox{}
	svc, _, closeDB := newTestService(t, repo, outbox)
	defer closeDB()

	count, err := svc.AutoApprove(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, approved, 1)
	assert.Equal(t, due.ID, approved[0])

	published := outbox.onTopic(events.EntryReviewedTopic)
	require.Len(t, published, 1)
	var event events.EntryReviewedEvent
	require.NoError(t, json.Unmarshal(published[0].Payload, &event))
	assert.Equal(t, "system", event.ReviewedBy)
	assert.True(t, event.Approved)
}

func TestEvaluationFlagsLongDayAndPublishes(t *testing.T) {
	employeeID := uuid.New()
	open := &Entry{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Date:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Start:      tod(t, "06:00"),
		Status:     StatusInReview,
	}

	// Flag state lives here so the post-evaluation read observes what
	// UpdateFlags wrote.
	flagged := map[uuid.UUID]clt.FlagUpdate{}
	end := tod(t, "18:00")
	stored := clt.Entry{
		Interval: clt.Interval{
			ID:    open.ID,
			Date:  open.Date,
			Start: tod(t, "06:00"),
			End:   &end,
			Label: "2026-03-10 06:00",
		},
	}
	repo := &fakeRepo{
		findOpenFn: func(_ context.Context, _ string) (*Entry, error) { return open, nil },
		listByDateRangeFn: func(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]clt.Entry, error) {
			e := stored
			if f, ok := flagged[e.ID]; ok {
				e.Attention = f.Attention
				e.AlertReason = f.AlertReason
			}
			return []clt.Entry{e}, nil
		},
		updateFlagsFn: func(_ context.Context, updates []clt.FlagUpdate) error {
			for _, u := range updates {
				flagged[u.ID] = u
			}
			return nil
		},
	}
	outbox := &fakeOutbox{}
	svc, _, closeDB := newTestService(t, repo, outbox)
	defer closeDB()

	// Twelve continuous hours breaks both the daily ceiling and the
	// continuous-work limit.
	_, err := svc.CheckOut(context.Background(), employeeActor(employeeID))
	require.NoError(t, err)

	published := outbox.onTopic(events.EntryFlaggedTopic)
	require.Len(t, published, 1)
	var event events.EntryFlaggedEvent
	require.NoError(t, json.Unmarshal(published[0].Payload, &event))
	assert.Equal(t, open.ID.String(), event.EntryID)
	assert.NotEmpty(t, event.Reason)
}
