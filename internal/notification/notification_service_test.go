package notification

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-timesheet/internal/employee"
	notificationerrors "go-timesheet/internal/notification/errors"
)

type fakeNotificationRepo struct {
	notifications map[string]*Notification
	createErr     error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[string]*Notification)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	stored := *n
	f.notifications[n.ID.String()] = &stored
	return nil
}

func (f *fakeNotificationRepo) FindByID(_ context.Context, id string) (*Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *n
	return &copied, nil
}

func (f *fakeNotificationRepo) ListByEmployee(_ context.Context, employeeID string, unreadOnly bool) ([]Notification, error) {
	var out []Notification
	for _, n := range f.notifications {
		if n.EmployeeID.String() != employeeID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, employeeID string) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.EmployeeID.String() == employeeID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, employeeID string) error {
	for _, n := range f.notifications {
		if n.EmployeeID.String() == employeeID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Update(_ context.Context, n *Notification) error {
	stored := *n
	f.notifications[n.ID.String()] = &stored
	return nil
}

func (f *fakeNotificationRepo) ExistsForDay(_ context.Context, employeeID, kind string, day time.Time) (bool, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	for _, n := range f.notifications {
		if n.EmployeeID.String() != employeeID || n.Kind != kind {
			continue
		}
		if !n.CreatedAt.Before(start) && n.CreatedAt.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

type fakeEmployeeRepo struct {
	employees map[string]*employee.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*employee.Employee)}
}

func (f *fakeEmployeeRepo) WithTx(_ *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepo) Create(_ context.Context, emp *employee.Employee) error {
	f.employees[emp.ID.String()] = emp
	return nil
}

func (f *fakeEmployeeRepo) FindAll(_ context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) FindActive(_ context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, emp *employee.Employee) error {
	f.employees[emp.ID.String()] = emp
	return nil
}

func (f *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	delete(f.employees, id)
	return nil
}

func seedEmployee(repo *fakeEmployeeRepo, phone string) uuid.UUID {
	id := uuid.New()
	repo.employees[id.String()] = &employee.Employee{ID: id, FullName: "Ana Souza", Phone: phone}
	return id
}

func TestNotifyDeliversWhatsApp(t *testing.T) {
	delivered := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	repo := newFakeNotificationRepo()
	employeeRepo := newFakeEmployeeRepo()
	employeeID := seedEmployee(employeeRepo, "11987654321")

	client := NewWhatsAppClient(WhatsAppConfig{BaseURL: server.URL, Token: "tok"}, zap.NewNop())
	svc := NewService(repo, employeeRepo, client, zap.NewNop())

	err := svc.Notify(context.Background(), employeeID, KindEntryFlagged, "Entry flagged", "check your hours")
	require.NoError(t, err)

	assert.Len(t, repo.notifications, 1)
	select {
	case <-delivered:
	default:
		t.Fatal("expected whatsapp delivery")
	}
}

func TestNotifySucceedsWhenGatewayDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	repo := newFakeNotificationRepo()
	employeeRepo := newFakeEmployeeRepo()
	employeeID := seedEmployee(employeeRepo, "11987654321")

	client := NewWhatsAppClient(WhatsAppConfig{BaseURL: server.URL, Token: "tok"}, zap.NewNop())
	svc := NewService(repo, employeeRepo, client, zap.NewNop())

	err := svc.Notify(context.Background(), employeeID, KindEntryFlagged, "Entry flagged", "check your hours")
	require.NoError(t, err)
	assert.Len(t, repo.notifications, 1)
}

func TestNotifySkipsWhatsAppWithoutPhone(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	repo := newFakeNotificationRepo()
	employeeRepo := newFakeEmployeeRepo()
	employeeID := seedEmployee(employeeRepo, "")

	client := NewWhatsAppClient(WhatsAppConfig{BaseURL: server.URL, Token: "tok"}, zap.NewNop())
	svc := NewService(repo, employeeRepo, client, zap.NewNop())

	require.NoError(t, svc.Notify(context.Background(), employeeID, KindAbsent, "Absence", "no entries today"))
	assert.False(t, called)
}

func TestNotifyPropagatesRepoError(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.createErr = errors.New("db down")
	employeeRepo := newFakeEmployeeRepo()
	employeeID := seedEmployee(employeeRepo, "11987654321")

	svc := NewService(repo, employeeRepo, nil, zap.NewNop())

	err := svc.Notify(context.Background(), employeeID, KindAbsent, "Absence", "no entries today")
	assert.ErrorContains(t, err, "db down")
}

func TestNotifyOncePerDayDedup(t *testing.T) {
	repo := newFakeNotificationRepo()
	employeeRepo := newFakeEmployeeRepo()
	employeeID := seedEmployee(employeeRepo, "")

	svc := NewService(repo, employeeRepo, nil, zap.NewNop())
	day := time.Now()

	require.NoError(t, svc.NotifyOncePerDay(context.Background(), employeeID, KindAbsent, "Absence", "no entries today", day))
	require.NoError(t, svc.NotifyOncePerDay(context.Background(), employeeID, KindAbsent, "Absence", "no entries today", day))

	assert.Len(t, repo.notifications, 1)

	// A different kind on the same day still goes through.
	require.NoError(t, svc.NotifyOncePerDay(context.Background(), employeeID, KindIncompleteHours, "Incomplete hours", "below target", day))
	assert.Len(t, repo.notifications, 2)
}

func TestReply(t *testing.T) {
	repo := newFakeNotificationRepo()
	employeeRepo := newFakeEmployeeRepo()
	employeeID := seedEmployee(employeeRepo, "")

	svc := NewService(repo, employeeRepo, nil, zap.NewNop())
	require.NoError(t, svc.Notify(context.Background(), employeeID, KindAbsent, "Absence", "no entries today"))

	var notificationID string
	for id := range repo.notifications {
		notificationID = id
	}

	t.Run("success marks read and stores comment", func(t *testing.T) {
		n, err := svc.Reply(context.Background(), employeeID.String(), notificationID, "  I was on a medical leave  ")
		require.NoError(t, err)
		assert.Equal(t, "I was on a medical leave", n.ReplyComment)
		assert.True(t, n.Read)
		assert.NotNil(t, n.RepliedAt)
	})

	t.Run("empty comment rejected", func(t *testing.T) {
		_, err := svc.Reply(context.Background(), employeeID.String(), notificationID, "   ")
		assert.ErrorIs(t, err, notificationerrors.ErrEmptyReply)
	})

	t.Run("other employee cannot reply", func(t *testing.T) {
		_, err := svc.Reply(context.Background(), uuid.NewString(), notificationID, "not mine")
		assert.ErrorIs(t, err, notificationerrors.ErrNotOwner)
	})

	t.Run("unknown notification", func(t *testing.T) {
		_, err := svc.Reply(context.Background(), employeeID.String(), uuid.NewString(), "hello")
		assert.ErrorIs(t, err, notificationerrors.ErrNotificationNotFound)
	})
}
