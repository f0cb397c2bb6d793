package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-timesheet/internal/employee"
	notificationerrors "go-timesheet/internal/notification/errors"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	// Notify records an in-app notification and pushes it over
	// WhatsApp. Gateway failures are logged, never returned.
	Notify(ctx context.Context, employeeID uuid.UUID, kind, title, message string) error
	// NotifyOncePerDay is Notify with a daily dedup per employee and
	// kind, for the absence and incomplete-hours sweeps.
	NotifyOncePerDay(ctx context.Context, employeeID uuid.UUID, kind, title, message string, day time.Time) error
	List(ctx context.Context, employeeID string, unreadOnly bool) ([]Notification, error)
	CountUnread(ctx context.Context, employeeID string) (int64, error)
	MarkAllRead(ctx context.Context, employeeID string) error
	Reply(ctx context.Context, employeeID, notificationID, comment string) (*Notification, error)
}

type service struct {
	repo         Repository
	employeeRepo employee.Repository
	whatsapp     *WhatsAppClient
	logger       *zap.Logger
}

func NewService(repo Repository, employeeRepo employee.Repository, whatsapp *WhatsAppClient, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{
		repo:         repo,
		employeeRepo: employeeRepo,
		whatsapp:     whatsapp,
		logger:       l,
	}
}

func (s *service) Notify(ctx context.Context, employeeID uuid.UUID, kind, title, message string) error {
	n := &Notification{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Kind:       kind,
		Title:      title,
		Message:    message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("create notification failed",
			zap.String("employee_id", employeeID.String()),
			zap.String("kind", kind),
			zap.Error(err))
		return err
	}

	s.pushWhatsApp(ctx, employeeID, title, message)
	return nil
}

func (s *service) NotifyOncePerDay(ctx context.Context, employeeID uuid.UUID, kind, title, message string, day time.Time) error {
	exists, err := s.repo.ExistsForDay(ctx, employeeID.String(), kind, day)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.Notify(ctx, employeeID, kind, title, message)
}

func (s *service) pushWhatsApp(ctx context.Context, employeeID uuid.UUID, title, message string) {
	if s.whatsapp == nil {
		return
	}
	emp, err := s.employeeRepo.FindByID(ctx, employeeID.String())
	if err != nil || emp.Phone == "" {
		return
	}
	text := title + "\n" + message
	if err := s.whatsapp.SendMessage(ctx, emp.Phone, text); err != nil {
		s.logger.Warn("whatsapp delivery failed",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err))
	}
}

func (s *service) List(ctx context.Context, employeeID string, unreadOnly bool) ([]Notification, error) {
	return s.repo.ListByEmployee(ctx, employeeID, unreadOnly)
}

func (s *service) CountUnread(ctx context.Context, employeeID string) (int64, error) {
	return s.repo.CountUnread(ctx, employeeID)
}

func (s *service) MarkAllRead(ctx context.Context, employeeID string) error {
	return s.repo.MarkAllRead(ctx, employeeID)
}

func (s *service) Reply(ctx context.Context, employeeID, notificationID, comment string) (*Notification, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, notificationerrors.ErrEmptyReply
	}

	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, notificationerrors.ErrNotificationNotFound
	}
	if n.EmployeeID.String() != employeeID {
		return nil, notificationerrors.ErrNotOwner
	}

	now := time.Now()
	n.ReplyComment = comment
	n.RepliedAt = &now
	n.Read = true
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
