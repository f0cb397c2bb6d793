package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id string) (*Notification, error)
	ListByEmployee(ctx context.Context, employeeID string, unreadOnly bool) ([]Notification, error)
	CountUnread(ctx context.Context, employeeID string) (int64, error)
	MarkAllRead(ctx context.Context, employeeID string) error
	Update(ctx context.Context, n *Notification) error
	// ExistsForDay prevents duplicate daily notifications of one kind.
	ExistsForDay(ctx context.Context, employeeID, kind string, day time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Notification, error) {
	var n Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	return &n, err
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string, unreadOnly bool) ([]Notification, error) {
	q := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []Notification
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repository) CountUnread(ctx context.Context, employeeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("employee_id = ? AND read = ?", employeeID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkAllRead(ctx context.Context, employeeID string) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("employee_id = ? AND read = ?", employeeID, false).
		Update("read", true).Error
}

func (r *repository) Update(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *repository) ExistsForDay(ctx context.Context, employeeID, kind string, day time.Time) (bool, error) {
	var count int64
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("employee_id = ? AND kind = ?", employeeID, kind).
		Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1)).
		Count(&count).Error
	return count > 0, err
}
