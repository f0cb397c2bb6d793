package timesheet

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"go-timesheet/internal/clt"
)

//go:generate mockgen -source=timesheet_repo.go -destination=mock/timesheet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, e *Entry) error
	CreateBatch(ctx context.Context, entries []*Entry) error
	FindByID(ctx context.Context, id string) (*Entry, error)
	FindOpen(ctx context.Context, employeeID string) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id string) error

	// ListByEmployeeAndDate feeds the conflict detector.
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]Entry, error)
	List(ctx context.Context, filter ListFilter) ([]Entry, int64, error)
	ListByDate(ctx context.Context, date time.Time) ([]Entry, error)
	ListSince(ctx context.Context, from time.Time) ([]Entry, error)
	// ListAutoApprovable returns unedited, compliant entries still in
	// review.
	ListAutoApprovable(ctx context.Context) ([]Entry, error)

	CreateHistory(ctx context.Context, h *EntryHistory) error
	ListHistory(ctx context.Context, entryID string) ([]EntryHistory, error)

	// clt.EntryStore: the evaluator reads and flags entries through
	// the same repository.
	ListByDateRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]clt.Entry, error)
	UpdateFlags(ctx context.Context, updates []clt.FlagUpdate) error
}

type ListFilter struct {
	EmployeeID string
	Status     string
	From       time.Time
	To         time.Time
	Page       int
	Limit      int
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds gorm onto the caller's transaction so entry writes and
// outbox inserts sharing that tx commit or roll back together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	txDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 r.db.Logger,
	})
	if err != nil {
		return &repository{db: r.db, tx: tx}
	}
	return &repository{db: txDB, tx: tx}
}

func (r *repository) Create(ctx context.Context, e *Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) CreateBatch(ctx context.Context, entries []*Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Entry, error) {
	var e Entry
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindOpen(ctx context.Context, employeeID string) (*Entry, error) {
	var e Entry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND end_seconds IS NULL", employeeID).
		Order("created_at DESC").
		First(&e).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *Entry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Entry{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]Entry, error) {
	var out []Entry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date.Format("2006-01-02")).
		Order("start_seconds ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Entry, int64, error) {
	q := r.db.WithContext(ctx).Model(&Entry{})
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From.Format("2006-01-02"))
	}
	if !filter.To.IsZero() {
		q = q.Where("date <= ?", filter.To.Format("2006-01-02"))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var out []Entry
	err := q.Order("date DESC, start_seconds DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&out).Error
	return out, total, err
}

func (r *repository) ListByDate(ctx context.Context, date time.Time) ([]Entry, error) {
	var out []Entry
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Order("employee_id, start_seconds ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListSince(ctx context.Context, from time.Time) ([]Entry, error) {
	var out []Entry
	err := r.db.WithContext(ctx).
		Where("date >= ?", from.Format("2006-01-02")).
		Order("date ASC, start_seconds ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListAutoApprovable(ctx context.Context) ([]Entry, error) {
	var out []Entry
	err := r.db.WithContext(ctx).
		Where("status = ? AND attention = ? AND edit_count = 0 AND end_seconds IS NOT NULL", StatusInReview, false).
		Find(&out).Error
	return out, err
}

func (r *repository) CreateHistory(ctx context.Context, h *EntryHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) ListHistory(ctx context.Context, entryID string) ([]EntryHistory, error) {
	var out []EntryHistory
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("edit_number DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListByDateRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]clt.Entry, error) {
	var rows []Entry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date BETWEEN ? AND ?",
			employeeID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date ASC, start_seconds ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]clt.Entry, 0, len(rows))
	for i := range rows {
		out = append(out, clt.Entry{
			Interval:    rows[i].Interval(),
			Attention:   rows[i].Attention,
			AlertReason: rows[i].AlertReason,
		})
	}
	return out, nil
}

func (r *repository) UpdateFlags(ctx context.Context, updates []clt.FlagUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			err := tx.Model(&Entry{}).
				Where("id = ?", u.ID).
				Updates(map[string]any{
					"attention":    u.Attention,
					"alert_reason": u.AlertReason,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
