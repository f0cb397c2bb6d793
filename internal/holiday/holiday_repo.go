package holiday

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	// Upsert inserts or refreshes the holiday name keyed by
	// (date, city, state).
	Upsert(ctx context.Context, h *Holiday) error
	// ExistsFor reports whether the date is a holiday at the given
	// place. City-less rows count everywhere.
	ExistsFor(ctx context.Context, date time.Time, city, state string) (bool, error)
	ListByYear(ctx context.Context, year int) ([]Holiday, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, h *Holiday) error {
	h.City = NormalizeCity(h.City)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "city"}, {Name: "state"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(h).Error
}

func (r *repository) ExistsFor(ctx context.Context, date time.Time, city, state string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Holiday{}).
		Where("date = ?", date.Format("2006-01-02")).
		Where("city = ? OR city = ''", NormalizeCity(city)).
		Where("state = ? OR state = ''", state).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListByYear(ctx context.Context, year int) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?",
			time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")).
		Order("date").
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Holiday{}, "id = ?", id).Error
}
