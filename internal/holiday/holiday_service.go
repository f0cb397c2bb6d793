package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const lookupCacheTTL = 12 * time.Hour

func lookupCacheKey(date time.Time, city, state string) string {
	return fmt.Sprintf("holiday:%s:%s:%s", date.Format("2006-01-02"), NormalizeCity(city), state)
}

// Service answers holiday lookups for the rules engine and the target
// resolver. Lookups are read-through cached: the calendar changes once
// a year, the evaluator asks many times a day.
//
//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	IsHoliday(ctx context.Context, date time.Time, city, state string) (bool, error)
	ListByYear(ctx context.Context, year int) ([]Holiday, error)
	Save(ctx context.Context, h *Holiday) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) IsHoliday(ctx context.Context, date time.Time, city, state string) (bool, error) {
	key := lookupCacheKey(date, city, state)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			return cached == "1", nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		exists, err := s.repo.ExistsFor(ctx, date, city, state)
		if err != nil {
			return false, err
		}
		if s.rdb != nil {
			val := "0"
			if exists {
				val = "1"
			}
			if err := s.rdb.Set(ctx, key, val, lookupCacheTTL).Err(); err != nil {
				s.logger.Warn("holiday cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return exists, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (s *service) ListByYear(ctx context.Context, year int) ([]Holiday, error) {
	return s.repo.ListByYear(ctx, year)
}

func (s *service) Save(ctx context.Context, h *Holiday) error {
	if err := s.repo.Upsert(ctx, h); err != nil {
		return err
	}
	s.invalidate(ctx, h)
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) invalidate(ctx context.Context, h *Holiday) {
	if s.rdb == nil {
		return
	}
	key := lookupCacheKey(h.Date, h.City, h.State)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("holiday cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
