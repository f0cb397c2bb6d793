package holiday

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeHolidayRepo struct {
	holidays map[string]bool
	calls    int
	saved    []*Holiday
	deleted  []string
}

func (r *fakeHolidayRepo) Upsert(_ context.Context, h *Holiday) error {
	r.saved = append(r.saved, h)
	return nil
}

func (r *fakeHolidayRepo) ExistsFor(_ context.Context, date time.Time, city, state string) (bool, error) {
	r.calls++
	return r.holidays[date.Format("2006-01-02")+":"+NormalizeCity(city)+":"+state], nil
}

func (r *fakeHolidayRepo) ListByYear(_ context.Context, year int) ([]Holiday, error) {
	return nil, nil
}

func (r *fakeHolidayRepo) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func TestNormalizeCity(t *testing.T) {
	assert.Equal(t, "SAO PAULO", NormalizeCity("São Paulo"))
	assert.Equal(t, "BRASILIA", NormalizeCity("  brasília "))
	assert.Equal(t, "GOIANIA", NormalizeCity("Goiânia"))
}

func TestIsHolidayCacheMissThenHit(t *testing.T) {
	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	repo := &fakeHolidayRepo{holidays: map[string]bool{"2025-12-25:SAO PAULO:SP": true}}

	rdb, mock := redismock.NewClientMock()
	key := lookupCacheKey(date, "São Paulo", "SP")
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, "1", lookupCacheTTL).SetVal("OK")

	service := NewService(repo, rdb, zap.NewNop())

	got, err := service.IsHoliday(context.Background(), date, "São Paulo", "SP")
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, 1, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsHolidayServedFromCache(t *testing.T) {
	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	repo := &fakeHolidayRepo{holidays: map[string]bool{}}

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(lookupCacheKey(date, "SAO PAULO", "SP")).SetVal("1")

	service := NewService(repo, rdb, zap.NewNop())

	got, err := service.IsHoliday(context.Background(), date, "SAO PAULO", "SP")
	require.NoError(t, err)
	assert.True(t, got)
	// The repository is never touched on a cache hit.
	assert.Equal(t, 0, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsHolidayNegativeResultCached(t *testing.T) {
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	repo := &fakeHolidayRepo{holidays: map[string]bool{}}

	rdb, mock := redismock.NewClientMock()
	key := lookupCacheKey(date, "SAO PAULO", "SP")
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, "0", lookupCacheTTL).SetVal("OK")

	service := NewService(repo, rdb, zap.NewNop())

	got, err := service.IsHoliday(context.Background(), date, "SAO PAULO", "SP")
	require.NoError(t, err)
	assert.False(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsHolidayWithoutRedis(t *testing.T) {
	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	repo := &fakeHolidayRepo{holidays: map[string]bool{"2025-12-25:CURITIBA:PR": true}}

	service := NewService(repo, nil, zap.NewNop())

	got, err := service.IsHoliday(context.Background(), date, "Curitiba", "PR")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestSaveInvalidatesCache(t *testing.T) {
	date := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	repo := &fakeHolidayRepo{holidays: map[string]bool{}}

	rdb, mock := redismock.NewClientMock()
	h := &Holiday{Date: date, Name: "Consciência Negra", City: "SAO PAULO", State: "SP"}
	mock.ExpectDel(lookupCacheKey(date, "SAO PAULO", "SP")).SetVal(1)

	service := NewService(repo, rdb, zap.NewNop())
	require.NoError(t, service.Save(context.Background(), h))
	require.Len(t, repo.saved, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
