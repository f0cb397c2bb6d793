package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []Log
}

func (f *fakeAuditRepo) Create(_ context.Context, logs []Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, logs...)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _ ListFilter) ([]Log, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logs, int64(len(f.logs)), nil
}

func (f *fakeAuditRepo) stored() []Log {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Log, len(f.logs))
	copy(out, f.logs)
	return out
}

func TestSinkFlushesOnClose(t *testing.T) {
	repo := &fakeAuditRepo{}
	sink := NewSink(repo, zap.NewNop())

	actor := uuid.New()
	sink.Record(&actor, ActionCreate, "Entry", uuid.NewString(), "entry created", "10.0.0.1")
	sink.Record(nil, ActionApprove, "Entry", uuid.NewString(), "auto approval", "")
	sink.Close()

	logs := repo.stored()
	require.Len(t, logs, 2)
	assert.Equal(t, ActionCreate, logs[0].Action)
	assert.Equal(t, &actor, logs[0].ActorID)
	assert.Nil(t, logs[1].ActorID)
}

func TestSinkFlushesOnInterval(t *testing.T) {
	repo := &fakeAuditRepo{}
	sink := NewSink(repo, zap.NewNop())
	defer sink.Close()

	sink.Record(nil, ActionExport, "Entry", "", "export requested", "")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(repo.stored()) == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("expected entry flushed before close")
}

func TestSinkCloseIsIdempotent(t *testing.T) {
	repo := &fakeAuditRepo{}
	sink := NewSink(repo, zap.NewNop())
	sink.Close()
	sink.Close()
}
