package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sinkBuffer    = 256
	flushBatch    = 32
	flushInterval = 2 * time.Second
	writeTimeout  = 5 * time.Second
)

// Sink appends audit rows fire and forget. Record never blocks the
// request path: entries go through a buffered channel and a single
// writer goroutine batches them into the repository. A full buffer
// drops the entry with a warning rather than stalling the caller.
type Sink struct {
	repo   Repository
	logger *zap.Logger

	entries chan Log
	done    chan struct{}
	once    sync.Once
}

func NewSink(repo Repository, logger ...*zap.Logger) *Sink {
	l := zap.L().Named("audit.sink")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.sink")
	}
	s := &Sink{
		repo:    repo,
		logger:  l,
		entries: make(chan Log, sinkBuffer),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Record enqueues one audit row. actorID is nil for system actions.
func (s *Sink) Record(actorID *uuid.UUID, action, model, objectID, details, ip string) {
	entry := Log{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    action,
		Model:     model,
		ObjectID:  objectID,
		Details:   details,
		IPAddress: ip,
		CreatedAt: time.Now().UTC(),
	}

	select {
	case s.entries <- entry:
	default:
		s.logger.Warn("audit buffer full, entry dropped",
			zap.String("action", action),
			zap.String("object_id", objectID))
	}
}

// Close flushes buffered entries and stops the writer. Safe to call
// more than once.
func (s *Sink) Close() {
	s.once.Do(func() {
		close(s.entries)
		<-s.done
	})
}

func (s *Sink) run() {
	defer close(s.done)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]Log, 0, flushBatch)
	for {
		select {
		case entry, ok := <-s.entries:
			if !ok {
				s.flush(batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= flushBatch {
				s.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Sink) flush(batch []Log) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, batch); err != nil {
		s.logger.Error("audit flush failed",
			zap.Int("entries", len(batch)),
			zap.Error(err))
	}
}
