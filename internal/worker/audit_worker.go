package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// AuditStore persists audit entries. The audit repository satisfies it.
type AuditStore interface {
	InsertMany(ctx context.Context, entries []model.AuditLog) error
	Insert(ctx context.Context, entry *model.AuditLog) error
}

// AuditWorker consumes the audit queue and writes entries to PostgreSQL in
// batches.
type AuditWorker struct {
	store AuditStore
	rdb   *redis.Client
	queue string
	log   zerolog.Logger
}

// NewAuditWorker creates a new AuditWorker.
func NewAuditWorker(store AuditStore, rdb *redis.Client, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		store: store,
		rdb:   rdb,
		queue: config.WorkerKey.PersistAuditQueue,
		log:   log.With().Str("component", "audit_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled. Call in a goroutine.
func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	buffer := make([]model.AuditLog, 0, BatchSize)
	lastFlush := time.Now()

	for {
		if len(buffer) > 0 && (len(buffer) >= BatchSize || time.Since(lastFlush) >= BatchTimeout) {
			w.flushSafe(ctx, buffer)
			buffer = buffer[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, PollTimeout, w.queue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		var entry model.AuditLog
		if err := json.Unmarshal([]byte(result[1]), &entry); err != nil {
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed audit entry")
			continue
		}
		buffer = append(buffer, entry)
	}
}

// flushSafe writes batch with one COPY and falls back to row-by-row inserts.
// Rows that still fail go back on the queue.
func (w *AuditWorker) flushSafe(ctx context.Context, batch []model.AuditLog) {
	failed := w.flush(ctx, batch)
	if len(failed) > 0 {
		w.requeue(ctx, failed)
	}
}

func (w *AuditWorker) flush(ctx context.Context, batch []model.AuditLog) []model.AuditLog {
	err := w.store.InsertMany(ctx, batch)
	if err == nil {
		return nil
	}
	w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")

	var failed []model.AuditLog
	for i := range batch {
		if err := w.store.Insert(ctx, &batch[i]); err != nil {
			w.log.Error().Err(err).Str("audit_id", batch[i].ID.String()).Msg("Insert failed, requeueing")
			failed = append(failed, batch[i])
		}
	}
	return failed
}

func (w *AuditWorker) requeue(ctx context.Context, items []model.AuditLog) {
	pipe := w.rdb.Pipeline()
	for i := range items {
		data, _ := json.Marshal(items[i])
		pipe.RPush(ctx, w.queue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Int("count", len(items)).Msg("Failed to requeue audit entries; entries lost")
		return
	}
	w.log.Info().Int("count", len(items)).Msg("Requeued failed audit entries")
	time.Sleep(2 * time.Second)
}

// shutdown flushes the buffer and whatever is still queued.
func (w *AuditWorker) shutdown(buffer []model.AuditLog) {
	w.log.Info().Msg("Worker stopping, flushing remaining entries...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for len(buffer) < BatchSize*4 {
		raw, err := w.rdb.LPop(ctx, w.queue).Result()
		if err != nil {
			break
		}
		var entry model.AuditLog
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		buffer = append(buffer, entry)
	}

	if len(buffer) > 0 {
		if failed := w.flush(ctx, buffer); len(failed) > 0 {
			w.log.Error().Int("count", len(failed)).Msg("Audit entries left unwritten at shutdown")
		}
	}
	w.log.Info().Int("count", len(buffer)).Msg("Worker stopped")
}
