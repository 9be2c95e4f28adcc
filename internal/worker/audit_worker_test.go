package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/rs/zerolog"
)

type fakeStore struct {
	bulkErr  error
	rejected map[uuid.UUID]bool
	bulk     int
	rows     []model.AuditLog
}

func (f *fakeStore) InsertMany(_ context.Context, entries []model.AuditLog) error {
	if f.bulkErr != nil {
		return f.bulkErr
	}
	f.bulk++
	f.rows = append(f.rows, entries...)
	return nil
}

func (f *fakeStore) Insert(_ context.Context, e *model.AuditLog) error {
	if f.rejected[e.ID] {
		return errors.New("insert rejected")
	}
	f.rows = append(f.rows, *e)
	return nil
}

func entries(n int) []model.AuditLog {
	out := make([]model.AuditLog, n)
	for i := range out {
		out[i] = model.AuditLog{ID: uuid.New(), Action: model.AuditUpdated}
	}
	return out
}

func TestFlushUsesBulkInsert(t *testing.T) {
	store := &fakeStore{}
	w := NewAuditWorker(store, nil, zerolog.Nop())

	if failed := w.flush(context.Background(), entries(3)); len(failed) != 0 {
		t.Errorf("failed = %v", failed)
	}
	if store.bulk != 1 || len(store.rows) != 3 {
		t.Errorf("bulk calls = %d, rows = %d", store.bulk, len(store.rows))
	}
}

func TestFlushFallsBackRowByRow(t *testing.T) {
	batch := entries(4)
	store := &fakeStore{
		bulkErr:  errors.New("copy failed"),
		rejected: map[uuid.UUID]bool{batch[2].ID: true},
	}
	w := NewAuditWorker(store, nil, zerolog.Nop())

	failed := w.flush(context.Background(), batch)
	if len(failed) != 1 || failed[0].ID != batch[2].ID {
		t.Errorf("failed = %v, want only entry 2", failed)
	}
	if len(store.rows) != 3 {
		t.Errorf("rows written = %d, want 3", len(store.rows))
	}
}
