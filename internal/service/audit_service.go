package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AuditLogLimit caps the audit trail listing.
const AuditLogLimit = 500

// AuditRecorder records audit entries on behalf of an actor.
type AuditRecorder interface {
	Record(ctx context.Context, actor model.Actor, entries ...model.AuditLog)
}

// AuditService records learner changes. Entries are queued in Redis and
// persisted by the audit worker; when the queue is unreachable they are
// written directly.
type AuditService struct {
	repo *repository.AuditRepository
	rdb  *redis.Client
	log  zerolog.Logger
	now  func() time.Time
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo *repository.AuditRepository, rdb *redis.Client, log zerolog.Logger) *AuditService {
	return &AuditService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "audit_service").Logger(),
		now:  time.Now,
	}
}

// Record stamps and enqueues entries. Failures are logged, never returned:
// an audit hiccup must not undo the change being audited.
func (s *AuditService) Record(ctx context.Context, actor model.Actor, entries ...model.AuditLog) {
	if len(entries) == 0 {
		return
	}

	now := s.now().UTC()
	payloads := make([]interface{}, 0, len(entries))
	for i := range entries {
		stamp(&entries[i], actor, now)
		b, err := json.Marshal(entries[i])
		if err != nil {
			s.log.Error().Err(err).Msg("Marshal audit entry failed")
			continue
		}
		payloads = append(payloads, b)
	}

	if s.rdb != nil {
		err := s.rdb.RPush(ctx, config.WorkerKey.PersistAuditQueue, payloads...).Err()
		if err == nil {
			return
		}
		s.log.Warn().Err(err).Int("count", len(entries)).Msg("Audit queue unavailable, writing directly")
	}

	if err := s.repo.InsertMany(ctx, entries); err != nil {
		s.log.Error().Err(err).Int("count", len(entries)).Msg("Audit insert failed")
	}
}

func stamp(e *model.AuditLog, actor model.Actor, now time.Time) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	if actor.UserID != uuid.Nil {
		id := actor.UserID
		e.UserID = &id
	}
	e.UserName = actor.UserName
	e.UserRole = string(actor.Role)
}

// List returns the latest audit entries, optionally for one learner.
func (s *AuditService) List(ctx context.Context, learnerID *uuid.UUID) ([]model.AuditLog, error) {
	logs, err := s.repo.Latest(ctx, learnerID, AuditLogLimit)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list audit logs")
		return nil, err
	}
	return logs, nil
}
