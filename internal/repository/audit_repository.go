package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lelani/transport-backend/internal/model"
)

var auditCopyColumns = []string{
	"id", "learner_id", "user_id", "user_name", "user_role", "action",
	"field_name", "old_value", "new_value", "details", "timestamp",
}

// AuditRepository persists the learner audit trail.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func auditRow(a *model.AuditLog) []interface{} {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return []interface{}{
		a.ID, a.LearnerID, a.UserID, a.UserName, a.UserRole, string(a.Action),
		a.FieldName, a.OldValue, a.NewValue, a.Details, a.Timestamp,
	}
}

// Insert writes a single audit entry.
func (r *AuditRepository) Insert(ctx context.Context, a *model.AuditLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, learner_id, user_id, user_name, user_role, action,
			field_name, old_value, new_value, details, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		auditRow(a)...)
	return err
}

// InsertMany bulk-loads audit entries with COPY.
func (r *AuditRepository) InsertMany(ctx context.Context, entries []model.AuditLog) error {
	rows := make([][]interface{}, len(entries))
	for i := range entries {
		rows[i] = auditRow(&entries[i])
	}
	_, err := r.pool.CopyFrom(ctx, pgx.Identifier{"audit_logs"}, auditCopyColumns, pgx.CopyFromRows(rows))
	return err
}

// Latest returns the most recent entries, newest first, optionally for one learner.
func (r *AuditRepository) Latest(ctx context.Context, learnerID *uuid.UUID, limit int) ([]model.AuditLog, error) {
	query := `SELECT id, learner_id, user_id, user_name, user_role, action, field_name,
			old_value, new_value, details, timestamp
		 FROM audit_logs`
	args := []interface{}{limit}
	if learnerID != nil {
		query += ` WHERE learner_id = $2`
		args = append(args, *learnerID)
	}
	query += ` ORDER BY timestamp DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.AuditLog{}
	for rows.Next() {
		var a model.AuditLog
		if err := rows.Scan(&a.ID, &a.LearnerID, &a.UserID, &a.UserName, &a.UserRole, &a.Action, &a.FieldName,
			&a.OldValue, &a.NewValue, &a.Details, &a.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}
