package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction enumerates the learner lifecycle events that are recorded.
type AuditAction string

const (
	AuditCreated     AuditAction = "created"
	AuditUpdated     AuditAction = "updated"
	AuditDeactivated AuditAction = "deactivated"
	AuditReactivated AuditAction = "reactivated"
	AuditRollover    AuditAction = "year_end_rollover"
	AuditImported    AuditAction = "imported"
)

// AuditLog is one recorded change. Field-level updates carry the old and new value.
type AuditLog struct {
	ID        uuid.UUID   `json:"id"`
	LearnerID *uuid.UUID  `json:"learner_id"`
	UserID    *uuid.UUID  `json:"user_id"`
	UserName  string      `json:"user_name"`
	UserRole  string      `json:"user_role"`
	Action    AuditAction `json:"action"`
	FieldName string      `json:"field_name"`
	OldValue  string      `json:"old_value"`
	NewValue  string      `json:"new_value"`
	Details   string      `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Actor identifies who performed an audited action.
type Actor struct {
	UserID   uuid.UUID
	UserName string
	Role     StaffRole
	RouteID  *uuid.UUID
}

// IsAdmin reports whether the actor has administrator rights.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
