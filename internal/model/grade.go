package model

import (
	"time"

	"github.com/google/uuid"
)

// GradeType distinguishes grades from the streams nested under them.
type GradeType string

const (
	GradeTypeGrade  GradeType = "grade"
	GradeTypeStream GradeType = "stream"
)

// Grade is an entry of the school's class structure. A stream carries the
// ID of its parent grade.
type Grade struct {
	ID        uuid.UUID  `json:"id"`
	Type      GradeType  `json:"type"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
}

type GradeRequest struct {
	Type     GradeType  `json:"type" binding:"required,oneof=grade stream"`
	Name     string     `json:"name" binding:"required,min=1,max=50"`
	ParentID *uuid.UUID `json:"parent_id" binding:"required_if=Type stream"`
}
