package model

import (
	"time"

	"github.com/google/uuid"
)

// Minder is the attendant riding along with a driver.
type Minder struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	DriverID  *uuid.UUID `json:"driver_id"`
	RouteID   *uuid.UUID `json:"route_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MinderRequest is the payload for creating or updating a minder.
type MinderRequest struct {
	Name     string     `json:"name" binding:"required,min=2,max=100"`
	Phone    string     `json:"phone" binding:"required,ke_phone"`
	DriverID *uuid.UUID `json:"driver_id"`
	RouteID  *uuid.UUID `json:"route_id"`
}
