package model

import (
	"time"

	"github.com/google/uuid"
)

// Area is a named pickup point on a route. PickupOrder ranks it along the route.
type Area struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	RouteID     uuid.UUID `json:"route_id"`
	PickupOrder int       `json:"pickup_order"`
	CreatedAt   time.Time `json:"created_at"`
}

type AreaRequest struct {
	Name        string    `json:"name" binding:"required,min=2,max=100"`
	RouteID     uuid.UUID `json:"route_id" binding:"required"`
	PickupOrder int       `json:"pickup_order" binding:"omitempty,min=1"`
}
