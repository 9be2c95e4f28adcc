package model

import (
	"time"

	"github.com/google/uuid"
)

// RouteStatus enumerates the lifecycle states of a route.
type RouteStatus string

const (
	RouteStatusActive   RouteStatus = "active"
	RouteStatusArchived RouteStatus = "archived"
)

// Route is a named bus route serving an ordered list of pickup areas.
type Route struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	VehicleNo string      `json:"vehicle_no"`
	Areas     []string    `json:"areas"`
	Term      string      `json:"term"`
	Year      int         `json:"year"`
	Status    RouteStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RouteSummary extends Route with the counts and personnel shown in listings.
type RouteSummary struct {
	Route
	LearnerCount int    `json:"learner_count"`
	DriverName   string `json:"driver_name"`
	MinderName   string `json:"minder_name"`
}

// RouteRequest is the payload for creating or updating a route.
type RouteRequest struct {
	Name      string      `json:"name" binding:"required,min=2,max=100"`
	VehicleNo string      `json:"vehicle_no" binding:"required,max=20"`
	Areas     []string    `json:"areas" binding:"omitempty,dive,required,max=100"`
	Term      string      `json:"term" binding:"required,max=20"`
	Year      int         `json:"year" binding:"required,min=2000,max=2100"`
	Status    RouteStatus `json:"status" binding:"omitempty,oneof=active archived"`
}
