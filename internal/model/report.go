package model

import "github.com/google/uuid"

// ReportRequest is the payload for previewing or generating a route report.
// Columns maps optional column keys to their enabled state; omitted keys
// keep their default.
type ReportRequest struct {
	RouteID         uuid.UUID       `json:"route_id"`
	Format          string          `json:"format" binding:"omitempty,oneof=pdf excel"`
	SortBy          string          `json:"sort_by" binding:"omitempty,oneof=name class pickup_area trip"`
	Trip            *int            `json:"trip" binding:"omitempty,min=1"`
	PickupArea      string          `json:"pickup_area" binding:"omitempty,max=100"`
	Class           string          `json:"class" binding:"omitempty,max=50"`
	IncludeInactive bool            `json:"include_inactive"`
	Columns         map[string]bool `json:"columns"`
}

// ReportOptions lists the values a caller can pick from when building a report.
type ReportOptions struct {
	Routes      []Route  `json:"routes"`
	Classes     []string `json:"classes"`
	PickupAreas []string `json:"pickup_areas"`
	Trips       []int    `json:"trips"`
}
