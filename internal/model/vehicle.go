package model

import (
	"time"

	"github.com/google/uuid"
)

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusInactive    VehicleStatus = "inactive"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

type Vehicle struct {
	ID        uuid.UUID     `json:"id"`
	VehicleNo string        `json:"vehicle_no"`
	Make      string        `json:"make"`
	Model     string        `json:"model"`
	Year      int           `json:"year"`
	Color     string        `json:"color"`
	Capacity  int           `json:"capacity"`
	ImageURL  string        `json:"image_url"`
	Status    VehicleStatus `json:"status"`
	RouteID   *uuid.UUID    `json:"route_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type VehicleRequest struct {
	VehicleNo string        `json:"vehicle_no" binding:"required,max=20"`
	Make      string        `json:"make" binding:"omitempty,max=50"`
	Model     string        `json:"model" binding:"omitempty,max=50"`
	Year      int           `json:"year" binding:"omitempty,min=1950,max=2100"`
	Color     string        `json:"color" binding:"omitempty,max=30"`
	Capacity  int           `json:"capacity" binding:"omitempty,min=1,max=120"`
	ImageURL  string        `json:"image_url" binding:"omitempty,max=500"`
	Status    VehicleStatus `json:"status" binding:"omitempty,oneof=active inactive maintenance"`
	RouteID   *uuid.UUID    `json:"route_id"`
}
