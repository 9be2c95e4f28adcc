package model

import (
	"time"

	"github.com/google/uuid"
)

// StaffRole distinguishes drivers from administrators. Both sign in through
// the same staff table.
type StaffRole string

const (
	RoleDriver StaffRole = "driver"
	RoleAdmin  StaffRole = "admin"
)

// StaffStatus marks whether a staff account may sign in.
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusInactive StaffStatus = "inactive"
)

// Driver represents a staff account: a route driver or an administrator.
type Driver struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	PasswordHash string      `json:"-"`
	RouteID      *uuid.UUID  `json:"route_id"`
	RouteName    string      `json:"route_name,omitempty"`
	Role         StaffRole   `json:"role"`
	Status       StaffStatus `json:"status"`
	PhotoURL     string      `json:"photo_url"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// IsAdmin reports whether the account has administrator rights.
func (d *Driver) IsAdmin() bool {
	return d.Role == RoleAdmin
}

// DriverRequest is the payload for creating or updating a staff account.
type DriverRequest struct {
	Name     string      `json:"name" binding:"required,min=2,max=100"`
	Email    string      `json:"email" binding:"required,email,max=255"`
	Phone    string      `json:"phone" binding:"required,ke_phone"`
	RouteID  *uuid.UUID  `json:"route_id"`
	Role     StaffRole   `json:"role" binding:"omitempty,oneof=driver admin"`
	Status   StaffStatus `json:"status" binding:"omitempty,oneof=active inactive"`
	PhotoURL string      `json:"photo_url" binding:"omitempty,max=500"`
	Password string      `json:"password" binding:"omitempty,min=6,max=128"`
}

// LoginRequest is the payload for staff authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// RegisterRequest is the payload for driver self-registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Phone    string `json:"phone" binding:"required,ke_phone"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after successful authentication.
type LoginResponse struct {
	Token       string   `json:"token"`
	Driver      Driver   `json:"driver"`
	Permissions []string `json:"permissions"`
}
