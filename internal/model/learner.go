package model

import (
	"time"

	"github.com/google/uuid"
)

// Learner is a pupil transported on a school route.
type Learner struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	AdmissionNo    string     `json:"admission_no"`
	Class          string     `json:"class"`
	RouteID        *uuid.UUID `json:"route_id"`
	Trip           int        `json:"trip"`
	PickupArea     string     `json:"pickup_area"`
	PickupTime     string     `json:"pickup_time"`
	DropoffArea    string     `json:"dropoff_area"`
	DropTime       string     `json:"drop_time"`
	FatherPhone    string     `json:"father_phone"`
	MotherPhone    string     `json:"mother_phone"`
	HouseHelpPhone string     `json:"house_help_phone"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LearnerRequest is the payload for creating or updating a learner.
type LearnerRequest struct {
	Name           string    `json:"name" binding:"required,min=2,max=150"`
	AdmissionNo    string    `json:"admission_no" binding:"required,max=50"`
	Class          string    `json:"class" binding:"required,max=50"`
	RouteID        uuid.UUID `json:"route_id" binding:"required"`
	Trip           int       `json:"trip" binding:"omitempty,min=1,max=9"`
	PickupArea     string    `json:"pickup_area" binding:"required,max=100"`
	PickupTime     string    `json:"pickup_time" binding:"required,max=20"`
	DropoffArea    string    `json:"dropoff_area" binding:"omitempty,max=100"`
	DropTime       string    `json:"drop_time" binding:"omitempty,max=20"`
	FatherPhone    string    `json:"father_phone" binding:"required,ke_phone"`
	MotherPhone    string    `json:"mother_phone" binding:"required,ke_phone"`
	HouseHelpPhone string    `json:"house_help_phone" binding:"omitempty,ke_phone"`
}

// LearnerFilter narrows a learner listing.
type LearnerFilter struct {
	RouteID         *uuid.UUID
	Class           string
	Search          string
	IncludeInactive bool
}
