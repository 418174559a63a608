package model

import (
	"github.com/google/uuid"
)

// TreatmentProduct is a bookable service offered by a hospital. Duration and
// MaxCapacity are the business parameters the availability calculator
// enforces; they never change after creation.
type TreatmentProduct struct {
	Base
	HospitalID      uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	MaxCapacity     int       `db:"max_capacity" json:"max_capacity"`
	Price           int64     `db:"price" json:"price"`
}

type CreateTreatmentProductRequest struct {
	Name            string `json:"name" binding:"required,max=100"`
	Description     string `json:"description" binding:"max=500"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0"`
	MaxCapacity     int    `json:"max_capacity" binding:"required,gte=1"`
	Price           int64  `json:"price" binding:"gte=0"`
}

type UpdateTreatmentProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
}
