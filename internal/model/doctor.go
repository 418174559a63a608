package model

import (
	"github.com/google/uuid"
)

type Doctor struct {
	Base
	HospitalID uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Name       string    `db:"name" json:"name"`
}

type CreateDoctorRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type UpdateDoctorRequest struct {
	Name *string `json:"name"`
}
