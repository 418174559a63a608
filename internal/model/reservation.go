package model

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusReserved  ReservationStatus = "RESERVED"
	ReservationStatusCanceled  ReservationStatus = "CANCELED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusReserved,
		ReservationStatusCanceled, ReservationStatusCompleted:
		return true
	}
	return false
}

// CountsAgainstCapacity reports whether a reservation in this status occupies
// a capacity unit. Only canceled reservations release their slot.
func (s ReservationStatus) CountsAgainstCapacity() bool {
	return s != ReservationStatusCanceled
}

// Reservation is a booking of a treatment product, jointly owned by the
// patient who created it and the hospital that operates it. Status is always
// the status implied by the latest status-changing event in the reservation's
// event log; the column here is a replica maintained by the log writer.
type Reservation struct {
	Base
	UserID     uuid.UUID         `db:"user_id" json:"user_id"`
	HospitalID uuid.UUID         `db:"hospital_id" json:"hospital_id"`
	ProductID  uuid.UUID         `db:"product_id" json:"product_id"`
	DoctorID   *uuid.UUID        `db:"doctor_id" json:"doctor_id,omitempty"`
	StartTime  time.Time         `db:"start_time" json:"start_time"`
	EndTime    time.Time         `db:"end_time" json:"end_time"`
	Status     ReservationStatus `db:"status" json:"status"`
	UserMemo   string            `db:"user_memo" json:"user_memo,omitempty"`
	Note       string            `db:"note" json:"note,omitempty"`
}

// Overlaps reports whether the reservation's [start, end) interval intersects
// the given one.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && r.EndTime.After(start)
}

// Actor identifies who triggered an operation. AdminID is nil for
// patient-initiated requests.
type Actor struct {
	UserID     uuid.UUID
	HospitalID uuid.UUID
	AdminID    *uuid.UUID
	Name       string
}

type CreateReservationRequest struct {
	HospitalID uuid.UUID `json:"hospital_id" binding:"required"`
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
	UserMemo   string    `json:"user_memo" binding:"max=1000"`
	// Confirmed creates the reservation directly in RESERVED. Honored only
	// for staff actors; self-service bookings always start PENDING.
	Confirmed bool `json:"confirmed"`
}

type ChangeStatusRequest struct {
	Status ReservationStatus `json:"status" binding:"required"`
	Reason string            `json:"reason" binding:"max=500"`
}

type RescheduleRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
	Reason    string    `json:"reason" binding:"max=500"`
}

type UpdateNoteRequest struct {
	Note string `json:"note" binding:"max=2000"`
}

type AssignDoctorRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
}

type ReservationFilters struct {
	HospitalID uuid.UUID
	ProductID  uuid.UUID
	UserID     uuid.UUID
	Status     ReservationStatus
	StartDate  time.Time
	EndDate    time.Time
}
