package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ReservationEventType string

const (
	EventReservationCreated ReservationEventType = "ReservationCreated"
	EventConfirmed          ReservationEventType = "Confirmed"
	EventPending            ReservationEventType = "Pending"
	EventCanceled           ReservationEventType = "Canceled"
	EventCompleted          ReservationEventType = "Completed"
	EventNoteUpdated        ReservationEventType = "NoteUpdated"
	EventDoctorAssigned     ReservationEventType = "DoctorAssigned"
	EventRescheduled        ReservationEventType = "Rescheduled"
)

// StatusChange returns the reservation status implied by the event type.
// Metadata events (note, doctor, reschedule) imply none. ReservationCreated
// carries its initial status in the payload, so it is resolved by the log,
// not here.
func (t ReservationEventType) StatusChange() (ReservationStatus, bool) {
	switch t {
	case EventConfirmed:
		return ReservationStatusReserved, true
	case EventPending:
		return ReservationStatusPending, true
	case EventCanceled:
		return ReservationStatusCanceled, true
	case EventCompleted:
		return ReservationStatusCompleted, true
	}
	return "", false
}

// ReservationEvent is one entry in a reservation's append-only history.
// Versions are assigned by the log, start at 1 and increase without gaps;
// the (reservation, version) pair is unique and immutable once written.
type ReservationEvent struct {
	ID            uuid.UUID            `db:"id" json:"id"`
	ReservationID uuid.UUID            `db:"reservation_id" json:"reservation_id"`
	HospitalID    uuid.UUID            `db:"hospital_id" json:"hospital_id"`
	UserID        uuid.UUID            `db:"user_id" json:"user_id"`
	EventType     ReservationEventType `db:"event_type" json:"event_type"`
	Version       int                  `db:"version" json:"version"`
	Payload       json.RawMessage      `db:"payload" json:"payload,omitempty"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
}

// Event payloads. Kept as standalone structs so handlers and the audit view
// can unmarshal them without guessing field names.

type ReservationCreatedPayload struct {
	ProductID     uuid.UUID         `json:"product_id"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	UserMemo      string            `json:"user_memo,omitempty"`
	InitialStatus ReservationStatus `json:"initial_status"`
}

type StatusChangedPayload struct {
	AdminID   *uuid.UUID `json:"admin_id,omitempty"`
	AdminName string     `json:"admin_name,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

type NoteUpdatedPayload struct {
	AdminID   *uuid.UUID `json:"admin_id,omitempty"`
	AdminName string     `json:"admin_name,omitempty"`
	Note      string     `json:"note"`
}

type DoctorAssignedPayload struct {
	AdminID    *uuid.UUID `json:"admin_id,omitempty"`
	AdminName  string     `json:"admin_name,omitempty"`
	DoctorID   uuid.UUID  `json:"doctor_id"`
	DoctorName string     `json:"doctor_name"`
}

type RescheduledPayload struct {
	AdminID      *uuid.UUID `json:"admin_id,omitempty"`
	AdminName    string     `json:"admin_name,omitempty"`
	OriginalTime time.Time  `json:"original_time"`
	NewTime      time.Time  `json:"new_time"`
	Reason       string     `json:"reason,omitempty"`
}

// MarshalPayload encodes a payload struct for storage on an event.
func MarshalPayload(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}
