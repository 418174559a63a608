package model

import (
	"time"

	"github.com/google/uuid"
)

// DaySchedule is a hospital's operating window resolved onto a concrete
// calendar date. Zero break times mean the day has no break window.
type DaySchedule struct {
	HospitalID uuid.UUID `json:"hospital_id"`
	Date       time.Time `json:"date"`
	Open       time.Time `json:"open"`
	Close      time.Time `json:"close"`
	BreakStart time.Time `json:"break_start,omitempty"`
	BreakEnd   time.Time `json:"break_end,omitempty"`
}

// HasBreak reports whether the day carries a break window.
func (d *DaySchedule) HasBreak() bool {
	return !d.BreakStart.IsZero() && d.BreakStart.Before(d.BreakEnd)
}

// InBreak reports whether an instant falls inside [breakStart, breakEnd).
func (d *DaySchedule) InBreak(t time.Time) bool {
	return d.HasBreak() && !t.Before(d.BreakStart) && t.Before(d.BreakEnd)
}

// SlotCapacity is the capacity picture for one time point of a product's day.
type SlotCapacity struct {
	Time      time.Time `json:"time"`
	Used      int       `json:"used"`
	Max       int       `json:"max"`
	Bookable  bool      `json:"bookable"`
	BreakTime bool      `json:"break_time"`
}

// Availability is the response shape for availability queries. A closed or
// unconfigured day yields empty slices rather than an error.
type Availability struct {
	Date       time.Time      `json:"date"`
	TimePoints []time.Time    `json:"time_points"`
	StartTimes []time.Time    `json:"start_times"`
	Slots      []SlotCapacity `json:"slots"`
}

type LaneStatus string

const (
	LaneAvailable LaneStatus = "available"
	LaneBooked    LaneStatus = "booked"
	LaneBreak     LaneStatus = "break"
)

// TimetableLane is one lane cell within a time bucket.
type TimetableLane struct {
	Lane          int               `json:"lane"`
	Status        LaneStatus        `json:"status"`
	ReservationID *uuid.UUID        `json:"reservation_id,omitempty"`
	UserID        *uuid.UUID        `json:"user_id,omitempty"`
	ReservationSt ReservationStatus `json:"reservation_status,omitempty"`
	StartTime     *time.Time        `json:"start_time,omitempty"`
	EndTime       *time.Time        `json:"end_time,omitempty"`
}

// TimetableBucket is one display row: a time point and its lanes.
type TimetableBucket struct {
	Time  time.Time       `json:"time"`
	Lanes []TimetableLane `json:"lanes"`
}

// Timetable is the lane layout for one product on one date. Lanes is the
// displayed lane count: max(product capacity, lanes actually used), so
// over-capacity legacy data stays visible.
type Timetable struct {
	ProductID uuid.UUID         `json:"product_id"`
	Date      time.Time         `json:"date"`
	Lanes     int               `json:"lanes"`
	Buckets   []TimetableBucket `json:"buckets"`
}
