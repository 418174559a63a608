package model

import (
	"time"

	"github.com/google/uuid"
)

type Hospital struct {
	Base
	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address"`
}

type CreateHospitalRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Address string `json:"address" binding:"required,max=255"`
}

type UpdateHospitalRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// WeekdayOf maps a calendar date to the business-hour weekday key.
func WeekdayOf(date time.Time) Weekday {
	switch date.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// AllWeekdays is the canonical ordering used when seeding a hospital's week.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// BusinessHour holds one weekday's operating window for a hospital. Exactly
// one row exists per (hospital, weekday). Times are local time-of-day strings
// in HH:MM form; break fields may be empty when the day has no break.
type BusinessHour struct {
	Base
	HospitalID     uuid.UUID `db:"hospital_id" json:"hospital_id"`
	DayOfWeek      Weekday   `db:"day_of_week" json:"day_of_week"`
	OpenTime       TimeOfDay `db:"open_time" json:"open_time"`
	CloseTime      TimeOfDay `db:"close_time" json:"close_time"`
	BreakStartTime TimeOfDay `db:"break_start_time" json:"break_start_time,omitempty"`
	BreakEndTime   TimeOfDay `db:"break_end_time" json:"break_end_time,omitempty"`
	Closed         bool      `db:"closed" json:"closed"`
}

type UpdateBusinessHourRequest struct {
	OpenTime       TimeOfDay `json:"open_time" binding:"required,timeofday"`
	CloseTime      TimeOfDay `json:"close_time" binding:"required,timeofday"`
	BreakStartTime TimeOfDay `json:"break_start_time" binding:"omitempty,timeofday"`
	BreakEndTime   TimeOfDay `json:"break_end_time" binding:"omitempty,timeofday"`
	Closed         bool      `json:"closed"`
}
