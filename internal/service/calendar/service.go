package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/repository"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

// Service resolves a hospital's per-weekday operating configuration into
// concrete instants for a given date. It has no side effects; everything is
// derived from the stored business hours.
type Service struct {
	repo repository.BusinessHourRepository
}

func NewService(repo repository.BusinessHourRepository) *Service {
	return &Service{repo: repo}
}

// ResolveDay returns the operating window for the hospital on the given date.
// A missing row or a closed day yields a NotOperating error.
func (s *Service) ResolveDay(ctx context.Context, hospitalID uuid.UUID, date time.Time) (*model.DaySchedule, error) {
	hour, err := s.repo.GetByDay(ctx, hospitalID, model.WeekdayOf(date))
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotOperating(fmt.Sprintf("no business hours configured for %s", model.WeekdayOf(date)))
		}
		return nil, fmt.Errorf("failed to resolve business hours: %w", err)
	}

	if hour.Closed {
		return nil, apperrors.NotOperating(fmt.Sprintf("hospital is closed on %s", hour.DayOfWeek))
	}

	open, err := hour.OpenTime.Anchor(date)
	if err != nil {
		return nil, fmt.Errorf("invalid open time: %w", err)
	}
	close, err := hour.CloseTime.Anchor(date)
	if err != nil {
		return nil, fmt.Errorf("invalid close time: %w", err)
	}

	schedule := &model.DaySchedule{
		HospitalID: hospitalID,
		Date:       date,
		Open:       open,
		Close:      close,
	}

	if !hour.BreakStartTime.IsZero() && !hour.BreakEndTime.IsZero() {
		breakStart, err := hour.BreakStartTime.Anchor(date)
		if err != nil {
			return nil, fmt.Errorf("invalid break start time: %w", err)
		}
		breakEnd, err := hour.BreakEndTime.Anchor(date)
		if err != nil {
			return nil, fmt.Errorf("invalid break end time: %w", err)
		}
		schedule.BreakStart = breakStart
		schedule.BreakEnd = breakEnd
	}

	return schedule, nil
}

// ValidateBusinessHour checks a single weekday row:
// open < close, and when a break is set, open <= breakStart < breakEnd <= close.
// Closed days skip the checks entirely.
func ValidateBusinessHour(openTime, closeTime, breakStart, breakEnd model.TimeOfDay, closed bool) error {
	if closed {
		return nil
	}

	if _, _, err := openTime.Parse(); err != nil {
		return apperrors.BadRequest("invalid open time", err)
	}
	if _, _, err := closeTime.Parse(); err != nil {
		return apperrors.BadRequest("invalid close time", err)
	}
	if !openTime.Before(closeTime) {
		return apperrors.BadRequest("open time must be before close time", nil)
	}

	if breakStart.IsZero() != breakEnd.IsZero() {
		return apperrors.BadRequest("break start and end must be set together", nil)
	}
	if breakStart.IsZero() {
		return nil
	}

	if _, _, err := breakStart.Parse(); err != nil {
		return apperrors.BadRequest("invalid break start time", err)
	}
	if _, _, err := breakEnd.Parse(); err != nil {
		return apperrors.BadRequest("invalid break end time", err)
	}
	if breakStart.Before(openTime) {
		return apperrors.BadRequest("break cannot start before opening", nil)
	}
	if !breakStart.Before(breakEnd) {
		return apperrors.BadRequest("break start must be before break end", nil)
	}
	if closeTime.Before(breakEnd) {
		return apperrors.BadRequest("break cannot end after closing", nil)
	}

	return nil
}
