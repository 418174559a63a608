package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/repository"
	"github.com/medops/clinic-api/internal/service/calendar"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

// DefaultInterval is the display granularity for slot generation.
const DefaultInterval = 30 * time.Minute

type Service struct {
	calendar    *calendar.Service
	productRepo repository.TreatmentProductRepository
	resRepo     repository.ReservationRepository
}

func NewService(cal *calendar.Service, productRepo repository.TreatmentProductRepository, resRepo repository.ReservationRepository) *Service {
	return &Service{
		calendar:    cal,
		productRepo: productRepo,
		resRepo:     resRepo,
	}
}

// ComputeTimePoints steps from open to close inclusive, skipping points that
// fall inside the break window. The final point may equal the close time: it
// is a legal end-time choice, and callers validate start+duration <= close
// separately before accepting a booking.
func ComputeTimePoints(schedule *model.DaySchedule, interval time.Duration) []time.Time {
	if schedule == nil || interval <= 0 || !schedule.Open.Before(schedule.Close) {
		return nil
	}

	var points []time.Time
	for t := schedule.Open; !t.After(schedule.Close); t = t.Add(interval) {
		if schedule.InBreak(t) {
			continue
		}
		points = append(points, t)
	}
	return points
}

// StartTimes returns the bookable start points: every time point except the
// last, which can only terminate a reservation.
func StartTimes(points []time.Time) []time.Time {
	if len(points) < 2 {
		return nil
	}
	return points[:len(points)-1]
}

// EndTimes returns the legal end points for a chosen start: all later points.
// The duration is whatever the caller picked; fixed-duration products are
// validated against the product at booking time.
func EndTimes(points []time.Time, start time.Time) []time.Time {
	var ends []time.Time
	for _, p := range points {
		if p.After(start) {
			ends = append(ends, p)
		}
	}
	return ends
}

// CapacityAt counts the non-canceled reservations of the product whose
// interval contains the instant.
func (s *Service) CapacityAt(ctx context.Context, productID uuid.UUID, instant time.Time) (used, max int, err error) {
	product, err := s.productRepo.Get(ctx, productID)
	if err != nil {
		return 0, 0, err
	}

	overlapping, err := s.resRepo.ListOverlapping(ctx, productID, instant, instant.Add(time.Nanosecond))
	if err != nil {
		return 0, 0, err
	}
	return len(overlapping), product.MaxCapacity, nil
}

// CheckCapacity verifies that adding one reservation over [start, end) keeps
// the product within capacity at every instant of the span, not just the
// start. excludeID ignores the reservation being rescheduled or revived.
func (s *Service) CheckCapacity(ctx context.Context, product *model.TreatmentProduct, start, end time.Time, excludeID *uuid.UUID) error {
	overlapping, err := s.resRepo.ListOverlapping(ctx, product.ID, start, end)
	if err != nil {
		return fmt.Errorf("failed to load overlapping reservations: %w", err)
	}

	if excludeID != nil {
		filtered := overlapping[:0]
		for _, r := range overlapping {
			if r.ID != *excludeID {
				filtered = append(filtered, r)
			}
		}
		overlapping = filtered
	}

	if maxConcurrency(overlapping, start, end)+1 > product.MaxCapacity {
		return apperrors.CapacityExceeded(fmt.Sprintf("no remaining capacity for %s in the requested window", product.Name))
	}
	return nil
}

// maxConcurrency sweeps the existing reservations' boundaries inside
// [start, end) and returns the peak overlap count. A reservation spanning a
// capacity boundary is thereby checked across its whole span.
func maxConcurrency(reservations []*model.Reservation, start, end time.Time) int {
	if len(reservations) == 0 {
		return 0
	}

	boundaries := []time.Time{start}
	for _, r := range reservations {
		if r.StartTime.After(start) && r.StartTime.Before(end) {
			boundaries = append(boundaries, r.StartTime)
		}
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })

	peak := 0
	for _, b := range boundaries {
		count := 0
		for _, r := range reservations {
			if !r.StartTime.After(b) && r.EndTime.After(b) {
				count++
			}
		}
		if count > peak {
			peak = count
		}
	}
	return peak
}

// ValidateWindow checks that [start, end) lies inside the operating day and
// does not cross the break window.
func ValidateWindow(schedule *model.DaySchedule, start, end time.Time) error {
	if start.Before(schedule.Open) || end.After(schedule.Close) {
		return apperrors.OutsideBusinessHours("requested time is outside business hours")
	}
	if schedule.HasBreak() && start.Before(schedule.BreakEnd) && schedule.BreakStart.Before(end) {
		return apperrors.OutsideBusinessHours("requested time overlaps the break window")
	}
	return nil
}

// GetAvailability builds the bookable picture for one product and date: the
// raw time points, the start-time subset and per-point capacity. A closed or
// unconfigured day is not an error for this read path; it simply has no slots.
func (s *Service) GetAvailability(ctx context.Context, hospitalID, productID uuid.UUID, date time.Time) (*model.Availability, error) {
	product, err := s.productRepo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.calendar.ResolveDay(ctx, hospitalID, date)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotOperating) {
			return &model.Availability{Date: date}, nil
		}
		return nil, err
	}

	points := ComputeTimePoints(schedule, DefaultInterval)
	if len(points) == 0 {
		return &model.Availability{Date: date}, nil
	}

	dayStart := schedule.Open
	dayEnd := schedule.Close
	reservations, err := s.resRepo.ListOverlapping(ctx, productID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(product.DurationMinutes) * time.Minute
	slots := make([]model.SlotCapacity, 0, len(points))
	for _, p := range points {
		used := 0
		for _, r := range reservations {
			if !r.StartTime.After(p) && r.EndTime.After(p) {
				used++
			}
		}
		slot := model.SlotCapacity{
			Time:      p,
			Used:      used,
			Max:       product.MaxCapacity,
			BreakTime: schedule.InBreak(p),
		}
		// A point is bookable when the full product duration fits before
		// closing and the whole span stays under capacity.
		if !p.Add(duration).After(schedule.Close) {
			slot.Bookable = s.spanFits(product, reservations, schedule, p, p.Add(duration))
		}
		slots = append(slots, slot)
	}

	return &model.Availability{
		Date:       date,
		TimePoints: points,
		StartTimes: StartTimes(points),
		Slots:      slots,
	}, nil
}

func (s *Service) spanFits(product *model.TreatmentProduct, reservations []*model.Reservation, schedule *model.DaySchedule, start, end time.Time) bool {
	if ValidateWindow(schedule, start, end) != nil {
		return false
	}
	var overlapping []*model.Reservation
	for _, r := range reservations {
		if r.Overlaps(start, end) {
			overlapping = append(overlapping, r)
		}
	}
	return maxConcurrency(overlapping, start, end)+1 <= product.MaxCapacity
}
