package timetable

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/repository"
	"github.com/medops/clinic-api/internal/service/availability"
	"github.com/medops/clinic-api/internal/service/calendar"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

// Service computes the lane layout for a product's day: each reservation is
// assigned a numbered lane so concurrent bookings render side by side.
// The layout is a pure read-side computation, recomputed on every call,
// because the underlying reservation set can change between reads.
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

// allTimePoints steps from open to close inclusive. Unlike the availability
// view, the timetable keeps break points: they render as break rows instead
// of disappearing from the grid.
func allTimePoints(schedule *model.DaySchedule, interval time.Duration) []time.Time {
	if !schedule.Open.Before(schedule.Close) {
		return nil
	}
	var points []time.Time
	for t := schedule.Open; !t.After(schedule.Close); t = t.Add(interval) {
		points = append(points, t)
	}
	return points
}

// AssignLanes greedily colors the interval graph: reservations sorted by
// start time each take the lowest lane no overlapping reservation holds.
// Earliest-start greedy is optimal for the number of lanes needed.
func AssignLanes(reservations []*model.Reservation) map[uuid.UUID]int {
	sorted := make([]*model.Reservation, len(reservations))
	copy(sorted, reservations)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartTime.Equal(sorted[j].StartTime) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	lanes := make(map[uuid.UUID]int, len(sorted))
	for _, r := range sorted {
		lane := 0
		for {
			conflict := false
			for _, other := range sorted {
				if other.ID == r.ID {
					continue
				}
				assigned, ok := lanes[other.ID]
				if ok && assigned == lane && other.Overlaps(r.StartTime, r.EndTime) {
					conflict = true
					break
				}
			}
			if !conflict {
				break
			}
			lane++
		}
		lanes[r.ID] = lane
	}
	return lanes
}

// GetTimetable builds the display layout for one product and date. Displayed
// lane count is max(capacity, lanes actually used) so over-capacity legacy
// bookings stay visible instead of being dropped.
func (s *Service) GetTimetable(ctx context.Context, hospitalID, productID uuid.UUID, date time.Time) (*model.Timetable, error) {
	product, err := s.productRepo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.HospitalID != hospitalID {
		return nil, apperrors.NotFound("treatment product", nil)
	}

	schedule, err := s.calendar.ResolveDay(ctx, hospitalID, date)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotOperating) {
			return &model.Timetable{ProductID: productID, Date: date, Lanes: product.MaxCapacity}, nil
		}
		return nil, err
	}

	points := allTimePoints(schedule, availability.DefaultInterval)
	reservations, err := s.resRepo.ListOverlapping(ctx, productID, schedule.Open, schedule.Close)
	if err != nil {
		return nil, err
	}

	laneByID := AssignLanes(reservations)
	lanesUsed := 0
	for _, lane := range laneByID {
		if lane+1 > lanesUsed {
			lanesUsed = lane + 1
		}
	}
	displayLanes := product.MaxCapacity
	if lanesUsed > displayLanes {
		displayLanes = lanesUsed
	}

	buckets := make([]model.TimetableBucket, 0, len(points))
	for _, p := range points {
		bucket := model.TimetableBucket{Time: p, Lanes: make([]model.TimetableLane, displayLanes)}
		for i := range bucket.Lanes {
			bucket.Lanes[i] = model.TimetableLane{Lane: i, Status: model.LaneAvailable}
		}

		if schedule.InBreak(p) {
			for i := range bucket.Lanes {
				bucket.Lanes[i].Status = model.LaneBreak
			}
			buckets = append(buckets, bucket)
			continue
		}

		for _, r := range reservations {
			if r.StartTime.After(p) || !r.EndTime.After(p) {
				continue
			}
			lane := laneByID[r.ID]
			start, end := r.StartTime, r.EndTime
			id, userID := r.ID, r.UserID
			bucket.Lanes[lane] = model.TimetableLane{
				Lane:          lane,
				Status:        model.LaneBooked,
				ReservationID: &id,
				UserID:        &userID,
				ReservationSt: r.Status,
				StartTime:     &start,
				EndTime:       &end,
			}
		}
		buckets = append(buckets, bucket)
	}

	return &model.Timetable{
		ProductID: productID,
		Date:      date,
		Lanes:     displayLanes,
		Buckets:   buckets,
	}, nil
}
