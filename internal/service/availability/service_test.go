package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/service/calendar"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*model.TreatmentProduct
}

func (f *fakeProductRepo) Create(ctx context.Context, p *model.TreatmentProduct) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Get(ctx context.Context, id uuid.UUID) (*model.TreatmentProduct, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.NotFound("treatment product", nil)
	}
	return p, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *model.TreatmentProduct) error { return nil }
func (f *fakeProductRepo) SoftDelete(ctx context.Context, id uuid.UUID) error         { return nil }
func (f *fakeProductRepo) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.TreatmentProduct, error) {
	return nil, nil
}

type fakeReservationRepo struct {
	reservations []*model.Reservation
}

func (f *fakeReservationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	for _, r := range f.reservations {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.NotFound("reservation", nil)
}

func (f *fakeReservationRepo) List(ctx context.Context, filters *model.ReservationFilters) ([]*model.Reservation, error) {
	return f.reservations, nil
}

func (f *fakeReservationRepo) ListOverlapping(ctx context.Context, productID uuid.UUID, start, end time.Time) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, r := range f.reservations {
		if r.ProductID == productID && r.Status.CountsAgainstCapacity() && r.Overlaps(start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) CreateWithEvent(ctx context.Context, r *model.Reservation, e *model.ReservationEvent, o *model.OutboxEvent) error {
	f.reservations = append(f.reservations, r)
	return nil
}

func (f *fakeReservationRepo) UpdateWithEvent(ctx context.Context, r *model.Reservation, e *model.ReservationEvent, o *model.OutboxEvent) error {
	for i, existing := range f.reservations {
		if existing.ID == r.ID {
			f.reservations[i] = r
		}
	}
	return nil
}

type fakeHourRepo struct {
	hours map[model.Weekday]*model.BusinessHour
}

func (f *fakeHourRepo) Create(ctx context.Context, h *model.BusinessHour) error { return nil }
func (f *fakeHourRepo) GetByDay(ctx context.Context, hospitalID uuid.UUID, day model.Weekday) (*model.BusinessHour, error) {
	h, ok := f.hours[day]
	if !ok {
		return nil, apperrors.NotFound("business hour", nil)
	}
	return h, nil
}
func (f *fakeHourRepo) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.BusinessHour, error) {
	return nil, nil
}
func (f *fakeHourRepo) Update(ctx context.Context, h *model.BusinessHour) error { return nil }

func daySchedule(t *testing.T) *model.DaySchedule {
	t.Helper()
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	return &model.DaySchedule{
		Date:       day,
		Open:       day.Add(9 * time.Hour),
		Close:      day.Add(18 * time.Hour),
		BreakStart: day.Add(12 * time.Hour),
		BreakEnd:   day.Add(13 * time.Hour),
	}
}

func TestComputeTimePoints(t *testing.T) {
	schedule := daySchedule(t)
	points := ComputeTimePoints(schedule, DefaultInterval)

	// 09:00..18:00 inclusive is 19 half-hour points; the break removes
	// 12:00 and 12:30 but keeps 13:00.
	require.Len(t, points, 17)
	assert.Equal(t, schedule.Open, points[0])
	assert.Equal(t, schedule.Close, points[len(points)-1])

	for _, p := range points {
		assert.False(t, schedule.InBreak(p), "point %v falls in break", p)
	}
	assert.Contains(t, points, schedule.BreakEnd)
	assert.NotContains(t, points, schedule.BreakStart)
}

func TestComputeTimePointsNoBreak(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	schedule := &model.DaySchedule{
		Open:  day.Add(9 * time.Hour),
		Close: day.Add(11 * time.Hour),
	}

	points := ComputeTimePoints(schedule, DefaultInterval)
	require.Len(t, points, 5)
}

func TestComputeTimePointsDegenerate(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, ComputeTimePoints(nil, DefaultInterval))
	assert.Nil(t, ComputeTimePoints(&model.DaySchedule{Open: day, Close: day}, DefaultInterval))
	assert.Nil(t, ComputeTimePoints(daySchedule(t), 0))
}

func TestStartTimes(t *testing.T) {
	points := ComputeTimePoints(daySchedule(t), DefaultInterval)

	starts := StartTimes(points)
	require.Len(t, starts, len(points)-1)
	assert.Equal(t, points[0], starts[0])
	assert.NotContains(t, starts, points[len(points)-1])

	assert.Nil(t, StartTimes(nil))
	assert.Nil(t, StartTimes(points[:1]))
}

func TestEndTimes(t *testing.T) {
	points := ComputeTimePoints(daySchedule(t), DefaultInterval)
	start := points[3]

	ends := EndTimes(points, start)
	require.NotEmpty(t, ends)
	for _, e := range ends {
		assert.True(t, e.After(start))
	}
	assert.Equal(t, points[4], ends[0])
	assert.Equal(t, points[len(points)-1], ends[len(ends)-1])
}

func TestValidateWindow(t *testing.T) {
	schedule := daySchedule(t)
	day := schedule.Date

	assert.NoError(t, ValidateWindow(schedule, day.Add(9*time.Hour), day.Add(10*time.Hour)))
	assert.NoError(t, ValidateWindow(schedule, day.Add(17*time.Hour), day.Add(18*time.Hour)))
	assert.NoError(t, ValidateWindow(schedule, day.Add(13*time.Hour), day.Add(14*time.Hour)))

	err := ValidateWindow(schedule, day.Add(8*time.Hour), day.Add(9*time.Hour))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrOutsideBusinessHours))

	err = ValidateWindow(schedule, day.Add(17*time.Hour+30*time.Minute), day.Add(18*time.Hour+30*time.Minute))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrOutsideBusinessHours))

	// Window straddling the break is rejected.
	err = ValidateWindow(schedule, day.Add(11*time.Hour+30*time.Minute), day.Add(12*time.Hour+30*time.Minute))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrOutsideBusinessHours))
}

func TestCheckCapacity(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	product := &model.TreatmentProduct{MaxCapacity: 2}
	product.ID = uuid.New()

	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	booking := func(start, end time.Time, status model.ReservationStatus) *model.Reservation {
		r := &model.Reservation{
			ProductID: product.ID,
			StartTime: start,
			EndTime:   end,
			Status:    status,
		}
		r.ID = uuid.New()
		return r
	}

	resRepo := &fakeReservationRepo{reservations: []*model.Reservation{
		booking(at(10, 0), at(11, 0), model.ReservationStatusReserved),
		booking(at(10, 30), at(11, 30), model.ReservationStatusPending),
	}}

	productRepo := &fakeProductRepo{products: map[uuid.UUID]*model.TreatmentProduct{product.ID: product}}
	svc := NewService(nil, productRepo, resRepo)

	// Peak overlap in 10:30-11:00 is already 2; a third concurrent booking
	// must be rejected even though it starts where only one overlaps.
	err := svc.CheckCapacity(context.Background(), product, at(10, 45), at(11, 45), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCapacityExceeded))

	// After the peak the slot is free.
	assert.NoError(t, svc.CheckCapacity(context.Background(), product, at(11, 30), at(12, 0), nil))

	// A canceled reservation does not occupy capacity.
	resRepo.reservations[1].Status = model.ReservationStatusCanceled
	assert.NoError(t, svc.CheckCapacity(context.Background(), product, at(10, 45), at(11, 45), nil))
}

func TestCheckCapacityExcludesSelf(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	product := &model.TreatmentProduct{MaxCapacity: 1}
	product.ID = uuid.New()

	existing := &model.Reservation{
		ProductID: product.ID,
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(11 * time.Hour),
		Status:    model.ReservationStatusReserved,
	}
	existing.ID = uuid.New()

	resRepo := &fakeReservationRepo{reservations: []*model.Reservation{existing}}
	productRepo := &fakeProductRepo{products: map[uuid.UUID]*model.TreatmentProduct{product.ID: product}}
	svc := NewService(nil, productRepo, resRepo)

	// Rescheduling within its own window must not count itself.
	assert.NoError(t, svc.CheckCapacity(context.Background(), product, day.Add(10*time.Hour), day.Add(11*time.Hour), &existing.ID))

	err := svc.CheckCapacity(context.Background(), product, day.Add(10*time.Hour), day.Add(11*time.Hour), nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCapacityExceeded))
}

func TestGetAvailability(t *testing.T) {
	hospitalID := uuid.New()
	product := &model.TreatmentProduct{HospitalID: hospitalID, DurationMinutes: 30, MaxCapacity: 1}
	product.ID = uuid.New()

	hourRepo := &fakeHourRepo{hours: map[model.Weekday]*model.BusinessHour{
		model.Monday: {
			DayOfWeek:      model.Monday,
			OpenTime:       "09:00",
			CloseTime:      "18:00",
			BreakStartTime: "12:00",
			BreakEndTime:   "13:00",
		},
	}}
	productRepo := &fakeProductRepo{products: map[uuid.UUID]*model.TreatmentProduct{product.ID: product}}

	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	booked := &model.Reservation{
		ProductID: product.ID,
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(10*time.Hour + 30*time.Minute),
		Status:    model.ReservationStatusReserved,
	}
	booked.ID = uuid.New()
	resRepo := &fakeReservationRepo{reservations: []*model.Reservation{booked}}

	svc := NewService(calendar.NewService(hourRepo), productRepo, resRepo)

	avail, err := svc.GetAvailability(context.Background(), hospitalID, product.ID, day)
	require.NoError(t, err)
	require.NotEmpty(t, avail.Slots)
	assert.Len(t, avail.StartTimes, len(avail.TimePoints)-1)

	bySlot := make(map[time.Time]model.SlotCapacity)
	for _, s := range avail.Slots {
		bySlot[s.Time] = s
	}

	full := bySlot[day.Add(10*time.Hour)]
	assert.Equal(t, 1, full.Used)
	assert.False(t, full.Bookable)

	free := bySlot[day.Add(11*time.Hour)]
	assert.Equal(t, 0, free.Used)
	assert.True(t, free.Bookable)

	// The closing point can never start a booking.
	last := bySlot[day.Add(18*time.Hour)]
	assert.False(t, last.Bookable)
}

func TestGetAvailabilityClosedDay(t *testing.T) {
	hospitalID := uuid.New()
	product := &model.TreatmentProduct{HospitalID: hospitalID, DurationMinutes: 30, MaxCapacity: 1}
	product.ID = uuid.New()

	hourRepo := &fakeHourRepo{hours: map[model.Weekday]*model.BusinessHour{}}
	productRepo := &fakeProductRepo{products: map[uuid.UUID]*model.TreatmentProduct{product.ID: product}}
	svc := NewService(calendar.NewService(hourRepo), productRepo, &fakeReservationRepo{})

	avail, err := svc.GetAvailability(context.Background(), hospitalID, product.ID, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, avail.TimePoints)
	assert.Empty(t, avail.StartTimes)
	assert.Empty(t, avail.Slots)
}
