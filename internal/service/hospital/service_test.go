package hospital

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/service/event"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

type fakeHospitalRepo struct {
	hospitals map[uuid.UUID]*model.Hospital
}

func (f *fakeHospitalRepo) Create(ctx context.Context, h *model.Hospital) error {
	h.ID = uuid.New()
	f.hospitals[h.ID] = h
	return nil
}

func (f *fakeHospitalRepo) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	h, ok := f.hospitals[id]
	if !ok {
		return nil, apperrors.NotFound("hospital", nil)
	}
	return h, nil
}

func (f *fakeHospitalRepo) Update(ctx context.Context, h *model.Hospital) error {
	f.hospitals[h.ID] = h
	return nil
}

func (f *fakeHospitalRepo) List(ctx context.Context) ([]*model.Hospital, error) {
	var out []*model.Hospital
	for _, h := range f.hospitals {
		out = append(out, h)
	}
	return out, nil
}

type fakeHourRepo struct {
	hours []*model.BusinessHour
}

func (f *fakeHourRepo) Create(ctx context.Context, h *model.BusinessHour) error {
	f.hours = append(f.hours, h)
	return nil
}

func (f *fakeHourRepo) GetByDay(ctx context.Context, hospitalID uuid.UUID, day model.Weekday) (*model.BusinessHour, error) {
	for _, h := range f.hours {
		if h.HospitalID == hospitalID && h.DayOfWeek == day {
			return h, nil
		}
	}
	return nil, apperrors.NotFound("business hour", nil)
}

func (f *fakeHourRepo) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.BusinessHour, error) {
	return f.hours, nil
}

func (f *fakeHourRepo) Update(ctx context.Context, h *model.BusinessHour) error { return nil }

type fakeProductRepo struct {
	products []*model.TreatmentProduct
}

func (f *fakeProductRepo) Create(ctx context.Context, p *model.TreatmentProduct) error {
	f.products = append(f.products, p)
	return nil
}

func (f *fakeProductRepo) Get(ctx context.Context, id uuid.UUID) (*model.TreatmentProduct, error) {
	return nil, apperrors.NotFound("treatment product", nil)
}
func (f *fakeProductRepo) Update(ctx context.Context, p *model.TreatmentProduct) error { return nil }
func (f *fakeProductRepo) SoftDelete(ctx context.Context, id uuid.UUID) error          { return nil }
func (f *fakeProductRepo) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.TreatmentProduct, error) {
	return f.products, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(ctx context.Context, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string, retryAt *time.Time) error {
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newTestService() (*Service, *fakeHourRepo, *fakeProductRepo, *fakeOutboxRepo) {
	hourRepo := &fakeHourRepo{}
	productRepo := &fakeProductRepo{}
	outboxRepo := &fakeOutboxRepo{}
	svc := NewService(
		&fakeHospitalRepo{hospitals: make(map[uuid.UUID]*model.Hospital)},
		hourRepo,
		productRepo,
		event.NewService(outboxRepo),
	)
	return svc, hourRepo, productRepo, outboxRepo
}

func TestRegisterSeedsWeekAndProducts(t *testing.T) {
	svc, hourRepo, productRepo, _ := newTestService()

	h, err := svc.Register(context.Background(), &model.CreateHospitalRequest{
		Name:    "Seoul Clinic",
		Address: "1 Gangnam-daero",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, h.ID)

	// One row per weekday, Sundays closed by default.
	require.Len(t, hourRepo.hours, 7)
	seen := make(map[model.Weekday]bool)
	for _, hour := range hourRepo.hours {
		seen[hour.DayOfWeek] = true
		assert.Equal(t, h.ID, hour.HospitalID)
		if hour.DayOfWeek == model.Sunday {
			assert.True(t, hour.Closed)
		} else {
			assert.False(t, hour.Closed)
			assert.Equal(t, model.TimeOfDay("09:00"), hour.OpenTime)
			assert.Equal(t, model.TimeOfDay("18:00"), hour.CloseTime)
		}
	}
	assert.Len(t, seen, 7)

	require.Len(t, productRepo.products, 2)
	for _, p := range productRepo.products {
		assert.Equal(t, h.ID, p.HospitalID)
		assert.Equal(t, 1, p.MaxCapacity)
	}
}

func TestUpdateBusinessHour(t *testing.T) {
	svc, _, _, outboxRepo := newTestService()

	h, err := svc.Register(context.Background(), &model.CreateHospitalRequest{
		Name:    "Seoul Clinic",
		Address: "1 Gangnam-daero",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateBusinessHour(context.Background(), h.ID, model.Monday, &model.UpdateBusinessHourRequest{
		OpenTime:       "10:00",
		CloseTime:      "20:00",
		BreakStartTime: "14:00",
		BreakEndTime:   "15:00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TimeOfDay("10:00"), updated.OpenTime)
	assert.Equal(t, model.TimeOfDay("20:00"), updated.CloseTime)

	// The change is announced through the outbox.
	require.Len(t, outboxRepo.events, 1)
	assert.Equal(t, "BusinessHourUpdated", outboxRepo.events[0].EventType)
	assert.Contains(t, outboxRepo.events[0].Channel, h.ID.String())
}

func TestUpdateBusinessHourRejectsBadWindow(t *testing.T) {
	svc, _, _, _ := newTestService()

	h, err := svc.Register(context.Background(), &model.CreateHospitalRequest{
		Name:    "Seoul Clinic",
		Address: "1 Gangnam-daero",
	})
	require.NoError(t, err)

	_, err = svc.UpdateBusinessHour(context.Background(), h.ID, model.Monday, &model.UpdateBusinessHourRequest{
		OpenTime:  "18:00",
		CloseTime: "09:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}
