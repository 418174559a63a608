package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medops/clinic-api/internal/model"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

type fakeHourRepo struct {
	hours map[model.Weekday]*model.BusinessHour
}

func (f *fakeHourRepo) Create(ctx context.Context, hour *model.BusinessHour) error {
	f.hours[hour.DayOfWeek] = hour
	return nil
}

func (f *fakeHourRepo) GetByDay(ctx context.Context, hospitalID uuid.UUID, day model.Weekday) (*model.BusinessHour, error) {
	hour, ok := f.hours[day]
	if !ok {
		return nil, apperrors.NotFound("business hour", nil)
	}
	return hour, nil
}

func (f *fakeHourRepo) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.BusinessHour, error) {
	var out []*model.BusinessHour
	for _, h := range f.hours {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeHourRepo) Update(ctx context.Context, hour *model.BusinessHour) error {
	f.hours[hour.DayOfWeek] = hour
	return nil
}

func mondayHours() *fakeHourRepo {
	return &fakeHourRepo{hours: map[model.Weekday]*model.BusinessHour{
		model.Monday: {
			DayOfWeek:      model.Monday,
			OpenTime:       "09:00",
			CloseTime:      "18:00",
			BreakStartTime: "12:00",
			BreakEndTime:   "13:00",
		},
		model.Sunday: {
			DayOfWeek: model.Sunday,
			OpenTime:  "09:00",
			CloseTime: "18:00",
			Closed:    true,
		},
	}}
}

func TestResolveDay(t *testing.T) {
	svc := NewService(mondayHours())
	hospitalID := uuid.New()
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	schedule, err := svc.ResolveDay(context.Background(), hospitalID, monday)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC), schedule.Open)
	assert.Equal(t, time.Date(2026, 9, 7, 18, 0, 0, 0, time.UTC), schedule.Close)
	assert.Equal(t, time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC), schedule.BreakStart)
	assert.Equal(t, time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC), schedule.BreakEnd)
	assert.True(t, schedule.HasBreak())
}

func TestResolveDayClosed(t *testing.T) {
	svc := NewService(mondayHours())
	sunday := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)

	_, err := svc.ResolveDay(context.Background(), uuid.New(), sunday)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotOperating))
}

func TestResolveDayUnconfigured(t *testing.T) {
	svc := NewService(mondayHours())
	tuesday := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

	_, err := svc.ResolveDay(context.Background(), uuid.New(), tuesday)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotOperating))
}

func TestResolveDayNoBreak(t *testing.T) {
	repo := &fakeHourRepo{hours: map[model.Weekday]*model.BusinessHour{
		model.Monday: {
			DayOfWeek: model.Monday,
			OpenTime:  "10:00",
			CloseTime: "16:00",
		},
	}}
	svc := NewService(repo)

	schedule, err := svc.ResolveDay(context.Background(), uuid.New(), time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, schedule.HasBreak())
	assert.False(t, schedule.InBreak(time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)))
}

func TestValidateBusinessHour(t *testing.T) {
	tests := []struct {
		name       string
		open       model.TimeOfDay
		close      model.TimeOfDay
		breakStart model.TimeOfDay
		breakEnd   model.TimeOfDay
		closed     bool
		wantErr    bool
	}{
		{name: "valid with break", open: "09:00", close: "18:00", breakStart: "12:00", breakEnd: "13:00"},
		{name: "valid without break", open: "09:00", close: "18:00"},
		{name: "closed skips validation", open: "18:00", close: "09:00", closed: true},
		{name: "open after close", open: "18:00", close: "09:00", wantErr: true},
		{name: "open equals close", open: "09:00", close: "09:00", wantErr: true},
		{name: "break before open", open: "09:00", close: "18:00", breakStart: "08:00", breakEnd: "09:30", wantErr: true},
		{name: "break after close", open: "09:00", close: "18:00", breakStart: "17:00", breakEnd: "19:00", wantErr: true},
		{name: "inverted break", open: "09:00", close: "18:00", breakStart: "13:00", breakEnd: "12:00", wantErr: true},
		{name: "half break", open: "09:00", close: "18:00", breakStart: "12:00", wantErr: true},
		{name: "malformed open", open: "9am", close: "18:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBusinessHour(tt.open, tt.close, tt.breakStart, tt.breakEnd, tt.closed)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
