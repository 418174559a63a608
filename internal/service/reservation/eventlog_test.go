package reservation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medops/clinic-api/internal/model"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

func TestNextEventVersioning(t *testing.T) {
	store := newMemEventStore()
	log := NewEventLog(store)
	ctx := context.Background()

	reservation := &model.Reservation{}
	reservation.ID = uuid.New()

	first, err := log.NextEvent(ctx, reservation, model.EventReservationCreated, model.ReservationCreatedPayload{
		InitialStatus: model.ReservationStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	require.NoError(t, store.append(first))

	second, err := log.NextEvent(ctx, reservation, model.EventConfirmed, model.StatusChangedPayload{})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	require.NoError(t, store.append(second))

	// A stale writer that computed the same version is rejected on append.
	stale, err := log.NextEvent(ctx, reservation, model.EventCanceled, model.StatusChangedPayload{})
	require.NoError(t, err)
	stale.Version = 2
	err = store.append(stale)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConcurrentModification))
}

func TestVerifyVersions(t *testing.T) {
	mk := func(versions ...int) []*model.ReservationEvent {
		events := make([]*model.ReservationEvent, 0, len(versions))
		for _, v := range versions {
			events = append(events, &model.ReservationEvent{Version: v})
		}
		return events
	}

	assert.NoError(t, VerifyVersions(nil))
	assert.NoError(t, VerifyVersions(mk(1)))
	assert.NoError(t, VerifyVersions(mk(1, 2, 3)))
	assert.Error(t, VerifyVersions(mk(2, 3)))
	assert.Error(t, VerifyVersions(mk(1, 3)))
	assert.Error(t, VerifyVersions(mk(1, 2, 2)))
}

func TestDeriveStatus(t *testing.T) {
	created := &model.ReservationEvent{
		EventType: model.EventReservationCreated,
		Version:   1,
		Payload: model.MarshalPayload(model.ReservationCreatedPayload{
			InitialStatus: model.ReservationStatusPending,
		}),
	}

	status, err := DeriveStatus([]*model.ReservationEvent{created})
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusPending, status)

	// Metadata events do not change the derived status.
	withNote := []*model.ReservationEvent{
		created,
		{EventType: model.EventConfirmed, Version: 2},
		{EventType: model.EventNoteUpdated, Version: 3},
		{EventType: model.EventDoctorAssigned, Version: 4},
	}
	status, err = DeriveStatus(withNote)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusReserved, status)

	// The full correction chain lands back on RESERVED.
	chain := []*model.ReservationEvent{
		created,
		{EventType: model.EventConfirmed, Version: 2},
		{EventType: model.EventCompleted, Version: 3},
		{EventType: model.EventCanceled, Version: 4},
		{EventType: model.EventConfirmed, Version: 5},
	}
	status, err = DeriveStatus(chain)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusReserved, status)

	_, err = DeriveStatus(nil)
	assert.Error(t, err)
}

func TestCurrentStatus(t *testing.T) {
	store := newMemEventStore()
	log := NewEventLog(store)
	ctx := context.Background()

	reservation := &model.Reservation{}
	reservation.ID = uuid.New()

	created, err := log.NextEvent(ctx, reservation, model.EventReservationCreated, model.ReservationCreatedPayload{
		InitialStatus: model.ReservationStatusReserved,
	})
	require.NoError(t, err)
	require.NoError(t, store.append(created))

	canceled, err := log.NextEvent(ctx, reservation, model.EventCanceled, model.StatusChangedPayload{})
	require.NoError(t, err)
	require.NoError(t, store.append(canceled))

	status, err := log.CurrentStatus(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCanceled, status)
}
