package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medops/clinic-api/internal/model"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

func TestCanTransition(t *testing.T) {
	type pair struct{ from, to model.ReservationStatus }

	allowed := map[pair]bool{
		{model.ReservationStatusPending, model.ReservationStatusReserved}:   true,
		{model.ReservationStatusPending, model.ReservationStatusCanceled}:   true,
		{model.ReservationStatusReserved, model.ReservationStatusCanceled}:  true,
		{model.ReservationStatusReserved, model.ReservationStatusPending}:   true,
		{model.ReservationStatusReserved, model.ReservationStatusCompleted}: true,
		{model.ReservationStatusCompleted, model.ReservationStatusCanceled}: true,
		{model.ReservationStatusCompleted, model.ReservationStatusReserved}: true,
		{model.ReservationStatusCanceled, model.ReservationStatusPending}:   true,
		{model.ReservationStatusCanceled, model.ReservationStatusReserved}:  true,
	}

	statuses := []model.ReservationStatus{
		model.ReservationStatusPending,
		model.ReservationStatusReserved,
		model.ReservationStatusCanceled,
		model.ReservationStatusCompleted,
	}

	// Every pair not in the allowed set must be rejected, including
	// self-transitions.
	for _, from := range statuses {
		for _, to := range statuses {
			got := CanTransition(from, to)
			want := allowed[pair{from, to}]
			assert.Equal(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestValidateTransition(t *testing.T) {
	assert.NoError(t, ValidateTransition(model.ReservationStatusPending, model.ReservationStatusReserved))

	err := ValidateTransition(model.ReservationStatusPending, model.ReservationStatusCompleted)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrIllegalTransition))

	err = ValidateTransition(model.ReservationStatusCompleted, model.ReservationStatusPending)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrIllegalTransition))

	err = ValidateTransition(model.ReservationStatusPending, model.ReservationStatus("ARCHIVED"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestEventForStatus(t *testing.T) {
	assert.Equal(t, model.EventConfirmed, eventForStatus(model.ReservationStatusReserved))
	assert.Equal(t, model.EventPending, eventForStatus(model.ReservationStatusPending))
	assert.Equal(t, model.EventCanceled, eventForStatus(model.ReservationStatusCanceled))
	assert.Equal(t, model.EventCompleted, eventForStatus(model.ReservationStatusCompleted))
}

func TestRequiresCapacityCheck(t *testing.T) {
	// Reviving a canceled reservation always re-occupies a slot.
	assert.True(t, requiresCapacityCheck(model.ReservationStatusCanceled, model.ReservationStatusPending))
	assert.True(t, requiresCapacityCheck(model.ReservationStatusCanceled, model.ReservationStatusReserved))

	// Confirmations and completions re-validate even from live statuses.
	assert.True(t, requiresCapacityCheck(model.ReservationStatusPending, model.ReservationStatusReserved))
	assert.True(t, requiresCapacityCheck(model.ReservationStatusReserved, model.ReservationStatusCompleted))
	assert.True(t, requiresCapacityCheck(model.ReservationStatusCompleted, model.ReservationStatusReserved))

	// Releasing or downgrading never needs a check.
	assert.False(t, requiresCapacityCheck(model.ReservationStatusReserved, model.ReservationStatusCanceled))
	assert.False(t, requiresCapacityCheck(model.ReservationStatusPending, model.ReservationStatusCanceled))
	assert.False(t, requiresCapacityCheck(model.ReservationStatusReserved, model.ReservationStatusPending))
	assert.False(t, requiresCapacityCheck(model.ReservationStatusCompleted, model.ReservationStatusCanceled))
}
