package reservation

import (
	"fmt"

	"github.com/medops/clinic-api/internal/model"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

// transitions is the authoritative status transition table. Anything missing
// here is illegal, validated centrally rather than by handler convention.
// CANCELED is terminal but revivable, and COMPLETED can be walked back by
// staff correcting a mistake.
var transitions = map[model.ReservationStatus][]model.ReservationStatus{
	model.ReservationStatusPending:   {model.ReservationStatusReserved, model.ReservationStatusCanceled},
	model.ReservationStatusReserved:  {model.ReservationStatusCanceled, model.ReservationStatusPending, model.ReservationStatusCompleted},
	model.ReservationStatusCompleted: {model.ReservationStatusCanceled, model.ReservationStatusReserved},
	model.ReservationStatusCanceled:  {model.ReservationStatusPending, model.ReservationStatusReserved},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to model.ReservationStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an IllegalTransition error when from -> to is
// not in the table.
func ValidateTransition(from, to model.ReservationStatus) error {
	if !to.Valid() {
		return apperrors.BadRequest(fmt.Sprintf("unknown status %q", to), nil)
	}
	if !CanTransition(from, to) {
		return apperrors.IllegalTransition(fmt.Sprintf("cannot transition from %s to %s", from, to))
	}
	return nil
}

// eventForStatus maps a target status to the event type recorded for the
// transition.
func eventForStatus(to model.ReservationStatus) model.ReservationEventType {
	switch to {
	case model.ReservationStatusReserved:
		return model.EventConfirmed
	case model.ReservationStatusPending:
		return model.EventPending
	case model.ReservationStatusCanceled:
		return model.EventCanceled
	default:
		return model.EventCompleted
	}
}

// requiresCapacityCheck reports whether the transition must re-pass the
// capacity check before being applied. Confirmations and completions are
// re-validated even though the slot was checked at creation, because
// concurrent cancellations and bookings can change the picture in between;
// reviving a canceled reservation re-occupies a capacity unit outright.
func requiresCapacityCheck(from, to model.ReservationStatus) bool {
	if from == model.ReservationStatusCanceled && to.CountsAgainstCapacity() {
		return true
	}
	return to == model.ReservationStatusReserved || to == model.ReservationStatusCompleted
}
