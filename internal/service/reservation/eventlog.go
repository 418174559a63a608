package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/repository"
)

// EventLog wraps the append-only per-reservation event history. It is the
// sole writer of reservation status: every status change flows through an
// appended event, and current status is always derivable from the latest
// status-changing event rather than from independently maintained state.
type EventLog struct {
	repo repository.ReservationEventRepository
}

func NewEventLog(repo repository.ReservationEventRepository) *EventLog {
	return &EventLog{repo: repo}
}

// NextEvent builds the next event for the reservation with
// version = latest + 1. The version is re-checked by the unique index at
// append time, so a concurrent writer racing on the same version loses.
func (l *EventLog) NextEvent(ctx context.Context, reservation *model.Reservation, eventType model.ReservationEventType, payload interface{}) (*model.ReservationEvent, error) {
	latest, err := l.repo.LatestVersion(ctx, reservation.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to determine event version: %w", err)
	}

	return &model.ReservationEvent{
		ID:            uuid.New(),
		ReservationID: reservation.ID,
		HospitalID:    reservation.HospitalID,
		UserID:        reservation.UserID,
		EventType:     eventType,
		Version:       latest + 1,
		Payload:       model.MarshalPayload(payload),
		CreatedAt:     time.Now(),
	}, nil
}

// Events returns the reservation's history, oldest first.
func (l *EventLog) Events(ctx context.Context, reservationID uuid.UUID) ([]*model.ReservationEvent, error) {
	return l.repo.ListByReservation(ctx, reservationID)
}

// CurrentStatus replays the history and returns the status implied by the
// latest status-changing event. ReservationCreated carries its initial
// status in the payload; metadata events are skipped.
func (l *EventLog) CurrentStatus(ctx context.Context, reservationID uuid.UUID) (model.ReservationStatus, error) {
	events, err := l.repo.ListByReservation(ctx, reservationID)
	if err != nil {
		return "", err
	}
	return DeriveStatus(events)
}

// DeriveStatus scans an ordered event sequence for the last status-relevant
// event.
func DeriveStatus(events []*model.ReservationEvent) (model.ReservationStatus, error) {
	status := model.ReservationStatus("")
	for _, e := range events {
		if e.EventType == model.EventReservationCreated {
			var payload model.ReservationCreatedPayload
			if err := json.Unmarshal(e.Payload, &payload); err != nil {
				return "", fmt.Errorf("malformed creation payload for event %s: %w", e.ID, err)
			}
			status = payload.InitialStatus
			continue
		}
		if implied, ok := e.EventType.StatusChange(); ok {
			status = implied
		}
	}
	if status == "" {
		return "", fmt.Errorf("no status-changing event found")
	}
	return status, nil
}

// VerifyVersions checks the strictly-increasing, gap-free version invariant
// for an ordered event sequence.
func VerifyVersions(events []*model.ReservationEvent) error {
	for i, e := range events {
		if e.Version != i+1 {
			return fmt.Errorf("version gap at position %d: got %d, want %d", i, e.Version, i+1)
		}
	}
	return nil
}
