package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/repository"
)

// Service shapes notification egress. Reservation events are handed to the
// outbox inside the write transaction; the worker publishes them to the
// broker channel afterwards, so delivery is best-effort and never a
// precondition for the write to succeed.
type Service struct {
	outboxRepo repository.OutboxRepository
}

func NewService(outboxRepo repository.OutboxRepository) *Service {
	return &Service{outboxRepo: outboxRepo}
}

// Channel returns the per-hospital broker channel for reservation pushes.
func Channel(hospitalID uuid.UUID) string {
	return fmt.Sprintf("hospital.%s.reservations", hospitalID)
}

// NewReservationOutbox builds the outbox row for a reservation event. The
// caller persists it atomically with the event append.
func NewReservationOutbox(event *model.ReservationEvent) *model.OutboxEvent {
	payload, err := json.Marshal(event)
	if err != nil {
		payload = json.RawMessage("{}")
	}
	return &model.OutboxEvent{
		ID:        uuid.New(),
		Channel:   Channel(event.HospitalID),
		EventType: string(event.EventType),
		Payload:   payload,
		Status:    string(model.OutboxStatusPending),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// Emit writes a standalone outbox event outside any surrounding transaction.
// Used for configuration changes (business hours, products) where the write
// itself is a single statement.
func (s *Service) Emit(ctx context.Context, hospitalID uuid.UUID, eventType string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := &model.OutboxEvent{
		Channel:   Channel(hospitalID),
		EventType: eventType,
		Payload:   payloadJSON,
		Status:    string(model.OutboxStatusPending),
	}

	if err := s.outboxRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}
