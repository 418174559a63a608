package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medops/clinic-api/internal/model"
)

type reservationEventRepository struct {
	db *sqlx.DB
}

func NewReservationEventRepository(db *sqlx.DB) *reservationEventRepository {
	return &reservationEventRepository{db: db}
}

func (r *reservationEventRepository) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]*model.ReservationEvent, error) {
	query := `
		SELECT id, reservation_id, hospital_id, user_id,
			   event_type, version, payload, created_at
		FROM reservation_events
		WHERE reservation_id = $1
		ORDER BY version ASC
	`
	var events []*model.ReservationEvent
	err := r.db.SelectContext(ctx, &events, query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservation events: %w", err)
	}
	return events, nil
}

func (r *reservationEventRepository) LatestVersion(ctx context.Context, reservationID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(MAX(version), 0)
		FROM reservation_events
		WHERE reservation_id = $1
	`
	var version int
	if err := r.db.GetContext(ctx, &version, query, reservationID); err != nil {
		return 0, fmt.Errorf("failed to get latest event version: %w", err)
	}
	return version, nil
}
