package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medops/clinic-api/internal/model"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

const pqUniqueViolation = "23505"

type reservationRepository struct {
	db *sqlx.DB
}

func NewReservationRepository(db *sqlx.DB) *reservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	query := `
		SELECT id, user_id, hospital_id, product_id, doctor_id,
			   start_time, end_time, status, user_memo, note,
			   created_at, updated_at
		FROM reservations
		WHERE id = $1
	`
	var reservation model.Reservation
	err := r.db.GetContext(ctx, &reservation, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("reservation", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &reservation, nil
}

func (r *reservationRepository) List(ctx context.Context, filters *model.ReservationFilters) ([]*model.Reservation, error) {
	query := `
		SELECT id, user_id, hospital_id, product_id, doctor_id,
			   start_time, end_time, status, user_memo, note,
			   created_at, updated_at
		FROM reservations
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.HospitalID != uuid.Nil {
		query += fmt.Sprintf(" AND hospital_id = $%d", argCount)
		args = append(args, filters.HospitalID)
		argCount++
	}
	if filters.ProductID != uuid.Nil {
		query += fmt.Sprintf(" AND product_id = $%d", argCount)
		args = append(args, filters.ProductID)
		argCount++
	}
	if filters.UserID != uuid.Nil {
		query += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, filters.UserID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND end_time > $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}
	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND start_time < $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY start_time ASC"

	var reservations []*model.Reservation
	err := r.db.SelectContext(ctx, &reservations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

func (r *reservationRepository) ListOverlapping(ctx context.Context, productID uuid.UUID, start, end time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT id, user_id, hospital_id, product_id, doctor_id,
			   start_time, end_time, status, user_memo, note,
			   created_at, updated_at
		FROM reservations
		WHERE product_id = $1
		AND status != 'CANCELED'
		AND start_time < $3
		AND end_time > $2
		ORDER BY start_time ASC
	`
	var reservations []*model.Reservation
	err := r.db.SelectContext(ctx, &reservations, query, productID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping reservations: %w", err)
	}
	return reservations, nil
}

func (r *reservationRepository) CreateWithEvent(ctx context.Context, reservation *model.Reservation, event *model.ReservationEvent, outbox *model.OutboxEvent) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO reservations (
				id, user_id, hospital_id, product_id, doctor_id,
				start_time, end_time, status, user_memo, note,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		reservation.CreatedAt = time.Now()
		reservation.UpdatedAt = time.Now()

		if _, err := tx.ExecContext(ctx, query,
			reservation.ID,
			reservation.UserID,
			reservation.HospitalID,
			reservation.ProductID,
			reservation.DoctorID,
			reservation.StartTime,
			reservation.EndTime,
			reservation.Status,
			reservation.UserMemo,
			reservation.Note,
			reservation.CreatedAt,
			reservation.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		if err := appendEventTx(ctx, tx, event); err != nil {
			return err
		}
		return insertOutboxTx(ctx, tx, outbox)
	})
}

func (r *reservationRepository) UpdateWithEvent(ctx context.Context, reservation *model.Reservation, event *model.ReservationEvent, outbox *model.OutboxEvent) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE reservations
			SET doctor_id = $1, start_time = $2, end_time = $3,
				status = $4, note = $5, updated_at = $6
			WHERE id = $7
		`
		reservation.UpdatedAt = time.Now()

		result, err := tx.ExecContext(ctx, query,
			reservation.DoctorID,
			reservation.StartTime,
			reservation.EndTime,
			reservation.Status,
			reservation.Note,
			reservation.UpdatedAt,
			reservation.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("reservation", nil)
		}

		if err := appendEventTx(ctx, tx, event); err != nil {
			return err
		}
		return insertOutboxTx(ctx, tx, outbox)
	})
}

func (r *reservationRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// appendEventTx writes one event-log entry. The unique index on
// (reservation_id, version) is the optimistic concurrency check: a second
// writer racing on the same version loses with a conflict.
func appendEventTx(ctx context.Context, tx *sqlx.Tx, event *model.ReservationEvent) error {
	query := `
		INSERT INTO reservation_events (
			id, reservation_id, hospital_id, user_id,
			event_type, version, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		event.ID,
		event.ReservationID,
		event.HospitalID,
		event.UserID,
		event.EventType,
		event.Version,
		event.Payload,
		event.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return apperrors.ConcurrentModification("reservation was modified concurrently")
		}
		return fmt.Errorf("failed to append reservation event: %w", err)
	}
	return nil
}

func insertOutboxTx(ctx context.Context, tx *sqlx.Tx, outbox *model.OutboxEvent) error {
	if outbox == nil {
		return nil
	}
	query := `
		INSERT INTO outbox_events (
			id, channel, event_type, payload, status,
			created_at, updated_at, retry_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		outbox.ID,
		outbox.Channel,
		outbox.EventType,
		outbox.Payload,
		outbox.Status,
		outbox.CreatedAt,
		outbox.UpdatedAt,
		outbox.RetryCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}
