package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medops/clinic-api/internal/model"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

type businessHourRepository struct {
	db *sqlx.DB
}

func NewBusinessHourRepository(db *sqlx.DB) *businessHourRepository {
	return &businessHourRepository{db: db}
}

func (r *businessHourRepository) Create(ctx context.Context, hour *model.BusinessHour) error {
	query := `
		INSERT INTO business_hours (
			id, hospital_id, day_of_week, open_time, close_time,
			break_start_time, break_end_time, closed, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	hour.ID = uuid.New()
	hour.CreatedAt = time.Now()
	hour.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		hour.ID,
		hour.HospitalID,
		hour.DayOfWeek,
		hour.OpenTime,
		hour.CloseTime,
		hour.BreakStartTime,
		hour.BreakEndTime,
		hour.Closed,
		hour.CreatedAt,
		hour.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create business hour: %w", err)
	}
	return nil
}

func (r *businessHourRepository) GetByDay(ctx context.Context, hospitalID uuid.UUID, day model.Weekday) (*model.BusinessHour, error) {
	query := `
		SELECT id, hospital_id, day_of_week, open_time, close_time,
			   break_start_time, break_end_time, closed, created_at, updated_at
		FROM business_hours
		WHERE hospital_id = $1 AND day_of_week = $2
	`
	var hour model.BusinessHour
	err := r.db.GetContext(ctx, &hour, query, hospitalID, day)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("business hour", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business hour: %w", err)
	}
	return &hour, nil
}

func (r *businessHourRepository) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.BusinessHour, error) {
	query := `
		SELECT id, hospital_id, day_of_week, open_time, close_time,
			   break_start_time, break_end_time, closed, created_at, updated_at
		FROM business_hours
		WHERE hospital_id = $1
	`
	var hours []*model.BusinessHour
	err := r.db.SelectContext(ctx, &hours, query, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list business hours: %w", err)
	}
	return hours, nil
}

func (r *businessHourRepository) Update(ctx context.Context, hour *model.BusinessHour) error {
	query := `
		UPDATE business_hours
		SET open_time = $1, close_time = $2, break_start_time = $3,
			break_end_time = $4, closed = $5, updated_at = $6
		WHERE id = $7
	`
	hour.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		hour.OpenTime,
		hour.CloseTime,
		hour.BreakStartTime,
		hour.BreakEndTime,
		hour.Closed,
		hour.UpdatedAt,
		hour.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update business hour: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("business hour", nil)
	}

	return nil
}
