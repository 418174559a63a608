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

type hospitalRepository struct {
	db *sqlx.DB
}

func NewHospitalRepository(db *sqlx.DB) *hospitalRepository {
	return &hospitalRepository{db: db}
}

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	query := `
		INSERT INTO hospitals (id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	hospital.ID = uuid.New()
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		hospital.ID,
		hospital.Name,
		hospital.Address,
		hospital.CreatedAt,
		hospital.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	query := `
		SELECT id, name, address, created_at, updated_at, deleted_at
		FROM hospitals
		WHERE id = $1 AND deleted_at IS NULL
	`
	var hospital model.Hospital
	err := r.db.GetContext(ctx, &hospital, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) Update(ctx context.Context, hospital *model.Hospital) error {
	query := `
		UPDATE hospitals
		SET name = $1, address = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`
	hospital.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		hospital.Name,
		hospital.Address,
		hospital.UpdatedAt,
		hospital.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update hospital: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("hospital", nil)
	}

	return nil
}

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	query := `
		SELECT id, name, address, created_at, updated_at, deleted_at
		FROM hospitals
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`
	var hospitals []*model.Hospital
	err := r.db.SelectContext(ctx, &hospitals, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}
