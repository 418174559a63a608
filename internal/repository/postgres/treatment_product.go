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

type treatmentProductRepository struct {
	db *sqlx.DB
}

func NewTreatmentProductRepository(db *sqlx.DB) *treatmentProductRepository {
	return &treatmentProductRepository{db: db}
}

func (r *treatmentProductRepository) Create(ctx context.Context, product *model.TreatmentProduct) error {
	query := `
		INSERT INTO treatment_products (
			id, hospital_id, name, description, duration_minutes,
			max_capacity, price, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.HospitalID,
		product.Name,
		product.Description,
		product.DurationMinutes,
		product.MaxCapacity,
		product.Price,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create treatment product: %w", err)
	}
	return nil
}

func (r *treatmentProductRepository) Get(ctx context.Context, id uuid.UUID) (*model.TreatmentProduct, error) {
	query := `
		SELECT id, hospital_id, name, description, duration_minutes,
			   max_capacity, price, created_at, updated_at, deleted_at
		FROM treatment_products
		WHERE id = $1 AND deleted_at IS NULL
	`
	var product model.TreatmentProduct
	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("treatment product", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get treatment product: %w", err)
	}
	return &product, nil
}

func (r *treatmentProductRepository) Update(ctx context.Context, product *model.TreatmentProduct) error {
	query := `
		UPDATE treatment_products
		SET name = $1, description = $2, price = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL
	`
	product.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update treatment product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("treatment product", nil)
	}

	return nil
}

func (r *treatmentProductRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE treatment_products
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete treatment product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("treatment product", nil)
	}

	return nil
}

func (r *treatmentProductRepository) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.TreatmentProduct, error) {
	query := `
		SELECT id, hospital_id, name, description, duration_minutes,
			   max_capacity, price, created_at, updated_at, deleted_at
		FROM treatment_products
		WHERE hospital_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`
	var products []*model.TreatmentProduct
	err := r.db.SelectContext(ctx, &products, query, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list treatment products: %w", err)
	}
	return products, nil
}
