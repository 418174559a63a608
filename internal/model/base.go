package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models. DeletedAt implements soft
// delete: rows are marked, never removed, and soft-deleted doctors are
// recoverable.
type Base struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Deleted reports whether the row is soft-deleted.
func (b *Base) Deleted() bool {
	return b.DeletedAt != nil
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}
