package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	// RETRY events are re-polled once retry_at passes; FAILED is terminal.
	OutboxStatusRetry  OutboxStatus = "RETRY"
	OutboxStatusFailed OutboxStatus = "FAILED"
)

// OutboxEvent is the durable hand-off between the reservation write path and
// the notification fan-out worker. Channel is the broker channel the payload
// is published on, e.g. hospital.{id}.reservations.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	Channel      string          `db:"channel" json:"channel"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       string          `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
}
