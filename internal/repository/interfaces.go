package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	HospitalRepository interface {
		Create(ctx context.Context, hospital *model.Hospital) error
		Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
		Update(ctx context.Context, hospital *model.Hospital) error
		List(ctx context.Context) ([]*model.Hospital, error)
	}

	BusinessHourRepository interface {
		Create(ctx context.Context, hour *model.BusinessHour) error
		GetByDay(ctx context.Context, hospitalID uuid.UUID, day model.Weekday) (*model.BusinessHour, error)
		ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.BusinessHour, error)
		Update(ctx context.Context, hour *model.BusinessHour) error
	}

	TreatmentProductRepository interface {
		Create(ctx context.Context, product *model.TreatmentProduct) error
		Get(ctx context.Context, id uuid.UUID) (*model.TreatmentProduct, error)
		Update(ctx context.Context, product *model.TreatmentProduct) error
		SoftDelete(ctx context.Context, id uuid.UUID) error
		ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.TreatmentProduct, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		SoftDelete(ctx context.Context, id uuid.UUID) error
		Restore(ctx context.Context, id uuid.UUID) error
		ListByHospital(ctx context.Context, hospitalID uuid.UUID, includeDeleted bool) ([]*model.Doctor, error)
	}

	ReservationRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
		List(ctx context.Context, filters *model.ReservationFilters) ([]*model.Reservation, error)
		// ListOverlapping returns non-canceled reservations of the product
		// whose [start_time, end_time) interval intersects [start, end).
		ListOverlapping(ctx context.Context, productID uuid.UUID, start, end time.Time) ([]*model.Reservation, error)
		// CreateWithEvent and UpdateWithEvent persist the reservation, its
		// event-log entry and the outbox row as one atomic unit. The event
		// append is rejected with a version conflict if another writer got
		// there first.
		CreateWithEvent(ctx context.Context, reservation *model.Reservation, event *model.ReservationEvent, outbox *model.OutboxEvent) error
		UpdateWithEvent(ctx context.Context, reservation *model.Reservation, event *model.ReservationEvent, outbox *model.OutboxEvent) error
	}

	ReservationEventRepository interface {
		ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]*model.ReservationEvent, error)
		LatestVersion(ctx context.Context, reservationID uuid.UUID) (int, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
