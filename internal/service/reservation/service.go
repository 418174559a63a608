package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/repository"
	"github.com/medops/clinic-api/internal/service/availability"
	"github.com/medops/clinic-api/internal/service/calendar"
	"github.com/medops/clinic-api/internal/service/event"
	apperrors "github.com/medops/clinic-api/pkg/errors"
	"github.com/medops/clinic-api/pkg/metrics"
)

// Service owns the reservation lifecycle: booking, status transitions,
// rescheduling and the metadata mutations. Every mutation appends exactly one
// event to the reservation's log and both are committed as a single unit
// together with the outbox row for notification fan-out.
type Service struct {
	resRepo      repository.ReservationRepository
	productRepo  repository.TreatmentProductRepository
	doctorRepo   repository.DoctorRepository
	calendar     *calendar.Service
	availability *availability.Service
	log          *EventLog
	locks        *productLocks
	metrics      *metrics.Metrics
}

func NewService(
	resRepo repository.ReservationRepository,
	productRepo repository.TreatmentProductRepository,
	doctorRepo repository.DoctorRepository,
	cal *calendar.Service,
	avail *availability.Service,
	log *EventLog,
	m *metrics.Metrics,
) *Service {
	return &Service{
		resRepo:      resRepo,
		productRepo:  productRepo,
		doctorRepo:   doctorRepo,
		calendar:     cal,
		availability: avail,
		log:          log,
		locks:        newProductLocks(),
		metrics:      m,
	}
}

// CreateReservation books a slot. Self-service bookings must match the
// product's fixed duration and always start PENDING; admin quick-entry may
// pick a custom window and set req.Confirmed to start in RESERVED.
func (s *Service) CreateReservation(ctx context.Context, actor model.Actor, req *model.CreateReservationRequest) (*model.Reservation, error) {
	product, err := s.productRepo.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.HospitalID != req.HospitalID {
		return nil, apperrors.NotFound("treatment product", nil)
	}

	schedule, err := s.calendar.ResolveDay(ctx, req.HospitalID, req.StartTime)
	if err != nil {
		s.reject("not_operating")
		return nil, err
	}
	if err := availability.ValidateWindow(schedule, req.StartTime, req.EndTime); err != nil {
		s.reject("outside_business_hours")
		return nil, err
	}

	if actor.AdminID == nil {
		duration := time.Duration(product.DurationMinutes) * time.Minute
		if req.EndTime.Sub(req.StartTime) != duration {
			return nil, apperrors.BadRequest(
				fmt.Sprintf("booking must match the product duration of %d minutes", product.DurationMinutes), nil)
		}
	}

	unlock := s.locks.Acquire(product.ID)
	defer unlock()

	if err := s.availability.CheckCapacity(ctx, product, req.StartTime, req.EndTime, nil); err != nil {
		s.reject("capacity_exceeded")
		return nil, err
	}

	// Only staff may skip the pending step.
	status := model.ReservationStatusPending
	if req.Confirmed && actor.AdminID != nil {
		status = model.ReservationStatusReserved
	}

	reservation := &model.Reservation{
		UserID:     actor.UserID,
		HospitalID: req.HospitalID,
		ProductID:  req.ProductID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     status,
		UserMemo:   req.UserMemo,
	}
	reservation.ID = uuid.New()

	evt, err := s.log.NextEvent(ctx, reservation, model.EventReservationCreated, model.ReservationCreatedPayload{
		ProductID:     req.ProductID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		UserMemo:      req.UserMemo,
		InitialStatus: status,
	})
	if err != nil {
		return nil, err
	}

	if err := s.resRepo.CreateWithEvent(ctx, reservation, evt, event.NewReservationOutbox(evt)); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ReservationsCreated.Inc()
	}
	return reservation, nil
}

// ChangeStatus applies one transition from the table. Transitions that
// (re)occupy capacity re-run the capacity check under the product lock.
func (s *Service) ChangeStatus(ctx context.Context, reservationID uuid.UUID, actor model.Actor, target model.ReservationStatus, reason string) (*model.Reservation, error) {
	reservation, err := s.resRepo.Get(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	from := reservation.Status
	if err := ValidateTransition(from, target); err != nil {
		s.reject("illegal_transition")
		return nil, err
	}

	if requiresCapacityCheck(from, target) {
		product, err := s.productRepo.Get(ctx, reservation.ProductID)
		if err != nil {
			return nil, err
		}

		unlock := s.locks.Acquire(product.ID)
		defer unlock()

		exclude := reservation.ID
		if err := s.availability.CheckCapacity(ctx, product, reservation.StartTime, reservation.EndTime, &exclude); err != nil {
			s.reject("capacity_exceeded")
			return nil, err
		}
	}

	reservation.Status = target
	evt, err := s.log.NextEvent(ctx, reservation, eventForStatus(target), model.StatusChangedPayload{
		AdminID:   actor.AdminID,
		AdminName: actor.Name,
		Reason:    reason,
	})
	if err != nil {
		return nil, err
	}

	if err := s.resRepo.UpdateWithEvent(ctx, reservation, evt, event.NewReservationOutbox(evt)); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(from), string(target)).Inc()
	}
	return reservation, nil
}

// Reschedule moves the reservation to a new window. It is not a status
// transition: status stays, but the new window must pass the same
// availability and capacity checks as a fresh booking.
func (s *Service) Reschedule(ctx context.Context, reservationID uuid.UUID, actor model.Actor, req *model.RescheduleRequest) (*model.Reservation, error) {
	reservation, err := s.resRepo.Get(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.Get(ctx, reservation.ProductID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.calendar.ResolveDay(ctx, reservation.HospitalID, req.StartTime)
	if err != nil {
		s.reject("not_operating")
		return nil, err
	}
	if err := availability.ValidateWindow(schedule, req.StartTime, req.EndTime); err != nil {
		s.reject("outside_business_hours")
		return nil, err
	}

	unlock := s.locks.Acquire(product.ID)
	defer unlock()

	if reservation.Status.CountsAgainstCapacity() {
		exclude := reservation.ID
		if err := s.availability.CheckCapacity(ctx, product, req.StartTime, req.EndTime, &exclude); err != nil {
			s.reject("capacity_exceeded")
			return nil, err
		}
	}

	originalTime := reservation.StartTime
	reservation.StartTime = req.StartTime
	reservation.EndTime = req.EndTime

	evt, err := s.log.NextEvent(ctx, reservation, model.EventRescheduled, model.RescheduledPayload{
		AdminID:      actor.AdminID,
		AdminName:    actor.Name,
		OriginalTime: originalTime,
		NewTime:      req.StartTime,
		Reason:       req.Reason,
	})
	if err != nil {
		return nil, err
	}

	if err := s.resRepo.UpdateWithEvent(ctx, reservation, evt, event.NewReservationOutbox(evt)); err != nil {
		return nil, err
	}
	return reservation, nil
}

// AssignDoctor records a doctor assignment. Legal in any status.
func (s *Service) AssignDoctor(ctx context.Context, reservationID uuid.UUID, actor model.Actor, doctorID uuid.UUID) (*model.Reservation, error) {
	reservation, err := s.resRepo.Get(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	doctor, err := s.doctorRepo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor.HospitalID != reservation.HospitalID || doctor.Deleted() {
		return nil, apperrors.NotFound("doctor", nil)
	}

	reservation.DoctorID = &doctor.ID
	evt, err := s.log.NextEvent(ctx, reservation, model.EventDoctorAssigned, model.DoctorAssignedPayload{
		AdminID:    actor.AdminID,
		AdminName:  actor.Name,
		DoctorID:   doctor.ID,
		DoctorName: doctor.Name,
	})
	if err != nil {
		return nil, err
	}

	if err := s.resRepo.UpdateWithEvent(ctx, reservation, evt, event.NewReservationOutbox(evt)); err != nil {
		return nil, err
	}
	return reservation, nil
}

// UpdateNote replaces the staff-only note. Legal in any status.
func (s *Service) UpdateNote(ctx context.Context, reservationID uuid.UUID, actor model.Actor, note string) (*model.Reservation, error) {
	reservation, err := s.resRepo.Get(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	reservation.Note = note
	evt, err := s.log.NextEvent(ctx, reservation, model.EventNoteUpdated, model.NoteUpdatedPayload{
		AdminID:   actor.AdminID,
		AdminName: actor.Name,
		Note:      note,
	})
	if err != nil {
		return nil, err
	}

	if err := s.resRepo.UpdateWithEvent(ctx, reservation, evt, event.NewReservationOutbox(evt)); err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *Service) GetReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.resRepo.Get(ctx, id)
}

func (s *Service) ListReservations(ctx context.Context, filters *model.ReservationFilters) ([]*model.Reservation, error) {
	return s.resRepo.List(ctx, filters)
}

// GetEvents returns the reservation's full history, oldest first.
func (s *Service) GetEvents(ctx context.Context, reservationID uuid.UUID) ([]*model.ReservationEvent, error) {
	if _, err := s.resRepo.Get(ctx, reservationID); err != nil {
		return nil, err
	}
	return s.log.Events(ctx, reservationID)
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.ReservationsRejected.WithLabelValues(reason).Inc()
	}
}
