package reservation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

// In-memory repositories backing the service tests. The reservation repo and
// the event repo share one event store so versioning behaves like the real
// unique index: an append reusing a taken version fails with a conflict.

type memEventStore struct {
	events map[uuid.UUID][]*model.ReservationEvent
}

func newMemEventStore() *memEventStore {
	return &memEventStore{events: make(map[uuid.UUID][]*model.ReservationEvent)}
}

func (s *memEventStore) append(e *model.ReservationEvent) error {
	for _, existing := range s.events[e.ReservationID] {
		if existing.Version == e.Version {
			return apperrors.ConcurrentModification(
				fmt.Sprintf("version %d already written for reservation %s", e.Version, e.ReservationID))
		}
	}
	s.events[e.ReservationID] = append(s.events[e.ReservationID], e)
	return nil
}

func (s *memEventStore) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]*model.ReservationEvent, error) {
	events := append([]*model.ReservationEvent(nil), s.events[reservationID]...)
	sort.Slice(events, func(i, j int) bool { return events[i].Version < events[j].Version })
	return events, nil
}

func (s *memEventStore) LatestVersion(ctx context.Context, reservationID uuid.UUID) (int, error) {
	latest := 0
	for _, e := range s.events[reservationID] {
		if e.Version > latest {
			latest = e.Version
		}
	}
	return latest, nil
}

type memReservationRepo struct {
	store        *memEventStore
	reservations map[uuid.UUID]*model.Reservation
	outbox       []*model.OutboxEvent
}

func newMemReservationRepo(store *memEventStore) *memReservationRepo {
	return &memReservationRepo{
		store:        store,
		reservations: make(map[uuid.UUID]*model.Reservation),
	}
}

func (m *memReservationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok {
		return nil, apperrors.NotFound("reservation", nil)
	}
	clone := *r
	return &clone, nil
}

func (m *memReservationRepo) List(ctx context.Context, filters *model.ReservationFilters) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, r := range m.reservations {
		if filters.HospitalID != uuid.Nil && r.HospitalID != filters.HospitalID {
			continue
		}
		if filters.ProductID != uuid.Nil && r.ProductID != filters.ProductID {
			continue
		}
		if filters.UserID != uuid.Nil && r.UserID != filters.UserID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memReservationRepo) ListOverlapping(ctx context.Context, productID uuid.UUID, start, end time.Time) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, r := range m.reservations {
		if r.ProductID == productID && r.Status.CountsAgainstCapacity() && r.Overlaps(start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReservationRepo) CreateWithEvent(ctx context.Context, r *model.Reservation, e *model.ReservationEvent, o *model.OutboxEvent) error {
	if err := m.store.append(e); err != nil {
		return err
	}
	clone := *r
	m.reservations[r.ID] = &clone
	m.outbox = append(m.outbox, o)
	return nil
}

func (m *memReservationRepo) UpdateWithEvent(ctx context.Context, r *model.Reservation, e *model.ReservationEvent, o *model.OutboxEvent) error {
	if _, ok := m.reservations[r.ID]; !ok {
		return apperrors.NotFound("reservation", nil)
	}
	if err := m.store.append(e); err != nil {
		return err
	}
	clone := *r
	m.reservations[r.ID] = &clone
	m.outbox = append(m.outbox, o)
	return nil
}

type memProductRepo struct {
	products map[uuid.UUID]*model.TreatmentProduct
}

func newMemProductRepo(products ...*model.TreatmentProduct) *memProductRepo {
	m := &memProductRepo{products: make(map[uuid.UUID]*model.TreatmentProduct)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memProductRepo) Create(ctx context.Context, p *model.TreatmentProduct) error {
	m.products[p.ID] = p
	return nil
}

func (m *memProductRepo) Get(ctx context.Context, id uuid.UUID) (*model.TreatmentProduct, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperrors.NotFound("treatment product", nil)
	}
	return p, nil
}

func (m *memProductRepo) Update(ctx context.Context, p *model.TreatmentProduct) error { return nil }
func (m *memProductRepo) SoftDelete(ctx context.Context, id uuid.UUID) error          { return nil }
func (m *memProductRepo) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.TreatmentProduct, error) {
	return nil, nil
}

type memDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func newMemDoctorRepo(doctors ...*model.Doctor) *memDoctorRepo {
	m := &memDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
	for _, d := range doctors {
		m.doctors[d.ID] = d
	}
	return m
}

func (m *memDoctorRepo) Create(ctx context.Context, d *model.Doctor) error {
	m.doctors[d.ID] = d
	return nil
}

func (m *memDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return d, nil
}

func (m *memDoctorRepo) Update(ctx context.Context, d *model.Doctor) error { return nil }
func (m *memDoctorRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if d, ok := m.doctors[id]; ok {
		now := time.Now()
		d.DeletedAt = &now
	}
	return nil
}
func (m *memDoctorRepo) Restore(ctx context.Context, id uuid.UUID) error {
	if d, ok := m.doctors[id]; ok {
		d.DeletedAt = nil
	}
	return nil
}
func (m *memDoctorRepo) ListByHospital(ctx context.Context, hospitalID uuid.UUID, includeDeleted bool) ([]*model.Doctor, error) {
	return nil, nil
}

type memHourRepo struct {
	hours map[model.Weekday]*model.BusinessHour
}

func (m *memHourRepo) Create(ctx context.Context, h *model.BusinessHour) error { return nil }
func (m *memHourRepo) GetByDay(ctx context.Context, hospitalID uuid.UUID, day model.Weekday) (*model.BusinessHour, error) {
	h, ok := m.hours[day]
	if !ok {
		return nil, apperrors.NotFound("business hour", nil)
	}
	return h, nil
}
func (m *memHourRepo) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.BusinessHour, error) {
	return nil, nil
}
func (m *memHourRepo) Update(ctx context.Context, h *model.BusinessHour) error { return nil }
