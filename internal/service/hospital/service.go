package hospital

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/repository"
	"github.com/medops/clinic-api/internal/service/calendar"
	"github.com/medops/clinic-api/internal/service/event"
)

// Default weekday window seeded at registration; staff adjust it afterwards.
var defaultWindow = struct {
	open, close, breakStart, breakEnd model.TimeOfDay
}{
	open:       model.NewTimeOfDay(9, 0),
	close:      model.NewTimeOfDay(18, 0),
	breakStart: model.NewTimeOfDay(12, 0),
	breakEnd:   model.NewTimeOfDay(13, 0),
}

type Service struct {
	repo        repository.HospitalRepository
	hourRepo    repository.BusinessHourRepository
	productRepo repository.TreatmentProductRepository
	events      *event.Service
}

func NewService(repo repository.HospitalRepository, hourRepo repository.BusinessHourRepository, productRepo repository.TreatmentProductRepository, events *event.Service) *Service {
	return &Service{
		repo:        repo,
		hourRepo:    hourRepo,
		productRepo: productRepo,
		events:      events,
	}
}

// Register creates the hospital together with its seven weekday rows
// (Sundays closed by default) and the starter treatment products.
func (s *Service) Register(ctx context.Context, req *model.CreateHospitalRequest) (*model.Hospital, error) {
	hospital := &model.Hospital{
		Name:    req.Name,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, hospital); err != nil {
		return nil, err
	}

	for _, day := range model.AllWeekdays {
		hour := &model.BusinessHour{
			HospitalID:     hospital.ID,
			DayOfWeek:      day,
			OpenTime:       defaultWindow.open,
			CloseTime:      defaultWindow.close,
			BreakStartTime: defaultWindow.breakStart,
			BreakEndTime:   defaultWindow.breakEnd,
			Closed:         day == model.Sunday,
		}
		if err := s.hourRepo.Create(ctx, hour); err != nil {
			return nil, fmt.Errorf("failed to seed business hours: %w", err)
		}
	}

	for _, p := range defaultProducts(hospital.ID) {
		if err := s.productRepo.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to seed treatment products: %w", err)
		}
	}

	return hospital, nil
}

func defaultProducts(hospitalID uuid.UUID) []*model.TreatmentProduct {
	return []*model.TreatmentProduct{
		{
			HospitalID:      hospitalID,
			Name:            "Consultation",
			Description:     "General consultation",
			DurationMinutes: 30,
			MaxCapacity:     1,
			Price:           5000,
		},
		{
			HospitalID:      hospitalID,
			Name:            "Regular checkup",
			Description:     "Regular checkup",
			DurationMinutes: 60,
			MaxCapacity:     1,
			Price:           10000,
		},
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Hospital, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateHospitalRequest) (*model.Hospital, error) {
	hospital, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		hospital.Name = *req.Name
	}
	if req.Address != nil {
		hospital.Address = *req.Address
	}

	if err := s.repo.Update(ctx, hospital); err != nil {
		return nil, err
	}
	return hospital, nil
}

func (s *Service) ListBusinessHours(ctx context.Context, hospitalID uuid.UUID) ([]*model.BusinessHour, error) {
	return s.hourRepo.ListByHospital(ctx, hospitalID)
}

// UpdateBusinessHour replaces one weekday's window after validating the
// open/close/break ordering.
func (s *Service) UpdateBusinessHour(ctx context.Context, hospitalID uuid.UUID, day model.Weekday, req *model.UpdateBusinessHourRequest) (*model.BusinessHour, error) {
	if err := calendar.ValidateBusinessHour(req.OpenTime, req.CloseTime, req.BreakStartTime, req.BreakEndTime, req.Closed); err != nil {
		return nil, err
	}

	hour, err := s.hourRepo.GetByDay(ctx, hospitalID, day)
	if err != nil {
		return nil, err
	}

	hour.OpenTime = req.OpenTime
	hour.CloseTime = req.CloseTime
	hour.BreakStartTime = req.BreakStartTime
	hour.BreakEndTime = req.BreakEndTime
	hour.Closed = req.Closed

	if err := s.hourRepo.Update(ctx, hour); err != nil {
		return nil, err
	}

	if err := s.events.Emit(ctx, hospitalID, "BusinessHourUpdated", hour); err != nil {
		return nil, fmt.Errorf("failed to emit business hour update: %w", err)
	}
	return hour, nil
}
