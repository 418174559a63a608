package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/repository"
)

type Service struct {
	repo repository.DoctorRepository
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{
		HospitalID: hospitalID,
		Name:       req.Name,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID, includeDeleted bool) ([]*model.Doctor, error) {
	return s.repo.ListByHospital(ctx, hospitalID, includeDeleted)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// Delete soft-marks the doctor; Restore brings them back.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) Restore(ctx context.Context, id uuid.UUID) error {
	return s.repo.Restore(ctx, id)
}
