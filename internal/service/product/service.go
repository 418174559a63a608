package product

import (
	"context"

	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/repository"
)

type Service struct {
	repo repository.TreatmentProductRepository
}

func NewService(repo repository.TreatmentProductRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, req *model.CreateTreatmentProductRequest) (*model.TreatmentProduct, error) {
	product := &model.TreatmentProduct{
		HospitalID:      hospitalID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		MaxCapacity:     req.MaxCapacity,
		Price:           req.Price,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.TreatmentProduct, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.TreatmentProduct, error) {
	return s.repo.ListByHospital(ctx, hospitalID)
}

// Update changes the descriptive fields only. Duration and capacity are
// immutable business parameters; a different window means a new product.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateTreatmentProductRequest) (*model.TreatmentProduct, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
