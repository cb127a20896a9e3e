package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/therapy"
)

type TherapyService struct {
	repo therapy.Repository
}

func NewTherapyService(repo therapy.Repository) *TherapyService {
	return &TherapyService{repo: repo}
}

func (s *TherapyService) GetTherapy(ctx context.Context, id uuid.UUID) (*therapy.Therapy, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TherapyService) ListTherapies(ctx context.Context, q *therapy.ListQuery) ([]*therapy.Therapy, error) {
	return s.repo.List(ctx, q)
}
