package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/therapy"
)

type TherapyRepository struct {
	db *gorm.DB
}

func NewTherapyRepository(db *gorm.DB) *TherapyRepository {
	return &TherapyRepository{db: db}
}

func (r *TherapyRepository) GetByID(ctx context.Context, id uuid.UUID) (*therapy.Therapy, error) {
	var t therapy.Therapy
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, therapy.ErrTherapyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TherapyRepository) List(ctx context.Context, q *therapy.ListQuery) ([]*therapy.Therapy, error) {
	query := r.db.WithContext(ctx).Model(&therapy.Therapy{})

	if q.Category != "" && q.Category != "all" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if q.AvailableOnly {
		query = query.Where("is_available")
	}

	var rows []*therapy.Therapy
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
