package therapy

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// GetByID retrieves a therapy. Returns ErrTherapyNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*Therapy, error)

	List(ctx context.Context, q *ListQuery) ([]*Therapy, error)
}
