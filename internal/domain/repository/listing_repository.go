package repository

import (
	"context"

	"takasa/internal/domain/entity"
)

// ListingRepository is the narrow read surface this core needs from the
// listing collaborator. Listing CRUD lives elsewhere.
type ListingRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
}
