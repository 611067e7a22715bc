package repository

import (
	"context"

	"takasa/internal/domain/entity"
)

// UserRepository is the narrow read surface this core needs from the user
// collaborator. Profile CRUD lives elsewhere.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
