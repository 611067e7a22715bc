package repository

import (
	"context"

	"takasa/internal/domain/entity"
)

type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*entity.Request, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*entity.Request, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
