package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"takasa/internal/domain/entity"
	"takasa/internal/domain/repository"
	"takasa/pkg/errors"
)

type firestoreRequestRepository struct {
	client *firestore.Client
}

func NewFirestoreRequestRepository(client *firestore.Client) repository.RequestRepository {
	return &firestoreRequestRepository{
		client: client,
	}
}

func (r *firestoreRequestRepository) Create(ctx context.Context, request *entity.Request) error {
	if request.ID == "" {
		request.ID = "req_" + uuid.New().String()[:8]
	}

	request.CreatedAt = time.Now()

	_, err := r.client.Collection("requests").Doc(request.ID).Set(ctx, request)
	if err != nil {
		return errors.Internal("Failed to create request", err)
	}

	return nil
}

func (r *firestoreRequestRepository) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	doc, err := r.client.Collection("requests").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Request", nil)
		}
		return nil, errors.Internal("Failed to get request", err)
	}

	var request entity.Request
	if err := doc.DataTo(&request); err != nil {
		return nil, errors.Internal("Failed to parse request data", err)
	}

	return &request, nil
}

func (r *firestoreRequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]*entity.Request, error) {
	return r.listByField(ctx, "requesterId", requesterID)
}

func (r *firestoreRequestRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Request, error) {
	return r.listByField(ctx, "sellerId", sellerID)
}

func (r *firestoreRequestRepository) listByField(ctx context.Context, field, value string) ([]*entity.Request, error) {
	docs, err := r.client.Collection("requests").Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while listing requests by %s=%s: %v", field, value, err)
		return nil, errors.Internal("Failed to list requests", err)
	}

	var requests []*entity.Request
	for _, doc := range docs {
		var request entity.Request
		if err := doc.DataTo(&request); err != nil {
			log.Printf("Error parsing request data %s: %v", doc.Ref.ID, err)
			continue // Skip bad data instead of failing
		}
		requests = append(requests, &request)
	}

	return requests, nil
}

func (r *firestoreRequestRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.client.Collection("requests").Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
	})
	if err != nil {
		return errors.Internal("Failed to update request status", err)
	}

	return nil
}
