package usecase

import (
	"context"
	"log"

	"takasa/internal/domain/entity"
	"takasa/internal/domain/repository"
	"takasa/pkg/errors"
)

type RequestUseCase struct {
	requestRepo repository.RequestRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	chatCreator ChatCreator
}

func NewRequestUseCase(
	requestRepo repository.RequestRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	chatCreator ChatCreator,
) *RequestUseCase {
	return &RequestUseCase{
		requestRepo: requestRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		chatCreator: chatCreator,
	}
}

type CreateRequestInput struct {
	ListingID string
	Message   string
}

func (uc *RequestUseCase) CreateRequest(ctx context.Context, requesterID string, input CreateRequestInput) (*entity.Request, error) {
	requester, err := uc.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		log.Printf("CreateRequest Error: Requester %s not found: %v", requesterID, err)
		return nil, err
	}

	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		log.Printf("CreateRequest Error: Listing %s not found: %v", input.ListingID, err)
		return nil, err
	}

	if listing.OwnerID == requesterID {
		log.Printf("CreateRequest Error: User %s attempted to request their own listing %s", requesterID, input.ListingID)
		return nil, errors.BadRequest("You cannot request your own listing", nil)
	}

	request := &entity.Request{
		ListingID:       input.ListingID,
		RequesterID:     requesterID,
		RequesterName:   requester.DisplayName,
		RequesterAvatar: requester.PhotoURL,
		RequesterRole:   requester.Role,
		SellerID:        listing.OwnerID,
		ListingSnapshot: entity.ListingSnapshot{
			Title: listing.Title,
			Image: listing.FirstImage(),
			Price: listing.Price,
		},
		Message: input.Message,
		Status:  entity.RequestStatusPending,
	}

	if err := uc.requestRepo.Create(ctx, request); err != nil {
		log.Printf("CreateRequest Error: Failed to create request for listing %s: %v", input.ListingID, err)
		return nil, err
	}

	return request, nil
}

// ListRequests returns outbound requests (role "requester") or inbound
// requests for the user's listings (role "seller").
func (uc *RequestUseCase) ListRequests(ctx context.Context, role, userID string) ([]*entity.Request, error) {
	switch role {
	case "requester":
		return uc.requestRepo.ListByRequester(ctx, userID)
	case "seller":
		return uc.requestRepo.ListBySeller(ctx, userID)
	default:
		return nil, errors.BadRequest("Role must be 'requester' or 'seller'", nil)
	}
}

func (uc *RequestUseCase) UpdateRequestStatus(ctx context.Context, actorID, requestID, status string) (*entity.Request, error) {
	if status != entity.RequestStatusApproved && status != entity.RequestStatusRejected {
		return nil, errors.BadRequest("Status must be 'approved' or 'rejected'", nil)
	}

	request, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		log.Printf("UpdateRequestStatus Error: Request %s not found: %v", requestID, err)
		return nil, err
	}

	if request.SellerID != actorID {
		log.Printf("UpdateRequestStatus Error: User %s is not the seller for request %s", actorID, requestID)
		return nil, errors.Forbidden("Only the seller can approve or reject a request", nil)
	}

	if err := uc.requestRepo.UpdateStatus(ctx, requestID, status); err != nil {
		log.Printf("UpdateRequestStatus Error: Failed to update request %s: %v", requestID, err)
		return nil, err
	}
	request.Status = status

	// Approval opens the conversation. Chat creation is idempotent, so a
	// repeated approval lands on the same chat instead of a duplicate. A
	// failure here is surfaced to the caller, not swallowed - the status
	// change itself has already been applied.
	if status == entity.RequestStatusApproved {
		if _, err := uc.chatCreator.CreateChat(ctx, request.ListingID, request.RequesterID, request.SellerID); err != nil {
			log.Printf("UpdateRequestStatus Error: Request %s approved but chat creation failed: %v", requestID, err)
			return nil, errors.Internal("Request approved but chat could not be created", err)
		}
	}

	return request, nil
}
