package usecase

import (
	"context"

	"takasa/internal/domain/entity"
	"takasa/internal/infrastructure/walrus"
)

// ChatCreator is the one operation the request lifecycle needs from the chat
// manager. The request side depends on this instead of the full ChatUseCase
// so the two managers never import each other.
type ChatCreator interface {
	CreateChat(ctx context.Context, listingID, requesterID, sellerID string) (*entity.Chat, error)
}

// MessageBlobStore mirrors message text to the external blob network and
// reads it back. Satisfied by *walrus.Client.
type MessageBlobStore interface {
	StoreText(ctx context.Context, text string) (*walrus.BlobRef, error)
	ReadText(ctx context.Context, blobID string) (string, error)
	GetBlobInfo(ctx context.Context, blobID string) (*walrus.BlobInfo, error)
}
