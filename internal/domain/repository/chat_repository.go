package repository

import (
	"context"

	"takasa/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error)
	Update(ctx context.Context, chat *entity.Chat) error

	// Message methods
	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessageByID(ctx context.Context, chatID, messageID string) (*entity.Message, error)
	// ListRecentMessages returns up to limit messages ordered newest first.
	// Callers reverse the slice when they need chronological order.
	ListRecentMessages(ctx context.Context, chatID string, limit int) ([]*entity.Message, error)
}
