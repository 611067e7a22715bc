package usecase

import (
	"context"
	"log"

	"takasa/internal/domain/entity"
	"takasa/internal/domain/repository"
	"takasa/internal/infrastructure/walrus"
	"takasa/pkg/errors"
)

const defaultMessageWindow = 100

type ChatUseCase struct {
	chatRepo      repository.ChatRepository
	listingRepo   repository.ListingRepository
	blobStore     MessageBlobStore
	hybridEnabled bool
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	listingRepo repository.ListingRepository,
	blobStore MessageBlobStore,
	hybridEnabled bool,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:      chatRepo,
		listingRepo:   listingRepo,
		blobStore:     blobStore,
		hybridEnabled: hybridEnabled,
	}
}

type SendMessageInput struct {
	ChatID   string
	Text     string
	Type     string // "text", "image", "location"
	MediaURL string
}

// ChatResponse decorates a chat with listing display fields for the chat
// list screen.
type ChatResponse struct {
	*entity.Chat
	ListingTitle string `json:"listing_title,omitempty"`
	ListingImage string `json:"listing_image,omitempty"`
}

// MirrorOutcome reports what happened to the blob-network copy of a message
// body. The send path branches on it instead of catching storage errors.
type MirrorOutcome struct {
	Stored bool
	BlobID string
	Reason string // why the mirror was skipped, when Stored is false
}

// MessageStorageInfo describes where a message body lives, including the
// blob network's view when an external copy exists.
type MessageStorageInfo struct {
	MessageID      string           `json:"message_id"`
	StorageType    string           `json:"storage_type"`
	ExternalBlobID string           `json:"external_blob_id,omitempty"`
	Blob           *walrus.BlobInfo `json:"blob,omitempty"`
}

// CreateChat opens the chat for a listing/requester pair. The chat id is a
// deterministic function of the pair, so calling this twice - a re-approval,
// or an approval racing a direct start-chat - returns the already existing
// chat unchanged.
func (uc *ChatUseCase) CreateChat(ctx context.Context, listingID, requesterID, sellerID string) (*entity.Chat, error) {
	chatID := entity.ChatID(listingID, requesterID)

	existing, err := uc.chatRepo.GetByID(ctx, chatID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		log.Printf("CreateChat Error: Failed to look up chat %s: %v", chatID, err)
		return nil, err
	}

	chat := &entity.Chat{
		ID:           chatID,
		ListingID:    listingID,
		Participants: []string{sellerID, requesterID},
		SellerID:     sellerID,
		RequesterID:  requesterID,
		Status:       "open",
		UnreadCount: map[string]int{
			sellerID:    0,
			requesterID: 0,
		},
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		log.Printf("CreateChat Error: Failed to create chat %s: %v", chatID, err)
		return nil, err
	}

	return chat, nil
}

// StartChat is the direct-initiation path: a requester opens a conversation
// on a listing without sending a request first.
func (uc *ChatUseCase) StartChat(ctx context.Context, requesterID, listingID string) (*entity.Chat, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		log.Printf("StartChat Error: Listing %s not found: %v", listingID, err)
		return nil, err
	}

	if listing.OwnerID == requesterID {
		log.Printf("StartChat Error: User %s attempted to chat with themselves on listing %s", requesterID, listingID)
		return nil, errors.BadRequest("You cannot chat with yourself", nil)
	}

	return uc.CreateChat(ctx, listingID, requesterID, listing.OwnerID)
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	chat, err := uc.chatRepo.GetByID(ctx, input.ChatID)
	if err != nil {
		log.Printf("SendMessage Error: Chat %s not found: %v", input.ChatID, err)
		return nil, err
	}

	if !chat.HasParticipant(senderID) {
		log.Printf("SendMessage Error: User %s is not a participant in chat %s", senderID, input.ChatID)
		return nil, errors.Forbidden("User is not a participant in this chat", nil)
	}

	messageType := input.Type
	if messageType == "" {
		messageType = entity.MessageTypeText
	}

	message := &entity.Message{
		ChatID:      input.ChatID,
		SenderID:    senderID,
		Text:        input.Text,
		Type:        messageType,
		MediaURL:    input.MediaURL,
		StorageType: entity.StorageTypeFirestore,
	}

	if input.Text != "" {
		outcome := uc.mirrorText(ctx, input.Text)
		if outcome.Stored {
			message.StorageType = entity.StorageTypeHybrid
			message.ExternalBlobID = outcome.BlobID
		} else {
			log.Printf("SendMessage: Blob mirror skipped for chat %s: %s", input.ChatID, outcome.Reason)
		}
	}

	// The append must land before the summary update: a crash in between
	// leaves an extra message in the log, never a summary pointing at a
	// message that does not exist.
	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		log.Printf("SendMessage Error: Failed to create message for chat %s: %v", input.ChatID, err)
		return nil, err
	}

	chat.LastMessage = lastMessagePreview(message)
	chat.LastMessageAt = message.CreatedAt
	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	for _, participantID := range chat.Participants {
		if participantID != senderID {
			chat.UnreadCount[participantID]++
		}
	}

	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		log.Printf("SendMessage Error: Failed to update chat %s with last message: %v", chat.ID, err)
		return nil, err
	}

	return message, nil
}

// mirrorText attempts to write the message body to the blob network. The
// send must never fail because the secondary store is down, so any error is
// folded into a skipped outcome.
func (uc *ChatUseCase) mirrorText(ctx context.Context, text string) MirrorOutcome {
	if !uc.hybridEnabled || uc.blobStore == nil {
		return MirrorOutcome{Reason: "hybrid storage disabled"}
	}

	ref, err := uc.blobStore.StoreText(ctx, text)
	if err != nil {
		return MirrorOutcome{Reason: err.Error()}
	}

	return MirrorOutcome{Stored: true, BlobID: ref.BlobID}
}

// GetChatMessages returns the most recent messages of a chat in
// chronological order (oldest first) and resets the caller's unread counter.
func (uc *ChatUseCase) GetChatMessages(ctx context.Context, userID, chatID string, limit int) ([]*entity.Message, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		log.Printf("GetChatMessages Error: Chat %s not found: %v", chatID, err)
		return nil, err
	}

	if !chat.HasParticipant(userID) {
		log.Printf("GetChatMessages Error: User %s is not a participant in chat %s", userID, chatID)
		return nil, errors.Forbidden("User is not a participant in this chat", nil)
	}

	// Reading acknowledges receipt. Last-write-wins: an increment racing
	// this reset may be lost, which is an accepted tradeoff - the message
	// log itself is unaffected.
	if chat.UnreadCount[userID] > 0 {
		chat.UnreadCount[userID] = 0
		if err := uc.chatRepo.Update(ctx, chat); err != nil {
			log.Printf("GetChatMessages: Failed to reset unread count for user %s in chat %s: %v", userID, chatID, err)
		}
	}

	if limit <= 0 {
		limit = defaultMessageWindow
	}

	// The store returns newest-first with the cap applied, so reversing
	// here yields "most recent N, oldest first" - never the oldest N.
	messages, err := uc.chatRepo.ListRecentMessages(ctx, chatID, limit)
	if err != nil {
		log.Printf("GetChatMessages Error: Failed to list messages for chat %s: %v", chatID, err)
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	uc.rehydrateFromBlobs(ctx, messages)

	return messages, nil
}

// rehydrateFromBlobs replaces each message body with the authoritative blob
// copy when one exists. A blob fetch failure degrades silently to the local
// fallback copy written at send time.
func (uc *ChatUseCase) rehydrateFromBlobs(ctx context.Context, messages []*entity.Message) {
	if !uc.hybridEnabled || uc.blobStore == nil {
		return
	}

	for _, message := range messages {
		if message.ExternalBlobID == "" {
			continue
		}

		text, err := uc.blobStore.ReadText(ctx, message.ExternalBlobID)
		if err != nil {
			log.Printf("GetChatMessages: Blob fetch failed for message %s (blob %s), serving local copy: %v",
				message.ID, message.ExternalBlobID, err)
			continue
		}

		message.Text = text
		message.ExternallyVerified = true
	}
}

// ListUserChats returns the chats the user participates in, newest activity
// first, decorated with listing title and cover image.
func (uc *ChatUseCase) ListUserChats(ctx context.Context, userID string, limit, offset int) ([]*ChatResponse, int64, error) {
	chats, total, err := uc.chatRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		log.Printf("ListUserChats Error: Failed to list chats for user %s: %v", userID, err)
		return nil, 0, err
	}

	var responses []*ChatResponse
	for _, chat := range chats {
		resp := &ChatResponse{Chat: chat}

		if chat.ListingID != "" {
			listing, err := uc.listingRepo.GetByID(ctx, chat.ListingID)
			if err == nil {
				resp.ListingTitle = listing.Title
				resp.ListingImage = listing.FirstImage()
			} else {
				log.Printf("ListUserChats Warning: Listing %s not found for chat %s: %v", chat.ListingID, chat.ID, err)
			}
		}

		responses = append(responses, resp)
	}

	return responses, total, nil
}

// GetMessageStorageInfo reports where a message body is stored. When the
// blob network cannot be reached the local storage fields are still
// returned, with no blob view attached.
func (uc *ChatUseCase) GetMessageStorageInfo(ctx context.Context, userID, chatID, messageID string) (*MessageStorageInfo, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("User is not a participant in this chat", nil)
	}

	message, err := uc.chatRepo.GetMessageByID(ctx, chatID, messageID)
	if err != nil {
		return nil, err
	}

	info := &MessageStorageInfo{
		MessageID:      message.ID,
		StorageType:    message.StorageType,
		ExternalBlobID: message.ExternalBlobID,
	}

	if message.ExternalBlobID != "" && uc.blobStore != nil {
		blob, err := uc.blobStore.GetBlobInfo(ctx, message.ExternalBlobID)
		if err != nil {
			log.Printf("GetMessageStorageInfo: Blob probe failed for %s: %v", message.ExternalBlobID, err)
		} else {
			info.Blob = blob
		}
	}

	return info, nil
}

func lastMessagePreview(message *entity.Message) string {
	if message.Text != "" {
		return message.Text
	}
	switch message.Type {
	case entity.MessageTypeImage:
		return "Image"
	case entity.MessageTypeLocation:
		return "Location"
	default:
		return ""
	}
}
