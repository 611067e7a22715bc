package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"takasa/internal/domain/entity"
	"takasa/pkg/errors"
)

func newChatFixture(hybrid bool) (*ChatUseCase, *fakeChatRepo, *fakeListingRepo, *fakeBlobStore) {
	chatRepo := newFakeChatRepo()
	listingRepo := newFakeListingRepo()
	blobStore := newFakeBlobStore()

	listingRepo.listings["lst-1"] = &entity.Listing{
		ID:      "lst-1",
		OwnerID: "seller-1",
		Title:   "Road bike",
		Images:  []string{"https://cdn.example.com/bike.jpg"},
		Price:   1200,
	}

	uc := NewChatUseCase(chatRepo, listingRepo, blobStore, hybrid)
	return uc, chatRepo, listingRepo, blobStore
}

func mustCreateChat(t *testing.T, uc *ChatUseCase) *entity.Chat {
	t.Helper()
	chat, err := uc.CreateChat(context.Background(), "lst-1", "buyer-1", "seller-1")
	require.NoError(t, err)
	return chat
}

func TestCreateChatDeterministicID(t *testing.T) {
	uc, _, _, _ := newChatFixture(false)

	chat := mustCreateChat(t, uc)
	assert.Equal(t, "lst-1_buyer-1", chat.ID)
	assert.Equal(t, "open", chat.Status)
	assert.ElementsMatch(t, []string{"seller-1", "buyer-1"}, chat.Participants)

	unreadSeller, ok := chat.UnreadCount["seller-1"]
	require.True(t, ok)
	assert.Equal(t, 0, unreadSeller)
	unreadBuyer, ok := chat.UnreadCount["buyer-1"]
	require.True(t, ok)
	assert.Equal(t, 0, unreadBuyer)
}

func TestCreateChatIdempotent(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture(false)
	ctx := context.Background()

	first := mustCreateChat(t, uc)

	// Accumulate some state, then re-create: the existing chat must come
	// back unchanged, not a fresh zeroed one.
	_, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: first.ID, Text: "hello"})
	require.NoError(t, err)

	second, err := uc.CreateChat(ctx, "lst-1", "buyer-1", "seller-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "hello", second.LastMessage)
	assert.Equal(t, 1, second.UnreadCount["seller-1"])
	assert.Len(t, chatRepo.chats, 1)
}

func TestStartChat(t *testing.T) {
	uc, _, _, _ := newChatFixture(false)
	ctx := context.Background()

	chat, err := uc.StartChat(ctx, "buyer-1", "lst-1")
	require.NoError(t, err)
	assert.Equal(t, "lst-1_buyer-1", chat.ID)
	assert.Equal(t, "seller-1", chat.SellerID)

	_, err = uc.StartChat(ctx, "seller-1", "lst-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.StartChat(ctx, "buyer-1", "lst-missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessageIncrementsRecipientOnly(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture(false)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	_, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Text: "hi"})
	require.NoError(t, err)

	stored, err := chatRepo.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UnreadCount["seller-1"])
	assert.Equal(t, 0, stored.UnreadCount["buyer-1"])
	assert.Equal(t, "hi", stored.LastMessage)
	assert.False(t, stored.LastMessageAt.IsZero())
}

func TestSendMessageAccessChecks(t *testing.T) {
	uc, _, _, _ := newChatFixture(false)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	_, err := uc.SendMessage(ctx, "stranger", SendMessageInput{ChatID: chat.ID, Text: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: "lst-9_nobody", Text: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessagePreviewPlaceholders(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture(false)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	_, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{
		ChatID:   chat.ID,
		Type:     entity.MessageTypeImage,
		MediaURL: "https://cdn.example.com/photo.jpg",
	})
	require.NoError(t, err)

	stored, err := chatRepo.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Image", stored.LastMessage)

	_, err = uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Type: entity.MessageTypeLocation})
	require.NoError(t, err)

	stored, err = chatRepo.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Location", stored.LastMessage)
}

func TestSendMessageHybridMirror(t *testing.T) {
	uc, _, _, blobStore := newChatFixture(true)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	message, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Text: "mirrored text"})
	require.NoError(t, err)

	assert.Equal(t, entity.StorageTypeHybrid, message.StorageType)
	require.NotEmpty(t, message.ExternalBlobID)
	assert.Equal(t, "mirrored text", blobStore.blobs[message.ExternalBlobID])
}

func TestSendMessageFallbackWhenBlobStoreDown(t *testing.T) {
	uc, _, _, blobStore := newChatFixture(true)
	blobStore.storeErr = fmt.Errorf("walrus store failed: connection refused")
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	message, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Text: "still delivered"})
	require.NoError(t, err)

	assert.Equal(t, entity.StorageTypeFirestore, message.StorageType)
	assert.Empty(t, message.ExternalBlobID)
	assert.Equal(t, "still delivered", message.Text)
	assert.Equal(t, 1, blobStore.storeCalls)
}

func TestSendMessageSkipsMirrorWhenDisabled(t *testing.T) {
	uc, _, _, blobStore := newChatFixture(false)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	message, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Text: "local only"})
	require.NoError(t, err)

	assert.Equal(t, entity.StorageTypeFirestore, message.StorageType)
	assert.Zero(t, blobStore.storeCalls)
}

func TestGetChatMessagesChronologicalOrder(t *testing.T) {
	uc, _, _, _ := newChatFixture(false)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	for i := 1; i <= 5; i++ {
		_, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Text: fmt.Sprintf("m%d", i)})
		require.NoError(t, err)
	}

	messages, err := uc.GetChatMessages(ctx, "seller-1", chat.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 5)
	for i, message := range messages {
		assert.Equal(t, fmt.Sprintf("m%d", i+1), message.Text)
	}
}

func TestGetChatMessagesWindowKeepsMostRecent(t *testing.T) {
	uc, _, _, _ := newChatFixture(false)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	for i := 1; i <= 5; i++ {
		_, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Text: fmt.Sprintf("m%d", i)})
		require.NoError(t, err)
	}

	// Most recent 3, oldest first - never the oldest 3.
	messages, err := uc.GetChatMessages(ctx, "seller-1", chat.ID, 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "m3", messages[0].Text)
	assert.Equal(t, "m4", messages[1].Text)
	assert.Equal(t, "m5", messages[2].Text)
}

func TestGetChatMessagesResetsCallerUnread(t *testing.T) {
	uc, chatRepo, _, _ := newChatFixture(false)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	_, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Text: "one"})
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, "seller-1", SendMessageInput{ChatID: chat.ID, Text: "two"})
	require.NoError(t, err)

	_, err = uc.GetChatMessages(ctx, "seller-1", chat.ID, 0)
	require.NoError(t, err)

	stored, err := chatRepo.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.UnreadCount["seller-1"])
	// The other participant's counter is untouched by this read.
	assert.Equal(t, 1, stored.UnreadCount["buyer-1"])
}

func TestGetChatMessagesAccessChecks(t *testing.T) {
	uc, _, _, _ := newChatFixture(false)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	_, err := uc.GetChatMessages(ctx, "stranger", chat.ID, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = uc.GetChatMessages(ctx, "buyer-1", "lst-9_nobody", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestGetChatMessagesRehydratesFromBlob(t *testing.T) {
	uc, _, _, blobStore := newChatFixture(true)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	message, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Text: "original"})
	require.NoError(t, err)
	require.NotEmpty(t, message.ExternalBlobID)

	// The blob network copy is authoritative on read.
	blobStore.blobs[message.ExternalBlobID] = "authoritative"

	messages, err := uc.GetChatMessages(ctx, "seller-1", chat.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "authoritative", messages[0].Text)
	assert.True(t, messages[0].ExternallyVerified)
}

func TestGetChatMessagesServesLocalCopyWhenBlobFetchFails(t *testing.T) {
	uc, _, _, blobStore := newChatFixture(true)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	_, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Text: "fallback copy"})
	require.NoError(t, err)

	blobStore.readErr = fmt.Errorf("walrus read failed: timeout")

	messages, err := uc.GetChatMessages(ctx, "seller-1", chat.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "fallback copy", messages[0].Text)
	assert.False(t, messages[0].ExternallyVerified)
}

func TestListUserChatsEnrichedWithListing(t *testing.T) {
	uc, _, _, _ := newChatFixture(false)
	ctx := context.Background()
	mustCreateChat(t, uc)

	chats, total, err := uc.ListUserChats(ctx, "buyer-1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, chats, 1)
	assert.Equal(t, "Road bike", chats[0].ListingTitle)
	assert.Equal(t, "https://cdn.example.com/bike.jpg", chats[0].ListingImage)

	none, total, err := uc.ListUserChats(ctx, "stranger", 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestGetMessageStorageInfo(t *testing.T) {
	uc, _, _, _ := newChatFixture(true)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	message, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Text: "mirrored"})
	require.NoError(t, err)

	info, err := uc.GetMessageStorageInfo(ctx, "seller-1", chat.ID, message.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StorageTypeHybrid, info.StorageType)
	assert.Equal(t, message.ExternalBlobID, info.ExternalBlobID)
	require.NotNil(t, info.Blob)
	assert.True(t, info.Blob.Exists)
	assert.Equal(t, int64(len("mirrored")), info.Blob.Size)

	_, err = uc.GetMessageStorageInfo(ctx, "stranger", chat.ID, message.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = uc.GetMessageStorageInfo(ctx, "seller-1", chat.ID, "msg_missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestGetMessageStorageInfoDegradesWhenBlobProbeFails(t *testing.T) {
	uc, _, _, blobStore := newChatFixture(true)
	ctx := context.Background()
	chat := mustCreateChat(t, uc)

	message, err := uc.SendMessage(ctx, "buyer-1", SendMessageInput{ChatID: chat.ID, Text: "mirrored"})
	require.NoError(t, err)

	blobStore.readErr = fmt.Errorf("walrus read failed: timeout")

	info, err := uc.GetMessageStorageInfo(ctx, "seller-1", chat.ID, message.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StorageTypeHybrid, info.StorageType)
	assert.Nil(t, info.Blob)
}
