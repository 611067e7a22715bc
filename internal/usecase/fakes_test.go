package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"takasa/internal/domain/entity"
	"takasa/internal/infrastructure/walrus"
	"takasa/pkg/errors"
)

// In-memory stand-ins for the Firestore repositories. Reads return copies so
// tests observe the same read-fresh semantics as the real document store.

type fakeListingRepo struct {
	listings map[string]*entity.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*entity.Listing)}
}

func (f *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, ok := f.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	cp := *listing
	return &cp, nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	cp := *user
	return &cp, nil
}

type fakeRequestRepo struct {
	requests map[string]*entity.Request
	seq      int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*entity.Request)}
}

func (f *fakeRequestRepo) Create(ctx context.Context, request *entity.Request) error {
	if request.ID == "" {
		f.seq++
		request.ID = fmt.Sprintf("req_%04d", f.seq)
	}
	request.CreatedAt = time.Now()
	cp := *request
	f.requests[request.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, errors.NotFound("Request", nil)
	}
	cp := *request
	return &cp, nil
}

func (f *fakeRequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]*entity.Request, error) {
	var out []*entity.Request
	for _, r := range f.requests {
		if r.RequesterID == requesterID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Request, error) {
	var out []*entity.Request
	for _, r := range f.requests {
		if r.SellerID == sellerID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id, status string) error {
	request, ok := f.requests[id]
	if !ok {
		return errors.NotFound("Request", nil)
	}
	request.Status = status
	return nil
}

type fakeChatRepo struct {
	chats    map[string]*entity.Chat
	messages map[string][]*entity.Message
	clock    time.Time
	seq      int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:    make(map[string]*entity.Chat),
		messages: make(map[string][]*entity.Message),
		clock:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func cloneChat(chat *entity.Chat) *entity.Chat {
	cp := *chat
	cp.Participants = append([]string(nil), chat.Participants...)
	cp.UnreadCount = make(map[string]int, len(chat.UnreadCount))
	for k, v := range chat.UnreadCount {
		cp.UnreadCount[k] = v
	}
	return &cp
}

func (f *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		chat.ID = entity.ChatID(chat.ListingID, chat.RequesterID)
	}
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	f.chats[chat.ID] = cloneChat(chat)
	return nil
}

func (f *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	chat, ok := f.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return cloneChat(chat), nil
}

func (f *fakeChatRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	var out []*entity.Chat
	for _, chat := range f.chats {
		if cloneChat(chat).HasParticipant(userID) {
			out = append(out, cloneChat(chat))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, int64(len(out)), nil
}

func (f *fakeChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	if _, ok := f.chats[chat.ID]; !ok {
		return errors.NotFound("Chat", nil)
	}
	chat.UpdatedAt = time.Now()
	f.chats[chat.ID] = cloneChat(chat)
	return nil
}

func (f *fakeChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		f.seq++
		message.ID = fmt.Sprintf("msg_%04d", f.seq)
	}
	f.clock = f.clock.Add(time.Millisecond)
	message.CreatedAt = f.clock
	cp := *message
	f.messages[message.ChatID] = append(f.messages[message.ChatID], &cp)
	return nil
}

func (f *fakeChatRepo) GetMessageByID(ctx context.Context, chatID, messageID string) (*entity.Message, error) {
	for _, m := range f.messages[chatID] {
		if m.ID == messageID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (f *fakeChatRepo) ListRecentMessages(ctx context.Context, chatID string, limit int) ([]*entity.Message, error) {
	stored := f.messages[chatID]

	// Newest first with the cap applied, matching Firestore's
	// order-by-createdAt-descending query.
	var out []*entity.Message
	for i := len(stored) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		cp := *stored[i]
		out = append(out, &cp)
	}
	return out, nil
}

type fakeBlobStore struct {
	blobs      map[string]string
	seq        int
	storeErr   error
	readErr    error
	storeCalls int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string]string)}
}

func (f *fakeBlobStore) StoreText(ctx context.Context, text string) (*walrus.BlobRef, error) {
	f.storeCalls++
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	f.seq++
	blobID := fmt.Sprintf("blob-%04d", f.seq)
	f.blobs[blobID] = text
	return &walrus.BlobRef{BlobID: blobID, Size: int64(len(text)), StoredAt: time.Now().UTC()}, nil
}

func (f *fakeBlobStore) ReadText(ctx context.Context, blobID string) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	text, ok := f.blobs[blobID]
	if !ok {
		return "", walrus.ErrBlobNotFound
	}
	return text, nil
}

func (f *fakeBlobStore) GetBlobInfo(ctx context.Context, blobID string) (*walrus.BlobInfo, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	text, ok := f.blobs[blobID]
	if !ok {
		return &walrus.BlobInfo{BlobID: blobID, Exists: false}, nil
	}
	return &walrus.BlobInfo{BlobID: blobID, Exists: true, Size: int64(len(text))}, nil
}

// failingChatCreator simulates the chat manager being unavailable during an
// approval.
type failingChatCreator struct {
	err error
}

func (f *failingChatCreator) CreateChat(ctx context.Context, listingID, requesterID, sellerID string) (*entity.Chat, error) {
	return nil, f.err
}
