package entity

import (
	"fmt"
	"time"
)

type Chat struct {
	ID            string         `json:"id" firestore:"id"`
	ListingID     string         `json:"listing_id" firestore:"listingId"`
	Participants  []string       `json:"participants" firestore:"participants"`
	SellerID      string         `json:"seller_id" firestore:"sellerId"`
	RequesterID   string         `json:"requester_id" firestore:"requesterId"`
	Status        string         `json:"status" firestore:"status"` // "open", "archived"
	LastMessage   string         `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time      `json:"last_message_at,omitempty" firestore:"lastMessageAt,omitempty"`
	UnreadCount   map[string]int `json:"unread_count" firestore:"unreadCount"` // userID -> unread messages
	CreatedAt     time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time      `json:"updated_at" firestore:"updatedAt"`
}

// ChatID builds the deterministic document id for a listing/requester pair.
// Re-approving a request or re-initiating a chat for the same pair always
// lands on the same document, which is what makes chat creation idempotent.
func ChatID(listingID, requesterID string) string {
	return fmt.Sprintf("%s_%s", listingID, requesterID)
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID, or "" when
// userID is the only participant recorded.
func (c *Chat) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}
