package entity

import "time"

const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeLocation = "location"
)

// Storage backends a message body can live on. "firestore" is the primary
// document store copy, "hybrid" means the text is additionally mirrored to
// the Walrus blob network under ExternalBlobID.
const (
	StorageTypeFirestore = "firestore"
	StorageTypeWalrus    = "walrus"
	StorageTypeHybrid    = "hybrid"
)

type Message struct {
	ID       string `json:"id" firestore:"id"`
	ChatID   string `json:"chat_id" firestore:"chatId"`
	SenderID string `json:"sender_id" firestore:"senderId"`
	Text     string `json:"text,omitempty" firestore:"text,omitempty"`
	Type     string `json:"type" firestore:"type"` // "text", "image", "location"
	MediaURL string `json:"media_url,omitempty" firestore:"mediaUrl,omitempty"`

	StorageType    string `json:"storage_type" firestore:"storageType"`
	ExternalBlobID string `json:"external_blob_id,omitempty" firestore:"externalBlobId,omitempty"`

	// Set on the read path when the text was re-fetched from the blob
	// network and matched against the blob copy. Never persisted.
	ExternallyVerified bool `json:"externally_verified,omitempty" firestore:"-"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
