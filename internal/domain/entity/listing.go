package entity

import "time"

type ListingLocation struct {
	Lat      float64 `json:"lat" firestore:"lat"`
	Lng      float64 `json:"lng" firestore:"lng"`
	City     string  `json:"city" firestore:"city"`
	District string  `json:"district" firestore:"district"`
}

type Listing struct {
	ID          string          `json:"id" firestore:"id"`
	OwnerID     string          `json:"owner_id" firestore:"ownerId"`
	OwnerName   string          `json:"owner_name,omitempty" firestore:"ownerName,omitempty"`
	OwnerAvatar string          `json:"owner_avatar,omitempty" firestore:"ownerAvatar,omitempty"`
	Title       string          `json:"title" firestore:"title"`
	Description string          `json:"description" firestore:"description"`
	Images      []string        `json:"images" firestore:"images"`
	Category    string          `json:"category" firestore:"category"` // "furniture", "electronics", "clothing", "books"
	Type        string          `json:"type" firestore:"type"`         // "donation", "sale", "support"
	Price       float64         `json:"price" firestore:"price"`
	Currency    string          `json:"currency" firestore:"currency"`
	Location    ListingLocation `json:"location" firestore:"location"`
	Status      string          `json:"status" firestore:"status"` // "active", "reserved", "completed", "archived"
	CreatedAt   time.Time       `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time       `json:"updated_at" firestore:"updatedAt"`
}

// FirstImage returns the listing's cover image, or "" when none was uploaded.
func (l *Listing) FirstImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}
