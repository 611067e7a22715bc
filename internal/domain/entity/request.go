package entity

import "time"

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// ListingSnapshot freezes the listing fields shown on a request card. It is
// captured when the request is created and never recomputed, so later edits
// to the listing do not rewrite request history.
type ListingSnapshot struct {
	Title string  `json:"title" firestore:"title"`
	Image string  `json:"image,omitempty" firestore:"image,omitempty"`
	Price float64 `json:"price" firestore:"price"`
}

type Request struct {
	ID          string `json:"id" firestore:"id"`
	ListingID   string `json:"listing_id" firestore:"listingId"`
	RequesterID string `json:"requester_id" firestore:"requesterId"`

	// Denormalized requester display fields, avoids a user lookup per card.
	RequesterName   string `json:"requester_name" firestore:"requesterName"`
	RequesterAvatar string `json:"requester_avatar,omitempty" firestore:"requesterAvatar,omitempty"`
	RequesterRole   string `json:"requester_role" firestore:"requesterRole"`

	// SellerID is copied from the listing owner at creation time so inbound
	// requests can be queried with a single equality filter.
	SellerID string `json:"seller_id" firestore:"sellerId"`

	ListingSnapshot ListingSnapshot `json:"listing_snapshot" firestore:"listingSnapshot"`
	Message         string          `json:"message" firestore:"message"`
	Status          string          `json:"status" firestore:"status"` // "pending", "approved", "rejected"
	CreatedAt       time.Time       `json:"created_at" firestore:"createdAt"`
}
