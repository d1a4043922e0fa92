package types

import "time"

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "AVAILABLE"
	ListingStatusClaimed   ListingStatus = "CLAIMED"
)

// Listing is one surplus-food offer. The donor-supplied fields are immutable
// after creation; only the lifecycle fields and the chat change afterwards.
type Listing struct {
	ID string `json:"id"`

	DonorName       string `json:"donorName"`
	DonorType       string `json:"donorType"`
	DonorUserID     string `json:"donorUserId"`
	FoodDescription string `json:"foodDescription"`
	Quantity        string `json:"quantity"`
	// ExpiryDate is an ISO date string (2006-01-02); lexicographic order is
	// chronological order, which the projections rely on.
	ExpiryDate   string `json:"expiryDate"`
	PickupWindow string `json:"pickupWindow"`
	Location     string `json:"location"`
	Notes        string `json:"notes"`
	ImageKey     string `json:"imageKey,omitempty"`

	CreatedByUserID string    `json:"createdByUserId"`
	CreatedAt       time.Time `json:"createdAt"`

	Status          ListingStatus `json:"status"`
	CharityUserID   string        `json:"charityUserId"`
	CharityName     string        `json:"charityName"`
	ClaimedAt       *time.Time    `json:"claimedAt"`
	DonorClaimAck   bool          `json:"donorClaimAck"`
	CharityClaimAck bool          `json:"charityClaimAck"`

	Chat []ChatMessage `json:"chat"`
}

// FullyConfirmed is derived, never stored: both claim participants have
// acknowledged the handoff.
func (l *Listing) FullyConfirmed() bool {
	return l.DonorClaimAck && l.CharityClaimAck
}

// Clone returns a deep copy. Lifecycle operations mutate a clone and swap it
// in only after the store write succeeds.
func (l *Listing) Clone() *Listing {
	cp := *l
	cp.Chat = make([]ChatMessage, len(l.Chat))
	copy(cp.Chat, l.Chat)
	if l.ClaimedAt != nil {
		t := *l.ClaimedAt
		cp.ClaimedAt = &t
	}
	return &cp
}

// ChatMessage is immutable once appended. Ordering is append order.
type ChatMessage struct {
	ID           string    `json:"id"`
	SenderUserID string    `json:"senderUserId"`
	SenderName   string    `json:"senderName"`
	SenderRole   Role      `json:"senderRole"`
	Text         string    `json:"text"`
	Timestamp    time.Time `json:"timestamp"`
}
