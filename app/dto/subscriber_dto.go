package dto

// SubscribeRequest represents a visitor subscribing on a public page
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// SubscribeResponse acknowledges a subscription. Duplicate submissions are
// reported as subscribed without exposing whether the email already existed.
type SubscribeResponse struct {
	Subscribed bool `json:"subscribed"`
}

// SubscriberDTO is the owner-facing view of a subscriber
type SubscriberDTO struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// ListSubscribersResponse represents the owner's subscriber list
type ListSubscribersResponse struct {
	Subscribers []SubscriberDTO `json:"subscribers"`
	Total       int             `json:"total"`
}

// Common error codes for subscriber operations
const (
	ErrorSubscriberNotFound      = "SUBSCRIBER_NOT_FOUND"
	ErrorEmailCollectionDisabled = "EMAIL_COLLECTION_DISABLED"
)
