package models

import (
	"encoding/json"
	"time"
)

// Payment event statuses
const (
	PaymentEventStatusPending   = "pending"
	PaymentEventStatusCompleted = "completed"
	PaymentEventStatusFailed    = "failed"
)

// PaymentEvent records every billing action a provider reported or we
// initiated. The (provider, reference) pair is unique, which is what makes
// webhook retries idempotent: the first insert wins, replays are ignored.
type PaymentEvent struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProfileID uint    `gorm:"not null;index:idx_payment_events_profile_id" json:"profile_id"`
	Profile   Profile `gorm:"foreignKey:ProfileID;references:ID" json:"-"`

	Provider  string `gorm:"size:16;not null;uniqueIndex:uk_payment_events_provider_reference" json:"provider"`
	Reference string `gorm:"size:255;not null;uniqueIndex:uk_payment_events_provider_reference" json:"reference"`
	EventType string `gorm:"size:64;not null" json:"event_type"`
	Status    string `gorm:"size:16;not null;default:'pending';index:idx_payment_events_status" json:"status"`

	AmountUSD *float64        `gorm:"type:decimal(10,2)" json:"amount_usd,omitempty"`
	RawEvent  json.RawMessage `gorm:"type:jsonb" json:"-"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_payment_events_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PaymentEvent) TableName() string {
	return "payment_events"
}

// IsFinal reports whether the event is in a terminal state.
func (e *PaymentEvent) IsFinal() bool {
	return e.Status == PaymentEventStatusCompleted || e.Status == PaymentEventStatusFailed
}

// PaymentEventFilter represents filter criteria for payment event queries
type PaymentEventFilter struct {
	ID            *uint
	ProfileID     *uint
	Provider      *string
	Reference     *string
	EventType     *string
	Status        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
