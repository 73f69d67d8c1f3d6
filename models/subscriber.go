package models

import (
	"time"
)

// Subscriber is an email address collected from a profile's public page.
// The (profile_id, email) pair is unique; re-subscribing is a no-op.
type Subscriber struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProfileID uint    `gorm:"not null;uniqueIndex:uk_subscribers_profile_email;index:idx_subscribers_profile_id" json:"profile_id"`
	Profile   Profile `gorm:"foreignKey:ProfileID;references:ID" json:"-"`

	Email     string  `gorm:"size:255;not null;uniqueIndex:uk_subscribers_profile_email" json:"email"`
	IPAddress *string `gorm:"type:inet" json:"-"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_subscribers_created_at" json:"created_at"`
}

func (Subscriber) TableName() string {
	return "subscribers"
}

// SubscriberFilter represents filter criteria for subscriber queries
type SubscriberFilter struct {
	ID            *uint
	ProfileID     *uint
	Email         *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
