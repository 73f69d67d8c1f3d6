package models

import (
	"time"
)

// Notification kinds
const (
	NotificationTypeMilestone  = "milestone"
	NotificationTypeSubscriber = "subscriber"
	NotificationTypeBilling    = "billing"
	NotificationTypeSystem     = "system"
)

// Notification is an in-app message shown on the dashboard. Messages are
// deduplicated per profile; creating one with an existing message is a no-op.
type Notification struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProfileID uint    `gorm:"not null;index:idx_notifications_profile_id" json:"profile_id"`
	Profile   Profile `gorm:"foreignKey:ProfileID;references:ID" json:"-"`

	Type    string `gorm:"size:16;not null;default:'system'" json:"type"`
	Message string `gorm:"type:text;not null" json:"message"`
	IsRead  *bool  `gorm:"default:false;index:idx_notifications_is_read" json:"is_read"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_notifications_created_at" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationFilter represents filter criteria for notification queries
type NotificationFilter struct {
	ID            *uint
	ProfileID     *uint
	Type          *string
	Message       *string
	IsRead        *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
