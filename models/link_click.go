package models

import (
	"time"
)

// Device classes recorded on a click
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// LinkClick is one recorded click on a public page link. Rows are
// append-only; analytics aggregate over them.
type LinkClick struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	LinkID    uint `gorm:"not null;index:idx_link_clicks_link_id" json:"link_id"`
	Link      Link `gorm:"foreignKey:LinkID;references:ID" json:"-"`
	ProfileID uint `gorm:"not null;index:idx_link_clicks_profile_id" json:"profile_id"`

	IPAddress  *string `gorm:"type:inet" json:"ip_address,omitempty"`
	UserAgent  *string `gorm:"type:text" json:"user_agent,omitempty"`
	Referrer   *string `gorm:"type:text" json:"referrer,omitempty"`
	DeviceType string  `gorm:"size:16;not null;default:'desktop';index:idx_link_clicks_device_type" json:"device_type"`
	Browser    string  `gorm:"size:32;not null;default:'Other'" json:"browser"`
	Country    *string `gorm:"size:2" json:"country,omitempty"`

	ClickedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_link_clicks_clicked_at" json:"clicked_at"`
}

func (LinkClick) TableName() string {
	return "link_clicks"
}

// LinkClickFilter represents filter criteria for click queries
type LinkClickFilter struct {
	ID            *uint
	LinkID        *uint
	ProfileID     *uint
	DeviceType    *string
	Browser       *string
	ClickedAfter  *time.Time
	ClickedBefore *time.Time
}
