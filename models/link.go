package models

import (
	"time"
)

// Link types rendered on the public page
const (
	LinkTypeStandard = "standard"
	LinkTypeProduct  = "product"
	LinkTypeEmbed    = "embed"
)

// Link is one entry on a profile's public page. Position orders links
// within the whole profile; pinned links float to the top of their bucket
// without changing position values.
type Link struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProfileID uint    `gorm:"not null;index:idx_links_profile_id" json:"profile_id"`
	Profile   Profile `gorm:"foreignKey:ProfileID;references:ID" json:"-"`

	Title    string  `gorm:"size:255;not null" json:"title"`
	URL      string  `gorm:"type:text;not null" json:"url"`
	IconURL  *string `gorm:"type:text" json:"icon_url,omitempty"`
	LinkType string  `gorm:"size:16;not null;default:'standard'" json:"link_type"`

	// Product fields, only meaningful for link_type = product
	Price    *float64 `gorm:"type:decimal(10,2)" json:"price,omitempty"`
	Currency *string  `gorm:"size:3" json:"currency,omitempty"`
	CTAText  *string  `gorm:"column:cta_text;size:64" json:"cta_text,omitempty"`

	// Placement
	Category *string `gorm:"size:64;index:idx_links_category" json:"category,omitempty"`
	GroupID  *uint   `gorm:"index:idx_links_group_id" json:"group_id,omitempty"`
	Position int     `gorm:"not null;default:0" json:"position"`
	IsPinned *bool   `gorm:"default:false" json:"is_pinned"`

	// Visibility
	IsVisible     *bool      `gorm:"default:true;index:idx_links_is_visible" json:"is_visible"`
	ScheduleStart *time.Time `json:"schedule_start,omitempty"`
	ScheduleEnd   *time.Time `json:"schedule_end,omitempty"`

	// Counters
	ClickCount int64 `gorm:"not null;default:0" json:"click_count"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_links_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Link) TableName() string {
	return "links"
}

// IsActiveAt reports whether the link's schedule window contains the given
// instant. A nil bound is open on that side.
func (l *Link) IsActiveAt(now time.Time) bool {
	if l.ScheduleStart != nil && now.Before(*l.ScheduleStart) {
		return false
	}
	if l.ScheduleEnd != nil && now.After(*l.ScheduleEnd) {
		return false
	}
	return true
}

// LinkFilter represents filter criteria for link queries
type LinkFilter struct {
	ID            *uint
	ProfileID     *uint
	LinkType      *string
	Category      *string
	GroupID       *uint
	IsVisible     *bool
	IsPinned      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
