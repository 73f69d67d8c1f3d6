package models

import (
	"time"
)

// LinkGroup is a named bucket of links on a profile's page. Deleting a
// group detaches its links instead of deleting them.
type LinkGroup struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProfileID uint    `gorm:"not null;index:idx_link_groups_profile_id" json:"profile_id"`
	Profile   Profile `gorm:"foreignKey:ProfileID;references:ID" json:"-"`

	Title       string `gorm:"size:120;not null" json:"title"`
	Position    int    `gorm:"not null;default:0" json:"position"`
	IsCollapsed *bool  `gorm:"default:false" json:"is_collapsed"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Links []Link `gorm:"foreignKey:GroupID" json:"-"`
}

func (LinkGroup) TableName() string {
	return "link_groups"
}

// LinkGroupFilter represents filter criteria for link group queries
type LinkGroupFilter struct {
	ID        *uint
	ProfileID *uint
	Title     *string
}
