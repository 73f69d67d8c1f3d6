// Package models contains domain entities and business models for the link-in-bio platform
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Layout modes for the public page link list
const (
	LayoutModeList  = "list"
	LayoutModeGrid  = "grid"
	LayoutModeStack = "stack"
)

// Profile is both the authenticated account and the public page record.
// One profile per user; created at signup, never deleted by the core.
// The plan field is mutated only by the owner-facing billing flows and
// the payment webhook handlers.
type Profile struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_profiles_uuid" json:"uuid"`

	// Identity
	Username     string `gorm:"size:63;not null;uniqueIndex:uk_profiles_username" json:"username"`
	Email        string `gorm:"size:255;not null;uniqueIndex:uk_profiles_email" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // Never serialize password hash

	// Public display fields
	DisplayName string  `gorm:"size:120" json:"display_name"`
	Bio         string  `gorm:"type:text" json:"bio"`
	AvatarURL   *string `gorm:"type:text" json:"avatar_url,omitempty"`
	BannerURL   *string `gorm:"type:text" json:"banner_url,omitempty"`

	// Theme selection
	ThemeID     string          `gorm:"size:64" json:"theme_id"`
	CustomTheme json.RawMessage `gorm:"type:jsonb" json:"custom_theme,omitempty"`
	CustomFont  *string         `gorm:"size:64" json:"custom_font,omitempty"`
	LayoutMode  string          `gorm:"size:16;default:'list'" json:"layout_mode"`

	// Optional page extras
	SocialLinks           json.RawMessage `gorm:"type:jsonb" json:"social_links,omitempty"`
	SEOSettings           json.RawMessage `gorm:"column:seo_settings;type:jsonb" json:"seo_settings,omitempty"`
	EnableEmailCollection *bool           `gorm:"default:false" json:"enable_email_collection"`

	// Billing
	Plan               string  `gorm:"size:8;not null;default:'free';index:idx_profiles_plan" json:"plan"`
	PaymentCustomerRef *string `gorm:"size:255;index:idx_profiles_payment_customer_ref" json:"-"`

	// Counters
	TotalViews int64 `gorm:"not null;default:0" json:"total_views"`

	// Status
	IsActive *bool `gorm:"default:true;index:idx_profiles_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_profiles_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// Relations
	Links         []Link           `gorm:"foreignKey:ProfileID" json:"-"`
	Groups        []LinkGroup      `gorm:"foreignKey:ProfileID" json:"-"`
	Sessions      []ProfileSession `gorm:"foreignKey:ProfileID" json:"-"`
	Subscribers   []Subscriber     `gorm:"foreignKey:ProfileID" json:"-"`
	Notifications []Notification   `gorm:"foreignKey:ProfileID" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

// IsPro reports whether the profile is on the paid plan.
func (p *Profile) IsPro() bool {
	return p.Plan == "pro"
}

// SocialLink is one entry of the social_links jsonb column.
type SocialLink struct {
	Platform  string `json:"platform"`
	URL       string `json:"url"`
	IsVisible bool   `json:"is_visible"`
}

// SEOSettings is the shape of the seo_settings jsonb column.
type SEOSettings struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	OGImageURL  string `json:"og_image_url,omitempty"`
}

// CustomTheme is the shape of the custom_theme jsonb column. Every field is
// an optional per-profile override layered on top of the selected preset.
type CustomTheme struct {
	Background     string `json:"background,omitempty"`
	FontFamily     string `json:"fontFamily,omitempty"`
	ButtonStyle    string `json:"buttonStyle,omitempty"`
	ButtonColor    string `json:"buttonColor,omitempty"`
	TextColor      string `json:"textColor,omitempty"`
	BackgroundType string `json:"background_type,omitempty"`
}

// ProfileFilter represents filter criteria for profile queries
type ProfileFilter struct {
	ID                 *uint
	UUID               *uuid.UUID
	Username           *string
	Email              *string
	Plan               *string
	PaymentCustomerRef *string
	IsActive           *bool
	CreatedAfter       *time.Time
	CreatedBefore      *time.Time
}
