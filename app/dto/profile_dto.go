package dto

import (
	"encoding/json"
)

// ProfileDTO is the owner-facing view of the account and page settings
type ProfileDTO struct {
	ID                    uint            `json:"id"`
	UUID                  string          `json:"uuid"`
	Username              string          `json:"username"`
	Email                 string          `json:"email"`
	DisplayName           string          `json:"display_name"`
	Bio                   string          `json:"bio"`
	AvatarURL             *string         `json:"avatar_url,omitempty"`
	BannerURL             *string         `json:"banner_url,omitempty"`
	ThemeID               string          `json:"theme_id"`
	CustomTheme           json.RawMessage `json:"custom_theme,omitempty"`
	CustomFont            *string         `json:"custom_font,omitempty"`
	LayoutMode            string          `json:"layout_mode"`
	SocialLinks           json.RawMessage `json:"social_links,omitempty"`
	SEOSettings           json.RawMessage `json:"seo_settings,omitempty"`
	EnableEmailCollection bool            `json:"enable_email_collection"`
	Plan                  string          `json:"plan"`
	TotalViews            int64           `json:"total_views"`
	CreatedAt             string          `json:"created_at"`
}

// UpdateProfileRequest represents a partial update of the profile's page
// settings. Nil fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName           *string         `json:"display_name,omitempty" validate:"omitempty,max=120"`
	Bio                   *string         `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL             *string         `json:"avatar_url,omitempty" validate:"omitempty,max=2048"`
	BannerURL             *string         `json:"banner_url,omitempty" validate:"omitempty,max=2048"`
	ThemeID               *string         `json:"theme_id,omitempty" validate:"omitempty,max=64"`
	CustomTheme           json.RawMessage `json:"custom_theme,omitempty"`
	CustomFont            *string         `json:"custom_font,omitempty" validate:"omitempty,max=64"`
	LayoutMode            *string         `json:"layout_mode,omitempty" validate:"omitempty,oneof=list grid stack"`
	SocialLinks           json.RawMessage `json:"social_links,omitempty"`
	SEOSettings           json.RawMessage `json:"seo_settings,omitempty"`
	EnableEmailCollection *bool           `json:"enable_email_collection,omitempty"`
}

// ChangePasswordRequest represents the request to change the account password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,min=8,max=100"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=100"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// Common error codes for profile operations
const (
	ErrorInvalidTheme = "INVALID_THEME"
)
