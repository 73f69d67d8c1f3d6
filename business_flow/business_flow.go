// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for session tracking
// and click attribution
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	Referrer  string `json:"referrer,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Country   string `json:"country,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetReferrer sets the request referrer
func (cm *ClientMetadata) SetReferrer(referrer string) {
	cm.Referrer = referrer
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// redisKey prefixes a cache key with the configured namespace
func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return cfg.RedisPrefix + ":" + key
}

// ToAuthProfileDTO converts a profile model to AuthProfileDTO for auth responses
func ToAuthProfileDTO(profile models.Profile) dto.AuthProfileDTO {
	return dto.AuthProfileDTO{
		ID:          profile.ID,
		UUID:        profile.UUID.String(),
		Username:    profile.Username,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		Plan:        profile.Plan,
		IsActive:    profile.IsActive,
		CreatedAt:   profile.CreatedAt.Format(time.RFC3339),
	}
}

func ToSessionDTO(session models.ProfileSession) dto.SessionDTO {
	return dto.SessionDTO{
		SessionToken: session.SessionToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    int(time.Until(session.ExpiresAt).Seconds()),
		TokenType:    "Bearer",
		CreatedAt:    session.CreatedAt.Format(time.RFC3339),
	}
}

func ToLinkDTO(link models.Link) dto.LinkDTO {
	return dto.LinkDTO{
		ID:            link.ID,
		Title:         link.Title,
		URL:           link.URL,
		IconURL:       link.IconURL,
		LinkType:      link.LinkType,
		Price:         link.Price,
		Currency:      link.Currency,
		CTAText:       link.CTAText,
		Category:      link.Category,
		GroupID:       link.GroupID,
		Position:      link.Position,
		IsPinned:      utils.IsTrue(link.IsPinned),
		IsVisible:     utils.IsTrue(link.IsVisible),
		ScheduleStart: link.ScheduleStart,
		ScheduleEnd:   link.ScheduleEnd,
		ClickCount:    link.ClickCount,
		CreatedAt:     link.CreatedAt.Format(time.RFC3339),
	}
}

func ToPublicLinkDTO(link models.Link) dto.PublicLinkDTO {
	return dto.PublicLinkDTO{
		ID:       link.ID,
		Title:    link.Title,
		URL:      link.URL,
		IconURL:  link.IconURL,
		LinkType: link.LinkType,
		Price:    link.Price,
		Currency: link.Currency,
		CTAText:  link.CTAText,
		IsPinned: utils.IsTrue(link.IsPinned),
	}
}

func ToLinkGroupDTO(group models.LinkGroup, linkCount int64) dto.LinkGroupDTO {
	return dto.LinkGroupDTO{
		ID:          group.ID,
		Title:       group.Title,
		Position:    group.Position,
		IsCollapsed: utils.IsTrue(group.IsCollapsed),
		LinkCount:   linkCount,
		CreatedAt:   group.CreatedAt.Format(time.RFC3339),
	}
}

func ToProfileDTO(profile models.Profile) dto.ProfileDTO {
	return dto.ProfileDTO{
		ID:                    profile.ID,
		UUID:                  profile.UUID.String(),
		Username:              profile.Username,
		Email:                 profile.Email,
		DisplayName:           profile.DisplayName,
		Bio:                   profile.Bio,
		AvatarURL:             profile.AvatarURL,
		BannerURL:             profile.BannerURL,
		ThemeID:               profile.ThemeID,
		CustomTheme:           profile.CustomTheme,
		CustomFont:            profile.CustomFont,
		LayoutMode:            profile.LayoutMode,
		SocialLinks:           profile.SocialLinks,
		SEOSettings:           profile.SEOSettings,
		EnableEmailCollection: utils.IsTrue(profile.EnableEmailCollection),
		Plan:                  profile.Plan,
		TotalViews:            profile.TotalViews,
		CreatedAt:             profile.CreatedAt.Format(time.RFC3339),
	}
}

func ToSubscriberDTO(sub models.Subscriber) dto.SubscriberDTO {
	return dto.SubscriberDTO{
		ID:        sub.ID,
		Email:     sub.Email,
		CreatedAt: sub.CreatedAt.Format(time.RFC3339),
	}
}

func ToNotificationDTO(n models.Notification) dto.NotificationDTO {
	return dto.NotificationDTO{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		IsRead:    utils.IsTrue(n.IsRead),
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
