package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/silovra/silovra-backend/utils"
)

type ProfileSession struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CorrelationID uuid.UUID       `gorm:"type:uuid;not null;index:idx_sessions_correlation_id" json:"correlation_id"` // Groups related session records
	ProfileID     uint            `gorm:"not null;index:idx_sessions_profile_id" json:"profile_id"`
	Profile       Profile         `gorm:"foreignKey:ProfileID;references:ID" json:"profile,omitempty"`
	SessionToken  string          `gorm:"size:255;not null;uniqueIndex:idx_sessions_session_token" json:"-"` // Never serialize token
	RefreshToken  *string         `gorm:"size:255;uniqueIndex:idx_sessions_refresh_token" json:"-"`          // Never serialize refresh token
	DeviceInfo    json.RawMessage `gorm:"type:jsonb" json:"device_info,omitempty"`
	IPAddress     *string         `gorm:"type:inet;index:idx_sessions_ip_address" json:"ip_address,omitempty"`
	UserAgent     *string         `gorm:"type:text" json:"user_agent,omitempty"`
	IsActive      *bool           `gorm:"default:true;index:idx_sessions_is_active" json:"is_active"`

	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	LastAccessedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_sessions_last_accessed" json:"last_accessed_at"`
	ExpiresAt      time.Time `gorm:"not null;index:idx_sessions_expires_at" json:"expires_at"`
}

func (ProfileSession) TableName() string {
	return "profile_sessions"
}

// ProfileSessionFilter represents filter criteria for session queries
type ProfileSessionFilter struct {
	ID             *uint
	CorrelationID  *uuid.UUID
	ProfileID      *uint
	IsActive       *bool
	IPAddress      *string
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
	ExpiresAfter   *time.Time
	ExpiresBefore  *time.Time
	AccessedAfter  *time.Time
	AccessedBefore *time.Time
}

func (s *ProfileSession) IsExpired() bool {
	return utils.IsExpired(s.ExpiresAt)
}

func (s *ProfileSession) IsValid() bool {
	return utils.IsTrue(s.IsActive) && !s.IsExpired()
}
