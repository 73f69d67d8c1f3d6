package dto

import (
	"time"
)

// LinkDTO is the owner-facing view of a link
type LinkDTO struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	IconURL       *string    `json:"icon_url,omitempty"`
	LinkType      string     `json:"link_type"`
	Price         *float64   `json:"price,omitempty"`
	Currency      *string    `json:"currency,omitempty"`
	CTAText       *string    `json:"cta_text,omitempty"`
	Category      *string    `json:"category,omitempty"`
	GroupID       *uint      `json:"group_id,omitempty"`
	Position      int        `json:"position"`
	IsPinned      bool       `json:"is_pinned"`
	IsVisible     bool       `json:"is_visible"`
	ScheduleStart *time.Time `json:"schedule_start,omitempty"`
	ScheduleEnd   *time.Time `json:"schedule_end,omitempty"`
	ClickCount    int64      `json:"click_count"`
	CreatedAt     string     `json:"created_at"`
}

// CreateLinkRequest represents the request to create a link
type CreateLinkRequest struct {
	Title         string     `json:"title" validate:"required,min=1,max=255"`
	URL           string     `json:"url" validate:"required,url,max=2048"`
	IconURL       *string    `json:"icon_url,omitempty" validate:"omitempty,url,max=2048"`
	LinkType      string     `json:"link_type" validate:"omitempty,oneof=standard product embed"`
	Price         *float64   `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency      *string    `json:"currency,omitempty" validate:"omitempty,len=3"`
	CTAText       *string    `json:"cta_text,omitempty" validate:"omitempty,max=64"`
	Category      *string    `json:"category,omitempty" validate:"omitempty,max=64"`
	GroupID       *uint      `json:"group_id,omitempty"`
	IsPinned      *bool      `json:"is_pinned,omitempty"`
	IsVisible     *bool      `json:"is_visible,omitempty"`
	ScheduleStart *time.Time `json:"schedule_start,omitempty"`
	ScheduleEnd   *time.Time `json:"schedule_end,omitempty"`
}

// UpdateLinkRequest represents a partial update of a link. Nil fields are
// left untouched.
type UpdateLinkRequest struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	URL           *string    `json:"url,omitempty" validate:"omitempty,url,max=2048"`
	IconURL       *string    `json:"icon_url,omitempty" validate:"omitempty,max=2048"`
	LinkType      *string    `json:"link_type,omitempty" validate:"omitempty,oneof=standard product embed"`
	Price         *float64   `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency      *string    `json:"currency,omitempty" validate:"omitempty,len=3"`
	CTAText       *string    `json:"cta_text,omitempty" validate:"omitempty,max=64"`
	Category      *string    `json:"category,omitempty" validate:"omitempty,max=64"`
	GroupID       *uint      `json:"group_id,omitempty"`
	ClearGroup    bool       `json:"clear_group,omitempty"`
	IsPinned      *bool      `json:"is_pinned,omitempty"`
	IsVisible     *bool      `json:"is_visible,omitempty"`
	ScheduleStart *time.Time `json:"schedule_start,omitempty"`
	ScheduleEnd   *time.Time `json:"schedule_end,omitempty"`
	ClearSchedule bool       `json:"clear_schedule,omitempty"`
}

// ReorderLinksRequest carries the full desired ordering of the profile's links
type ReorderLinksRequest struct {
	LinkIDs []uint `json:"link_ids" validate:"required,min=1,dive,required"`
}

// ListLinksResponse represents the owner's link list
type ListLinksResponse struct {
	Links []LinkDTO `json:"links"`
	Total int       `json:"total"`
}

// Common error codes for link operations
const (
	ErrorLinkNotFound     = "LINK_NOT_FOUND"
	ErrorLinkLimitReached = "LINK_LIMIT_REACHED"
	ErrorProPlanRequired  = "PRO_PLAN_REQUIRED"
	ErrorGroupNotFound    = "GROUP_NOT_FOUND"
)
