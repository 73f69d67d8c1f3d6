package dto

// NotificationDTO is the owner-facing view of a notification
type NotificationDTO struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// ListNotificationsResponse represents the owner's notification feed
type ListNotificationsResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int64             `json:"unread_count"`
	Total         int               `json:"total"`
}

// Common error codes for notification operations
const (
	ErrorNotificationNotFound = "NOTIFICATION_NOT_FOUND"
)
