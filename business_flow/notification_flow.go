package businessflow

import (
	"context"

	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
)

// NotificationFlow handles the owner's notification feed
type NotificationFlow interface {
	ListNotifications(ctx context.Context, profileID uint) (*dto.ListNotificationsResponse, error)
	MarkRead(ctx context.Context, profileID, notificationID uint) error
	MarkAllRead(ctx context.Context, profileID uint) error
}

// notificationFeedLimit caps the feed size. Older entries stay in the table
// but are not returned.
const notificationFeedLimit = 100

// NotificationFlowImpl implements the notification business flow
type NotificationFlowImpl struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationFlow creates a new notification flow instance
func NewNotificationFlow(notificationRepo repository.NotificationRepository) NotificationFlow {
	return &NotificationFlowImpl{notificationRepo: notificationRepo}
}

// ListNotifications returns the feed newest first plus the unread count
func (nf *NotificationFlowImpl) ListNotifications(ctx context.Context, profileID uint) (*dto.ListNotificationsResponse, error) {
	notifications, err := nf.notificationRepo.ListByProfile(ctx, profileID, notificationFeedLimit, 0)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LIST_FAILED", "Notification list failed", err)
	}

	unread, err := nf.notificationRepo.CountUnread(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LIST_FAILED", "Notification list failed", err)
	}

	out := make([]dto.NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, ToNotificationDTO(*n))
	}
	return &dto.ListNotificationsResponse{
		Notifications: out,
		UnreadCount:   unread,
		Total:         len(out),
	}, nil
}

// MarkRead marks one of the profile's notifications as read
func (nf *NotificationFlowImpl) MarkRead(ctx context.Context, profileID, notificationID uint) error {
	exists, err := nf.notificationRepo.Exists(ctx, models.NotificationFilter{
		ID:        &notificationID,
		ProfileID: &profileID,
	})
	if err != nil {
		return NewBusinessError("NOTIFICATION_UPDATE_FAILED", "Notification update failed", err)
	}
	if !exists {
		return NewBusinessError("NOTIFICATION_NOT_FOUND", "Notification not found", ErrNotificationNotFound)
	}

	if err := nf.notificationRepo.MarkRead(ctx, profileID, notificationID); err != nil {
		return NewBusinessError("NOTIFICATION_UPDATE_FAILED", "Notification update failed", err)
	}
	return nil
}

// MarkAllRead marks the profile's whole feed as read
func (nf *NotificationFlowImpl) MarkAllRead(ctx context.Context, profileID uint) error {
	if err := nf.notificationRepo.MarkAllRead(ctx, profileID); err != nil {
		return NewBusinessError("NOTIFICATION_UPDATE_FAILED", "Notification update failed", err)
	}
	return nil
}
