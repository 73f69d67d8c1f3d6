package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/middleware"
	businessflow "github.com/silovra/silovra-backend/business_flow"
)

// NotificationHandlerInterface defines the contract for notification handlers
type NotificationHandlerInterface interface {
	ListNotifications(c fiber.Ctx) error
	MarkRead(c fiber.Ctx) error
	MarkAllRead(c fiber.Ctx) error
}

// NotificationHandler handles the owner's notification feed
type NotificationHandler struct {
	notificationFlow businessflow.NotificationFlow
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationFlow businessflow.NotificationFlow) *NotificationHandler {
	return &NotificationHandler{notificationFlow: notificationFlow}
}

// ListNotifications returns the caller's notifications with the unread count
func (h *NotificationHandler) ListNotifications(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	result, err := h.notificationFlow.ListNotifications(createRequestContext(c, "/api/notifications"), profileID)
	if err != nil {
		log.Println("Notification list failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Notification list failed", "NOTIFICATION_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Notifications listed", result)
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	notificationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, "Notification not found", dto.ErrorNotificationNotFound, nil)
	}

	if err := h.notificationFlow.MarkRead(createRequestContext(c, "/api/notifications/:id/read"), profileID, uint(notificationID)); err != nil {
		if businessflow.IsNotificationNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Notification not found", dto.ErrorNotificationNotFound, nil)
		}

		log.Println("Notification mark read failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Notification update failed", "NOTIFICATION_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Notification marked read", nil)
}

// MarkAllRead marks every notification of the caller as read
func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	if err := h.notificationFlow.MarkAllRead(createRequestContext(c, "/api/notifications/read-all"), profileID); err != nil {
		log.Println("Notification mark all read failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Notification update failed", "NOTIFICATION_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "All notifications marked read", nil)
}
