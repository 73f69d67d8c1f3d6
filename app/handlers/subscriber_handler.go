package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/middleware"
	businessflow "github.com/silovra/silovra-backend/business_flow"
)

// SubscriberHandlerInterface defines the contract for subscriber handlers
type SubscriberHandlerInterface interface {
	ListSubscribers(c fiber.Ctx) error
	DeleteSubscriber(c fiber.Ctx) error
	ExportSubscribers(c fiber.Ctx) error
}

// SubscriberHandler handles the owner's subscriber list requests
type SubscriberHandler struct {
	subscriberFlow businessflow.SubscriberFlow
}

// NewSubscriberHandler creates a new subscriber handler
func NewSubscriberHandler(subscriberFlow businessflow.SubscriberFlow) *SubscriberHandler {
	return &SubscriberHandler{subscriberFlow: subscriberFlow}
}

// ListSubscribers returns the caller's subscribers, newest first
func (h *SubscriberHandler) ListSubscribers(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	result, err := h.subscriberFlow.ListSubscribers(createRequestContext(c, "/api/subscribers"), profileID)
	if err != nil {
		log.Println("Subscriber list failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Subscriber list failed", "SUBSCRIBER_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Subscribers listed", result)
}

// DeleteSubscriber removes one subscriber
func (h *SubscriberHandler) DeleteSubscriber(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	subscriberID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, "Subscriber not found", dto.ErrorSubscriberNotFound, nil)
	}

	if err := h.subscriberFlow.DeleteSubscriber(createRequestContext(c, "/api/subscribers/:id"), profileID, uint(subscriberID)); err != nil {
		if businessflow.IsSubscriberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Subscriber not found", dto.ErrorSubscriberNotFound, nil)
		}

		log.Println("Subscriber delete failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Subscriber delete failed", "SUBSCRIBER_DELETE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Subscriber deleted", nil)
}

// ExportSubscribers streams the subscriber list as an xlsx download
func (h *SubscriberHandler) ExportSubscribers(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	content, filename, err := h.subscriberFlow.ExportSubscribers(createRequestContext(c, "/api/subscribers/export"), profileID)
	if err != nil {
		log.Println("Subscriber export failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Subscriber export failed", "SUBSCRIBER_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}
