package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/middleware"
	businessflow "github.com/silovra/silovra-backend/business_flow"
)

// LinkHandlerInterface defines the contract for link management handlers
type LinkHandlerInterface interface {
	ListLinks(c fiber.Ctx) error
	CreateLink(c fiber.Ctx) error
	UpdateLink(c fiber.Ctx) error
	DeleteLink(c fiber.Ctx) error
	ReorderLinks(c fiber.Ctx) error
}

// LinkHandler handles the owner's link CRUD requests
type LinkHandler struct {
	linkFlow  businessflow.LinkFlow
	validator *validator.Validate
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(linkFlow businessflow.LinkFlow) *LinkHandler {
	return &LinkHandler{
		linkFlow:  linkFlow,
		validator: newValidator(),
	}
}

// ListLinks returns the caller's links in position order
func (h *LinkHandler) ListLinks(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	result, err := h.linkFlow.ListLinks(createRequestContext(c, "/api/links"), profileID)
	if err != nil {
		log.Println("Link list failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Link list failed", "LINK_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Links listed", result)
}

// CreateLink appends a new link to the caller's page
func (h *LinkHandler) CreateLink(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	var req dto.CreateLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.linkFlow.CreateLink(createRequestContext(c, "/api/links"), profileID, &req)
	if err != nil {
		if businessflow.IsLinkLimitReached(err) {
			return errorResponse(c, fiber.StatusForbidden, "Free plan link limit reached", dto.ErrorLinkLimitReached, nil)
		}
		if businessflow.IsProPlanRequired(err) {
			return errorResponse(c, fiber.StatusForbidden, "Pro plan required for this link type", dto.ErrorProPlanRequired, nil)
		}
		if businessflow.IsGroupNotFound(err) || businessflow.IsGroupAccessDenied(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Link group not found", dto.ErrorGroupNotFound, nil)
		}

		log.Println("Link create failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Link create failed", "LINK_CREATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Link created", result)
}

// UpdateLink applies a partial update to one of the caller's links
func (h *LinkHandler) UpdateLink(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	linkID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
	}

	var req dto.UpdateLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.linkFlow.UpdateLink(createRequestContext(c, "/api/links/:id"), profileID, uint(linkID), &req)
	if err != nil {
		if businessflow.IsLinkNotFound(err) || businessflow.IsLinkAccessDenied(err) {
			return errorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}
		if businessflow.IsProPlanRequired(err) {
			return errorResponse(c, fiber.StatusForbidden, "Pro plan required for this link type", dto.ErrorProPlanRequired, nil)
		}
		if businessflow.IsGroupNotFound(err) || businessflow.IsGroupAccessDenied(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Link group not found", dto.ErrorGroupNotFound, nil)
		}

		log.Println("Link update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Link update failed", "LINK_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Link updated", result)
}

// DeleteLink removes one of the caller's links
func (h *LinkHandler) DeleteLink(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	linkID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
	}

	if err := h.linkFlow.DeleteLink(createRequestContext(c, "/api/links/:id"), profileID, uint(linkID)); err != nil {
		if businessflow.IsLinkNotFound(err) || businessflow.IsLinkAccessDenied(err) {
			return errorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}

		log.Println("Link delete failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Link delete failed", "LINK_DELETE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Link deleted", nil)
}

// ReorderLinks rewrites the full ordering of the caller's links
func (h *LinkHandler) ReorderLinks(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	var req dto.ReorderLinksRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.linkFlow.ReorderLinks(createRequestContext(c, "/api/links/reorder"), profileID, &req)
	if err != nil {
		if businessflow.IsInvalidLinkIDs(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Link ids must name every link exactly once", "INVALID_LINK_IDS", nil)
		}

		log.Println("Link reorder failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Link reorder failed", "LINK_REORDER_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Links reordered", result)
}
