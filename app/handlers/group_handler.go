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

// GroupHandlerInterface defines the contract for link group handlers
type GroupHandlerInterface interface {
	ListGroups(c fiber.Ctx) error
	CreateGroup(c fiber.Ctx) error
	UpdateGroup(c fiber.Ctx) error
	DeleteGroup(c fiber.Ctx) error
}

// GroupHandler handles the owner's link group requests
type GroupHandler struct {
	groupFlow businessflow.GroupFlow
	validator *validator.Validate
}

// NewGroupHandler creates a new link group handler
func NewGroupHandler(groupFlow businessflow.GroupFlow) *GroupHandler {
	return &GroupHandler{
		groupFlow: groupFlow,
		validator: newValidator(),
	}
}

// ListGroups returns the caller's groups with member counts
func (h *GroupHandler) ListGroups(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	result, err := h.groupFlow.ListGroups(createRequestContext(c, "/api/groups"), profileID)
	if err != nil {
		log.Println("Group list failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Group list failed", "GROUP_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Groups listed", result)
}

// CreateGroup appends a new group
func (h *GroupHandler) CreateGroup(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	var req dto.CreateLinkGroupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.groupFlow.CreateGroup(createRequestContext(c, "/api/groups"), profileID, &req)
	if err != nil {
		log.Println("Group create failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Group create failed", "GROUP_CREATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Group created", result)
}

// UpdateGroup applies a partial update to one of the caller's groups
func (h *GroupHandler) UpdateGroup(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	groupID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, "Group not found", dto.ErrorGroupNotFound, nil)
	}

	var req dto.UpdateLinkGroupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.groupFlow.UpdateGroup(createRequestContext(c, "/api/groups/:id"), profileID, uint(groupID), &req)
	if err != nil {
		if businessflow.IsGroupNotFound(err) || businessflow.IsGroupAccessDenied(err) {
			return errorResponse(c, fiber.StatusNotFound, "Group not found", dto.ErrorGroupNotFound, nil)
		}

		log.Println("Group update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Group update failed", "GROUP_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Group updated", result)
}

// DeleteGroup removes a group. Its links stay on the page ungrouped.
func (h *GroupHandler) DeleteGroup(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	groupID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, "Group not found", dto.ErrorGroupNotFound, nil)
	}

	if err := h.groupFlow.DeleteGroup(createRequestContext(c, "/api/groups/:id"), profileID, uint(groupID)); err != nil {
		if businessflow.IsGroupNotFound(err) || businessflow.IsGroupAccessDenied(err) {
			return errorResponse(c, fiber.StatusNotFound, "Group not found", dto.ErrorGroupNotFound, nil)
		}

		log.Println("Group delete failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Group delete failed", "GROUP_DELETE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Group deleted", nil)
}
