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

// ProfileHandlerInterface defines the contract for profile settings handlers
type ProfileHandlerInterface interface {
	GetProfile(c fiber.Ctx) error
	UpdateProfile(c fiber.Ctx) error
	ChangePassword(c fiber.Ctx) error
	GetAnalytics(c fiber.Ctx) error
}

// ProfileHandler handles the owner's profile and analytics requests
type ProfileHandler struct {
	profileFlow   businessflow.ProfileFlow
	analyticsFlow businessflow.AnalyticsFlow
	validator     *validator.Validate
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileFlow businessflow.ProfileFlow, analyticsFlow businessflow.AnalyticsFlow) *ProfileHandler {
	return &ProfileHandler{
		profileFlow:   profileFlow,
		analyticsFlow: analyticsFlow,
		validator:     newValidator(),
	}
}

// GetProfile returns the caller's full profile
func (h *ProfileHandler) GetProfile(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	result, err := h.profileFlow.GetProfile(createRequestContext(c, "/api/profile"), profileID)
	if err != nil {
		if businessflow.IsProfileNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Profile not found", dto.ErrorProfileNotFound, nil)
		}

		log.Println("Profile lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Profile lookup failed", "PROFILE_LOOKUP_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Profile resolved", result)
}

// UpdateProfile applies a partial update to the caller's page settings
func (h *ProfileHandler) UpdateProfile(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.profileFlow.UpdateProfile(createRequestContext(c, "/api/profile"), profileID, &req)
	if err != nil {
		if businessflow.IsInvalidTheme(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unknown theme", dto.ErrorInvalidTheme, nil)
		}
		if businessflow.IsProfileNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Profile not found", dto.ErrorProfileNotFound, nil)
		}

		log.Println("Profile update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Profile update failed", "PROFILE_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Profile updated", result)
}

// ChangePassword rotates the caller's password and ends every session
func (h *ProfileHandler) ChangePassword(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	var req dto.ChangePasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.profileFlow.ChangePassword(createRequestContext(c, "/api/profile/password"), profileID, &req); err != nil {
		if businessflow.IsIncorrectPassword(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Current password is incorrect", dto.ErrorIncorrectPassword, nil)
		}

		log.Println("Password change failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Password change failed", "PASSWORD_CHANGE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Password changed, please sign in again", nil)
}

// GetAnalytics returns the dashboard analytics payload. The range in days
// comes from the query string.
func (h *ProfileHandler) GetAnalytics(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	rangeDays, _ := strconv.Atoi(c.Query("range", "30"))

	result, err := h.analyticsFlow.GetAnalytics(createRequestContext(c, "/api/analytics"), profileID, rangeDays)
	if err != nil {
		log.Println("Analytics lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Analytics lookup failed", "ANALYTICS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Analytics resolved", result)
}
