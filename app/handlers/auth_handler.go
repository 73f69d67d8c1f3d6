package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/middleware"
	businessflow "github.com/silovra/silovra-backend/business_flow"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Signup(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	RefreshToken(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	Callback(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	signupFlow businessflow.SignupFlow
	loginFlow  businessflow.LoginFlow
	validator  *validator.Validate
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(signupFlow businessflow.SignupFlow, loginFlow businessflow.LoginFlow) *AuthHandler {
	return &AuthHandler{
		signupFlow: signupFlow,
		loginFlow:  loginFlow,
		validator:  newValidator(),
	}
}

// Signup handles account registration
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	metadata := clientMetadata(c)

	result, err := h.signupFlow.Signup(createRequestContext(c, "/api/auth/signup"), &req, metadata)
	if err != nil {
		if businessflow.IsUsernameTaken(err) {
			return errorResponse(c, fiber.StatusConflict, "Username is not available", dto.ErrorUsernameTaken, nil)
		}
		if businessflow.IsInvalidUsername(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Username contains invalid characters", "INVALID_USERNAME", nil)
		}
		if businessflow.IsEmailAlreadyExists(err) {
			return errorResponse(c, fiber.StatusConflict, "Email already exists", dto.ErrorEmailTaken, nil)
		}

		log.Println("Signup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Signup failed", "SIGNUP_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Account created", result)
}

// Login handles email/username and password authentication
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	metadata := clientMetadata(c)

	result, err := h.loginFlow.Login(createRequestContext(c, "/api/auth/login"), &req, metadata)
	if err != nil {
		// Wrong identifier and wrong password collapse to one answer
		if businessflow.IsProfileNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", dto.ErrorIncorrectPassword, nil)
		}
		if businessflow.IsAccountInactive(err) {
			return errorResponse(c, fiber.StatusForbidden, "Account is inactive", dto.ErrorAccountInactive, nil)
		}

		log.Println("Login failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Login successful", result)
}

// RefreshToken rotates the caller's session
func (h *AuthHandler) RefreshToken(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	metadata := clientMetadata(c)

	result, err := h.loginFlow.RefreshToken(createRequestContext(c, "/api/auth/refresh"), &req, metadata)
	if err != nil {
		if businessflow.IsSessionNotFound(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Session expired", dto.ErrorSessionExpired, nil)
		}
		if businessflow.IsAccountInactive(err) {
			return errorResponse(c, fiber.StatusForbidden, "Account is inactive", dto.ErrorAccountInactive, nil)
		}

		log.Println("Session refresh failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Session refresh failed", "REFRESH_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Session refreshed", result)
}

// Logout revokes the caller's session
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	result, err := h.loginFlow.Logout(createRequestContext(c, "/api/auth/logout"), profileID, middleware.SessionToken(c))
	if err != nil {
		log.Println("Logout failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Logout failed", "LOGOUT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Logged out", result)
}

// Callback exchanges a one-time code from the query string for a session
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	req := dto.AuthCallbackRequest{
		Code: c.Query("code"),
		Next: c.Query("next"),
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	metadata := clientMetadata(c)

	result, err := h.loginFlow.ExchangeAuthCode(createRequestContext(c, "/api/auth/callback"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidAuthCode(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid or expired code", dto.ErrorInvalidAuthCode, nil)
		}
		if businessflow.IsProfileNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Profile not found", dto.ErrorProfileNotFound, nil)
		}
		if businessflow.IsAccountInactive(err) {
			return errorResponse(c, fiber.StatusForbidden, "Account is inactive", dto.ErrorAccountInactive, nil)
		}

		log.Println("Auth callback failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Auth callback failed", "AUTH_CALLBACK_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Code exchanged", result)
}
