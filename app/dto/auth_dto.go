// Package dto contains Data Transfer Objects for API request and response structures
package dto

import (
	"time"
)

// SignupRequest represents the request payload for account creation
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,username" example:"janedoe"`
	Email    string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// LoginRequest represents the request payload for login
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,min=3,max=255" example:"jane@example.com or janedoe"`
	Password   string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// RefreshTokenRequest represents the request to rotate a session
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// AuthProfileDTO is the account view returned by auth endpoints
type AuthProfileDTO struct {
	ID          uint   `json:"id" example:"123"`
	UUID        string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Username    string `json:"username" example:"janedoe"`
	Email       string `json:"email" example:"jane@example.com"`
	DisplayName string `json:"display_name" example:"Jane Doe"`
	Plan        string `json:"plan" example:"free"`
	IsActive    *bool  `json:"is_active" example:"true"`
	CreatedAt   string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// SessionDTO is the token pair returned by auth endpoints
type SessionDTO struct {
	SessionToken string  `json:"access_token"`
	RefreshToken *string `json:"refresh_token,omitempty"`
	TokenType    string  `json:"token_type" example:"Bearer"`
	ExpiresIn    int     `json:"expires_in" example:"86400"`
	CreatedAt    string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// SignupResponse represents the successful signup response
type SignupResponse struct {
	Profile AuthProfileDTO `json:"profile"`
	Session SessionDTO     `json:"session"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	Profile AuthProfileDTO `json:"profile"`
	Session SessionDTO     `json:"session"`
}

// RefreshTokenResponse represents the successful session rotation response
type RefreshTokenResponse struct {
	Profile AuthProfileDTO `json:"profile"`
	Session SessionDTO     `json:"session"`
}

// AuthCallbackRequest carries the one-time code exchange from the
// GET /auth/callback query string
type AuthCallbackRequest struct {
	Code string `json:"code" validate:"required" query:"code"`
	Next string `json:"next" query:"next"`
}

// AuthCallbackResponse is the result of a one-time code exchange. Next is
// the sanitized post-login destination, never an absolute URL.
type AuthCallbackResponse struct {
	Profile AuthProfileDTO `json:"profile"`
	Session SessionDTO     `json:"session"`
	Next    string         `json:"next" example:"/dashboard"`
}

// LogoutResponse represents the result of a logout request
type LogoutResponse struct {
	LoggedOutAt time.Time `json:"logged_out_at"`
}

// Common error codes for auth operations
const (
	ErrorProfileNotFound   = "PROFILE_NOT_FOUND"
	ErrorIncorrectPassword = "INCORRECT_PASSWORD"
	ErrorAccountInactive   = "ACCOUNT_INACTIVE"
	ErrorUsernameTaken     = "USERNAME_TAKEN"
	ErrorEmailTaken        = "EMAIL_TAKEN"
	ErrorInvalidAuthCode   = "INVALID_AUTH_CODE"
	ErrorSessionExpired    = "SESSION_EXPIRED"
)
