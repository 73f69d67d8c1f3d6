// Package businessflow contains the core business logic and use cases for the link-in-bio platform
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Profile and auth errors
	ErrProfileNotFound    = errors.New("profile not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameReserved   = errors.New("username is reserved")
	ErrInvalidUsername    = errors.New("username contains invalid characters")
	ErrInvalidAuthCode    = errors.New("invalid or expired auth code")
	ErrSessionNotFound    = errors.New("session not found")
	ErrCacheNotAvailable  = errors.New("cache not available")

	// Page errors
	ErrPageNotFound = errors.New("page not found")

	// Link errors
	ErrLinkNotFound      = errors.New("link not found")
	ErrLinkAccessDenied  = errors.New("link access denied")
	ErrLinkLimitReached  = errors.New("link limit reached for free plan")
	ErrProPlanRequired   = errors.New("pro plan required")
	ErrLinkTitleRequired = errors.New("link title is required")
	ErrLinkURLRequired   = errors.New("link url is required")
	ErrInvalidLinkIDs    = errors.New("link ids do not match the profile's links")

	// Group errors
	ErrGroupNotFound     = errors.New("link group not found")
	ErrGroupAccessDenied = errors.New("link group access denied")

	// Subscriber errors
	ErrSubscriberNotFound      = errors.New("subscriber not found")
	ErrEmailCollectionDisabled = errors.New("email collection is disabled for this page")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Theme errors
	ErrInvalidTheme = errors.New("unknown theme")

	// Payment errors
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")
	ErrPaymentProviderFailure  = errors.New("payment provider request failed")
	ErrAlreadyPro              = errors.New("profile is already on the pro plan")
	ErrPaymentNotCompleted     = errors.New("payment was not completed")
	ErrPaymentEventNotFound    = errors.New("payment event not found")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsProfileNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsUsernameTaken(err error) bool {
	return errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrUsernameReserved)
}

func IsInvalidUsername(err error) bool {
	return errors.Is(err, ErrInvalidUsername)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsInvalidAuthCode(err error) bool {
	return errors.Is(err, ErrInvalidAuthCode)
}

func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

func IsPageNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound)
}

func IsLinkNotFound(err error) bool {
	return errors.Is(err, ErrLinkNotFound)
}

func IsLinkAccessDenied(err error) bool {
	return errors.Is(err, ErrLinkAccessDenied)
}

func IsLinkLimitReached(err error) bool {
	return errors.Is(err, ErrLinkLimitReached)
}

func IsProPlanRequired(err error) bool {
	return errors.Is(err, ErrProPlanRequired)
}

func IsInvalidLinkIDs(err error) bool {
	return errors.Is(err, ErrInvalidLinkIDs)
}

func IsGroupNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound)
}

func IsGroupAccessDenied(err error) bool {
	return errors.Is(err, ErrGroupAccessDenied)
}

func IsSubscriberNotFound(err error) bool {
	return errors.Is(err, ErrSubscriberNotFound)
}

func IsEmailCollectionDisabled(err error) bool {
	return errors.Is(err, ErrEmailCollectionDisabled)
}

func IsNotificationNotFound(err error) bool {
	return errors.Is(err, ErrNotificationNotFound)
}

func IsInvalidTheme(err error) bool {
	return errors.Is(err, ErrInvalidTheme)
}

func IsInvalidWebhookSignature(err error) bool {
	return errors.Is(err, ErrInvalidWebhookSignature)
}

func IsPaymentProviderFailure(err error) bool {
	return errors.Is(err, ErrPaymentProviderFailure)
}

func IsAlreadyPro(err error) bool {
	return errors.Is(err, ErrAlreadyPro)
}

func IsPaymentNotCompleted(err error) bool {
	return errors.Is(err, ErrPaymentNotCompleted)
}
