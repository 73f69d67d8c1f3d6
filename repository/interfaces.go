// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/silovra/silovra-backend/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// ProfileRepository defines operations for profiles
type ProfileRepository interface {
	Repository[models.Profile, models.ProfileFilter]
	ByUsername(ctx context.Context, username string) (*models.Profile, error)
	ByEmail(ctx context.Context, email string) (*models.Profile, error)
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.Profile, error)
	ByPaymentCustomerRef(ctx context.Context, ref string) (*models.Profile, error)
	UpdatePassword(ctx context.Context, profileID uint, passwordHash string) error
	UpdatePlan(ctx context.Context, profileID uint, plan string, paymentCustomerRef *string) error
	UpdateLastLogin(ctx context.Context, profileID uint, at time.Time) error
	IncrementTotalViews(ctx context.Context, profileID uint) error
}

// ProfileSessionRepository defines operations for profile sessions
type ProfileSessionRepository interface {
	Repository[models.ProfileSession, models.ProfileSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.ProfileSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.ProfileSession, error)
	ListActiveSessionsByProfile(ctx context.Context, profileID uint) ([]*models.ProfileSession, error)
	RevokeSession(ctx context.Context, sessionID uint) error
	RevokeAllProfileSessions(ctx context.Context, profileID uint) error
	Touch(ctx context.Context, sessionID uint, at time.Time) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// LinkRepository defines operations for links
type LinkRepository interface {
	Repository[models.Link, models.LinkFilter]
	ListByProfile(ctx context.Context, profileID uint) ([]*models.Link, error)
	MaxPosition(ctx context.Context, profileID uint) (int, error)
	UpdatePositions(ctx context.Context, profileID uint, orderedIDs []uint) error
	IncrementClickCount(ctx context.Context, linkID uint) error
	DetachGroup(ctx context.Context, groupID uint) error
	Delete(ctx context.Context, linkID uint) error
}

// LinkGroupRepository defines operations for link groups
type LinkGroupRepository interface {
	Repository[models.LinkGroup, models.LinkGroupFilter]
	ListByProfile(ctx context.Context, profileID uint) ([]*models.LinkGroup, error)
	Delete(ctx context.Context, groupID uint) error
}

// DailyClickCount is one day of aggregated clicks
type DailyClickCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

// DimensionCount is an aggregated count for one value of a dimension
// (device type, browser, referrer)
type DimensionCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// LinkClickRepository defines operations for link clicks
type LinkClickRepository interface {
	Repository[models.LinkClick, models.LinkClickFilter]
	CountByProfileSince(ctx context.Context, profileID uint, since time.Time) (int64, error)
	DailyCountsByProfile(ctx context.Context, profileID uint, since time.Time) ([]DailyClickCount, error)
	CountsByDevice(ctx context.Context, profileID uint, since time.Time) ([]DimensionCount, error)
	CountsByBrowser(ctx context.Context, profileID uint, since time.Time) ([]DimensionCount, error)
	CountsByReferrer(ctx context.Context, profileID uint, since time.Time, limit int) ([]DimensionCount, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SubscriberRepository defines operations for subscribers
type SubscriberRepository interface {
	Repository[models.Subscriber, models.SubscriberFilter]
	ByProfileAndEmail(ctx context.Context, profileID uint, email string) (*models.Subscriber, error)
	ListByProfile(ctx context.Context, profileID uint) ([]*models.Subscriber, error)
	Delete(ctx context.Context, subscriberID uint) error
}

// NotificationRepository defines operations for notifications
type NotificationRepository interface {
	Repository[models.Notification, models.NotificationFilter]
	ListByProfile(ctx context.Context, profileID uint, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, profileID, notificationID uint) error
	MarkAllRead(ctx context.Context, profileID uint) error
	CountUnread(ctx context.Context, profileID uint) (int64, error)
}

// PaymentEventRepository defines operations for payment events
type PaymentEventRepository interface {
	Repository[models.PaymentEvent, models.PaymentEventFilter]
	ByProviderAndReference(ctx context.Context, provider, reference string) (*models.PaymentEvent, error)
	UpdateStatus(ctx context.Context, eventID uint, status string) error
	ListByProfile(ctx context.Context, profileID uint, limit, offset int) ([]*models.PaymentEvent, error)
}
