// Package testing provides test utilities and database setup for testing the backend
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestProfile creates an active profile on the given plan
func (tf *TestFixtures) CreateTestProfile(plan string) (*models.Profile, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := fmt.Sprintf("%06d", rand.Intn(900000)+100000)

	profile := &models.Profile{
		UUID:         uuid.New(),
		Username:     "tester" + suffix,
		Email:        fmt.Sprintf("tester.%s@example.com", suffix),
		PasswordHash: string(hashedPassword),
		DisplayName:  "Test Profile " + suffix,
		Bio:          "Testing bio",
		ThemeID:      "midnight",
		LayoutMode:   models.LayoutModeList,
		Plan:         plan,
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create test profile: %w", err)
	}
	return profile, nil
}

// CreateTestLink creates a visible standard link at the given position
func (tf *TestFixtures) CreateTestLink(profileID uint, position int) (*models.Link, error) {
	link := &models.Link{
		ProfileID: profileID,
		Title:     fmt.Sprintf("Link %d", position),
		URL:       fmt.Sprintf("https://example.com/%d", position),
		LinkType:  models.LinkTypeStandard,
		Position:  position,
		IsVisible: utils.ToPtr(true),
		IsPinned:  utils.ToPtr(false),
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to create test link: %w", err)
	}
	return link, nil
}

// CreateTestGroup creates a link group at the given position
func (tf *TestFixtures) CreateTestGroup(profileID uint, title string, position int) (*models.LinkGroup, error) {
	group := &models.LinkGroup{
		ProfileID:   profileID,
		Title:       title,
		Position:    position,
		IsCollapsed: utils.ToPtr(false),
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(group).Error; err != nil {
		return nil, fmt.Errorf("failed to create test group: %w", err)
	}
	return group, nil
}

// CreateTestSession creates an active session expiring in one hour
func (tf *TestFixtures) CreateTestSession(profileID uint) (*models.ProfileSession, error) {
	refresh := "refresh-" + uuid.NewString()
	session := &models.ProfileSession{
		CorrelationID:  uuid.New(),
		ProfileID:      profileID,
		SessionToken:   "session-" + uuid.NewString(),
		RefreshToken:   &refresh,
		IsActive:       utils.ToPtr(true),
		CreatedAt:      utils.UTCNow(),
		LastAccessedAt: utils.UTCNow(),
		ExpiresAt:      utils.UTCNow().Add(1 * time.Hour),
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}
	return session, nil
}

// CreateTestClick creates one click event at the given instant
func (tf *TestFixtures) CreateTestClick(linkID, profileID uint, clickedAt time.Time) (*models.LinkClick, error) {
	click := &models.LinkClick{
		LinkID:     linkID,
		ProfileID:  profileID,
		DeviceType: models.DeviceDesktop,
		Browser:    "Chrome",
		ClickedAt:  clickedAt,
	}

	if err := tf.DB.DB.Create(click).Error; err != nil {
		return nil, fmt.Errorf("failed to create test click: %w", err)
	}
	return click, nil
}

// CreateTestSubscriber creates one subscriber for the profile
func (tf *TestFixtures) CreateTestSubscriber(profileID uint, email string) (*models.Subscriber, error) {
	subscriber := &models.Subscriber{
		ProfileID: profileID,
		Email:     email,
		CreatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(subscriber).Error; err != nil {
		return nil, fmt.Errorf("failed to create test subscriber: %w", err)
	}
	return subscriber, nil
}
