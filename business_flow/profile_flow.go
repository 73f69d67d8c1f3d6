package businessflow

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ProfileFlow handles the owner's account and page settings
type ProfileFlow interface {
	GetProfile(ctx context.Context, profileID uint) (*dto.ProfileDTO, error)
	UpdateProfile(ctx context.Context, profileID uint, request *dto.UpdateProfileRequest) (*dto.ProfileDTO, error)
	ChangePassword(ctx context.Context, profileID uint, request *dto.ChangePasswordRequest) error
}

// ProfileFlowImpl implements the profile settings business flow
type ProfileFlowImpl struct {
	profileRepo repository.ProfileRepository
	sessionRepo repository.ProfileSessionRepository
	rc          *redis.Client
	cacheConfig *config.CacheConfig
	db          *gorm.DB
}

// NewProfileFlow creates a new profile flow instance
func NewProfileFlow(
	profileRepo repository.ProfileRepository,
	sessionRepo repository.ProfileSessionRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	db *gorm.DB,
) ProfileFlow {
	return &ProfileFlowImpl{
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		rc:          rc,
		cacheConfig: cacheConfig,
		db:          db,
	}
}

// GetProfile returns the owner's full profile
func (pf *ProfileFlowImpl) GetProfile(ctx context.Context, profileID uint) (*dto.ProfileDTO, error) {
	profile, err := pf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Profile lookup failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}

	result := ToProfileDTO(*profile)
	return &result, nil
}

// UpdateProfile applies a partial update to the page settings. An unknown
// theme id is rejected so the public page never falls back unexpectedly.
func (pf *ProfileFlowImpl) UpdateProfile(ctx context.Context, profileID uint, request *dto.UpdateProfileRequest) (*dto.ProfileDTO, error) {
	profile, err := pf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Profile update failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}

	if request.ThemeID != nil {
		if _, ok := ThemePresetByID(*request.ThemeID); !ok {
			return nil, NewBusinessError("INVALID_THEME", "Unknown theme", ErrInvalidTheme)
		}
		profile.ThemeID = *request.ThemeID
	}
	if request.CustomTheme != nil {
		var theme models.CustomTheme
		if err := json.Unmarshal(request.CustomTheme, &theme); err != nil {
			return nil, NewBusinessError("INVALID_THEME", "Malformed custom theme", ErrInvalidTheme)
		}
		profile.CustomTheme = request.CustomTheme
	}
	if request.DisplayName != nil {
		profile.DisplayName = *request.DisplayName
	}
	if request.Bio != nil {
		profile.Bio = *request.Bio
	}
	if request.AvatarURL != nil {
		profile.AvatarURL = request.AvatarURL
	}
	if request.BannerURL != nil {
		profile.BannerURL = request.BannerURL
	}
	if request.CustomFont != nil {
		profile.CustomFont = request.CustomFont
	}
	if request.LayoutMode != nil {
		profile.LayoutMode = *request.LayoutMode
	}
	if request.SocialLinks != nil {
		var socials []models.SocialLink
		if err := json.Unmarshal(request.SocialLinks, &socials); err != nil {
			return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Malformed social links", err)
		}
		profile.SocialLinks = request.SocialLinks
	}
	if request.SEOSettings != nil {
		var seo models.SEOSettings
		if err := json.Unmarshal(request.SEOSettings, &seo); err != nil {
			return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Malformed seo settings", err)
		}
		profile.SEOSettings = request.SEOSettings
	}
	if request.EnableEmailCollection != nil {
		profile.EnableEmailCollection = request.EnableEmailCollection
	}

	if err := pf.profileRepo.Update(ctx, profile); err != nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Profile update failed", err)
	}

	invalidatePageCache(ctx, pf.rc, pf.cacheConfig, profile.Username)

	result := ToProfileDTO(*profile)
	return &result, nil
}

// ChangePassword rotates the account password and revokes every session.
// The caller has to sign in again with the new password.
func (pf *ProfileFlowImpl) ChangePassword(ctx context.Context, profileID uint, request *dto.ChangePasswordRequest) error {
	profile, err := pf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return NewBusinessError("PASSWORD_CHANGE_FAILED", "Password change failed", err)
	}
	if profile == nil {
		return NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(request.CurrentPassword)); err != nil {
		return NewBusinessError("INCORRECT_PASSWORD", "Incorrect password", ErrIncorrectPassword)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewBusinessError("PASSWORD_CHANGE_FAILED", "Password change failed", err)
	}

	err = repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		if err := pf.profileRepo.UpdatePassword(ctx, profileID, string(hashed)); err != nil {
			return err
		}
		return pf.sessionRepo.RevokeAllProfileSessions(ctx, profileID)
	})
	if err != nil {
		return NewBusinessError("PASSWORD_CHANGE_FAILED", "Password change failed", err)
	}

	return nil
}
