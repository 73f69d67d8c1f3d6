package businessflow

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/services"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"github.com/silovra/silovra-backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginFlow handles authentication, session rotation and the one-time code
// callback exchange
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, profileID uint, sessionToken string) (*dto.LogoutResponse, error)
	IssueAuthCode(ctx context.Context, profileID uint) (string, error)
	ExchangeAuthCode(ctx context.Context, request *dto.AuthCallbackRequest, metadata *ClientMetadata) (*dto.AuthCallbackResponse, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	profileRepo  repository.ProfileRepository
	sessionRepo  repository.ProfileSessionRepository
	tokenService services.TokenService
	rc           *redis.Client
	cacheConfig  *config.CacheConfig
	db           *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	profileRepo repository.ProfileRepository,
	sessionRepo repository.ProfileSessionRepository,
	tokenService services.TokenService,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
		profileRepo:  profileRepo,
		sessionRepo:  sessionRepo,
		tokenService: tokenService,
		rc:           rc,
		cacheConfig:  cacheConfig,
		db:           db,
	}
}

// Login authenticates a profile with email/username and password
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if request.Identifier == "" || request.Password == "" {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", ErrProfileNotFound)
	}

	resp, err := lf.WithLoginTransaction(ctx, func(ctx context.Context) (*dto.LoginResponse, error) {
		profile, err := lf.FindProfileByIdentifier(ctx, request.Identifier)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, ErrProfileNotFound
		}

		if !utils.IsTrue(profile.IsActive) {
			return nil, ErrAccountInactive
		}

		if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(request.Password)); err != nil {
			return nil, ErrIncorrectPassword
		}

		session, err := createSession(ctx, lf.sessionRepo, lf.tokenService, profile.ID, metadata)
		if err != nil {
			return nil, err
		}

		if err := lf.profileRepo.UpdateLastLogin(ctx, profile.ID, utils.UTCNow()); err != nil {
			return nil, err
		}

		return &dto.LoginResponse{
			Profile: ToAuthProfileDTO(*profile),
			Session: ToSessionDTO(*session),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	return resp, nil
}

// RefreshToken rotates a session: the presented refresh token's session is
// revoked and a fresh session is opened.
func (lf *LoginFlowImpl) RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error) {
	resp, err := lf.WithRefreshTransaction(ctx, func(ctx context.Context) (*dto.RefreshTokenResponse, error) {
		session, err := lf.sessionRepo.ByRefreshToken(ctx, request.RefreshToken)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}

		profile := session.Profile
		if !utils.IsTrue(profile.IsActive) {
			return nil, ErrAccountInactive
		}

		if err := lf.sessionRepo.RevokeSession(ctx, session.ID); err != nil {
			return nil, err
		}
		_ = lf.tokenService.RevokeToken(ctx, session.SessionToken)

		newSession, err := createSession(ctx, lf.sessionRepo, lf.tokenService, profile.ID, metadata)
		if err != nil {
			return nil, err
		}

		return &dto.RefreshTokenResponse{
			Profile: ToAuthProfileDTO(profile),
			Session: ToSessionDTO(*newSession),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Session refresh failed", err)
	}

	return resp, nil
}

// Logout revokes the presented session and its token
func (lf *LoginFlowImpl) Logout(ctx context.Context, profileID uint, sessionToken string) (*dto.LogoutResponse, error) {
	session, err := lf.sessionRepo.BySessionToken(ctx, sessionToken)
	if err != nil {
		return nil, NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}
	if session != nil && session.ProfileID == profileID {
		if err := lf.sessionRepo.RevokeSession(ctx, session.ID); err != nil {
			return nil, NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
		}
	}
	_ = lf.tokenService.RevokeToken(ctx, sessionToken)

	return &dto.LogoutResponse{LoggedOutAt: utils.UTCNow()}, nil
}

// IssueAuthCode stores a one-time login code in redis, bound to the profile
func (lf *LoginFlowImpl) IssueAuthCode(ctx context.Context, profileID uint) (string, error) {
	if lf.rc == nil {
		return "", ErrCacheNotAvailable
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := hex.EncodeToString(buf)

	profile, err := lf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", ErrProfileNotFound
	}

	key := redisKey(*lf.cacheConfig, "authcode:"+code)
	if err := lf.rc.Set(ctx, key, profile.UUID.String(), utils.AuthCodeTTL).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// ExchangeAuthCode redeems a one-time code for a session. The code is
// deleted before the session is issued, so replays always fail.
func (lf *LoginFlowImpl) ExchangeAuthCode(ctx context.Context, request *dto.AuthCallbackRequest, metadata *ClientMetadata) (*dto.AuthCallbackResponse, error) {
	if lf.rc == nil {
		return nil, NewBusinessError("AUTH_CALLBACK_FAILED", "Auth callback failed", ErrCacheNotAvailable)
	}

	key := redisKey(*lf.cacheConfig, "authcode:"+request.Code)
	profileUUID, err := lf.rc.GetDel(ctx, key).Result()
	if err != nil {
		return nil, NewBusinessError("AUTH_CALLBACK_FAILED", "Auth callback failed", ErrInvalidAuthCode)
	}

	parsed, err := uuid.Parse(profileUUID)
	if err != nil {
		return nil, NewBusinessError("AUTH_CALLBACK_FAILED", "Auth callback failed", ErrInvalidAuthCode)
	}

	profile, err := lf.profileRepo.ByUUID(ctx, parsed)
	if err != nil {
		return nil, NewBusinessError("AUTH_CALLBACK_FAILED", "Auth callback failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("AUTH_CALLBACK_FAILED", "Auth callback failed", ErrProfileNotFound)
	}
	if !utils.IsTrue(profile.IsActive) {
		return nil, NewBusinessError("AUTH_CALLBACK_FAILED", "Auth callback failed", ErrAccountInactive)
	}

	session, err := createSession(ctx, lf.sessionRepo, lf.tokenService, profile.ID, metadata)
	if err != nil {
		return nil, NewBusinessError("AUTH_CALLBACK_FAILED", "Auth callback failed", err)
	}

	return &dto.AuthCallbackResponse{
		Profile: ToAuthProfileDTO(*profile),
		Session: ToSessionDTO(*session),
		Next:    SanitizeNextPath(request.Next),
	}, nil
}

// SanitizeNextPath restricts post-login redirects to same-site paths.
// Anything absolute or scheme-relative falls back to the dashboard.
func SanitizeNextPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/dashboard"
	}
	return next
}

// FindProfileByIdentifier looks up a profile by email or username
func (lf *LoginFlowImpl) FindProfileByIdentifier(ctx context.Context, identifier string) (*models.Profile, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	if strings.Contains(identifier, "@") {
		return lf.profileRepo.ByEmail(ctx, identifier)
	}
	return lf.profileRepo.ByUsername(ctx, identifier)
}

func (lf *LoginFlowImpl) WithLoginTransaction(ctx context.Context, fn func(context.Context) (*dto.LoginResponse, error)) (*dto.LoginResponse, error) {
	var result *dto.LoginResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

func (lf *LoginFlowImpl) WithRefreshTransaction(ctx context.Context, fn func(context.Context) (*dto.RefreshTokenResponse, error)) (*dto.RefreshTokenResponse, error) {
	var result *dto.RefreshTokenResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
