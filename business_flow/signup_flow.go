package businessflow

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/services"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"github.com/silovra/silovra-backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupFlow handles account creation
type SignupFlow interface {
	Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error)
}

// SignupFlowImpl implements the signup business flow
type SignupFlowImpl struct {
	profileRepo  repository.ProfileRepository
	sessionRepo  repository.ProfileSessionRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewSignupFlow creates a new signup flow instance
func NewSignupFlow(
	profileRepo repository.ProfileRepository,
	sessionRepo repository.ProfileSessionRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) SignupFlow {
	return &SignupFlowImpl{
		profileRepo:  profileRepo,
		sessionRepo:  sessionRepo,
		tokenService: tokenService,
		db:           db,
	}
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9_-]{1,28}[a-z0-9])?$`)

// reservedUsernames would collide with route prefixes or impersonate the platform
var reservedUsernames = map[string]bool{
	"api":       true,
	"admin":     true,
	"auth":      true,
	"dashboard": true,
	"login":     true,
	"signup":    true,
	"settings":  true,
	"billing":   true,
	"help":      true,
	"support":   true,
	"www":       true,
	"static":    true,
	"assets":    true,
	"metrics":   true,
	"health":    true,
}

// Signup registers a new profile and opens its first session
func (sf *SignupFlowImpl) Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error) {
	username := strings.ToLower(strings.TrimSpace(request.Username))
	email := strings.ToLower(strings.TrimSpace(request.Email))

	if err := sf.validateSignupRequest(ctx, username, email); err != nil {
		return nil, NewBusinessError("SIGNUP_VALIDATION_FAILED", "Signup validation failed", err)
	}

	resp, err := sf.WithSignupTransaction(ctx, func(ctx context.Context) (*dto.SignupResponse, error) {
		existing, err := sf.profileRepo.ByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUsernameTaken
		}

		existing, err = sf.profileRepo.ByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		profile := &models.Profile{
			UUID:         uuid.New(),
			Username:     username,
			Email:        email,
			PasswordHash: string(hashedPassword),
			DisplayName:  username,
			ThemeID:      DefaultThemeID,
			LayoutMode:   models.LayoutModeList,
			Plan:         utils.PlanFree,
			IsActive:     utils.ToPtr(true),
		}

		if err := sf.profileRepo.Save(ctx, profile); err != nil {
			return nil, err
		}

		session, err := createSession(ctx, sf.sessionRepo, sf.tokenService, profile.ID, metadata)
		if err != nil {
			return nil, err
		}

		return &dto.SignupResponse{
			Profile: ToAuthProfileDTO(*profile),
			Session: ToSessionDTO(*session),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	return resp, nil
}

func (sf *SignupFlowImpl) validateSignupRequest(_ context.Context, username, email string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	if reservedUsernames[username] {
		return ErrUsernameReserved
	}
	if email == "" {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (sf *SignupFlowImpl) WithSignupTransaction(ctx context.Context, fn func(context.Context) (*dto.SignupResponse, error)) (*dto.SignupResponse, error) {
	var result *dto.SignupResponse
	var fnErr error

	err := repository.WithTransaction(ctx, sf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

// createSession issues a token pair and records the session. Shared by the
// signup, login and callback flows.
func createSession(ctx context.Context, sessionRepo repository.ProfileSessionRepository, tokenService services.TokenService, profileID uint, metadata *ClientMetadata) (*models.ProfileSession, error) {
	accessToken, refreshToken, err := tokenService.GenerateTokens(profileID)
	if err != nil {
		return nil, err
	}

	expiresAt := utils.UTCNowAdd(utils.SessionTimeout)

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.ProfileSession{
		ProfileID:     profileID,
		CorrelationID: uuid.New(),
		SessionToken:  accessToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     expiresAt,
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if err := sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
