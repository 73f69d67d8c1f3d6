package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"github.com/silovra/silovra-backend/utils"
	"github.com/xuri/excelize/v2"
)

// SubscriberFlow handles visitor subscriptions and the owner's subscriber list
type SubscriberFlow interface {
	Subscribe(ctx context.Context, username string, request *dto.SubscribeRequest) (*dto.SubscribeResponse, error)
	ListSubscribers(ctx context.Context, profileID uint) (*dto.ListSubscribersResponse, error)
	DeleteSubscriber(ctx context.Context, profileID, subscriberID uint) error
	ExportSubscribers(ctx context.Context, profileID uint) ([]byte, string, error)
}

// SubscriberFlowImpl implements the subscriber business flow
type SubscriberFlowImpl struct {
	profileRepo      repository.ProfileRepository
	subscriberRepo   repository.SubscriberRepository
	notificationRepo repository.NotificationRepository
}

// NewSubscriberFlow creates a new subscriber flow instance
func NewSubscriberFlow(
	profileRepo repository.ProfileRepository,
	subscriberRepo repository.SubscriberRepository,
	notificationRepo repository.NotificationRepository,
) SubscriberFlow {
	return &SubscriberFlowImpl{
		profileRepo:      profileRepo,
		subscriberRepo:   subscriberRepo,
		notificationRepo: notificationRepo,
	}
}

// Subscribe records a visitor's email for a public page. A repeat submission
// of the same email reports success so the form never leaks membership.
func (sf *SubscriberFlowImpl) Subscribe(ctx context.Context, username string, request *dto.SubscribeRequest) (*dto.SubscribeResponse, error) {
	profile, err := sf.profileRepo.ByUsername(ctx, username)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIBE_FAILED", "Subscribe failed", err)
	}
	if profile == nil || !utils.IsTrue(profile.IsActive) {
		return nil, NewBusinessError("PAGE_NOT_FOUND", "Page not found", ErrPageNotFound)
	}
	if !utils.IsTrue(profile.EnableEmailCollection) {
		return nil, NewBusinessError("EMAIL_COLLECTION_DISABLED", "Email collection disabled", ErrEmailCollectionDisabled)
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))

	existing, err := sf.subscriberRepo.ByProfileAndEmail(ctx, profile.ID, email)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIBE_FAILED", "Subscribe failed", err)
	}
	if existing != nil {
		return &dto.SubscribeResponse{Subscribed: true}, nil
	}

	subscriber := &models.Subscriber{
		ProfileID: profile.ID,
		Email:     email,
	}
	if err := sf.subscriberRepo.Save(ctx, subscriber); err != nil {
		return nil, NewBusinessError("SUBSCRIBE_FAILED", "Subscribe failed", err)
	}

	// Notification is best-effort
	_ = sf.notificationRepo.Save(ctx, &models.Notification{
		ProfileID: profile.ID,
		Type:      models.NotificationTypeSubscriber,
		Message:   fmt.Sprintf("%s subscribed to your page", email),
		IsRead:    utils.ToPtr(false),
	})

	return &dto.SubscribeResponse{Subscribed: true}, nil
}

// ListSubscribers returns the profile's subscribers, newest first
func (sf *SubscriberFlowImpl) ListSubscribers(ctx context.Context, profileID uint) (*dto.ListSubscribersResponse, error) {
	subs, err := sf.subscriberRepo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIBER_LIST_FAILED", "Subscriber list failed", err)
	}

	out := make([]dto.SubscriberDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, ToSubscriberDTO(*s))
	}
	return &dto.ListSubscribersResponse{Subscribers: out, Total: len(out)}, nil
}

// DeleteSubscriber removes one subscriber owned by the profile
func (sf *SubscriberFlowImpl) DeleteSubscriber(ctx context.Context, profileID, subscriberID uint) error {
	sub, err := sf.subscriberRepo.ByID(ctx, subscriberID)
	if err != nil {
		return NewBusinessError("SUBSCRIBER_DELETE_FAILED", "Subscriber delete failed", err)
	}
	if sub == nil || sub.ProfileID != profileID {
		return NewBusinessError("SUBSCRIBER_NOT_FOUND", "Subscriber not found", ErrSubscriberNotFound)
	}

	if err := sf.subscriberRepo.Delete(ctx, subscriberID); err != nil {
		return NewBusinessError("SUBSCRIBER_DELETE_FAILED", "Subscriber delete failed", err)
	}
	return nil
}

// ExportSubscribers renders the subscriber list as an xlsx workbook and
// returns the file bytes plus a suggested filename.
func (sf *SubscriberFlowImpl) ExportSubscribers(ctx context.Context, profileID uint) ([]byte, string, error) {
	profile, err := sf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, "", NewBusinessError("SUBSCRIBER_EXPORT_FAILED", "Subscriber export failed", err)
	}
	if profile == nil {
		return nil, "", NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}

	subs, err := sf.subscriberRepo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, "", NewBusinessError("SUBSCRIBER_EXPORT_FAILED", "Subscriber export failed", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Subscribers"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Email")
	_ = f.SetCellValue(sheet, "B1", "Subscribed At")

	for i, s := range subs {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.Email)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", NewBusinessError("SUBSCRIBER_EXPORT_FAILED", "Subscriber export failed", err)
	}

	filename := fmt.Sprintf("%s-subscribers-%s.xlsx", profile.Username, utils.UTCNow().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
