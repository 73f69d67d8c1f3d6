package businessflow

import (
	"context"
	"fmt"

	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"github.com/silovra/silovra-backend/utils"
)

// milestoneThresholds are the click counts that earn a notification
var milestoneThresholds = []int64{10, 50, 100, 500, 1000, 5000, 10000}

// ClickFlow records outbound link clicks and resolves the redirect target
type ClickFlow interface {
	RegisterClick(ctx context.Context, linkID uint, metadata *ClientMetadata) (*dto.ClickRedirectResponse, error)
}

// ClickFlowImpl implements the click tracking business flow
type ClickFlowImpl struct {
	linkRepo         repository.LinkRepository
	clickRepo        repository.LinkClickRepository
	notificationRepo repository.NotificationRepository
}

// NewClickFlow creates a new click flow instance
func NewClickFlow(
	linkRepo repository.LinkRepository,
	clickRepo repository.LinkClickRepository,
	notificationRepo repository.NotificationRepository,
) ClickFlow {
	return &ClickFlowImpl{
		linkRepo:         linkRepo,
		clickRepo:        clickRepo,
		notificationRepo: notificationRepo,
	}
}

// RegisterClick resolves the destination URL for a link and records the
// click. Recording is best-effort: a storage hiccup must not break the
// visitor's redirect.
func (cf *ClickFlowImpl) RegisterClick(ctx context.Context, linkID uint, metadata *ClientMetadata) (*dto.ClickRedirectResponse, error) {
	link, err := cf.linkRepo.ByID(ctx, linkID)
	if err != nil {
		return nil, NewBusinessError("CLICK_LOOKUP_FAILED", "Click lookup failed", err)
	}
	if link == nil || !utils.IsTrue(link.IsVisible) || !link.IsActiveAt(utils.UTCNow()) {
		return nil, NewBusinessError("LINK_NOT_FOUND", "Link not found", ErrLinkNotFound)
	}

	click := &models.LinkClick{
		LinkID:    link.ID,
		ProfileID: link.ProfileID,
		ClickedAt: utils.UTCNow(),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			click.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			click.UserAgent = &metadata.UserAgent
		}
		if metadata.Referrer != "" {
			click.Referrer = &metadata.Referrer
		}
		if metadata.Country != "" {
			click.Country = &metadata.Country
		}
		click.DeviceType = ClassifyDevice(metadata.UserAgent)
		click.Browser = ClassifyBrowser(metadata.UserAgent)
	} else {
		click.DeviceType = models.DeviceDesktop
		click.Browser = "Other"
	}

	_ = cf.clickRepo.Save(ctx, click)
	_ = cf.linkRepo.IncrementClickCount(ctx, link.ID)

	cf.checkMilestones(ctx, link, link.ClickCount+1)

	return &dto.ClickRedirectResponse{URL: link.URL}, nil
}

// checkMilestones creates a notification the first time a link crosses a
// click threshold. Duplicate messages are suppressed with an existence
// check rather than a uniqueness constraint.
func (cf *ClickFlowImpl) checkMilestones(ctx context.Context, link *models.Link, newCount int64) {
	for _, threshold := range milestoneThresholds {
		if newCount != threshold {
			continue
		}

		message := fmt.Sprintf("Your link %q reached %d clicks", link.Title, threshold)
		exists, err := cf.notificationRepo.Exists(ctx, models.NotificationFilter{
			ProfileID: &link.ProfileID,
			Message:   &message,
		})
		if err != nil || exists {
			return
		}

		_ = cf.notificationRepo.Save(ctx, &models.Notification{
			ProfileID: link.ProfileID,
			Type:      models.NotificationTypeMilestone,
			Message:   message,
			IsRead:    utils.ToPtr(false),
		})
		return
	}
}
