package businessflow

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"github.com/silovra/silovra-backend/utils"
	"gorm.io/gorm"
)

// LinkFlow handles the owner-side link CRUD operations
type LinkFlow interface {
	ListLinks(ctx context.Context, profileID uint) (*dto.ListLinksResponse, error)
	CreateLink(ctx context.Context, profileID uint, request *dto.CreateLinkRequest) (*dto.LinkDTO, error)
	UpdateLink(ctx context.Context, profileID, linkID uint, request *dto.UpdateLinkRequest) (*dto.LinkDTO, error)
	DeleteLink(ctx context.Context, profileID, linkID uint) error
	ReorderLinks(ctx context.Context, profileID uint, request *dto.ReorderLinksRequest) (*dto.ListLinksResponse, error)
}

// LinkFlowImpl implements the link management business flow
type LinkFlowImpl struct {
	profileRepo repository.ProfileRepository
	linkRepo    repository.LinkRepository
	groupRepo   repository.LinkGroupRepository
	rc          *redis.Client
	cacheConfig *config.CacheConfig
	db          *gorm.DB
}

// NewLinkFlow creates a new link flow instance
func NewLinkFlow(
	profileRepo repository.ProfileRepository,
	linkRepo repository.LinkRepository,
	groupRepo repository.LinkGroupRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	db *gorm.DB,
) LinkFlow {
	return &LinkFlowImpl{
		profileRepo: profileRepo,
		linkRepo:    linkRepo,
		groupRepo:   groupRepo,
		rc:          rc,
		cacheConfig: cacheConfig,
		db:          db,
	}
}

// ListLinks returns all of the profile's links in position order
func (lf *LinkFlowImpl) ListLinks(ctx context.Context, profileID uint) (*dto.ListLinksResponse, error) {
	links, err := lf.linkRepo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("LINK_LIST_FAILED", "Link list failed", err)
	}

	out := make([]dto.LinkDTO, 0, len(links))
	for _, l := range links {
		out = append(out, ToLinkDTO(*l))
	}
	return &dto.ListLinksResponse{Links: out, Total: len(out)}, nil
}

// CreateLink appends a new link at the end of the profile's list. Free plans
// are capped and only pro profiles may create product or embed links.
func (lf *LinkFlowImpl) CreateLink(ctx context.Context, profileID uint, request *dto.CreateLinkRequest) (*dto.LinkDTO, error) {
	profile, err := lf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("LINK_CREATE_FAILED", "Link create failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}

	linkType := request.LinkType
	if linkType == "" {
		linkType = models.LinkTypeStandard
	}

	if !profile.IsPro() {
		count, err := lf.linkRepo.Count(ctx, models.LinkFilter{ProfileID: &profileID})
		if err != nil {
			return nil, NewBusinessError("LINK_CREATE_FAILED", "Link create failed", err)
		}
		if count >= utils.FreePlanLinkLimit {
			return nil, NewBusinessError("LINK_LIMIT_REACHED", "Link limit reached", ErrLinkLimitReached)
		}
		if linkType != models.LinkTypeStandard {
			return nil, NewBusinessError("PRO_PLAN_REQUIRED", "Pro plan required", ErrProPlanRequired)
		}
	}

	if request.GroupID != nil {
		if err := lf.checkGroupOwnership(ctx, profileID, *request.GroupID); err != nil {
			return nil, NewBusinessError("GROUP_NOT_FOUND", "Link group not found", err)
		}
	}

	maxPos, err := lf.linkRepo.MaxPosition(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("LINK_CREATE_FAILED", "Link create failed", err)
	}

	link := &models.Link{
		ProfileID:     profileID,
		Title:         request.Title,
		URL:           request.URL,
		IconURL:       request.IconURL,
		LinkType:      linkType,
		Price:         request.Price,
		Currency:      request.Currency,
		CTAText:       request.CTAText,
		Category:      request.Category,
		GroupID:       request.GroupID,
		Position:      maxPos + 1,
		IsPinned:      utils.ToPtr(utils.IsTrue(request.IsPinned)),
		IsVisible:     utils.ToPtr(request.IsVisible == nil || *request.IsVisible),
		ScheduleStart: utils.TimeToUTCPtr(request.ScheduleStart),
		ScheduleEnd:   utils.TimeToUTCPtr(request.ScheduleEnd),
	}

	if err := lf.linkRepo.Save(ctx, link); err != nil {
		return nil, NewBusinessError("LINK_CREATE_FAILED", "Link create failed", err)
	}

	lf.invalidatePage(ctx, profile.Username)
	result := ToLinkDTO(*link)
	return &result, nil
}

// UpdateLink applies a partial update to a link owned by the profile
func (lf *LinkFlowImpl) UpdateLink(ctx context.Context, profileID, linkID uint, request *dto.UpdateLinkRequest) (*dto.LinkDTO, error) {
	link, profile, err := lf.ownedLink(ctx, profileID, linkID)
	if err != nil {
		return nil, err
	}

	if request.LinkType != nil && *request.LinkType != models.LinkTypeStandard && !profile.IsPro() {
		return nil, NewBusinessError("PRO_PLAN_REQUIRED", "Pro plan required", ErrProPlanRequired)
	}
	if request.GroupID != nil {
		if err := lf.checkGroupOwnership(ctx, profileID, *request.GroupID); err != nil {
			return nil, NewBusinessError("GROUP_NOT_FOUND", "Link group not found", err)
		}
	}

	applyLinkUpdate(link, request)

	if err := lf.linkRepo.Update(ctx, link); err != nil {
		return nil, NewBusinessError("LINK_UPDATE_FAILED", "Link update failed", err)
	}

	lf.invalidatePage(ctx, profile.Username)
	result := ToLinkDTO(*link)
	return &result, nil
}

// DeleteLink removes a link owned by the profile
func (lf *LinkFlowImpl) DeleteLink(ctx context.Context, profileID, linkID uint) error {
	_, profile, err := lf.ownedLink(ctx, profileID, linkID)
	if err != nil {
		return err
	}

	if err := lf.linkRepo.Delete(ctx, linkID); err != nil {
		return NewBusinessError("LINK_DELETE_FAILED", "Link delete failed", err)
	}

	lf.invalidatePage(ctx, profile.Username)
	return nil
}

// ReorderLinks rewrites the positions of all the profile's links. The request
// must name every link exactly once.
func (lf *LinkFlowImpl) ReorderLinks(ctx context.Context, profileID uint, request *dto.ReorderLinksRequest) (*dto.ListLinksResponse, error) {
	links, err := lf.linkRepo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("LINK_REORDER_FAILED", "Link reorder failed", err)
	}

	owned := make(map[uint]bool, len(links))
	for _, l := range links {
		owned[l.ID] = true
	}
	if len(request.LinkIDs) != len(links) {
		return nil, NewBusinessError("INVALID_LINK_IDS", "Invalid link ids", ErrInvalidLinkIDs)
	}
	seen := make(map[uint]bool, len(request.LinkIDs))
	for _, id := range request.LinkIDs {
		if !owned[id] || seen[id] {
			return nil, NewBusinessError("INVALID_LINK_IDS", "Invalid link ids", ErrInvalidLinkIDs)
		}
		seen[id] = true
	}

	err = repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		return lf.linkRepo.UpdatePositions(ctx, profileID, request.LinkIDs)
	})
	if err != nil {
		return nil, NewBusinessError("LINK_REORDER_FAILED", "Link reorder failed", err)
	}

	if profile, err := lf.profileRepo.ByID(ctx, profileID); err == nil && profile != nil {
		lf.invalidatePage(ctx, profile.Username)
	}

	return lf.ListLinks(ctx, profileID)
}

func (lf *LinkFlowImpl) ownedLink(ctx context.Context, profileID, linkID uint) (*models.Link, *models.Profile, error) {
	link, err := lf.linkRepo.ByID(ctx, linkID)
	if err != nil {
		return nil, nil, NewBusinessError("LINK_LOOKUP_FAILED", "Link lookup failed", err)
	}
	if link == nil {
		return nil, nil, NewBusinessError("LINK_NOT_FOUND", "Link not found", ErrLinkNotFound)
	}
	if link.ProfileID != profileID {
		return nil, nil, NewBusinessError("LINK_ACCESS_DENIED", "Link access denied", ErrLinkAccessDenied)
	}

	profile, err := lf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, nil, NewBusinessError("LINK_LOOKUP_FAILED", "Link lookup failed", err)
	}
	if profile == nil {
		return nil, nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}
	return link, profile, nil
}

func (lf *LinkFlowImpl) checkGroupOwnership(ctx context.Context, profileID, groupID uint) error {
	group, err := lf.groupRepo.ByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if group.ProfileID != profileID {
		return ErrGroupAccessDenied
	}
	return nil
}

func (lf *LinkFlowImpl) invalidatePage(ctx context.Context, username string) {
	invalidatePageCache(ctx, lf.rc, lf.cacheConfig, username)
}

func applyLinkUpdate(link *models.Link, request *dto.UpdateLinkRequest) {
	if request.Title != nil {
		link.Title = *request.Title
	}
	if request.URL != nil {
		link.URL = *request.URL
	}
	if request.IconURL != nil {
		link.IconURL = request.IconURL
	}
	if request.LinkType != nil {
		link.LinkType = *request.LinkType
	}
	if request.Price != nil {
		link.Price = request.Price
	}
	if request.Currency != nil {
		link.Currency = request.Currency
	}
	if request.CTAText != nil {
		link.CTAText = request.CTAText
	}
	if request.Category != nil {
		link.Category = request.Category
	}
	if request.ClearGroup {
		link.GroupID = nil
	} else if request.GroupID != nil {
		link.GroupID = request.GroupID
	}
	if request.IsPinned != nil {
		link.IsPinned = request.IsPinned
	}
	if request.IsVisible != nil {
		link.IsVisible = request.IsVisible
	}
	if request.ClearSchedule {
		link.ScheduleStart = nil
		link.ScheduleEnd = nil
	} else {
		if request.ScheduleStart != nil {
			link.ScheduleStart = utils.TimeToUTCPtr(request.ScheduleStart)
		}
		if request.ScheduleEnd != nil {
			link.ScheduleEnd = utils.TimeToUTCPtr(request.ScheduleEnd)
		}
	}
}
