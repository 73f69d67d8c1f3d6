package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"github.com/silovra/silovra-backend/utils"
)

// PageFlow resolves public profile pages for visitors
type PageFlow interface {
	GetPublicPage(ctx context.Context, username string) (*dto.PublicPageResponse, error)
}

// PageFlowImpl implements the public page business flow
type PageFlowImpl struct {
	profileRepo      repository.ProfileRepository
	linkRepo         repository.LinkRepository
	groupRepo        repository.LinkGroupRepository
	notificationRepo repository.NotificationRepository
	rc               *redis.Client
	cacheConfig      *config.CacheConfig
}

// NewPageFlow creates a new page flow instance
func NewPageFlow(
	profileRepo repository.ProfileRepository,
	linkRepo repository.LinkRepository,
	groupRepo repository.LinkGroupRepository,
	notificationRepo repository.NotificationRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) PageFlow {
	return &PageFlowImpl{
		profileRepo:      profileRepo,
		linkRepo:         linkRepo,
		groupRepo:        groupRepo,
		notificationRepo: notificationRepo,
		rc:               rc,
		cacheConfig:      cacheConfig,
	}
}

// GetPublicPage resolves the full page payload for a username. Every call
// counts as a view, including cache hits.
func (pf *PageFlowImpl) GetPublicPage(ctx context.Context, username string) (*dto.PublicPageResponse, error) {
	if cached := pf.fromCache(ctx, username); cached != nil {
		// View counting is best-effort on the cached path
		if profile, err := pf.profileRepo.ByUsername(ctx, username); err == nil && profile != nil {
			_ = pf.profileRepo.IncrementTotalViews(ctx, profile.ID)
			pf.checkViewMilestones(ctx, profile, profile.TotalViews+1)
		}
		return cached, nil
	}

	profile, err := pf.profileRepo.ByUsername(ctx, username)
	if err != nil {
		return nil, NewBusinessError("PAGE_LOOKUP_FAILED", "Page lookup failed", err)
	}
	if profile == nil || !utils.IsTrue(profile.IsActive) {
		return nil, NewBusinessError("PAGE_NOT_FOUND", "Page not found", ErrPageNotFound)
	}

	links, err := pf.linkRepo.ListByProfile(ctx, profile.ID)
	if err != nil {
		return nil, NewBusinessError("PAGE_LOOKUP_FAILED", "Page lookup failed", err)
	}

	groups, err := pf.groupRepo.ListByProfile(ctx, profile.ID)
	if err != nil {
		return nil, NewBusinessError("PAGE_LOOKUP_FAILED", "Page lookup failed", err)
	}

	visible := FilterVisibleLinks(links, utils.UTCNow())
	arrangement, sections := ArrangeLinks(visible, groups)

	resp := &dto.PublicPageResponse{
		Username:              profile.Username,
		DisplayName:           profile.DisplayName,
		Bio:                   profile.Bio,
		AvatarURL:             profile.AvatarURL,
		BannerURL:             profile.BannerURL,
		Plan:                  profile.Plan,
		LayoutMode:            profile.LayoutMode,
		Theme:                 ResolveTheme(profile),
		Arrangement:           arrangement,
		Sections:              sections,
		SocialLinks:           visibleSocialLinks(profile),
		SEO:                   publicSEO(profile),
		EnableEmailCollection: utils.IsTrue(profile.EnableEmailCollection),
		TotalViews:            profile.TotalViews,
	}

	pf.toCache(ctx, username, resp)
	_ = pf.profileRepo.IncrementTotalViews(ctx, profile.ID)
	pf.checkViewMilestones(ctx, profile, profile.TotalViews+1)

	return resp, nil
}

// checkViewMilestones creates a notification the first time a page crosses
// a view threshold. Duplicate messages are suppressed with an existence
// check, same as click milestones.
func (pf *PageFlowImpl) checkViewMilestones(ctx context.Context, profile *models.Profile, newCount int64) {
	for _, threshold := range milestoneThresholds {
		if newCount != threshold {
			continue
		}

		message := fmt.Sprintf("Your page reached %d views", threshold)
		exists, err := pf.notificationRepo.Exists(ctx, models.NotificationFilter{
			ProfileID: &profile.ID,
			Message:   &message,
		})
		if err != nil || exists {
			return
		}

		_ = pf.notificationRepo.Save(ctx, &models.Notification{
			ProfileID: profile.ID,
			Type:      models.NotificationTypeMilestone,
			Message:   message,
			IsRead:    utils.ToPtr(false),
		})
		return
	}
}

// FilterVisibleLinks keeps visible links whose schedule window contains now
func FilterVisibleLinks(links []*models.Link, now time.Time) []*models.Link {
	out := make([]*models.Link, 0, len(links))
	for _, l := range links {
		if !utils.IsTrue(l.IsVisible) {
			continue
		}
		if !l.IsActiveAt(now) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ArrangeLinks orders links for rendering and buckets them into sections.
// Pinned links float to the front of their section without disturbing the
// relative order of the rest. Grouping wins over categories: as soon as the
// profile has any group the page renders grouped, even when no link is a
// member yet, with ungrouped links in a leading untitled section.
func ArrangeLinks(links []*models.Link, groups []*models.LinkGroup) (string, []dto.PublicLinkSectionDTO) {
	sorted := make([]*models.Link, len(links))
	copy(sorted, links)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := utils.IsTrue(sorted[i].IsPinned), utils.IsTrue(sorted[j].IsPinned)
		return pi && !pj
	})

	hasCategories := false
	for _, l := range sorted {
		if l.Category != nil && *l.Category != "" {
			hasCategories = true
		}
	}

	switch {
	case len(groups) > 0:
		return dto.ArrangementGrouped, groupedSections(sorted, groups)
	case hasCategories:
		return dto.ArrangementCategorized, categorizedSections(sorted)
	default:
		section := dto.PublicLinkSectionDTO{Links: toPublicLinks(sorted)}
		return dto.ArrangementFlat, []dto.PublicLinkSectionDTO{section}
	}
}

func groupedSections(links []*models.Link, groups []*models.LinkGroup) []dto.PublicLinkSectionDTO {
	byGroup := make(map[uint][]*models.Link)
	var ungrouped []*models.Link
	for _, l := range links {
		if l.GroupID == nil {
			ungrouped = append(ungrouped, l)
			continue
		}
		byGroup[*l.GroupID] = append(byGroup[*l.GroupID], l)
	}

	sections := make([]dto.PublicLinkSectionDTO, 0, len(groups)+1)
	if len(ungrouped) > 0 {
		sections = append(sections, dto.PublicLinkSectionDTO{Links: toPublicLinks(ungrouped)})
	}
	for _, g := range groups {
		members, ok := byGroup[g.ID]
		if !ok {
			continue
		}
		gid := g.ID
		sections = append(sections, dto.PublicLinkSectionDTO{
			Title:       g.Title,
			GroupID:     &gid,
			IsCollapsed: utils.IsTrue(g.IsCollapsed),
			Links:       toPublicLinks(members),
		})
	}
	return sections
}

func categorizedSections(links []*models.Link) []dto.PublicLinkSectionDTO {
	order := []string{}
	byCategory := make(map[string][]*models.Link)
	var uncategorized []*models.Link
	for _, l := range links {
		if l.Category == nil || *l.Category == "" {
			uncategorized = append(uncategorized, l)
			continue
		}
		if _, seen := byCategory[*l.Category]; !seen {
			order = append(order, *l.Category)
		}
		byCategory[*l.Category] = append(byCategory[*l.Category], l)
	}

	sections := make([]dto.PublicLinkSectionDTO, 0, len(order)+1)
	if len(uncategorized) > 0 {
		sections = append(sections, dto.PublicLinkSectionDTO{Links: toPublicLinks(uncategorized)})
	}
	for _, c := range order {
		sections = append(sections, dto.PublicLinkSectionDTO{
			Title: c,
			Links: toPublicLinks(byCategory[c]),
		})
	}
	return sections
}

func toPublicLinks(links []*models.Link) []dto.PublicLinkDTO {
	out := make([]dto.PublicLinkDTO, 0, len(links))
	for _, l := range links {
		out = append(out, ToPublicLinkDTO(*l))
	}
	return out
}

func visibleSocialLinks(profile *models.Profile) []dto.PublicSocialLinkDTO {
	if len(profile.SocialLinks) == 0 {
		return nil
	}
	var all []models.SocialLink
	if err := json.Unmarshal(profile.SocialLinks, &all); err != nil {
		return nil
	}
	out := make([]dto.PublicSocialLinkDTO, 0, len(all))
	for _, s := range all {
		if !s.IsVisible {
			continue
		}
		out = append(out, dto.PublicSocialLinkDTO{Platform: s.Platform, URL: s.URL})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func publicSEO(profile *models.Profile) *dto.PublicSEODTO {
	if len(profile.SEOSettings) == 0 {
		return nil
	}
	var seo models.SEOSettings
	if err := json.Unmarshal(profile.SEOSettings, &seo); err != nil {
		return nil
	}
	return &dto.PublicSEODTO{
		Title:       seo.Title,
		Description: seo.Description,
		Keywords:    seo.Keywords,
		OGImageURL:  seo.OGImageURL,
	}
}

// Cache helpers

func pageCacheKey(cfg config.CacheConfig, username string) string {
	return redisKey(cfg, "page:"+username)
}

func (pf *PageFlowImpl) fromCache(ctx context.Context, username string) *dto.PublicPageResponse {
	if pf.rc == nil || !pf.cacheConfig.Enabled {
		return nil
	}
	bs, err := pf.rc.Get(ctx, pageCacheKey(*pf.cacheConfig, username)).Bytes()
	if err != nil || len(bs) == 0 {
		return nil
	}
	var out dto.PublicPageResponse
	if err := json.Unmarshal(bs, &out); err != nil {
		return nil
	}
	return &out
}

func (pf *PageFlowImpl) toCache(ctx context.Context, username string, resp *dto.PublicPageResponse) {
	if pf.rc == nil || !pf.cacheConfig.Enabled {
		return
	}
	if bs, err := json.Marshal(resp); err == nil {
		_ = pf.rc.Set(ctx, pageCacheKey(*pf.cacheConfig, username), bs, utils.PublicPageCacheTTL).Err()
	}
}

// invalidatePageCache drops the cached page after any owner-side mutation
func invalidatePageCache(ctx context.Context, rc *redis.Client, cfg *config.CacheConfig, username string) {
	if rc == nil || cfg == nil || !cfg.Enabled {
		return
	}
	_ = rc.Del(ctx, pageCacheKey(*cfg, username)).Err()
}
