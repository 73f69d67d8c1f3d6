package businessflow

import (
	"context"
	"sort"
	"time"

	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"github.com/silovra/silovra-backend/utils"
)

// AnalyticsDefaultRangeDays bounds the dashboard time range
const (
	AnalyticsDefaultRangeDays = 30
	AnalyticsMaxRangeDays     = 365
	topReferrerLimit          = 10
	topLinkLimit              = 5
)

// AnalyticsFlow aggregates click and view statistics for the dashboard
type AnalyticsFlow interface {
	GetAnalytics(ctx context.Context, profileID uint, rangeDays int) (*dto.AnalyticsResponse, error)
}

// AnalyticsFlowImpl implements the analytics business flow
type AnalyticsFlowImpl struct {
	profileRepo repository.ProfileRepository
	linkRepo    repository.LinkRepository
	clickRepo   repository.LinkClickRepository
}

// NewAnalyticsFlow creates a new analytics flow instance
func NewAnalyticsFlow(
	profileRepo repository.ProfileRepository,
	linkRepo repository.LinkRepository,
	clickRepo repository.LinkClickRepository,
) AnalyticsFlow {
	return &AnalyticsFlowImpl{
		profileRepo: profileRepo,
		linkRepo:    linkRepo,
		clickRepo:   clickRepo,
	}
}

// GetAnalytics builds the full dashboard payload for the given range. An out
// of range value falls back to the default.
func (af *AnalyticsFlowImpl) GetAnalytics(ctx context.Context, profileID uint, rangeDays int) (*dto.AnalyticsResponse, error) {
	if rangeDays <= 0 || rangeDays > AnalyticsMaxRangeDays {
		rangeDays = AnalyticsDefaultRangeDays
	}
	since := utils.UTCNow().AddDate(0, 0, -rangeDays)

	profile, err := af.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Analytics lookup failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}

	links, err := af.linkRepo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Analytics lookup failed", err)
	}

	var totalClicks int64
	for _, l := range links {
		totalClicks += l.ClickCount
	}

	clicksInRange, err := af.clickRepo.CountByProfileSince(ctx, profileID, since)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Analytics lookup failed", err)
	}

	daily, err := af.clickRepo.DailyCountsByProfile(ctx, profileID, since)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Analytics lookup failed", err)
	}

	byDevice, err := af.clickRepo.CountsByDevice(ctx, profileID, since)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Analytics lookup failed", err)
	}

	byBrowser, err := af.clickRepo.CountsByBrowser(ctx, profileID, since)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Analytics lookup failed", err)
	}

	topReferrers, err := af.clickRepo.CountsByReferrer(ctx, profileID, since, topReferrerLimit)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Analytics lookup failed", err)
	}

	return &dto.AnalyticsResponse{
		RangeDays:    rangeDays,
		TotalViews:   profile.TotalViews,
		TotalClicks:  totalClicks,
		ClicksInner:  clicksInRange,
		DailyClicks:  toDailyClicksDTO(daily),
		ByDevice:     toDimensionDTO(byDevice),
		ByBrowser:    toDimensionDTO(byBrowser),
		TopReferrers: toDimensionDTO(topReferrers),
		TopLinks:     topLinks(links, topLinkLimit),
	}, nil
}

func toDailyClicksDTO(rows []repository.DailyClickCount) []dto.DailyClicksDTO {
	out := make([]dto.DailyClicksDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DailyClicksDTO{Day: r.Day.In(time.UTC), Count: r.Count})
	}
	return out
}

func toDimensionDTO(rows []repository.DimensionCount) []dto.DimensionCountDTO {
	out := make([]dto.DimensionCountDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DimensionCountDTO{Value: r.Value, Count: r.Count})
	}
	return out
}

func topLinks(links []*models.Link, limit int) []dto.TopLinkDTO {
	sorted := make([]*models.Link, len(links))
	copy(sorted, links)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ClickCount > sorted[j].ClickCount
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]dto.TopLinkDTO, 0, len(sorted))
	for _, l := range sorted {
		if l.ClickCount == 0 {
			continue
		}
		out = append(out, dto.TopLinkDTO{
			ID:         l.ID,
			Title:      l.Title,
			URL:        l.URL,
			ClickCount: l.ClickCount,
		})
	}
	return out
}
