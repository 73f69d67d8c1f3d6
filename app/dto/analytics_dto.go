package dto

import (
	"time"
)

// DailyClicksDTO is one day of aggregated clicks
type DailyClicksDTO struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

// DimensionCountDTO is an aggregated count for one value of a dimension
type DimensionCountDTO struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// TopLinkDTO is one entry of the most-clicked links list
type TopLinkDTO struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	ClickCount int64  `json:"click_count"`
}

// AnalyticsResponse is the dashboard analytics payload for one time range
type AnalyticsResponse struct {
	RangeDays    int                 `json:"range_days"`
	TotalViews   int64               `json:"total_views"`
	TotalClicks  int64               `json:"total_clicks"`
	ClicksInner  int64               `json:"clicks_in_range"`
	DailyClicks  []DailyClicksDTO    `json:"daily_clicks"`
	ByDevice     []DimensionCountDTO `json:"by_device"`
	ByBrowser    []DimensionCountDTO `json:"by_browser"`
	TopReferrers []DimensionCountDTO `json:"top_referrers"`
	TopLinks     []TopLinkDTO        `json:"top_links"`
}
