package dto

// ResolvedThemeDTO is the final theme after layering custom overrides on the
// selected preset. Field order of precedence: custom value, preset value,
// platform fallback.
type ResolvedThemeDTO struct {
	ThemeID        string `json:"theme_id"`
	Background     string `json:"background"`
	BackgroundType string `json:"background_type"`
	TextColor      string `json:"text_color"`
	ButtonStyle    string `json:"button_style"`
	ButtonColor    string `json:"button_color,omitempty"`
	FontFamily     string `json:"font_family"`
}

// PublicLinkDTO is the visitor-facing view of a link. Click counts and
// scheduling internals are not exposed.
type PublicLinkDTO struct {
	ID       uint     `json:"id"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	IconURL  *string  `json:"icon_url,omitempty"`
	LinkType string   `json:"link_type"`
	Price    *float64 `json:"price,omitempty"`
	Currency *string  `json:"currency,omitempty"`
	CTAText  *string  `json:"cta_text,omitempty"`
	IsPinned bool     `json:"is_pinned"`
}

// PublicLinkSectionDTO is one rendered section of the page. For a grouped
// layout Title is the group title, for a categorized layout it is the
// category name. The ungrouped/uncategorized section has an empty title and
// always renders first.
type PublicLinkSectionDTO struct {
	Title       string          `json:"title"`
	GroupID     *uint           `json:"group_id,omitempty"`
	IsCollapsed bool            `json:"is_collapsed"`
	Links       []PublicLinkDTO `json:"links"`
}

// Link arrangement kinds for the public page
const (
	ArrangementGrouped     = "grouped"
	ArrangementCategorized = "categorized"
	ArrangementFlat        = "flat"
)

// PublicSocialLinkDTO is one visible social icon on the page
type PublicSocialLinkDTO struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// PublicSEODTO carries page metadata for server-side rendering
type PublicSEODTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords,omitempty"`
	OGImageURL  string `json:"og_image_url,omitempty"`
}

// PublicPageResponse is the full payload for rendering a public profile page
type PublicPageResponse struct {
	Username              string                 `json:"username"`
	DisplayName           string                 `json:"display_name"`
	Bio                   string                 `json:"bio"`
	AvatarURL             *string                `json:"avatar_url,omitempty"`
	BannerURL             *string                `json:"banner_url,omitempty"`
	Plan                  string                 `json:"plan"`
	LayoutMode            string                 `json:"layout_mode"`
	Theme                 ResolvedThemeDTO       `json:"theme"`
	Arrangement           string                 `json:"arrangement"`
	Sections              []PublicLinkSectionDTO `json:"sections"`
	SocialLinks           []PublicSocialLinkDTO  `json:"social_links,omitempty"`
	SEO                   *PublicSEODTO          `json:"seo,omitempty"`
	EnableEmailCollection bool                   `json:"enable_email_collection"`
	TotalViews            int64                  `json:"total_views"`
}

// ClickRedirectResponse carries the destination of a tracked click
type ClickRedirectResponse struct {
	URL string `json:"url"`
}

// Common error codes for public page operations
const (
	ErrorPageNotFound = "PAGE_NOT_FOUND"
)
