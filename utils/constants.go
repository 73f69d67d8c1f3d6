package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour

	// AuthCodeTTL is the time-to-live for one-time auth callback codes
	AuthCodeTTL = 10 * time.Minute
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Plan constants
const (
	PlanFree = "free"
	PlanPro  = "pro"

	// FreePlanLinkLimit is the maximum number of links a free profile may hold
	FreePlanLinkLimit = 5

	// ProPlanPriceUSD is the monthly Pro subscription price in US dollars
	ProPlanPriceUSD = 9
)

// Payment provider identifiers, used as the provider column on payment events
const (
	ProviderStripe      = "stripe"
	ProviderPayPal      = "paypal"
	ProviderNOWPayments = "nowpayments"
)

// Public page constants
const (
	// PublicPageCacheTTL is how long a resolved public page stays in cache
	PublicPageCacheTTL = 60 * time.Second
)
