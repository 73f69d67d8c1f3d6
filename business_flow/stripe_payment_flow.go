package businessflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/services"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"github.com/silovra/silovra-backend/utils"
	"gorm.io/gorm"
)

// StripePaymentFlow handles card subscriptions through Stripe Checkout
type StripePaymentFlow interface {
	CreateCheckoutSession(ctx context.Context, profileID uint) (*dto.CreateCheckoutSessionResponse, error)
	CreatePortalSession(ctx context.Context, profileID uint) (*dto.CreatePortalSessionResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (*dto.WebhookAckResponse, error)
	GetBillingStatus(ctx context.Context, profileID uint) (*dto.BillingStatusResponse, error)
}

// StripePaymentFlowImpl implements the Stripe billing business flow
type StripePaymentFlowImpl struct {
	profileRepo      repository.ProfileRepository
	paymentEventRepo repository.PaymentEventRepository
	notificationRepo repository.NotificationRepository
	stripeClient     *services.StripeClient
	paymentConfig    *config.PaymentConfig
	db               *gorm.DB
}

// NewStripePaymentFlow creates a new Stripe payment flow instance
func NewStripePaymentFlow(
	profileRepo repository.ProfileRepository,
	paymentEventRepo repository.PaymentEventRepository,
	notificationRepo repository.NotificationRepository,
	stripeClient *services.StripeClient,
	paymentConfig *config.PaymentConfig,
	db *gorm.DB,
) StripePaymentFlow {
	return &StripePaymentFlowImpl{
		profileRepo:      profileRepo,
		paymentEventRepo: paymentEventRepo,
		notificationRepo: notificationRepo,
		stripeClient:     stripeClient,
		paymentConfig:    paymentConfig,
		db:               db,
	}
}

// CreateCheckoutSession opens a Checkout session for the Pro subscription.
// The profile UUID rides along as client_reference_id so the webhook can
// find the account without a customer mapping.
func (spf *StripePaymentFlowImpl) CreateCheckoutSession(ctx context.Context, profileID uint) (*dto.CreateCheckoutSessionResponse, error) {
	profile, err := spf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("CHECKOUT_FAILED", "Checkout failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}
	if profile.IsPro() {
		return nil, NewBusinessError("ALREADY_PRO", "Already on the pro plan", ErrAlreadyPro)
	}

	session, err := spf.stripeClient.CreateCheckoutSession(
		ctx,
		profile.Email,
		profile.UUID.String(),
		spf.paymentConfig.CheckoutSuccessURL,
		spf.paymentConfig.CheckoutCancelURL,
	)
	if err != nil {
		return nil, NewBusinessError("PAYMENT_PROVIDER_FAILURE", "Payment provider failure", ErrPaymentProviderFailure)
	}

	return &dto.CreateCheckoutSessionResponse{SessionID: session.ID, URL: session.URL}, nil
}

// CreatePortalSession opens the Stripe billing portal. Only profiles that
// completed a checkout have a customer reference.
func (spf *StripePaymentFlowImpl) CreatePortalSession(ctx context.Context, profileID uint) (*dto.CreatePortalSessionResponse, error) {
	profile, err := spf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("PORTAL_FAILED", "Portal failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}
	if profile.PaymentCustomerRef == nil || *profile.PaymentCustomerRef == "" {
		return nil, NewBusinessError("PAYMENT_NOT_COMPLETED", "No billing account", ErrPaymentNotCompleted)
	}

	portalURL, err := spf.stripeClient.CreatePortalSession(ctx, *profile.PaymentCustomerRef, spf.paymentConfig.PortalReturnURL)
	if err != nil {
		return nil, NewBusinessError("PAYMENT_PROVIDER_FAILURE", "Payment provider failure", ErrPaymentProviderFailure)
	}

	return &dto.CreatePortalSessionResponse{URL: portalURL}, nil
}

// HandleWebhook verifies and applies a Stripe event. Events are recorded
// under their Stripe event id, so retries hit the existing row and are
// acknowledged without reapplying the plan change.
func (spf *StripePaymentFlowImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (*dto.WebhookAckResponse, error) {
	event, err := spf.stripeClient.ConstructWebhookEvent(payload, sigHeader)
	if err != nil {
		return nil, NewBusinessError("INVALID_WEBHOOK_SIGNATURE", "Invalid webhook signature", ErrInvalidWebhookSignature)
	}

	existing, err := spf.paymentEventRepo.ByProviderAndReference(ctx, utils.ProviderStripe, event.ID)
	if err != nil {
		return nil, NewBusinessError("WEBHOOK_FAILED", "Webhook handling failed", err)
	}
	if existing != nil {
		return &dto.WebhookAckResponse{Received: true}, nil
	}

	upgraded := false
	switch event.Type {
	case "checkout.session.completed":
		err = spf.handleCheckoutCompleted(ctx, event, payload)
		upgraded = err == nil
	case "customer.subscription.deleted", "invoice.payment_failed":
		err = spf.handleSubscriptionLost(ctx, event, payload)
	default:
		// Unhandled event types are acknowledged without side effects
	}
	if err != nil {
		return nil, NewBusinessError("WEBHOOK_FAILED", "Webhook handling failed", err)
	}

	return &dto.WebhookAckResponse{Received: true, PlanUpgraded: upgraded}, nil
}

// GetBillingStatus returns the profile's plan and provider reference
func (spf *StripePaymentFlowImpl) GetBillingStatus(ctx context.Context, profileID uint) (*dto.BillingStatusResponse, error) {
	profile, err := spf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("BILLING_STATUS_FAILED", "Billing status failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}

	return &dto.BillingStatusResponse{
		Plan:               profile.Plan,
		PaymentCustomerRef: profile.PaymentCustomerRef,
	}, nil
}

func (spf *StripePaymentFlowImpl) handleCheckoutCompleted(ctx context.Context, event *services.StripeEvent, payload []byte) error {
	var session services.StripeCheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return err
	}

	parsed, err := uuid.Parse(session.ClientReferenceID)
	if err != nil {
		return ErrProfileNotFound
	}
	profile, err := spf.profileRepo.ByUUID(ctx, parsed)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}

	return repository.WithTransaction(ctx, spf.db, func(ctx context.Context) error {
		amount := float64(utils.ProPlanPriceUSD)
		if err := spf.paymentEventRepo.Save(ctx, &models.PaymentEvent{
			ProfileID: profile.ID,
			Provider:  utils.ProviderStripe,
			Reference: event.ID,
			EventType: event.Type,
			Status:    models.PaymentEventStatusCompleted,
			AmountUSD: &amount,
			RawEvent:  payload,
		}); err != nil {
			return err
		}

		var customerRef *string
		if session.Customer != "" {
			customerRef = &session.Customer
		}
		if err := spf.profileRepo.UpdatePlan(ctx, profile.ID, utils.PlanPro, customerRef); err != nil {
			return err
		}

		return spf.notificationRepo.Save(ctx, &models.Notification{
			ProfileID: profile.ID,
			Type:      models.NotificationTypeBilling,
			Message:   "Your Pro subscription is active",
			IsRead:    utils.ToPtr(false),
		})
	})
}

func (spf *StripePaymentFlowImpl) handleSubscriptionLost(ctx context.Context, event *services.StripeEvent, payload []byte) error {
	var object struct {
		Customer string `json:"customer"`
	}
	if err := json.Unmarshal(event.Data.Object, &object); err != nil {
		return err
	}
	if object.Customer == "" {
		return nil
	}

	profile, err := spf.profileRepo.ByPaymentCustomerRef(ctx, object.Customer)
	if err != nil {
		return err
	}
	if profile == nil {
		return nil
	}

	return repository.WithTransaction(ctx, spf.db, func(ctx context.Context) error {
		if err := spf.paymentEventRepo.Save(ctx, &models.PaymentEvent{
			ProfileID: profile.ID,
			Provider:  utils.ProviderStripe,
			Reference: event.ID,
			EventType: event.Type,
			Status:    models.PaymentEventStatusCompleted,
			RawEvent:  payload,
		}); err != nil {
			return err
		}

		// Customer ref is kept so the portal still works for resubscribing
		if err := spf.profileRepo.UpdatePlan(ctx, profile.ID, utils.PlanFree, profile.PaymentCustomerRef); err != nil {
			return err
		}

		message := "Your Pro subscription has ended"
		if event.Type == "invoice.payment_failed" {
			message = fmt.Sprintf("A payment failed and your plan was downgraded (%s)", event.ID)
		}
		return spf.notificationRepo.Save(ctx, &models.Notification{
			ProfileID: profile.ID,
			Type:      models.NotificationTypeBilling,
			Message:   message,
			IsRead:    utils.ToPtr(false),
		})
	})
}
