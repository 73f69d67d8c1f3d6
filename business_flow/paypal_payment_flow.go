package businessflow

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/services"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"github.com/silovra/silovra-backend/utils"
	"gorm.io/gorm"
)

// PayPalPaymentFlow handles the one-time PayPal upgrade to the Pro plan
type PayPalPaymentFlow interface {
	CreateOrder(ctx context.Context, profileID uint) (*dto.CreatePayPalOrderResponse, error)
	CaptureOrder(ctx context.Context, profileID uint, request *dto.CapturePayPalOrderRequest) (*dto.CapturePayPalOrderResponse, error)
}

// PayPalPaymentFlowImpl implements the PayPal billing business flow
type PayPalPaymentFlowImpl struct {
	profileRepo      repository.ProfileRepository
	paymentEventRepo repository.PaymentEventRepository
	notificationRepo repository.NotificationRepository
	paypalClient     *services.PayPalClient
	paymentConfig    *config.PaymentConfig
	db               *gorm.DB
}

// NewPayPalPaymentFlow creates a new PayPal payment flow instance
func NewPayPalPaymentFlow(
	profileRepo repository.ProfileRepository,
	paymentEventRepo repository.PaymentEventRepository,
	notificationRepo repository.NotificationRepository,
	paypalClient *services.PayPalClient,
	paymentConfig *config.PaymentConfig,
	db *gorm.DB,
) PayPalPaymentFlow {
	return &PayPalPaymentFlowImpl{
		profileRepo:      profileRepo,
		paymentEventRepo: paymentEventRepo,
		notificationRepo: notificationRepo,
		paypalClient:     paypalClient,
		paymentConfig:    paymentConfig,
		db:               db,
	}
}

// CreateOrder opens a PayPal order for the Pro plan price. The profile UUID
// travels in custom_id so the capture can be cross-checked.
func (ppf *PayPalPaymentFlowImpl) CreateOrder(ctx context.Context, profileID uint) (*dto.CreatePayPalOrderResponse, error) {
	profile, err := ppf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("PAYPAL_ORDER_FAILED", "PayPal order failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}
	if profile.IsPro() {
		return nil, NewBusinessError("ALREADY_PRO", "Already on the pro plan", ErrAlreadyPro)
	}

	order, err := ppf.paypalClient.CreateOrder(
		ctx,
		utils.ProPlanPriceUSD,
		profile.UUID.String(),
		ppf.paymentConfig.PayPalReturnURL,
		ppf.paymentConfig.PayPalCancelURL,
	)
	if err != nil {
		return nil, NewBusinessError("PAYMENT_PROVIDER_FAILURE", "Payment provider failure", ErrPaymentProviderFailure)
	}

	return &dto.CreatePayPalOrderResponse{OrderID: order.ID, URL: order.ApproveURL}, nil
}

// CaptureOrder captures an approved order and upgrades the profile. The
// recorded reference is "paypal_<orderID>", so a double capture of the same
// order is a no-op upgrade.
func (ppf *PayPalPaymentFlowImpl) CaptureOrder(ctx context.Context, profileID uint, request *dto.CapturePayPalOrderRequest) (*dto.CapturePayPalOrderResponse, error) {
	profile, err := ppf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("PAYPAL_CAPTURE_FAILED", "PayPal capture failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}

	reference := "paypal_" + request.OrderID
	existing, err := ppf.paymentEventRepo.ByProviderAndReference(ctx, utils.ProviderPayPal, reference)
	if err != nil {
		return nil, NewBusinessError("PAYPAL_CAPTURE_FAILED", "PayPal capture failed", err)
	}
	if existing != nil {
		return &dto.CapturePayPalOrderResponse{Status: services.PayPalStatusCompleted, Plan: utils.PlanPro}, nil
	}

	capture, err := ppf.paypalClient.CaptureOrder(ctx, request.OrderID)
	if err != nil {
		return nil, NewBusinessError("PAYMENT_PROVIDER_FAILURE", "Payment provider failure", ErrPaymentProviderFailure)
	}
	if capture.Status != services.PayPalStatusCompleted {
		return nil, NewBusinessError("PAYMENT_NOT_COMPLETED", "Payment not completed", ErrPaymentNotCompleted)
	}
	if capture.CustomID != "" {
		if parsed, err := uuid.Parse(capture.CustomID); err != nil || parsed != profile.UUID {
			return nil, NewBusinessError("PAYPAL_CAPTURE_FAILED", "PayPal capture failed", ErrPaymentNotCompleted)
		}
	}

	raw, _ := json.Marshal(capture)

	err = repository.WithTransaction(ctx, ppf.db, func(ctx context.Context) error {
		amount := float64(utils.ProPlanPriceUSD)
		if err := ppf.paymentEventRepo.Save(ctx, &models.PaymentEvent{
			ProfileID: profile.ID,
			Provider:  utils.ProviderPayPal,
			Reference: reference,
			EventType: "order.captured",
			Status:    models.PaymentEventStatusCompleted,
			AmountUSD: &amount,
			RawEvent:  raw,
		}); err != nil {
			return err
		}

		if err := ppf.profileRepo.UpdatePlan(ctx, profile.ID, utils.PlanPro, profile.PaymentCustomerRef); err != nil {
			return err
		}

		return ppf.notificationRepo.Save(ctx, &models.Notification{
			ProfileID: profile.ID,
			Type:      models.NotificationTypeBilling,
			Message:   "Your Pro upgrade via PayPal is complete",
			IsRead:    utils.ToPtr(false),
		})
	})
	if err != nil {
		return nil, NewBusinessError("PAYPAL_CAPTURE_FAILED", "PayPal capture failed", err)
	}

	return &dto.CapturePayPalOrderResponse{Status: capture.Status, Plan: utils.PlanPro}, nil
}
