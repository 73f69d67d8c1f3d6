package businessflow

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/services"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"github.com/silovra/silovra-backend/utils"
	"gorm.io/gorm"
)

// NOWPaymentsFlow handles the crypto upgrade path through NOWPayments
type NOWPaymentsFlow interface {
	CreateInvoice(ctx context.Context, profileID uint) (*dto.CreateCryptoInvoiceResponse, error)
	HandleIPN(ctx context.Context, payload []byte, sigHeader string) (*dto.WebhookAckResponse, error)
}

// NOWPaymentsFlowImpl implements the NOWPayments billing business flow
type NOWPaymentsFlowImpl struct {
	profileRepo      repository.ProfileRepository
	paymentEventRepo repository.PaymentEventRepository
	notificationRepo repository.NotificationRepository
	nowClient        *services.NOWPaymentsClient
	paymentConfig    *config.PaymentConfig
	db               *gorm.DB
}

// NewNOWPaymentsFlow creates a new NOWPayments flow instance
func NewNOWPaymentsFlow(
	profileRepo repository.ProfileRepository,
	paymentEventRepo repository.PaymentEventRepository,
	notificationRepo repository.NotificationRepository,
	nowClient *services.NOWPaymentsClient,
	paymentConfig *config.PaymentConfig,
	db *gorm.DB,
) NOWPaymentsFlow {
	return &NOWPaymentsFlowImpl{
		profileRepo:      profileRepo,
		paymentEventRepo: paymentEventRepo,
		notificationRepo: notificationRepo,
		nowClient:        nowClient,
		paymentConfig:    paymentConfig,
		db:               db,
	}
}

// CreateInvoice opens a hosted crypto invoice for the Pro plan. The profile
// UUID is used as the order id so the IPN can find the account.
func (npf *NOWPaymentsFlowImpl) CreateInvoice(ctx context.Context, profileID uint) (*dto.CreateCryptoInvoiceResponse, error) {
	profile, err := npf.profileRepo.ByID(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("CRYPTO_INVOICE_FAILED", "Crypto invoice failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}
	if profile.IsPro() {
		return nil, NewBusinessError("ALREADY_PRO", "Already on the pro plan", ErrAlreadyPro)
	}

	invoice, err := npf.nowClient.CreateInvoice(
		ctx,
		utils.ProPlanPriceUSD,
		profile.UUID.String(),
		"Pro plan upgrade",
		npf.paymentConfig.IPNCallbackURL,
		npf.paymentConfig.CryptoSuccessURL,
		npf.paymentConfig.CryptoCancelURL,
	)
	if err != nil {
		return nil, NewBusinessError("PAYMENT_PROVIDER_FAILURE", "Payment provider failure", ErrPaymentProviderFailure)
	}

	return &dto.CreateCryptoInvoiceResponse{InvoiceID: invoice.ID, InvoiceURL: invoice.InvoiceURL}, nil
}

// nowIPNPayload is the subset of the IPN body the flow acts on
type nowIPNPayload struct {
	PaymentID     json.Number `json:"payment_id"`
	PaymentStatus string      `json:"payment_status"`
	OrderID       string      `json:"order_id"`
	PriceAmount   float64     `json:"price_amount"`
}

// HandleIPN verifies and applies a NOWPayments instant payment notification.
// Only finished and confirmed payments flip the plan, intermediate statuses
// are acknowledged without side effects.
func (npf *NOWPaymentsFlowImpl) HandleIPN(ctx context.Context, payload []byte, sigHeader string) (*dto.WebhookAckResponse, error) {
	if !verifyNOWPaymentsSignature(payload, sigHeader, npf.nowClient.IPNSecret) {
		return nil, NewBusinessError("INVALID_WEBHOOK_SIGNATURE", "Invalid webhook signature", ErrInvalidWebhookSignature)
	}

	var ipn nowIPNPayload
	if err := json.Unmarshal(payload, &ipn); err != nil {
		return nil, NewBusinessError("IPN_FAILED", "IPN handling failed", err)
	}

	if ipn.PaymentStatus != "finished" && ipn.PaymentStatus != "confirmed" {
		return &dto.WebhookAckResponse{Received: true}, nil
	}

	reference := "nowpayments_" + ipn.PaymentID.String()
	existing, err := npf.paymentEventRepo.ByProviderAndReference(ctx, utils.ProviderNOWPayments, reference)
	if err != nil {
		return nil, NewBusinessError("IPN_FAILED", "IPN handling failed", err)
	}
	if existing != nil {
		return &dto.WebhookAckResponse{Received: true}, nil
	}

	parsed, err := uuid.Parse(ipn.OrderID)
	if err != nil {
		return nil, NewBusinessError("IPN_FAILED", "IPN handling failed", ErrProfileNotFound)
	}
	profile, err := npf.profileRepo.ByUUID(ctx, parsed)
	if err != nil {
		return nil, NewBusinessError("IPN_FAILED", "IPN handling failed", err)
	}
	if profile == nil {
		return nil, NewBusinessError("IPN_FAILED", "IPN handling failed", ErrProfileNotFound)
	}

	err = repository.WithTransaction(ctx, npf.db, func(ctx context.Context) error {
		amount := ipn.PriceAmount
		if amount == 0 {
			amount = float64(utils.ProPlanPriceUSD)
		}
		if err := npf.paymentEventRepo.Save(ctx, &models.PaymentEvent{
			ProfileID: profile.ID,
			Provider:  utils.ProviderNOWPayments,
			Reference: reference,
			EventType: "payment." + ipn.PaymentStatus,
			Status:    models.PaymentEventStatusCompleted,
			AmountUSD: &amount,
			RawEvent:  payload,
		}); err != nil {
			return err
		}

		if err := npf.profileRepo.UpdatePlan(ctx, profile.ID, utils.PlanPro, profile.PaymentCustomerRef); err != nil {
			return err
		}

		return npf.notificationRepo.Save(ctx, &models.Notification{
			ProfileID: profile.ID,
			Type:      models.NotificationTypeBilling,
			Message:   "Your Pro upgrade via crypto is complete",
			IsRead:    utils.ToPtr(false),
		})
	})
	if err != nil {
		return nil, NewBusinessError("IPN_FAILED", "IPN handling failed", err)
	}

	return &dto.WebhookAckResponse{Received: true, PlanUpgraded: true}, nil
}

// verifyNOWPaymentsSignature checks the x-nowpayments-sig header. The
// signature is an HMAC-SHA512 over the payload's top-level fields rendered
// as key=value pairs, sorted by key and joined with "&".
func verifyNOWPaymentsSignature(payload []byte, sigHeader, secret string) bool {
	if sigHeader == "" || secret == "" {
		return false
	}

	var fields map[string]any
	decoder := json.NewDecoder(strings.NewReader(string(payload)))
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		return false
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	message := strings.Join(pairs, "&")

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(message))
	expected := hex.EncodeToString(mac.Sum(nil))

	return strings.EqualFold(expected, sigHeader)
}
