package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/middleware"
	businessflow "github.com/silovra/silovra-backend/business_flow"
	"github.com/silovra/silovra-backend/utils"
)

// PaymentHandlerInterface defines the contract for billing handlers
type PaymentHandlerInterface interface {
	CreateCheckoutSession(c fiber.Ctx) error
	CreatePortalSession(c fiber.Ctx) error
	StripeWebhook(c fiber.Ctx) error
	CreatePayPalOrder(c fiber.Ctx) error
	CapturePayPalOrder(c fiber.Ctx) error
	CreateCryptoInvoice(c fiber.Ctx) error
	CryptoIPN(c fiber.Ctx) error
	GetBillingStatus(c fiber.Ctx) error
}

// PaymentHandler handles checkout, webhooks and billing status for all
// three payment providers
type PaymentHandler struct {
	stripeFlow businessflow.StripePaymentFlow
	paypalFlow businessflow.PayPalPaymentFlow
	cryptoFlow businessflow.NOWPaymentsFlow
	validator  *validator.Validate
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	stripeFlow businessflow.StripePaymentFlow,
	paypalFlow businessflow.PayPalPaymentFlow,
	cryptoFlow businessflow.NOWPaymentsFlow,
) *PaymentHandler {
	return &PaymentHandler{
		stripeFlow: stripeFlow,
		paypalFlow: paypalFlow,
		cryptoFlow: cryptoFlow,
		validator:  newValidator(),
	}
}

// CreateCheckoutSession opens a Stripe Checkout session for the Pro plan
func (h *PaymentHandler) CreateCheckoutSession(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	result, err := h.stripeFlow.CreateCheckoutSession(createRequestContext(c, "/api/stripe/checkout"), profileID)
	if err != nil {
		if businessflow.IsAlreadyPro(err) {
			return errorResponse(c, fiber.StatusConflict, "Already on the pro plan", dto.ErrorAlreadyPro, nil)
		}
		if businessflow.IsPaymentProviderFailure(err) {
			return errorResponse(c, fiber.StatusBadGateway, "Payment provider failure", dto.ErrorPaymentProviderFailure, nil)
		}

		log.Println("Checkout session failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Checkout failed", "CHECKOUT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Checkout session created", result)
}

// CreatePortalSession opens the Stripe billing portal
func (h *PaymentHandler) CreatePortalSession(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	result, err := h.stripeFlow.CreatePortalSession(createRequestContext(c, "/api/stripe/portal"), profileID)
	if err != nil {
		if businessflow.IsPaymentNotCompleted(err) {
			return errorResponse(c, fiber.StatusBadRequest, "No billing account for this profile", dto.ErrorPaymentNotCompleted, nil)
		}
		if businessflow.IsPaymentProviderFailure(err) {
			return errorResponse(c, fiber.StatusBadGateway, "Payment provider failure", dto.ErrorPaymentProviderFailure, nil)
		}

		log.Println("Portal session failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Portal failed", "PORTAL_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Portal session created", result)
}

// StripeWebhook receives Stripe events. The raw body is passed through
// untouched, signature verification needs the exact bytes Stripe signed.
func (h *PaymentHandler) StripeWebhook(c fiber.Ctx) error {
	result, err := h.stripeFlow.HandleWebhook(createRequestContext(c, "/api/stripe/webhook"), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		if businessflow.IsInvalidWebhookSignature(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid webhook signature", dto.ErrorInvalidWebhookSignature, nil)
		}

		log.Println("Stripe webhook failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Webhook failed", "WEBHOOK_FAILED", nil)
	}

	if result.PlanUpgraded {
		middleware.RecordPlanUpgrade(utils.ProviderStripe)
	}
	return successResponse(c, fiber.StatusOK, "Webhook received", result)
}

// CreatePayPalOrder opens a PayPal order for the Pro plan
func (h *PaymentHandler) CreatePayPalOrder(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	result, err := h.paypalFlow.CreateOrder(createRequestContext(c, "/api/paypal/create-order"), profileID)
	if err != nil {
		if businessflow.IsAlreadyPro(err) {
			return errorResponse(c, fiber.StatusConflict, "Already on the pro plan", dto.ErrorAlreadyPro, nil)
		}
		if businessflow.IsPaymentProviderFailure(err) {
			return errorResponse(c, fiber.StatusBadGateway, "Payment provider failure", dto.ErrorPaymentProviderFailure, nil)
		}

		log.Println("PayPal order failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "PayPal order failed", "PAYPAL_ORDER_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "PayPal order created", result)
}

// CapturePayPalOrder captures an approved PayPal order. PayPal's return
// redirect arrives as a GET with the order id in the token query param,
// the dashboard posts the same payload as JSON.
func (h *PaymentHandler) CapturePayPalOrder(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	var req dto.CapturePayPalOrderRequest
	if c.Method() == fiber.MethodGet {
		if err := c.Bind().Query(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request", "INVALID_REQUEST", err.Error())
		}
	} else {
		if err := c.Bind().JSON(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.paypalFlow.CaptureOrder(createRequestContext(c, "/api/paypal/capture"), profileID, &req)
	if err != nil {
		if businessflow.IsPaymentNotCompleted(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Payment was not completed", dto.ErrorPaymentNotCompleted, nil)
		}
		if businessflow.IsPaymentProviderFailure(err) {
			return errorResponse(c, fiber.StatusBadGateway, "Payment provider failure", dto.ErrorPaymentProviderFailure, nil)
		}

		log.Println("PayPal capture failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "PayPal capture failed", "PAYPAL_CAPTURE_FAILED", nil)
	}

	if result.Plan == utils.PlanPro {
		middleware.RecordPlanUpgrade(utils.ProviderPayPal)
	}
	return successResponse(c, fiber.StatusOK, "PayPal order captured", result)
}

// CreateCryptoInvoice opens a NOWPayments hosted invoice for the Pro plan
func (h *PaymentHandler) CreateCryptoInvoice(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	result, err := h.cryptoFlow.CreateInvoice(createRequestContext(c, "/api/nowpayments/invoice"), profileID)
	if err != nil {
		if businessflow.IsAlreadyPro(err) {
			return errorResponse(c, fiber.StatusConflict, "Already on the pro plan", dto.ErrorAlreadyPro, nil)
		}
		if businessflow.IsPaymentProviderFailure(err) {
			return errorResponse(c, fiber.StatusBadGateway, "Payment provider failure", dto.ErrorPaymentProviderFailure, nil)
		}

		log.Println("Crypto invoice failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Crypto invoice failed", "CRYPTO_INVOICE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Crypto invoice created", result)
}

// CryptoIPN receives NOWPayments instant payment notifications
func (h *PaymentHandler) CryptoIPN(c fiber.Ctx) error {
	result, err := h.cryptoFlow.HandleIPN(createRequestContext(c, "/api/webhooks/nowpayments"), c.Body(), c.Get("x-nowpayments-sig"))
	if err != nil {
		if businessflow.IsInvalidWebhookSignature(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid webhook signature", dto.ErrorInvalidWebhookSignature, nil)
		}

		log.Println("Crypto IPN failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "IPN failed", "IPN_FAILED", nil)
	}

	if result.PlanUpgraded {
		middleware.RecordPlanUpgrade(utils.ProviderNOWPayments)
	}
	return successResponse(c, fiber.StatusOK, "IPN received", result)
}

// GetBillingStatus returns the caller's plan and billing reference
func (h *PaymentHandler) GetBillingStatus(c fiber.Ctx) error {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHENTICATED", nil)
	}

	result, err := h.stripeFlow.GetBillingStatus(createRequestContext(c, "/api/payments/status"), profileID)
	if err != nil {
		log.Println("Billing status failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Billing status failed", "BILLING_STATUS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Billing status resolved", result)
}
