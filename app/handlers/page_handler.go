package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/app/middleware"
	businessflow "github.com/silovra/silovra-backend/business_flow"
)

// PageHandlerInterface defines the contract for visitor-facing handlers
type PageHandlerInterface interface {
	GetPublicPage(c fiber.Ctx) error
	ClickRedirect(c fiber.Ctx) error
	Subscribe(c fiber.Ctx) error
}

// PageHandler serves the public page, click redirects and subscriptions
type PageHandler struct {
	pageFlow       businessflow.PageFlow
	clickFlow      businessflow.ClickFlow
	subscriberFlow businessflow.SubscriberFlow
	frontendURL    string
	validator      *validator.Validate
}

// NewPageHandler creates a new public page handler
func NewPageHandler(
	pageFlow businessflow.PageFlow,
	clickFlow businessflow.ClickFlow,
	subscriberFlow businessflow.SubscriberFlow,
	frontendURL string,
) *PageHandler {
	return &PageHandler{
		pageFlow:       pageFlow,
		clickFlow:      clickFlow,
		subscriberFlow: subscriberFlow,
		frontendURL:    frontendURL,
		validator:      newValidator(),
	}
}

// GetPublicPage renders the full page payload for a username
func (h *PageHandler) GetPublicPage(c fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return errorResponse(c, fiber.StatusNotFound, "Page not found", dto.ErrorPageNotFound, nil)
	}

	result, err := h.pageFlow.GetPublicPage(createRequestContext(c, "/api/pages/:username"), username)
	if err != nil {
		if businessflow.IsPageNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Page not found", dto.ErrorPageNotFound, nil)
		}

		log.Println("Public page lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Page lookup failed", "PAGE_LOOKUP_FAILED", nil)
	}

	middleware.RecordPageView()
	return successResponse(c, fiber.StatusOK, "Page resolved", result)
}

// ClickRedirect records a click and redirects to the link target. Unknown
// or hidden links land on the site root instead of an error page, the
// visitor followed a shared URL and has no use for a JSON body.
func (h *PageHandler) ClickRedirect(c fiber.Ctx) error {
	linkID, err := strconv.ParseUint(c.Params("linkId"), 10, 64)
	if err != nil {
		return c.Redirect().Status(fiber.StatusFound).To(h.frontendURL)
	}

	metadata := clientMetadata(c)

	result, err := h.clickFlow.RegisterClick(createRequestContext(c, "/api/click/:linkId"), uint(linkID), metadata)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return c.Redirect().Status(fiber.StatusFound).To(h.frontendURL)
		}

		log.Println("Click redirect failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Click failed", "CLICK_FAILED", nil)
	}

	middleware.RecordLinkClick()
	return c.Redirect().Status(fiber.StatusFound).To(result.URL)
}

// Subscribe collects a visitor's email for a page
func (h *PageHandler) Subscribe(c fiber.Ctx) error {
	username := c.Params("username")

	var req dto.SubscribeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.subscriberFlow.Subscribe(createRequestContext(c, "/api/subscribe/:username"), username, &req)
	if err != nil {
		if businessflow.IsPageNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Page not found", dto.ErrorPageNotFound, nil)
		}
		if businessflow.IsEmailCollectionDisabled(err) {
			return errorResponse(c, fiber.StatusForbidden, "Email collection is disabled", dto.ErrorEmailCollectionDisabled, nil)
		}

		log.Println("Subscribe failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Subscribe failed", "SUBSCRIBE_FAILED", nil)
	}

	middleware.RecordSubscription()
	return successResponse(c, fiber.StatusOK, "Subscribed", result)
}
