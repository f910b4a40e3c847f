package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"parts-checkout/internal/core/logger"
	cart "parts-checkout/internal/features/cart/domain"
	"parts-checkout/internal/features/checkout/domain"
	"parts-checkout/internal/features/checkout/service"
	payments "parts-checkout/internal/features/payments/domain"
	shipping "parts-checkout/internal/features/shipping/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CheckoutHandler exposes the checkout orchestrator to the storefront.
type CheckoutHandler struct {
	service *service.CheckoutService
}

func NewCheckoutHandler(s *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: s}
}

// Register mounts every checkout route under /checkout.
func (h *CheckoutHandler) Register(router fiber.Router) {
	g := router.Group("/checkout")
	g.Get("/payment-methods", h.PaymentMethods)
	g.Get("/provinces", h.Provinces)

	g.Post("/sessions", h.Open)
	g.Get("/sessions/:id", h.GetSession)
	g.Put("/sessions/:id/cart", h.ReplaceCart)
	g.Patch("/sessions/:id/draft", h.UpdateDraft)
	g.Put("/sessions/:id/delivery", h.SetDelivery)
	g.Put("/sessions/:id/shipping-option", h.SelectShippingOption)
	g.Put("/sessions/:id/payment-method", h.SelectPaymentMethod)
	g.Post("/sessions/:id/quote", h.Quote)
	g.Post("/sessions/:id/prefill", h.Prefill)
	g.Post("/sessions/:id/submit", h.Submit)
	g.Post("/sessions/:id/finalize", h.Finalize)
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

type OpenSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// CartRequest is the current cart shape. The storefront's legacy shape, a bare
// array of items with partWeight, is accepted on the same route.
type CartRequest struct {
	Items []cart.CartLine `json:"items"`
}

type DeliveryRequest struct {
	DeliveryType string `json:"deliveryType"`
}

type ShippingOptionRequest struct {
	ID string `json:"id"`
}

type PaymentMethodRequest struct {
	Provider payments.ProviderID `json:"provider"`
}

type FinalizeRequest struct {
	Provider      payments.ProviderID `json:"provider"`
	TransactionID string              `json:"transactionId"`
}

type PrefillResponse struct {
	Prefilled bool         `json:"prefilled"`
	View      service.View `json:"view"`
}

func rayIDOf(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: msg, RayID: rayIDOf(c)})
}

// fail maps orchestrator errors onto HTTP statuses.
func (h *CheckoutHandler) fail(c *fiber.Ctx, op string, err error) error {
	rayID := rayIDOf(c)
	status := http.StatusInternalServerError
	msg := "Internal Server Error"

	var te *domain.TransitionError
	switch {
	case errors.Is(err, domain.ErrInvalidSessionID),
		errors.Is(err, shipping.ErrInvalidDeliveryType),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrNegativePrice),
		errors.Is(err, cart.ErrMissingPart):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrSessionNotFound):
		status, msg = http.StatusNotFound, "Checkout session not found"
	case errors.Is(err, domain.ErrSubmissionInProgress),
		errors.Is(err, domain.ErrCheckoutClosed),
		errors.As(err, &te):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrDeliveryTypeRequired),
		errors.Is(err, domain.ErrShippingOptionUnavailable),
		errors.Is(err, domain.ErrPaymentMethodUnavailable),
		errors.Is(err, shipping.ErrNoDestination):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	}

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("session_id", c.Params("id")),
		zap.String("ray_id", rayID),
		zap.Error(err),
	}
	if status == http.StatusInternalServerError {
		logger.Get().Error("Checkout request failed", fields...)
	} else {
		logger.Get().Debug("Checkout request rejected", append(fields, zap.Int("status", status))...)
	}

	return c.Status(status).JSON(ErrorResponse{Message: msg, RayID: rayID})
}

func (h *CheckoutHandler) session(c *fiber.Ctx) (*service.Session, error) {
	return h.service.Session(c.Params("id"))
}

// Open handles POST /checkout/sessions.
// @Summary Open a checkout
// @Description Page load: opens or reuses the session, restoring the cart snapshot when the live cart is empty.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param session body OpenSessionRequest false "Existing storefront session id"
// @Success 200 {object} service.View
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /checkout/sessions [post]
func (h *CheckoutHandler) Open(c *fiber.Ctx) error {
	var req OpenSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	view, err := h.service.Open(c.UserContext(), req.SessionID)
	if err != nil {
		return h.fail(c, "open", err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// GetSession handles GET /checkout/sessions/:id.
// @Summary Get a checkout
// @Tags Checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} service.View
// @Failure 404 {object} ErrorResponse
// @Router /checkout/sessions/{id} [get]
func (h *CheckoutHandler) GetSession(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, "get", err)
	}
	return c.Status(http.StatusOK).JSON(sess.View())
}

// ReplaceCart handles PUT /checkout/sessions/:id/cart.
// @Summary Replace the cart
// @Description Accepts {"items":[...]} or the storefront's legacy item array. Re-quotes shipping.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param cart body CartRequest true "Cart"
// @Success 200 {object} service.View
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /checkout/sessions/{id}/cart [put]
func (h *CheckoutHandler) ReplaceCart(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, "cart", err)
	}

	next, err := decodeCart(c.Body())
	if err != nil {
		if errors.Is(err, errBadCartBody) {
			return badRequest(c, "Invalid request body")
		}
		return h.fail(c, "cart", err)
	}

	view, err := sess.ReplaceCart(c.UserContext(), next)
	if err != nil {
		return h.fail(c, "cart", err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

var errBadCartBody = errors.New("malformed cart body")

func decodeCart(body []byte) (*cart.Cart, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var legacy []cart.LegacyLine
		if err := json.Unmarshal(body, &legacy); err != nil {
			return nil, errBadCartBody
		}
		return cart.CartFromLegacy(legacy)
	}

	var req CartRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errBadCartBody
	}
	return cart.NewCart(req.Items)
}

// UpdateDraft handles PATCH /checkout/sessions/:id/draft.
// @Summary Update form fields
// @Description Absent fields are left untouched. A new shipping province re-quotes.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param draft body domain.DraftPatch true "Changed fields"
// @Success 200 {object} service.View
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /checkout/sessions/{id}/draft [patch]
func (h *CheckoutHandler) UpdateDraft(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, "draft", err)
	}

	var patch domain.DraftPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}

	view, err := sess.UpdateDraft(patch)
	if err != nil {
		return h.fail(c, "draft", err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// SetDelivery handles PUT /checkout/sessions/:id/delivery.
// @Summary Choose pickup or shipping
// @Description Any change clears the payment method and the shipping option.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param delivery body DeliveryRequest true "pickup or shipping"
// @Success 200 {object} service.View
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /checkout/sessions/{id}/delivery [put]
func (h *CheckoutHandler) SetDelivery(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, "delivery", err)
	}

	var req DeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	view, err := sess.SetDeliveryType(req.DeliveryType)
	if err != nil {
		return h.fail(c, "delivery", err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// SelectShippingOption handles PUT /checkout/sessions/:id/shipping-option.
// @Summary Override the shipping option
// @Tags Checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param option body ShippingOptionRequest true "Option id"
// @Success 200 {object} service.View
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /checkout/sessions/{id}/shipping-option [put]
func (h *CheckoutHandler) SelectShippingOption(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, "shipping_option", err)
	}

	var req ShippingOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	view, err := sess.SelectShippingOption(req.ID)
	if err != nil {
		return h.fail(c, "shipping_option", err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// SelectPaymentMethod handles PUT /checkout/sessions/:id/payment-method.
// @Summary Choose a payment method
// @Tags Checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param method body PaymentMethodRequest true "Provider"
// @Success 200 {object} service.View
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /checkout/sessions/{id}/payment-method [put]
func (h *CheckoutHandler) SelectPaymentMethod(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, "payment_method", err)
	}

	var req PaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	view, err := sess.SelectPaymentProvider(c.UserContext(), req.Provider)
	if err != nil {
		return h.fail(c, "payment_method", err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// Quote handles POST /checkout/sessions/:id/quote.
// @Summary Quote shipping now
// @Description Runs a quote immediately. A failed quote is reported in quoteError.
// @Tags Checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} service.View
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /checkout/sessions/{id}/quote [post]
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, "quote", err)
	}

	view, err := sess.QuoteNow(c.UserContext())
	if err != nil {
		return h.fail(c, "quote", err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// Prefill handles POST /checkout/sessions/:id/prefill.
// @Summary Prefill from the customer profile
// @Description Forwards the storefront cookie. Guests get prefilled=false and an untouched form.
// @Tags Checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} PrefillResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /checkout/sessions/{id}/prefill [post]
func (h *CheckoutHandler) Prefill(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, "prefill", err)
	}

	view, ok, err := sess.Prefill(c.UserContext(), c.Get(fiber.HeaderCookie))
	if err != nil {
		return h.fail(c, "prefill", err)
	}
	return c.Status(http.StatusOK).JSON(PrefillResponse{Prefilled: ok, View: view})
}

// Submit handles POST /checkout/sessions/:id/submit.
// @Summary Place the order
// @Description Validates the form and dispatches it through the chosen payment method.
// @Tags Checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} service.SubmitResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /checkout/sessions/{id}/submit [post]
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, "submit", err)
	}

	res, err := sess.Submit(c.UserContext())
	if err != nil {
		return h.fail(c, "submit", err)
	}
	return c.Status(http.StatusOK).JSON(res)
}

// Finalize handles POST /checkout/sessions/:id/finalize.
// @Summary Complete a gateway payment
// @Description Creates the parked order with the gateway transaction id.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payment body FinalizeRequest true "Gateway result"
// @Success 200 {object} service.SubmitResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /checkout/sessions/{id}/finalize [post]
func (h *CheckoutHandler) Finalize(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, "finalize", err)
	}

	var req FinalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Provider == "" || req.TransactionID == "" {
		return badRequest(c, "provider and transactionId are required")
	}

	res, err := sess.Finalize(c.UserContext(), req.Provider, req.TransactionID)
	if err != nil {
		return h.fail(c, "finalize", err)
	}
	return c.Status(http.StatusOK).JSON(res)
}

// PaymentMethods handles GET /checkout/payment-methods.
// @Summary List payment methods
// @Description Configured methods legal for the delivery type.
// @Tags Checkout
// @Produce json
// @Param delivery query string false "pickup or shipping"
// @Success 200 {array} payments.PaymentMethodDescriptor
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /checkout/payment-methods [get]
func (h *CheckoutHandler) PaymentMethods(c *fiber.Ctx) error {
	delivery, err := shipping.ParseDeliveryType(c.Query("delivery"))
	if err != nil {
		return h.fail(c, "payment_methods", err)
	}

	methods, err := h.service.PaymentMethods(c.UserContext(), delivery)
	if err != nil {
		return h.fail(c, "payment_methods", err)
	}
	return c.Status(http.StatusOK).JSON(methods)
}

// Provinces handles GET /checkout/provinces.
// @Summary List provinces
// @Tags Checkout
// @Produce json
// @Success 200 {array} domain.Province
// @Failure 500 {object} ErrorResponse
// @Router /checkout/provinces [get]
func (h *CheckoutHandler) Provinces(c *fiber.Ctx) error {
	provinces, err := h.service.Provinces(c.UserContext())
	if err != nil {
		return h.fail(c, "provinces", err)
	}
	return c.Status(http.StatusOK).JSON(provinces)
}
