package handler

import (
	"errors"

	"github.com/billingkit/backend/internal/application/checkout"
	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/order"
	"github.com/billingkit/backend/internal/domain/settings"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errUnsupportedCurrency = errors.New("unsupported currency")

// CheckoutHandler serves checkout previews: the priced view of a plan
// or a cart before any money moves
type CheckoutHandler struct {
	BaseHandler
	calc     *checkout.CalculationService
	planRepo catalog.PlanRepository
	settings settings.Store
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(calc *checkout.CalculationService, planRepo catalog.PlanRepository, store settings.Store, logger *zap.Logger) *CheckoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutHandler{
		calc:     calc,
		planRepo: planRepo,
		settings: store,
		logger:   logger,
	}
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/checkout")
	{
		group.POST("/plan-preview", h.PlanPreview)
		group.POST("/cart-preview", h.CartPreview)
	}
}

// PlanPreviewRequest prices a plan for the current user
type PlanPreviewRequest struct {
	PlanSlug     string `json:"plan_slug" binding:"required"`
	Currency     string `json:"currency" binding:"omitempty,currency"`
	DiscountCode string `json:"discount_code"`
	ProviderSlug string `json:"provider_slug"`
}

// CartLineRequest is one cart line in a preview request
type CartLineRequest struct {
	OneTimeProductID string `json:"one_time_product_id" binding:"required,uuid"`
	Quantity         int    `json:"quantity" binding:"required,min=1"`
}

// CartPreviewRequest prices a cart for the current user
type CartPreviewRequest struct {
	Items        []CartLineRequest `json:"items" binding:"required,min=1,dive"`
	Currency     string            `json:"currency" binding:"omitempty,currency"`
	DiscountCode string            `json:"discount_code"`
}

// PlanPreviewResponse is the priced view of a plan checkout
type PlanPreviewResponse struct {
	checkout.Totals
	DiscountCode string `json:"discount_code,omitempty"`
}

// CartPreviewResponse is the priced view of a cart checkout
type CartPreviewResponse struct {
	checkout.CartTotals
	DiscountCode string `json:"discount_code,omitempty"`
}

// PlanPreview prices a subscription checkout
func (h *CheckoutHandler) PlanPreview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PlanPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	currency, err := h.resolveCurrency(c, req.Currency)
	if err != nil {
		return
	}

	plan, err := h.planRepo.FindActiveBySlug(c.Request.Context(), req.PlanSlug)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	totals, _, code, err := h.calc.PlanTotals(c.Request.Context(), userID, plan, currency, req.DiscountCode, req.ProviderSlug)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	resp := PlanPreviewResponse{Totals: *totals}
	if code != nil {
		resp.DiscountCode = code.Code
	}
	h.Success(c, resp)
}

// CartPreview prices a one-time purchase checkout
func (h *CheckoutHandler) CartPreview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CartPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	currency, err := h.resolveCurrency(c, req.Currency)
	if err != nil {
		return
	}

	cart, err := toCart(req.Items, req.DiscountCode)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	totals, _, code, err := h.calc.CartTotals(c.Request.Context(), userID, cart, currency)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	resp := CartPreviewResponse{CartTotals: *totals}
	if code != nil {
		resp.DiscountCode = code.Code
	}
	h.Success(c, resp)
}

// resolveCurrency picks the requested currency or falls back to the
// tenant default. Writes the error response itself on failure.
func (h *CheckoutHandler) resolveCurrency(c *gin.Context, raw string) (valueobject.Currency, error) {
	if raw != "" {
		currency := valueobject.Currency(raw)
		if !currency.IsValid() {
			h.BadRequest(c, "Unsupported currency")
			return "", errUnsupportedCurrency
		}
		return currency, nil
	}
	currency, err := h.settings.DefaultCurrency(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return "", err
	}
	return currency, nil
}

func toCart(items []CartLineRequest, discountCode string) (order.Cart, error) {
	cart := order.Cart{DiscountCode: discountCode}
	for _, item := range items {
		productID, err := uuid.Parse(item.OneTimeProductID)
		if err != nil {
			return order.Cart{}, err
		}
		cart.Items = append(cart.Items, order.CartItem{
			OneTimeProductID: productID,
			Quantity:         item.Quantity,
		})
	}
	return cart, nil
}
