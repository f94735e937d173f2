package handler

import (
	apporder "github.com/billingkit/backend/internal/application/order"
	"github.com/billingkit/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderHandler serves the one-time purchase flow: cart reconciliation,
// payment start and the order state transitions
type OrderHandler struct {
	BaseHandler
	service *apporder.Service
	logger  *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *apporder.Service, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{service: service, logger: logger}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.PUT("/current", h.RefreshCurrent)
		orders.POST("/checkout", h.BeginPayment)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/refund", h.Refund)
	}
}

// RefreshOrderRequest reconciles the user's open order against a cart
type RefreshOrderRequest struct {
	Items        []CartLineRequest `json:"items" binding:"required,dive"`
	DiscountCode string            `json:"discount_code"`
	IsLocal      bool              `json:"is_local"`
}

// BeginPaymentRequest locks the priced order for payment
type BeginPaymentRequest struct {
	Items        []CartLineRequest `json:"items" binding:"required,min=1,dive"`
	DiscountCode string            `json:"discount_code"`
}

// RefreshCurrent reconciles and prices the user's open order
func (h *OrderHandler) RefreshCurrent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RefreshOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := toCart(req.Items, req.DiscountCode)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	o, err := h.service.RefreshOrder(c.Request.Context(), userID, cart, req.IsLocal)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, apporder.ToOrderResponse(o))
}

// BeginPayment re-prices the order one final time and marks it PENDING
func (h *OrderHandler) BeginPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req BeginPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := toCart(req.Items, req.DiscountCode)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	o, err := h.service.BeginPayment(c.Request.Context(), userID, cart)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, apporder.ToOrderResponse(o))
}

// Get returns one order
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, apporder.ToOrderResponse(o))
}

// Complete marks the order paid. Admin operation; provider-driven
// completion arrives through the webhook instead.
func (h *OrderHandler) Complete(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	o, err := h.service.CompleteOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, apporder.ToOrderResponse(o))
}

// Refund marks a paid order refunded. Admin operation.
func (h *OrderHandler) Refund(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	o, err := h.service.RefundOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, apporder.ToOrderResponse(o))
}

func (h *OrderHandler) orderID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, false
	}
	return id, true
}
