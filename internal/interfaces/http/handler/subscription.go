package handler

import (
	appsubscription "github.com/billingkit/backend/internal/application/subscription"
	"github.com/billingkit/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubscriptionHandler serves the subscription lifecycle: checkout
// start, user-driven actions and metered usage reporting
type SubscriptionHandler struct {
	BaseHandler
	service *appsubscription.Service
	usage   *appsubscription.UsageService
	logger  *zap.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(service *appsubscription.Service, usage *appsubscription.UsageService, logger *zap.Logger) *SubscriptionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionHandler{
		service: service,
		usage:   usage,
		logger:  logger,
	}
}

// RegisterRoutes registers subscription routes
func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	subs := rg.Group("/subscriptions")
	{
		subs.POST("", h.Create)
		subs.POST("/local", h.CreateLocal)
		subs.GET("/:id", h.Get)
		subs.POST("/:id/pending", h.SetAsPending)
		subs.POST("/:id/cancel", h.Cancel)
		subs.POST("/:id/discard-cancellation", h.DiscardCancellation)
		subs.POST("/:id/change-plan", h.ChangePlan)
		subs.POST("/:id/discounts", h.AddDiscount)
		subs.POST("/:id/end", h.End)
	}
	rg.POST("/usage", h.ReportUsage)
}

// CreateSubscriptionRequest starts a provider-managed checkout
type CreateSubscriptionRequest struct {
	PlanSlug     string `json:"plan_slug" binding:"required"`
	ProviderSlug string `json:"provider_slug" binding:"required"`
	DiscountCode string `json:"discount_code"`
}

// CreateLocalSubscriptionRequest creates a locally-managed subscription
type CreateLocalSubscriptionRequest struct {
	PlanSlug             string `json:"plan_slug" binding:"required"`
	RequiresVerification bool   `json:"requires_verification"`
}

// CancelSubscriptionRequest schedules a cancellation
type CancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}

// ChangePlanRequest moves the subscription onto another plan
type ChangePlanRequest struct {
	PlanSlug      string `json:"plan_slug" binding:"required"`
	WithProration bool   `json:"with_proration"`
}

// AddDiscountRequest attaches a discount code to a running subscription
type AddDiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

// ReportUsageRequest reports metered consumption for the user's active
// usage-based subscription
type ReportUsageRequest struct {
	UnitCount int64 `json:"unit_count" binding:"required,min=1"`
}

// Create starts a provider-managed subscription checkout
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), appsubscription.CreateSubscriptionRequest{
		UserID:       userID,
		PlanSlug:     req.PlanSlug,
		ProviderSlug: req.ProviderSlug,
		DiscountCode: req.DiscountCode,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreateLocal creates a subscription managed entirely inside this system
func (h *SubscriptionHandler) CreateLocal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateLocalSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.CreateLocal(c.Request.Context(), appsubscription.CreateLocalSubscriptionRequest{
		UserID:               userID,
		PlanSlug:             req.PlanSlug,
		RequiresVerification: req.RequiresVerification,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one subscription
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetAsPending marks a NEW checkout as handed off to the provider
func (h *SubscriptionHandler) SetAsPending(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}

	if err := h.service.SetAsPending(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Cancel schedules cancellation at the end of the billing cycle
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}

	var req CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), userID, id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// DiscardCancellation reverts a scheduled cancellation
func (h *SubscriptionHandler) DiscardCancellation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}

	resp, err := h.service.DiscardCancellation(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePlan moves the subscription onto another plan
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.ChangePlan(c.Request.Context(), appsubscription.ChangePlanRequest{
		UserID:         userID,
		SubscriptionID: id,
		NewPlanSlug:    req.PlanSlug,
		WithProration:  req.WithProration,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddDiscount attaches a discount code to a running subscription
func (h *SubscriptionHandler) AddDiscount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}

	var req AddDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.AddDiscount(c.Request.Context(), userID, id, req.Code); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// End terminates the subscription immediately. Admin operation.
func (h *SubscriptionHandler) End(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}

	resp, err := h.service.End(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReportUsage reports metered units for the user's active usage-based
// subscription
func (h *SubscriptionHandler) ReportUsage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ReportUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.usage.ReportUsage(c.Request.Context(), userID, req.UnitCount); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *SubscriptionHandler) subscriptionID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid subscription ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid subscription ID")
		return uuid.Nil, false
	}
	return id, true
}
