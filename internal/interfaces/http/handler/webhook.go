package handler

import (
	"crypto/subtle"
	"time"

	apporder "github.com/billingkit/backend/internal/application/order"
	appsubscription "github.com/billingkit/backend/internal/application/subscription"
	"github.com/billingkit/backend/internal/domain/payment"
	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler ingests provider callbacks already mapped to this
// system's terms: transaction outcomes and subscription state changes
type WebhookHandler struct {
	BaseHandler
	transactions  *apporder.TransactionService
	subscriptions *appsubscription.Service
	secret        string
	logger        *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(transactions *apporder.TransactionService, subscriptions *appsubscription.Service, secret string, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		transactions:  transactions,
		subscriptions: subscriptions,
		secret:        secret,
		logger:        logger,
	}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/transactions", h.UpdateTransaction)
		webhooks.POST("/subscriptions", h.UpdateSubscription)
	}
}

// TransactionWebhookRequest patches a transaction by its provider id
type TransactionWebhookRequest struct {
	ProviderTransactionID string  `json:"provider_transaction_id" binding:"required"`
	Status                *string `json:"status"`
	ProviderStatus        *string `json:"provider_status"`
	Amount                *int64  `json:"amount" binding:"omitempty,min=0"`
	Fees                  *int64  `json:"fees" binding:"omitempty,min=0"`
	ErrorReason           *string `json:"error_reason"`
}

// SubscriptionWebhookRequest patches a subscription by its provider id
type SubscriptionWebhookRequest struct {
	ProviderSlug           string     `json:"provider_slug" binding:"required"`
	ProviderSubscriptionID string     `json:"provider_subscription_id" binding:"required"`
	Status                 *string    `json:"status"`
	EndsAt                 *time.Time `json:"ends_at"`
	TrialEndsAt            *time.Time `json:"trial_ends_at"`
	IsCanceledAtEndOfCycle *bool      `json:"is_canceled_at_end_of_cycle"`
	CancellationReason     *string    `json:"cancellation_reason"`
}

// UpdateTransaction applies a provider's transaction outcome
func (h *WebhookHandler) UpdateTransaction(c *gin.Context) {
	if !h.authorized(c) {
		return
	}

	var req TransactionWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	patch := payment.Patch{
		ProviderStatus: req.ProviderStatus,
		Amount:         req.Amount,
		Fees:           req.Fees,
		ErrorReason:    req.ErrorReason,
	}
	if req.Status != nil {
		status := payment.TransactionStatus(*req.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown transaction status")
			return
		}
		patch.Status = &status
	}

	tx, err := h.transactions.UpdateByProviderTransactionID(c.Request.Context(), req.ProviderTransactionID, patch)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, apporder.ToTransactionResponse(tx))
}

// UpdateSubscription applies a provider's subscription state change
func (h *WebhookHandler) UpdateSubscription(c *gin.Context) {
	if !h.authorized(c) {
		return
	}

	var req SubscriptionWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	update := appsubscription.UpdateFromProviderRequest{
		ProviderSlug:           req.ProviderSlug,
		ProviderSubscriptionID: req.ProviderSubscriptionID,
		EndsAt:                 req.EndsAt,
		TrialEndsAt:            req.TrialEndsAt,
		IsCanceledAtEndOfCycle: req.IsCanceledAtEndOfCycle,
		CancellationReason:     req.CancellationReason,
	}
	if req.Status != nil {
		status := subscription.Status(*req.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown subscription status")
			return
		}
		update.Status = &status
	}

	resp, err := h.subscriptions.UpdateFromProvider(c.Request.Context(), update)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// authorized checks the shared webhook secret. Writes the error
// response itself on failure.
func (h *WebhookHandler) authorized(c *gin.Context) bool {
	if h.secret == "" {
		return true
	}
	provided := c.GetHeader("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		h.Unauthorized(c, "Invalid webhook secret")
		return false
	}
	return true
}
