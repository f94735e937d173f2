package order

import (
	"time"

	"github.com/billingkit/backend/internal/domain/order"
	"github.com/billingkit/backend/internal/domain/payment"
	"github.com/google/uuid"
)

// OrderItemResponse is the outward view of one order line
type OrderItemResponse struct {
	ID               uuid.UUID `json:"id"`
	OneTimeProductID uuid.UUID `json:"one_time_product_id"`
	Quantity         int       `json:"quantity"`
	PricePerUnit     int64     `json:"price_per_unit"`
	DiscountPerUnit  int64     `json:"discount_per_unit"`
	Subtotal         int64     `json:"subtotal"`
	AmountDue        int64     `json:"amount_due"`
}

// OrderResponse is the outward view of an order
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	UserID         uuid.UUID           `json:"user_id"`
	Status         string              `json:"status"`
	IsLocal        bool                `json:"is_local"`
	Currency       string              `json:"currency"`
	TotalAmount    int64               `json:"total_amount"`
	DiscountAmount int64               `json:"discount_amount"`
	AmountDue      int64               `json:"amount_due"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
}

// ToOrderResponse maps an order aggregate to its response
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemResponse{
			ID:               item.ID,
			OneTimeProductID: item.OneTimeProductID,
			Quantity:         item.Quantity,
			PricePerUnit:     item.PricePerUnit,
			DiscountPerUnit:  item.DiscountPerUnit,
			Subtotal:         item.Subtotal(),
			AmountDue:        item.AmountDue(),
		})
	}
	return OrderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		Status:         o.Status.String(),
		IsLocal:        o.IsLocal,
		Currency:       o.Currency.String(),
		TotalAmount:    o.TotalAmount,
		DiscountAmount: o.DiscountAmount,
		AmountDue:      o.AmountDue,
		Items:          items,
		CreatedAt:      o.CreatedAt,
	}
}

// TransactionResponse is the outward view of a payment transaction
type TransactionResponse struct {
	ID                    uuid.UUID  `json:"id"`
	UserID                uuid.UUID  `json:"user_id"`
	SubscriptionID        *uuid.UUID `json:"subscription_id,omitempty"`
	OrderID               *uuid.UUID `json:"order_id,omitempty"`
	Amount                int64      `json:"amount"`
	Tax                   int64      `json:"tax"`
	Discount              int64      `json:"discount"`
	Fees                  int64      `json:"fees"`
	Currency              string     `json:"currency"`
	Status                string     `json:"status"`
	ProviderSlug          string     `json:"provider_slug"`
	ProviderTransactionID string     `json:"provider_transaction_id"`
	ProviderStatus        string     `json:"provider_status,omitempty"`
	ErrorReason           string     `json:"error_reason,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

// ToTransactionResponse maps a transaction aggregate to its response
func ToTransactionResponse(t *payment.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                    t.ID,
		UserID:                t.UserID,
		SubscriptionID:        t.SubscriptionID,
		OrderID:               t.OrderID,
		Amount:                t.Amount,
		Tax:                   t.Tax,
		Discount:              t.Discount,
		Fees:                  t.Fees,
		Currency:              t.Currency.String(),
		Status:                t.Status.String(),
		ProviderSlug:          t.ProviderSlug,
		ProviderTransactionID: t.ProviderTransactionID,
		ProviderStatus:        t.ProviderStatus,
		ErrorReason:           t.ErrorReason,
		CreatedAt:             t.CreatedAt,
	}
}
