package checkout

import (
	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Totals is the result of a checkout calculation. All amounts are
// integer minor units in the given currency. The pricing fields are
// carried from the price row so usage-based plans keep their shape.
type Totals struct {
	Subtotal       int64                `json:"subtotal"`
	DiscountAmount int64                `json:"discount_amount"`
	AmountDue      int64                `json:"amount_due"`
	Currency       valueobject.Currency `json:"currency"`
	PriceType      catalog.PriceType    `json:"price_type,omitempty"`
	PricePerUnit   int64                `json:"price_per_unit,omitempty"`
	Tiers          catalog.PriceTiers   `json:"tiers,omitempty"`
}

// LineTotals is the priced view of one cart line
type LineTotals struct {
	OneTimeProductID uuid.UUID `json:"one_time_product_id"`
	Quantity         int       `json:"quantity"`
	PricePerUnit     int64     `json:"price_per_unit"`
	DiscountPerUnit  int64     `json:"discount_per_unit"`
	Subtotal         int64     `json:"subtotal"`
	AmountDue        int64     `json:"amount_due"`
}

// CartTotals is the priced view of a whole cart
type CartTotals struct {
	Totals
	Lines []LineTotals `json:"lines"`
}
