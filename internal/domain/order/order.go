package order

import (
	"time"

	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Status represents the lifecycle state of a one-time-purchase order
type Status string

const (
	StatusNew      Status = "NEW"
	StatusPending  Status = "PENDING"
	StatusSuccess  Status = "SUCCESS"
	StatusRefunded Status = "REFUNDED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusPending, StatusSuccess, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CartItem is one line of a checkout cart
type CartItem struct {
	OneTimeProductID uuid.UUID
	Quantity         int
}

// Cart is the transient checkout state an order is reconciled against
type Cart struct {
	Items        []CartItem
	DiscountCode string
}

// Quantities returns the cart as a product-id -> quantity map
func (c Cart) Quantities() map[uuid.UUID]int {
	m := make(map[uuid.UUID]int, len(c.Items))
	for _, item := range c.Items {
		m[item.OneTimeProductID] = item.Quantity
	}
	return m
}

// OrderItem is a persisted order line referencing a one-time product.
// Price fields are written by the calculation engine.
type OrderItem struct {
	ID               uuid.UUID            `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	OneTimeProductID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Quantity         int                  `gorm:"not null"`
	PricePerUnit     int64                `gorm:"not null;default:0"`
	DiscountPerUnit  int64                `gorm:"not null;default:0"`
	Currency         valueobject.Currency `gorm:"size:3"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for the order item model
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns quantity times undiscounted unit price
func (i *OrderItem) Subtotal() int64 {
	return i.PricePerUnit * int64(i.Quantity)
}

// AmountDue returns quantity times discounted unit price, floored at zero
func (i *OrderItem) AmountDue() int64 {
	due := (i.PricePerUnit - i.DiscountPerUnit) * int64(i.Quantity)
	if due < 0 {
		return 0
	}
	return due
}

// Order is a one-time purchase aggregate reconciled against a cart
type Order struct {
	shared.BaseAggregateRoot
	UserID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status         Status               `gorm:"size:20;not null;index"`
	IsLocal        bool                 `gorm:"not null;default:false"`
	Currency       valueobject.Currency `gorm:"size:3"`
	TotalAmount    int64                `gorm:"not null;default:0"`
	DiscountAmount int64                `gorm:"not null;default:0"`
	AmountDue      int64                `gorm:"not null;default:0"`
	Items          []OrderItem          `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for the order model
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in NEW status
func NewOrder(userID uuid.UUID, currency valueobject.Currency, isLocal bool) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            StatusNew,
		IsLocal:           isLocal,
		Currency:          currency,
	}, nil
}

// SyncWithCart reconciles the order lines against the cart: lines for
// products no longer in the cart are dropped, new products get a line
// with a zero price placeholder, and quantities are aligned for lines
// present in both. Totals must be recomputed afterwards.
func (o *Order) SyncWithCart(cart Cart) {
	wanted := cart.Quantities()
	now := time.Now()

	kept := o.Items[:0]
	for _, item := range o.Items {
		if qty, ok := wanted[item.OneTimeProductID]; ok {
			if item.Quantity != qty {
				item.Quantity = qty
				item.UpdatedAt = now
			}
			kept = append(kept, item)
			delete(wanted, item.OneTimeProductID)
		}
	}
	o.Items = kept

	for productID, qty := range wanted {
		o.Items = append(o.Items, OrderItem{
			ID:               uuid.New(),
			OrderID:          o.ID,
			OneTimeProductID: productID,
			Quantity:         qty,
			Currency:         o.Currency,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}
	o.UpdatedAt = now
}

// RecalculateTotals derives the order header totals from its lines
func (o *Order) RecalculateTotals() {
	var subtotal, due int64
	for i := range o.Items {
		subtotal += o.Items[i].Subtotal()
		due += o.Items[i].AmountDue()
	}
	o.TotalAmount = subtotal
	o.AmountDue = due
	o.DiscountAmount = subtotal - due
	if o.DiscountAmount < 0 {
		o.DiscountAmount = 0
	}
	o.UpdatedAt = time.Now()
}

// MarkPending moves the order into PENDING while awaiting payment
func (o *Order) MarkPending() error {
	if o.Status != StatusNew {
		return shared.ErrInvalidState
	}
	o.Status = StatusPending
	o.UpdatedAt = time.Now()
	return nil
}

// MarkSuccess settles the order, emitting Ordered or OrderedOffline
// depending on how it was paid
func (o *Order) MarkSuccess() error {
	if o.Status != StatusNew && o.Status != StatusPending {
		return shared.ErrInvalidState
	}
	o.Status = StatusSuccess
	o.UpdatedAt = time.Now()
	if o.IsLocal {
		o.AddDomainEvent(NewOrderedOfflineEvent(o))
	} else {
		o.AddDomainEvent(NewOrderedEvent(o))
	}
	return nil
}

// MarkRefunded flags a settled order as refunded
func (o *Order) MarkRefunded() error {
	if o.Status != StatusSuccess {
		return shared.ErrInvalidState
	}
	o.Status = StatusRefunded
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderRefundedEvent(o))
	return nil
}

// Money returns the amount due as a Money value
func (o *Order) Money() valueobject.Money {
	return valueobject.MustNewMoney(o.AmountDue, o.Currency)
}

// ItemFor returns the line for a product, if present
func (o *Order) ItemFor(productID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].OneTimeProductID == productID {
			return &o.Items[i]
		}
	}
	return nil
}
