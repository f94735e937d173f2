package checkout

import (
	"context"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/order"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CalculationService derives checkout totals from plan and product
// prices plus an optional discount. It never mutates discount
// redemption state; redemption happens separately once payment starts.
type CalculationService struct {
	productRepo catalog.OneTimeProductRepository
	discountSvc *DiscountService
	logger      *zap.Logger
}

// NewCalculationService creates a new CalculationService
func NewCalculationService(productRepo catalog.OneTimeProductRepository, discountSvc *DiscountService, logger *zap.Logger) *CalculationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalculationService{
		productRepo: productRepo,
		discountSvc: discountSvc,
		logger:      logger,
	}
}

// PlanTotals computes what subscribing to the plan costs now. The
// price row's type, tiers and per-unit price pass through so providers
// can set up usage-based billing from the same response. The resolved
// discount is returned so the caller can redeem it later.
func (s *CalculationService) PlanTotals(ctx context.Context, userID uuid.UUID, plan *catalog.Plan, currency valueobject.Currency, discountCode, providerSlug string) (*Totals, *discount.Discount, *discount.DiscountCode, error) {
	price, err := plan.PriceFor(currency)
	if err != nil {
		return nil, nil, nil, err
	}

	subtotal := price.Money()

	var disc *discount.Discount
	var discCode *discount.DiscountCode
	discountAmount := valueobject.Zero(currency)

	if discountCode != "" {
		disc, discCode, err = s.discountSvc.ResolveForPlan(ctx, userID, plan.ID, discountCode, providerSlug)
		if err != nil {
			return nil, nil, nil, err
		}
		discountAmount = disc.AmountFor(subtotal)
	}

	due, err := subtotal.Subtract(discountAmount)
	if err != nil {
		return nil, nil, nil, err
	}

	return &Totals{
		Subtotal:       subtotal.Amount(),
		DiscountAmount: discountAmount.Amount(),
		AmountDue:      due.ClampNonNegative().Amount(),
		Currency:       currency,
		PriceType:      price.PriceType,
		PricePerUnit:   price.PricePerUnit,
		Tiers:          price.Tiers,
	}, disc, discCode, nil
}

// CartTotals prices a cart without touching any persisted order
func (s *CalculationService) CartTotals(ctx context.Context, userID uuid.UUID, cart order.Cart, currency valueobject.Currency) (*CartTotals, *discount.Discount, *discount.DiscountCode, error) {
	products, err := s.cartProducts(ctx, cart)
	if err != nil {
		return nil, nil, nil, err
	}

	disc, discCode, err := s.resolveCartDiscount(ctx, userID, cart, products)
	if err != nil {
		return nil, nil, nil, err
	}

	result := &CartTotals{Totals: Totals{Currency: currency}}
	for _, item := range cart.Items {
		product, ok := products[item.OneTimeProductID]
		if !ok {
			return nil, nil, nil, shared.ErrNotFound
		}
		line, err := s.priceLine(product, item.Quantity, currency, disc)
		if err != nil {
			return nil, nil, nil, err
		}
		result.Lines = append(result.Lines, line)
		result.Subtotal += line.Subtotal
		result.DiscountAmount += line.Subtotal - line.AmountDue
		result.AmountDue += line.AmountDue
	}
	return result, disc, discCode, nil
}

// PriceOrder reconciles the order against the cart and rewrites every
// line's price and discount from current catalog state, then
// recomputes the header totals
func (s *CalculationService) PriceOrder(ctx context.Context, o *order.Order, cart order.Cart) (*discount.Discount, *discount.DiscountCode, error) {
	products, err := s.cartProducts(ctx, cart)
	if err != nil {
		return nil, nil, err
	}

	disc, discCode, err := s.resolveCartDiscount(ctx, o.UserID, cart, products)
	if err != nil {
		return nil, nil, err
	}

	o.SyncWithCart(cart)
	for i := range o.Items {
		product, ok := products[o.Items[i].OneTimeProductID]
		if !ok {
			return nil, nil, shared.ErrNotFound
		}
		line, err := s.priceLine(product, o.Items[i].Quantity, o.Currency, disc)
		if err != nil {
			return nil, nil, err
		}
		o.Items[i].Quantity = line.Quantity
		o.Items[i].PricePerUnit = line.PricePerUnit
		o.Items[i].DiscountPerUnit = line.DiscountPerUnit
		o.Items[i].Currency = o.Currency
	}
	o.RecalculateTotals()
	return disc, discCode, nil
}

func (s *CalculationService) cartProducts(ctx context.Context, cart order.Cart) (map[uuid.UUID]*catalog.OneTimeProduct, error) {
	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.OneTimeProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.OneTimeProduct, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (s *CalculationService) resolveCartDiscount(ctx context.Context, userID uuid.UUID, cart order.Cart, products map[uuid.UUID]*catalog.OneTimeProduct) (*discount.Discount, *discount.DiscountCode, error) {
	if cart.DiscountCode == "" {
		return nil, nil, nil
	}
	ids := make([]uuid.UUID, 0, len(products))
	for id := range products {
		ids = append(ids, id)
	}
	return s.discountSvc.ResolveForProducts(ctx, userID, cart.DiscountCode, ids)
}

// priceLine prices one cart line. The discount applies per unit, so a
// FIXED discount reduces every unit by the literal amount.
func (s *CalculationService) priceLine(product *catalog.OneTimeProduct, quantity int, currency valueobject.Currency, disc *discount.Discount) (LineTotals, error) {
	price, err := product.PriceFor(currency)
	if err != nil {
		return LineTotals{}, err
	}
	if product.MaxQuantity > 0 && quantity > product.MaxQuantity {
		quantity = product.MaxQuantity
	}

	unit := price.Money()
	discountPerUnit := int64(0)
	if disc != nil && disc.IsEnabledForOneTimeProduct(product.ID) {
		discountPerUnit = disc.AmountFor(unit).Amount()
		if discountPerUnit > unit.Amount() {
			discountPerUnit = unit.Amount()
		}
	}

	line := LineTotals{
		OneTimeProductID: product.ID,
		Quantity:         quantity,
		PricePerUnit:     unit.Amount(),
		DiscountPerUnit:  discountPerUnit,
	}
	line.Subtotal = line.PricePerUnit * int64(quantity)
	line.AmountDue = (line.PricePerUnit - discountPerUnit) * int64(quantity)
	if line.AmountDue < 0 {
		line.AmountDue = 0
	}
	return line, nil
}
