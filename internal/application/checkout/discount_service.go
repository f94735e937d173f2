package checkout

import (
	"context"

	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DiscountService resolves and redeems discount codes during checkout
type DiscountService struct {
	discountRepo discount.Repository
	clock        shared.Clock
	logger       *zap.Logger
}

// NewDiscountService creates a new DiscountService
func NewDiscountService(discountRepo discount.Repository, clock shared.Clock, logger *zap.Logger) *DiscountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &DiscountService{
		discountRepo: discountRepo,
		clock:        clock,
		logger:       logger,
	}
}

// ResolveForPlan resolves a code for a subscribe action against a
// plan. Every failed rule collapses to ErrCodeNotRedeemable so the
// caller cannot probe which rule rejected the code.
func (s *DiscountService) ResolveForPlan(ctx context.Context, userID, planID uuid.UUID, code, providerSlug string) (*discount.Discount, *discount.DiscountCode, error) {
	if providerSlug == subscription.ProviderSlugDisallowingDiscounts {
		return nil, nil, shared.ErrCodeNotRedeemable
	}

	disc, discCode, err := s.resolve(ctx, userID, code, discount.ActionTypeSubscribe)
	if err != nil {
		return nil, nil, err
	}
	if !disc.IsEnabledForPlan(planID) {
		return nil, nil, shared.ErrCodeNotRedeemable
	}
	return disc, discCode, nil
}

// ResolveForProducts resolves a code for a one-time purchase. The code
// is redeemable when it applies to at least one product in the cart.
func (s *DiscountService) ResolveForProducts(ctx context.Context, userID uuid.UUID, code string, productIDs []uuid.UUID) (*discount.Discount, *discount.DiscountCode, error) {
	disc, discCode, err := s.resolve(ctx, userID, code, discount.ActionTypeOneTimePurchase)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range productIDs {
		if disc.IsEnabledForOneTimeProduct(id) {
			return disc, discCode, nil
		}
	}
	return nil, nil, shared.ErrCodeNotRedeemable
}

func (s *DiscountService) resolve(ctx context.Context, userID uuid.UUID, code string, action discount.ActionType) (*discount.Discount, *discount.DiscountCode, error) {
	if code == "" {
		return nil, nil, shared.ErrCodeNotRedeemable
	}

	disc, discCode, err := s.discountRepo.FindByCode(ctx, code)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, nil, shared.ErrCodeNotRedeemable
		}
		return nil, nil, err
	}

	userRedemptions, err := s.discountRepo.CountUserRedemptions(ctx, userID, discCode.ID)
	if err != nil {
		return nil, nil, err
	}

	if !disc.IsRedeemableAt(s.clock.Now(), userRedemptions, action) {
		s.logger.Debug("discount code rejected",
			zap.String("code", code),
			zap.String("action", string(action)))
		return nil, nil, shared.ErrCodeNotRedeemable
	}
	return disc, discCode, nil
}

// RedeemForSubscription records the redemption and attaches the
// discount snapshot to the subscription in one transaction
func (s *DiscountService) RedeemForSubscription(ctx context.Context, userID, subscriptionID uuid.UUID, disc *discount.Discount, discCode *discount.DiscountCode) error {
	redemption := &discount.Redemption{
		ID:             uuid.New(),
		DiscountID:     disc.ID,
		DiscountCodeID: discCode.ID,
		UserID:         userID,
		SubscriptionID: &subscriptionID,
		CreatedAt:      s.clock.Now(),
	}
	return s.discountRepo.Redeem(ctx, redemption, disc.SnapshotFor(subscriptionID))
}

// RedeemForOrder records the redemption against an order. Orders keep
// the discount on their item rows, so no snapshot row is written.
func (s *DiscountService) RedeemForOrder(ctx context.Context, userID, orderID uuid.UUID, disc *discount.Discount, discCode *discount.DiscountCode) error {
	redemption := &discount.Redemption{
		ID:             uuid.New(),
		DiscountID:     disc.ID,
		DiscountCodeID: discCode.ID,
		UserID:         userID,
		OrderID:        &orderID,
		CreatedAt:      s.clock.Now(),
	}
	return s.discountRepo.Redeem(ctx, redemption, nil)
}
