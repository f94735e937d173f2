package checkout

import (
	"context"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDiscountRepository is a mock implementation of discount.Repository
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) FindByCode(ctx context.Context, code string) (*discount.Discount, *discount.DiscountCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*discount.Discount), args.Get(1).(*discount.DiscountCode), args.Error(2)
}

func (m *MockDiscountRepository) CountUserRedemptions(ctx context.Context, userID, discountCodeID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID, discountCodeID)
	return args.Int(0), args.Error(1)
}

func (m *MockDiscountRepository) Redeem(ctx context.Context, redemption *discount.Redemption, snapshot *discount.SubscriptionDiscount) error {
	args := m.Called(ctx, redemption, snapshot)
	return args.Error(0)
}

func (m *MockDiscountRepository) CountSubscriptionDiscounts(ctx context.Context, subscriptionID uuid.UUID) (int, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Int(0), args.Error(1)
}

func (m *MockDiscountRepository) FindSubscriptionDiscounts(ctx context.Context, subscriptionID uuid.UUID) ([]discount.SubscriptionDiscount, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]discount.SubscriptionDiscount), args.Error(1)
}

func (m *MockDiscountRepository) Save(ctx context.Context, d *discount.Discount) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// MockOneTimeProductRepository is a mock implementation of catalog.OneTimeProductRepository
type MockOneTimeProductRepository struct {
	mock.Mock
}

func (m *MockOneTimeProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.OneTimeProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.OneTimeProduct), args.Error(1)
}

func (m *MockOneTimeProductRepository) FindActiveBySlug(ctx context.Context, slug string) (*catalog.OneTimeProduct, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.OneTimeProduct), args.Error(1)
}

func (m *MockOneTimeProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.OneTimeProduct, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.OneTimeProduct), args.Error(1)
}

func (m *MockOneTimeProductRepository) Save(ctx context.Context, product *catalog.OneTimeProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
