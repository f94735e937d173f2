package order

import (
	"context"
	"time"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/order"
	"github.com/billingkit/backend/internal/domain/payment"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status order.Status) ([]order.Order, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of payment.Repository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByProviderTransactionID(ctx context.Context, providerTransactionID string) (*payment.Transaction, error) {
	args := m.Called(ctx, providerTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*payment.Transaction, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, transaction *payment.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumAmountByStatus(ctx context.Context, status payment.TransactionStatus, from, to time.Time) (int64, error) {
	args := m.Called(ctx, status, from, to)
	return args.Get(0).(int64), args.Error(1)
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

// stubSettings is a settings.Store backed by fixed values
type stubSettings struct {
	currency valueobject.Currency
}

func (s stubSettings) Get(ctx context.Context, key, fallback string) (string, error) {
	return fallback, nil
}

func (s stubSettings) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	return fallback, nil
}

func (s stubSettings) Set(ctx context.Context, key, value string) error {
	return nil
}

func (s stubSettings) DefaultCurrency(ctx context.Context) (valueobject.Currency, error) {
	if s.currency == "" {
		return valueobject.DefaultCurrency, nil
	}
	return s.currency, nil
}

func (s stubSettings) MultipleSubscriptionsEnabled(ctx context.Context) (bool, error) {
	return false, nil
}

// capturingPublisher records every published event
type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
