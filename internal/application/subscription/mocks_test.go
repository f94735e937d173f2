package subscription

import (
	"context"
	"time"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/payment"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSubscriptionRepository is a mock implementation of subscription.Repository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByProviderSubscriptionID(ctx context.Context, providerSlug, providerSubscriptionID string) (*subscription.Subscription, error) {
	args := m.Called(ctx, providerSlug, providerSubscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) CountNotDeadByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) FindActiveUsageBasedByUser(ctx context.Context, userID uuid.UUID) (*subscription.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status subscription.Status) ([]subscription.Subscription, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) CreateReplacingNew(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) MarkPendingIfNew(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) FindExpiredLocalActive(ctx context.Context, now time.Time) ([]subscription.Subscription, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) SaveTrial(ctx context.Context, trial *subscription.UserSubscriptionTrial) error {
	args := m.Called(ctx, trial)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) CountByStatus(ctx context.Context, status subscription.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) FindAllByStatus(ctx context.Context, status subscription.Status) ([]subscription.Subscription, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) CountLostBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) CountDistinctSubscribedUsers(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockUsageRecordRepository is a mock implementation of subscription.UsageRecordRepository
type MockUsageRecordRepository struct {
	mock.Mock
}

func (m *MockUsageRecordRepository) Save(ctx context.Context, record *subscription.UsageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockUsageRecordRepository) FindBySubscription(ctx context.Context, subscriptionID uuid.UUID, from, to time.Time) ([]subscription.UsageRecord, error) {
	args := m.Called(ctx, subscriptionID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscription.UsageRecord), args.Error(1)
}

func (m *MockUsageRecordRepository) SumForSubscription(ctx context.Context, subscriptionID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, subscriptionID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

// MockPlanRepository is a mock implementation of catalog.PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindActiveBySlug(ctx context.Context, slug string) (*catalog.Plan, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindAllActive(ctx context.Context) ([]catalog.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Plan), args.Error(1)
}

func (m *MockPlanRepository) Save(ctx context.Context, plan *catalog.Plan) error {
	args := m.Called(ctx, plan)
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

// MockProvider is a mock implementation of payment.Provider
type MockProvider struct {
	mock.Mock
	slug              string
	supportsDiscounts bool
}

func (m *MockProvider) Slug() string {
	return m.slug
}

func (m *MockProvider) SupportsSubscriptionDiscounts() bool {
	return m.supportsDiscounts
}

func (m *MockProvider) ChangePlan(ctx context.Context, sub *subscription.Subscription, plan *catalog.Plan, withProration bool) (bool, error) {
	args := m.Called(ctx, sub, plan, withProration)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) CancelSubscription(ctx context.Context, sub *subscription.Subscription) (bool, error) {
	args := m.Called(ctx, sub)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) DiscardSubscriptionCancellation(ctx context.Context, sub *subscription.Subscription) (bool, error) {
	args := m.Called(ctx, sub)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) AddDiscountToSubscription(ctx context.Context, sub *subscription.Subscription, disc *discount.Discount, code *discount.DiscountCode) (bool, error) {
	args := m.Called(ctx, sub, disc, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) ReportUsage(ctx context.Context, sub *subscription.Subscription, unitCount int64) (bool, error) {
	args := m.Called(ctx, sub, unitCount)
	return args.Bool(0), args.Error(1)
}

// stubRegistry resolves every slug to the same provider
type stubRegistry struct {
	provider payment.Provider
}

func (r stubRegistry) Get(slug string) (payment.Provider, error) {
	if r.provider == nil {
		return nil, shared.ErrNotFound
	}
	return r.provider, nil
}

// stubSettings is a settings.Store backed by fixed values
type stubSettings struct {
	currency valueobject.Currency
	multiple bool
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
	return s.multiple, nil
}

// capturingPublisher records every published event
type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
