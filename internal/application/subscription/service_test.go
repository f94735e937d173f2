package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/billingkit/backend/internal/application/checkout"
	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testUserID = uuid.New()
	testNow    = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
)

// discountFixture builds an all-plan 10 percent discount with one code
func discountFixture(planID uuid.UUID) (*discount.Discount, error) {
	disc, err := discount.NewDiscount("Loyalty", discount.DiscountTypePercentage, 10)
	if err != nil {
		return nil, err
	}
	disc.Plans = []discount.DiscountPlan{{DiscountID: disc.ID, PlanID: planID}}
	disc.Codes = []discount.DiscountCode{{
		ID:         uuid.New(),
		DiscountID: disc.ID,
		Code:       "SAVE10",
	}}
	return disc, nil
}

func mustSnapshot(t *testing.T, planID, subscriptionID uuid.UUID) *discount.SubscriptionDiscount {
	t.Helper()
	disc, err := discountFixture(planID)
	require.NoError(t, err)
	return disc.SnapshotFor(subscriptionID)
}

type serviceFixture struct {
	subRepo      *MockSubscriptionRepository
	planRepo     *MockPlanRepository
	discountRepo *MockDiscountRepository
	provider     *MockProvider
	publisher    *capturingPublisher
	settings     stubSettings
	service      *Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		subRepo:      new(MockSubscriptionRepository),
		planRepo:     new(MockPlanRepository),
		discountRepo: new(MockDiscountRepository),
		provider:     &MockProvider{slug: "stripe", supportsDiscounts: true},
		publisher:    &capturingPublisher{},
	}
	clock := shared.FixedClock{Instant: testNow}
	f.service = NewService(ServiceConfig{
		SubscriptionRepo: f.subRepo,
		PlanRepo:         f.planRepo,
		DiscountService:  checkout.NewDiscountService(f.discountRepo, clock, nil),
		Providers:        stubRegistry{provider: f.provider},
		Settings:         f.settings,
		EventPublisher:   f.publisher,
		Clock:            clock,
	})
	return f
}

func newPlan(t *testing.T, slug string, price int64) *catalog.Plan {
	t.Helper()
	plan, err := catalog.NewPlan(uuid.New(), slug, slug, catalog.PlanTypeFlatRate, catalog.IntervalMonth, 1)
	require.NoError(t, err)
	plan.Prices = []catalog.PlanPrice{{
		ID:       uuid.New(),
		PlanID:   plan.ID,
		Currency: valueobject.USD,
		Price:    price,
	}}
	return plan
}

func newProviderSub(t *testing.T, plan *catalog.Plan, status subscription.Status) *subscription.Subscription {
	t.Helper()
	price, err := plan.PriceFor(valueobject.USD)
	require.NoError(t, err)
	sub, err := subscription.NewSubscription(testUserID, plan, price, "stripe", "psub_1")
	require.NoError(t, err)
	sub.Status = status
	return sub
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates NEW subscription replacing earlier attempts", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)

		f.planRepo.On("FindActiveBySlug", ctx, "pro").Return(plan, nil)
		f.subRepo.On("CountNotDeadByUser", ctx, testUserID).Return(int64(0), nil)
		f.subRepo.On("CreateReplacingNew", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil)

		result, err := f.service.Create(ctx, CreateSubscriptionRequest{
			UserID:       testUserID,
			PlanSlug:     "pro",
			ProviderSlug: "stripe",
		})

		assert.NoError(t, err)
		assert.Equal(t, subscription.StatusNew.String(), result.Status)
		assert.Equal(t, int64(2999), result.Price)
		f.subRepo.AssertExpectations(t)
	})

	t.Run("rejects second not-dead subscription", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)

		f.planRepo.On("FindActiveBySlug", ctx, "pro").Return(plan, nil)
		f.subRepo.On("CountNotDeadByUser", ctx, testUserID).Return(int64(1), nil)

		_, err := f.service.Create(ctx, CreateSubscriptionRequest{
			UserID:       testUserID,
			PlanSlug:     "pro",
			ProviderSlug: "stripe",
		})

		assert.ErrorIs(t, err, shared.ErrSubscriptionExists)
		f.subRepo.AssertNotCalled(t, "CreateReplacingNew", mock.Anything, mock.Anything)
	})

	t.Run("trial plan sets trial end without snapshotting yet", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		require.NoError(t, plan.WithTrial(catalog.IntervalDay, 14))

		f.planRepo.On("FindActiveBySlug", ctx, "pro").Return(plan, nil)
		f.subRepo.On("CountNotDeadByUser", ctx, testUserID).Return(int64(0), nil)
		f.subRepo.On("CreateReplacingNew", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil)

		result, err := f.service.Create(ctx, CreateSubscriptionRequest{
			UserID:       testUserID,
			PlanSlug:     "pro",
			ProviderSlug: "stripe",
		})

		assert.NoError(t, err)
		require.NotNil(t, result.TrialEndsAt)
		assert.Equal(t, testNow.AddDate(0, 0, 14), *result.TrialEndsAt)
		// the snapshot waits for activation, a NEW row is not a trial yet
		f.subRepo.AssertNotCalled(t, "SaveTrial", mock.Anything, mock.Anything)
	})

	t.Run("unknown plan slug fails", func(t *testing.T) {
		f := newServiceFixture(t)

		f.planRepo.On("FindActiveBySlug", ctx, "ghost").Return(nil, shared.ErrPlanNotFound)

		_, err := f.service.Create(ctx, CreateSubscriptionRequest{
			UserID:       testUserID,
			PlanSlug:     "ghost",
			ProviderSlug: "stripe",
		})

		assert.ErrorIs(t, err, shared.ErrPlanNotFound)
	})
}

func TestService_CreateLocal(t *testing.T) {
	ctx := context.Background()

	t.Run("active local subscription publishes Subscribed", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)

		f.planRepo.On("FindActiveBySlug", ctx, "pro").Return(plan, nil)
		f.subRepo.On("CountNotDeadByUser", ctx, testUserID).Return(int64(0), nil)
		f.subRepo.On("CreateReplacingNew", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil)

		result, err := f.service.CreateLocal(ctx, CreateLocalSubscriptionRequest{
			UserID:   testUserID,
			PlanSlug: "pro",
		})

		assert.NoError(t, err)
		assert.Equal(t, subscription.StatusActive.String(), result.Status)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, subscription.EventTypeSubscribed, f.publisher.events[0].EventType())
	})

	t.Run("active local trial snapshots immediately", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		require.NoError(t, plan.WithTrial(catalog.IntervalDay, 14))

		f.planRepo.On("FindActiveBySlug", ctx, "pro").Return(plan, nil)
		f.subRepo.On("CountNotDeadByUser", ctx, testUserID).Return(int64(0), nil)
		f.subRepo.On("CreateReplacingNew", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil)
		f.subRepo.On("SaveTrial", ctx, mock.MatchedBy(func(trial *subscription.UserSubscriptionTrial) bool {
			return trial.UserID == testUserID && trial.TrialEndsAt.Equal(testNow.AddDate(0, 0, 14))
		})).Return(nil)

		result, err := f.service.CreateLocal(ctx, CreateLocalSubscriptionRequest{
			UserID:   testUserID,
			PlanSlug: "pro",
		})

		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive.String(), result.Status)
		f.subRepo.AssertExpectations(t)
	})

	t.Run("verification-gated subscription publishes nothing", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)

		f.planRepo.On("FindActiveBySlug", ctx, "pro").Return(plan, nil)
		f.subRepo.On("CountNotDeadByUser", ctx, testUserID).Return(int64(0), nil)
		f.subRepo.On("CreateReplacingNew", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil)

		result, err := f.service.CreateLocal(ctx, CreateLocalSubscriptionRequest{
			UserID:               testUserID,
			PlanSlug:             "pro",
			RequiresVerification: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, subscription.StatusPendingUserVerification.String(), result.Status)
		assert.Empty(t, f.publisher.events)
	})
}

func TestService_UpdateFromProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("activation publishes Subscribed", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, plan, subscription.StatusPending)

		f.subRepo.On("FindByProviderSubscriptionID", ctx, "stripe", "psub_1").Return(sub, nil)
		f.subRepo.On("Save", ctx, sub).Return(nil)

		active := subscription.StatusActive
		endsAt := testNow.AddDate(0, 1, 0)
		result, err := f.service.UpdateFromProvider(ctx, UpdateFromProviderRequest{
			ProviderSlug:           "stripe",
			ProviderSubscriptionID: "psub_1",
			Status:                 &active,
			EndsAt:                 &endsAt,
		})

		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive.String(), result.Status)
		// activation and the fresh ends_at both fire
		require.Len(t, f.publisher.events, 2)
		assert.Equal(t, subscription.EventTypeSubscribed, f.publisher.events[0].EventType())
		assert.Equal(t, subscription.EventTypeSubscriptionRenewed, f.publisher.events[1].EventType())
	})

	t.Run("activation with trial snapshots the trial", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, plan, subscription.StatusPending)
		trialEnd := testNow.AddDate(0, 0, 14)

		f.subRepo.On("FindByProviderSubscriptionID", ctx, "stripe", "psub_1").Return(sub, nil)
		f.subRepo.On("Save", ctx, sub).Return(nil)
		f.subRepo.On("SaveTrial", ctx, mock.MatchedBy(func(trial *subscription.UserSubscriptionTrial) bool {
			return trial.SubscriptionID == sub.ID && trial.TrialEndsAt.Equal(trialEnd)
		})).Return(nil)

		active := subscription.StatusActive
		_, err := f.service.UpdateFromProvider(ctx, UpdateFromProviderRequest{
			ProviderSlug:           "stripe",
			ProviderSubscriptionID: "psub_1",
			Status:                 &active,
			TrialEndsAt:            &trialEnd,
		})

		require.NoError(t, err)
		f.subRepo.AssertExpectations(t)
	})

	t.Run("renewal without status change publishes Renewed only", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, plan, subscription.StatusActive)
		old := testNow.AddDate(0, 1, 0)
		sub.EndsAt = &old

		f.subRepo.On("FindByProviderSubscriptionID", ctx, "stripe", "psub_1").Return(sub, nil)
		f.subRepo.On("Save", ctx, sub).Return(nil)

		extended := testNow.AddDate(0, 2, 0)
		_, err := f.service.UpdateFromProvider(ctx, UpdateFromProviderRequest{
			ProviderSlug:           "stripe",
			ProviderSubscriptionID: "psub_1",
			EndsAt:                 &extended,
		})

		assert.NoError(t, err)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, subscription.EventTypeSubscriptionRenewed, f.publisher.events[0].EventType())
	})

	t.Run("unknown provider subscription fails", func(t *testing.T) {
		f := newServiceFixture(t)

		f.subRepo.On("FindByProviderSubscriptionID", ctx, "stripe", "ghost").Return(nil, shared.ErrNotFound)

		_, err := f.service.UpdateFromProvider(ctx, UpdateFromProviderRequest{
			ProviderSlug:           "stripe",
			ProviderSubscriptionID: "ghost",
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_SetAsPending(t *testing.T) {
	ctx := context.Background()

	t.Run("lost race is not an error", func(t *testing.T) {
		f := newServiceFixture(t)
		id := uuid.New()

		f.subRepo.On("MarkPendingIfNew", ctx, id).Return(false, nil)

		assert.NoError(t, f.service.SetAsPending(ctx, id))
	})
}

func TestService_ChangePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites snapshot after provider accepts", func(t *testing.T) {
		f := newServiceFixture(t)
		oldPlan := newPlan(t, "basic", 999)
		newPlanObj := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, oldPlan, subscription.StatusActive)

		f.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.planRepo.On("FindByID", ctx, oldPlan.ID).Return(oldPlan, nil)
		f.planRepo.On("FindActiveBySlug", ctx, "pro").Return(newPlanObj, nil)
		f.provider.On("ChangePlan", ctx, sub, newPlanObj, true).Return(true, nil)
		f.subRepo.On("Save", ctx, sub).Return(nil)

		result, err := f.service.ChangePlan(ctx, ChangePlanRequest{
			UserID:         testUserID,
			SubscriptionID: sub.ID,
			NewPlanSlug:    "pro",
			WithProration:  true,
		})

		require.NoError(t, err)
		assert.Equal(t, newPlanObj.ID, result.PlanID)
		assert.Equal(t, int64(2999), result.Price)
		// a successful change re-announces the subscription
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, subscription.EventTypeSubscribed, f.publisher.events[0].EventType())
		f.provider.AssertExpectations(t)
	})

	t.Run("provider refusal leaves local state untouched", func(t *testing.T) {
		f := newServiceFixture(t)
		oldPlan := newPlan(t, "basic", 999)
		newPlanObj := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, oldPlan, subscription.StatusActive)

		f.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.planRepo.On("FindByID", ctx, oldPlan.ID).Return(oldPlan, nil)
		f.planRepo.On("FindActiveBySlug", ctx, "pro").Return(newPlanObj, nil)
		f.provider.On("ChangePlan", ctx, sub, newPlanObj, false).Return(false, nil)

		_, err := f.service.ChangePlan(ctx, ChangePlanRequest{
			UserID:         testUserID,
			SubscriptionID: sub.ID,
			NewPlanSlug:    "pro",
		})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.subRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("usage-based current plan cannot change", func(t *testing.T) {
		f := newServiceFixture(t)
		oldPlan := newPlan(t, "metered", 0)
		oldPlan.Type = catalog.PlanTypeUsageBased
		sub := newProviderSub(t, oldPlan, subscription.StatusActive)

		f.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.planRepo.On("FindByID", ctx, oldPlan.ID).Return(oldPlan, nil)

		_, err := f.service.ChangePlan(ctx, ChangePlanRequest{
			UserID:         testUserID,
			SubscriptionID: sub.ID,
			NewPlanSlug:    "pro",
		})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("foreign subscription reads as not found", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "basic", 999)
		sub := newProviderSub(t, plan, subscription.StatusActive)

		f.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)

		_, err := f.service.ChangePlan(ctx, ChangePlanRequest{
			UserID:         uuid.New(),
			SubscriptionID: sub.ID,
			NewPlanSlug:    "pro",
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("schedules end-of-cycle cancellation", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, plan, subscription.StatusActive)

		f.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.provider.On("CancelSubscription", ctx, sub).Return(true, nil)
		f.subRepo.On("Save", ctx, sub).Return(nil)

		result, err := f.service.Cancel(ctx, testUserID, sub.ID, "too expensive")

		assert.NoError(t, err)
		assert.True(t, result.IsCanceledAtEndOfCycle)
		// still ACTIVE until the cycle lapses
		assert.Equal(t, subscription.StatusActive.String(), result.Status)
	})

	t.Run("already scheduled cancellation is rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, plan, subscription.StatusActive)
		sub.IsCanceledAtEndOfCycle = true

		f.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)

		_, err := f.service.Cancel(ctx, testUserID, sub.ID, "")

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestService_DiscardCancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("reverts scheduled cancellation", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, plan, subscription.StatusActive)
		sub.IsCanceledAtEndOfCycle = true
		sub.CancellationReason = "too expensive"

		f.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.provider.On("DiscardSubscriptionCancellation", ctx, sub).Return(true, nil)
		f.subRepo.On("Save", ctx, sub).Return(nil)

		result, err := f.service.DiscardCancellation(ctx, testUserID, sub.ID)

		assert.NoError(t, err)
		assert.False(t, result.IsCanceledAtEndOfCycle)
	})
}

func TestService_AddDiscount(t *testing.T) {
	ctx := context.Background()

	t.Run("redeems after provider accepted", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, plan, subscription.StatusActive)

		disc, err := discountFixture(plan.ID)
		require.NoError(t, err)
		code := disc.Codes[0]

		f.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.discountRepo.On("FindByCode", ctx, "SAVE10").Return(disc, &code, nil)
		f.discountRepo.On("CountUserRedemptions", ctx, testUserID, code.ID).Return(0, nil)
		f.provider.On("AddDiscountToSubscription", ctx, sub, disc, &code).Return(true, nil)
		f.discountRepo.On("Redeem", ctx, mock.AnythingOfType("*discount.Redemption"), mock.AnythingOfType("*discount.SubscriptionDiscount")).Return(nil)

		assert.NoError(t, f.service.AddDiscount(ctx, testUserID, sub.ID, "SAVE10"))
		f.discountRepo.AssertExpectations(t)
	})

	t.Run("subscription with existing discount is rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, plan, subscription.StatusActive)
		sub.Discounts = append(sub.Discounts, *mustSnapshot(t, plan.ID, sub.ID))

		f.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)

		err := f.service.AddDiscount(ctx, testUserID, sub.ID, "SAVE10")

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("discount-disallowing provider is rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, plan, subscription.StatusActive)
		sub.ProviderSlug = subscription.ProviderSlugDisallowingDiscounts

		f.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)

		err := f.service.AddDiscount(ctx, testUserID, sub.ID, "SAVE10")

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestService_End(t *testing.T) {
	ctx := context.Background()

	t.Run("ends active subscription", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		sub := newProviderSub(t, plan, subscription.StatusActive)

		f.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.subRepo.On("Save", ctx, sub).Return(nil)

		result, err := f.service.End(ctx, sub.ID)

		assert.NoError(t, err)
		assert.Equal(t, subscription.StatusInactive.String(), result.Status)
	})
}

func TestService_CleanupLocalStatuses(t *testing.T) {
	ctx := context.Background()

	t.Run("ends every expired local subscription", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		price, err := plan.PriceFor(valueobject.USD)
		require.NoError(t, err)

		past := testNow.AddDate(0, -1, 0)
		first, err := subscription.NewLocalSubscription(testUserID, plan, price, subscription.StatusActive, &past, nil)
		require.NoError(t, err)
		first.ClearDomainEvents()
		second, err := subscription.NewLocalSubscription(uuid.New(), plan, price, subscription.StatusActive, &past, nil)
		require.NoError(t, err)
		second.ClearDomainEvents()

		f.subRepo.On("FindExpiredLocalActive", ctx, testNow).Return([]subscription.Subscription{*first, *second}, nil)
		f.subRepo.On("Save", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil).Twice()

		ended, err := f.service.CleanupLocalStatuses(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 2, ended)
		f.subRepo.AssertExpectations(t)
	})
}

func TestService_ActivatePendingUserVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("activates and publishes Subscribed per subscription", func(t *testing.T) {
		f := newServiceFixture(t)
		plan := newPlan(t, "pro", 2999)
		price, err := plan.PriceFor(valueobject.USD)
		require.NoError(t, err)

		sub, err := subscription.NewLocalSubscription(testUserID, plan, price, subscription.StatusPendingUserVerification, nil, nil)
		require.NoError(t, err)

		f.subRepo.On("FindByUserAndStatus", ctx, testUserID, subscription.StatusPendingUserVerification).
			Return([]subscription.Subscription{*sub}, nil)
		f.subRepo.On("Save", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil)

		activated, err := f.service.ActivatePendingUserVerification(ctx, testUserID)

		assert.NoError(t, err)
		assert.Equal(t, 1, activated)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, subscription.EventTypeSubscribed, f.publisher.events[0].EventType())
	})
}
