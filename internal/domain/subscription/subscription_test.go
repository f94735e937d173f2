package subscription

import (
	"testing"
	"time"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planFixture(t *testing.T) (*catalog.Plan, *catalog.PlanPrice) {
	t.Helper()
	plan, err := catalog.NewPlan(uuid.New(), "Pro", uuid.NewString(), catalog.PlanTypeFlatRate, catalog.IntervalMonth, 1)
	require.NoError(t, err)
	plan.Prices = []catalog.PlanPrice{{ID: uuid.New(), PlanID: plan.ID, Currency: valueobject.USD, Price: 1000}}
	price, err := plan.PriceFor(valueobject.USD)
	require.NoError(t, err)
	return plan, price
}

func subFixture(t *testing.T, status Status) *Subscription {
	t.Helper()
	plan, price := planFixture(t)
	sub, err := NewSubscription(uuid.New(), plan, price, "stripe", "sub_123")
	require.NoError(t, err)
	sub.Status = status
	return sub
}

func TestNewSubscription(t *testing.T) {
	t.Run("snapshots plan and price", func(t *testing.T) {
		plan, price := planFixture(t)
		userID := uuid.New()

		sub, err := NewSubscription(userID, plan, price, "stripe", "sub_123")
		require.NoError(t, err)

		assert.Equal(t, StatusNew, sub.Status)
		assert.Equal(t, TypeProviderManaged, sub.Type)
		assert.Equal(t, userID, sub.UserID)
		assert.Equal(t, plan.ID, sub.PlanID)
		assert.Equal(t, int64(1000), sub.Price)
		assert.Equal(t, valueobject.USD, sub.Currency)
		assert.Equal(t, catalog.IntervalMonth, sub.IntervalUnit)
		assert.Equal(t, 1, sub.IntervalCount)
		assert.Empty(t, sub.GetDomainEvents())
	})

	t.Run("fails without user", func(t *testing.T) {
		plan, price := planFixture(t)
		_, err := NewSubscription(uuid.Nil, plan, price, "stripe", "sub_123")
		require.Error(t, err)
	})

	t.Run("fails without plan", func(t *testing.T) {
		_, err := NewSubscription(uuid.New(), nil, nil, "stripe", "sub_123")
		require.Error(t, err)
	})
}

func TestNewLocalSubscription(t *testing.T) {
	plan, price := planFixture(t)

	t.Run("active local subscription raises Subscribed", func(t *testing.T) {
		endsAt := time.Now().AddDate(0, 1, 0)
		sub, err := NewLocalSubscription(uuid.New(), plan, price, StatusActive, &endsAt, nil)
		require.NoError(t, err)

		assert.Equal(t, TypeLocallyManaged, sub.Type)
		assert.Equal(t, ProviderSlugOffline, sub.ProviderSlug)
		events := sub.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSubscribed, events[0].EventType())
	})

	t.Run("verification-gated local subscription stays silent", func(t *testing.T) {
		sub, err := NewLocalSubscription(uuid.New(), plan, price, StatusPendingUserVerification, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, sub.GetDomainEvents())
	})

	t.Run("rejects other starting statuses", func(t *testing.T) {
		_, err := NewLocalSubscription(uuid.New(), plan, price, StatusPending, nil, nil)
		require.Error(t, err)
	})
}

func TestSubscription_Update(t *testing.T) {
	status := func(s Status) *Status { return &s }

	t.Run("activation raises Subscribed", func(t *testing.T) {
		sub := subFixture(t, StatusPending)
		sub.Update(Patch{Status: status(StatusActive)})

		events := sub.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSubscribed, events[0].EventType())
	})

	t.Run("cancellation raises SubscriptionCancelled", func(t *testing.T) {
		sub := subFixture(t, StatusActive)
		reason := "too expensive"
		sub.Update(Patch{Status: status(StatusCanceled), CancellationReason: &reason})

		events := sub.GetDomainEvents()
		require.Len(t, events, 1)
		cancelled, ok := events[0].(*SubscriptionCancelledEvent)
		require.True(t, ok)
		assert.Equal(t, "too expensive", cancelled.Reason)
	})

	t.Run("extending ends_at raises SubscriptionRenewed", func(t *testing.T) {
		sub := subFixture(t, StatusActive)
		oldEnd := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		newEnd := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		sub.EndsAt = &oldEnd

		sub.Update(Patch{EndsAt: &newEnd})

		events := sub.GetDomainEvents()
		require.Len(t, events, 1)
		renewed, ok := events[0].(*SubscriptionRenewedEvent)
		require.True(t, ok)
		assert.Equal(t, oldEnd, renewed.OldEndsAt)
		assert.Equal(t, newEnd, renewed.NewEndsAt)
	})

	t.Run("setting ends_at from nil counts as an extension", func(t *testing.T) {
		sub := subFixture(t, StatusActive)
		newEnd := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

		sub.Update(Patch{EndsAt: &newEnd})

		events := sub.GetDomainEvents()
		require.Len(t, events, 1)
		renewed := events[0].(*SubscriptionRenewedEvent)
		assert.True(t, renewed.OldEndsAt.IsZero())
	})

	t.Run("activation with a later ends_at raises both events in order", func(t *testing.T) {
		sub := subFixture(t, StatusPending)
		newEnd := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

		sub.Update(Patch{Status: status(StatusActive), EndsAt: &newEnd})

		events := sub.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeSubscribed, events[0].EventType())
		assert.Equal(t, EventTypeSubscriptionRenewed, events[1].EventType())
	})

	t.Run("same status raises nothing", func(t *testing.T) {
		sub := subFixture(t, StatusActive)
		sub.Update(Patch{Status: status(StatusActive)})
		assert.Empty(t, sub.GetDomainEvents())
	})

	t.Run("earlier ends_at is not a renewal", func(t *testing.T) {
		sub := subFixture(t, StatusActive)
		oldEnd := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		earlier := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		sub.EndsAt = &oldEnd

		sub.Update(Patch{EndsAt: &earlier})

		assert.Empty(t, sub.GetDomainEvents())
		assert.Equal(t, earlier, *sub.EndsAt)
	})

	t.Run("offline local subscription moving to PENDING raises SubscribedOffline", func(t *testing.T) {
		plan, price := planFixture(t)
		sub, err := NewLocalSubscription(uuid.New(), plan, price, StatusPendingUserVerification, nil, nil)
		require.NoError(t, err)
		sub.ClearDomainEvents()

		sub.Update(Patch{Status: status(StatusPending)})

		events := sub.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSubscribedOffline, events[0].EventType())
	})

	t.Run("provider-managed subscription in PENDING stays silent", func(t *testing.T) {
		sub := subFixture(t, StatusNew)
		sub.Update(Patch{Status: status(StatusPending)})
		assert.Empty(t, sub.GetDomainEvents())
	})

	t.Run("nil patch fields leave state untouched", func(t *testing.T) {
		sub := subFixture(t, StatusActive)
		sub.CancellationReason = "kept"

		sub.Update(Patch{})

		assert.Equal(t, StatusActive, sub.Status)
		assert.Equal(t, "kept", sub.CancellationReason)
		assert.Empty(t, sub.GetDomainEvents())
	})
}

func TestSubscription_Guards(t *testing.T) {
	t.Run("CanAddDiscount", func(t *testing.T) {
		sub := subFixture(t, StatusActive)
		assert.True(t, sub.CanAddDiscount())

		pastDue := subFixture(t, StatusPastDue)
		assert.True(t, pastDue.CanAddDiscount())

		pending := subFixture(t, StatusPending)
		assert.False(t, pending.CanAddDiscount())

		free := subFixture(t, StatusActive)
		free.Price = 0
		assert.False(t, free.CanAddDiscount())

		discounted := subFixture(t, StatusActive)
		discounted.Discounts = []discount.SubscriptionDiscount{{ID: uuid.New()}}
		assert.False(t, discounted.CanAddDiscount())

		restricted := subFixture(t, StatusActive)
		restricted.ProviderSlug = ProviderSlugDisallowingDiscounts
		assert.False(t, restricted.CanAddDiscount())
	})

	t.Run("CanCancel", func(t *testing.T) {
		sub := subFixture(t, StatusActive)
		assert.True(t, sub.CanCancel())

		sub.IsCanceledAtEndOfCycle = true
		assert.False(t, sub.CanCancel())
		assert.True(t, sub.CanDiscardCancellation())

		local := subFixture(t, StatusActive)
		local.Type = TypeLocallyManaged
		assert.False(t, local.CanCancel())
		assert.True(t, local.CanEnd())
	})

	t.Run("CanUpdate", func(t *testing.T) {
		local := subFixture(t, StatusActive)
		local.Type = TypeLocallyManaged
		assert.True(t, local.CanUpdate())

		// provider-managed rows only change through the provider
		sub := subFixture(t, StatusActive)
		assert.False(t, sub.CanUpdate())
	})

	t.Run("CanChangePlan", func(t *testing.T) {
		plan, _ := planFixture(t)
		sub := subFixture(t, StatusActive)
		assert.True(t, sub.CanChangePlan(plan))
		assert.False(t, sub.CanChangePlan(nil))

		paused := subFixture(t, StatusPaused)
		assert.False(t, paused.CanChangePlan(plan))
	})

	t.Run("dead statuses free the slot", func(t *testing.T) {
		assert.True(t, StatusCanceled.IsDead())
		assert.True(t, StatusInactive.IsDead())
		assert.False(t, StatusPastDue.IsDead())
		assert.False(t, subFixture(t, StatusCanceled).IsNotDead())
	})

	t.Run("IsTrialing", func(t *testing.T) {
		now := time.Now()
		sub := subFixture(t, StatusActive)
		assert.False(t, sub.IsTrialing(now))

		future := now.Add(24 * time.Hour)
		sub.TrialEndsAt = &future
		assert.True(t, sub.IsTrialing(now))

		past := now.Add(-24 * time.Hour)
		sub.TrialEndsAt = &past
		assert.False(t, sub.IsTrialing(now))
	})
}
