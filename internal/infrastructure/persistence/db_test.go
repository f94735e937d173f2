package persistence

import (
	"testing"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/identity"
	"github.com/billingkit/backend/internal/domain/metrics"
	"github.com/billingkit/backend/internal/domain/order"
	"github.com/billingkit/backend/internal/domain/payment"
	"github.com/billingkit/backend/internal/domain/settings"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&identity.User{},
		&catalog.Product{},
		&catalog.Plan{},
		&catalog.PlanPrice{},
		&catalog.PlanProviderMapping{},
		&catalog.OneTimeProduct{},
		&catalog.OneTimeProductPrice{},
		&discount.Discount{},
		&discount.DiscountCode{},
		&discount.DiscountPlan{},
		&discount.DiscountOneTimeProduct{},
		&discount.Redemption{},
		&discount.SubscriptionDiscount{},
		&subscription.Subscription{},
		&subscription.UserSubscriptionTrial{},
		&subscription.UsageRecord{},
		&order.Order{},
		&order.OrderItem{},
		&payment.Transaction{},
		&metrics.Metric{},
		&metrics.MetricDataPoint{},
		&settings.Setting{},
	)
	require.NoError(t, err)

	return db
}

func testPlan(t *testing.T, price int64) *catalog.Plan {
	t.Helper()
	plan, err := catalog.NewPlan(uuid.New(), "Pro", "pro-"+uuid.NewString()[:8], catalog.PlanTypeFlatRate, catalog.IntervalMonth, 1)
	require.NoError(t, err)
	plan.Prices = []catalog.PlanPrice{{
		ID:        uuid.New(),
		PlanID:    plan.ID,
		Currency:  valueobject.USD,
		Price:     price,
		PriceType: catalog.PriceTypeFlat,
	}}
	return plan
}

func testSubscription(t *testing.T, userID uuid.UUID, status subscription.Status) *subscription.Subscription {
	t.Helper()
	plan := testPlan(t, 1000)
	price, err := plan.PriceFor(valueobject.USD)
	require.NoError(t, err)
	sub, err := subscription.NewSubscription(userID, plan, price, "stripe", "sub_"+uuid.NewString())
	require.NoError(t, err)
	sub.Status = status
	return sub
}
