package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/billingkit/backend/internal/application/checkout"
	appmetrics "github.com/billingkit/backend/internal/application/metrics"
	apporder "github.com/billingkit/backend/internal/application/order"
	appsubscription "github.com/billingkit/backend/internal/application/subscription"
	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/identity"
	"github.com/billingkit/backend/internal/domain/metrics"
	"github.com/billingkit/backend/internal/domain/order"
	"github.com/billingkit/backend/internal/domain/payment"
	"github.com/billingkit/backend/internal/domain/settings"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/billingkit/backend/internal/infrastructure/event"
	paymentinfra "github.com/billingkit/backend/internal/infrastructure/payment"
	"github.com/billingkit/backend/internal/infrastructure/persistence"
	"github.com/billingkit/backend/internal/interfaces/http/middleware"
	"github.com/billingkit/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

const testWebhookSecret = "hook-secret"

// testServer wires the full HTTP surface over an in-memory database
type testServer struct {
	engine  *gin.Engine
	db      *gorm.DB
	userID  uuid.UUID
	subRepo subscription.Repository
	txRepo  payment.Repository
	mtRepo  metrics.Repository
}

func newTestServer(t *testing.T) *testServer {
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

	logger := zap.NewNop()
	bus := event.NewInMemoryEventBus(logger)

	subRepo := persistence.NewGormSubscriptionRepository(db)
	planRepo := persistence.NewGormPlanRepository(db)
	otpRepo := persistence.NewGormOneTimeProductRepository(db)
	discountRepo := persistence.NewGormDiscountRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	txRepo := persistence.NewGormTransactionRepository(db)
	usageRepo := persistence.NewGormUsageRecordRepository(db)
	metricRepo := persistence.NewGormMetricRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	settingsStore := persistence.NewGormSettingsStore(db)

	providers := paymentinfra.NewRegistry(paymentinfra.NewOfflineProvider(logger))

	discountSvc := checkout.NewDiscountService(discountRepo, nil, logger)
	calcSvc := checkout.NewCalculationService(otpRepo, discountSvc, logger)
	subSvc := appsubscription.NewService(appsubscription.ServiceConfig{
		SubscriptionRepo: subRepo,
		PlanRepo:         planRepo,
		DiscountService:  discountSvc,
		Providers:        providers,
		Settings:         settingsStore,
		EventPublisher:   bus,
		Logger:           logger,
	})
	usageSvc := appsubscription.NewUsageService(subRepo, usageRepo, providers, nil, logger)
	orderSvc := apporder.NewService(orderRepo, calcSvc, discountSvc, settingsStore, bus, logger)
	txSvc := apporder.NewTransactionService(txRepo, bus, logger)
	metricsSvc := appmetrics.NewService(metricRepo, subRepo, txRepo, userRepo, nil, logger)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := router.NewRouter(engine)
	r.Register(NewSubscriptionHandler(subSvc, usageSvc, logger))
	r.Register(NewOrderHandler(orderSvc, logger))
	r.Register(NewCheckoutHandler(calcSvc, planRepo, settingsStore, logger))
	r.Register(NewWebhookHandler(txSvc, subSvc, testWebhookSecret, logger))
	r.Register(NewMetricHandler(metricsSvc))
	r.Setup()

	return &testServer{
		engine:  engine,
		db:      db,
		userID:  uuid.New(),
		subRepo: subRepo,
		txRepo:  txRepo,
		mtRepo:  metricRepo,
	}
}

func (s *testServer) seedPlan(t *testing.T, slug string, price int64) *catalog.Plan {
	t.Helper()
	plan, err := catalog.NewPlan(uuid.New(), "Pro", slug, catalog.PlanTypeFlatRate, catalog.IntervalMonth, 1)
	require.NoError(t, err)
	plan.Prices = []catalog.PlanPrice{{
		ID:        uuid.New(),
		PlanID:    plan.ID,
		Currency:  valueobject.USD,
		Price:     price,
		PriceType: catalog.PriceTypeFlat,
	}}
	require.NoError(t, s.db.Create(plan).Error)
	return plan
}

// request performs an HTTP round trip against the wired engine. The
// user header goes on whenever a user id is set.
func (s *testServer) request(t *testing.T, method, path string, body any, asUser bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(marshalBody(t, body)))
	req.Header.Set("Content-Type", "application/json")
	if asUser {
		req.Header.Set("X-User-ID", s.userID.String())
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func marshalBody(t *testing.T, body any) []byte {
	t.Helper()
	if body == nil {
		return nil
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	return payload
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "expected success envelope, got %s", w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Error.Code
}
