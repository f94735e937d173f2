package subscription

import (
	"context"
	"time"

	"github.com/billingkit/backend/internal/application/checkout"
	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/payment"
	"github.com/billingkit/backend/internal/domain/settings"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service drives the subscription lifecycle. Remote state at the
// payment provider always changes before local state: a failed
// provider call leaves the local row untouched.
type Service struct {
	subRepo        subscription.Repository
	planRepo       catalog.PlanRepository
	discountSvc    *checkout.DiscountService
	providers      payment.ProviderRegistry
	settings       settings.Store
	eventPublisher shared.EventPublisher
	clock          shared.Clock
	logger         *zap.Logger
}

// ServiceConfig holds the dependencies of the subscription Service
type ServiceConfig struct {
	SubscriptionRepo subscription.Repository
	PlanRepo         catalog.PlanRepository
	DiscountService  *checkout.DiscountService
	Providers        payment.ProviderRegistry
	Settings         settings.Store
	EventPublisher   shared.EventPublisher
	Clock            shared.Clock
	Logger           *zap.Logger
}

// NewService creates a new subscription Service
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Service{
		subRepo:        cfg.SubscriptionRepo,
		planRepo:       cfg.PlanRepo,
		discountSvc:    cfg.DiscountService,
		providers:      cfg.Providers,
		settings:       cfg.Settings,
		eventPublisher: cfg.EventPublisher,
		clock:          clock,
		logger:         logger,
	}
}

// GetByID retrieves a subscription by id
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// Create starts a provider-managed checkout. The subscription is
// written in NEW status, replacing any earlier NEW attempt of the
// same user so abandoned checkouts never pile up.
func (s *Service) Create(ctx context.Context, req CreateSubscriptionRequest) (*SubscriptionResponse, error) {
	plan, err := s.planRepo.FindActiveBySlug(ctx, req.PlanSlug)
	if err != nil {
		return nil, err
	}
	currency, err := s.settings.DefaultCurrency(ctx)
	if err != nil {
		return nil, err
	}
	price, err := plan.PriceFor(currency)
	if err != nil {
		return nil, err
	}

	if err := s.ensureSubscriptionSlot(ctx, req.UserID); err != nil {
		return nil, err
	}

	sub, err := subscription.NewSubscription(req.UserID, plan, price, req.ProviderSlug, "")
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if trialDays := subscription.CalculateTrialDays(plan, now); trialDays > 0 {
		trialEnd := now.AddDate(0, 0, trialDays)
		sub.TrialEndsAt = &trialEnd
	}

	if err := s.subRepo.CreateReplacingNew(ctx, sub); err != nil {
		return nil, err
	}

	if req.DiscountCode != "" {
		disc, discCode, err := s.discountSvc.ResolveForPlan(ctx, req.UserID, plan.ID, req.DiscountCode, req.ProviderSlug)
		if err != nil {
			return nil, err
		}
		if err := s.discountSvc.RedeemForSubscription(ctx, req.UserID, sub.ID, disc, discCode); err != nil {
			return nil, err
		}
	}

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// CreateLocal creates a locally-managed subscription that is live
// immediately, or awaiting user verification when requested
func (s *Service) CreateLocal(ctx context.Context, req CreateLocalSubscriptionRequest) (*SubscriptionResponse, error) {
	plan, err := s.planRepo.FindActiveBySlug(ctx, req.PlanSlug)
	if err != nil {
		return nil, err
	}
	currency, err := s.settings.DefaultCurrency(ctx)
	if err != nil {
		return nil, err
	}
	price, err := plan.PriceFor(currency)
	if err != nil {
		return nil, err
	}

	if err := s.ensureSubscriptionSlot(ctx, req.UserID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	status := subscription.StatusActive
	if req.RequiresVerification {
		status = subscription.StatusPendingUserVerification
	}

	endsAt := plan.IntervalUnit.AddTo(now, plan.IntervalCount)
	var trialEndsAt *time.Time
	if trialDays := subscription.CalculateTrialDays(plan, now); trialDays > 0 {
		te := now.AddDate(0, 0, trialDays)
		trialEndsAt = &te
	}

	sub, err := subscription.NewLocalSubscription(req.UserID, plan, price, status, &endsAt, trialEndsAt)
	if err != nil {
		return nil, err
	}

	if err := s.subRepo.CreateReplacingNew(ctx, sub); err != nil {
		return nil, err
	}
	if err := s.recordTrialSnapshot(ctx, sub); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, sub)

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// SetAsPending advances a NEW subscription to PENDING once the user
// enters the provider's checkout. The conditional update loses
// gracefully to a webhook that already activated the row.
func (s *Service) SetAsPending(ctx context.Context, id uuid.UUID) error {
	moved, err := s.subRepo.MarkPendingIfNew(ctx, id)
	if err != nil {
		return err
	}
	if !moved {
		s.logger.Debug("subscription already advanced past NEW",
			zap.String("subscription_id", id.String()))
	}
	return nil
}

// UpdateFromProvider applies a provider webhook to the subscription it
// references. Events implied by the transition publish after save.
func (s *Service) UpdateFromProvider(ctx context.Context, req UpdateFromProviderRequest) (*SubscriptionResponse, error) {
	sub, err := s.subRepo.FindByProviderSubscriptionID(ctx, req.ProviderSlug, req.ProviderSubscriptionID)
	if err != nil {
		return nil, err
	}

	sub.Update(subscription.Patch{
		Status:                 req.Status,
		EndsAt:                 req.EndsAt,
		TrialEndsAt:            req.TrialEndsAt,
		IsCanceledAtEndOfCycle: req.IsCanceledAtEndOfCycle,
		CancellationReason:     req.CancellationReason,
	})

	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	if err := s.recordTrialSnapshot(ctx, sub); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, sub)

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// AttachProviderSubscription links the provider-side id to a local
// subscription right after checkout creates it remotely
func (s *Service) AttachProviderSubscription(ctx context.Context, id uuid.UUID, providerSubscriptionID string) error {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	sub.Update(subscription.Patch{ProviderSubscriptionID: &providerSubscriptionID})
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return err
	}
	s.publishEvents(ctx, sub)
	return nil
}

// ChangePlan moves the subscription to another plan, provider first.
// The local price snapshot is rewritten from the new plan only after
// the provider accepted the change.
func (s *Service) ChangePlan(ctx context.Context, req ChangePlanRequest) (*SubscriptionResponse, error) {
	sub, err := s.ownedSubscription(ctx, req.UserID, req.SubscriptionID)
	if err != nil {
		return nil, err
	}
	currentPlan, err := s.planRepo.FindByID(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	if !sub.CanChangePlan(currentPlan) {
		return nil, shared.ErrInvalidState
	}

	newPlan, err := s.planRepo.FindActiveBySlug(ctx, req.NewPlanSlug)
	if err != nil {
		return nil, err
	}
	if newPlan.ID == sub.PlanID {
		return nil, shared.ErrInvalidState
	}
	newPrice, err := newPlan.PriceFor(sub.Currency)
	if err != nil {
		return nil, err
	}

	provider, err := s.providers.Get(sub.ProviderSlug)
	if err != nil {
		return nil, err
	}
	accepted, err := provider.ChangePlan(ctx, sub, newPlan, req.WithProration)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, shared.ErrInvalidState
	}

	sub.PlanID = newPlan.ID
	sub.Price = newPrice.Price
	sub.IntervalUnit = newPlan.IntervalUnit
	sub.IntervalCount = newPlan.IntervalCount
	sub.PriceType = newPrice.PriceType
	sub.PricePerUnit = newPrice.PricePerUnit
	sub.PriceTiers = newPrice.Tiers
	sub.AddDomainEvent(subscription.NewSubscribedEvent(sub))

	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, sub)

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// Cancel schedules cancellation at the end of the current cycle
func (s *Service) Cancel(ctx context.Context, userID, subscriptionID uuid.UUID, reason string) (*SubscriptionResponse, error) {
	sub, err := s.ownedSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !sub.CanCancel() {
		return nil, shared.ErrInvalidState
	}

	provider, err := s.providers.Get(sub.ProviderSlug)
	if err != nil {
		return nil, err
	}
	accepted, err := provider.CancelSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, shared.ErrInvalidState
	}

	canceled := true
	sub.Update(subscription.Patch{
		IsCanceledAtEndOfCycle: &canceled,
		CancellationReason:     &reason,
	})
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, sub)

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// DiscardCancellation reverts a scheduled end-of-cycle cancellation
func (s *Service) DiscardCancellation(ctx context.Context, userID, subscriptionID uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.ownedSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !sub.CanDiscardCancellation() {
		return nil, shared.ErrInvalidState
	}

	provider, err := s.providers.Get(sub.ProviderSlug)
	if err != nil {
		return nil, err
	}
	accepted, err := provider.DiscardSubscriptionCancellation(ctx, sub)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, shared.ErrInvalidState
	}

	canceled := false
	reason := ""
	sub.Update(subscription.Patch{
		IsCanceledAtEndOfCycle: &canceled,
		CancellationReason:     &reason,
	})
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, sub)

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// AddDiscount applies a discount code to a running subscription
func (s *Service) AddDiscount(ctx context.Context, userID, subscriptionID uuid.UUID, code string) error {
	sub, err := s.ownedSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return err
	}
	if !sub.CanAddDiscount() {
		return shared.ErrInvalidState
	}

	disc, discCode, err := s.discountSvc.ResolveForPlan(ctx, userID, sub.PlanID, code, sub.ProviderSlug)
	if err != nil {
		return err
	}

	provider, err := s.providers.Get(sub.ProviderSlug)
	if err != nil {
		return err
	}
	if !provider.SupportsSubscriptionDiscounts() {
		return shared.ErrCodeNotRedeemable
	}
	accepted, err := provider.AddDiscountToSubscription(ctx, sub, disc, discCode)
	if err != nil {
		return err
	}
	if !accepted {
		return shared.ErrCodeNotRedeemable
	}

	return s.discountSvc.RedeemForSubscription(ctx, userID, sub.ID, disc, discCode)
}

// End terminates the subscription immediately
func (s *Service) End(ctx context.Context, subscriptionID uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.subRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !sub.CanEnd() {
		return nil, shared.ErrInvalidState
	}

	inactive := subscription.StatusInactive
	sub.Update(subscription.Patch{Status: &inactive})
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, sub)

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// CleanupLocalStatuses sweeps locally-managed ACTIVE subscriptions
// whose paid period has lapsed and ends them. Run daily.
func (s *Service) CleanupLocalStatuses(ctx context.Context) (int, error) {
	expired, err := s.subRepo.FindExpiredLocalActive(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}

	ended := 0
	for i := range expired {
		sub := &expired[i]
		inactive := subscription.StatusInactive
		sub.Update(subscription.Patch{Status: &inactive})
		if err := s.subRepo.Save(ctx, sub); err != nil {
			s.logger.Error("failed to end expired local subscription",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err))
			continue
		}
		s.publishEvents(ctx, sub)
		ended++
	}
	return ended, nil
}

// ActivatePendingUserVerification flips the user's subscriptions
// awaiting verification to ACTIVE, typically after email confirmation
func (s *Service) ActivatePendingUserVerification(ctx context.Context, userID uuid.UUID) (int, error) {
	pending, err := s.subRepo.FindByUserAndStatus(ctx, userID, subscription.StatusPendingUserVerification)
	if err != nil {
		return 0, err
	}

	activated := 0
	for i := range pending {
		sub := &pending[i]
		active := subscription.StatusActive
		sub.Update(subscription.Patch{Status: &active})
		if err := s.subRepo.Save(ctx, sub); err != nil {
			s.logger.Error("failed to activate verified subscription",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err))
			continue
		}
		if err := s.recordTrialSnapshot(ctx, sub); err != nil {
			s.logger.Error("failed to record trial snapshot",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err))
		}
		s.publishEvents(ctx, sub)
		activated++
	}
	return activated, nil
}

// ensureSubscriptionSlot enforces the one-not-dead-subscription rule
// unless multiple subscriptions are enabled
func (s *Service) ensureSubscriptionSlot(ctx context.Context, userID uuid.UUID) error {
	multi, err := s.settings.MultipleSubscriptionsEnabled(ctx)
	if err != nil {
		return err
	}
	if multi {
		return nil
	}
	count, err := s.subRepo.CountNotDeadByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrSubscriptionExists
	}
	return nil
}

func (s *Service) ownedSubscription(ctx context.Context, userID, subscriptionID uuid.UUID) (*subscription.Subscription, error) {
	sub, err := s.subRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return sub, nil
}

// recordTrialSnapshot persists the trial record once a subscription is
// live with a trial window. The write is first-write-wins, so repeated
// webhooks for the same subscription keep the original snapshot.
func (s *Service) recordTrialSnapshot(ctx context.Context, sub *subscription.Subscription) error {
	if sub.Status != subscription.StatusActive || sub.TrialEndsAt == nil {
		return nil
	}
	return s.subRepo.SaveTrial(ctx, &subscription.UserSubscriptionTrial{
		ID:             uuid.New(),
		UserID:         sub.UserID,
		SubscriptionID: sub.ID,
		PlanID:         sub.PlanID,
		TrialEndsAt:    *sub.TrialEndsAt,
		CreatedAt:      s.clock.Now(),
	})
}

func (s *Service) publishEvents(ctx context.Context, sub *subscription.Subscription) {
	events := sub.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	sub.ClearDomainEvents()
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish subscription events", zap.Error(err))
	}
}
