package order

import (
	"context"

	"github.com/billingkit/backend/internal/application/checkout"
	"github.com/billingkit/backend/internal/domain/order"
	"github.com/billingkit/backend/internal/domain/settings"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service maintains the user's single NEW order as the mutable
// checkout target and walks it through the payment lifecycle
type Service struct {
	orderRepo      order.Repository
	calculationSvc *checkout.CalculationService
	discountSvc    *checkout.DiscountService
	settings       settings.Store
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new order Service
func NewService(orderRepo order.Repository, calculationSvc *checkout.CalculationService, discountSvc *checkout.DiscountService, settings settings.Store, eventPublisher shared.EventPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orderRepo:      orderRepo,
		calculationSvc: calculationSvc,
		discountSvc:    discountSvc,
		settings:       settings,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// GetByID retrieves an order by id
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// RefreshOrder reconciles the user's NEW order with the cart and
// reprices every line from current catalog state. A user without a
// NEW order gets one; the whole write is a single Save call so a
// concurrent refresh cannot leave a half-priced order behind.
func (s *Service) RefreshOrder(ctx context.Context, userID uuid.UUID, cart order.Cart, isLocal bool) (*order.Order, error) {
	o, err := s.currentNewOrder(ctx, userID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		currency, err := s.settings.DefaultCurrency(ctx)
		if err != nil {
			return nil, err
		}
		o, err = order.NewOrder(userID, currency, isLocal)
		if err != nil {
			return nil, err
		}
	}

	if _, _, err := s.calculationSvc.PriceOrder(ctx, o, cart); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// BeginPayment moves the NEW order to PENDING and redeems the cart's
// discount code, if any
func (s *Service) BeginPayment(ctx context.Context, userID uuid.UUID, cart order.Cart) (*order.Order, error) {
	o, err := s.currentNewOrder(ctx, userID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, shared.ErrNotFound
	}

	if cart.DiscountCode != "" {
		ids := make([]uuid.UUID, 0, len(o.Items))
		for i := range o.Items {
			ids = append(ids, o.Items[i].OneTimeProductID)
		}
		disc, discCode, err := s.discountSvc.ResolveForProducts(ctx, userID, cart.DiscountCode, ids)
		if err != nil {
			return nil, err
		}
		if err := s.discountSvc.RedeemForOrder(ctx, userID, o.ID, disc, discCode); err != nil {
			return nil, err
		}
	}

	if err := o.MarkPending(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// CompleteOrder marks the order paid and publishes the order events
func (s *Service) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.MarkSuccess(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)
	return o, nil
}

// RefundOrder marks a paid order refunded
func (s *Service) RefundOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.MarkRefunded(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)
	return o, nil
}

func (s *Service) currentNewOrder(ctx context.Context, userID uuid.UUID) (*order.Order, error) {
	orders, err := s.orderRepo.FindByUserAndStatus(ctx, userID, order.StatusNew)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

func (s *Service) publishEvents(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	o.ClearDomainEvents()
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events", zap.Error(err))
	}
}
