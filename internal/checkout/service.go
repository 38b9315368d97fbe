package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/internal/cart"
	pkgcheckout "github.com/angelmondragon/storefront/pkg/checkout"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const (
	MessageEmptyCart     = "Your cart is empty"
	MessageOrderPlaced   = "Order placed successfully! Thank you for your purchase."
	MessagePaymentFailed = "Payment failed. Please try again."
)

// Confirmation is returned once an order has been accepted.
type Confirmation struct {
	OrderID   uuid.UUID       `json:"orderId"`
	Email     string          `json:"email"`
	Items     []cart.Line     `json:"items"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
	PlacedAt  time.Time       `json:"placedAt"`
	Message   string          `json:"message"`
}

// Service executes checkout orchestration.
type Service interface {
	PlaceOrder(ctx context.Context, form pkgcheckout.Form) (*Confirmation, error)
}

type cartStore interface {
	Get(ctx context.Context) (cart.Cart, error)
	Clear(ctx context.Context) (cart.Cart, error)
}

type ServiceParams struct {
	Cart   cartStore
	Logger *logger.Logger
	// Delay simulates the payment processor round trip.
	Delay time.Duration
	Clock func() time.Time
	NewID func() uuid.UUID
}

type service struct {
	cart  cartStore
	logg  *logger.Logger
	delay time.Duration
	now   func() time.Time
	newID func() uuid.UUID
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Delay < 0 {
		return nil, fmt.Errorf("delay must not be negative")
	}
	s := &service{
		cart:  params.Cart,
		logg:  params.Logger,
		delay: params.Delay,
		now:   params.Clock,
		newID: params.NewID,
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.New
	}
	return s, nil
}

// PlaceOrder validates the masked form, charges the current cart and clears
// it. The form is checked before the cart is read.
func (s *service) PlaceOrder(ctx context.Context, form pkgcheckout.Form) (*Confirmation, error) {
	form = pkgcheckout.FormatForm(form)
	if err := pkgcheckout.Validate(form); err != nil {
		return nil, err
	}

	current, err := s.cart.Get(ctx)
	if err != nil {
		return nil, err
	}
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, MessageEmptyCart)
	}

	if err := s.processPayment(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, MessagePaymentFailed)
	}

	if _, err := s.cart.Clear(ctx); err != nil {
		return nil, err
	}

	conf := &Confirmation{
		OrderID:   s.newID(),
		Email:     form.Email,
		Items:     current.Items,
		ItemCount: current.Count(),
		Total:     current.Total,
		PlacedAt:  s.now().UTC(),
		Message:   MessageOrderPlaced,
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": conf.OrderID.String(),
		"total":    conf.Total.StringFixed(2),
	}), "order placed")
	return conf, nil
}

func (s *service) processPayment(ctx context.Context) error {
	if s.delay == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
