package checkout

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"go-retail-api/internal/cart"
	"go-retail-api/internal/order"
	"go-retail-api/internal/pkg/metrics"
	"go-retail-api/internal/stock"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=checkout_service.go -destination=../mock/checkout/checkout_service_mock.go -package=mock
type Service interface {
	Current(ctx context.Context, userID uuid.UUID) (SagaResponse, error)
	Start(ctx context.Context, userID uuid.UUID, req StartRequest) (SagaResponse, error)
	SetPayment(ctx context.Context, userID uuid.UUID, req PaymentRequest) (SagaResponse, error)
	Validate(ctx context.Context, userID uuid.UUID) (SagaResponse, error)
	Commit(ctx context.Context, userID uuid.UUID) (Confirmation, error)
	Cancel(ctx context.Context, userID uuid.UUID) error
}

type Deps struct {
	Store     Store
	Cart      cart.Service
	Orders    order.Service
	Validator *stock.Validator
	Logger    *zap.Logger
	Now       func() time.Time
}

type service struct {
	store    Store
	cart     cart.Service
	orders   order.Service
	stock    *stock.Validator
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(d Deps) Service {
	if d.Store == nil {
		panic("checkout.NewService: Store is nil")
	}
	if d.Cart == nil {
		panic("checkout.NewService: Cart is nil")
	}
	if d.Orders == nil {
		panic("checkout.NewService: Orders is nil")
	}
	if d.Validator == nil {
		panic("checkout.NewService: Validator is nil")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	return &service{
		store:    d.Store,
		cart:     d.Cart,
		orders:   d.Orders,
		stock:    d.Validator,
		validate: validator.New(),
		logger:   d.Logger.Named("checkout.service"),
		now:      d.Now,
	}
}

func (s *service) Current(ctx context.Context, userID uuid.UUID) (SagaResponse, error) {
	saga, err := s.store.Load(ctx, userID)
	if err != nil {
		return SagaResponse{}, err
	}
	return toSagaResponse(saga, s.store.TTL()), nil
}

// Start opens a saga, or restarts one that has not reached commit, with
// fresh shipping details. An empty cart sends the shopper back to the cart.
func (s *service) Start(ctx context.Context, userID uuid.UUID, req StartRequest) (SagaResponse, error) {
	shipping := normalizeShipping(req.Shipping)
	if err := s.validate.Struct(shipping); err != nil {
		return SagaResponse{}, ErrShippingIncomplete.WithDetails(missingFields(err))
	}

	existing, err := s.store.Load(ctx, userID)
	if err != nil && !errors.Is(err, ErrCheckoutNotFound) {
		return SagaResponse{}, err
	}
	if existing != nil && existing.State == StateCommitting {
		return SagaResponse{}, ErrInvalidCheckoutState
	}

	snap, err := s.cart.Snapshot(ctx, userID)
	if err != nil {
		return SagaResponse{}, err
	}
	if snap.IsEmpty() {
		return SagaResponse{}, ErrCartEmpty
	}

	now := s.now()
	saga := NewSaga(userID, now)
	if existing != nil && existing.State.Restartable() {
		saga.ID = existing.ID
		saga.CreatedAt = existing.CreatedAt
	}
	saga.Shipping = &shipping
	if err := saga.Transition(StateShippingCollected, now); err != nil {
		return SagaResponse{}, err
	}

	if err := s.store.Save(ctx, saga); err != nil {
		return SagaResponse{}, err
	}

	s.logger.Info("checkout started",
		zap.String("user_id", userID.String()),
		zap.String("checkout_id", saga.ID.String()),
	)
	return toSagaResponse(saga, s.store.TTL()), nil
}

// SetPayment records the payment choice. Only the last four card digits are kept.
func (s *service) SetPayment(ctx context.Context, userID uuid.UUID, req PaymentRequest) (SagaResponse, error) {
	req.Method = strings.ToLower(strings.TrimSpace(req.Method))
	if err := s.validate.Struct(req); err != nil {
		return SagaResponse{}, ErrPaymentMethod
	}

	intent := PaymentIntent{Method: req.Method}
	if req.Method == order.PaymentCreditCard {
		if req.Card == nil {
			return SagaResponse{}, ErrCardDetailsRequired
		}
		holder := strings.TrimSpace(req.Card.Holder)
		digits, ok := cardDigits(req.Card.Number)
		if holder == "" || !ok {
			return SagaResponse{}, ErrCardDetailsRequired
		}
		intent.CardHolder = holder
		intent.CardLast4 = digits[len(digits)-4:]
	}

	saga, err := s.store.Load(ctx, userID)
	if err != nil {
		return SagaResponse{}, err
	}
	if err := saga.Transition(StatePaymentIntentCollected, s.now()); err != nil {
		return SagaResponse{}, err
	}
	saga.Payment = &intent

	if err := s.store.Save(ctx, saga); err != nil {
		return SagaResponse{}, err
	}
	return toSagaResponse(saga, s.store.TTL()), nil
}

// Validate is the blocking stock check before payment. On failure the cart is
// corrected and the saga goes back to the shipping step for re-confirmation.
func (s *service) Validate(ctx context.Context, userID uuid.UUID) (SagaResponse, error) {
	saga, err := s.store.Load(ctx, userID)
	if err != nil {
		return SagaResponse{}, err
	}
	if !saga.Can(StateValidating) {
		return SagaResponse{}, ErrInvalidCheckoutState
	}

	if _, err := s.runValidation(ctx, saga); err != nil {
		return SagaResponse{}, err
	}

	if err := s.store.Save(ctx, saga); err != nil {
		return SagaResponse{}, err
	}
	return toSagaResponse(saga, s.store.TTL()), nil
}

// Commit places the order. A saga that already completed returns its
// confirmation again; the checkout id keeps the order itself unique. A saga
// left in Committing by an interrupted request is committed again with the
// snapshot it was committing, which either finds the order already placed
// or settles the saga as aborted.
func (s *service) Commit(ctx context.Context, userID uuid.UUID) (Confirmation, error) {
	logger := s.logger.With(zap.String("user_id", userID.String()))

	saga, err := s.store.Load(ctx, userID)
	if err != nil {
		return Confirmation{}, err
	}
	logger = logger.With(zap.String("checkout_id", saga.ID.String()))

	if saga.State == StateCompleted && saga.Confirmation != nil {
		return *saga.Confirmation, nil
	}
	if saga.Shipping == nil || saga.Payment == nil {
		return Confirmation{}, ErrInvalidCheckoutState
	}
	if saga.State == StateCommitting {
		return s.resumeCommit(ctx, saga, logger)
	}
	if !saga.Can(StateValidating) && !saga.Can(StateCommitting) {
		return Confirmation{}, ErrInvalidCheckoutState
	}

	var snap cart.Snapshot
	if saga.State == StateValidating {
		// The cart may have changed since validation; the order is built
		// from what it holds now and re-checked inside the transaction.
		snap, err = s.cart.Snapshot(ctx, userID)
		if err != nil {
			return Confirmation{}, err
		}
		if snap.IsEmpty() {
			_ = saga.Transition(StateCart, s.now())
			s.saveQuietly(ctx, saga, logger)
			return Confirmation{}, ErrCartEmpty
		}
	} else {
		snap, err = s.runValidation(ctx, saga)
		if err != nil {
			return Confirmation{}, err
		}
	}

	saga.Validated = &snap
	if err := saga.Transition(StateCommitting, s.now()); err != nil {
		return Confirmation{}, err
	}
	if err := s.store.Save(ctx, saga); err != nil {
		return Confirmation{}, err
	}

	return s.placeOrder(ctx, saga, snap, logger)
}

func (s *service) resumeCommit(ctx context.Context, saga *Saga, logger *zap.Logger) (Confirmation, error) {
	logger.Info("resuming interrupted commit")

	var snap cart.Snapshot
	if saga.Validated != nil {
		snap = *saga.Validated
	} else {
		var err error
		if snap, err = s.cart.Snapshot(ctx, saga.UserID); err != nil {
			return Confirmation{}, err
		}
	}
	return s.placeOrder(ctx, saga, snap, logger)
}

// placeOrder runs the order transaction for a saga in Committing and records
// the outcome. A Completed saga written by a concurrent commit is never
// overwritten with a failure.
func (s *service) placeOrder(ctx context.Context, saga *Saga, snap cart.Snapshot, logger *zap.Logger) (Confirmation, error) {
	placed, err := s.orders.CreateOrder(ctx, order.CreateOrderInput{
		CheckoutID:    saga.ID,
		UserID:        saga.UserID,
		Cart:          snap,
		PaymentMethod: saga.Payment.Method,
		Shipping:      *saga.Shipping,
	})
	if err != nil {
		if done, ok := s.completedElsewhere(ctx, saga); ok {
			logger.Info("checkout completed by another request", zap.NamedError("ignored", err))
			return done, nil
		}
		if items, ok := stock.ConflictItems(err); ok {
			if _, cerr := s.cart.ApplyCorrections(ctx, saga.UserID, items); cerr != nil {
				logger.Warn("failed to apply stock corrections", zap.Error(cerr))
			}
		}
		_ = saga.Transition(StateAborted, s.now())
		s.saveQuietly(ctx, saga, logger)
		logger.Warn("checkout aborted", zap.Error(err))
		return Confirmation{}, err
	}

	now := s.now()
	saga.Confirmation = confirmationFor(saga.ID, placed, now)
	_ = saga.Transition(StateCompleted, now)
	s.saveQuietly(ctx, saga, logger)

	logger.Info("checkout completed", zap.String("order_id", placed.ID.String()))
	return *saga.Confirmation, nil
}

func (s *service) completedElsewhere(ctx context.Context, saga *Saga) (Confirmation, bool) {
	current, err := s.store.Load(context.WithoutCancel(ctx), saga.UserID)
	if err != nil || current.ID != saga.ID {
		return Confirmation{}, false
	}
	if current.State != StateCompleted || current.Confirmation == nil {
		return Confirmation{}, false
	}
	return *current.Confirmation, true
}

// Cancel drops a saga that has not started committing.
func (s *service) Cancel(ctx context.Context, userID uuid.UUID) error {
	saga, err := s.store.Load(ctx, userID)
	if err != nil {
		return err
	}
	if !saga.State.Cancellable() {
		return ErrInvalidCheckoutState
	}
	return s.store.Delete(ctx, userID)
}

// ========================
// helpers
// ========================

// runValidation moves the saga to Validating and checks stock against a
// fresh cart snapshot. The caller saves the saga on success; failures save it
// here since they also change its state.
func (s *service) runValidation(ctx context.Context, saga *Saga) (cart.Snapshot, error) {
	logger := s.logger.With(
		zap.String("user_id", saga.UserID.String()),
		zap.String("checkout_id", saga.ID.String()),
	)

	snap, err := s.cart.Snapshot(ctx, saga.UserID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	if snap.IsEmpty() {
		_ = saga.Transition(StateCart, s.now())
		s.saveQuietly(ctx, saga, logger)
		return cart.Snapshot{}, ErrCartEmpty
	}

	if err := saga.Transition(StateValidating, s.now()); err != nil {
		return cart.Snapshot{}, err
	}

	report, err := s.stock.Validate(ctx, snap.Lines())
	if err != nil {
		return cart.Snapshot{}, err
	}
	if !report.OK() {
		metrics.StockConflicts.WithLabelValues("checkout").Inc()
		if _, err := s.cart.ApplyCorrections(ctx, saga.UserID, report.Failing()); err != nil {
			logger.Warn("failed to apply stock corrections", zap.Error(err))
		}
		_ = saga.Transition(StateShippingCollected, s.now())
		s.saveQuietly(ctx, saga, logger)
		return cart.Snapshot{}, stock.Conflict(report)
	}

	saga.Validated = &snap
	return snap, nil
}

// saveQuietly is detached from the request: a client that hangs up must not
// leave the saga behind in an intermediate state.
func (s *service) saveQuietly(ctx context.Context, saga *Saga, logger *zap.Logger) {
	if err := s.store.Save(context.WithoutCancel(ctx), saga); err != nil {
		logger.Error("failed to save checkout state", zap.String("state", string(saga.State)), zap.Error(err))
	}
}

func normalizeShipping(sh order.Shipping) order.Shipping {
	return order.Shipping{
		Name:       strings.TrimSpace(sh.Name),
		Email:      strings.TrimSpace(sh.Email),
		Address:    strings.TrimSpace(sh.Address),
		City:       strings.TrimSpace(sh.City),
		PostalCode: strings.TrimSpace(sh.PostalCode),
	}
}

func missingFields(err error) map[string][]string {
	fields := make([]string, 0)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
	}
	return map[string][]string{"missing": fields}
}

// cardDigits strips separators; a plausible card number has 12 to 19 digits.
func cardDigits(number string) (string, bool) {
	var b strings.Builder
	for _, r := range number {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-':
		default:
			return "", false
		}
	}
	digits := b.String()
	return digits, len(digits) >= 12 && len(digits) <= 19
}
