package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"go-retail-api/internal/cart"
	"go-retail-api/internal/catalog"
	"go-retail-api/internal/outbox"
	"go-retail-api/internal/pkg/apperror"
	"go-retail-api/internal/pkg/metrics"
	"go-retail-api/internal/shared/database/dbgen"
	"go-retail-api/internal/shared/database/helper"
	"go-retail-api/internal/stock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	checkoutConstraint = "orders_checkout_id_key"
)

// errDuplicateCheckout marks an insert that lost the race for a checkout id.
// It never leaves the package.
var errDuplicateCheckout = errors.New("order already exists for checkout")

//go:generate mockgen -source=order_service.go -destination=../mock/order/order_service_mock.go -package=mock
type Service interface {
	// Customer Actions
	CreateOrder(ctx context.Context, in CreateOrderInput) (OrderResponse, error)
	Detail(ctx context.Context, userID uuid.UUID, orderID string) (OrderResponse, error)
	List(ctx context.Context, userID uuid.UUID, status string, page, limit int) ([]OrderResponse, int64, error)

	// Admin Actions
	UpdateStatusByAdmin(ctx context.Context, orderID string, nextStatus string) (OrderResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	catalogRepo catalog.Repository
	cartRepo    cart.Repository
	outboxRepo  outbox.Repository
	validator   *stock.Validator
	logger      *zap.Logger
}

type Deps struct {
	DB          *sql.DB
	Repo        Repository
	CatalogRepo catalog.Repository
	CartRepo    cart.Repository
	OutboxRepo  outbox.Repository
	Validator   *stock.Validator
	Logger      *zap.Logger
}

var statusTransitions = map[string]map[string]struct{}{
	StatusPending: {
		StatusCompleted: {},
		StatusCancelled: {},
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

func NewService(deps Deps) Service {
	if deps.DB == nil {
		panic("db cannot be nil")
	}
	if deps.Repo == nil {
		panic("order repository cannot be nil")
	}
	if deps.CatalogRepo == nil {
		panic("catalog repository cannot be nil")
	}
	if deps.CartRepo == nil {
		panic("cart repository cannot be nil")
	}
	if deps.OutboxRepo == nil {
		panic("outbox repository cannot be nil")
	}
	if deps.Validator == nil {
		panic("stock validator cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &service{
		db:          deps.DB,
		repo:        deps.Repo,
		catalogRepo: deps.CatalogRepo,
		cartRepo:    deps.CartRepo,
		outboxRepo:  deps.OutboxRepo,
		validator:   deps.Validator,
		logger:      deps.Logger.Named("order.service"),
	}
}

// CreateOrder turns a cart snapshot into an order in one transaction: stock is
// re-checked under row locks, the order and its lines are written at the
// snapshot prices, stock is decremented, the user's stored cart is emptied and
// an ORDER_CREATED event is queued. Nothing survives a failure at any step.
//
// A checkout id maps to at most one order; committing it again returns the
// order that already exists.
func (s *service) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderResponse, error) {
	logger := s.logger.With(
		zap.String("user_id", in.UserID.String()),
		zap.String("checkout_id", in.CheckoutID.String()),
	)

	if existing, found, err := s.findByCheckout(ctx, in.CheckoutID); err != nil {
		logger.Error("failed to look up checkout", zap.Error(err))
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	} else if found {
		logger.Info("checkout already committed", zap.String("order_id", existing.ID.String()))
		return existing, nil
	}

	// Checked after the lookup: the cart of a committed checkout is empty.
	if in.Cart.IsEmpty() {
		return OrderResponse{}, ErrCartEmpty
	}

	res, err := s.commit(ctx, logger, in)
	if errors.Is(err, errDuplicateCheckout) {
		existing, found, ferr := s.findByCheckout(ctx, in.CheckoutID)
		if ferr != nil || !found {
			logger.Error("duplicate checkout but order not readable", zap.Error(ferr))
			return OrderResponse{}, ErrOrderFailed
		}
		return existing, nil
	}
	if err != nil {
		return OrderResponse{}, err
	}

	metrics.OrdersCommitted.Inc()
	logger.Info("order committed",
		zap.String("order_id", res.ID.String()),
		zap.String("total", res.Total.StringFixed(2)),
	)
	return res, nil
}

func (s *service) commit(ctx context.Context, logger *zap.Logger, in CreateOrderInput) (OrderResponse, error) {
	// Stable lock order so two committers never wait on each other's rows.
	items := append([]cart.Item(nil), in.Cart.Items...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.String() < items[j].ProductID.String()
	})

	lines := make([]stock.Line, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		lines = append(lines, stock.Line{ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity})
		total = total.Add(it.LineTotal())
	}

	shipping, err := json.Marshal(in.Shipping)
	if err != nil {
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", zap.Error(err))
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
			logger.Warn("transaction rolled back")
		}
	}()

	qtx := s.repo.WithTx(tx)
	catalogTx := s.catalogRepo.WithTx(tx)

	// 1. Final stock check, holding the product rows
	report, err := s.validator.
		WithReader(catalog.NewLockingReader(catalogTx)).
		Validate(ctx, lines)
	if err != nil {
		logger.Error("stock check failed", zap.Error(err))
		return OrderResponse{}, persistenceError(err)
	}
	if !report.OK() {
		// A concurrent commit of the same checkout may have taken the last
		// units while we waited on the row locks.
		if _, err := qtx.GetByCheckoutID(ctx, in.CheckoutID); err == nil {
			return OrderResponse{}, errDuplicateCheckout
		} else if !errors.Is(err, sql.ErrNoRows) {
			logger.Error("failed to look up checkout", zap.Error(err))
			return OrderResponse{}, ErrOrderFailed.Wrap(err)
		}
		metrics.StockConflicts.WithLabelValues("commit").Inc()
		logger.Info("stock conflict at commit", zap.Int("failing", len(report.Failing())))
		return OrderResponse{}, stock.Conflict(report)
	}

	// 2. Order header
	order, err := qtx.CreateOrder(ctx, dbgen.CreateOrderParams{
		ID:               uuid.New(),
		CheckoutID:       in.CheckoutID,
		UserID:           in.UserID,
		Status:           StatusPending,
		Total:            total,
		PaymentMethod:    in.PaymentMethod,
		ShippingSnapshot: shipping,
	})
	if err != nil {
		if helper.IsUniqueViolation(err, checkoutConstraint) {
			return OrderResponse{}, errDuplicateCheckout
		}
		logger.Error("failed to create order record", zap.Error(err))
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}

	// 3. Lines at the frozen price
	lineItems := make([]OrderItemResponse, 0, len(items))
	for _, it := range items {
		line := OrderItemResponse{
			ProductID:           it.ProductID,
			NameSnapshot:        it.Name,
			QuantityOrdered:     it.Quantity,
			UnitPriceAtPurchase: it.UnitPrice,
			LineTotal:           it.LineTotal(),
		}
		err = qtx.CreateOrderItem(ctx, dbgen.CreateOrderItemParams{
			ID:                  uuid.New(),
			OrderID:             order.ID,
			ProductID:           line.ProductID,
			NameSnapshot:        line.NameSnapshot,
			QuantityOrdered:     line.QuantityOrdered,
			UnitPriceAtPurchase: line.UnitPriceAtPurchase,
			LineTotal:           line.LineTotal,
		})
		if err != nil {
			logger.Error("failed to create order item", zap.String("product_id", it.ProductID.String()), zap.Error(err))
			return OrderResponse{}, ErrOrderFailed.Wrap(err)
		}
		lineItems = append(lineItems, line)
	}

	// 4. Stock
	for _, it := range items {
		rows, err := catalogTx.DecrementStock(ctx, it.ProductID, it.Quantity)
		if err != nil {
			logger.Error("failed to decrement stock", zap.String("product_id", it.ProductID.String()), zap.Error(err))
			return OrderResponse{}, ErrOrderFailed.Wrap(err)
		}
		if rows == 0 {
			metrics.StockConflicts.WithLabelValues("commit").Inc()
			return OrderResponse{}, catalog.ErrInsufficientStock
		}
	}

	// 5. Stored cart
	if err := cart.ClearInTx(ctx, s.cartRepo.WithTx(tx), in.UserID); err != nil {
		logger.Error("failed to clear cart", zap.Error(err))
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}

	// 6. Outbox event
	event, err := outbox.NewEvent(outbox.AggregateOrder, outbox.EventOrderCreated, order.ID, createdPayload{
		OrderID:    order.ID,
		CheckoutID: order.CheckoutID,
		UserID:     order.UserID,
		Total:      order.Total,
		Items:      lineItems,
	})
	if err != nil {
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}
	if err := s.outboxRepo.WithTx(tx).CreateOutboxEvent(ctx, event); err != nil {
		logger.Error("failed to create outbox event", zap.Error(err))
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}

	// 7. Commit
	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", zap.Error(err))
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}
	committed = true

	res := mapOrderToResponse(order)
	res.Items = lineItems
	return res, nil
}

func (s *service) findByCheckout(ctx context.Context, checkoutID uuid.UUID) (OrderResponse, bool, error) {
	order, err := s.repo.GetByCheckoutID(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderResponse{}, false, nil
		}
		return OrderResponse{}, false, err
	}

	items, err := s.repo.GetItems(ctx, order.ID)
	if err != nil {
		return OrderResponse{}, false, err
	}

	res := mapOrderToResponse(order)
	res.Items = mapItems(items)
	return res, true, nil
}

// CUSTOMER: Detail
func (s *service) Detail(ctx context.Context, userID uuid.UUID, orderID string) (OrderResponse, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return OrderResponse{}, ErrInvalidOrderID
	}

	order, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderResponse{}, ErrOrderNotFound
		}
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}

	// Someone else's order is reported as missing.
	if order.UserID != userID {
		return OrderResponse{}, ErrOrderNotFound
	}

	items, err := s.repo.GetItems(ctx, oid)
	if err != nil {
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}

	res := mapOrderToResponse(order)
	res.Items = mapItems(items)
	return res, nil
}

// CUSTOMER: List
func (s *service) List(ctx context.Context, userID uuid.UUID, status string, page, limit int) ([]OrderResponse, int64, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" {
		if _, ok := statusTransitions[status]; !ok {
			return nil, 0, ErrInvalidStatus
		}
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	rows, err := s.repo.List(ctx, dbgen.ListOrdersByUserParams{
		UserID: userID,
		Limit:  int32(limit),
		Offset: int32((page - 1) * limit),
		Status: helper.RawStringToNull(status),
	})
	if err != nil {
		s.logger.Error("failed to list orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, 0, ErrOrderFailed.Wrap(err)
	}

	res := make([]OrderResponse, 0, len(rows))
	var total int64
	for _, r := range rows {
		total = r.TotalCount
		res = append(res, mapOrderToResponse(dbgen.Order{
			ID:               r.ID,
			CheckoutID:       r.CheckoutID,
			UserID:           r.UserID,
			Status:           r.Status,
			Total:            r.Total,
			PaymentMethod:    r.PaymentMethod,
			ShippingSnapshot: r.ShippingSnapshot,
			CreatedAt:        r.CreatedAt,
			UpdatedAt:        r.UpdatedAt,
		}))
	}

	return res, total, nil
}

// ADMIN: pending -> completed | cancelled
func (s *service) UpdateStatusByAdmin(ctx context.Context, orderID string, nextStatus string) (OrderResponse, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return OrderResponse{}, ErrInvalidOrderID
	}

	nextStatus = strings.ToLower(strings.TrimSpace(nextStatus))
	if _, ok := statusTransitions[nextStatus]; !ok {
		return OrderResponse{}, ErrInvalidStatus
	}

	logger := s.logger.With(zap.String("order_id", oid.String()))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	qtx := s.repo.WithTx(tx)

	current, err := qtx.GetForUpdate(ctx, oid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderResponse{}, ErrOrderNotFound
		}
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}

	if _, ok := statusTransitions[current.Status][nextStatus]; !ok {
		return OrderResponse{}, ErrInvalidStatusTransition.WithDetails(map[string]string{
			"from": current.Status,
			"to":   nextStatus,
		})
	}

	updated, err := qtx.UpdateStatus(ctx, oid, nextStatus)
	if err != nil {
		logger.Error("failed to update status", zap.Error(err))
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}

	event, err := outbox.NewEvent(outbox.AggregateOrder, outbox.EventOrderStatusChanged, oid, statusChangedPayload{
		OrderID: oid,
		From:    current.Status,
		To:      nextStatus,
	})
	if err != nil {
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}
	if err := s.outboxRepo.WithTx(tx).CreateOutboxEvent(ctx, event); err != nil {
		logger.Error("failed to create outbox event", zap.Error(err))
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}

	if err := tx.Commit(); err != nil {
		return OrderResponse{}, ErrOrderFailed.Wrap(err)
	}
	committed = true

	logger.Info("order status changed", zap.String("from", current.Status), zap.String("to", nextStatus))
	return mapOrderToResponse(updated), nil
}

// ========================
// helpers
// ========================

func persistenceError(err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return ErrOrderFailed.Wrap(err)
}

func mapOrderToResponse(o dbgen.Order) OrderResponse {
	res := OrderResponse{
		ID:            o.ID,
		CheckoutID:    o.CheckoutID,
		UserID:        o.UserID,
		Status:        o.Status,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if len(o.ShippingSnapshot) > 0 {
		var sh Shipping
		if err := json.Unmarshal(o.ShippingSnapshot, &sh); err == nil {
			res.Shipping = &sh
		}
	}
	return res
}

func mapItems(rows []dbgen.OrderItem) []OrderItemResponse {
	items := make([]OrderItemResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, OrderItemResponse{
			ProductID:           r.ProductID,
			NameSnapshot:        r.NameSnapshot,
			QuantityOrdered:     r.QuantityOrdered,
			UnitPriceAtPurchase: r.UnitPriceAtPurchase,
			LineTotal:           r.LineTotal,
		})
	}
	return items
}
