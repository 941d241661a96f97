package cart

import (
	"context"
	"errors"

	"go-retail-api/internal/catalog"
	"go-retail-api/internal/identity"
	"go-retail-api/internal/pkg/metrics"
	"go-retail-api/internal/stock"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxSaveAttempts = 3

//go:generate mockgen -source=cart_service.go -destination=../mock/cart/cart_service_mock.go -package=mock
type Service interface {
	Detail(ctx context.Context, actor identity.Actor) (CartResponse, error)
	Summary(ctx context.Context, actor identity.Actor) (SummaryResponse, error)

	AddItem(ctx context.Context, actor identity.Actor, req AddItemRequest) (MutationResponse, error)
	UpdateItem(ctx context.Context, actor identity.Actor, req UpdateItemRequest) (MutationResponse, error)
	RemoveItem(ctx context.Context, actor identity.Actor, req RemoveItemRequest) (MutationResponse, error)
	Clear(ctx context.Context, actor identity.Actor) (SummaryResponse, error)

	// Snapshot and ApplyCorrections serve checkout, which only runs for users.
	Snapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error)
	ApplyCorrections(ctx context.Context, userID uuid.UUID, verdicts []stock.Verdict) (Snapshot, error)
}

type Deps struct {
	Sessions   SessionStore
	Persistent PersistentCart
	Catalog    catalog.Service
	Validator  *stock.Validator
	Logger     *zap.Logger
}

type service struct {
	sessions   SessionStore
	persistent PersistentCart
	catalog    catalog.Service
	stock      *stock.Validator
	validate   *validator.Validate
	logger     *zap.Logger
}

func NewService(d Deps) Service {
	if d.Sessions == nil {
		panic("cart.NewService: Sessions is nil")
	}
	if d.Persistent == nil {
		panic("cart.NewService: Persistent is nil")
	}
	if d.Catalog == nil {
		panic("cart.NewService: Catalog is nil")
	}
	if d.Validator == nil {
		panic("cart.NewService: Validator is nil")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	return &service{
		sessions:   d.Sessions,
		persistent: d.Persistent,
		catalog:    d.Catalog,
		stock:      d.Validator,
		validate:   validator.New(),
		logger:     d.Logger.Named("cart.service"),
	}
}

// ========================
// helpers
// ========================

func (s *service) load(ctx context.Context, actor identity.Actor) (*Cart, error) {
	if actor.IsUser() {
		return s.persistent.Load(ctx, actor.UserID)
	}
	if actor.SessionID == "" {
		return nil, ErrNotAuthenticated
	}
	return s.sessions.Load(ctx, actor.SessionID)
}

// mutate runs a load-modify-save cycle. User carts are saved with a version
// check; on conflict the cycle is replayed against the fresh copy.
func (s *service) mutate(
	ctx context.Context,
	actor identity.Actor,
	fn func(c *Cart) (Snapshot, error),
) (Snapshot, error) {
	for attempt := 1; ; attempt++ {
		c, err := s.load(ctx, actor)
		if err != nil {
			return Snapshot{}, err
		}

		snap, err := fn(c)
		if err != nil {
			return Snapshot{}, err
		}

		if !actor.IsUser() {
			if err := s.sessions.Save(ctx, c); err != nil {
				return Snapshot{}, err
			}
			return snap, nil
		}

		err = s.persistent.Save(ctx, actor.UserID, c)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, ErrCartVersionConflict) || attempt >= maxSaveAttempts {
			return Snapshot{}, err
		}
		s.logger.Debug("retrying cart save after version conflict",
			zap.String("user_id", actor.UserID.String()),
			zap.Int("attempt", attempt),
		)
	}
}

func parseProductID(productID string) (uuid.UUID, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return uuid.Nil, ErrInvalidProductID
	}
	return id, nil
}

// stockWarning runs the advisory checkpoint for one line after it was added
// or increased. A failed read never fails the mutation.
func (s *service) stockWarning(ctx context.Context, item Item) *StockWarning {
	report, err := s.stock.Validate(ctx, []stock.Line{{
		ProductID: item.ProductID,
		Name:      item.Name,
		Quantity:  item.Quantity,
	}})
	if err != nil {
		s.logger.Warn("advisory stock check failed",
			zap.String("product_id", item.ProductID.String()),
			zap.Error(err),
		)
		return nil
	}
	if report.OK() {
		return nil
	}

	v := report.Verdicts[0]
	metrics.StockConflicts.WithLabelValues("mutation").Inc()
	return &StockWarning{
		Status:            string(v.Status),
		Available:         v.Available,
		SuggestedQuantity: v.CorrectedQuantity,
	}
}

func mutationResponse(snap Snapshot, productID uuid.UUID) MutationResponse {
	res := MutationResponse{
		ItemCount: snap.ItemCount,
		Subtotal:  snap.Subtotal,
	}
	for _, it := range snap.Items {
		if it.ProductID == productID {
			res.Item = &ItemResponse{Item: it, LineTotal: it.LineTotal()}
			break
		}
	}
	return res
}

// ========================
// reads
// ========================

func (s *service) Detail(ctx context.Context, actor identity.Actor) (CartResponse, error) {
	c, err := s.load(ctx, actor)
	if err != nil {
		return CartResponse{}, err
	}
	return toCartResponse(c.Snapshot()), nil
}

// Summary feeds the header badge. User aggregates are computed in SQL.
func (s *service) Summary(ctx context.Context, actor identity.Actor) (SummaryResponse, error) {
	if actor.IsUser() {
		count, err := s.persistent.Count(ctx, actor.UserID)
		if err != nil {
			return SummaryResponse{}, err
		}
		total, err := s.persistent.Total(ctx, actor.UserID)
		if err != nil {
			return SummaryResponse{}, err
		}
		return SummaryResponse{ItemCount: count, Subtotal: total}, nil
	}

	c, err := s.load(ctx, actor)
	if err != nil {
		return SummaryResponse{}, err
	}
	snap := c.Snapshot()
	return SummaryResponse{ItemCount: snap.ItemCount, Subtotal: snap.Subtotal}, nil
}

func (s *service) Snapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	c, err := s.persistent.Load(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// ========================
// mutations
// ========================

func (s *service) AddItem(ctx context.Context, actor identity.Actor, req AddItemRequest) (MutationResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return MutationResponse{}, MapValidationError(err)
	}

	pid, err := parseProductID(req.ProductID)
	if err != nil {
		return MutationResponse{}, err
	}

	product, err := s.catalog.GetProduct(ctx, pid)
	if err != nil {
		return MutationResponse{}, err
	}

	snap, err := s.mutate(ctx, actor, func(c *Cart) (Snapshot, error) {
		return c.AddItem(pid, req.Quantity, DisplayFields{
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
			IconRef:   product.IconRef,
			StockHint: product.Stock,
		})
	})
	if err != nil {
		s.logger.Warn("add to cart failed",
			zap.String("owner", actor.OwnerKey()),
			zap.String("product_id", pid.String()),
			zap.Error(err),
		)
		return MutationResponse{}, err
	}

	res := mutationResponse(snap, pid)
	if res.Item != nil {
		res.StockWarning = s.stockWarning(ctx, res.Item.Item)
	}
	return res, nil
}

func (s *service) UpdateItem(ctx context.Context, actor identity.Actor, req UpdateItemRequest) (MutationResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return MutationResponse{}, MapValidationError(err)
	}
	if req.Action == "" && req.Quantity == nil {
		return MutationResponse{}, ErrInvalidAction
	}

	pid, err := parseProductID(req.ProductID)
	if err != nil {
		return MutationResponse{}, err
	}

	increased := false
	snap, err := s.mutate(ctx, actor, func(c *Cart) (Snapshot, error) {
		before, _ := c.Item(pid)

		var snap Snapshot
		switch {
		case req.Quantity != nil:
			snap = c.SetQuantity(pid, *req.Quantity)
		case req.Action == ActionIncrease:
			snap = c.AdjustQuantity(pid, 1)
		default:
			snap = c.AdjustQuantity(pid, -1)
		}

		after, ok := c.Item(pid)
		increased = ok && after.Quantity > before.Quantity
		return snap, nil
	})
	if err != nil {
		return MutationResponse{}, err
	}

	res := mutationResponse(snap, pid)
	if increased && res.Item != nil {
		res.StockWarning = s.stockWarning(ctx, res.Item.Item)
	}
	return res, nil
}

// RemoveItem succeeds whether or not the product is in the cart.
func (s *service) RemoveItem(ctx context.Context, actor identity.Actor, req RemoveItemRequest) (MutationResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return MutationResponse{}, MapValidationError(err)
	}

	pid, err := parseProductID(req.ProductID)
	if err != nil {
		return MutationResponse{}, err
	}

	snap, err := s.mutate(ctx, actor, func(c *Cart) (Snapshot, error) {
		return c.RemoveItem(pid), nil
	})
	if err != nil {
		return MutationResponse{}, err
	}

	return mutationResponse(snap, pid), nil
}

func (s *service) Clear(ctx context.Context, actor identity.Actor) (SummaryResponse, error) {
	snap, err := s.mutate(ctx, actor, func(c *Cart) (Snapshot, error) {
		return c.Clear(), nil
	})
	if err != nil {
		return SummaryResponse{}, err
	}
	return SummaryResponse{ItemCount: snap.ItemCount, Subtotal: snap.Subtotal}, nil
}

func (s *service) ApplyCorrections(ctx context.Context, userID uuid.UUID, verdicts []stock.Verdict) (Snapshot, error) {
	actor := identity.User(userID, "", "")
	return s.mutate(ctx, actor, func(c *Cart) (Snapshot, error) {
		return c.ApplyCorrections(verdicts), nil
	})
}
