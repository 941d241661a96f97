package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=catalog_service.go -destination=../mock/catalog/catalog_service_mock.go -package=mock
type Service interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (Product, error)
	AvailableStock(ctx context.Context, productID uuid.UUID) (int32, error)
	CheckStock(ctx context.Context, productID string) (StockCheckResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, logger: logger.Named("catalog.service")}
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (Product, error) {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return Product{}, mapRepoError(err)
	}

	return Product{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Stock:     p.StockQuantity,
		IconRef:   p.IconRef,
	}, nil
}

// AvailableStock always reads the row; stock is never served from a cache.
func (s *service) AvailableStock(ctx context.Context, productID uuid.UUID) (int32, error) {
	qty, err := s.repo.GetStock(ctx, productID)
	if err != nil {
		return 0, mapRepoError(err)
	}
	return qty, nil
}

func (s *service) CheckStock(ctx context.Context, productID string) (StockCheckResponse, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return StockCheckResponse{}, ErrInvalidProductID
	}

	p, err := s.GetProduct(ctx, pid)
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			s.logger.Error("stock check failed", zap.String("product_id", productID), zap.Error(err))
		}
		return StockCheckResponse{}, err
	}

	return StockCheckResponse{
		ProductID:      p.ID.String(),
		ProductName:    p.Name,
		AvailableStock: p.Stock,
	}, nil
}

func mapRepoError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	return ErrCatalogUnavailable.Wrap(err)
}
