package service

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService defines the interface for catalog business logic
type ProductService interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context, page repository.Page) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type productService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(store repository.Store, logger *zap.Logger) ProductService {
	return &productService{store: store, logger: logger}
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.store.Products().Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)
	return nil
}

// GetProduct returns repository.ErrProductNotFound on a miss
func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.store.Products().FindByID(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, page repository.Page) ([]*domain.Product, error) {
	return s.store.Products().List(ctx, page)
}

// UpdateProduct applies only the fields present in patch
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := s.store.Products().Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Product updated", zap.String("product_id", id.String()))
	return product, nil
}

// DeleteProduct returns the removed product. Products referenced by an order
// cannot be removed (repository.ErrProductInUse).
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.store.Products().Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return product, nil
}
