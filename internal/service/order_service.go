package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService defines the interface for the order transaction flows.
// Every mutating call is all-or-nothing.
type OrderService interface {
	CreateOrder(ctx context.Context, req domain.OrderCreate) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.OrderWithCustomer, error)
	ListOrders(ctx context.Context, page repository.Page) ([]*domain.Order, error)
	// UpdateOrderStatus moves an order to another configured status. Moving to
	// cancelled goes through CancelOrder.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error)
	// CancelOrder puts the items back in stock and keeps the order as cancelled
	CancelOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// DeleteOrder removes the order and its items, restocking them unless the
	// order was cancelled already. Use CancelOrder to keep the history.
	DeleteOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Statuses() domain.StatusSet
}

type orderService struct {
	store    repository.Store
	statuses domain.StatusSet
	logger   *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(store repository.Store, statuses domain.StatusSet, logger *zap.Logger) OrderService {
	return &orderService{
		store:    store,
		statuses: statuses,
		logger:   logger,
	}
}

func (s *orderService) Statuses() domain.StatusSet {
	return s.statuses
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// CreateOrder validates the customer, every product and its stock, then writes
// the order, its items and the stock decrements in one transaction.
func (s *orderService) CreateOrder(ctx context.Context, req domain.OrderCreate) (*domain.Order, error) {
	status := normalizeStatus(req.Status)
	if status == "" {
		status = domain.StatusPending
	}
	if !s.statuses.Contains(status) || status == domain.StatusCancelled {
		allowed := slices.DeleteFunc(s.statuses.Values(), func(v string) bool { return v == domain.StatusCancelled })
		return nil, &InvalidStatusError{Status: req.Status, Allowed: allowed}
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var created *domain.Order
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Customers().FindByID(ctx, req.CustomerID); err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				return ErrUnknownCustomer
			}
			return fmt.Errorf("failed to find customer: %w", err)
		}

		productIDs := make([]uuid.UUID, 0, len(req.Items))
		for _, line := range req.Items {
			productIDs = append(productIDs, line.ProductID)
		}
		products, err := lockProducts(ctx, tx, productIDs)
		if err != nil {
			return err
		}

		order := &domain.Order{
			CustomerID:  req.CustomerID,
			Status:      status,
			TotalAmount: decimal.Zero,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		total := decimal.Zero
		for i, line := range req.Items {
			product, ok := products[line.ProductID]
			if !ok {
				return &ProductNotFoundError{ProductID: line.ProductID}
			}
			if line.Quantity > product.Stock {
				return &InsufficientStockError{
					ProductID: line.ProductID,
					Available: product.Stock,
					Requested: line.Quantity,
				}
			}

			item := &domain.OrderItem{
				OrderID:     order.ID,
				ProductID:   product.ID,
				LineNumber:  i + 1,
				Quantity:    line.Quantity,
				PriceAtTime: product.Price,
			}
			if err := tx.Orders().AddItem(ctx, item); err != nil {
				return err
			}
			if err := tx.Products().AdjustStock(ctx, product.ID, -line.Quantity); err != nil {
				return err
			}
			product.Stock -= line.Quantity
			total = total.Add(item.Subtotal())
		}

		if total.GreaterThan(domain.MaxOrderTotal) {
			return ErrOrderTotalTooLarge
		}
		if err := tx.Orders().SetTotal(ctx, order.ID, total); err != nil {
			return err
		}

		created, err = tx.Orders().FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", created.ID.String()),
		zap.String("customer_id", created.CustomerID.String()),
		zap.Int("items", len(created.Items)),
		zap.String("total_amount", created.TotalAmount.StringFixed(2)),
	)
	return created, nil
}

// lockProducts locks the distinct products in ascending id order so that
// concurrent orders on the same products queue up instead of deadlocking.
// Missing products are left out of the result.
func lockProducts(ctx context.Context, tx repository.Store, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	sorted = slices.Compact(sorted)

	products := make(map[uuid.UUID]*domain.Product, len(sorted))
	for _, id := range sorted {
		product, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to lock product: %w", err)
		}
		products[id] = product
	}
	return products, nil
}

// restock returns the quantities of every item to their products
func (s *orderService) restock(ctx context.Context, tx repository.Store, order *domain.Order) error {
	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	if _, err := lockProducts(ctx, tx, ids); err != nil {
		return err
	}

	for _, item := range order.Items {
		if err := tx.Products().AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("failed to restock product %s: %w", item.ProductID, err)
		}
	}

	s.logger.Info("Stock restored",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", len(order.Items)),
	)
	return nil
}

// GetOrder returns the order with its items and customer
func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.OrderWithCustomer, error) {
	order, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer, err := s.store.Customers().FindByID(ctx, order.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order customer: %w", err)
	}

	return &domain.OrderWithCustomer{Order: *order, Customer: *customer}, nil
}

func (s *orderService) ListOrders(ctx context.Context, page repository.Page) ([]*domain.Order, error) {
	return s.store.Orders().List(ctx, page)
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	normalized := normalizeStatus(status)
	if !s.statuses.Contains(normalized) {
		return nil, &InvalidStatusError{Status: status, Allowed: s.statuses.Values()}
	}
	if normalized == domain.StatusCancelled {
		return s.CancelOrder(ctx, id)
	}

	var updated *domain.Order
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order.Status == domain.StatusCancelled {
			return ErrOrderCancelled
		}
		if order.Status == normalized {
			updated = order
			return nil
		}

		updated, err = tx.Orders().SetStatus(ctx, id, normalized)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", id.String()),
		zap.String("status", updated.Status),
	)
	return updated, nil
}

func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var cancelled *domain.Order
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order.Status == domain.StatusCancelled {
			return ErrOrderAlreadyCancelled
		}

		if err := s.restock(ctx, tx, order); err != nil {
			return err
		}

		cancelled, err = tx.Orders().SetStatus(ctx, id, domain.StatusCancelled)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled", zap.String("order_id", id.String()))
	return cancelled, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var deleted *domain.Order
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if order.Status != domain.StatusCancelled {
			if err := s.restock(ctx, tx, order); err != nil {
				return err
			}
		}

		if err := tx.Orders().Delete(ctx, id); err != nil {
			return err
		}
		deleted = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order deleted",
		zap.String("order_id", id.String()),
		zap.String("status", deleted.Status),
	)
	return deleted, nil
}
