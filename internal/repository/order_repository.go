package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order and order item data access.
// Items are only written through an order's own create flow.
type OrderRepository interface {
	// Create inserts the order row and fills in its generated id and timestamps.
	// Items are not written.
	Create(ctx context.Context, order *domain.Order) error
	AddItem(ctx context.Context, item *domain.OrderItem) error
	SetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// FindByIDForUpdate locks the order row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, page Page) ([]*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error)
	// Delete removes the order; its items go with it
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderRepository struct {
	db Querier
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db Querier) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, customer_id, status, order_date, total_amount, created_at, updated_at`

const orderItemColumns = `id, order_id, product_id, line_number, quantity, price_at_time`

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{Items: []domain.OrderItem{}}
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.Status,
		&order.OrderDate,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (customer_id, status, total_amount)
		VALUES ($1, $2, $3)
		RETURNING id, order_date, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		order.CustomerID,
		order.Status,
		order.TotalAmount,
	).Scan(&order.ID, &order.OrderDate, &order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepository) AddItem(ctx context.Context, item *domain.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, line_number, quantity, price_at_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		item.OrderID,
		item.ProductID,
		item.LineNumber,
		item.Quantity,
		item.PriceAtTime,
	).Scan(&item.ID)

	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}

	return nil
}

func (r *orderRepository) SetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	result, err := r.db.ExecContext(ctx, `UPDATE orders SET total_amount = $2 WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("failed to set order total: %w", outOfRange(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	query := fmt.Sprintf(`UPDATE orders SET status = $2 WHERE id = $1 RETURNING %s`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to set order status: %w", err)
	}

	if err := r.attachItems(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.findByID(ctx, id, "")
}

func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.findByID(ctx, id, "FOR UPDATE")
}

func (r *orderRepository) findByID(ctx context.Context, id uuid.UUID, lock string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 %s`, orderColumns, lock)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	if err := r.attachItems(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) List(ctx context.Context, page Page) ([]*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`, orderColumns)

	return r.listOrders(ctx, query, page.Limit, page.Skip)
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderColumns)

	return r.listOrders(ctx, query, customerID)
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems loads the items of all given orders in one query and assigns
// them to their owners
func (r *orderRepository) attachItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[uuid.UUID]*domain.Order, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID.String())
		byID[order.ID] = order
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, line_number
	`, orderItemColumns)

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.LineNumber,
			&item.Quantity,
			&item.PriceAtTime,
		); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
