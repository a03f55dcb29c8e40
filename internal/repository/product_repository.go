package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInUse    = errors.New("product is referenced by existing orders")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, page Page) ([]*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type productRepository struct {
	db Querier
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db Querier) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, stock, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Create inserts a product and fills in the generated id and timestamps
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, stock)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", outOfRange(err))
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.findByID(ctx, id, "")
}

func (r *productRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.findByID(ctx, id, "FOR UPDATE")
}

func (r *productRepository) findByID(ctx context.Context, id uuid.UUID, lock string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 %s`, productColumns, lock)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves a window of products ordered by creation time
func (r *productRepository) List(ctx context.Context, page Page) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`, productColumns)

	rows, err := r.db.QueryContext(ctx, query, page.Limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Update writes only the fields present in the patch and returns the new state
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.Empty() {
		return r.FindByID(ctx, id)
	}

	set := newSetClause()
	if patch.Name.Set {
		set.add("name", patch.Name.Value)
	}
	if patch.Description.Set {
		set.add("description", patch.Description.Ptr())
	}
	if patch.Price.Set {
		set.add("price", patch.Price.Value)
	}
	if patch.Stock.Set {
		set.add("stock", patch.Stock.Value)
	}

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		set.String(), set.next(), productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, append(set.args, id)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", outOfRange(err))
	}

	return product, nil
}

// AdjustStock adds delta (negative to decrement) to the product stock
func (r *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	query := `UPDATE products SET stock = stock + $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust product stock: %w", outOfRange(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product and returns the state it had
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`DELETE FROM products WHERE id = $1 RETURNING %s`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		if isForeignKeyViolation(err) {
			return nil, ErrProductInUse
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	return product, nil
}

// setClause builds "col = $n" assignments for partial updates
type setClause struct {
	parts []string
	args  []any
}

func newSetClause() *setClause {
	return &setClause{}
}

func (s *setClause) add(column string, value any) {
	s.args = append(s.args, value)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

// next is the placeholder index following the assignments
func (s *setClause) next() int {
	return len(s.args) + 1
}

func (s *setClause) String() string {
	return strings.Join(s.parts, ", ")
}
