package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCustomerEmailExists = errors.New("email already registered")
	ErrCustomerHasOrders   = errors.New("customer has existing orders")
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context, page Page) ([]*domain.Customer, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.CustomerPatch) (*domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type customerRepository struct {
	db Querier
}

// NewCustomerRepository creates a new instance of CustomerRepository
func NewCustomerRepository(db Querier) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, email, phone, address, created_at, updated_at`

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	customer := &domain.Customer{}
	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Address,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// Create inserts a customer; a duplicate email yields ErrCustomerEmailExists
func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrCustomerEmailExists
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE id = $1`, customerColumns)

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID: %w", err)
	}

	return customer, nil
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE email = $1`, customerColumns)

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer by email: %w", err)
	}

	return customer, nil
}

func (r *customerRepository) List(ctx context.Context, page Page) ([]*domain.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`, customerColumns)

	rows, err := r.db.QueryContext(ctx, query, page.Limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*domain.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

// Update writes only the fields present in the patch
func (r *customerRepository) Update(ctx context.Context, id uuid.UUID, patch domain.CustomerPatch) (*domain.Customer, error) {
	if patch.Empty() {
		return r.FindByID(ctx, id)
	}

	set := newSetClause()
	if patch.Name.Set {
		set.add("name", patch.Name.Value)
	}
	if patch.Email.Set {
		set.add("email", patch.Email.Value)
	}
	if patch.Phone.Set {
		set.add("phone", patch.Phone.Ptr())
	}
	if patch.Address.Set {
		set.add("address", patch.Address.Ptr())
	}

	query := fmt.Sprintf(`UPDATE customers SET %s WHERE id = $%d RETURNING %s`,
		set.String(), set.next(), customerColumns)

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, append(set.args, id)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrCustomerEmailExists
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// Delete removes a customer and returns the state it had
func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := fmt.Sprintf(`DELETE FROM customers WHERE id = $1 RETURNING %s`, customerColumns)

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		if isForeignKeyViolation(err) {
			return nil, ErrCustomerHasOrders
		}
		return nil, fmt.Errorf("failed to delete customer: %w", err)
	}

	return customer, nil
}
