// Package repositorytest provides an in-memory repository.Store for tests.
//
// Transactions work on a private copy of the data that replaces the shared
// copy on commit, so a failed WithTx leaves nothing behind and uncommitted
// writes are invisible to other callers. Transactions are serialised.
package repositorytest

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type state struct {
	products  map[uuid.UUID]domain.Product
	customers map[uuid.UUID]domain.Customer
	orders    map[uuid.UUID]domain.Order
	items     map[uuid.UUID][]domain.OrderItem

	// insertion order per table
	productIDs  []uuid.UUID
	customerIDs []uuid.UUID
	orderIDs    []uuid.UUID
}

func newState() *state {
	return &state{
		products:  make(map[uuid.UUID]domain.Product),
		customers: make(map[uuid.UUID]domain.Customer),
		orders:    make(map[uuid.UUID]domain.Order),
		items:     make(map[uuid.UUID][]domain.OrderItem),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = slices.Clone(v)
	}
	c.productIDs = slices.Clone(s.productIDs)
	c.customerIDs = slices.Clone(s.customerIDs)
	c.orderIDs = slices.Clone(s.orderIDs)
	return c
}

// Store is an in-memory repository.Store
type Store struct {
	txMu *sync.Mutex
	mu   *sync.Mutex
	data *state
	inTx bool

	commits   int
	rollbacks int
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		txMu: &sync.Mutex{},
		mu:   &sync.Mutex{},
		data: newState(),
	}
}

func (s *Store) Products() repository.ProductRepository   { return &productRepo{s} }
func (s *Store) Customers() repository.CustomerRepository { return &customerRepo{s} }
func (s *Store) Orders() repository.OrderRepository       { return &orderRepo{s} }

func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	working := s.data.clone()
	s.mu.Unlock()

	tx := &Store{txMu: s.txMu, mu: &sync.Mutex{}, data: working, inTx: true}
	if err := fn(tx); err != nil {
		s.mu.Lock()
		s.rollbacks++
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.data = working
	s.commits++
	s.mu.Unlock()
	return nil
}

// Commits returns the number of committed transactions
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Rollbacks returns the number of rolled back transactions
func (s *Store) Rollbacks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbacks
}

// OrderCount returns the number of stored orders
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders)
}

// ItemCount returns the number of stored order items
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, items := range s.data.items {
		n += len(items)
	}
	return n
}

func (s *Store) with(fn func(d *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func now() time.Time {
	return time.Now().UTC()
}

func window(ids []uuid.UUID, page repository.Page) []uuid.UUID {
	if page.Skip >= len(ids) {
		return nil
	}
	end := len(ids)
	if page.Limit >= 0 && page.Skip+page.Limit < end {
		end = page.Skip + page.Limit
	}
	return ids[page.Skip:end]
}

func remove(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	return slices.DeleteFunc(ids, func(v uuid.UUID) bool { return v == id })
}

type productRepo struct{ s *Store }

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	return r.s.with(func(d *state) error {
		product.ID = uuid.New()
		product.CreatedAt = now()
		product.UpdatedAt = product.CreatedAt
		d.products[product.ID] = *product
		d.productIDs = append(d.productIDs, product.ID)
		return nil
	})
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var out *domain.Product
	err := r.s.with(func(d *state) error {
		p, ok := d.products[id]
		if !ok {
			return repository.ErrProductNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *productRepo) List(ctx context.Context, page repository.Page) ([]*domain.Product, error) {
	out := []*domain.Product{}
	err := r.s.with(func(d *state) error {
		for _, id := range window(d.productIDs, page) {
			p := d.products[id]
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	var out *domain.Product
	err := r.s.with(func(d *state) error {
		p, ok := d.products[id]
		if !ok {
			return repository.ErrProductNotFound
		}
		if !patch.Empty() {
			p = patch.Apply(p)
			p.UpdatedAt = now()
			d.products[id] = p
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *productRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	return r.s.with(func(d *state) error {
		p, ok := d.products[id]
		if !ok {
			return repository.ErrProductNotFound
		}
		if p.Stock+delta < 0 {
			return fmt.Errorf("failed to adjust product stock: stock of %s would become negative", id)
		}
		if p.Stock+delta > domain.MaxQuantity {
			return fmt.Errorf("failed to adjust product stock: %w", repository.ErrValueOutOfRange)
		}
		p.Stock += delta
		p.UpdatedAt = now()
		d.products[id] = p
		return nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var out *domain.Product
	err := r.s.with(func(d *state) error {
		p, ok := d.products[id]
		if !ok {
			return repository.ErrProductNotFound
		}
		for _, items := range d.items {
			for _, item := range items {
				if item.ProductID == id {
					return repository.ErrProductInUse
				}
			}
		}
		delete(d.products, id)
		d.productIDs = remove(d.productIDs, id)
		out = &p
		return nil
	})
	return out, err
}

type customerRepo struct{ s *Store }

func emailTaken(d *state, email string, except uuid.UUID) bool {
	for id, c := range d.customers {
		if id != except && c.Email == email {
			return true
		}
	}
	return false
}

func (r *customerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	return r.s.with(func(d *state) error {
		if emailTaken(d, customer.Email, uuid.Nil) {
			return repository.ErrCustomerEmailExists
		}
		customer.ID = uuid.New()
		customer.CreatedAt = now()
		customer.UpdatedAt = customer.CreatedAt
		d.customers[customer.ID] = *customer
		d.customerIDs = append(d.customerIDs, customer.ID)
		return nil
	})
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var out *domain.Customer
	err := r.s.with(func(d *state) error {
		c, ok := d.customers[id]
		if !ok {
			return repository.ErrCustomerNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *customerRepo) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var out *domain.Customer
	err := r.s.with(func(d *state) error {
		for _, c := range d.customers {
			if c.Email == email {
				found := c
				out = &found
				return nil
			}
		}
		return repository.ErrCustomerNotFound
	})
	return out, err
}

func (r *customerRepo) List(ctx context.Context, page repository.Page) ([]*domain.Customer, error) {
	out := []*domain.Customer{}
	err := r.s.with(func(d *state) error {
		for _, id := range window(d.customerIDs, page) {
			c := d.customers[id]
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *customerRepo) Update(ctx context.Context, id uuid.UUID, patch domain.CustomerPatch) (*domain.Customer, error) {
	var out *domain.Customer
	err := r.s.with(func(d *state) error {
		c, ok := d.customers[id]
		if !ok {
			return repository.ErrCustomerNotFound
		}
		if patch.Email.Set && emailTaken(d, patch.Email.Value, id) {
			return repository.ErrCustomerEmailExists
		}
		if !patch.Empty() {
			c = patch.Apply(c)
			c.UpdatedAt = now()
			d.customers[id] = c
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var out *domain.Customer
	err := r.s.with(func(d *state) error {
		c, ok := d.customers[id]
		if !ok {
			return repository.ErrCustomerNotFound
		}
		for _, o := range d.orders {
			if o.CustomerID == id {
				return repository.ErrCustomerHasOrders
			}
		}
		delete(d.customers, id)
		d.customerIDs = remove(d.customerIDs, id)
		out = &c
		return nil
	})
	return out, err
}

type orderRepo struct{ s *Store }

func assemble(d *state, id uuid.UUID) *domain.Order {
	o := d.orders[id]
	o.Items = append([]domain.OrderItem{}, d.items[id]...)
	return &o
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	return r.s.with(func(d *state) error {
		if _, ok := d.customers[order.CustomerID]; !ok {
			return fmt.Errorf("failed to create order: customer %s does not exist", order.CustomerID)
		}
		order.ID = uuid.New()
		order.OrderDate = now()
		order.CreatedAt = order.OrderDate
		order.UpdatedAt = order.OrderDate
		stored := *order
		stored.Items = nil
		d.orders[order.ID] = stored
		d.orderIDs = append(d.orderIDs, order.ID)
		return nil
	})
}

func (r *orderRepo) AddItem(ctx context.Context, item *domain.OrderItem) error {
	return r.s.with(func(d *state) error {
		if _, ok := d.orders[item.OrderID]; !ok {
			return fmt.Errorf("failed to create order item: order %s does not exist", item.OrderID)
		}
		if _, ok := d.products[item.ProductID]; !ok {
			return fmt.Errorf("failed to create order item: product %s does not exist", item.ProductID)
		}
		item.ID = uuid.New()
		d.items[item.OrderID] = append(d.items[item.OrderID], *item)
		return nil
	})
}

func (r *orderRepo) SetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	return r.s.with(func(d *state) error {
		o, ok := d.orders[id]
		if !ok {
			return repository.ErrOrderNotFound
		}
		if total.GreaterThan(domain.MaxOrderTotal) {
			return fmt.Errorf("failed to set order total: %w", repository.ErrValueOutOfRange)
		}
		o.TotalAmount = total
		o.UpdatedAt = now()
		d.orders[id] = o
		return nil
	})
}

func (r *orderRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	var out *domain.Order
	err := r.s.with(func(d *state) error {
		o, ok := d.orders[id]
		if !ok {
			return repository.ErrOrderNotFound
		}
		o.Status = status
		o.UpdatedAt = now()
		d.orders[id] = o
		out = assemble(d, id)
		return nil
	})
	return out, err
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var out *domain.Order
	err := r.s.with(func(d *state) error {
		if _, ok := d.orders[id]; !ok {
			return repository.ErrOrderNotFound
		}
		out = assemble(d, id)
		return nil
	})
	return out, err
}

func (r *orderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *orderRepo) List(ctx context.Context, page repository.Page) ([]*domain.Order, error) {
	out := []*domain.Order{}
	err := r.s.with(func(d *state) error {
		for _, id := range window(d.orderIDs, page) {
			out = append(out, assemble(d, id))
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	out := []*domain.Order{}
	err := r.s.with(func(d *state) error {
		for _, id := range d.orderIDs {
			if d.orders[id].CustomerID == customerID {
				out = append(out, assemble(d, id))
			}
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.with(func(d *state) error {
		if _, ok := d.orders[id]; !ok {
			return repository.ErrOrderNotFound
		}
		delete(d.orders, id)
		delete(d.items, id)
		d.orderIDs = remove(d.orderIDs, id)
		return nil
	})
}
