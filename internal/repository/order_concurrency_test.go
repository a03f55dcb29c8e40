package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type concurrencyFixture struct {
	store    repository.Store
	orders   service.OrderService
	customer *domain.Customer
}

func newConcurrencyFixture(t *testing.T) *concurrencyFixture {
	t.Helper()
	repository.TruncateAll(t)

	store := repository.NewStore(repository.SharedDB())
	customer := &domain.Customer{Name: "Alice", Email: uuid.NewString() + "@example.com"}
	require.NoError(t, store.Customers().Create(context.Background(), customer))

	return &concurrencyFixture{
		store:    store,
		orders:   service.NewOrderService(store, domain.NewStatusSet(domain.DefaultStatuses), zap.NewNop()),
		customer: customer,
	}
}

func (f *concurrencyFixture) product(t *testing.T, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: "Widget", Price: decimal.NewFromInt(2), Stock: stock}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *concurrencyFixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.store.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

// run starts every order at once and returns their errors
func (f *concurrencyFixture) run(orders []domain.OrderCreate) []error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, len(orders))
	)
	for i, order := range orders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = f.orders.CreateOrder(ctx, order)
		}()
	}
	close(start)
	wg.Wait()
	return errs
}

func TestConcurrentOrdersOnPostgresNeverOversell(t *testing.T) {
	f := newConcurrencyFixture(t)
	p := f.product(t, 5)

	orders := make([]domain.OrderCreate, 12)
	for i := range orders {
		orders[i] = domain.OrderCreate{
			CustomerID: f.customer.ID,
			Items:      []domain.OrderLine{{ProductID: p.ID, Quantity: 1}},
		}
	}

	succeeded, rejected := 0, 0
	for _, err := range f.run(orders) {
		var stockErr *service.InsufficientStockError
		switch {
		case err == nil:
			succeeded++
		case errors.As(err, &stockErr):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 7, rejected)
	assert.Equal(t, 0, f.stock(t, p.ID))

	placed, err := f.store.Orders().List(context.Background(), repository.Page{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, placed, 5)
}

func TestConcurrentOrdersInOppositeProductOrderDoNotDeadlock(t *testing.T) {
	f := newConcurrencyFixture(t)
	a := f.product(t, 100)
	b := f.product(t, 100)

	orders := make([]domain.OrderCreate, 20)
	for i := range orders {
		first, second := a.ID, b.ID
		if i%2 == 1 {
			first, second = b.ID, a.ID
		}
		orders[i] = domain.OrderCreate{
			CustomerID: f.customer.ID,
			Items: []domain.OrderLine{
				{ProductID: first, Quantity: 1},
				{ProductID: second, Quantity: 2},
			},
		}
	}

	for _, err := range f.run(orders) {
		assert.NoError(t, err)
	}

	// even-indexed orders take 1 of a and 2 of b, odd ones the reverse
	assert.Equal(t, 100-(10*1+10*2), f.stock(t, a.ID))
	assert.Equal(t, 100-(10*2+10*1), f.stock(t, b.ID))
}
