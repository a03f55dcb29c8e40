package repository

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCustomerAndProduct(t *testing.T, store Store) (*domain.Customer, *domain.Product) {
	t.Helper()
	ctx := context.Background()

	customer := &domain.Customer{Name: "Alice", Email: uuid.NewString() + "@example.com"}
	require.NoError(t, store.Customers().Create(ctx, customer))

	product := &domain.Product{Name: "Widget", Price: decimal.RequireFromString("10.00"), Stock: 10}
	require.NoError(t, store.Products().Create(ctx, product))

	return customer, product
}

func TestCustomerEmailIsUnique(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := NewCustomerRepository(testDB)

	first := &domain.Customer{Name: "A", Email: "a@example.com"}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &domain.Customer{Name: "B", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrCustomerEmailExists)

	second := &domain.Customer{Name: "B", Email: "b@example.com", Phone: strPtr("555")}
	require.NoError(t, repo.Create(ctx, second))

	_, err = repo.Update(ctx, second.ID, domain.CustomerPatch{Email: domain.NewField("a@example.com")})
	assert.ErrorIs(t, err, ErrCustomerEmailExists)

	unchanged, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", unchanged.Email)
	assert.Equal(t, "555", *unchanged.Phone)

	byEmail, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byEmail.ID)
}

func TestOrderWritesAreAtomicInsideWithTx(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	store := NewStore(testDB)
	customer, product := seedCustomerAndProduct(t, store)

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx Store) error {
		order := &domain.Order{CustomerID: customer.ID, Status: domain.StatusPending}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		if err := tx.Orders().AddItem(ctx, &domain.OrderItem{
			OrderID: order.ID, ProductID: product.ID, LineNumber: 1, Quantity: 3, PriceAtTime: product.Price,
		}); err != nil {
			return err
		}
		if err := tx.Products().AdjustStock(ctx, product.ID, -3); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	orders, err := store.Orders().List(ctx, Page{Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, orders)

	after, err := store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, after.Stock)
}

func TestOrderCreateAssembleAndCascade(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	store := NewStore(testDB)
	customer, product := seedCustomerAndProduct(t, store)

	var orderID uuid.UUID
	err := store.WithTx(ctx, func(tx Store) error {
		order := &domain.Order{CustomerID: customer.ID, Status: domain.StatusPending}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		orderID = order.ID
		for i, qty := range []int{2, 1} {
			if err := tx.Orders().AddItem(ctx, &domain.OrderItem{
				OrderID: order.ID, ProductID: product.ID, LineNumber: i + 1, Quantity: qty, PriceAtTime: product.Price,
			}); err != nil {
				return err
			}
		}
		return tx.Orders().SetTotal(ctx, order.ID, decimal.RequireFromString("30.00"))
	})
	require.NoError(t, err)

	order, err := store.Orders().FindByID(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 1, order.Items[1].Quantity)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(30)))
	assert.False(t, order.OrderDate.IsZero())

	byCustomer, err := store.Orders().ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Len(t, byCustomer[0].Items, 2)

	updated, err := store.Orders().SetStatus(ctx, orderID, domain.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
	assert.Len(t, updated.Items, 2)

	_, err = store.Products().Delete(ctx, product.ID)
	assert.ErrorIs(t, err, ErrProductInUse)
	_, err = store.Customers().Delete(ctx, customer.ID)
	assert.ErrorIs(t, err, ErrCustomerHasOrders)

	require.NoError(t, store.Orders().Delete(ctx, orderID))

	var itemCount int
	require.NoError(t, testDB.QueryRow(`SELECT COUNT(*) FROM order_items WHERE order_id = $1`, orderID).Scan(&itemCount))
	assert.Zero(t, itemCount)

	_, err = store.Orders().FindByID(ctx, orderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, store.Orders().Delete(ctx, orderID), ErrOrderNotFound)
}
