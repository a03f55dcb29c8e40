package repository

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	truncate(t)
	productRepo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, description string, cents int64, stock int) bool {
			ctx := context.Background()

			product := &domain.Product{
				Name:        name,
				Description: strPtr(description),
				Price:       decimal.New(cents, -2),
				Stock:       stock,
			}

			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			if product.ID == uuid.Nil || product.CreatedAt.IsZero() || product.UpdatedAt.IsZero() {
				t.Logf("FAIL: generated fields not returned: %+v", product)
				return false
			}

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Name != name || *retrieved.Description != description {
				t.Logf("FAIL: text mismatch: %+v", retrieved)
				return false
			}

			if !retrieved.Price.Equal(product.Price) {
				t.Logf("FAIL: Price mismatch. Expected %s, got %s", product.Price, retrieved.Price)
				return false
			}

			if retrieved.Stock != stock {
				t.Logf("FAIL: Stock mismatch. Expected %d, got %d", stock, retrieved.Stock)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{10,200}`),
		gen.Int64Range(1, 999999),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ProductPartialUpdateLeavesOtherFields(t *testing.T) {
	truncate(t)
	productRepo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("updating only stock keeps name, description and price", prop.ForAll(
		func(initialStock int, newStock int) bool {
			ctx := context.Background()

			product := &domain.Product{
				Name:        "Widget",
				Description: strPtr("A basic widget"),
				Price:       decimal.RequireFromString("9.99"),
				Stock:       initialStock,
			}
			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			updated, err := productRepo.Update(ctx, product.ID, domain.ProductPatch{Stock: domain.NewField(newStock)})
			if err != nil {
				t.Logf("FAIL: Failed to update product: %v", err)
				return false
			}

			return updated.Stock == newStock &&
				updated.Name == product.Name &&
				*updated.Description == *product.Description &&
				updated.Price.Equal(product.Price)
		},
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductUpdateNullClearsDescription(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	productRepo := NewProductRepository(testDB)

	product := &domain.Product{Name: "Gadget", Description: strPtr("shiny"), Price: decimal.NewFromInt(5), Stock: 1}
	require.NoError(t, productRepo.Create(ctx, product))

	updated, err := productRepo.Update(ctx, product.ID, domain.ProductPatch{Description: domain.NullField[string]()})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Equal(t, "Gadget", updated.Name)
}

func TestProductUpdateMissing(t *testing.T) {
	productRepo := NewProductRepository(testDB)

	_, err := productRepo.Update(context.Background(), uuid.New(), domain.ProductPatch{Name: domain.NewField("x")})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductAdjustStockRespectsConstraint(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	productRepo := NewProductRepository(testDB)

	product := &domain.Product{Name: "Thing", Price: decimal.NewFromInt(3), Stock: 4}
	require.NoError(t, productRepo.Create(ctx, product))

	require.NoError(t, productRepo.AdjustStock(ctx, product.ID, -4))
	assert.Error(t, productRepo.AdjustStock(ctx, product.ID, -1), "stock may not go below zero")
	assert.ErrorIs(t, productRepo.AdjustStock(ctx, uuid.New(), 1), ErrProductNotFound)

	found, err := productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Stock)
}

func TestProductDeleteReturnsPriorState(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	productRepo := NewProductRepository(testDB)

	product := &domain.Product{Name: "Gone", Price: decimal.NewFromInt(1), Stock: 2}
	require.NoError(t, productRepo.Create(ctx, product))

	deleted, err := productRepo.Delete(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, deleted.ID)
	assert.Equal(t, "Gone", deleted.Name)

	_, err = productRepo.FindByID(ctx, product.ID)
	assert.True(t, errors.Is(err, ErrProductNotFound))

	_, err = productRepo.Delete(ctx, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductListPagination(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	productRepo := NewProductRepository(testDB)

	for i := 0; i < 5; i++ {
		require.NoError(t, productRepo.Create(ctx, &domain.Product{Name: "P", Price: decimal.NewFromInt(1)}))
	}

	all, err := productRepo.List(ctx, Page{Skip: 0, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	window, err := productRepo.List(ctx, Page{Skip: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, all[3].ID, window[0].ID)
}

func TestNumericOverflowIsValueOutOfRange(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	store := NewStore(testDB)
	customer, product := seedCustomerAndProduct(t, store)

	_, err := store.Products().Update(ctx, product.ID, domain.ProductPatch{Stock: domain.NewField(domain.MaxQuantity)})
	require.NoError(t, err)
	assert.ErrorIs(t, store.Products().AdjustStock(ctx, product.ID, 1), ErrValueOutOfRange)

	order := &domain.Order{CustomerID: customer.ID, Status: domain.StatusPending}
	require.NoError(t, store.Orders().Create(ctx, order))
	assert.NoError(t, store.Orders().SetTotal(ctx, order.ID, domain.MaxOrderTotal))
	assert.ErrorIs(t, store.Orders().SetTotal(ctx, order.ID, domain.MaxOrderTotal.Add(decimal.NewFromInt(1))), ErrValueOutOfRange)
}
