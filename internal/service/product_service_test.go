package service

import (
	"context"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/repository/repositorytest"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProperty_PartialUpdateLeavesOtherFields(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("updating only stock keeps name, description and price", prop.ForAll(
		func(name string, cents int64, stock int) bool {
			svc := NewProductService(repositorytest.NewStore(), zap.NewNop())
			ctx := context.Background()

			p := &domain.Product{
				Name:        name,
				Description: strPtr("desc"),
				Price:       decimal.New(cents, -2),
				Stock:       1,
			}
			if err := svc.CreateProduct(ctx, p); err != nil {
				return false
			}

			updated, err := svc.UpdateProduct(ctx, p.ID, domain.ProductPatch{Stock: domain.NewField(stock)})
			if err != nil {
				t.Logf("FAIL: Failed to update product: %v", err)
				return false
			}

			return updated.Stock == stock &&
				updated.Name == name &&
				*updated.Description == "desc" &&
				updated.Price.Equal(p.Price)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.Int64Range(1, 1000000),
		gen.IntRange(0, 10000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductLifecycle(t *testing.T) {
	svc := NewProductService(repositorytest.NewStore(), zap.NewNop())
	ctx := context.Background()

	p := &domain.Product{Name: "Mug", Price: decimal.RequireFromString("7.50"), Stock: 3}
	require.NoError(t, svc.CreateProduct(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	same, err := svc.UpdateProduct(ctx, p.ID, domain.ProductPatch{})
	require.NoError(t, err)
	assert.Equal(t, p.Name, same.Name)

	deleted, err := svc.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", deleted.Name)

	_, err = svc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
	_, err = svc.DeleteProduct(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestPaginationPage(t *testing.T) {
	pg := Pagination{DefaultLimit: 100, MaxLimit: 1000}
	limit := func(n int) *int { return &n }

	assert.Equal(t, repository.Page{Skip: 0, Limit: 100}, pg.Page(0, nil))
	assert.Equal(t, repository.Page{Skip: 5, Limit: 10}, pg.Page(5, limit(10)))
	assert.Equal(t, repository.Page{Skip: 0, Limit: 1000}, pg.Page(0, limit(50000)))
	assert.Equal(t, repository.Page{Skip: 0, Limit: 0}, pg.Page(0, limit(0)))
}

func TestListProductsWindow(t *testing.T) {
	svc := NewProductService(repositorytest.NewStore(), zap.NewNop())
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		p := &domain.Product{Name: "P", Price: decimal.NewFromInt(1)}
		require.NoError(t, svc.CreateProduct(ctx, p))
		ids = append(ids, p.ID)
	}

	two := 2
	page, err := svc.ListProducts(ctx, DefaultPagination.Page(1, &two))
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	empty, err := svc.ListProducts(ctx, DefaultPagination.Page(10, nil))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
