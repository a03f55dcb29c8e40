package main

import (
	"context"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/repository/repositorytest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedCreatesSampleDataOnce(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	statuses := domain.NewStatusSet(domain.DefaultStatuses)

	require.NoError(t, seed(ctx, store, statuses, zap.NewNop()))

	products, err := store.Products().List(ctx, repository.Page{Limit: 100})
	require.NoError(t, err)
	require.Len(t, products, len(sampleProducts))
	assert.Equal(t, 9, products[0].Stock)
	assert.Equal(t, 48, products[1].Stock)

	orders, err := store.Orders().List(ctx, repository.Page{Limit: 100})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, domain.StatusPending, orders[0].Status)
	assert.Equal(t, domain.StatusDelivered, orders[1].Status)
	assert.Equal(t, "1059.97", orders[0].TotalAmount.StringFixed(2))

	require.NoError(t, seed(ctx, store, statuses, zap.NewNop()))
	assert.Equal(t, 2, store.OrderCount())
}
