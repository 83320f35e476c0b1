package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stmary/warehouse/internal/adapter/storage"
	"github.com/stmary/warehouse/internal/core/domain"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "warehouse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newInventoryService(t *testing.T) *InventoryService {
	t.Helper()
	svc := NewInventoryService(storage.NewInventoryRepo(newTestStore(t)), 2, 8)
	t.Cleanup(svc.Close)
	return svc
}

func TestInventoryServiceCreateValidates(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService(t)

	_, err := svc.Create(ctx, domain.Inventory{Name: "  ", Quantity: 5, Location: "A1"})
	assert.True(t, domain.IsValidation(err), "blank name must be rejected, got %v", err)

	_, err = svc.Create(ctx, domain.Inventory{Name: "Widget", Quantity: -1, Location: "A1"})
	assert.True(t, domain.IsValidation(err), "negative quantity must be rejected, got %v", err)

	created, err := svc.Create(ctx, domain.Inventory{Name: "Widget", Quantity: 5, Location: "A1"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
}

func TestInventoryServiceDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService(t)

	_, err := svc.Create(ctx, domain.Inventory{Name: "Widget", Quantity: 5, Location: "A1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.Inventory{Name: "Widget", Quantity: 2, Location: "B2"})
	assert.True(t, domain.IsDuplicate(err), "expected DuplicateError, got %v", err)
}

func TestInventoryServiceStockAdjustments(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService(t)

	created, err := svc.Create(ctx, domain.Inventory{Name: "Widget", Quantity: 5, Location: "A1"})
	require.NoError(t, err)

	// Removing more than is on hand fails and leaves the quantity untouched.
	ok, err := svc.RemoveStock(ctx, created.ID, 10)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.False(t, ok)

	item, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	ok, err = svc.AddStock(ctx, created.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	item, err = svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, item.Quantity)

	ok, err = svc.RemoveStock(ctx, created.ID, 8)
	require.NoError(t, err)
	assert.True(t, ok)

	// Missing item is a plain miss, not an insufficient-stock failure.
	ok, err = svc.RemoveStock(ctx, 99999, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInventoryServiceStockValidation(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService(t)

	_, err := svc.AddStock(ctx, 1, 0)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.RemoveStock(ctx, 1, -3)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.UpdateStock(ctx, 1, -1)
	assert.True(t, domain.IsValidation(err))
}

func TestInventoryServiceSearchBlankListsAll(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService(t)

	for _, item := range []domain.Inventory{
		{Name: "Widget", Quantity: 5, Location: "A1"},
		{Name: "Gadget", Quantity: 8, Location: "B1"},
	} {
		_, err := svc.Create(ctx, item)
		require.NoError(t, err)
	}

	items, err := svc.SearchByName(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.SearchByName(ctx, "wid")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestInventoryServiceStats(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService(t)

	for _, item := range []domain.Inventory{
		{Name: "Widget", Quantity: 5, Location: "A1"},
		{Name: "Gadget", Quantity: 80, Location: "B1"},
	} {
		_, err := svc.Create(ctx, item)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 85, stats.TotalQuantity)
	assert.Equal(t, 1, stats.LowStockItems)
}

func TestInventoryServiceAsyncParity(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService(t)

	res := <-svc.CreateAsync(ctx, domain.Inventory{Name: "Widget", Quantity: 5, Location: "A1"})
	require.NoError(t, res.Err)
	assert.Positive(t, res.Value.ID)

	add := <-svc.AddStockAsync(ctx, res.Value.ID, 3)
	require.NoError(t, add.Err)
	assert.True(t, add.Value)

	found := <-svc.FindByIDAsync(ctx, res.Value.ID)
	require.NoError(t, found.Err)
	require.NotNil(t, found.Value)
	assert.Equal(t, 8, found.Value.Quantity)

	bad := <-svc.CreateAsync(ctx, domain.Inventory{Name: "Widget", Quantity: 1, Location: "A1"})
	assert.True(t, domain.IsDuplicate(bad.Err), "async surfaces the same error as the blocking call")
}

func TestInventoryServiceBatchUpdateValidatesFirst(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService(t)

	created, err := svc.Create(ctx, domain.Inventory{Name: "Widget", Quantity: 5, Location: "A1"})
	require.NoError(t, err)

	created.Quantity = 7
	err = svc.BatchUpdate(ctx, []domain.Inventory{created, {Name: "NoID", Quantity: 1, Location: "Z9"}})
	assert.True(t, domain.IsValidation(err), "missing ID rejected before touching storage")

	item, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	require.NoError(t, svc.BatchUpdate(ctx, []domain.Inventory{created}))
	item, err = svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)
}
