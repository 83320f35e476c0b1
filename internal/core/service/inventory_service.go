package service

import (
	"context"

	"github.com/stmary/warehouse/internal/core/domain"
	"github.com/stmary/warehouse/internal/port"
)

// InventoryStats summarizes the inventory table for dashboards.
type InventoryStats struct {
	TotalItems    int
	TotalQuantity int
	LowStockItems int
}

type InventoryService struct {
	repo port.InventoryRepository
	pool *pool
}

func NewInventoryService(repo port.InventoryRepository, workers, queueSize int) *InventoryService {
	return &InventoryService{
		repo: repo,
		pool: newPool(workers, queueSize),
	}
}

// Close drains the worker pool. Pending asynchronous calls still complete.
func (s *InventoryService) Close() {
	s.pool.close()
}

func (s *InventoryService) Create(ctx context.Context, item domain.Inventory) (domain.Inventory, error) {
	if err := item.Validate(); err != nil {
		return domain.Inventory{}, err
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return domain.Inventory{}, wrap("create inventory", err)
	}
	return created, nil
}

func (s *InventoryService) Update(ctx context.Context, item domain.Inventory) (bool, error) {
	if item.ID <= 0 {
		return false, &domain.ValidationError{Field: "id", Reason: "required for update"}
	}
	if err := item.Validate(); err != nil {
		return false, err
	}
	ok, err := s.repo.Update(ctx, item)
	if err != nil {
		return false, wrap("update inventory", err)
	}
	return ok, nil
}

func (s *InventoryService) Delete(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, &domain.ValidationError{Field: "id", Reason: "required for deletion"}
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, wrap("delete inventory", err)
	}
	return ok, nil
}

func (s *InventoryService) FindByID(ctx context.Context, id int64) (*domain.Inventory, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap("find inventory", err)
	}
	return item, nil
}

func (s *InventoryService) FindAll(ctx context.Context) ([]domain.Inventory, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, wrap("list inventory", err)
	}
	return items, nil
}

// SearchByName lists items whose name contains name; a blank pattern lists
// everything.
func (s *InventoryService) SearchByName(ctx context.Context, name string) ([]domain.Inventory, error) {
	if isBlank(name) {
		return s.FindAll(ctx)
	}
	items, err := s.repo.FindByName(ctx, trim(name))
	if err != nil {
		return nil, wrap("search inventory by name", err)
	}
	return items, nil
}

func (s *InventoryService) SearchByLocation(ctx context.Context, location string) ([]domain.Inventory, error) {
	if isBlank(location) {
		return s.FindAll(ctx)
	}
	items, err := s.repo.FindByLocation(ctx, trim(location))
	if err != nil {
		return nil, wrap("search inventory by location", err)
	}
	return items, nil
}

// LowStockItems lists items at or below the default threshold.
func (s *InventoryService) LowStockItems(ctx context.Context) ([]domain.Inventory, error) {
	return s.LowStockItemsWithThreshold(ctx, domain.LowStockThreshold)
}

func (s *InventoryService) LowStockItemsWithThreshold(ctx context.Context, threshold int) ([]domain.Inventory, error) {
	if threshold < 0 {
		return nil, &domain.ValidationError{Field: "threshold", Reason: "cannot be negative"}
	}
	items, err := s.repo.FindLowStock(ctx, threshold)
	if err != nil {
		return nil, wrap("list low stock", err)
	}
	return items, nil
}

// UpdateStock sets the quantity to an absolute value.
func (s *InventoryService) UpdateStock(ctx context.Context, id int64, quantity int) (bool, error) {
	if quantity < 0 {
		return false, &domain.ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	ok, err := s.repo.UpdateQuantity(ctx, id, quantity)
	if err != nil {
		return false, wrap("update stock", err)
	}
	return ok, nil
}

func (s *InventoryService) AddStock(ctx context.Context, id int64, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, &domain.ValidationError{Field: "quantity", Reason: "stock addition must be positive"}
	}
	ok, err := s.repo.AdjustQuantity(ctx, id, quantity)
	if err != nil {
		return false, wrap("add stock", err)
	}
	return ok, nil
}

// RemoveStock decrements the quantity, refusing to overdraw. The adjustment
// is a single conditional update, so quantity never goes negative even under
// concurrent removals.
func (s *InventoryService) RemoveStock(ctx context.Context, id int64, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, &domain.ValidationError{Field: "quantity", Reason: "stock removal must be positive"}
	}
	ok, err := s.repo.AdjustQuantity(ctx, id, -quantity)
	if err != nil {
		return false, wrap("remove stock", err)
	}
	if ok {
		return true, nil
	}
	// The conditional update matched nothing: either the item is missing or
	// the stock is insufficient.
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, wrap("remove stock", err)
	}
	if item == nil {
		return false, nil
	}
	return false, domain.ErrInsufficientStock
}

func (s *InventoryService) BatchUpdate(ctx context.Context, items []domain.Inventory) error {
	for _, item := range items {
		if item.ID <= 0 {
			return &domain.ValidationError{Field: "id", Reason: "required for update"}
		}
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if err := s.repo.BatchUpdate(ctx, items); err != nil {
		return wrap("batch update inventory", err)
	}
	return nil
}

func (s *InventoryService) Stats(ctx context.Context) (InventoryStats, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return InventoryStats{}, wrap("inventory stats", err)
	}
	quantity, err := s.repo.TotalQuantity(ctx)
	if err != nil {
		return InventoryStats{}, wrap("inventory stats", err)
	}
	lowStock, err := s.repo.FindLowStock(ctx, domain.LowStockThreshold)
	if err != nil {
		return InventoryStats{}, wrap("inventory stats", err)
	}
	return InventoryStats{
		TotalItems:    total,
		TotalQuantity: quantity,
		LowStockItems: len(lowStock),
	}, nil
}

// Asynchronous variants. Each resolves on the service pool with the same
// value and error as its blocking twin.

func (s *InventoryService) CreateAsync(ctx context.Context, item domain.Inventory) <-chan Result[domain.Inventory] {
	return runAsync(s.pool, func() (domain.Inventory, error) { return s.Create(ctx, item) })
}

func (s *InventoryService) UpdateAsync(ctx context.Context, item domain.Inventory) <-chan Result[bool] {
	return runAsync(s.pool, func() (bool, error) { return s.Update(ctx, item) })
}

func (s *InventoryService) DeleteAsync(ctx context.Context, id int64) <-chan Result[bool] {
	return runAsync(s.pool, func() (bool, error) { return s.Delete(ctx, id) })
}

func (s *InventoryService) FindByIDAsync(ctx context.Context, id int64) <-chan Result[*domain.Inventory] {
	return runAsync(s.pool, func() (*domain.Inventory, error) { return s.FindByID(ctx, id) })
}

func (s *InventoryService) FindAllAsync(ctx context.Context) <-chan Result[[]domain.Inventory] {
	return runAsync(s.pool, func() ([]domain.Inventory, error) { return s.FindAll(ctx) })
}

func (s *InventoryService) SearchByNameAsync(ctx context.Context, name string) <-chan Result[[]domain.Inventory] {
	return runAsync(s.pool, func() ([]domain.Inventory, error) { return s.SearchByName(ctx, name) })
}

func (s *InventoryService) SearchByLocationAsync(ctx context.Context, location string) <-chan Result[[]domain.Inventory] {
	return runAsync(s.pool, func() ([]domain.Inventory, error) { return s.SearchByLocation(ctx, location) })
}

func (s *InventoryService) LowStockItemsAsync(ctx context.Context) <-chan Result[[]domain.Inventory] {
	return runAsync(s.pool, func() ([]domain.Inventory, error) { return s.LowStockItems(ctx) })
}

func (s *InventoryService) UpdateStockAsync(ctx context.Context, id int64, quantity int) <-chan Result[bool] {
	return runAsync(s.pool, func() (bool, error) { return s.UpdateStock(ctx, id, quantity) })
}

func (s *InventoryService) AddStockAsync(ctx context.Context, id int64, quantity int) <-chan Result[bool] {
	return runAsync(s.pool, func() (bool, error) { return s.AddStock(ctx, id, quantity) })
}

func (s *InventoryService) RemoveStockAsync(ctx context.Context, id int64, quantity int) <-chan Result[bool] {
	return runAsync(s.pool, func() (bool, error) { return s.RemoveStock(ctx, id, quantity) })
}

func (s *InventoryService) BatchUpdateAsync(ctx context.Context, items []domain.Inventory) <-chan Result[struct{}] {
	return runAsync(s.pool, func() (struct{}, error) { return struct{}{}, s.BatchUpdate(ctx, items) })
}

func (s *InventoryService) StatsAsync(ctx context.Context) <-chan Result[InventoryStats] {
	return runAsync(s.pool, func() (InventoryStats, error) { return s.Stats(ctx) })
}
