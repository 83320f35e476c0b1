package port

import (
	"context"
	"time"

	"github.com/stmary/warehouse/internal/core/domain"
)

// StatusCount is one bucket of a grouped status histogram.
type StatusCount struct {
	Status string
	Count  int
}

type InventoryRepository interface {
	// Create inserts the item and returns it with its assigned ID. A name
	// collision surfaces as domain.DuplicateError.
	Create(ctx context.Context, item domain.Inventory) (domain.Inventory, error)

	// Update replaces all mutable fields by ID, reporting whether a row matched.
	Update(ctx context.Context, item domain.Inventory) (bool, error)

	Delete(ctx context.Context, id int64) (bool, error)

	// FindByID returns nil when no row matches.
	FindByID(ctx context.Context, id int64) (*domain.Inventory, error)

	FindAll(ctx context.Context) ([]domain.Inventory, error)
	FindByName(ctx context.Context, name string) ([]domain.Inventory, error)
	FindByLocation(ctx context.Context, location string) ([]domain.Inventory, error)
	FindLowStock(ctx context.Context, threshold int) ([]domain.Inventory, error)

	// UpdateQuantity sets the quantity outright; the caller has already
	// validated the target value.
	UpdateQuantity(ctx context.Context, id int64, quantity int) (bool, error)

	// AdjustQuantity applies a relative delta in a single conditional update
	// that never drives the quantity negative. It returns false when the row
	// is missing or the decrement would overdraw the stock.
	AdjustQuantity(ctx context.Context, id int64, delta int) (bool, error)

	// BatchUpdate applies every update inside one transaction; any failure
	// rolls the whole batch back.
	BatchUpdate(ctx context.Context, items []domain.Inventory) error

	CountAll(ctx context.Context) (int, error)
	TotalQuantity(ctx context.Context) (int, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	Update(ctx context.Context, order domain.Order) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByCustomer(ctx context.Context, customer string) ([]domain.Order, error)
	FindByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.Order, error)
	FindRecent(ctx context.Context, days, limit int) ([]domain.Order, error)

	// UpdateStatus transitions id from→to in one conditional statement. It
	// returns false when the persisted status no longer equals from, which
	// serializes racing transitions against the same row.
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error)

	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}

type ShipmentRepository interface {
	Create(ctx context.Context, shipment domain.Shipment) (domain.Shipment, error)
	Update(ctx context.Context, shipment domain.Shipment) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*domain.Shipment, error)
	FindAll(ctx context.Context) ([]domain.Shipment, error)
	FindByDestination(ctx context.Context, destination string) ([]domain.Shipment, error)
	FindByStatus(ctx context.Context, status domain.ShipmentStatus) ([]domain.Shipment, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.Shipment, error)
	FindRecent(ctx context.Context, days, limit int) ([]domain.Shipment, error)

	// FindDelayed returns non-terminal shipments whose ship date is more
	// than days days old, oldest first.
	FindDelayed(ctx context.Context, days int) ([]domain.Shipment, error)

	UpdateStatus(ctx context.Context, id int64, from, to domain.ShipmentStatus) (bool, error)

	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}
