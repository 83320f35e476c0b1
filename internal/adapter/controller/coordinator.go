// Package controller exposes every service operation through a uniform
// asynchronous contract: an on-success callback per call plus shared
// on-error and on-progress handlers. Completions are marshalled through an
// injected dispatch function so a single-threaded front end can mutate its
// own state safely. No business logic lives here.
package controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stmary/warehouse/internal/core/domain"
	"github.com/stmary/warehouse/internal/core/service"
)

type Coordinator struct {
	inventory *service.InventoryService
	orders    *service.OrderService
	shipments *service.ShipmentService

	// dispatch runs completion callbacks on the front end's thread. The
	// console front end passes a direct-call dispatcher; a GUI event loop
	// would pass its own marshaller.
	dispatch func(func())

	onError    func(msg string)
	onProgress func(msg string)
}

func New(inventory *service.InventoryService, orders *service.OrderService, shipments *service.ShipmentService, dispatch func(func())) *Coordinator {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Coordinator{
		inventory:  inventory,
		orders:     orders,
		shipments:  shipments,
		dispatch:   dispatch,
		onError:    func(string) {},
		onProgress: func(string) {},
	}
}

// SetHandlers installs the shared error and progress callbacks. Either may
// be nil to keep the current handler.
func (c *Coordinator) SetHandlers(onError, onProgress func(msg string)) {
	if onError != nil {
		c.onError = onError
	}
	if onProgress != nil {
		c.onProgress = onProgress
	}
}

// await bridges a service future onto the dispatch thread. Errors are
// normalized to their root cause before reaching the front end.
func await[T any](c *Coordinator, op string, results <-chan service.Result[T], onSuccess func(T)) {
	opID := uuid.NewString()
	started := time.Now()
	c.dispatch(func() { c.onProgress(op + "...") })

	go func() {
		res := <-results
		c.dispatch(func() {
			if res.Err != nil {
				slog.Error("operation failed", "op", op, "op_id", opID, "error", res.Err)
				c.onError(domain.RootCause(res.Err))
				return
			}
			slog.Debug("operation completed", "op", op, "op_id", opID,
				"duration_ms", time.Since(started).Milliseconds())
			c.onProgress(op + " done")
			if onSuccess != nil {
				onSuccess(res.Value)
			}
		})
	}()
}

// Inventory operations.

func (c *Coordinator) CreateInventory(ctx context.Context, item domain.Inventory, onSuccess func(domain.Inventory)) {
	await(c, "create inventory item", c.inventory.CreateAsync(ctx, item), onSuccess)
}

func (c *Coordinator) UpdateInventory(ctx context.Context, item domain.Inventory, onSuccess func(bool)) {
	await(c, "update inventory item", c.inventory.UpdateAsync(ctx, item), onSuccess)
}

func (c *Coordinator) DeleteInventory(ctx context.Context, id int64, onSuccess func(bool)) {
	await(c, "delete inventory item", c.inventory.DeleteAsync(ctx, id), onSuccess)
}

func (c *Coordinator) FindInventoryByID(ctx context.Context, id int64, onSuccess func(*domain.Inventory)) {
	await(c, "find inventory item", c.inventory.FindByIDAsync(ctx, id), onSuccess)
}

func (c *Coordinator) LoadAllInventory(ctx context.Context, onSuccess func([]domain.Inventory)) {
	await(c, "load inventory", c.inventory.FindAllAsync(ctx), onSuccess)
}

func (c *Coordinator) SearchInventoryByName(ctx context.Context, name string, onSuccess func([]domain.Inventory)) {
	await(c, "search inventory by name", c.inventory.SearchByNameAsync(ctx, name), onSuccess)
}

func (c *Coordinator) SearchInventoryByLocation(ctx context.Context, location string, onSuccess func([]domain.Inventory)) {
	await(c, "search inventory by location", c.inventory.SearchByLocationAsync(ctx, location), onSuccess)
}

func (c *Coordinator) LowStockItems(ctx context.Context, onSuccess func([]domain.Inventory)) {
	await(c, "load low stock items", c.inventory.LowStockItemsAsync(ctx), onSuccess)
}

func (c *Coordinator) UpdateStock(ctx context.Context, id int64, quantity int, onSuccess func(bool)) {
	await(c, "update stock", c.inventory.UpdateStockAsync(ctx, id, quantity), onSuccess)
}

func (c *Coordinator) AddStock(ctx context.Context, id int64, quantity int, onSuccess func(bool)) {
	await(c, "add stock", c.inventory.AddStockAsync(ctx, id, quantity), onSuccess)
}

func (c *Coordinator) RemoveStock(ctx context.Context, id int64, quantity int, onSuccess func(bool)) {
	await(c, "remove stock", c.inventory.RemoveStockAsync(ctx, id, quantity), onSuccess)
}

func (c *Coordinator) BatchUpdateInventory(ctx context.Context, items []domain.Inventory, onSuccess func()) {
	await(c, "batch update inventory", c.inventory.BatchUpdateAsync(ctx, items), func(struct{}) {
		if onSuccess != nil {
			onSuccess()
		}
	})
}

func (c *Coordinator) InventoryStats(ctx context.Context, onSuccess func(service.InventoryStats)) {
	await(c, "load inventory stats", c.inventory.StatsAsync(ctx), onSuccess)
}

// Order operations.

func (c *Coordinator) CreateOrder(ctx context.Context, order domain.Order, onSuccess func(domain.Order)) {
	await(c, "create order", c.orders.CreateAsync(ctx, order), onSuccess)
}

func (c *Coordinator) UpdateOrder(ctx context.Context, order domain.Order, onSuccess func(bool)) {
	await(c, "update order", c.orders.UpdateAsync(ctx, order), onSuccess)
}

func (c *Coordinator) DeleteOrder(ctx context.Context, id int64, onSuccess func(bool)) {
	await(c, "delete order", c.orders.DeleteAsync(ctx, id), onSuccess)
}

func (c *Coordinator) FindOrderByID(ctx context.Context, id int64, onSuccess func(*domain.Order)) {
	await(c, "find order", c.orders.FindByIDAsync(ctx, id), onSuccess)
}

func (c *Coordinator) LoadAllOrders(ctx context.Context, onSuccess func([]domain.Order)) {
	await(c, "load orders", c.orders.FindAllAsync(ctx), onSuccess)
}

func (c *Coordinator) SearchOrdersByCustomer(ctx context.Context, customer string, onSuccess func([]domain.Order)) {
	await(c, "search orders by customer", c.orders.SearchByCustomerAsync(ctx, customer), onSuccess)
}

func (c *Coordinator) OrdersByStatus(ctx context.Context, status domain.OrderStatus, onSuccess func([]domain.Order)) {
	await(c, "load orders by status", c.orders.OrdersByStatusAsync(ctx, status), onSuccess)
}

func (c *Coordinator) OrdersByDateRange(ctx context.Context, start, end time.Time, onSuccess func([]domain.Order)) {
	await(c, "load orders by date range", c.orders.OrdersByDateRangeAsync(ctx, start, end), onSuccess)
}

func (c *Coordinator) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus, onSuccess func(bool)) {
	await(c, "update order status", c.orders.UpdateStatusAsync(ctx, id, status), onSuccess)
}

func (c *Coordinator) ConfirmOrder(ctx context.Context, id int64, onSuccess func(bool)) {
	c.UpdateOrderStatus(ctx, id, domain.OrderStatusConfirmed, onSuccess)
}

func (c *Coordinator) ProcessOrder(ctx context.Context, id int64, onSuccess func(bool)) {
	c.UpdateOrderStatus(ctx, id, domain.OrderStatusProcessing, onSuccess)
}

func (c *Coordinator) ShipOrder(ctx context.Context, id int64, onSuccess func(bool)) {
	c.UpdateOrderStatus(ctx, id, domain.OrderStatusShipped, onSuccess)
}

func (c *Coordinator) DeliverOrder(ctx context.Context, id int64, onSuccess func(bool)) {
	c.UpdateOrderStatus(ctx, id, domain.OrderStatusDelivered, onSuccess)
}

func (c *Coordinator) CancelOrder(ctx context.Context, id int64, onSuccess func(bool)) {
	c.UpdateOrderStatus(ctx, id, domain.OrderStatusCancelled, onSuccess)
}

func (c *Coordinator) RecentOrders(ctx context.Context, days, limit int, onSuccess func([]domain.Order)) {
	await(c, "load recent orders", c.orders.RecentOrdersAsync(ctx, days, limit), onSuccess)
}

func (c *Coordinator) PendingOrders(ctx context.Context, onSuccess func([]domain.Order)) {
	await(c, "load pending orders", c.orders.PendingOrdersAsync(ctx), onSuccess)
}

func (c *Coordinator) OrderStats(ctx context.Context, onSuccess func(service.OrderStats)) {
	await(c, "load order stats", c.orders.StatsAsync(ctx), onSuccess)
}

// Shipment operations.

func (c *Coordinator) CreateShipment(ctx context.Context, shipment domain.Shipment, onSuccess func(domain.Shipment)) {
	await(c, "create shipment", c.shipments.CreateAsync(ctx, shipment), onSuccess)
}

func (c *Coordinator) UpdateShipment(ctx context.Context, shipment domain.Shipment, onSuccess func(bool)) {
	await(c, "update shipment", c.shipments.UpdateAsync(ctx, shipment), onSuccess)
}

func (c *Coordinator) DeleteShipment(ctx context.Context, id int64, onSuccess func(bool)) {
	await(c, "delete shipment", c.shipments.DeleteAsync(ctx, id), onSuccess)
}

func (c *Coordinator) FindShipmentByID(ctx context.Context, id int64, onSuccess func(*domain.Shipment)) {
	await(c, "find shipment", c.shipments.FindByIDAsync(ctx, id), onSuccess)
}

func (c *Coordinator) LoadAllShipments(ctx context.Context, onSuccess func([]domain.Shipment)) {
	await(c, "load shipments", c.shipments.FindAllAsync(ctx), onSuccess)
}

func (c *Coordinator) SearchShipmentsByDestination(ctx context.Context, destination string, onSuccess func([]domain.Shipment)) {
	await(c, "search shipments by destination", c.shipments.SearchByDestinationAsync(ctx, destination), onSuccess)
}

func (c *Coordinator) ShipmentsByStatus(ctx context.Context, status domain.ShipmentStatus, onSuccess func([]domain.Shipment)) {
	await(c, "load shipments by status", c.shipments.ShipmentsByStatusAsync(ctx, status), onSuccess)
}

func (c *Coordinator) ShipmentsByDateRange(ctx context.Context, start, end time.Time, onSuccess func([]domain.Shipment)) {
	await(c, "load shipments by date range", c.shipments.ShipmentsByDateRangeAsync(ctx, start, end), onSuccess)
}

func (c *Coordinator) DelayedShipments(ctx context.Context, onSuccess func([]domain.Shipment)) {
	await(c, "load delayed shipments", c.shipments.DelayedShipmentsAsync(ctx), onSuccess)
}

func (c *Coordinator) UpdateShipmentStatus(ctx context.Context, id int64, status domain.ShipmentStatus, onSuccess func(bool)) {
	await(c, "update shipment status", c.shipments.UpdateStatusAsync(ctx, id, status), onSuccess)
}

func (c *Coordinator) ShipShipment(ctx context.Context, id int64, onSuccess func(bool)) {
	c.UpdateShipmentStatus(ctx, id, domain.ShipmentStatusInTransit, onSuccess)
}

func (c *Coordinator) ShipmentOutForDelivery(ctx context.Context, id int64, onSuccess func(bool)) {
	c.UpdateShipmentStatus(ctx, id, domain.ShipmentStatusOutForDelivery, onSuccess)
}

func (c *Coordinator) DeliverShipment(ctx context.Context, id int64, onSuccess func(bool)) {
	c.UpdateShipmentStatus(ctx, id, domain.ShipmentStatusDelivered, onSuccess)
}

func (c *Coordinator) ReturnShipment(ctx context.Context, id int64, onSuccess func(bool)) {
	c.UpdateShipmentStatus(ctx, id, domain.ShipmentStatusReturned, onSuccess)
}

func (c *Coordinator) CancelShipment(ctx context.Context, id int64, onSuccess func(bool)) {
	c.UpdateShipmentStatus(ctx, id, domain.ShipmentStatusCancelled, onSuccess)
}

func (c *Coordinator) RecentShipments(ctx context.Context, days, limit int, onSuccess func([]domain.Shipment)) {
	await(c, "load recent shipments", c.shipments.RecentShipmentsAsync(ctx, days, limit), onSuccess)
}

func (c *Coordinator) TrackableShipments(ctx context.Context, onSuccess func([]domain.Shipment)) {
	await(c, "load trackable shipments", c.shipments.TrackableShipmentsAsync(ctx), onSuccess)
}

func (c *Coordinator) ShipmentStats(ctx context.Context, onSuccess func(service.ShipmentStats)) {
	await(c, "load shipment stats", c.shipments.StatsAsync(ctx), onSuccess)
}
