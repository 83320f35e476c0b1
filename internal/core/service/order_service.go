package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stmary/warehouse/internal/core/domain"
	"github.com/stmary/warehouse/internal/port"
)

const recentOrderDays = 7

// OrderStats summarizes the orders table: total rows, a per-status histogram
// and how many orders landed in the last week.
type OrderStats struct {
	TotalOrders  int
	StatusCounts []port.StatusCount
	RecentOrders int
}

type OrderService struct {
	repo port.OrderRepository
	pool *pool
}

func NewOrderService(repo port.OrderRepository, workers, queueSize int) *OrderService {
	return &OrderService{
		repo: repo,
		pool: newPool(workers, queueSize),
	}
}

func (s *OrderService) Close() {
	s.pool.close()
}

// Create validates and persists a new order. A zero status defaults to
// Pending.
func (s *OrderService) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if order.Date.IsZero() {
		order.Date = domain.DateOnly(time.Now())
	}
	if err := order.Validate(); err != nil {
		return domain.Order{}, err
	}
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return domain.Order{}, wrap("create order", err)
	}
	return created, nil
}

// Update replaces the order's fields. When the update changes the status,
// the transition is checked against the currently persisted status.
func (s *OrderService) Update(ctx context.Context, order domain.Order) (bool, error) {
	if order.ID <= 0 {
		return false, &domain.ValidationError{Field: "id", Reason: "required for update"}
	}
	if err := order.Validate(); err != nil {
		return false, err
	}

	current, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return false, wrap("update order", err)
	}
	if current == nil {
		return false, nil
	}
	if current.Status != order.Status && !current.Status.CanTransition(order.Status) {
		return false, &domain.TransitionError{From: string(current.Status), To: string(order.Status)}
	}

	ok, err := s.repo.Update(ctx, order)
	if err != nil {
		return false, wrap("update order", err)
	}
	return ok, nil
}

// Delete removes an order unless it has been delivered.
func (s *OrderService) Delete(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, &domain.ValidationError{Field: "id", Reason: "required for deletion"}
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, wrap("delete order", err)
	}
	if current == nil {
		return false, nil
	}
	if current.Status == domain.OrderStatusDelivered {
		return false, &domain.ServiceError{Op: "delete order", Reason: "cannot delete delivered orders"}
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, wrap("delete order", err)
	}
	return ok, nil
}

func (s *OrderService) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap("find order", err)
	}
	return order, nil
}

func (s *OrderService) FindAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, wrap("list orders", err)
	}
	return orders, nil
}

func (s *OrderService) SearchByCustomer(ctx context.Context, customer string) ([]domain.Order, error) {
	if isBlank(customer) {
		return s.FindAll(ctx)
	}
	orders, err := s.repo.FindByCustomer(ctx, trim(customer))
	if err != nil {
		return nil, wrap("search orders by customer", err)
	}
	return orders, nil
}

func (s *OrderService) OrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if !status.Valid() {
		return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown order status %q", status)}
	}
	orders, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, wrap("list orders by status", err)
	}
	return orders, nil
}

// OrdersByDateRange lists orders dated within [start, end], inclusive.
func (s *OrderService) OrdersByDateRange(ctx context.Context, start, end time.Time) ([]domain.Order, error) {
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}
	orders, err := s.repo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, wrap("list orders by date range", err)
	}
	return orders, nil
}

func (s *OrderService) RecentOrders(ctx context.Context, days, limit int) ([]domain.Order, error) {
	if err := validateRecentParams(days, limit); err != nil {
		return nil, err
	}
	orders, err := s.repo.FindRecent(ctx, days, limit)
	if err != nil {
		return nil, wrap("list recent orders", err)
	}
	return orders, nil
}

// UpdateStatus applies a workflow transition after checking legality against
// the persisted status. The write itself is conditional on that status, so a
// racing transition loses cleanly instead of overwriting.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, newStatus domain.OrderStatus) (bool, error) {
	if id <= 0 {
		return false, &domain.ValidationError{Field: "id", Reason: "required for status update"}
	}
	if !newStatus.Valid() {
		return false, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown order status %q", newStatus)}
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, wrap("update order status", err)
	}
	if current == nil {
		return false, &domain.ServiceError{Op: "update order status", Reason: fmt.Sprintf("order not found with ID %d", id)}
	}
	if !current.Status.CanTransition(newStatus) {
		return false, &domain.TransitionError{From: string(current.Status), To: string(newStatus)}
	}

	ok, err := s.repo.UpdateStatus(ctx, id, current.Status, newStatus)
	if err != nil {
		return false, wrap("update order status", err)
	}
	if !ok {
		return false, &domain.ServiceError{Op: "update order status", Reason: "order status changed concurrently"}
	}
	return true, nil
}

func (s *OrderService) Confirm(ctx context.Context, id int64) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.OrderStatusConfirmed)
}

func (s *OrderService) Process(ctx context.Context, id int64) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.OrderStatusProcessing)
}

func (s *OrderService) Ship(ctx context.Context, id int64) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.OrderStatusShipped)
}

func (s *OrderService) Deliver(ctx context.Context, id int64) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.OrderStatusDelivered)
}

func (s *OrderService) Cancel(ctx context.Context, id int64) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.OrderStatusCancelled)
}

func (s *OrderService) PendingOrders(ctx context.Context) ([]domain.Order, error) {
	return s.OrdersByStatus(ctx, domain.OrderStatusPending)
}

func (s *OrderService) Stats(ctx context.Context) (OrderStats, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return OrderStats{}, wrap("order stats", err)
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return OrderStats{}, wrap("order stats", err)
	}
	recent, err := s.repo.FindRecent(ctx, recentOrderDays, 10)
	if err != nil {
		return OrderStats{}, wrap("order stats", err)
	}
	return OrderStats{
		TotalOrders:  total,
		StatusCounts: counts,
		RecentOrders: len(recent),
	}, nil
}

// Asynchronous variants.

func (s *OrderService) CreateAsync(ctx context.Context, order domain.Order) <-chan Result[domain.Order] {
	return runAsync(s.pool, func() (domain.Order, error) { return s.Create(ctx, order) })
}

func (s *OrderService) UpdateAsync(ctx context.Context, order domain.Order) <-chan Result[bool] {
	return runAsync(s.pool, func() (bool, error) { return s.Update(ctx, order) })
}

func (s *OrderService) DeleteAsync(ctx context.Context, id int64) <-chan Result[bool] {
	return runAsync(s.pool, func() (bool, error) { return s.Delete(ctx, id) })
}

func (s *OrderService) FindByIDAsync(ctx context.Context, id int64) <-chan Result[*domain.Order] {
	return runAsync(s.pool, func() (*domain.Order, error) { return s.FindByID(ctx, id) })
}

func (s *OrderService) FindAllAsync(ctx context.Context) <-chan Result[[]domain.Order] {
	return runAsync(s.pool, func() ([]domain.Order, error) { return s.FindAll(ctx) })
}

func (s *OrderService) SearchByCustomerAsync(ctx context.Context, customer string) <-chan Result[[]domain.Order] {
	return runAsync(s.pool, func() ([]domain.Order, error) { return s.SearchByCustomer(ctx, customer) })
}

func (s *OrderService) OrdersByStatusAsync(ctx context.Context, status domain.OrderStatus) <-chan Result[[]domain.Order] {
	return runAsync(s.pool, func() ([]domain.Order, error) { return s.OrdersByStatus(ctx, status) })
}

func (s *OrderService) OrdersByDateRangeAsync(ctx context.Context, start, end time.Time) <-chan Result[[]domain.Order] {
	return runAsync(s.pool, func() ([]domain.Order, error) { return s.OrdersByDateRange(ctx, start, end) })
}

func (s *OrderService) UpdateStatusAsync(ctx context.Context, id int64, newStatus domain.OrderStatus) <-chan Result[bool] {
	return runAsync(s.pool, func() (bool, error) { return s.UpdateStatus(ctx, id, newStatus) })
}

func (s *OrderService) RecentOrdersAsync(ctx context.Context, days, limit int) <-chan Result[[]domain.Order] {
	return runAsync(s.pool, func() ([]domain.Order, error) { return s.RecentOrders(ctx, days, limit) })
}

func (s *OrderService) PendingOrdersAsync(ctx context.Context) <-chan Result[[]domain.Order] {
	return runAsync(s.pool, func() ([]domain.Order, error) { return s.PendingOrders(ctx) })
}

func (s *OrderService) StatsAsync(ctx context.Context) <-chan Result[OrderStats] {
	return runAsync(s.pool, func() (OrderStats, error) { return s.Stats(ctx) })
}
