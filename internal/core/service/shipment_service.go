package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stmary/warehouse/internal/core/domain"
	"github.com/stmary/warehouse/internal/port"
)

// DelayedShipmentDays is the default age past which an open shipment counts
// as delayed.
const DelayedShipmentDays = 7

// ShipmentStats summarizes the shipments table.
type ShipmentStats struct {
	TotalShipments   int
	StatusCounts     []port.StatusCount
	DelayedShipments int
}

type ShipmentService struct {
	repo port.ShipmentRepository
	pool *pool
}

func NewShipmentService(repo port.ShipmentRepository, workers, queueSize int) *ShipmentService {
	return &ShipmentService{
		repo: repo,
		pool: newPool(workers, queueSize),
	}
}

func (s *ShipmentService) Close() {
	s.pool.close()
}

func (s *ShipmentService) Create(ctx context.Context, shipment domain.Shipment) (domain.Shipment, error) {
	if shipment.Status == "" {
		shipment.Status = domain.ShipmentStatusPreparing
	}
	if shipment.Date.IsZero() {
		shipment.Date = domain.DateOnly(time.Now())
	}
	if err := shipment.Validate(); err != nil {
		return domain.Shipment{}, err
	}
	created, err := s.repo.Create(ctx, shipment)
	if err != nil {
		return domain.Shipment{}, wrap("create shipment", err)
	}
	return created, nil
}

func (s *ShipmentService) Update(ctx context.Context, shipment domain.Shipment) (bool, error) {
	if shipment.ID <= 0 {
		return false, &domain.ValidationError{Field: "id", Reason: "required for update"}
	}
	if err := shipment.Validate(); err != nil {
		return false, err
	}

	current, err := s.repo.FindByID(ctx, shipment.ID)
	if err != nil {
		return false, wrap("update shipment", err)
	}
	if current == nil {
		return false, nil
	}
	if current.Status != shipment.Status && !current.Status.CanTransition(shipment.Status) {
		return false, &domain.TransitionError{From: string(current.Status), To: string(shipment.Status)}
	}

	ok, err := s.repo.Update(ctx, shipment)
	if err != nil {
		return false, wrap("update shipment", err)
	}
	return ok, nil
}

// Delete removes a shipment unless it has been delivered.
func (s *ShipmentService) Delete(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, &domain.ValidationError{Field: "id", Reason: "required for deletion"}
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, wrap("delete shipment", err)
	}
	if current == nil {
		return false, nil
	}
	if current.Status == domain.ShipmentStatusDelivered {
		return false, &domain.ServiceError{Op: "delete shipment", Reason: "cannot delete delivered shipments"}
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, wrap("delete shipment", err)
	}
	return ok, nil
}

func (s *ShipmentService) FindByID(ctx context.Context, id int64) (*domain.Shipment, error) {
	shipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap("find shipment", err)
	}
	return shipment, nil
}

func (s *ShipmentService) FindAll(ctx context.Context) ([]domain.Shipment, error) {
	shipments, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, wrap("list shipments", err)
	}
	return shipments, nil
}

func (s *ShipmentService) SearchByDestination(ctx context.Context, destination string) ([]domain.Shipment, error) {
	if isBlank(destination) {
		return s.FindAll(ctx)
	}
	shipments, err := s.repo.FindByDestination(ctx, trim(destination))
	if err != nil {
		return nil, wrap("search shipments by destination", err)
	}
	return shipments, nil
}

func (s *ShipmentService) ShipmentsByStatus(ctx context.Context, status domain.ShipmentStatus) ([]domain.Shipment, error) {
	if !status.Valid() {
		return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown shipment status %q", status)}
	}
	shipments, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, wrap("list shipments by status", err)
	}
	return shipments, nil
}

func (s *ShipmentService) ShipmentsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Shipment, error) {
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}
	shipments, err := s.repo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, wrap("list shipments by date range", err)
	}
	return shipments, nil
}

func (s *ShipmentService) RecentShipments(ctx context.Context, days, limit int) ([]domain.Shipment, error) {
	if err := validateRecentParams(days, limit); err != nil {
		return nil, err
	}
	shipments, err := s.repo.FindRecent(ctx, days, limit)
	if err != nil {
		return nil, wrap("list recent shipments", err)
	}
	return shipments, nil
}

// DelayedShipments lists open shipments older than the default threshold.
func (s *ShipmentService) DelayedShipments(ctx context.Context) ([]domain.Shipment, error) {
	return s.DelayedShipmentsWithThreshold(ctx, DelayedShipmentDays)
}

func (s *ShipmentService) DelayedShipmentsWithThreshold(ctx context.Context, days int) ([]domain.Shipment, error) {
	if days < 0 {
		return nil, &domain.ValidationError{Field: "days", Reason: "must be non-negative"}
	}
	shipments, err := s.repo.FindDelayed(ctx, days)
	if err != nil {
		return nil, wrap("list delayed shipments", err)
	}
	return shipments, nil
}

// TrackableShipments lists shipments currently moving: in transit or out for
// delivery.
func (s *ShipmentService) TrackableShipments(ctx context.Context) ([]domain.Shipment, error) {
	inTransit, err := s.repo.FindByStatus(ctx, domain.ShipmentStatusInTransit)
	if err != nil {
		return nil, wrap("list trackable shipments", err)
	}
	outForDelivery, err := s.repo.FindByStatus(ctx, domain.ShipmentStatusOutForDelivery)
	if err != nil {
		return nil, wrap("list trackable shipments", err)
	}
	return append(inTransit, outForDelivery...), nil
}

func (s *ShipmentService) UpdateStatus(ctx context.Context, id int64, newStatus domain.ShipmentStatus) (bool, error) {
	if id <= 0 {
		return false, &domain.ValidationError{Field: "id", Reason: "required for status update"}
	}
	if !newStatus.Valid() {
		return false, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown shipment status %q", newStatus)}
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, wrap("update shipment status", err)
	}
	if current == nil {
		return false, &domain.ServiceError{Op: "update shipment status", Reason: fmt.Sprintf("shipment not found with ID %d", id)}
	}
	if !current.Status.CanTransition(newStatus) {
		return false, &domain.TransitionError{From: string(current.Status), To: string(newStatus)}
	}

	ok, err := s.repo.UpdateStatus(ctx, id, current.Status, newStatus)
	if err != nil {
		return false, wrap("update shipment status", err)
	}
	if !ok {
		return false, &domain.ServiceError{Op: "update shipment status", Reason: "shipment status changed concurrently"}
	}
	return true, nil
}

func (s *ShipmentService) Ship(ctx context.Context, id int64) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.ShipmentStatusInTransit)
}

func (s *ShipmentService) OutForDelivery(ctx context.Context, id int64) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.ShipmentStatusOutForDelivery)
}

func (s *ShipmentService) Deliver(ctx context.Context, id int64) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.ShipmentStatusDelivered)
}

func (s *ShipmentService) Return(ctx context.Context, id int64) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.ShipmentStatusReturned)
}

func (s *ShipmentService) Cancel(ctx context.Context, id int64) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.ShipmentStatusCancelled)
}

func (s *ShipmentService) Stats(ctx context.Context) (ShipmentStats, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return ShipmentStats{}, wrap("shipment stats", err)
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return ShipmentStats{}, wrap("shipment stats", err)
	}
	delayed, err := s.repo.FindDelayed(ctx, DelayedShipmentDays)
	if err != nil {
		return ShipmentStats{}, wrap("shipment stats", err)
	}
	return ShipmentStats{
		TotalShipments:   total,
		StatusCounts:     counts,
		DelayedShipments: len(delayed),
	}, nil
}

// Asynchronous variants.

func (s *ShipmentService) CreateAsync(ctx context.Context, shipment domain.Shipment) <-chan Result[domain.Shipment] {
	return runAsync(s.pool, func() (domain.Shipment, error) { return s.Create(ctx, shipment) })
}

func (s *ShipmentService) UpdateAsync(ctx context.Context, shipment domain.Shipment) <-chan Result[bool] {
	return runAsync(s.pool, func() (bool, error) { return s.Update(ctx, shipment) })
}

func (s *ShipmentService) DeleteAsync(ctx context.Context, id int64) <-chan Result[bool] {
	return runAsync(s.pool, func() (bool, error) { return s.Delete(ctx, id) })
}

func (s *ShipmentService) FindByIDAsync(ctx context.Context, id int64) <-chan Result[*domain.Shipment] {
	return runAsync(s.pool, func() (*domain.Shipment, error) { return s.FindByID(ctx, id) })
}

func (s *ShipmentService) FindAllAsync(ctx context.Context) <-chan Result[[]domain.Shipment] {
	return runAsync(s.pool, func() ([]domain.Shipment, error) { return s.FindAll(ctx) })
}

func (s *ShipmentService) SearchByDestinationAsync(ctx context.Context, destination string) <-chan Result[[]domain.Shipment] {
	return runAsync(s.pool, func() ([]domain.Shipment, error) { return s.SearchByDestination(ctx, destination) })
}

func (s *ShipmentService) ShipmentsByStatusAsync(ctx context.Context, status domain.ShipmentStatus) <-chan Result[[]domain.Shipment] {
	return runAsync(s.pool, func() ([]domain.Shipment, error) { return s.ShipmentsByStatus(ctx, status) })
}

func (s *ShipmentService) ShipmentsByDateRangeAsync(ctx context.Context, start, end time.Time) <-chan Result[[]domain.Shipment] {
	return runAsync(s.pool, func() ([]domain.Shipment, error) { return s.ShipmentsByDateRange(ctx, start, end) })
}

func (s *ShipmentService) DelayedShipmentsAsync(ctx context.Context) <-chan Result[[]domain.Shipment] {
	return runAsync(s.pool, func() ([]domain.Shipment, error) { return s.DelayedShipments(ctx) })
}

func (s *ShipmentService) UpdateStatusAsync(ctx context.Context, id int64, newStatus domain.ShipmentStatus) <-chan Result[bool] {
	return runAsync(s.pool, func() (bool, error) { return s.UpdateStatus(ctx, id, newStatus) })
}

func (s *ShipmentService) RecentShipmentsAsync(ctx context.Context, days, limit int) <-chan Result[[]domain.Shipment] {
	return runAsync(s.pool, func() ([]domain.Shipment, error) { return s.RecentShipments(ctx, days, limit) })
}

func (s *ShipmentService) TrackableShipmentsAsync(ctx context.Context) <-chan Result[[]domain.Shipment] {
	return runAsync(s.pool, func() ([]domain.Shipment, error) { return s.TrackableShipments(ctx) })
}

func (s *ShipmentService) StatsAsync(ctx context.Context) <-chan Result[ShipmentStats] {
	return runAsync(s.pool, func() (ShipmentStats, error) { return s.Stats(ctx) })
}
