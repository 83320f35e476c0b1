package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stmary/warehouse/internal/adapter/storage"
	"github.com/stmary/warehouse/internal/core/domain"
)

func newShipmentService(t *testing.T) (*ShipmentService, *storage.Store) {
	t.Helper()
	store := newTestStore(t)
	svc := NewShipmentService(storage.NewShipmentRepo(store), 2, 8)
	t.Cleanup(svc.Close)
	return svc, store
}

func TestShipmentServiceCreateDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newShipmentService(t)

	created, err := svc.Create(ctx, domain.Shipment{Destination: "Berlin"})
	require.NoError(t, err)
	assert.Equal(t, domain.ShipmentStatusPreparing, created.Status)
	assert.True(t, created.Date.Equal(domain.DateOnly(time.Now())))

	_, err = svc.Create(ctx, domain.Shipment{Destination: ""})
	assert.True(t, domain.IsValidation(err))

	tooFar := domain.DateOnly(time.Now()).AddDate(0, 0, domain.MaxShipmentLeadDays+1)
	_, err = svc.Create(ctx, domain.Shipment{Destination: "Berlin", Date: tooFar})
	assert.True(t, domain.IsValidation(err), "date beyond the lead window rejected, got %v", err)
}

func TestShipmentServiceWorkflow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newShipmentService(t)

	created, err := svc.Create(ctx, domain.Shipment{Destination: "Berlin"})
	require.NoError(t, err)

	ok, err := svc.Ship(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Preparing is the only state that can be shipped from.
	_, err = svc.Ship(ctx, created.ID)
	assert.True(t, domain.IsTransition(err))

	ok, err = svc.OutForDelivery(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Out for Delivery cannot be cancelled, only delivered or returned.
	_, err = svc.Cancel(ctx, created.ID)
	assert.True(t, domain.IsTransition(err))

	ok, err = svc.Deliver(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	shipment, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShipmentStatusDelivered, shipment.Status)
}

func TestShipmentServiceReturnFromTransit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newShipmentService(t)

	created, err := svc.Create(ctx, domain.Shipment{Destination: "Berlin"})
	require.NoError(t, err)

	_, err = svc.Ship(ctx, created.ID)
	require.NoError(t, err)

	ok, err := svc.Return(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Returned is terminal.
	_, err = svc.Ship(ctx, created.ID)
	assert.True(t, domain.IsTransition(err))
}

func TestShipmentServiceDeleteGuard(t *testing.T) {
	ctx := context.Background()
	svc, _ := newShipmentService(t)

	created, err := svc.Create(ctx, domain.Shipment{Destination: "Berlin"})
	require.NoError(t, err)
	for _, step := range []func(context.Context, int64) (bool, error){
		svc.Ship, svc.OutForDelivery, svc.Deliver,
	} {
		_, err := step(ctx, created.ID)
		require.NoError(t, err)
	}

	_, err = svc.Delete(ctx, created.ID)
	var se *domain.ServiceError
	require.ErrorAs(t, err, &se, "delivered shipments cannot be deleted")

	other, err := svc.Create(ctx, domain.Shipment{Destination: "Oslo"})
	require.NoError(t, err)
	ok, err := svc.Delete(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestShipmentServiceDelayed(t *testing.T) {
	ctx := context.Background()
	svc, store := newShipmentService(t)

	repo := storage.NewShipmentRepo(store)
	old := domain.Shipment{
		Destination: "Berlin",
		Date:        domain.DateOnly(time.Now()).AddDate(0, 0, -10),
		Status:      domain.ShipmentStatusInTransit,
	}
	_, err := repo.Create(ctx, old)
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.Shipment{Destination: "Oslo"})
	require.NoError(t, err)

	delayed, err := svc.DelayedShipments(ctx)
	require.NoError(t, err)
	require.Len(t, delayed, 1)
	assert.Equal(t, "Berlin", delayed[0].Destination)

	_, err = svc.DelayedShipmentsWithThreshold(ctx, -1)
	assert.True(t, domain.IsValidation(err))
}

func TestShipmentServiceTrackable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newShipmentService(t)

	first, err := svc.Create(ctx, domain.Shipment{Destination: "Berlin"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.Shipment{Destination: "Oslo"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Shipment{Destination: "Bern"})
	require.NoError(t, err)

	_, err = svc.Ship(ctx, first.ID)
	require.NoError(t, err)
	_, err = svc.Ship(ctx, second.ID)
	require.NoError(t, err)
	_, err = svc.OutForDelivery(ctx, second.ID)
	require.NoError(t, err)

	trackable, err := svc.TrackableShipments(ctx)
	require.NoError(t, err)
	assert.Len(t, trackable, 2, "in transit and out for delivery, not preparing")
}

func TestShipmentServiceStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newShipmentService(t)

	_, err := svc.Create(ctx, domain.Shipment{Destination: "Berlin"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Shipment{Destination: "Oslo"})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalShipments)
	assert.Zero(t, stats.DelayedShipments)
}

func TestShipmentServiceAsyncParity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newShipmentService(t)

	res := <-svc.CreateAsync(ctx, domain.Shipment{Destination: "Berlin"})
	require.NoError(t, res.Err)

	ok := <-svc.UpdateStatusAsync(ctx, res.Value.ID, domain.ShipmentStatusInTransit)
	require.NoError(t, ok.Err)
	assert.True(t, ok.Value)

	bad := <-svc.UpdateStatusAsync(ctx, res.Value.ID, domain.ShipmentStatus("Lost"))
	assert.True(t, domain.IsValidation(bad.Err))
}
