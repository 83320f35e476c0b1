package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stmary/warehouse/internal/core/domain"
)

func testShipment(destination string, daysAgo int, status domain.ShipmentStatus) domain.Shipment {
	return domain.Shipment{
		Destination: destination,
		Date:        domain.DateOnly(time.Now()).AddDate(0, 0, -daysAgo),
		Status:      status,
	}
}

func TestShipmentCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewShipmentRepo(newTestStore(t))

	created, err := repo.Create(ctx, testShipment("Berlin", 0, domain.ShipmentStatusPreparing))
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Berlin", found.Destination)
	assert.Equal(t, domain.ShipmentStatusPreparing, found.Status)
}

func TestShipmentUpdateStatusConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewShipmentRepo(newTestStore(t))

	created, err := repo.Create(ctx, testShipment("Berlin", 0, domain.ShipmentStatusPreparing))
	require.NoError(t, err)

	ok, err := repo.UpdateStatus(ctx, created.ID, domain.ShipmentStatusPreparing, domain.ShipmentStatusInTransit)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateStatus(ctx, created.ID, domain.ShipmentStatusPreparing, domain.ShipmentStatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok, "stale expected status must not apply")
}

func TestShipmentFindByDestination(t *testing.T) {
	ctx := context.Background()
	repo := NewShipmentRepo(newTestStore(t))

	for _, s := range []domain.Shipment{
		testShipment("Berlin", 0, domain.ShipmentStatusPreparing),
		testShipment("Bern", 1, domain.ShipmentStatusInTransit),
		testShipment("Oslo", 2, domain.ShipmentStatusPreparing),
	} {
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
	}

	shipments, err := repo.FindByDestination(ctx, "ber")
	require.NoError(t, err)
	assert.Len(t, shipments, 2)
}

func TestShipmentFindDelayed(t *testing.T) {
	ctx := context.Background()
	repo := NewShipmentRepo(newTestStore(t))

	for _, s := range []domain.Shipment{
		testShipment("Old open", 10, domain.ShipmentStatusInTransit),
		testShipment("Older open", 20, domain.ShipmentStatusPreparing),
		testShipment("Old delivered", 10, domain.ShipmentStatusDelivered),
		testShipment("Old returned", 10, domain.ShipmentStatusReturned),
		testShipment("Fresh", 0, domain.ShipmentStatusInTransit),
	} {
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
	}

	delayed, err := repo.FindDelayed(ctx, 7)
	require.NoError(t, err)
	require.Len(t, delayed, 2, "only open shipments older than the cutoff")
	assert.Equal(t, "Older open", delayed[0].Destination, "oldest first")
	assert.Equal(t, "Old open", delayed[1].Destination)
}

func TestShipmentFindByDateRange(t *testing.T) {
	ctx := context.Background()
	repo := NewShipmentRepo(newTestStore(t))

	today := domain.DateOnly(time.Now())
	for daysAgo := 0; daysAgo <= 3; daysAgo++ {
		_, err := repo.Create(ctx, testShipment("Berlin", daysAgo, domain.ShipmentStatusPreparing))
		require.NoError(t, err)
	}

	shipments, err := repo.FindByDateRange(ctx, today.AddDate(0, 0, -2), today)
	require.NoError(t, err)
	assert.Len(t, shipments, 3)
}

func TestShipmentCountByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewShipmentRepo(newTestStore(t))

	for _, status := range []domain.ShipmentStatus{
		domain.ShipmentStatusPreparing,
		domain.ShipmentStatusInTransit,
		domain.ShipmentStatusInTransit,
	} {
		_, err := repo.Create(ctx, testShipment("Berlin", 0, status))
		require.NoError(t, err)
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)

	byStatus := make(map[string]int)
	for _, sc := range counts {
		byStatus[sc.Status] = sc.Count
	}
	assert.Equal(t, 1, byStatus["Preparing"])
	assert.Equal(t, 2, byStatus["In Transit"])
}

func TestShipmentDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewShipmentRepo(newTestStore(t))

	created, err := repo.Create(ctx, testShipment("Berlin", 0, domain.ShipmentStatusPreparing))
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}
