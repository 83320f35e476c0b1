package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stmary/warehouse/internal/core/domain"
	"github.com/stmary/warehouse/internal/port"
)

const shipmentColumns = "shipment_id, destination, shipment_date, shipment_status, created_at, updated_at"

type ShipmentRepo struct {
	store *Store
}

func NewShipmentRepo(store *Store) *ShipmentRepo {
	return &ShipmentRepo{store: store}
}

func (r *ShipmentRepo) Create(ctx context.Context, shipment domain.Shipment) (domain.Shipment, error) {
	res, err := r.store.DB().ExecContext(ctx, `
		INSERT INTO shipments (destination, shipment_date, shipment_status)
		VALUES (?, ?, ?)`,
		shipment.Destination, formatDate(shipment.Date), string(shipment.Status),
	)
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("insert shipment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("shipment insert id: %w", err)
	}
	shipment.ID = id
	return shipment, nil
}

func (r *ShipmentRepo) Update(ctx context.Context, shipment domain.Shipment) (bool, error) {
	res, err := r.store.DB().ExecContext(ctx, `
		UPDATE shipments
		SET destination = ?, shipment_date = ?, shipment_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE shipment_id = ?`,
		shipment.Destination, formatDate(shipment.Date), string(shipment.Status), shipment.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update shipment: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (r *ShipmentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.store.DB().ExecContext(ctx, `DELETE FROM shipments WHERE shipment_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete shipment: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (r *ShipmentRepo) FindByID(ctx context.Context, id int64) (*domain.Shipment, error) {
	row := r.store.DB().QueryRowContext(ctx, `
		SELECT `+shipmentColumns+` FROM shipments WHERE shipment_id = ?`, id)

	shipment, err := scanShipment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query shipment: %w", err)
	}
	return &shipment, nil
}

func (r *ShipmentRepo) FindAll(ctx context.Context) ([]domain.Shipment, error) {
	return r.queryShipments(ctx, `
		SELECT `+shipmentColumns+` FROM shipments ORDER BY shipment_date DESC`)
}

func (r *ShipmentRepo) FindByDestination(ctx context.Context, destination string) ([]domain.Shipment, error) {
	return r.queryShipments(ctx, `
		SELECT `+shipmentColumns+` FROM shipments
		WHERE destination LIKE ? ORDER BY shipment_date DESC`,
		"%"+destination+"%")
}

func (r *ShipmentRepo) FindByStatus(ctx context.Context, status domain.ShipmentStatus) ([]domain.Shipment, error) {
	return r.queryShipments(ctx, `
		SELECT `+shipmentColumns+` FROM shipments
		WHERE shipment_status = ? ORDER BY shipment_date DESC`,
		string(status))
}

func (r *ShipmentRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.Shipment, error) {
	return r.queryShipments(ctx, `
		SELECT `+shipmentColumns+` FROM shipments
		WHERE shipment_date BETWEEN ? AND ? ORDER BY shipment_date DESC`,
		formatDate(start), formatDate(end))
}

func (r *ShipmentRepo) FindRecent(ctx context.Context, days, limit int) ([]domain.Shipment, error) {
	cutoff := domain.DateOnly(time.Now()).AddDate(0, 0, -days)
	return r.queryShipments(ctx, `
		SELECT `+shipmentColumns+` FROM shipments
		WHERE shipment_date >= ? ORDER BY shipment_date DESC LIMIT ?`,
		formatDate(cutoff), limit)
}

func (r *ShipmentRepo) FindDelayed(ctx context.Context, days int) ([]domain.Shipment, error) {
	cutoff := domain.DateOnly(time.Now()).AddDate(0, 0, -days)
	return r.queryShipments(ctx, `
		SELECT `+shipmentColumns+` FROM shipments
		WHERE shipment_date < ?
		  AND shipment_status NOT IN ('Delivered', 'Cancelled', 'Returned')
		ORDER BY shipment_date`,
		formatDate(cutoff))
}

func (r *ShipmentRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.ShipmentStatus) (bool, error) {
	res, err := r.store.DB().ExecContext(ctx, `
		UPDATE shipments
		SET shipment_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE shipment_id = ? AND shipment_status = ?`,
		string(to), id, string(from),
	)
	if err != nil {
		return false, fmt.Errorf("update shipment status: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (r *ShipmentRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM shipments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count shipments: %w", err)
	}
	return count, nil
}

func (r *ShipmentRepo) CountByStatus(ctx context.Context) ([]port.StatusCount, error) {
	return countByStatus(ctx, r.store.DB(), `
		SELECT shipment_status, COUNT(*) FROM shipments GROUP BY shipment_status`)
}

func (r *ShipmentRepo) queryShipments(ctx context.Context, query string, args ...any) ([]domain.Shipment, error) {
	rows, err := r.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query shipments: %w", err)
	}
	defer rows.Close()

	var shipments []domain.Shipment
	for rows.Next() {
		shipment, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		shipments = append(shipments, shipment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shipments: %w", err)
	}
	return shipments, nil
}

func scanShipment(row rowScanner) (domain.Shipment, error) {
	var (
		shipment           domain.Shipment
		date, status       string
		createdAt, updated string
	)
	if err := row.Scan(&shipment.ID, &shipment.Destination, &date, &status, &createdAt, &updated); err != nil {
		return domain.Shipment{}, err
	}
	parsed, err := parseDate(date)
	if err != nil {
		return domain.Shipment{}, err
	}
	shipment.Date = parsed
	shipment.Status = domain.ShipmentStatus(status)
	shipment.CreatedAt = parseTimestamp(createdAt)
	shipment.UpdatedAt = parseTimestamp(updated)
	return shipment, nil
}
