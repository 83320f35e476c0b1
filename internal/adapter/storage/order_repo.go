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

const orderColumns = "order_id, order_date, customer_name, order_status, created_at, updated_at"

type OrderRepo struct {
	store *Store
}

func NewOrderRepo(store *Store) *OrderRepo {
	return &OrderRepo{store: store}
}

func (r *OrderRepo) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	res, err := r.store.DB().ExecContext(ctx, `
		INSERT INTO orders (order_date, customer_name, order_status)
		VALUES (?, ?, ?)`,
		formatDate(order.Date), order.Customer, string(order.Status),
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Order{}, fmt.Errorf("order insert id: %w", err)
	}
	order.ID = id
	return order, nil
}

func (r *OrderRepo) Update(ctx context.Context, order domain.Order) (bool, error) {
	res, err := r.store.DB().ExecContext(ctx, `
		UPDATE orders
		SET order_date = ?, customer_name = ?, order_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE order_id = ?`,
		formatDate(order.Date), order.Customer, string(order.Status), order.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update order: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (r *OrderRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.store.DB().ExecContext(ctx, `DELETE FROM orders WHERE order_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.store.DB().QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, id)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	return &order, nil
}

func (r *OrderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC`)
}

func (r *OrderRepo) FindByCustomer(ctx context.Context, customer string) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE customer_name LIKE ? ORDER BY order_date DESC`,
		"%"+customer+"%")
}

func (r *OrderRepo) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE order_status = ? ORDER BY order_date DESC`,
		string(status))
}

func (r *OrderRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE order_date BETWEEN ? AND ? ORDER BY order_date DESC`,
		formatDate(start), formatDate(end))
}

func (r *OrderRepo) FindRecent(ctx context.Context, days, limit int) ([]domain.Order, error) {
	cutoff := domain.DateOnly(time.Now()).AddDate(0, 0, -days)
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE order_date >= ? ORDER BY order_date DESC LIMIT ?`,
		formatDate(cutoff), limit)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error) {
	// The WHERE clause pins the expected current status so two racing
	// transitions cannot both apply.
	res, err := r.store.DB().ExecContext(ctx, `
		UPDATE orders
		SET order_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE order_id = ? AND order_status = ?`,
		string(to), id, string(from),
	)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (r *OrderRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

func (r *OrderRepo) CountByStatus(ctx context.Context) ([]port.StatusCount, error) {
	return countByStatus(ctx, r.store.DB(), `
		SELECT order_status, COUNT(*) FROM orders GROUP BY order_status`)
}

func (r *OrderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order              domain.Order
		date, status       string
		createdAt, updated string
	)
	if err := row.Scan(&order.ID, &date, &order.Customer, &status, &createdAt, &updated); err != nil {
		return domain.Order{}, err
	}
	parsed, err := parseDate(date)
	if err != nil {
		return domain.Order{}, err
	}
	order.Date = parsed
	order.Status = domain.OrderStatus(status)
	order.CreatedAt = parseTimestamp(createdAt)
	order.UpdatedAt = parseTimestamp(updated)
	return order, nil
}

func countByStatus(ctx context.Context, db *sql.DB, query string) ([]port.StatusCount, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	var counts []port.StatusCount
	for rows.Next() {
		var sc port.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts = append(counts, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}
