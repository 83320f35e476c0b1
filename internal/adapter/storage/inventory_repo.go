package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stmary/warehouse/internal/core/domain"
)

const inventoryColumns = "item_id, item_name, item_quantity, item_location, created_at, updated_at"

type InventoryRepo struct {
	store *Store
}

func NewInventoryRepo(store *Store) *InventoryRepo {
	return &InventoryRepo{store: store}
}

func (r *InventoryRepo) Create(ctx context.Context, item domain.Inventory) (domain.Inventory, error) {
	res, err := r.store.DB().ExecContext(ctx, `
		INSERT INTO inventory (item_name, item_quantity, item_location)
		VALUES (?, ?, ?)`,
		item.Name, item.Quantity, item.Location,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Inventory{}, &domain.DuplicateError{Name: item.Name}
		}
		return domain.Inventory{}, fmt.Errorf("insert inventory: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("inventory insert id: %w", err)
	}
	item.ID = id
	return item, nil
}

func (r *InventoryRepo) Update(ctx context.Context, item domain.Inventory) (bool, error) {
	res, err := r.store.DB().ExecContext(ctx, `
		UPDATE inventory
		SET item_name = ?, item_quantity = ?, item_location = ?, updated_at = CURRENT_TIMESTAMP
		WHERE item_id = ?`,
		item.Name, item.Quantity, item.Location, item.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, &domain.DuplicateError{Name: item.Name}
		}
		return false, fmt.Errorf("update inventory: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (r *InventoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.store.DB().ExecContext(ctx, `DELETE FROM inventory WHERE item_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete inventory: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (r *InventoryRepo) FindByID(ctx context.Context, id int64) (*domain.Inventory, error) {
	row := r.store.DB().QueryRowContext(ctx, `
		SELECT `+inventoryColumns+` FROM inventory WHERE item_id = ?`, id)

	item, err := scanInventory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	return &item, nil
}

func (r *InventoryRepo) FindAll(ctx context.Context) ([]domain.Inventory, error) {
	return r.queryItems(ctx, `
		SELECT `+inventoryColumns+` FROM inventory ORDER BY item_name`)
}

func (r *InventoryRepo) FindByName(ctx context.Context, name string) ([]domain.Inventory, error) {
	return r.queryItems(ctx, `
		SELECT `+inventoryColumns+` FROM inventory
		WHERE item_name LIKE ? ORDER BY item_name`,
		"%"+name+"%")
}

func (r *InventoryRepo) FindByLocation(ctx context.Context, location string) ([]domain.Inventory, error) {
	return r.queryItems(ctx, `
		SELECT `+inventoryColumns+` FROM inventory
		WHERE item_location LIKE ? ORDER BY item_name`,
		"%"+location+"%")
}

func (r *InventoryRepo) FindLowStock(ctx context.Context, threshold int) ([]domain.Inventory, error) {
	return r.queryItems(ctx, `
		SELECT `+inventoryColumns+` FROM inventory
		WHERE item_quantity <= ? ORDER BY item_quantity`,
		threshold)
}

func (r *InventoryRepo) UpdateQuantity(ctx context.Context, id int64, quantity int) (bool, error) {
	res, err := r.store.DB().ExecContext(ctx, `
		UPDATE inventory
		SET item_quantity = ?, updated_at = CURRENT_TIMESTAMP
		WHERE item_id = ?`,
		quantity, id,
	)
	if err != nil {
		return false, fmt.Errorf("update quantity: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (r *InventoryRepo) AdjustQuantity(ctx context.Context, id int64, delta int) (bool, error) {
	// Single conditional update so the stock check and the write cannot
	// interleave with a concurrent adjustment.
	res, err := r.store.DB().ExecContext(ctx, `
		UPDATE inventory
		SET item_quantity = item_quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE item_id = ? AND item_quantity + ? >= 0`,
		delta, id, delta,
	)
	if err != nil {
		return false, fmt.Errorf("adjust quantity: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (r *InventoryRepo) BatchUpdate(ctx context.Context, items []domain.Inventory) error {
	return r.store.WithTx(ctx, func(tx *sql.Tx) error {
		for _, item := range items {
			res, err := tx.ExecContext(ctx, `
				UPDATE inventory
				SET item_name = ?, item_quantity = ?, item_location = ?, updated_at = CURRENT_TIMESTAMP
				WHERE item_id = ?`,
				item.Name, item.Quantity, item.Location, item.ID,
			)
			if err != nil {
				if isUniqueViolation(err) {
					return &domain.DuplicateError{Name: item.Name}
				}
				return fmt.Errorf("update inventory %d: %w", item.ID, err)
			}
			rows, _ := res.RowsAffected()
			if rows == 0 {
				return fmt.Errorf("inventory %d not found", item.ID)
			}
		}
		return nil
	})
}

func (r *InventoryRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count inventory: %w", err)
	}
	return count, nil
}

func (r *InventoryRepo) TotalQuantity(ctx context.Context) (int, error) {
	var total int
	err := r.store.DB().QueryRowContext(ctx, `
		SELECT COALESCE(SUM(item_quantity), 0) FROM inventory`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum inventory quantity: %w", err)
	}
	return total, nil
}

func (r *InventoryRepo) queryItems(ctx context.Context, query string, args ...any) ([]domain.Inventory, error) {
	rows, err := r.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	var items []domain.Inventory
	for rows.Next() {
		item, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInventory(row rowScanner) (domain.Inventory, error) {
	var (
		item               domain.Inventory
		createdAt, updated string
	)
	if err := row.Scan(&item.ID, &item.Name, &item.Quantity, &item.Location, &createdAt, &updated); err != nil {
		return domain.Inventory{}, err
	}
	item.CreatedAt = parseTimestamp(createdAt)
	item.UpdatedAt = parseTimestamp(updated)
	return item, nil
}
