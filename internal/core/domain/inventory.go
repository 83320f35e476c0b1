package domain

import "time"

// LowStockThreshold is the quantity at or below which an item counts as low stock.
const LowStockThreshold = 10

type Inventory struct {
	ID        int64
	Name      string
	Quantity  int
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the invariants enforced before any write: non-empty
// bounded name and location, non-negative quantity.
func (i Inventory) Validate() error {
	if err := requireText("name", i.Name); err != nil {
		return err
	}
	if err := requireText("location", i.Location); err != nil {
		return err
	}
	if i.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	return nil
}

func (i Inventory) IsLowStock(threshold int) bool {
	return i.Quantity <= threshold
}
