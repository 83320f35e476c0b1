package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestInventoryValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Inventory
		wantErr bool
	}{
		{"valid", Inventory{Name: "Widget", Quantity: 5, Location: "A1"}, false},
		{"zero quantity", Inventory{Name: "Widget", Quantity: 0, Location: "A1"}, false},
		{"blank name", Inventory{Name: "   ", Quantity: 5, Location: "A1"}, true},
		{"blank location", Inventory{Name: "Widget", Quantity: 5, Location: ""}, true},
		{"negative quantity", Inventory{Name: "Widget", Quantity: -1, Location: "A1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr && !IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestInventoryIsLowStock(t *testing.T) {
	item := Inventory{Name: "Widget", Quantity: 10, Location: "A1"}
	if !item.IsLowStock(10) {
		t.Error("quantity equal to threshold counts as low stock")
	}
	if item.IsLowStock(9) {
		t.Error("quantity above threshold is not low stock")
	}
}

func TestErrorMatching(t *testing.T) {
	dup := &DuplicateError{Name: "Widget"}
	if !IsDuplicate(dup) {
		t.Error("IsDuplicate should match DuplicateError")
	}
	if IsDuplicate(errors.New("other")) {
		t.Error("IsDuplicate should not match arbitrary errors")
	}

	wrapped := &ServiceError{Op: "create inventory", Reason: "storage failure", Cause: dup}
	if !IsDuplicate(wrapped) {
		t.Error("IsDuplicate should match through a ServiceError wrap")
	}

	tr := &TransitionError{From: "Delivered", To: "Pending"}
	if !IsTransition(tr) {
		t.Error("IsTransition should match TransitionError")
	}
}

func TestRootCause(t *testing.T) {
	inner := errors.New("disk I/O error")
	outer := &ServiceError{Op: "create order", Reason: "storage failure",
		Cause: fmt.Errorf("insert order: %w", inner)}

	if got := RootCause(outer); got != "disk I/O error" {
		t.Errorf("RootCause = %q, want %q", got, "disk I/O error")
	}
	if got := RootCause(nil); got != "" {
		t.Errorf("RootCause(nil) = %q, want empty", got)
	}
}
