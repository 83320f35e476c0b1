package domain

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusConfirmed  OrderStatus = "Confirmed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every status in workflow order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// orderTransitions is the allowed next-state table. Statuses absent from the
// map are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered},
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransition reports whether the from→to pair is in the transition table.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the allowed targets from s; empty for terminal states.
func (s OrderStatus) NextStatuses() []OrderStatus {
	return orderTransitions[s]
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0 && s.Valid()
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	for _, s := range OrderStatuses {
		if strings.EqualFold(raw, string(s)) {
			return s, nil
		}
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown order status %q", raw)}
}

type Order struct {
	ID        int64
	Date      time.Time
	Customer  string
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder returns a pending order dated today.
func NewOrder(customer string) Order {
	return Order{
		Date:     DateOnly(time.Now()),
		Customer: customer,
		Status:   OrderStatusPending,
	}
}

func (o Order) Validate() error {
	if err := requireText("customer name", o.Customer); err != nil {
		return err
	}
	if o.Date.IsZero() {
		return &ValidationError{Field: "order date", Reason: "cannot be empty"}
	}
	if o.Date.After(DateOnly(time.Now())) {
		return &ValidationError{Field: "order date", Reason: "cannot be in the future"}
	}
	if !o.Status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown order status %q", o.Status)}
	}
	return nil
}

func (o Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

func (o Order) IsCompleted() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// DateOnly truncates t to its calendar day in UTC. All order and shipment
// dates are stored at day granularity.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
