package domain

import (
	"fmt"
	"strings"
	"time"
)

type ShipmentStatus string

const (
	ShipmentStatusPreparing      ShipmentStatus = "Preparing"
	ShipmentStatusInTransit      ShipmentStatus = "In Transit"
	ShipmentStatusOutForDelivery ShipmentStatus = "Out for Delivery"
	ShipmentStatusDelivered      ShipmentStatus = "Delivered"
	ShipmentStatusReturned       ShipmentStatus = "Returned"
	ShipmentStatusCancelled      ShipmentStatus = "Cancelled"
)

var ShipmentStatuses = []ShipmentStatus{
	ShipmentStatusPreparing,
	ShipmentStatusInTransit,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
	ShipmentStatusReturned,
	ShipmentStatusCancelled,
}

var shipmentTransitions = map[ShipmentStatus][]ShipmentStatus{
	ShipmentStatusPreparing:      {ShipmentStatusInTransit, ShipmentStatusCancelled},
	ShipmentStatusInTransit:      {ShipmentStatusOutForDelivery, ShipmentStatusReturned, ShipmentStatusCancelled},
	ShipmentStatusOutForDelivery: {ShipmentStatusDelivered, ShipmentStatusReturned},
}

func (s ShipmentStatus) Valid() bool {
	for _, known := range ShipmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s ShipmentStatus) CanTransition(to ShipmentStatus) bool {
	for _, next := range shipmentTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s ShipmentStatus) NextStatuses() []ShipmentStatus {
	return shipmentTransitions[s]
}

func (s ShipmentStatus) Terminal() bool {
	return len(shipmentTransitions[s]) == 0 && s.Valid()
}

func ParseShipmentStatus(raw string) (ShipmentStatus, error) {
	for _, s := range ShipmentStatuses {
		if strings.EqualFold(raw, string(s)) {
			return s, nil
		}
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown shipment status %q", raw)}
}

// MaxShipmentLeadDays bounds how far in the future a shipment may be dated.
const MaxShipmentLeadDays = 7

type Shipment struct {
	ID          int64
	Destination string
	Date        time.Time
	Status      ShipmentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewShipment returns a preparing shipment dated today.
func NewShipment(destination string) Shipment {
	return Shipment{
		Destination: destination,
		Date:        DateOnly(time.Now()),
		Status:      ShipmentStatusPreparing,
	}
}

func (s Shipment) Validate() error {
	if err := requireText("destination", s.Destination); err != nil {
		return err
	}
	if s.Date.IsZero() {
		return &ValidationError{Field: "shipment date", Reason: "cannot be empty"}
	}
	latest := DateOnly(time.Now()).AddDate(0, 0, MaxShipmentLeadDays)
	if s.Date.After(latest) {
		return &ValidationError{
			Field:  "shipment date",
			Reason: fmt.Sprintf("cannot be more than %d days in the future", MaxShipmentLeadDays),
		}
	}
	if !s.Status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown shipment status %q", s.Status)}
	}
	return nil
}

func (s Shipment) CanBeCancelled() bool {
	return s.Status == ShipmentStatusPreparing || s.Status == ShipmentStatusInTransit
}

func (s Shipment) CanBeTracked() bool {
	return s.Status == ShipmentStatusInTransit || s.Status == ShipmentStatusOutForDelivery
}

func (s Shipment) IsCompleted() bool {
	return s.Status.Terminal()
}

// DaysInTransit counts whole days since the ship date.
func (s Shipment) DaysInTransit() int {
	return int(DateOnly(time.Now()).Sub(DateOnly(s.Date)).Hours() / 24)
}

// IsDelayed reports whether a still-open shipment has been in transit longer
// than expectedDays.
func (s Shipment) IsDelayed(expectedDays int) bool {
	return s.DaysInTransit() > expectedDays && !s.IsCompleted()
}
