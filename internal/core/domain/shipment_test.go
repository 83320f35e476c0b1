package domain

import (
	"testing"
	"time"
)

func TestShipmentTransitionTable(t *testing.T) {
	allowed := map[ShipmentStatus][]ShipmentStatus{
		ShipmentStatusPreparing:      {ShipmentStatusInTransit, ShipmentStatusCancelled},
		ShipmentStatusInTransit:      {ShipmentStatusOutForDelivery, ShipmentStatusReturned, ShipmentStatusCancelled},
		ShipmentStatusOutForDelivery: {ShipmentStatusDelivered, ShipmentStatusReturned},
		ShipmentStatusDelivered:      {},
		ShipmentStatusReturned:       {},
		ShipmentStatusCancelled:      {},
	}

	for from, targets := range allowed {
		want := make(map[ShipmentStatus]bool, len(targets))
		for _, to := range targets {
			want[to] = true
		}
		for _, to := range ShipmentStatuses {
			if got := from.CanTransition(to); got != want[to] {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want[to])
			}
		}
	}
}

func TestShipmentTerminalStates(t *testing.T) {
	terminal := map[ShipmentStatus]bool{
		ShipmentStatusDelivered: true,
		ShipmentStatusReturned:  true,
		ShipmentStatusCancelled: true,
	}
	for _, s := range ShipmentStatuses {
		if got := s.Terminal(); got != terminal[s] {
			t.Errorf("Terminal(%s) = %v, want %v", s, got, terminal[s])
		}
	}
}

func TestParseShipmentStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    ShipmentStatus
		wantErr bool
	}{
		{"Preparing", ShipmentStatusPreparing, false},
		{"in transit", ShipmentStatusInTransit, false},
		{"OUT FOR DELIVERY", ShipmentStatusOutForDelivery, false},
		{"Returned", ShipmentStatusReturned, false},
		{"Missing", "", true},
	}
	for _, tt := range tests {
		got, err := ParseShipmentStatus(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseShipmentStatus(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseShipmentStatus(%q): %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseShipmentStatus(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestShipmentValidate(t *testing.T) {
	today := DateOnly(time.Now())

	tests := []struct {
		name     string
		shipment Shipment
		wantErr  bool
	}{
		{"valid today", Shipment{Destination: "Berlin", Date: today, Status: ShipmentStatusPreparing}, false},
		{"valid max lead", Shipment{Destination: "Berlin", Date: today.AddDate(0, 0, MaxShipmentLeadDays), Status: ShipmentStatusPreparing}, false},
		{"too far ahead", Shipment{Destination: "Berlin", Date: today.AddDate(0, 0, MaxShipmentLeadDays+1), Status: ShipmentStatusPreparing}, true},
		{"blank destination", Shipment{Destination: " ", Date: today, Status: ShipmentStatusPreparing}, true},
		{"unknown status", Shipment{Destination: "Berlin", Date: today, Status: "Teleporting"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shipment.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestShipmentIsDelayed(t *testing.T) {
	old := DateOnly(time.Now()).AddDate(0, 0, -10)

	open := Shipment{Destination: "Oslo", Date: old, Status: ShipmentStatusInTransit}
	if !open.IsDelayed(7) {
		t.Error("10-day-old in-transit shipment should be delayed past 7 days")
	}
	if open.IsDelayed(14) {
		t.Error("10-day-old shipment is not delayed past 14 days")
	}

	done := Shipment{Destination: "Oslo", Date: old, Status: ShipmentStatusDelivered}
	if done.IsDelayed(7) {
		t.Error("completed shipments are never delayed")
	}
}

func TestShipmentPredicates(t *testing.T) {
	s := Shipment{Status: ShipmentStatusPreparing}
	if !s.CanBeCancelled() {
		t.Error("preparing shipment should be cancellable")
	}
	if s.CanBeTracked() {
		t.Error("preparing shipment is not trackable")
	}

	s.Status = ShipmentStatusOutForDelivery
	if s.CanBeCancelled() {
		t.Error("out-for-delivery shipment is not cancellable")
	}
	if !s.CanBeTracked() {
		t.Error("out-for-delivery shipment should be trackable")
	}
}
