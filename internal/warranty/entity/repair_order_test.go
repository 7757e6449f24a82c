package entity

import (
	"testing"
	"time"
)

func TestRepairOrderTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{RepairOrderStatusScheduled, RepairOrderStatusCompleted, true},
		{RepairOrderStatusScheduled, RepairOrderStatusCancelled, true},
		{RepairOrderStatusCompleted, RepairOrderStatusCancelled, false},
		{RepairOrderStatusCompleted, RepairOrderStatusScheduled, false},
		{RepairOrderStatusCancelled, RepairOrderStatusScheduled, false},
		{RepairOrderStatusCancelled, RepairOrderStatusCompleted, false},
	}
	for _, tc := range cases {
		o := &RepairOrder{Status: tc.from}
		if got := o.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestRepairOrderOpen(t *testing.T) {
	if !(&RepairOrder{Status: RepairOrderStatusScheduled}).Open() {
		t.Error("Expected scheduled order to be open")
	}
	if (&RepairOrder{Status: RepairOrderStatusCompleted}).Open() {
		t.Error("Expected completed order to be closed")
	}
	if (&RepairOrder{Status: RepairOrderStatusCancelled}).Open() {
		t.Error("Expected cancelled order to be closed")
	}
}

func TestWarrantyInCoverageWindow(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &Warranty{CoverageStartDate: start, CoverageEndDate: end}

	// endpoints are inclusive
	if !w.InCoverageWindow(start) {
		t.Error("Expected coverage start date to be in window")
	}
	if !w.InCoverageWindow(end) {
		t.Error("Expected coverage end date to be in window")
	}
	if !w.InCoverageWindow(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Error("Expected mid-window date to be covered")
	}
	if w.InCoverageWindow(start.AddDate(0, 0, -1)) {
		t.Error("Expected date before coverage start to be outside window")
	}
	if w.InCoverageWindow(end.AddDate(0, 0, 1)) {
		t.Error("Expected date after coverage end to be outside window")
	}
}

func TestDefaultCoverageDetails(t *testing.T) {
	d := DefaultCoverageDetails()
	if !d["mechanicalFailure"] || !d["electricalFailure"] {
		t.Error("Expected mechanical and electrical failure to be covered by default")
	}
	if d["accidentalDamage"] || d["foodSpoilage"] {
		t.Error("Expected accidental damage and food spoilage to be excluded by default")
	}
}
