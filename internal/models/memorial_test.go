package models

import "testing"

func TestEffectiveCapacity(t *testing.T) {
	capacity := 118
	if got := (Memorial{Capacity: &capacity}).EffectiveCapacity(60); got != 118 {
		t.Errorf("expected 118, got %d", got)
	}
	if got := (Memorial{}).EffectiveCapacity(60); got != 60 {
		t.Errorf("expected default 60, got %d", got)
	}

	zero := 0
	if got := (Memorial{Capacity: &zero}).EffectiveCapacity(60); got != 0 {
		t.Errorf("expected explicit zero capacity, got %d", got)
	}
}

func TestGuests(t *testing.T) {
	if (Attendance{}).Guests() != 1 {
		t.Error("expected a single guest without plus one")
	}
	if (Attendance{PlusOne: true}).Guests() != 2 {
		t.Error("expected two guests with plus one")
	}
}
