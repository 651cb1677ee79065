package models

import "testing"

func TestUrgencyLevelWeight(t *testing.T) {
	tests := []struct {
		level UrgencyLevel
		want  float64
	}{
		{UrgencyLow, 0.25},
		{UrgencyMedium, 0.5},
		{UrgencyHigh, 0.75},
		{UrgencyCritical, 1.0},
		{UrgencyLevel("bogus"), 0.5},
	}

	for _, tt := range tests {
		if got := tt.level.Weight(); got != tt.want {
			t.Errorf("Weight(%s) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNormalizedDocumentCount(t *testing.T) {
	doc := NormalizedDocument{
		Tokens:   []string{"water", "supply", "broken", "water", "supply"},
		TermFreq: map[string]int{"water": 2, "supply": 2, "broken": 1},
	}

	tests := []struct {
		term string
		want int
	}{
		{"water", 2},
		{"broken", 1},
		{"missing", 0},
		{"water supply", 2},
		{"supply broken", 1},
		{"broken water supply", 1},
		{"water broken", 0},
	}

	for _, tt := range tests {
		if got := doc.Count(tt.term); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.term, got, tt.want)
		}
	}
}

func TestDepartmentSnapshotHelpers(t *testing.T) {
	d := DepartmentSnapshot{
		ID:          "D1",
		Categories:  []Category{"water_supply", "sanitation"},
		Capacity:    10,
		CurrentLoad: 5,
	}

	if !d.Handles("water_supply") {
		t.Errorf("Expected D1 to handle water_supply")
	}
	if d.Handles("health") {
		t.Errorf("D1 should not handle health")
	}
	if !d.HasCapacity() {
		t.Errorf("Expected capacity at 5/10")
	}
	if got := d.LoadRatio(); got != 0.5 {
		t.Errorf("LoadRatio = %v, want 0.5", got)
	}

	full := DepartmentSnapshot{ID: "D2", Capacity: 3, CurrentLoad: 3}
	if full.HasCapacity() {
		t.Errorf("Full department should not report capacity")
	}

	zero := DepartmentSnapshot{ID: "D3"}
	if zero.HasCapacity() {
		t.Errorf("Zero-capacity department should not report capacity")
	}
	if got := zero.LoadRatio(); got != 1.0 {
		t.Errorf("Zero-capacity LoadRatio = %v, want 1.0", got)
	}
}
