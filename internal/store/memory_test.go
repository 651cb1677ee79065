package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	apperrors "github.com/civicstack/grievance/internal/errors"
	"github.com/civicstack/grievance/internal/models"
)

func TestInMemoryCorpus_AddAndSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryCorpus()

	entries := []models.CorpusEntry{
		{ID: "g1", Text: "no water supply", Category: "water_supply"},
		{ID: "g2", Text: "pothole on main road", Category: "road_maintenance"},
		{ID: "g3", Text: "low water pressure", Category: "water_supply"},
	}
	for _, e := range entries {
		if err := s.Add(ctx, e); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	all, err := s.Snapshot(ctx, "")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(all))
	}
	// Insertion order preserved, snapshots are replay-deterministic.
	for i, e := range entries {
		if all[i].ID != e.ID {
			t.Errorf("Expected entry %d to be %s, got %s", i, e.ID, all[i].ID)
		}
	}

	water, err := s.Snapshot(ctx, "water_supply")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(water) != 2 || water[0].ID != "g1" || water[1].ID != "g3" {
		t.Errorf("Expected water_supply entries g1,g3, got %+v", water)
	}
}

func TestInMemoryCorpus_ReplaceByID(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryCorpus()

	if err := s.Add(ctx, models.CorpusEntry{ID: "g1", Text: "old"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Add(ctx, models.CorpusEntry{ID: "g1", Text: "new"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	all, _ := s.Snapshot(ctx, "")
	if len(all) != 1 || all[0].Text != "new" {
		t.Errorf("Expected single replaced entry, got %+v", all)
	}
}

func TestInMemoryCorpus_EmptyID(t *testing.T) {
	s := NewInMemoryCorpus()
	err := s.Add(context.Background(), models.CorpusEntry{Text: "text"})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestInMemoryCorpus_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryCorpus()
	if err := s.Add(ctx, models.CorpusEntry{ID: "g1", Text: "original"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	snap, _ := s.Snapshot(ctx, "")
	snap[0].Text = "mutated"

	again, _ := s.Snapshot(ctx, "")
	if again[0].Text != "original" {
		t.Errorf("Snapshot mutation leaked into the store")
	}
}

func TestInMemoryDepartments_ApplyDelta(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryDepartments([]models.DepartmentSnapshot{
		{ID: "D1", Categories: []models.Category{"water_supply"}, Capacity: 2, CurrentLoad: 0},
	})

	if err := s.ApplyDelta(ctx, "D1", 1); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}
	if err := s.ApplyDelta(ctx, "D1", 1); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}

	// Department is now full.
	err := s.ApplyDelta(ctx, "D1", 1)
	if !errors.Is(err, apperrors.ErrCapacityExceeded) {
		t.Errorf("Expected ErrCapacityExceeded, got %v", err)
	}

	// Releasing load works.
	if err := s.ApplyDelta(ctx, "D1", -1); err != nil {
		t.Fatalf("ApplyDelta release failed: %v", err)
	}

	// But load cannot go negative.
	if err := s.ApplyDelta(ctx, "D1", -5); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	if err := s.ApplyDelta(ctx, "missing", 1); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryDepartments_ConcurrentDeltas(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryDepartments([]models.DepartmentSnapshot{
		{ID: "D1", Capacity: 50, CurrentLoad: 0},
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.ApplyDelta(ctx, "D1", 1) // half must fail with capacity errors
		}()
	}
	wg.Wait()

	depts, _ := s.List(ctx)
	if depts[0].CurrentLoad != 50 {
		t.Errorf("Expected load capped at capacity 50, got %d", depts[0].CurrentLoad)
	}
}

func TestInMemoryDepartments_Upsert(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryDepartments(nil)

	tests := []struct {
		name    string
		dept    models.DepartmentSnapshot
		wantErr bool
	}{
		{
			name: "Valid department",
			dept: models.DepartmentSnapshot{ID: "D1", Capacity: 10},
		},
		{
			name:    "Empty ID",
			dept:    models.DepartmentSnapshot{Capacity: 10},
			wantErr: true,
		},
		{
			name:    "Load above capacity",
			dept:    models.DepartmentSnapshot{ID: "D2", Capacity: 5, CurrentLoad: 6},
			wantErr: true,
		},
		{
			name:    "Negative capacity",
			dept:    models.DepartmentSnapshot{ID: "D3", Capacity: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Upsert(ctx, tt.dept)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestInMemoryDepartments_ListSorted(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryDepartments([]models.DepartmentSnapshot{
		{ID: "D3", Capacity: 1},
		{ID: "D1", Capacity: 1},
		{ID: "D2", Capacity: 1},
	})

	depts, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for i, want := range []string{"D1", "D2", "D3"} {
		if depts[i].ID != want {
			t.Errorf("Expected %s at position %d, got %s", want, i, depts[i].ID)
		}
	}
}
