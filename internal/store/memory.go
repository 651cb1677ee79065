package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/civicstack/grievance/internal/errors"
	"github.com/civicstack/grievance/internal/metrics"
	"github.com/civicstack/grievance/internal/models"
)

// InMemoryCorpus implements CorpusStore with an append-only in-memory list.
type InMemoryCorpus struct {
	mu      sync.RWMutex
	entries []models.CorpusEntry
	byID    map[string]int
}

// NewInMemoryCorpus creates an empty corpus store.
func NewInMemoryCorpus() *InMemoryCorpus {
	return &InMemoryCorpus{byID: make(map[string]int)}
}

// Add retains a grievance text for future duplicate comparison. Re-adding
// an existing ID replaces the entry in place, keeping replays idempotent.
func (s *InMemoryCorpus) Add(ctx context.Context, entry models.CorpusEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("corpus entry: %w: empty id", apperrors.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byID[entry.ID]; ok {
		s.entries[i] = entry
		return nil
	}
	s.byID[entry.ID] = len(s.entries)
	s.entries = append(s.entries, entry)
	return nil
}

// Snapshot copies the corpus in insertion order. An empty category returns
// everything.
func (s *InMemoryCorpus) Snapshot(ctx context.Context, category models.Category) ([]models.CorpusEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CorpusEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Health always returns nil for the in-memory corpus.
func (s *InMemoryCorpus) Health(ctx context.Context) error {
	return nil
}

// InMemoryDepartments implements DepartmentStore guarded by a mutex, which
// stands in for the row-level locking a relational caller would use.
type InMemoryDepartments struct {
	mu    sync.RWMutex
	depts map[string]models.DepartmentSnapshot
}

// NewInMemoryDepartments creates a department store seeded with the given
// departments.
func NewInMemoryDepartments(seed []models.DepartmentSnapshot) *InMemoryDepartments {
	s := &InMemoryDepartments{depts: make(map[string]models.DepartmentSnapshot, len(seed))}
	for _, d := range seed {
		s.depts[d.ID] = d
	}
	return s
}

// Upsert inserts or replaces a department.
func (s *InMemoryDepartments) Upsert(ctx context.Context, dept models.DepartmentSnapshot) error {
	if dept.ID == "" {
		return fmt.Errorf("department: %w: empty id", apperrors.ErrInvalidInput)
	}
	if dept.Capacity < 0 || dept.CurrentLoad < 0 || dept.CurrentLoad > dept.Capacity {
		return fmt.Errorf("department %s: %w: load %d/%d",
			dept.ID, apperrors.ErrInvalidInput, dept.CurrentLoad, dept.Capacity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.depts[dept.ID] = dept
	return nil
}

// List returns snapshots sorted by ID for deterministic iteration.
func (s *InMemoryDepartments) List(ctx context.Context) ([]models.DepartmentSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DepartmentSnapshot, 0, len(s.depts))
	for _, d := range s.depts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ApplyDelta performs the compare-and-increment the routing contract
// requires: two concurrent submissions cannot both push a near-full
// department past capacity.
func (s *InMemoryDepartments) ApplyDelta(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.depts[id]
	if !ok {
		return fmt.Errorf("department %s: %w", id, apperrors.ErrNotFound)
	}

	next := d.CurrentLoad + delta
	if next > d.Capacity {
		return fmt.Errorf("department %s at %d/%d: %w",
			id, d.CurrentLoad, d.Capacity, apperrors.ErrCapacityExceeded)
	}
	if next < 0 {
		return fmt.Errorf("department %s load cannot go below zero: %w",
			id, apperrors.ErrInvalidInput)
	}

	d.CurrentLoad = next
	s.depts[id] = d
	metrics.RecordLoadDelta(id, delta)
	return nil
}

// Health always returns nil for the in-memory department store.
func (s *InMemoryDepartments) Health(ctx context.Context) error {
	return nil
}
