package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/civicstack/grievance/internal/models"
)

// CorpusStore retains prior grievance texts for duplicate comparison. The
// engine never writes to it; the caller adds an entry only after a
// grievance is accepted, and the whole store is rebuildable by replaying
// prior texts.
type CorpusStore interface {
	Add(ctx context.Context, entry models.CorpusEntry) error
	// Snapshot returns an immutable copy of the corpus, optionally
	// filtered to one category. Callers bound analysis cost by scoping
	// the snapshot they pass to the engine.
	Snapshot(ctx context.Context, category models.Category) ([]models.CorpusEntry, error)
	Health(ctx context.Context) error
}

// DepartmentStore owns mutable department load state. The engine only ever
// sees snapshots; load deltas are applied here, atomically with respect to
// concurrent submissions racing for the same department.
type DepartmentStore interface {
	Upsert(ctx context.Context, dept models.DepartmentSnapshot) error
	List(ctx context.Context) ([]models.DepartmentSnapshot, error)
	// ApplyDelta adjusts a department's load by delta, refusing to push
	// it past capacity or below zero.
	ApplyDelta(ctx context.Context, id string, delta int) error
	Health(ctx context.Context) error
}

// departmentsFile is the YAML shape of a department seed file.
type departmentsFile struct {
	Departments []models.DepartmentSnapshot `yaml:"departments"`
}

// LoadDepartmentsFile reads department seeds from a YAML file.
func LoadDepartmentsFile(path string) ([]models.DepartmentSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read departments file: %w", err)
	}
	var f departmentsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse departments file %s: %w", path, err)
	}
	for _, d := range f.Departments {
		if d.ID == "" {
			return nil, fmt.Errorf("departments file %s: department with empty id", path)
		}
		if d.Capacity < 0 || d.CurrentLoad < 0 || d.CurrentLoad > d.Capacity {
			return nil, fmt.Errorf("departments file %s: department %s has invalid load %d/%d",
				path, d.ID, d.CurrentLoad, d.Capacity)
		}
	}
	return f.Departments, nil
}
