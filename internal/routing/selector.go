package routing

import (
	"fmt"

	"github.com/civicstack/grievance/internal/models"
)

// Selector picks the least-loaded qualified department for a category. It
// only reads the supplied snapshots; the load increment is returned as an
// instruction for the caller to apply under its own locking discipline.
type Selector struct{}

// New creates a routing selector.
func New() *Selector {
	return &Selector{}
}

// Select filters departments that handle the category and still have
// capacity, then picks the lowest load-to-capacity ratio. Ties resolve by
// lowest absolute load, then lowest department ID, so selection is fully
// deterministic. Zero surviving departments is a structured outcome, not an
// error: the caller decides the fallback policy.
func (s *Selector) Select(category models.Category, departments []models.DepartmentSnapshot) models.RoutingDecision {
	var (
		chosen models.DepartmentSnapshot
		found  bool
	)

	for _, dept := range departments {
		if !dept.Handles(category) || !dept.HasCapacity() {
			continue
		}
		if !found || better(dept, chosen) {
			chosen = dept
			found = true
		}
	}

	if !found {
		return models.RoutingDecision{
			Routed: false,
			Reason: fmt.Sprintf("no suitable department for category %q", category),
		}
	}

	return models.RoutingDecision{
		Routed:       true,
		DepartmentID: chosen.ID,
		LoadDelta:    1,
	}
}

// better reports whether a should be chosen over b. Ratios are compared by
// cross-multiplication to keep the ordering exact in integer arithmetic.
func better(a, b models.DepartmentSnapshot) bool {
	left := a.CurrentLoad * b.Capacity
	right := b.CurrentLoad * a.Capacity
	if left != right {
		return left < right
	}
	if a.CurrentLoad != b.CurrentLoad {
		return a.CurrentLoad < b.CurrentLoad
	}
	return a.ID < b.ID
}
