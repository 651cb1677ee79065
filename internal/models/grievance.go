package models

import "strings"

// Category identifies a grievance category from the configured category table.
type Category string

// CategoryGeneral is the fallback category assigned when no keyword matches.
const CategoryGeneral Category = "general"

// UrgencyLevel is one of the four ordered severity levels.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// Weight maps an urgency level to its base priority contribution.
func (u UrgencyLevel) Weight() float64 {
	switch u {
	case UrgencyLow:
		return 0.25
	case UrgencyMedium:
		return 0.5
	case UrgencyHigh:
		return 0.75
	case UrgencyCritical:
		return 1.0
	}
	return 0.5
}

// Valid reports whether the level is one of the four defined levels.
func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// NormalizedDocument is the tokenized form of a grievance text: an ordered
// token sequence plus per-term counts.
type NormalizedDocument struct {
	Tokens   []string       `json:"tokens"`
	TermFreq map[string]int `json:"term_freq"`
}

// Empty reports whether normalization produced no usable tokens.
func (d NormalizedDocument) Empty() bool {
	return len(d.Tokens) == 0
}

// Count returns how often a term occurs in the document. Terms containing a
// space are matched as consecutive token phrases.
func (d NormalizedDocument) Count(term string) int {
	if !strings.Contains(term, " ") {
		return d.TermFreq[term]
	}
	parts := strings.Fields(term)
	if len(parts) == 0 || len(parts) > len(d.Tokens) {
		return 0
	}
	count := 0
	for i := 0; i+len(parts) <= len(d.Tokens); i++ {
		match := true
		for j, p := range parts {
			if d.Tokens[i+j] != p {
				match = false
				break
			}
		}
		if match {
			count++
		}
	}
	return count
}

// CategoryResult is the classifier output for a single grievance.
type CategoryResult struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
}

// UrgencyResult is the urgency detector output for a single grievance.
type UrgencyResult struct {
	Level      UrgencyLevel `json:"level"`
	Confidence float64      `json:"confidence"`
}

// SimilarityMatch identifies the closest prior grievance above the
// similarity threshold.
type SimilarityMatch struct {
	MatchedID string  `json:"matched_id"`
	Score     float64 `json:"score"`
}

// CorpusEntry is a prior grievance text retained for duplicate comparison.
type CorpusEntry struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category Category `json:"category,omitempty"`
}

// DepartmentSnapshot is an immutable view of a department's routing state.
// The engine only reads it; load mutation is applied by the caller.
type DepartmentSnapshot struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Categories  []Category `json:"categories" yaml:"categories"`
	Capacity    int        `json:"capacity" yaml:"capacity"`
	CurrentLoad int        `json:"current_load" yaml:"current_load"`
}

// Handles reports whether the department accepts the given category.
func (d DepartmentSnapshot) Handles(c Category) bool {
	for _, dc := range d.Categories {
		if dc == c {
			return true
		}
	}
	return false
}

// HasCapacity reports whether the department can take one more grievance.
func (d DepartmentSnapshot) HasCapacity() bool {
	return d.Capacity > 0 && d.CurrentLoad < d.Capacity
}

// LoadRatio returns current load as a fraction of capacity.
func (d DepartmentSnapshot) LoadRatio() float64 {
	if d.Capacity <= 0 {
		return 1.0
	}
	return float64(d.CurrentLoad) / float64(d.Capacity)
}

// RoutingDecision is the routing outcome returned to the caller. When Routed
// is true the caller must apply LoadDelta to the chosen department inside its
// own locking discipline.
type RoutingDecision struct {
	Routed       bool   `json:"routed"`
	DepartmentID string `json:"department_id,omitempty"`
	LoadDelta    int    `json:"load_delta,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// AnalysisResult is the aggregate output of a single analysis call. It is
// constructed fresh per call and never mutated after return.
type AnalysisResult struct {
	Category      CategoryResult   `json:"category"`
	Urgency       UrgencyResult    `json:"urgency"`
	Similarity    *SimilarityMatch `json:"similarity,omitempty"`
	IsDuplicate   bool             `json:"is_duplicate"`
	PriorityScore float64          `json:"priority_score"`
	Location      string           `json:"location,omitempty"`
	Routing       RoutingDecision  `json:"routing"`
}
