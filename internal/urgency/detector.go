package urgency

import (
	"github.com/civicstack/grievance/internal/models"
	"github.com/civicstack/grievance/internal/rules"
	"github.com/civicstack/grievance/pkg/utils"
)

// severityOrder lists the levels from most to least severe. Detection scans
// in this order so a scoring tie resolves to the more severe level.
var severityOrder = []models.UrgencyLevel{
	models.UrgencyCritical,
	models.UrgencyHigh,
	models.UrgencyMedium,
	models.UrgencyLow,
}

// Detector maps grievance text to one of the four urgency levels using the
// configured severity keyword tables.
type Detector struct {
	tables map[models.UrgencyLevel][]rules.WeightedTerm
}

// New creates a detector from a rule set, failing fast on malformed tables.
func New(rs rules.RuleSet) (*Detector, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	tables := make(map[models.UrgencyLevel][]rules.WeightedTerm, len(rs.Urgency))
	for _, ur := range rs.Urgency {
		tables[ur.Level] = ur.Terms
	}
	return &Detector{tables: tables}, nil
}

// Detect scores each level's keyword table against the document. When no
// severity keyword matches, the level defaults to "medium" so unclassified
// grievances are not silently deprioritized.
func (d *Detector) Detect(doc models.NormalizedDocument) models.UrgencyResult {
	if doc.Empty() {
		return models.UrgencyResult{Level: models.UrgencyMedium, Confidence: 0}
	}

	var (
		best      = models.UrgencyMedium
		bestScore float64
		total     float64
	)

	for _, level := range severityOrder {
		score := 0.0
		for _, term := range d.tables[level] {
			if count := doc.Count(term.Term); count > 0 {
				score += term.Weight * float64(count)
			}
		}
		total += score
		if score > bestScore {
			bestScore = score
			best = level
		}
	}

	if bestScore == 0 {
		return models.UrgencyResult{Level: models.UrgencyMedium, Confidence: 0}
	}

	return models.UrgencyResult{
		Level:      best,
		Confidence: utils.Clamp01(bestScore / total),
	}
}
