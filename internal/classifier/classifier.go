package classifier

import (
	"github.com/civicstack/grievance/internal/models"
	"github.com/civicstack/grievance/internal/rules"
	"github.com/civicstack/grievance/pkg/utils"
)

// Classifier assigns one category from the configured category table using
// weighted keyword scoring. It never fails on unknown text.
type Classifier struct {
	categories []rules.CategoryRule
}

// New creates a classifier from a rule set. The rule set is validated first:
// a malformed table is an operator error and stops engine construction.
func New(rs rules.RuleSet) (*Classifier, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{categories: rs.Categories}, nil
}

// Classify scores every category against the document and returns the
// winner. Score(category) is the sum of term weights scaled by term
// frequency. Confidence is the winning score over the total of all category
// scores, clamped to [0,1]. When nothing matches, the result is the
// "general" fallback with confidence 0. Ties go to the category listed
// first in the table, keeping classification reproducible.
func (c *Classifier) Classify(doc models.NormalizedDocument) models.CategoryResult {
	if doc.Empty() {
		return models.CategoryResult{Category: models.CategoryGeneral, Confidence: 0}
	}

	var (
		best      models.Category
		bestScore float64
		total     float64
	)

	for _, cr := range c.categories {
		score := 0.0
		for _, term := range cr.Terms {
			if count := doc.Count(term.Term); count > 0 {
				score += term.Weight * float64(count)
			}
		}
		total += score
		// Strict comparison: an earlier category keeps the win on a tie.
		if score > bestScore {
			bestScore = score
			best = cr.Name
		}
	}

	if bestScore == 0 || total == 0 {
		return models.CategoryResult{Category: models.CategoryGeneral, Confidence: 0}
	}

	return models.CategoryResult{
		Category:   best,
		Confidence: utils.Clamp01(bestScore / total),
	}
}
