package priority

import (
	apperrors "github.com/civicstack/grievance/internal/errors"
	"github.com/civicstack/grievance/internal/models"
	"github.com/civicstack/grievance/pkg/utils"
)

// Weights are the tunable coefficients of the priority formula.
type Weights struct {
	Urgency          float64
	Confidence       float64
	DuplicatePenalty float64
}

// DefaultWeights returns the stock tuning. These are adjustable defaults,
// not load-bearing constants.
func DefaultWeights() Weights {
	return Weights{Urgency: 0.6, Confidence: 0.4, DuplicatePenalty: 0.3}
}

// Scorer combines urgency, classification confidence, and duplicate status
// into a single 0.0-1.0 priority. Pure function, no side effects.
type Scorer struct {
	weights Weights
}

// New creates a scorer, rejecting negative weights at construction.
func New(w Weights) (*Scorer, error) {
	if w.Urgency < 0 || w.Confidence < 0 || w.DuplicatePenalty < 0 {
		return nil, apperrors.ConfigurationError{
			Field:   "priority_weights",
			Message: "weights must be non-negative",
		}
	}
	return &Scorer{weights: w}, nil
}

// Score computes clamp01(urgencyWeight*W_u + confidence*W_c - penalty*isDup).
// Out-of-range confidence is clamped, not rejected.
func (s *Scorer) Score(urgency models.UrgencyResult, category models.CategoryResult, isDuplicate bool) float64 {
	score := urgency.Level.Weight()*s.weights.Urgency +
		utils.Clamp01(category.Confidence)*s.weights.Confidence

	if isDuplicate {
		score -= s.weights.DuplicatePenalty
	}

	return utils.Clamp01(score)
}
