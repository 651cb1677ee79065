package priority

import (
	"math"
	"testing"

	"github.com/civicstack/grievance/internal/models"
)

func TestScorer_Score(t *testing.T) {
	s, err := New(DefaultWeights())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		name        string
		level       models.UrgencyLevel
		confidence  float64
		isDuplicate bool
		expected    float64
	}{
		{
			name:       "Critical full confidence",
			level:      models.UrgencyCritical,
			confidence: 1.0,
			expected:   1.0, // 1.0*0.6 + 1.0*0.4
		},
		{
			name:       "Medium half confidence",
			level:      models.UrgencyMedium,
			confidence: 0.5,
			expected:   0.5, // 0.5*0.6 + 0.5*0.4
		},
		{
			name:        "Low zero confidence duplicate clamps to zero",
			level:       models.UrgencyLow,
			confidence:  0,
			isDuplicate: true,
			expected:    0, // clamp01(0.25*0.6 - 0.3)
		},
		{
			name:        "Duplicate penalty applied",
			level:       models.UrgencyHigh,
			confidence:  1.0,
			isDuplicate: true,
			expected:    0.55, // 0.75*0.6 + 0.4 - 0.3
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(
				models.UrgencyResult{Level: tt.level},
				models.CategoryResult{Confidence: tt.confidence},
				tt.isDuplicate,
			)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected score %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestScorer_AlwaysInRange(t *testing.T) {
	s, err := New(DefaultWeights())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	levels := []models.UrgencyLevel{
		models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh, models.UrgencyCritical,
	}
	confidences := []float64{-0.5, 0, 0.25, 0.5, 1, 1.5}

	for _, level := range levels {
		for _, conf := range confidences {
			for _, dup := range []bool{false, true} {
				got := s.Score(
					models.UrgencyResult{Level: level},
					models.CategoryResult{Confidence: conf},
					dup,
				)
				if got < 0 || got > 1 {
					t.Errorf("Score out of range for level=%s conf=%v dup=%v: %v",
						level, conf, dup, got)
				}
			}
		}
	}
}

func TestScorer_CustomWeights(t *testing.T) {
	s, err := New(Weights{Urgency: 1.0, Confidence: 0, DuplicatePenalty: 0})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got := s.Score(
		models.UrgencyResult{Level: models.UrgencyHigh},
		models.CategoryResult{Confidence: 1.0},
		true,
	)
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Expected urgency-only score 0.75, got %v", got)
	}
}

func TestNew_NegativeWeights(t *testing.T) {
	if _, err := New(Weights{Urgency: -0.1}); err == nil {
		t.Errorf("Expected error for negative weight")
	}
}
