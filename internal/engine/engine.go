package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/civicstack/grievance/internal/classifier"
	"github.com/civicstack/grievance/internal/location"
	"github.com/civicstack/grievance/internal/logger"
	"github.com/civicstack/grievance/internal/metrics"
	"github.com/civicstack/grievance/internal/models"
	"github.com/civicstack/grievance/internal/priority"
	"github.com/civicstack/grievance/internal/routing"
	"github.com/civicstack/grievance/internal/rules"
	"github.com/civicstack/grievance/internal/similarity"
	"github.com/civicstack/grievance/internal/textnorm"
	"github.com/civicstack/grievance/internal/urgency"
)

// Normalizer tokenizes raw grievance text.
type Normalizer interface {
	Normalize(text string) models.NormalizedDocument
}

// Classifier assigns a category to a normalized document.
type Classifier interface {
	Classify(doc models.NormalizedDocument) models.CategoryResult
}

// UrgencyDetector assigns an urgency level to a normalized document.
type UrgencyDetector interface {
	Detect(doc models.NormalizedDocument) models.UrgencyResult
}

// SimilarityIndex finds the closest prior grievance above the threshold.
type SimilarityIndex interface {
	FindSimilar(doc models.NormalizedDocument, corpus []models.CorpusEntry) *models.SimilarityMatch
}

// PriorityScorer combines urgency, confidence, and duplicate status.
type PriorityScorer interface {
	Score(urgency models.UrgencyResult, category models.CategoryResult, isDuplicate bool) float64
}

// RoutingSelector picks a department for a category.
type RoutingSelector interface {
	Select(category models.Category, departments []models.DepartmentSnapshot) models.RoutingDecision
}

// LocationExtractor pulls a location hint from raw text.
type LocationExtractor interface {
	Extract(text string) string
}

// Config holds the engine's tunables. All of it comes from the caller;
// nothing is hardcoded in the scoring logic.
type Config struct {
	Rules               rules.RuleSet
	SimilarityThreshold float64
	Weights             priority.Weights
}

// Engine orchestrates normalization, classification, urgency detection,
// duplicate detection, priority scoring, and department routing into a
// single analysis call. It is stateless per call apart from the similarity
// index's term-frequency cache.
type Engine struct {
	normalizer Normalizer
	classifier Classifier
	urgency    UrgencyDetector
	similarity SimilarityIndex
	scorer     PriorityScorer
	selector   RoutingSelector
	locations  LocationExtractor
}

// New wires up the engine components. All configuration errors surface
// here, before any analysis call runs.
func New(cfg Config) (*Engine, error) {
	norm := textnorm.New()

	cls, err := classifier.New(cfg.Rules)
	if err != nil {
		return nil, err
	}
	det, err := urgency.New(cfg.Rules)
	if err != nil {
		return nil, err
	}
	idx, err := similarity.New(cfg.SimilarityThreshold, norm)
	if err != nil {
		return nil, err
	}
	scorer, err := priority.New(cfg.Weights)
	if err != nil {
		return nil, err
	}

	logger.Info("Analysis engine initialized",
		"categories", len(cfg.Rules.Categories),
		"similarity_threshold", cfg.SimilarityThreshold,
	)

	return &Engine{
		normalizer: norm,
		classifier: cls,
		urgency:    det,
		similarity: idx,
		scorer:     scorer,
		selector:   routing.New(),
		locations:  location.New(),
	}, nil
}

// Analyze runs the full pipeline over one grievance text. Corpus and
// department snapshots are supplied by the caller; the engine performs no
// I/O and retains nothing except the similarity term-frequency cache. A
// routing failure is reported inside the result, not as an error, so the
// caller can still persist category, urgency, and priority.
func (e *Engine) Analyze(ctx context.Context, text string, corpus []models.CorpusEntry, departments []models.DepartmentSnapshot) (*models.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := e.normalizer.Normalize(text)

	var (
		categoryResult models.CategoryResult
		urgencyResult  models.UrgencyResult
	)

	// Classification and urgency detection are independent of each other.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		categoryResult = e.classifier.Classify(doc)
		return nil
	})
	g.Go(func() error {
		urgencyResult = e.urgency.Detect(doc)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	match := e.similarity.FindSimilar(doc, corpus)
	isDuplicate := match != nil

	score := e.scorer.Score(urgencyResult, categoryResult, isDuplicate)
	decision := e.selector.Select(categoryResult.Category, departments)

	result := &models.AnalysisResult{
		Category:      categoryResult,
		Urgency:       urgencyResult,
		Similarity:    match,
		IsDuplicate:   isDuplicate,
		PriorityScore: score,
		Location:      e.locations.Extract(text),
		Routing:       decision,
	}

	status := "routed"
	if !decision.Routed {
		status = "unrouted"
	}
	metrics.RecordAnalysis(string(categoryResult.Category), status)
	if isDuplicate {
		metrics.RecordDuplicate(string(categoryResult.Category))
	}

	logger.Debug("Analysis complete",
		"category", categoryResult.Category,
		"urgency", urgencyResult.Level,
		"is_duplicate", isDuplicate,
		"priority", score,
		"routed", decision.Routed,
	)

	return result, nil
}
