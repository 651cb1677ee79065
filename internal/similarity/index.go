package similarity

import (
	"math"
	"sync"

	apperrors "github.com/civicstack/grievance/internal/errors"
	"github.com/civicstack/grievance/internal/models"
	"github.com/civicstack/grievance/pkg/utils"
)

// scoreEpsilon absorbs floating point noise at the threshold boundary so an
// exact-threshold score still counts as a match.
const scoreEpsilon = 1e-9

// Normalizer tokenizes corpus texts for vectorization.
type Normalizer interface {
	Normalize(text string) models.NormalizedDocument
}

// Index detects near-duplicate grievances with TF-IDF vectors and cosine
// similarity. The vocabulary and document frequencies are rebuilt on every
// call from the supplied corpus; only per-entry term counts are cached,
// since term frequency does not depend on the rest of the corpus.
type Index struct {
	threshold float64
	norm      Normalizer

	mu      sync.RWMutex
	tfCache map[string]map[string]int
}

// New creates an index with the given match threshold in (0,1].
func New(threshold float64, norm Normalizer) (*Index, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, apperrors.ConfigurationError{
			Field:   "similarity_threshold",
			Message: "threshold must be in (0,1]",
		}
	}
	if norm == nil {
		return nil, apperrors.ConfigurationError{
			Field:   "similarity_normalizer",
			Message: "normalizer is required",
		}
	}
	return &Index{
		threshold: threshold,
		norm:      norm,
		tfCache:   make(map[string]map[string]int),
	}, nil
}

// Threshold returns the configured inclusive match threshold.
func (idx *Index) Threshold() float64 {
	return idx.threshold
}

// FindSimilar compares the new document against every corpus entry and
// returns the closest match at or above the threshold, or nil when no entry
// qualifies. An empty corpus or an empty document yields no match and no
// computation.
func (idx *Index) FindSimilar(doc models.NormalizedDocument, corpus []models.CorpusEntry) *models.SimilarityMatch {
	if len(corpus) == 0 || doc.Empty() {
		return nil
	}

	corpusFreqs := make([]map[string]int, len(corpus))
	for i, entry := range corpus {
		corpusFreqs[i] = idx.termFreq(entry)
	}

	// Document frequencies over corpus + new doc. Rebuilt per call: the
	// corpus changes between calls and a stale vocabulary risks false
	// negatives.
	totalDocs := len(corpus) + 1
	df := make(map[string]int)
	for term := range doc.TermFreq {
		df[term]++
	}
	for _, freq := range corpusFreqs {
		for term := range freq {
			df[term]++
		}
	}

	idf := make(map[string]float64, len(df))
	for term, n := range df {
		// Smoothed IDF keeps weights positive for terms present in
		// every document, so identical texts still score 1.0.
		idf[term] = math.Log(float64(1+totalDocs)/float64(1+n)) + 1
	}

	docVec := vectorize(doc.TermFreq, idf)

	var best *models.SimilarityMatch
	for i, entry := range corpus {
		score := cosine(docVec, vectorize(corpusFreqs[i], idf))
		if best == nil || score > best.Score {
			best = &models.SimilarityMatch{MatchedID: entry.ID, Score: score}
		}
	}

	if best == nil || best.Score+scoreEpsilon < idx.threshold {
		return nil
	}
	return best
}

// termFreq returns the cached term counts for a corpus entry, normalizing
// the text on first sight. The cache is keyed by content hash, not entry ID:
// an ID can be reused with different text (in-place corpus replacement,
// caller-chosen IDs), and stale counts would score against text that is no
// longer there.
func (idx *Index) termFreq(entry models.CorpusEntry) map[string]int {
	key := utils.HashString(entry.Text)

	idx.mu.RLock()
	if freq, ok := idx.tfCache[key]; ok {
		idx.mu.RUnlock()
		return freq
	}
	idx.mu.RUnlock()

	freq := idx.norm.Normalize(entry.Text).TermFreq

	idx.mu.Lock()
	idx.tfCache[key] = freq
	idx.mu.Unlock()
	return freq
}

// vectorize builds an L2-normalized TF-IDF vector.
func vectorize(termFreq map[string]int, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(termFreq))
	var sumSq float64
	for term, count := range termFreq {
		w := float64(count) * idf[term]
		vec[term] = w
		sumSq += w * w
	}
	if sumSq == 0 {
		return vec
	}
	norm := math.Sqrt(sumSq)
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}

// cosine computes the dot product of two L2-normalized sparse vectors,
// clamped to [0,1]. Term weights are non-negative so the result never goes
// negative.
func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	if dot > 1 {
		return 1
	}
	if dot < 0 {
		return 0
	}
	return dot
}
