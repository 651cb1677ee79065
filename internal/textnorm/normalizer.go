package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/civicstack/grievance/internal/models"
)

// defaultStopwords is intentionally small. Negations ("no", "not") are kept
// because they carry meaning in complaints.
var defaultStopwords = []string{
	"a", "an", "the", "and", "or", "but", "if", "then", "so",
	"of", "in", "on", "at", "to", "for", "from", "by", "with", "about",
	"as", "is", "are", "was", "were", "be", "been", "being",
	"it", "its", "this", "that", "these", "those",
	"i", "we", "you", "they", "he", "she",
	"my", "our", "your", "their", "has", "have", "had",
}

// Normalizer turns raw grievance text into a feature-ready token form.
// Deterministic: same input always yields the same document.
type Normalizer struct {
	stopwords   map[string]struct{}
	minTokenLen int
}

// New creates a normalizer with the default stopword set.
func New() *Normalizer {
	sw := make(map[string]struct{}, len(defaultStopwords))
	for _, w := range defaultStopwords {
		sw[w] = struct{}{}
	}
	return &Normalizer{stopwords: sw, minTokenLen: 2}
}

// Normalize case-folds, strips punctuation, splits on whitespace, and drops
// short tokens and stopwords. Empty or whitespace-only input yields an empty
// document, not an error.
func (n *Normalizer) Normalize(text string) models.NormalizedDocument {
	lower := strings.ToLower(text)

	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	doc := models.NormalizedDocument{
		Tokens:   make([]string, 0, len(fields)),
		TermFreq: make(map[string]int, len(fields)),
	}

	for _, tok := range fields {
		if utf8.RuneCountInString(tok) < n.minTokenLen {
			continue
		}
		if _, stop := n.stopwords[tok]; stop {
			continue
		}
		doc.Tokens = append(doc.Tokens, tok)
		doc.TermFreq[tok]++
	}

	return doc
}
