package location

import (
	"regexp"
	"strings"
)

// Extractor pulls a best-effort location hint out of raw grievance text. It
// is purely lexical; resolving hints to coordinates is a collaborator
// concern.
type Extractor struct {
	wardRegex  *regexp.Regexp
	placeRegex *regexp.Regexp
}

// New creates an extractor.
func New() *Extractor {
	return &Extractor{
		wardRegex:  regexp.MustCompile(`(?i)\b(ward\s*(?:no\.?\s*)?\d+|sector\s*\d+|block\s*[A-Z0-9]+)\b`),
		placeRegex: regexp.MustCompile(`\b(?i:near|at|opposite|behind|beside|along)\s+((?:[A-Z][A-Za-z]*)(?:\s+[A-Z][A-Za-z]*){0,3})`),
	}
}

// Extract returns a location phrase from the text, or "" when none is
// found. Ward and sector references win over prose place names because they
// are less ambiguous.
func (e *Extractor) Extract(text string) string {
	if loc := e.wardRegex.FindString(text); loc != "" {
		return strings.TrimSpace(loc)
	}
	if m := e.placeRegex.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
