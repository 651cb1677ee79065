package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/civicstack/grievance/internal/errors"
	"github.com/civicstack/grievance/internal/models"
)

// WeightedTerm is a keyword or multi-word phrase with a positive weight.
type WeightedTerm struct {
	Term   string  `yaml:"term"`
	Weight float64 `yaml:"weight"`
}

// CategoryRule maps a category to its weighted keyword set. Table order is
// significant: ties in classification are broken by ordinal position.
type CategoryRule struct {
	Name  models.Category `yaml:"name"`
	Terms []WeightedTerm  `yaml:"terms"`
}

// UrgencyRule maps one of the four urgency levels to its keyword set.
type UrgencyRule struct {
	Level models.UrgencyLevel `yaml:"level"`
	Terms []WeightedTerm      `yaml:"terms"`
}

// RuleSet holds the full classification configuration. Operators tune tables
// via a YAML file without code changes.
type RuleSet struct {
	Categories []CategoryRule `yaml:"categories"`
	Urgency    []UrgencyRule  `yaml:"urgency"`
}

// LoadFile reads a RuleSet from a YAML file and validates it.
func LoadFile(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read rules file: %w", err)
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if err := rs.Validate(); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

// Validate fails fast on malformed tables. Classification never starts with
// a broken rule set.
func (rs RuleSet) Validate() error {
	if len(rs.Categories) == 0 {
		return apperrors.ConfigurationError{Field: "categories", Message: "category table is empty"}
	}

	seenCategories := make(map[models.Category]bool)
	for _, cr := range rs.Categories {
		if cr.Name == "" {
			return apperrors.ConfigurationError{Field: "categories", Message: "category with empty name"}
		}
		if seenCategories[cr.Name] {
			return apperrors.ConfigurationError{
				Field:   "categories",
				Message: fmt.Sprintf("duplicate category %q", cr.Name),
			}
		}
		seenCategories[cr.Name] = true
		if err := validateTerms(string(cr.Name), cr.Terms); err != nil {
			return err
		}
	}

	seenLevels := make(map[models.UrgencyLevel]bool)
	for _, ur := range rs.Urgency {
		if !ur.Level.Valid() {
			return apperrors.ConfigurationError{
				Field:   "urgency",
				Message: fmt.Sprintf("unknown urgency level %q", ur.Level),
			}
		}
		if seenLevels[ur.Level] {
			return apperrors.ConfigurationError{
				Field:   "urgency",
				Message: fmt.Sprintf("duplicate urgency level %q", ur.Level),
			}
		}
		seenLevels[ur.Level] = true
		if err := validateTerms(string(ur.Level), ur.Terms); err != nil {
			return err
		}
	}

	return nil
}

func validateTerms(owner string, terms []WeightedTerm) error {
	for _, t := range terms {
		if t.Term == "" {
			return apperrors.ConfigurationError{
				Field:   owner,
				Message: "term with empty text",
			}
		}
		if t.Weight <= 0 {
			return apperrors.ConfigurationError{
				Field:   owner,
				Message: fmt.Sprintf("term %q has non-positive weight %v", t.Term, t.Weight),
			}
		}
	}
	return nil
}

// HasCategory reports whether the rule set defines the given category.
func (rs RuleSet) HasCategory(c models.Category) bool {
	for _, cr := range rs.Categories {
		if cr.Name == c {
			return true
		}
	}
	return false
}

// Default returns the built-in rule tables. They mirror the categories and
// severity vocabulary of a municipal grievance desk and can be replaced
// wholesale by a YAML file at startup.
func Default() RuleSet {
	return RuleSet{
		Categories: []CategoryRule{
			{Name: "water_supply", Terms: terms(
				"water", 1.0, "tap", 0.8, "pipeline", 0.8, "supply", 0.6,
				"leakage", 0.8, "borewell", 0.6, "tanker", 0.6, "water supply", 1.2,
			)},
			{Name: "electricity", Terms: terms(
				"electricity", 1.0, "power", 0.9, "blackout", 1.0, "voltage", 0.8,
				"transformer", 0.8, "outage", 0.9, "streetlight", 0.7, "power cut", 1.2,
			)},
			{Name: "road_maintenance", Terms: terms(
				"road", 1.0, "pothole", 1.2, "street", 0.7, "highway", 0.8,
				"pavement", 0.8, "asphalt", 0.8, "footpath", 0.7, "speed breaker", 0.8,
			)},
			{Name: "sanitation", Terms: terms(
				"garbage", 1.0, "waste", 0.9, "sewage", 1.0, "trash", 0.9,
				"drain", 0.8, "dustbin", 0.7, "sanitation", 1.0, "litter", 0.7,
			)},
			{Name: "health", Terms: terms(
				"hospital", 1.0, "health", 0.9, "clinic", 0.9, "doctor", 0.8,
				"disease", 0.9, "dengue", 1.0, "mosquito", 0.7, "ambulance", 0.9,
			)},
			{Name: "education", Terms: terms(
				"school", 1.0, "education", 0.9, "teacher", 0.8, "student", 0.7,
				"college", 0.8, "classroom", 0.7, "admission", 0.6,
			)},
			{Name: "public_safety", Terms: terms(
				"police", 1.0, "theft", 1.0, "crime", 1.0, "robbery", 1.0,
				"harassment", 0.9, "unsafe", 0.8, "accident", 0.8,
			)},
			{Name: "transport", Terms: terms(
				"bus", 1.0, "transport", 0.9, "traffic", 0.8, "metro", 0.8,
				"rickshaw", 0.7, "fare", 0.7, "route", 0.6,
			)},
			{Name: "housing", Terms: terms(
				"housing", 1.0, "rent", 0.8, "slum", 0.9, "encroachment", 0.9,
				"building", 0.7, "construction", 0.7, "apartment", 0.7,
			)},
			{Name: "environment", Terms: terms(
				"pollution", 1.0, "environment", 0.9, "tree", 0.8, "noise", 0.8,
				"park", 0.7, "smoke", 0.7, "dumping", 0.7,
			)},
			{Name: models.CategoryGeneral},
		},
		Urgency: []UrgencyRule{
			{Level: models.UrgencyCritical, Terms: terms(
				"emergency", 1.2, "life threatening", 1.5, "critical", 1.0,
				"dying", 1.2, "disaster", 1.2, "urgent", 1.0, "immediately", 0.9,
				"severe", 0.9,
			)},
			{Level: models.UrgencyHigh, Terms: terms(
				"serious", 0.9, "dangerous", 0.9, "danger", 0.9, "asap", 0.9,
				"major", 0.8, "quickly", 0.7, "significant", 0.7, "overflowing", 0.7,
			)},
			{Level: models.UrgencyMedium, Terms: terms(
				"soon", 0.6, "needed", 0.5, "required", 0.5, "moderate", 0.6,
				"necessary", 0.5, "pending", 0.5,
			)},
			{Level: models.UrgencyLow, Terms: terms(
				"when convenient", 0.8, "whenever", 0.6, "minor", 0.7,
				"eventually", 0.6, "please", 0.4, "suggestion", 0.6,
			)},
		},
	}
}

// terms builds a WeightedTerm slice from alternating term/weight pairs.
func terms(pairs ...interface{}) []WeightedTerm {
	out := make([]WeightedTerm, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, WeightedTerm{
			Term:   pairs[i].(string),
			Weight: pairs[i+1].(float64),
		})
	}
	return out
}
