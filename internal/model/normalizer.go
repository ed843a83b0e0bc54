package model

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultRiskScore fills impact_score and probability_score when a source
// risk omits them.
const defaultRiskScore = 5

// Source group keys inside the raw risks section.
const (
	groupTechnical = "technical"
	groupBusiness  = "business"
)

// Normalizer reconciles the loosely-typed risks section into the uniform
// record sequence templates consume. It is the only place heterogeneous
// optional sub-shapes are reconciled; every other section passes through
// assembly unchanged.
type Normalizer struct{}

// NewNormalizer returns the canonical normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeRisks flattens the raw risks section into an ordered record
// sequence: the technical group's entries in source order, then the business
// group's entries in source order. A missing, empty, or non-mapping section
// yields an empty sequence, never an error.
func (n *Normalizer) NormalizeRisks(raw any) []RiskRecord {
	records := []RiskRecord{}
	groups, ok := raw.(map[string]any)
	if !ok {
		return records
	}

	records = append(records, normalizeGroup(groups[groupTechnical], CategoryTechnical)...)
	records = append(records, normalizeGroup(groups[groupBusiness], CategoryBusiness)...)
	return records
}

// normalizeGroup applies the single normalization rule to one source group.
// Entries that are not mappings are skipped; mappings produce a record with
// every field populated, defaulting category to the group's label.
func normalizeGroup(entries any, defaultCategory string) []RiskRecord {
	list, ok := entries.([]any)
	if !ok {
		return nil
	}

	out := make([]RiskRecord, 0, len(list))
	for _, entry := range list {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, normalizeRisk(fields, defaultCategory))
	}
	return out
}

// normalizeRisk reads the ten known fields from one source object, defaulting
// each absent one. Unrecognized extra fields are dropped.
func normalizeRisk(fields map[string]any, defaultCategory string) RiskRecord {
	return RiskRecord{
		Title:            textField(fields, "title"),
		Description:      textField(fields, "description"),
		Impact:           textField(fields, "impact"),
		ImpactScore:      scoreField(fields, "impact_score"),
		Probability:      textField(fields, "probability"),
		ProbabilityScore: scoreField(fields, "probability_score"),
		Mitigation:       textField(fields, "mitigation"),
		Owner:            textField(fields, "owner"),
		Status:           textField(fields, "status"),
		Category:         categoryField(fields, defaultCategory),
	}
}

// textField returns the field's string form, or "" when absent or null.
// Non-string scalars (a numeric version, say) keep their printed value rather
// than being rejected.
func textField(fields map[string]any, key string) string {
	value, ok := fields[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// scoreField returns the field's integer value, tolerating the numeric types
// the YAML decoder produces plus numeric strings. Anything else falls back to
// the default score.
func scoreField(fields map[string]any, key string) int {
	value, ok := fields[key]
	if !ok {
		return defaultRiskScore
	}

	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultRiskScore
}

// categoryField keeps an explicitly specified category, including an
// explicitly empty one; only absence and null fall back to the group label.
func categoryField(fields map[string]any, defaultCategory string) string {
	value, ok := fields["category"]
	if !ok || value == nil {
		return defaultCategory
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
