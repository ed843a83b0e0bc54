package model

import "sort"

// Reserved context namespaces. They sit alongside the section keys in the
// flat render context, so templates address them the same way they address
// sections ({{ generation.timestamp }}, {{ invocation.workdir }}).
const (
	KeyGeneration = "generation"
	KeyInvocation = "invocation"
)

// SectionRisks is the one section whose context value is always the
// normalized record sequence rather than a passthrough of the raw dataset.
const SectionRisks = "risks"

// Default category labels applied to risks that do not name their own,
// derived from the enclosing source group.
const (
	CategoryTechnical = "Technical"
	CategoryBusiness  = "Business"
)

// sectionKeys lists every top-level section templates may reference. Each key
// is always present in an assembled context; absent sections are substituted
// with the typed empty default from emptySectionValue.
var sectionKeys = []string{
	"project",
	"team",
	"requirements",
	"timeline",
	"marketing",
	"technical",
	"data_model",
	"development",
	"risks",
	"glossary",
	"references",
	"resources",
	"budget",
	"contingency_plans",
	"quality",
	"communication",
	"change_management",
	"closure",
	"appendices",
}

// sequenceSections marks the sections whose empty default is a sequence.
// risks is not listed because assembly always replaces it with the normalized
// record slice.
var sequenceSections = map[string]bool{
	"references":        true,
	"contingency_plans": true,
}

// SectionKeys returns a copy of the canonical section key list in its
// declaration order.
func SectionKeys() []string {
	return append([]string(nil), sectionKeys...)
}

// emptySectionValue returns the typed default substituted for an absent
// section: an empty sequence for list-shaped sections, an empty mapping for
// everything else.
func emptySectionValue(name string) any {
	if sequenceSections[name] {
		return []any{}
	}
	return map[string]any{}
}

// RiskRecord is a fully-populated risk entry. Every record carries all ten
// fields regardless of which subset the source object specified; the tags
// keep the template-facing names snake_case.
type RiskRecord struct {
	Title            string `json:"title" yaml:"title"`
	Description      string `json:"description" yaml:"description"`
	Impact           string `json:"impact" yaml:"impact"`
	ImpactScore      int    `json:"impact_score" yaml:"impact_score"`
	Probability      string `json:"probability" yaml:"probability"`
	ProbabilityScore int    `json:"probability_score" yaml:"probability_score"`
	Mitigation       string `json:"mitigation" yaml:"mitigation"`
	Owner            string `json:"owner" yaml:"owner"`
	Status           string `json:"status" yaml:"status"`
	Category         string `json:"category" yaml:"category"`
}

// GenerationInfo is the per-document generation metadata attached under
// KeyGeneration.
type GenerationInfo struct {
	// Timestamp is the ISO-8601 instant the context was assembled.
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	// Template is the document template the context was assembled for.
	Template string `json:"template" yaml:"template"`
}

// InvocationInfo describes the environment that requested the generation,
// attached under KeyInvocation.
type InvocationInfo struct {
	// WorkDir is the working directory of the invoking process.
	WorkDir string `json:"workdir" yaml:"workdir"`
	// Generator is the generator identity and version string.
	Generator string `json:"generator" yaml:"generator"`
}

// RenderContext is the flat variable namespace handed to the template engine:
// every canonical section key plus the two reserved namespaces. Contexts are
// assembled fresh per document and discarded after rendering.
type RenderContext map[string]any

// Keys returns the sorted top-level keys present in the context. Render
// failures attach this set as diagnostics.
func (c RenderContext) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Section returns the value stored under the given key, or nil when absent.
func (c RenderContext) Section(name string) any {
	return c[name]
}

// Risks returns the normalized risk sequence carried by the context. The
// slice is empty, never nil, for a successfully assembled context.
func (c RenderContext) Risks() []RiskRecord {
	records, ok := c[SectionRisks].([]RiskRecord)
	if !ok {
		return []RiskRecord{}
	}
	return records
}

// Generation returns the generation metadata attached at assembly time.
func (c RenderContext) Generation() GenerationInfo {
	info, _ := c[KeyGeneration].(GenerationInfo)
	return info
}

// Invocation returns the invocation metadata attached at assembly time.
func (c RenderContext) Invocation() InvocationInfo {
	info, _ := c[KeyInvocation].(InvocationInfo)
	return info
}
