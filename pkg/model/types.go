package model

import internalmodel "docforge/internal/model"

// RenderContext re-exports the internal render context type.
type RenderContext = internalmodel.RenderContext

// Reserved context keys stamped by the assembler.
const (
	KeyGeneration = internalmodel.KeyGeneration
	KeyInvocation = internalmodel.KeyInvocation
)

// SectionRisks names the section that carries risk records.
const SectionRisks = internalmodel.SectionRisks

// Default categories applied to risks that do not declare one.
const (
	CategoryTechnical = internalmodel.CategoryTechnical
	CategoryBusiness  = internalmodel.CategoryBusiness
)

type RiskRecord = internalmodel.RiskRecord
type GenerationInfo = internalmodel.GenerationInfo
type InvocationInfo = internalmodel.InvocationInfo

// SectionKeys lists every section key the assembler guarantees to be present
// in a render context, in canonical order.
func SectionKeys() []string {
	return internalmodel.SectionKeys()
}
