// Package model defines the typed render context consumed by renderers.
// Assemblers reside in internal/model but return the types defined here. A
// render context is a flat namespace with one entry per known section key,
// so templates never guard against missing sections: absent ones carry their
// typed empty value (empty sequence or empty mapping) and the risks section
// is always a normalized record sequence with every field populated. The
// reserved `generation` and `invocation` keys are stamped by the assembler
// after the dataset sections so no input can shadow them. Decorators let
// callers enrich an assembled context before rendering without the assembler
// having to know about caller-specific values.
package model
