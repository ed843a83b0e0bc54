package model

import (
	"time"

	pkgdataset "docforge/pkg/dataset"
)

// Assembler converts project datasets into render contexts.
type Assembler struct {
	opts Options
}

// New creates an Assembler with the supplied options.
func New(options Options) *Assembler {
	opts := defaultOptions()
	if options.Clock != nil {
		opts.Clock = options.Clock
	}
	if options.Normalizer != nil {
		opts.Normalizer = options.Normalizer
	}
	if options.Generator != "" {
		opts.Generator = options.Generator
	}
	if options.WorkDir != "" {
		opts.WorkDir = options.WorkDir
	}
	return &Assembler{opts: opts}
}

// Assemble builds a fresh render context for one document. Every known
// section key is present in the result: sections carried by the dataset keep
// their value, the rest receive their typed empty default. The risks section
// is always normalized, and the reserved generation and invocation keys are
// stamped last so dataset sections can never shadow them.
//
// Assembly is total. Sections the templates do not know about are ignored,
// malformed risks collapse to an empty sequence, and no input shape causes
// an error.
func (a *Assembler) Assemble(dataset pkgdataset.Dataset, templateName string) RenderContext {
	ctx := make(RenderContext, len(sectionKeys)+2)
	for _, key := range sectionKeys {
		value, ok := dataset.Section(key)
		if !ok || value == nil {
			ctx[key] = emptySectionValue(key)
			continue
		}
		ctx[key] = value
	}

	raw, _ := dataset.Section(SectionRisks)
	ctx[SectionRisks] = a.opts.Normalizer.NormalizeRisks(raw)

	ctx[KeyGeneration] = GenerationInfo{
		Timestamp: a.opts.Clock().UTC().Format(time.RFC3339),
		Template:  templateName,
	}
	ctx[KeyInvocation] = InvocationInfo{
		WorkDir:   a.opts.WorkDir,
		Generator: a.opts.Generator,
	}
	return ctx
}
