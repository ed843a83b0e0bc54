package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the assembly pipeline.
type RenderOptions struct {
	// Extra adds caller-supplied values to the render context after assembly,
	// keyed by top-level context key. Entries that would shadow the reserved
	// generation and invocation keys are ignored so provenance metadata stays
	// authoritative.
	Extra map[string]any
}
