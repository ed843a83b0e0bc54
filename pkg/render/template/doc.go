// Package template defines renderer-agnostic template interfaces. Renderers
// depend on the TemplateRenderer seam instead of a concrete engine so the
// engine can be swapped or faked in tests without touching document logic.
package template
