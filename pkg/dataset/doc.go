// Package dataset defines the structured project description consumed by the
// generation pipeline: the Source abstraction identifying where a description
// lives, the immutable Dataset wrapper around its parsed sections, and the
// Loader contract implementations satisfy. Parsing lives in internal/dataset;
// this package stays schema-agnostic so callers can carry arbitrary sections
// while the model package decides which ones the templates know about.
package dataset
