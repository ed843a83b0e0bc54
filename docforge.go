package docforge

import (
	"context"

	internalLoader "docforge/internal/dataset/loader"
	"docforge/pkg/dataset"
	"docforge/pkg/generator"
	"docforge/pkg/model"
	"docforge/pkg/render"
)

// Option configures the generator; alias exported via the root package for
// convenience.
type Option = generator.Option

// Request describes one generation batch.
type Request = generator.Request

// Result summarises one batch: produced documents plus per-template failures.
type Result = generator.Result

// Document records one generated artifact.
type Document = generator.Document

// Failure records one template that could not be rendered or written.
type Failure = generator.Failure

// RenderOptions carries per-request rendering instructions such as extra
// context values.
type RenderOptions = render.RenderOptions

// RenderContext is the flat variable namespace templates render against.
type RenderContext = model.RenderContext

// NewGenerator exposes the generator constructor from the top-level module.
func NewGenerator(options ...Option) *generator.Generator {
	return generator.New(options...)
}

// Generate renders a single template from the dataset at datasetPath into
// outDir. It is the simplest entry point for callers that just want one
// document.
func Generate(ctx context.Context, datasetPath, template, outDir string, options ...Option) (Result, error) {
	return GenerateAll(ctx, datasetPath, []string{template}, outDir, options...)
}

// GenerateAll renders the named templates (or every available template when
// templates is empty) from the dataset at datasetPath into outDir.
func GenerateAll(ctx context.Context, datasetPath string, templates []string, outDir string, options ...Option) (Result, error) {
	gen := generator.New(options...)
	return gen.Generate(ctx, Request{
		Source:    dataset.SourceFromFile(datasetPath),
		Templates: templates,
		OutputDir: outDir,
	})
}

// NewLoader constructs a dataset loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...dataset.LoaderOption) dataset.Loader {
	cfg := dataset.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// WithTemplatesDir points the default renderer at an on-disk template
// directory instead of the embedded bundle.
func WithTemplatesDir(dir string) Option {
	return generator.WithTemplatesDir(dir)
}

// WithFilters supplies a custom filter registry for the default renderer.
func WithFilters(registry *render.FilterRegistry) Option {
	return generator.WithFilters(registry)
}

// WithDecorators registers context decorators that run before rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return generator.WithDecorators(decorators...)
}
