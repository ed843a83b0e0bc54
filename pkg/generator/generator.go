package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	internalLoader "docforge/internal/dataset/loader"
	"docforge/internal/logging"
	"docforge/pkg/dataset"
	"docforge/pkg/model"
	"docforge/pkg/render"
	"docforge/pkg/renderers/docs"
	"docforge/pkg/sink"
)

const defaultRendererName = "docs"

// Option customises the generator configuration.
type Option func(*Generator)

// WithLoader injects a custom dataset loader.
func WithLoader(loader dataset.Loader) Option {
	return func(g *Generator) {
		g.loader = loader
	}
}

// WithAssembler injects a custom context assembler.
func WithAssembler(assembler model.Assembler) Option {
	return func(g *Generator) {
		g.assembler = assembler
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(g *Generator) {
		g.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(g *Generator) {
		g.defaultRenderer = name
	}
}

// WithSink injects the sink documents are persisted to. Without a sink (and
// without a per-request output directory) documents are returned in memory
// only.
func WithSink(s sink.Sink) Option {
	return func(g *Generator) {
		g.sink = s
	}
}

// WithFilters supplies the filter registry used when the generator builds the
// default docs renderer.
func WithFilters(registry *render.FilterRegistry) Option {
	return func(g *Generator) {
		g.filters = registry
	}
}

// WithTemplatesDir points the default docs renderer at an on-disk template
// directory instead of the embedded bundle.
func WithTemplatesDir(dir string) Option {
	return func(g *Generator) {
		g.templatesDir = dir
	}
}

// WithDecorators registers decorators that run against each assembled context
// before rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(g *Generator) {
		if len(decorators) == 0 {
			return
		}
		g.decorators = append(g.decorators, decorators...)
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator coordinates the full pipeline from project description to
// persisted documents. It applies sensible defaults (docs renderer, embedded
// templates, built-in filters) while remaining open to dependency injection
// for advanced callers.
type Generator struct {
	loader          dataset.Loader
	assembler       model.Assembler
	registry        *render.Registry
	defaultRenderer string
	sink            sink.Sink
	filters         *render.FilterRegistry
	templatesDir    string
	decorators      []model.Decorator
	logger          *slog.Logger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs a Generator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Generator {
	g := &Generator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	g.applyDefaults()
	return g
}

// Request describes one generation batch: a single dataset rendered through
// one or more templates.
type Request struct {
	// Source identifies where the project description lives. Optional when
	// Dataset is supplied.
	Source dataset.Source

	// Dataset allows callers to bypass the loader when they already hold a
	// parsed dataset.
	Dataset *dataset.Dataset

	// Templates names the templates to render. When empty, every template the
	// renderer carries is rendered.
	Templates []string

	// Renderer names the renderer to use. If empty, the generator falls back
	// to the configured default renderer.
	Renderer string

	// OutputDir overrides the configured sink with a filesystem sink rooted
	// at the given directory for this request only.
	OutputDir string

	// RenderOptions carries per-request instructions such as extra context
	// values. When omitted, renderers receive the zero-value struct.
	RenderOptions render.RenderOptions
}

// Document records one successfully generated artifact.
type Document struct {
	// Template names the template the document came from.
	Template string
	// Name is the artifact's file name.
	Name string
	// Path is where the document was persisted; empty when no sink was
	// configured.
	Path string
	// ContentType describes the payload.
	ContentType string
	// Bytes is the payload size.
	Bytes int
}

// Failure records one document that could not be produced. A failure never
// aborts the rest of the batch.
type Failure struct {
	Template string
	Err      error
}

// Result summarises one batch.
type Result struct {
	Documents []Document
	Failures  []Failure
}

// Failed reports whether any document in the batch failed.
func (r Result) Failed() bool {
	return len(r.Failures) > 0
}

// Generate executes the load → assemble → render → persist sequence for every
// requested template. The dataset is loaded once and shared read-only across
// the batch; each document gets a fresh context. A dataset that cannot be
// loaded fails the whole batch; a document that cannot be rendered or written
// is recorded as a Failure while the remaining documents proceed.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("generator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := g.initialiseErr; err != nil {
		return Result{}, err
	}
	if !g.defaultsApplied {
		g.applyDefaults()
		if err := g.initialiseErr; err != nil {
			return Result{}, err
		}
	}

	ds, err := g.resolveDataset(ctx, req)
	if err != nil {
		return Result{}, err
	}

	renderer, err := g.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	templates := req.Templates
	if len(templates) == 0 {
		templates, err = renderer.Templates()
		if err != nil {
			return Result{}, fmt.Errorf("generator: list templates: %w", err)
		}
	}
	if len(templates) == 0 {
		return Result{}, errors.New("generator: no templates to render")
	}

	out, err := g.sinkFor(req)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, name := range templates {
		doc, err := g.generateOne(ctx, renderer, out, ds, name, req.RenderOptions)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			g.logger.Warn("document failed",
				slog.String("template", name),
				slog.Any("error", err))
			result.Failures = append(result.Failures, Failure{Template: name, Err: err})
			continue
		}
		g.logger.Debug("document generated",
			slog.String("template", doc.Template),
			slog.String("path", doc.Path),
			slog.Int("bytes", doc.Bytes))
		result.Documents = append(result.Documents, doc)
	}

	return result, nil
}

func (g *Generator) generateOne(ctx context.Context, renderer render.Renderer, out sink.Sink, ds dataset.Dataset, template string, opts render.RenderOptions) (Document, error) {
	rc := g.assembler.Assemble(ds, template)

	for _, decorator := range g.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(rc); err != nil {
			return Document{}, fmt.Errorf("generator: decorate context: %w", err)
		}
	}

	payload, err := renderer.Render(ctx, template, rc, opts)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		Template:    template,
		Name:        renderer.OutputName(template),
		ContentType: renderer.ContentType(),
		Bytes:       len(payload),
	}

	if out != nil {
		sinkDoc := sink.Document{
			Template:    doc.Template,
			Name:        doc.Name,
			ContentType: doc.ContentType,
			Content:     payload,
		}
		if err := out.Write(ctx, sinkDoc); err != nil {
			return Document{}, err
		}
		doc.Path = persistedPath(out, doc.Name)
	}

	return doc, nil
}

func (g *Generator) resolveDataset(ctx context.Context, req Request) (dataset.Dataset, error) {
	if req.Dataset != nil {
		return *req.Dataset, nil
	}
	if req.Source == nil {
		return dataset.Dataset{}, errors.New("generator: source or dataset is required")
	}
	ds, err := g.loader.Load(ctx, req.Source)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("generator: load dataset: %w", err)
	}
	return ds, nil
}

func (g *Generator) rendererFor(name string) (render.Renderer, error) {
	if g.registry == nil {
		return nil, errors.New("generator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = g.defaultRenderer
	}

	if target != "" {
		renderer, err := g.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("generator: renderer %q: %w", name, err)
		}
	}

	names := g.registry.List()
	if len(names) == 0 {
		return nil, errors.New("generator: no renderers registered")
	}

	renderer, err := g.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("generator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (g *Generator) sinkFor(req Request) (sink.Sink, error) {
	if req.OutputDir == "" {
		return g.sink, nil
	}
	out, err := sink.NewFS(req.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("generator: output dir: %w", err)
	}
	return out, nil
}

// persistedPath resolves the final location for sinks that expose a root
// directory.
func persistedPath(out sink.Sink, name string) string {
	type rooted interface {
		Root() string
	}
	if r, ok := out.(rooted); ok {
		return filepath.Join(r.Root(), name)
	}
	return name
}

func (g *Generator) applyDefaults() {
	if g.defaultsApplied {
		return
	}

	if g.logger == nil {
		g.logger = logging.New("generator")
	}
	if g.loader == nil {
		g.loader = internalLoader.New(dataset.NewLoaderOptions())
	}
	if g.assembler == nil {
		g.assembler = model.NewAssembler()
	}
	if g.registry == nil {
		g.registry = render.NewRegistry()

		rendererOptions := []docs.Option{}
		if g.filters != nil {
			rendererOptions = append(rendererOptions, docs.WithFilters(g.filters))
		}
		if g.templatesDir != "" {
			rendererOptions = append(rendererOptions, docs.WithTemplatesDir(g.templatesDir))
		}

		renderer, err := docs.New(rendererOptions...)
		if err != nil {
			g.initialiseErr = fmt.Errorf("generator: default renderer: %w", err)
		} else {
			g.registry.MustRegister(renderer)
		}
	}
	if g.defaultRenderer == "" {
		g.defaultRenderer = defaultRendererName
	}

	g.defaultsApplied = true
}
