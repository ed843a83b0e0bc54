package docs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"docforge/pkg/model"
	"docforge/pkg/render"
	rendertemplate "docforge/pkg/render/template"
	"docforge/pkg/render/template/pongo"
)

const (
	templateExt = ".tpl"
	outputExt   = ".md"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	filters          *render.FilterRegistry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithFilters supplies the filter registry installed into the engine at
// construction. Without it the built-in filters are installed.
func WithFilters(registry *render.FilterRegistry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.filters = registry
		}
	}
}

// Renderer produces Markdown documents from named templates. Each rendered
// template becomes one document; the template inventory comes from the
// configured bundle.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	source    fs.FS
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the docs renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		filters:    render.NewFilterRegistry(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(templateExt),
			pongo.WithFilters(cfg.filters.Map()),
		)
		if err != nil {
			return nil, fmt.Errorf("docs renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, source: cfg.templateFS}, nil
}

func (r *Renderer) Name() string {
	return "docs"
}

func (r *Renderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

// Render produces the named document. The template name may be given with or
// without the template extension. A name outside the bundle fails with
// ErrTemplateNotFound; an engine failure is wrapped in a *RenderError
// carrying the context diagnostics.
func (r *Renderer) Render(ctx context.Context, template string, rc model.RenderContext, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("docs renderer: template renderer is nil")
	}

	name := strings.TrimSuffix(strings.TrimSpace(template), templateExt)
	if name == "" {
		return nil, fmt.Errorf("docs renderer: template name is required")
	}

	if r.source != nil {
		if _, err := fs.Stat(r.source, name+templateExt); err != nil {
			return nil, fmt.Errorf("docs renderer: template %q: %w", name, render.ErrTemplateNotFound)
		}
	}

	result, err := r.templates.RenderTemplate(name, contextData(rc, options))
	if err != nil {
		return nil, render.NewRenderError(name, rc, err)
	}
	return []byte(result), nil
}

// Templates lists the template names in the bundle, sorted. Names are
// reported without the template extension.
func (r *Renderer) Templates() ([]string, error) {
	if r.source == nil {
		return nil, fmt.Errorf("docs renderer: template source is not listable")
	}

	matches, err := doublestar.Glob(r.source, "**/*"+templateExt)
	if err != nil {
		return nil, fmt.Errorf("docs renderer: list templates: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, strings.TrimSuffix(match, templateExt))
	}
	sort.Strings(names)
	return names, nil
}

// OutputName reports the file name a rendered template is stored under.
func (r *Renderer) OutputName(template string) string {
	name := strings.TrimSuffix(strings.TrimSpace(template), templateExt)
	return name + outputExt
}

// contextData flattens the render context plus any extra values into the map
// handed to the engine. Extra entries never displace the reserved provenance
// keys.
func contextData(rc model.RenderContext, options render.RenderOptions) map[string]any {
	data := make(map[string]any, len(rc)+len(options.Extra))
	for key, value := range rc {
		data[key] = value
	}
	for key, value := range options.Extra {
		if key == model.KeyGeneration || key == model.KeyInvocation {
			continue
		}
		data[key] = value
	}
	return data
}
