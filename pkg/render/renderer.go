package render

import (
	"context"

	"docforge/pkg/model"
)

// Renderer converts an assembled render context into a byte representation
// of one named document template (Markdown, HTML, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	// Render produces the document for one template. A request for a template
	// the renderer does not carry fails with ErrTemplateNotFound; an engine
	// failure surfaces as a *RenderError.
	Render(ctx context.Context, template string, rc model.RenderContext, options RenderOptions) ([]byte, error)
	// Templates lists the template names this renderer can address, sorted.
	Templates() ([]string, error)
	// OutputName reports the file name a rendered template should be stored
	// under.
	OutputName(template string) string
}
