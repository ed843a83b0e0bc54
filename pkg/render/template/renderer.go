package template

import (
	"io"
)

// TemplateRenderer is the engine seam document renderers rely on. Render
// resolves its argument as a template name unless it looks like inline
// template content; RenderTemplate and RenderString force one or the other.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
