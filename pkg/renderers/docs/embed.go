package docs

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle for consumers that want
// the built-in document set out of the box. Template names resolve relative
// to the bundle root, so "project_plan" addresses templates/project_plan.tpl.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// Should never happen, but fall back to the raw FS so the bundle
		// remains usable.
		return embeddedTemplates
	}
	return sub
}
