package docforge

import (
	"io/fs"

	"docforge/pkg/renderers/docs"
)

// EmbeddedTemplates exposes the built-in document templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return docs.TemplatesFS()
}
