package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"docforge/pkg/model"
)

// ErrTemplateNotFound marks a request for a template name the renderer does
// not carry. Callers distinguish it from engine failures with errors.Is.
var ErrTemplateNotFound = errors.New("render: template not found")

// RenderError describes a template engine failure with enough surrounding
// state to reproduce it: the template that failed, the engine's own error,
// the sorted top-level keys of the context it was rendered against, and a
// snapshot of the sections that historically cause the failures (risks and
// marketing carry the deepest nesting).
type RenderError struct {
	Template    string
	Err         error
	ContextKeys []string
	Risks       []model.RiskRecord
	Marketing   any
}

// NewRenderError captures the failing template, the engine error, and the
// diagnostic slice of the context it failed against.
func NewRenderError(template string, rc model.RenderContext, err error) *RenderError {
	renderErr := &RenderError{
		Template: template,
		Err:      err,
	}
	if rc != nil {
		renderErr.ContextKeys = rc.Keys()
		renderErr.Risks = rc.Risks()
		renderErr.Marketing = rc.Section("marketing")
	}
	return renderErr
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: template %s: %v (context keys: %s)",
		e.Template, e.Err, strings.Join(e.ContextKeys, ", "))
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Detail serializes the captured section snapshots for log output. It never
// fails; values that cannot be serialized are reported as such instead of
// masking the original render failure.
func (e *RenderError) Detail() string {
	var b strings.Builder
	fmt.Fprintf(&b, "template: %s\n", e.Template)
	fmt.Fprintf(&b, "engine: %v\n", e.Err)
	fmt.Fprintf(&b, "context keys: %s\n", strings.Join(e.ContextKeys, ", "))
	fmt.Fprintf(&b, "risks: %s\n", snapshotJSON(e.Risks))
	fmt.Fprintf(&b, "marketing: %s", snapshotJSON(e.Marketing))
	return b.String()
}

func snapshotJSON(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("<unserializable: %v>", err)
	}
	return string(raw)
}
