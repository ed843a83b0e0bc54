package docs_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"docforge/pkg/dataset"
	"docforge/pkg/model"
	"docforge/pkg/render"
	"docforge/pkg/renderers/docs"
	"docforge/pkg/testsupport"
)

var fixedClock = func() time.Time {
	return time.Date(2026, time.August, 25, 10, 30, 0, 0, time.UTC)
}

func TestRenderer_RenderProjectPlan(t *testing.T) {
	out := renderFixture(t, "project_plan")

	wantLines := []string{
		"# Atlas Migration: Project Plan",
		"| Manager | Priya Nair |",
		"| Start | January 12, 2026 |",
		"| Traffic shadowing | March 02, 2026 | Mirror reads to the new stack |",
		"| Schema drift | Technical | 8/10 | 4/10 | Nightly checksum audits | Lou Chen | Mitigating |",
		"| Unbounded queue growth | Technical | 5/10 | 5/10 | TBD | Unassigned | Open |",
		"| Launch slips past the conference | Business | 5/10 | 3/10 | TBD | Unassigned | Open |",
		"Total: 120000 EUR",
		"- **Cutover rollback**: Flip DNS back within 15 minutes",
		"Generated by docforge from project_plan on August 25, 2026.",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Errorf("project plan missing %q\nrendered:\n%s", want, out)
		}
	}
}

func TestRenderer_RenderTechnicalSpec(t *testing.T) {
	out := renderFixture(t, "technical_spec")

	wantLines := []string{
		"# Atlas Migration: Technical Specification",
		"| Status | In Progress |",
		"Strangler-fig over the existing monolith.",
		"- Zero-downtime cutover",
		"### CutoverPlan",
		"- `service`",
		"| Methodology | Trunk Based |",
		"- **Schema drift** (impact 8/10): Nightly checksum audits",
		"- [Strangler Fig](https://example.com/strangler)",
		"- [https://example.com/runbook](https://example.com/runbook)",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Errorf("technical spec missing %q\nrendered:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Launch slips past the conference") {
		t.Error("technical spec should not list business risks")
	}
}

func TestRenderer_RenderMarketingBrief(t *testing.T) {
	out := renderFixture(t, "marketing_brief")

	wantLines := []string{
		"# Atlas Migration: Marketing Brief",
		"Ship faster, break nothing.",
		"- Platform teams",
		"- Developer Newsletter",
		"Planned launch: October 15, 2026.",
		"- **Launch slips past the conference** (probability 3/10): Marketing window closes.",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Errorf("marketing brief missing %q\nrendered:\n%s", want, out)
		}
	}
	if strings.Contains(out, "  Ship faster") {
		t.Error("tagline should be trimmed")
	}
	if strings.Contains(out, "<script>") || strings.Contains(out, "alert(1)") {
		t.Error("positioning markup should be sanitized")
	}
}

func TestRenderer_EmptyDatasetStillRenders(t *testing.T) {
	renderer := newRenderer(t)
	assembler := model.NewAssembler(model.WithClock(fixedClock))
	rc := assembler.Assemble(testsupport.LoadDataset(t, filepath.Join("testdata", "empty.yaml")), "project_plan")

	out, err := renderer.Render(testsupport.Context(), "project_plan", rc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render empty dataset: %v", err)
	}

	rendered := string(out)
	wantLines := []string{
		"# Untitled Project: Project Plan",
		"| Manager | Unassigned |",
		"| Start | TBD |",
		"Budget not yet allocated.",
		"- None recorded.",
		"- Not defined.",
	}
	for _, want := range wantLines {
		if !strings.Contains(rendered, want) {
			t.Errorf("empty render missing %q\nrendered:\n%s", want, rendered)
		}
	}

	// A dataset with no sections at all renders the same empty branches.
	bare := assembler.Assemble(dataset.MustNew(dataset.SourceFromFile("bare.yaml"), nil), "project_plan")
	out, err = renderer.Render(testsupport.Context(), "project_plan", bare, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render bare dataset: %v", err)
	}
	for _, want := range wantLines {
		if !strings.Contains(string(out), want) {
			t.Errorf("bare render missing %q", want)
		}
	}
}

func TestRenderer_RenderIsDeterministic(t *testing.T) {
	renderer := newRenderer(t)
	assembler := model.NewAssembler(model.WithClock(fixedClock), model.WithWorkDir("/srv/atlas"))
	ds := testsupport.LoadDataset(t, filepath.Join("testdata", "project.yaml"))

	first, err := renderer.Render(testsupport.Context(), "project_plan", assembler.Assemble(ds, "project_plan"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := renderer.Render(testsupport.Context(), "project_plan", assembler.Assemble(ds, "project_plan"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("second render: %v", err)
	}

	if string(first) != string(second) {
		t.Error("same template and dataset at the same instant must render byte-identical output")
	}
}

func TestRenderer_TemplateNotFound(t *testing.T) {
	renderer := newRenderer(t)
	rc := model.NewAssembler(model.WithClock(fixedClock)).
		Assemble(testsupport.LoadDataset(t, filepath.Join("testdata", "project.yaml")), "nope")

	_, err := renderer.Render(testsupport.Context(), "nope", rc, render.RenderOptions{})
	if !errors.Is(err, render.ErrTemplateNotFound) {
		t.Fatalf("want ErrTemplateNotFound, got %v", err)
	}
}

func TestRenderer_RenderErrorCarriesDiagnostics(t *testing.T) {
	dir := t.TempDir()
	broken := "{{ project.name|no_such_filter }}"
	if err := os.WriteFile(filepath.Join(dir, "broken.tpl"), []byte(broken), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	renderer, err := docs.New(docs.WithTemplatesDir(dir))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	rc := model.NewAssembler(model.WithClock(fixedClock)).
		Assemble(testsupport.LoadDataset(t, filepath.Join("testdata", "project.yaml")), "broken")

	_, err = renderer.Render(testsupport.Context(), "broken", rc, render.RenderOptions{})
	if err == nil {
		t.Fatal("expected render failure")
	}

	var renderErr *render.RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("want *render.RenderError, got %T: %v", err, err)
	}
	if renderErr.Template != "broken" {
		t.Errorf("template name = %q, want broken", renderErr.Template)
	}
	if want := len(model.SectionKeys()) + 2; len(renderErr.ContextKeys) != want {
		t.Errorf("context keys = %d, want %d", len(renderErr.ContextKeys), want)
	}
	if len(renderErr.Risks) == 0 {
		t.Error("risk snapshot should not be empty")
	}
	if errors.Is(err, render.ErrTemplateNotFound) {
		t.Error("render failure must stay distinct from template-not-found")
	}
	if detail := renderErr.Detail(); !strings.Contains(detail, "Schema drift") {
		t.Errorf("detail should snapshot risks, got:\n%s", detail)
	}
}

func TestRenderer_ExtraValuesCannotShadowReserved(t *testing.T) {
	dir := t.TempDir()
	tpl := "{{ generation.template }} {{ audience_note }}"
	if err := os.WriteFile(filepath.Join(dir, "extra.tpl"), []byte(tpl), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	renderer, err := docs.New(docs.WithTemplatesDir(dir))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	rc := model.NewAssembler(model.WithClock(fixedClock)).
		Assemble(testsupport.LoadDataset(t, filepath.Join("testdata", "project.yaml")), "extra")

	out, err := renderer.Render(testsupport.Context(), "extra", rc, render.RenderOptions{
		Extra: map[string]any{
			"generation":    "shadowed",
			"audience_note": "internal",
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "extra internal" {
		t.Fatalf("rendered %q, want %q", got, "extra internal")
	}
}

func TestRenderer_Templates(t *testing.T) {
	renderer := newRenderer(t)

	names, err := renderer.Templates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	want := []string{"marketing_brief", "project_plan", "technical_spec"}
	if diff := testsupport.CompareGolden(want, names); diff != "" {
		t.Fatalf("template names mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_OutputName(t *testing.T) {
	renderer := newRenderer(t)

	cases := []struct {
		in   string
		want string
	}{
		{"project_plan", "project_plan.md"},
		{"technical_spec.tpl", "technical_spec.md"},
	}
	for _, tc := range cases {
		if got := renderer.OutputName(tc.in); got != tc.want {
			t.Errorf("OutputName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func renderFixture(t *testing.T, template string) string {
	t.Helper()

	renderer := newRenderer(t)
	assembler := model.NewAssembler(
		model.WithClock(fixedClock),
		model.WithWorkDir("/srv/atlas"),
	)
	rc := assembler.Assemble(testsupport.LoadDataset(t, filepath.Join("testdata", "project.yaml")), template)

	out, err := renderer.Render(testsupport.Context(), template, rc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render %s: %v", template, err)
	}
	return string(out)
}

func newRenderer(t *testing.T) *docs.Renderer {
	t.Helper()

	renderer, err := docs.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}
