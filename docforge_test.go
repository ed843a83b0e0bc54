package docforge_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"docforge"
	"docforge/pkg/testsupport"
)

const exampleDataset = `project:
  name: Helios Gateway
  summary: Edge gateway consolidating partner API traffic.
objectives:
  - Consolidate partner ingress behind one gateway.
risks:
  technical:
    - title: Connection pool exhaustion
`

func writeDataset(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "project.yaml")
	if err := os.WriteFile(path, []byte(exampleDataset), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestGenerate_SingleTemplate(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	result, err := docforge.Generate(testsupport.Context(), writeDataset(t), "technical_spec", outDir)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Failed() {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	if len(result.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(result.Documents))
	}

	payload, err := os.ReadFile(filepath.Join(outDir, "technical_spec.md"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(payload) == 0 {
		t.Fatal("document is empty")
	}
}

func TestGenerateAll_DefaultsToEveryTemplate(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	result, err := docforge.GenerateAll(testsupport.Context(), writeDataset(t), nil, outDir)
	if err != nil {
		t.Fatalf("generate all: %v", err)
	}
	if len(result.Documents) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(result.Documents))
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(docforge.EmbeddedTemplates(), "*.tpl")
	if err != nil {
		t.Fatalf("glob templates: %v", err)
	}
	sort.Strings(names)

	want := []string{"marketing_brief.tpl", "project_plan.tpl", "technical_spec.tpl"}
	if len(names) != len(want) {
		t.Fatalf("embedded templates = %v, want %v", names, want)
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("embedded templates = %v, want %v", names, want)
		}
	}
}
