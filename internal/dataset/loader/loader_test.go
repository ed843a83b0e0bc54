package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"docforge/internal/dataset/loader"
	pkgdataset "docforge/pkg/dataset"
)

func TestLoad_FileSource(t *testing.T) {
	l := loader.New(pkgdataset.NewLoaderOptions())

	ds, err := l.Load(context.Background(), pkgdataset.SourceFromFile(filepath.Join("testdata", "project.yaml")))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	value, ok := ds.Section("project")
	if !ok {
		t.Fatal("project section missing")
	}
	if diff := cmp.Diff(map[string]any{"name": "Atlas", "version": "1.4.0"}, value); diff != "" {
		t.Fatalf("project mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FSSource(t *testing.T) {
	files := fstest.MapFS{
		"descriptions/atlas.yaml": &fstest.MapFile{
			Data: []byte("project:\n  name: Atlas\n"),
		},
	}
	l := loader.New(pkgdataset.NewLoaderOptions(pkgdataset.WithFileSystem(files)))

	ds, err := l.Load(context.Background(), pkgdataset.SourceFromFS("descriptions/atlas.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ds.Has("project") {
		t.Fatal("project section missing")
	}
}

func TestLoad_FSSourceWithoutFilesystem(t *testing.T) {
	l := loader.New(pkgdataset.NewLoaderOptions())

	_, err := l.Load(context.Background(), pkgdataset.SourceFromFS("atlas.yaml"))
	var loadErr *pkgdataset.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("want *LoadError, got %T: %v", err, err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	l := loader.New(pkgdataset.NewLoaderOptions())

	_, err := l.Load(context.Background(), pkgdataset.SourceFromFile(filepath.Join("testdata", "absent.yaml")))

	var loadErr *pkgdataset.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("want *LoadError, got %T: %v", err, err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("load error should preserve the underlying cause: %v", err)
	}
	if loadErr.Source != filepath.Join("testdata", "absent.yaml") {
		t.Errorf("source = %q", loadErr.Source)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	l := loader.New(pkgdataset.NewLoaderOptions())

	_, err := l.Load(context.Background(), pkgdataset.SourceFromFile(filepath.Join("testdata", "invalid.yaml")))

	var loadErr *pkgdataset.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("want *LoadError, got %T: %v", err, err)
	}
}

func TestLoad_NonMappingDocument(t *testing.T) {
	files := fstest.MapFS{
		"list.yaml": &fstest.MapFile{Data: []byte("- just\n- a\n- list\n")},
	}
	l := loader.New(pkgdataset.NewLoaderOptions(pkgdataset.WithFileSystem(files)))

	_, err := l.Load(context.Background(), pkgdataset.SourceFromFS("list.yaml"))

	var loadErr *pkgdataset.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("want *LoadError, got %T: %v", err, err)
	}
}

func TestLoad_EmptyDocument(t *testing.T) {
	files := fstest.MapFS{
		"empty.yaml": &fstest.MapFile{Data: nil},
	}
	l := loader.New(pkgdataset.NewLoaderOptions(pkgdataset.WithFileSystem(files)))

	ds, err := l.Load(context.Background(), pkgdataset.SourceFromFS("empty.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Len() != 0 {
		t.Fatalf("len = %d, want 0", ds.Len())
	}
}

func TestLoad_JSONDocument(t *testing.T) {
	files := fstest.MapFS{
		"project.json": &fstest.MapFile{
			Data: []byte(`{"project": {"name": "Atlas"}}`),
		},
	}
	l := loader.New(pkgdataset.NewLoaderOptions(pkgdataset.WithFileSystem(files)))

	ds, err := l.Load(context.Background(), pkgdataset.SourceFromFS("project.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ds.Has("project") {
		t.Fatal("project section missing")
	}
}

func TestLoad_NilSource(t *testing.T) {
	l := loader.New(pkgdataset.NewLoaderOptions())

	if _, err := l.Load(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil source")
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	l := loader.New(pkgdataset.NewLoaderOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Load(ctx, pkgdataset.SourceFromFile(filepath.Join("testdata", "project.yaml")))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
