package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	pkgdataset "docforge/pkg/dataset"
)

// Loader implements pkgdataset.Loader by delegating to file or fs.FS
// strategies. Documents are parsed as YAML, which also covers JSON sources.
// Loading is all-or-nothing: any read or parse failure yields a LoadError and
// no partial dataset.
type Loader struct {
	fs fs.FS
}

// Ensure the implementation satisfies the public interface.
var _ pkgdataset.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgdataset.LoaderOptions) pkgdataset.Loader {
	return &Loader{fs: options.FileSystem}
}

// Load fetches a project description from the provided source and wraps its
// parsed sections in a Dataset.
func (l *Loader) Load(ctx context.Context, src pkgdataset.Source) (pkgdataset.Dataset, error) {
	if src == nil {
		return pkgdataset.Dataset{}, errors.New("dataset loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return pkgdataset.Dataset{}, err
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case pkgdataset.SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case pkgdataset.SourceKindFS:
		if l.fs == nil {
			err = errors.New("fs source used without a configured filesystem")
		} else {
			data, err = fs.ReadFile(l.fs, src.Location())
		}
	default:
		err = fmt.Errorf("unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return pkgdataset.Dataset{}, pkgdataset.NewLoadError(src.Location(), err)
	}

	sections, err := parseSections(data)
	if err != nil {
		return pkgdataset.Dataset{}, pkgdataset.NewLoadError(src.Location(), err)
	}

	return pkgdataset.New(src, sections)
}

// parseSections decodes a document into its top-level section map. An empty
// or null document is a valid empty mapping; a non-mapping document (say, a
// bare sequence) is a parse failure.
func parseSections(data []byte) (map[string]any, error) {
	var sections map[string]any
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if sections == nil {
		sections = map[string]any{}
	}
	return sections, nil
}
