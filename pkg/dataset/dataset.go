package dataset

import (
	"errors"
	"sort"
)

// Dataset wraps the parsed section tree of one project description together
// with its origin. A Dataset is created fresh per generation run, is owned by
// that run, and is treated as read-only after construction: accessors hand out
// the stored subtrees directly, so callers must not mutate them.
type Dataset struct {
	source   Source
	sections map[string]any
}

// New constructs a Dataset wrapper. An empty or nil section map is a valid
// dataset (a description may omit every section); a missing source is not.
func New(src Source, sections map[string]any) (Dataset, error) {
	if src == nil {
		return Dataset{}, errors.New("dataset: source is required")
	}

	clone := make(map[string]any, len(sections))
	for name, value := range sections {
		clone[name] = value
	}
	return Dataset{source: src, sections: clone}, nil
}

// MustNew panics if the dataset cannot be created. Useful for tests.
func MustNew(src Source, sections map[string]any) Dataset {
	d, err := New(src, sections)
	if err != nil {
		panic(err)
	}
	return d
}

// Source returns the origin metadata for the dataset.
func (d Dataset) Source() Source {
	return d.source
}

// Location returns the string identifier for the origin.
func (d Dataset) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Section returns the named top-level section and whether it was present in
// the source document. Absent sections are not an error; the model package
// substitutes typed defaults during context assembly.
func (d Dataset) Section(name string) (any, bool) {
	value, ok := d.sections[name]
	return value, ok
}

// Has reports whether the named section appeared in the source document.
func (d Dataset) Has(name string) bool {
	_, ok := d.sections[name]
	return ok
}

// Sections returns the sorted names of the sections present in the source.
func (d Dataset) Sections() []string {
	names := make([]string, 0, len(d.sections))
	for name := range d.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of sections present in the source.
func (d Dataset) Len() int {
	return len(d.sections)
}
