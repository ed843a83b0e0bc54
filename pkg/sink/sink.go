// Package sink persists rendered documents. The filesystem sink writes each
// document atomically, so a crashed or failed run never leaves a partial file
// where a previous good document used to be.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is one rendered artifact ready to be persisted.
type Document struct {
	// Template names the template the document was rendered from.
	Template string
	// Name is the file name the document is stored under, relative to the
	// sink root.
	Name string
	// ContentType describes the payload, informational only for file sinks.
	ContentType string
	// Content is the rendered payload.
	Content []byte
}

// Sink persists rendered documents.
type Sink interface {
	// Write persists one document. A failure is reported as a *WriteError and
	// affects only this document.
	Write(ctx context.Context, doc Document) error
}

// WriteError reports a document that could not be persisted. Other documents
// in the same batch are unaffected.
type WriteError struct {
	// Path is the destination that failed.
	Path string
	// Err is the underlying filesystem failure.
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("sink: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewWriteError wraps an underlying failure with the destination path.
func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

const tempFilePrefix = "docforge-tmp-"

// FSSink writes documents under a root directory.
type FSSink struct {
	root string
	perm os.FileMode
}

var _ Sink = (*FSSink)(nil)

// NewFS constructs a filesystem sink rooted at dir.
func NewFS(dir string) (*FSSink, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("sink: output directory is required")
	}
	return &FSSink{root: filepath.Clean(trimmed), perm: 0o644}, nil
}

// Root returns the directory documents are written under.
func (s *FSSink) Root() string {
	return s.root
}

// Write persists doc under the sink root, creating parent directories as
// needed. The content lands under its final name only after it has been fully
// written and synced.
func (s *FSSink) Write(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := strings.TrimSpace(doc.Name)
	if name == "" {
		return NewWriteError(s.root, fmt.Errorf("document name is required"))
	}

	target := filepath.Join(s.root, name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return NewWriteError(target, err)
	}
	if err := writeFileAtomic(target, doc.Content, s.perm); err != nil {
		return NewWriteError(target, err)
	}
	return nil
}

// writeFileAtomic writes data to a file atomically by writing to a temp file
// in the same directory and renaming it over the target.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}

	return nil
}
