package sink_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docforge/pkg/sink"
)

func TestFSSink_WriteCreatesParents(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out", "docs")
	s, err := sink.NewFS(root)
	require.NoError(t, err)

	doc := sink.Document{
		Template:    "project_plan",
		Name:        "project_plan.md",
		ContentType: "text/markdown; charset=utf-8",
		Content:     []byte("# Plan\n"),
	}
	require.NoError(t, s.Write(context.Background(), doc))

	data, err := os.ReadFile(filepath.Join(root, "project_plan.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Plan\n", string(data))

	info, err := os.Stat(filepath.Join(root, "project_plan.md"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFSSink_OverwriteLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	s, err := sink.NewFS(root)
	require.NoError(t, err)

	doc := sink.Document{Name: "doc.md", Content: []byte("first")}
	require.NoError(t, s.Write(context.Background(), doc))

	doc.Content = []byte("second")
	require.NoError(t, s.Write(context.Background(), doc))

	data, err := os.ReadFile(filepath.Join(root, "doc.md"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	leftovers, err := filepath.Glob(filepath.Join(root, "docforge-tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "atomic write must clean up temp files")
}

func TestFSSink_RequiresDocumentName(t *testing.T) {
	s, err := sink.NewFS(t.TempDir())
	require.NoError(t, err)

	err = s.Write(context.Background(), sink.Document{Name: "  "})

	var writeErr *sink.WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestFSSink_WriteFailureIsWriteError(t *testing.T) {
	root := t.TempDir()
	// Block the parent directory with a plain file.
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocked"), []byte("x"), 0o644))

	s, err := sink.NewFS(root)
	require.NoError(t, err)

	err = s.Write(context.Background(), sink.Document{Name: filepath.Join("blocked", "doc.md"), Content: []byte("x")})

	var writeErr *sink.WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Contains(t, writeErr.Path, "blocked")
}

func TestFSSink_CanceledContext(t *testing.T) {
	root := t.TempDir()
	s, err := sink.NewFS(root)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Write(ctx, sink.Document{Name: "doc.md", Content: []byte("x")})
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(root, "doc.md"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "no file should be written after cancellation")
}

func TestNewFS_RequiresDirectory(t *testing.T) {
	_, err := sink.NewFS("")
	require.Error(t, err)

	_, err = sink.NewFS("   ")
	require.Error(t, err)
}
