package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docforge/internal/watch"
)

func TestRun_InvokesCallbackOnFileChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dataset := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(dataset, []byte("project:\n  name: One\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fired := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watch.Run(ctx, watch.Config{
			Paths:    []string{dataset},
			Debounce: 50 * time.Millisecond,
			OnChange: func(context.Context) {
				fired <- struct{}{}
			},
		})
	}()

	// Give the watcher a moment to register before touching the file.
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, os.WriteFile(dataset, []byte("project:\n  name: Two\n"), 0o644))

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("timed out waiting for change callback")
	}

	cancel()
	require.NoError(t, <-done, "cancellation should stop the session cleanly")
}

func TestRun_DebouncesBursts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dataset := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(dataset, []byte("a: 1\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- watch.Run(ctx, watch.Config{
			Paths:    []string{dataset},
			Debounce: 300 * time.Millisecond,
			OnChange: func(context.Context) {
				calls.Add(1)
			},
		})
	}()

	time.Sleep(150 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(dataset, []byte("a: 2\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	// One debounce window plus slack.
	time.Sleep(900 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load(), "burst should collapse into one callback")

	cancel()
	require.NoError(t, <-done)
}

func TestRun_WatchesDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fired := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watch.Run(ctx, watch.Config{
			Paths:    []string{dir},
			Debounce: 50 * time.Millisecond,
			OnChange: func(context.Context) {
				fired <- struct{}{}
			},
		})
	}()

	time.Sleep(150 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new_template.tpl"), []byte("{{ project.name }}"), 0o644))

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("timed out waiting for directory change callback")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRun_ValidatesConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	err := watch.Run(ctx, watch.Config{OnChange: func(context.Context) {}})
	assert.Error(t, err, "missing paths should be rejected")

	err = watch.Run(ctx, watch.Config{Paths: []string{t.TempDir()}})
	assert.Error(t, err, "missing callback should be rejected")

	err = watch.Run(ctx, watch.Config{
		Paths:    []string{filepath.Join(t.TempDir(), "absent.yaml")},
		OnChange: func(context.Context) {},
	})
	assert.Error(t, err, "missing path should be rejected")
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	dir := t.TempDir()

	done := make(chan error, 1)
	go func() {
		done <- watch.Run(ctx, watch.Config{
			Paths:    []string{dir},
			OnChange: func(context.Context) {},
		})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch session did not stop after cancel")
	}
}
