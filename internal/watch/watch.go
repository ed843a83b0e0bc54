package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"docforge/internal/logging"
)

const defaultDebounce = 250 * time.Millisecond

// Config describes one watch session.
type Config struct {
	// Paths lists files and directories to observe. Files are watched via
	// their parent directory so editors that replace files on save (write to
	// temp, rename over) keep triggering events.
	Paths []string

	// Debounce collapses event bursts into a single OnChange call. Defaults
	// to 250ms.
	Debounce time.Duration

	// OnChange runs after the debounce window closes. Required.
	OnChange func(ctx context.Context)

	// Logger defaults to the package component logger.
	Logger *slog.Logger
}

// target is one resolved watch entry: the directory registered with fsnotify
// plus an optional file name filter inside it.
type target struct {
	dir  string
	name string
}

// Run observes the configured paths until ctx is cancelled, invoking
// cfg.OnChange after each debounced burst of changes. Cancellation is the
// normal way to stop a session and returns nil.
func Run(ctx context.Context, cfg Config) error {
	if ctx == nil {
		return errors.New("watch: context is required")
	}
	if cfg.OnChange == nil {
		return errors.New("watch: OnChange callback is required")
	}
	if len(cfg.Paths) == 0 {
		return errors.New("watch: at least one path is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("watch")
	}

	targets, err := resolveTargets(cfg.Paths)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()

	added := make(map[string]bool)
	for _, t := range targets {
		if added[t.dir] {
			continue
		}
		if err := watcher.Add(t.dir); err != nil {
			return fmt.Errorf("watch: add %s: %w", t.dir, err)
		}
		added[t.dir] = true
	}

	logger.Info("watching for changes",
		slog.Int("paths", len(cfg.Paths)),
		slog.Duration("debounce", cfg.Debounce))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watch: events channel closed")
			}
			if !matches(targets, event) {
				continue
			}
			logger.Debug("change detected",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(cfg.Debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(cfg.Debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watch: errors channel closed")
			}
			logger.Error("watcher error", slog.Any("error", err))

		case <-fire:
			timer = nil
			fire = nil
			cfg.OnChange(ctx)
		}
	}
}

func resolveTargets(paths []string) ([]target, error) {
	targets := make([]target, 0, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watch: stat %s: %w", path, err)
		}
		if info.IsDir() {
			targets = append(targets, target{dir: abs})
		} else {
			targets = append(targets, target{dir: filepath.Dir(abs), name: filepath.Base(abs)})
		}
	}
	if len(targets) == 0 {
		return nil, errors.New("watch: at least one path is required")
	}
	return targets, nil
}

// matches reports whether the event concerns a watched file. Chmod-only
// events are ignored; they fire on reads and permission churn, not content
// changes.
func matches(targets []target, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	dir := filepath.Dir(event.Name)
	base := filepath.Base(event.Name)
	for _, t := range targets {
		if dir != t.dir {
			continue
		}
		if t.name == "" || t.name == base {
			return true
		}
	}
	return false
}
