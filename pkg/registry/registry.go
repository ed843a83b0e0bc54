package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrProjectNotFound reports an id with no registered project behind it.
var ErrProjectNotFound = errors.New("registry: project not found")

const stateVersion = 1

// ProjectRecord is one registered project: a named pointer at a dataset path
// plus bookkeeping metadata. Records are value types; mutating a returned
// record never changes the store.
type ProjectRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// state is the on-disk document. Current holds the id of the active project,
// empty when none has been selected.
type state struct {
	Version  int                      `json:"version"`
	Projects map[string]ProjectRecord `json:"projects"`
	Current  string                   `json:"current,omitempty"`
}

// Option adjusts store construction.
type Option func(*Store)

// WithPath overrides the state file location.
func WithPath(path string) Option {
	return func(s *Store) {
		s.path = path
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides the record id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Store keeps the project registry: a mapping of id to ProjectRecord plus a
// current-project pointer, persisted as JSON. Every mutation is written back
// before it returns, so concurrent processes see a consistent file even if
// one of them crashes mid-session.
type Store struct {
	path  string
	clock func() time.Time
	newID func() string

	mu    sync.RWMutex
	state state
}

// DefaultPath returns the conventional state location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("registry: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".docforge", "projects.json"), nil
}

// Open loads the registry from disk, starting empty when no state file exists
// yet. A file that exists but cannot be parsed is an error rather than a
// silent reset: unlike a cache, registry state is not rebuildable.
func Open(options ...Option) (*Store, error) {
	s := &Store{
		clock: time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		s.path = path
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Create registers a new project and persists the updated state. The record
// id is generated, never caller-supplied.
func (s *Store) Create(name, path, description string) (ProjectRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProjectRecord{}, errors.New("registry: project name is required")
	}

	record := ProjectRecord{
		ID:          s.newID(),
		Name:        name,
		Path:        strings.TrimSpace(path),
		Description: strings.TrimSpace(description),
		CreatedAt:   s.clock().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.state.Projects[record.ID]; exists {
		return ProjectRecord{}, fmt.Errorf("registry: duplicate project id %q", record.ID)
	}
	s.state.Projects[record.ID] = record

	if err := s.save(); err != nil {
		delete(s.state.Projects, record.ID)
		return ProjectRecord{}, err
	}
	return record, nil
}

// Get returns the record registered under id, reporting presence via the
// second return value.
func (s *Store) Get(id string) (ProjectRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.state.Projects[id]
	return record, ok
}

// List returns a copy of every registered project keyed by id.
func (s *Store) List() map[string]ProjectRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]ProjectRecord, len(s.state.Projects))
	for id, record := range s.state.Projects {
		out[id] = record
	}
	return out
}

// Records returns every registered project ordered by creation time, then
// name. Listing surfaces want a stable order; the mapping form above matches
// the persistence shape.
func (s *Store) Records() []ProjectRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ProjectRecord, 0, len(s.state.Projects))
	for _, record := range s.state.Projects {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Current returns the active project, if one has been selected and still
// exists.
func (s *Store) Current() (ProjectRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.Current == "" {
		return ProjectRecord{}, false
	}
	record, ok := s.state.Projects[s.state.Current]
	return record, ok
}

// SetCurrent marks the project with the given id as active. It reports false
// when the id is unknown; persistence failures are returned as errors with
// the previous selection restored.
func (s *Store) SetCurrent(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Projects[id]; !ok {
		return false, nil
	}

	previous := s.state.Current
	s.state.Current = id
	if err := s.save(); err != nil {
		s.state.Current = previous
		return false, err
	}
	return true, nil
}

// Len returns the number of registered projects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Projects)
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state{Version: stateVersion, Projects: make(map[string]ProjectRecord)}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("registry: read state: %w", err)
	}

	var loaded state
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("registry: parse state %s: %w", s.path, err)
	}
	if loaded.Projects == nil {
		loaded.Projects = make(map[string]ProjectRecord)
	}
	if loaded.Version == 0 {
		loaded.Version = stateVersion
	}
	s.state = loaded
	return nil
}

// save persists the state with a temp file and rename so a crash mid-write
// never leaves a truncated registry. Callers hold the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("registry: encode state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("registry: create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".projects-*.json.tmp")
	if err != nil {
		return fmt.Errorf("registry: create temp state: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("registry: write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("registry: sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("registry: close state: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("registry: chmod state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("registry: replace state: %w", err)
	}
	return nil
}
