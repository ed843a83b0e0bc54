package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// FilterFunc is the engine-agnostic shape of a template filter. Input is the
// piped value, param the optional filter argument. Adapters bridge this shape
// onto whatever the underlying template engine expects.
type FilterFunc func(input any, param any) (any, error)

// FilterRegistry stores named filters, providing discovery and duplication
// safeguards. A fresh registry already carries the built-in document filters;
// callers layer project-specific ones on top before the renderer is built.
type FilterRegistry struct {
	mu      sync.RWMutex
	filters map[string]FilterFunc
}

// NewFilterRegistry creates a registry pre-populated with the built-in
// filters: format_date, labelize, and sanitize.
func NewFilterRegistry() *FilterRegistry {
	r := &FilterRegistry{
		filters: make(map[string]FilterFunc),
	}
	r.filters["format_date"] = FormatDate
	r.filters["labelize"] = Labelize
	r.filters["sanitize"] = Sanitize
	return r
}

// Register adds a filter under name. Duplicate names return an error so a
// caller cannot silently replace a built-in.
func (r *FilterRegistry) Register(name string, fn FilterFunc) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("render: filter name is required")
	}
	if fn == nil {
		return fmt.Errorf("render: filter %q: function is required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.filters[name]; exists {
		return fmt.Errorf("render: filter %q already registered", name)
	}

	r.filters[name] = fn
	return nil
}

// Get retrieves a filter by name.
func (r *FilterRegistry) Get(name string) (FilterFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.filters[name]
	return fn, ok
}

// Names returns a sorted list of registered filter names.
func (r *FilterRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the registered filters in the raw shape template
// adapters accept at construction.
func (r *FilterRegistry) Map() map[string]func(input any, param any) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]func(input any, param any) (any, error), len(r.filters))
	for name, fn := range r.filters {
		out[name] = fn
	}
	return out
}

// defaultDateLayout renders timestamps the way the documents spell dates.
const defaultDateLayout = "January 02, 2006"

// dateLayouts are tried in order against string inputs. RFC 3339 first, then
// the progressively looser shapes datasets carry dates in.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatDate rewrites an ISO-8601-ish date string into a human-readable form.
// The filter is total: values that are not dates, including partially
// date-like strings, pass through unchanged rather than failing the render.
// An optional string param overrides the output layout.
func FormatDate(input any, param any) (any, error) {
	layout := defaultDateLayout
	if p, ok := param.(string); ok && strings.TrimSpace(p) != "" {
		layout = p
	}

	switch v := input.(type) {
	case time.Time:
		return v.Format(layout), nil
	case string:
		trimmed := strings.TrimSpace(v)
		for _, candidate := range dateLayouts {
			if t, err := time.Parse(candidate, trimmed); err == nil {
				return t.Format(layout), nil
			}
		}
		return v, nil
	default:
		return input, nil
	}
}

var labelWordPattern = regexp.MustCompile(`[_\-\s]+`)

// Labelize converts an identifier-style value into a human-friendly label,
// splitting on underscores, dashes, and camelCase boundaries. Non-string
// input is stringified first; nil maps to the empty label. The filter never
// fails.
func Labelize(input any, _ any) (any, error) {
	if input == nil {
		return "", nil
	}
	raw, ok := input.(string)
	if !ok {
		raw = fmt.Sprint(input)
	}
	if raw == "" {
		return "", nil
	}

	var segments []string
	for _, word := range labelWordPattern.Split(raw, -1) {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(splitCamel(word)))
	}
	return strings.TrimSpace(strings.Join(segments, " ")), nil
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isCamelBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isCamelBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

var (
	sanitizePolicyOnce sync.Once
	sanitizePolicy     *bluemonday.Policy
)

// Sanitize strips markup from a string so dataset text cannot smuggle HTML
// into rendered documents. Non-string input passes through unchanged.
func Sanitize(input any, _ any) (any, error) {
	raw, ok := input.(string)
	if !ok {
		return input, nil
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	return strings.TrimSpace(textPolicy().Sanitize(trimmed)), nil
}

func textPolicy() *bluemonday.Policy {
	sanitizePolicyOnce.Do(func() {
		sanitizePolicy = bluemonday.StrictPolicy()
	})
	return sanitizePolicy
}
