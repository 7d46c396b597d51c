package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrRendererNotFound is wrapped by lookups for unknown renderer names.
var ErrRendererNotFound = errors.New("render: renderer not found")

// Registry maps names to renderers. The first renderer registered is the
// default until SetDefault picks another. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	byName    map[string]Renderer
	preferred string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Renderer)}
}

// Register adds renderer under renderer.Name(). Blank and duplicate names are
// rejected.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[name]; taken {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.byName[name] = renderer
	if r.preferred == "" {
		r.preferred = name
	}
	return nil
}

// MustRegister is Register for init-time wiring; it panics on error.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// SetDefault picks the renderer Get returns for an empty name.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	r.preferred = name
	return nil
}

// Default names the renderer used for empty lookups.
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.preferred
}

// Get returns the named renderer, or the default for "".
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.preferred
	}
	if renderer, ok := r.byName[name]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	return r.names(func(Renderer) bool { return true })
}

// ByContentType lists the renderers whose media type (ignoring parameters)
// equals mediaType, sorted by name.
func (r *Registry) ByContentType(mediaType string) []string {
	want := baseMediaType(mediaType)
	return r.names(func(renderer Renderer) bool {
		return baseMediaType(renderer.ContentType()) == want
	})
}

func (r *Registry) names(keep func(Renderer) bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byName))
	for name, renderer := range r.byName {
		if keep(renderer) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func baseMediaType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
