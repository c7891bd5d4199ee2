package store

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// Registry owns store instances keyed by identifier. It is an explicit
// value: the application constructs exactly one at startup, passes it to
// whoever needs instance resolution, and tears it down explicitly. There is
// no package-level registry and no ambient scope lookup.
type Registry struct {
	mu        sync.Mutex
	logger    *log.Logger
	instances map[string]*Store
	nextID    int
}

// NewRegistry creates an empty registry. A nil logger defaults to stderr.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Registry{
		logger:    logger,
		instances: make(map[string]*Store),
	}
}

// Create allocates a fresh instance, applies the preloaded configuration,
// registers it under its identifier, and returns it. An empty Options.ID
// gets an auto-generated, monotonically increasing identifier. Creating
// over an existing identifier detaches the previous instance from the
// registry ("takes over"); the previous instance stays usable by whoever
// still holds it and is destroyed by them.
func (r *Registry) Create(opts Options) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if opts.ID == "" {
		r.nextID++
		opts.ID = fmt.Sprintf("flow-%d", r.nextID)
	}
	if opts.Logger == nil {
		opts.Logger = r.logger
	}

	if prev, ok := r.instances[opts.ID]; ok {
		r.logger.Warn("instance id reused, previous instance detached", "id", opts.ID)
		prev.onDestroy = nil
	}

	st := New(opts)
	st.onDestroy = func() { r.remove(st.id) }
	r.instances[st.id] = st
	return st
}

// Get returns the instance registered under id.
func (r *Registry) Get(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.instances[id]
	return st, ok
}

// Resolve finds the instance for the current call context. The caller
// passes the instance its enclosing scope already holds (or nil); the
// resolution order is: matching provided instance, then registry lookup by
// identifier, then create-new. A provided instance whose identifier
// conflicts with an explicitly requested one always forces recreation,
// even when an instance is registered under that identifier.
func (r *Registry) Resolve(id string, provided *Store, opts Options) *Store {
	if provided != nil {
		if id == "" || provided.ID() == id {
			return provided
		}
		opts.ID = id
		return r.Create(opts)
	}

	if id != "" {
		if st, ok := r.Get(id); ok {
			return st
		}
		opts.ID = id
	}
	return r.Create(opts)
}

// Dispose tears down the instance registered under id by invoking its
// destroy hook, which deregisters it. A missing instance is non-fatal but
// reportable: something already removed it.
func (r *Registry) Dispose(id string) {
	st, ok := r.Get(id)
	if !ok {
		r.logger.Warn("instance already removed", "id", id)
		return
	}
	st.Destroy()
}

// DisposeAll tears down every registered instance.
func (r *Registry) DisposeAll() {
	for _, id := range r.IDs() {
		r.Dispose(id)
	}
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.instances))
	for id := range r.instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, id)
}
