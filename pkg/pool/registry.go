package pool

import (
	"sync"
	"time"
)

// Registry is a memoizing map from room name to Pool. Pools are created
// lazily on first Get and share the registry's eviction interval and
// hooks.
type Registry struct {
	mu            sync.RWMutex
	pools         map[string]*Pool
	evictInterval time.Duration
	hooks         Hooks
}

// NewRegistry creates an empty registry. evictInterval and hooks are
// passed through to every pool it creates.
func NewRegistry(evictInterval time.Duration, hooks Hooks) *Registry {
	return &Registry{
		pools:         make(map[string]*Pool),
		evictInterval: evictInterval,
		hooks:         hooks,
	}
}

// Get returns the pool for name, creating it on first use.
func (r *Registry) Get(name string) *Pool {
	r.mu.RLock()
	p, ok := r.pools[name]
	r.mu.RUnlock()
	if ok {
		return p
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if p, ok = r.pools[name]; ok {
		return p
	}
	p = NewPool(name, r.evictInterval, r.hooks)
	r.pools[name] = p
	return p
}

// Lookup returns the pool for name without creating one.
func (r *Registry) Lookup(name string) (*Pool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pools[name]
	return p, ok
}

// Names returns a snapshot of the current room names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.pools))
	for name := range r.pools {
		names = append(names, name)
	}
	return names
}

// Dispose disposes the named pool and forgets it. It reports whether the
// name was known. A later Get for the same name creates a fresh pool.
func (r *Registry) Dispose(name string) bool {
	r.mu.Lock()
	p, ok := r.pools[name]
	if ok {
		delete(r.pools, name)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	p.Dispose()
	return true
}

// DisposeAll disposes every pool and empties the registry.
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	pools := make([]*Pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	r.pools = make(map[string]*Pool)
	r.mu.Unlock()

	for _, p := range pools {
		p.Dispose()
	}
}
