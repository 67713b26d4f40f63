package naming

import (
	"fmt"
	"strings"
	"sync"
)

// Registry hands out output filenames that collide neither with each other
// nor with files already present at the destination. Names differing only
// in case are treated as the same file. All methods are goroutine-safe.
type Registry struct {
	mu      sync.Mutex
	exists  func(name string) bool
	claimed map[string]bool
	next    map[string]int // base+ext → next suffix to try
}

// NewRegistry creates a registry. exists reports whether a filename is
// already taken at the destination; it may be nil.
func NewRegistry(exists func(name string) bool) *Registry {
	if exists == nil {
		exists = func(string) bool { return false }
	}
	return &Registry{
		exists:  exists,
		claimed: make(map[string]bool),
		next:    make(map[string]int),
	}
}

// Claim returns base+ext if it is free, otherwise the first free
// base_N+ext for N = 1, 2, ... The returned name is reserved.
func (r *Registry) Claim(base, ext string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	requested := base + ext
	if !r.taken(requested) {
		r.claimed[strings.ToLower(requested)] = true
		return requested
	}

	n := r.next[requested]
	if n == 0 {
		n = 1
	}
	for {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		n++
		if !r.taken(candidate) {
			r.next[requested] = n
			r.claimed[strings.ToLower(candidate)] = true
			return candidate
		}
	}
}

// Claimed reports whether name has been handed out by this registry.
func (r *Registry) Claimed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.claimed[strings.ToLower(name)]
}

// Len returns the number of names handed out.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.claimed)
}

func (r *Registry) taken(name string) bool {
	return r.claimed[strings.ToLower(name)] || r.exists(name)
}
