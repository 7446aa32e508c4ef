package preview

import (
	"sync"

	"github.com/google/uuid"
)

// Resource is a displayable rendered document (a PDF payload). It has
// exactly one owner, the synchronizer that produced it; once the owner
// releases it, no other code path may keep a reference.
type Resource struct {
	id string

	mu       sync.Mutex
	data     []byte
	released bool
}

func newResource(data []byte) *Resource {
	return &Resource{id: uuid.NewString(), data: data}
}

// ID identifies this resource instance.
func (r *Resource) ID() string { return r.id }

// Bytes returns the rendered payload, or nil after release.
func (r *Resource) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// Release frees the payload. Safe to call more than once; only the first
// call has an effect and returns true.
func (r *Resource) Release() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return false
	}
	r.released = true
	r.data = nil
	return true
}

// Released reports whether Release has been called.
func (r *Resource) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
