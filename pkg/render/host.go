package render

import (
	"sync"

	"github.com/matzehuels/animchart/pkg/errors"
)

// Host owns a set of containers addressed by UUID. Calls on one container
// are serialized in arrival order; different containers proceed
// independently.
type Host struct {
	mu         sync.Mutex
	containers map[string]*entry
}

type entry struct {
	mu sync.Mutex
	c  *Container
}

// NewHost returns an empty host.
func NewHost() *Host {
	return &Host{containers: make(map[string]*entry)}
}

// Create adds a container and returns its ID.
func (h *Host) Create(width, height float64, opts ...Option) string {
	c := NewContainer(width, height, opts...)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.containers[c.ID()] = &entry{c: c}
	return c.ID()
}

// With runs fn with exclusive access to the container id.
func (h *Host) With(id string, fn func(*Container) error) error {
	e, err := h.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.c)
}

// Delete removes a container. It reports whether the container existed.
func (h *Host) Delete(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.containers[id]; !ok {
		return false
	}
	delete(h.containers, id)
	return true
}

// Len returns the number of containers.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.containers)
}

// IDs returns the container IDs in no particular order.
func (h *Host) IDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.containers))
	for id := range h.containers {
		ids = append(ids, id)
	}
	return ids
}

func (h *Host) lookup(id string) (*entry, error) {
	if err := errors.ValidateContainerID(id); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.containers[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "container not found: %s", id)
	}
	return e, nil
}
