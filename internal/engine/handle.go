package engine

// Handle is a stable integer reference to an entity owned by an arena
// (a body and its collider share one handle). The zero Handle means "none".
// Handles are never reused, so a stale handle simply fails to resolve
// instead of pointing at a different entity.
type Handle uint64

// IsValid returns true if the handle refers to something (non-zero).
// Note: This doesn't check if the entity still exists in its arena.
func (h Handle) IsValid() bool {
	return h != 0
}

// HandleAllocator hands out monotonically increasing handles.
type HandleAllocator struct {
	last Handle
}

// Next returns a fresh, never-before-issued handle.
func (a *HandleAllocator) Next() Handle {
	a.last++
	return a.last
}

// Last returns the most recently issued handle (0 if none).
func (a *HandleAllocator) Last() Handle {
	return a.last
}
