package ui

import "github.com/nicky-ayoub/ebitview/internal/viewport"

type resizeHandler struct {
	id uint32
	fn func(viewport.Size)
}

type resizeRegistry struct {
	handlers []resizeHandler
	nextID   uint32
}

// ResizeHandle allows removing a registered resize callback.
type ResizeHandle struct {
	id  uint32
	reg *resizeRegistry
}

// Remove unregisters the callback. Removing twice is a no-op.
func (h ResizeHandle) Remove() {
	if h.reg == nil {
		return
	}
	// Build a new slice so a fire in progress keeps iterating the old one.
	s := h.reg.handlers
	for i := range s {
		if s[i].id == h.id {
			kept := make([]resizeHandler, 0, len(s)-1)
			kept = append(kept, s[:i]...)
			h.reg.handlers = append(kept, s[i+1:]...)
			return
		}
	}
}

func (r *resizeRegistry) add(fn func(viewport.Size)) ResizeHandle {
	r.nextID++
	r.handlers = append(r.handlers, resizeHandler{id: r.nextID, fn: fn})
	return ResizeHandle{id: r.nextID, reg: r}
}

// fire calls every handler registered when it starts. Handlers may add or
// remove handlers; the change applies from the next fire.
func (r *resizeRegistry) fire(size viewport.Size) {
	hs := r.handlers
	for _, h := range hs {
		h.fn(size)
	}
}

func (r *resizeRegistry) clear() {
	r.handlers = nil
}

func (r *resizeRegistry) count() int {
	return len(r.handlers)
}
