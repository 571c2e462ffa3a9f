// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"sync/atomic"
)

// Handle owns a pointer to a native engine object together with the function
// that releases it. The release runs at most once: the first call to Destroy
// wins and every later call is a no-op. Using the pointer after the handle
// has been destroyed is a programming error and panics.
type Handle struct {
	name    string
	ptr     uintptr
	destroy func(uintptr)
	closed  int32
}

// NewHandle wraps a native pointer. The name is used in diagnostics and the
// destroy function is invoked exactly once when the handle is released.
func NewHandle(name string, ptr uintptr, destroy func(uintptr)) *Handle {
	return &Handle{
		name:    name,
		ptr:     ptr,
		destroy: destroy,
	}
}

// Pointer returns the native pointer. It panics if the handle was destroyed.
func (h *Handle) Pointer() uintptr {
	if atomic.LoadInt32(&h.closed) != 0 {
		panic("rdfox: use of destroyed " + h.name + " handle")
	}
	return h.ptr
}

// Destroy releases the native object. Only the first call has an effect.
func (h *Handle) Destroy() {
	if !atomic.CompareAndSwapInt32(&h.closed, 0, 1) {
		return
	}
	if h.destroy != nil && h.ptr != 0 {
		h.destroy(h.ptr)
	}
	h.ptr = 0
}

// Destroyed reports whether the handle has been released.
func (h *Handle) Destroyed() bool {
	return atomic.LoadInt32(&h.closed) != 0
}
