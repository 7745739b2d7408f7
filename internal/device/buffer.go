package device

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"unsafe"
)

// ErrAllocation reports that the accelerator could not provide memory.
// Allocation is attempted exactly once and never retried.
var ErrAllocation = errors.New("device: accelerator allocation failed")

// Buffer is a region of device-resident memory in one of two ownership
// modes: owned (allocated here, freed on release) or borrowed (a view into
// memory owned by an external object, never freed here).
//
// Exactly one owner releases any given buffer. Releasing a borrowed buffer
// only drops the retained reference to its external owner.
type Buffer struct {
	ptr      unsafe.Pointer
	size     int
	backend  Backend
	owned    bool
	owner    any // retained external owner, borrowed buffers only
	released atomic.Bool
}

// Allocate obtains an owned device buffer of size bytes.
// A finalizer backstops Release so abandoned buffers do not leak device
// memory, but callers should release explicitly.
func Allocate(b Backend, size int) (*Buffer, error) {
	ptr, err := b.Alloc(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	buf := &Buffer{ptr: ptr, size: size, backend: b, owned: true}
	runtime.SetFinalizer(buf, (*Buffer).Release)
	return buf, nil
}

// MapExternal wraps a foreign device pointer without taking ownership.
// owner is retained for the lifetime of the buffer so the foreign memory
// outlives every view derived from it. The wrapped pointer is never freed.
func MapExternal(b Backend, ptr unsafe.Pointer, size int, owner any) *Buffer {
	return &Buffer{ptr: ptr, size: size, backend: b, owner: owner}
}

// Ptr returns the device pointer.
func (buf *Buffer) Ptr() unsafe.Pointer {
	return buf.ptr
}

// Size returns the buffer size in bytes.
func (buf *Buffer) Size() int {
	return buf.size
}

// Owned reports whether release deallocates the memory.
func (buf *Buffer) Owned() bool {
	return buf.owned
}

// Backend returns the backend the buffer lives on.
func (buf *Buffer) Backend() Backend {
	return buf.backend
}

// Released reports whether the buffer has been released.
func (buf *Buffer) Released() bool {
	return buf.released.Load()
}

// Release destroys the buffer exactly once. Owned memory is deallocated at
// this point; for borrowed memory the retained owner reference is dropped
// and nothing is freed. Further calls are no-ops.
func (buf *Buffer) Release() {
	if !buf.released.CompareAndSwap(false, true) {
		return
	}
	if buf.owned {
		buf.backend.Free(buf.ptr)
	}
	buf.ptr = nil
	buf.owner = nil
	runtime.SetFinalizer(buf, nil)
}
