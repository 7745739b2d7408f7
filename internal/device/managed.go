package device

import (
	"sync/atomic"
	"unsafe"
)

// ManagedBuffer is a reference-counted handle to a device buffer that is
// also host-addressable after a flush. Views derived from the buffer retain
// the handle; the memory is freed only when the last reference is released.
type ManagedBuffer struct {
	buf  *Buffer
	refs atomic.Int32
}

// NewManaged allocates a managed buffer with an initial reference count of 1.
// The caller of NewManaged is the documented owner responsible for release.
func NewManaged(b Backend, size int) (*ManagedBuffer, error) {
	buf, err := Allocate(b, size)
	if err != nil {
		return nil, err
	}
	m := &ManagedBuffer{buf: buf}
	m.refs.Store(1)
	return m, nil
}

// Retain increments the reference count for a derived view.
func (m *ManagedBuffer) Retain() {
	m.refs.Add(1)
}

// Release decrements the reference count and frees the device memory when
// it reaches zero.
func (m *ManagedBuffer) Release() {
	if m.refs.Add(-1) == 0 {
		m.buf.Release()
	}
}

// Refs returns the current reference count.
func (m *ManagedBuffer) Refs() int {
	return int(m.refs.Load())
}

// Buffer returns the underlying device buffer.
func (m *ManagedBuffer) Buffer() *Buffer {
	return m.buf
}

// Ptr returns the device pointer.
func (m *ManagedBuffer) Ptr() unsafe.Pointer {
	return m.buf.Ptr()
}

// Size returns the buffer size in bytes.
func (m *ManagedBuffer) Size() int {
	return m.buf.Size()
}

// Bytes forces completion of all deferred work and returns a host copy of
// the buffer contents.
func (m *ManagedBuffer) Bytes() ([]byte, error) {
	if err := m.buf.Backend().Flush(); err != nil {
		return nil, err
	}
	return m.buf.Backend().Download(m.buf.Ptr(), 0, m.buf.Size())
}
